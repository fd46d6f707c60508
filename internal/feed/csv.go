package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/pkg/types"
)

// csvColumns is the expected header of a replay file:
// instrument_id,ts_event,open,high,low,close,volume with ts_event in
// nanoseconds since the Unix epoch.
const csvColumns = 7

// ReplaySource streams bars from a CSV file in file order. It drives
// paper trading and backtest-style runs without a live feed.
type ReplaySource struct {
	path    string
	logger  *zap.Logger
	barChan chan *types.Bar
	done    chan struct{}
}

// NewReplaySource creates a replay source for the given file.
func NewReplaySource(path string, bufferSize int, logger *zap.Logger) *ReplaySource {
	return &ReplaySource{
		path:    path,
		logger:  logger,
		barChan: make(chan *types.Bar, bufferSize),
		done:    make(chan struct{}),
	}
}

// Start opens the file and begins emitting bars. The bar channel closes
// when the file is exhausted.
func (s *ReplaySource) Start() error {
	f, err := os.Open(s.path)
	if err != nil {
		return fmt.Errorf("open replay file: %w", err)
	}

	reader := csv.NewReader(f)

	// Header row.
	_, err = reader.Read()
	if err != nil {
		f.Close()
		return fmt.Errorf("read replay header: %w", err)
	}

	s.logger.Info("replay-starting", zap.String("path", s.path))

	go func() {
		defer f.Close()
		defer close(s.barChan)

		var line int
		for {
			select {
			case <-s.done:
				return
			default:
			}

			record, err := reader.Read()
			if err == io.EOF {
				s.logger.Info("replay-finished", zap.Int("bars", line))
				return
			}
			if err != nil {
				s.logger.Warn("replay-read-error", zap.Error(err))
				return
			}
			line++

			bar, err := parseBarRecord(record)
			if err != nil {
				s.logger.Warn("replay-bad-record",
					zap.Int("line", line),
					zap.Error(err))
				continue
			}

			BarsReceivedTotal.Inc()
			s.barChan <- bar
		}
	}()

	return nil
}

// Bars implements Source.
func (s *ReplaySource) Bars() <-chan *types.Bar {
	return s.barChan
}

// Close stops replay early.
func (s *ReplaySource) Close() error {
	close(s.done)
	return nil
}

func parseBarRecord(record []string) (*types.Bar, error) {
	if len(record) != csvColumns {
		return nil, fmt.Errorf("expected %d columns, got %d", csvColumns, len(record))
	}

	ts, err := strconv.ParseInt(record[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse ts_event: %w", err)
	}

	vals := make([]float64, 5)
	for i, field := range record[2:] {
		vals[i], err = strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("parse column %d: %w", i+2, err)
		}
	}

	return &types.Bar{
		InstrumentID: record[0],
		TsEvent:      ts,
		Open:         vals[0],
		High:         vals[1],
		Low:          vals[2],
		Close:        vals[3],
		Volume:       vals[4],
	}, nil
}
