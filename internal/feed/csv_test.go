package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/pkg/types"
)

func writeReplayFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "bars.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func collectBars(t *testing.T, s Source) []*types.Bar {
	t.Helper()

	var bars []*types.Bar
	timeout := time.After(5 * time.Second)
	for {
		select {
		case bar, ok := <-s.Bars():
			if !ok {
				return bars
			}
			bars = append(bars, bar)
		case <-timeout:
			t.Fatal("timed out waiting for bars")
		}
	}
}

func TestReplaySourceStreamsFileInOrder(t *testing.T) {
	path := writeReplayFile(t,
		"instrument_id,ts_event,open,high,low,close,volume\n"+
			"AAPL.XNAS,1000000000,100,101,99,100.5,5000\n"+
			"MSFT.XNAS,1000000000,300,301,299,300.5,2000\n"+
			"AAPL.XNAS,61000000000,100.5,102,100,101,6000\n")

	s := NewReplaySource(path, 10, zap.NewNop())
	require.NoError(t, s.Start())

	bars := collectBars(t, s)
	require.Len(t, bars, 3)

	assert.Equal(t, "AAPL.XNAS", bars[0].InstrumentID)
	assert.Equal(t, int64(1_000_000_000), bars[0].TsEvent)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 5000.0, bars[0].Volume)
	assert.Equal(t, "MSFT.XNAS", bars[1].InstrumentID)
	assert.Equal(t, int64(61_000_000_000), bars[2].TsEvent)
}

func TestReplaySourceSkipsBadRecords(t *testing.T) {
	path := writeReplayFile(t,
		"instrument_id,ts_event,open,high,low,close,volume\n"+
			"AAPL.XNAS,not-a-number,100,101,99,100.5,5000\n"+
			"AAPL.XNAS,1000000000,100,101,99,100.5,5000\n")

	s := NewReplaySource(path, 10, zap.NewNop())
	require.NoError(t, s.Start())

	bars := collectBars(t, s)
	require.Len(t, bars, 1)
	assert.Equal(t, int64(1_000_000_000), bars[0].TsEvent)
}

func TestReplaySourceMissingFile(t *testing.T) {
	s := NewReplaySource(filepath.Join(t.TempDir(), "missing.csv"), 10, zap.NewNop())
	require.Error(t, s.Start())
}

func TestParseBarRecordColumnCount(t *testing.T) {
	_, err := parseBarRecord([]string{"AAPL.XNAS", "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
}
