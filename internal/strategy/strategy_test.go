package strategy

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/optimizer"
	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/testutil"
	"github.com/mselser95/intraday-exec/pkg/types"
)

type submittedTarget struct {
	instrumentID string
	deltaQty     float64
	tsEvent      int64
}

type recordingSubmitter struct {
	bars    int
	targets []submittedTarget
}

func (r *recordingSubmitter) OnBar(*types.Bar) { r.bars++ }
func (r *recordingSubmitter) SubmitTarget(instrumentID string, deltaQty float64, tsEvent int64) {
	r.targets = append(r.targets, submittedTarget{instrumentID, deltaQty, tsEvent})
}

// mapModel returns a fixed alpha per instrument regardless of prices.
type mapModel map[string]float64

func (m mapModel) Alpha(instrumentID string, close, vwap float64) float64 {
	if close <= 0 {
		return 0
	}
	return m[instrumentID]
}

type failingSolver struct{}

func (failingSolver) Solve(*optimizer.Problem) ([]float64, error) {
	return nil, fmt.Errorf("did not converge")
}

func testConfig() Config {
	return Config{
		Instruments:       []string{"AAPL.XNAS", "MSFT.XNAS"},
		TradingCost:       0.005,
		RiskLambda:        0.001,
		MaxPositionWeight: 0.05,
		MaxTradeWeight:    0.05,
		MinTradeQty:       1,
		Logger:            zap.NewNop(),
	}
}

func newTestStrategy(cfg Config, sub TargetSubmitter, solver optimizer.Solver) (*Strategy, *portfolio.PaperBook) {
	book := portfolio.NewPaperBook(1_000_000, zap.NewNop())
	opt := optimizer.New(solver, zap.NewNop())
	s := New(cfg, opt, sub, book, nil, mapModel{"AAPL.XNAS": 0.5}, nil)
	return s, book
}

// monday is a weekday timestamp base, in nanoseconds.
var monday = time.Date(2024, time.January, 8, 15, 0, 0, 0, time.UTC).UnixNano()

func strategyBar(id string, ts int64, close float64) *types.Bar {
	return testutil.CreateTestBar(id, ts, close, 10_000)
}

func TestStrategySubmitsWaveTargets(t *testing.T) {
	sub := &recordingSubmitter{}
	s, _ := newTestStrategy(testConfig(), sub, optimizer.NewPenaltySolver(500, 1e-8))

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday, 100)))

	// Alpha 0.5/USD against lambda 0.001 saturates the 5% position cap:
	// 50k USD at 100 USD/share is 500 shares.
	require.Len(t, sub.targets, 1)
	assert.Equal(t, "AAPL.XNAS", sub.targets[0].instrumentID)
	assert.InDelta(t, 500, sub.targets[0].deltaQty, 1)
	assert.Equal(t, monday, sub.targets[0].tsEvent)
}

func TestStrategyMinuteGate(t *testing.T) {
	sub := &recordingSubmitter{}
	s, _ := newTestStrategy(testConfig(), sub, optimizer.NewPenaltySolver(500, 1e-8))

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday, 100)))
	waves := len(sub.targets)

	// Same minute: execution runs, no new wave.
	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday+30*int64(time.Second), 100)))
	assert.Len(t, sub.targets, waves)
	assert.Equal(t, 2, sub.bars, "every bar reaches the scheduler")

	// Next minute: a new wave runs.
	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday+int64(time.Minute), 100)))
	assert.Greater(t, len(sub.targets), waves)
}

func TestStrategySessionGate(t *testing.T) {
	saturday := time.Date(2024, time.January, 6, 15, 0, 0, 0, time.UTC).UnixNano()

	sub := &recordingSubmitter{}
	book := portfolio.NewPaperBook(1_000_000, zap.NewNop())
	opt := optimizer.New(optimizer.NewPenaltySolver(500, 1e-8), zap.NewNop())
	s := New(testConfig(), opt, sub, book, nil, mapModel{"AAPL.XNAS": 0.5}, WeekdaySession)

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", saturday, 100)))

	assert.Empty(t, sub.targets, "no waves outside the session")
	assert.Equal(t, 1, sub.bars, "active schedules still execute")
}

func TestStrategyFallbackSubmitsNothing(t *testing.T) {
	sub := &recordingSubmitter{}
	s, _ := newTestStrategy(testConfig(), sub, failingSolver{})

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday, 100)))

	assert.Empty(t, sub.targets, "hold-current fallback produces zero deltas")
}

func TestStrategyFiltersSmallTrades(t *testing.T) {
	cfg := testConfig()
	cfg.MinTradeQty = 10_000

	sub := &recordingSubmitter{}
	s, _ := newTestStrategy(cfg, sub, optimizer.NewPenaltySolver(500, 1e-8))

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday, 100)))

	assert.Empty(t, sub.targets, "deltas below the minimum trade size are dropped")
}

func TestStrategyMarksBook(t *testing.T) {
	sub := &recordingSubmitter{}
	s, book := newTestStrategy(testConfig(), sub, optimizer.NewPenaltySolver(500, 1e-8))

	require.NoError(t, s.OnBar(strategyBar("AAPL.XNAS", monday, 123.45)))

	assert.Equal(t, 123.45, book.LastPrice("AAPL.XNAS"))
}
