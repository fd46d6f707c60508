package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mselser95/intraday-exec/internal/portfolio"
	"github.com/mselser95/intraday-exec/internal/storage"
	"github.com/mselser95/intraday-exec/pkg/types"
)

type stubBreaker struct {
	enabled   bool
	notionals []float64
}

func (b *stubBreaker) IsEnabled() bool                 { return b.enabled }
func (b *stubBreaker) RecordOrder(notionalUSD float64) { b.notionals = append(b.notionals, notionalUSD) }

type capturingStore struct {
	orders []*storage.OrderRecord
}

func (s *capturingStore) StoreDecision(context.Context, *storage.DecisionRecord) error { return nil }
func (s *capturingStore) StoreOrder(_ context.Context, rec *storage.OrderRecord) error {
	s.orders = append(s.orders, rec)
	return nil
}
func (s *capturingStore) Close() error { return nil }

func TestPaperGatewayMarketFill(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	book.MarkPrice("AAPL.XNAS", 150)

	breaker := &stubBreaker{enabled: true}
	store := &capturingStore{}
	g := NewPaperGateway(book, breaker, store, "twap", zap.NewNop())

	require.NoError(t, g.SubmitMarketOrder("AAPL.XNAS", types.SideBuy, 100))

	assert.Equal(t, 100.0, book.Positions()["AAPL.XNAS"])
	assert.Equal(t, 85_000.0, book.Cash())
	assert.Equal(t, []float64{15_000}, breaker.notionals)

	require.Len(t, store.orders, 1)
	assert.Equal(t, "MARKET", store.orders[0].OrderType)
	assert.Equal(t, "BUY", store.orders[0].Side)
	assert.Equal(t, "twap", store.orders[0].Algo)
	assert.NotEmpty(t, store.orders[0].OrderID)
}

func TestPaperGatewaySellReducesPosition(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	book.MarkPrice("AAPL.XNAS", 150)
	g := NewPaperGateway(book, nil, nil, "twap", zap.NewNop())

	require.NoError(t, g.SubmitMarketOrder("AAPL.XNAS", types.SideSell, 40))

	assert.Equal(t, -40.0, book.Positions()["AAPL.XNAS"])
}

func TestPaperGatewayLimitFillsAtLimitPrice(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	book.MarkPrice("AAPL.XNAS", 150)
	g := NewPaperGateway(book, nil, nil, "twap", zap.NewNop())

	require.NoError(t, g.SubmitLimitOrder("AAPL.XNAS", types.SideBuy, 10, 149.5))

	assert.InDelta(t, 100_000-10*149.5, book.Cash(), 1e-9)
}

func TestPaperGatewayHaltedByBreaker(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	book.MarkPrice("AAPL.XNAS", 150)
	g := NewPaperGateway(book, &stubBreaker{enabled: false}, nil, "twap", zap.NewNop())

	err := g.SubmitMarketOrder("AAPL.XNAS", types.SideBuy, 100)
	require.Error(t, err)

	var orderErr *types.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, types.ErrGatewayHalted, orderErr.Code)
	assert.Empty(t, book.Positions(), "halted orders never fill")
}

func TestPaperGatewayRejectsUnknownInstrument(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	g := NewPaperGateway(book, nil, nil, "twap", zap.NewNop())

	err := g.SubmitMarketOrder("MISSING.XNAS", types.SideBuy, 100)
	require.Error(t, err)

	var orderErr *types.OrderError
	require.ErrorAs(t, err, &orderErr)
	assert.Equal(t, types.ErrUnknownInstrument, orderErr.Code)
}

func TestPaperGatewayRejectsNonPositiveQty(t *testing.T) {
	book := portfolio.NewPaperBook(100_000, zap.NewNop())
	book.MarkPrice("AAPL.XNAS", 150)
	g := NewPaperGateway(book, nil, nil, "twap", zap.NewNop())

	for _, qty := range []float64{0, -10} {
		err := g.SubmitMarketOrder("AAPL.XNAS", types.SideBuy, qty)
		var orderErr *types.OrderError
		require.ErrorAs(t, err, &orderErr)
		assert.Equal(t, types.ErrInvalidQuantity, orderErr.Code)
	}
}
