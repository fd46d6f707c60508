package portfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestPaperBookApplyFill(t *testing.T) {
	b := NewPaperBook(100_000, zap.NewNop())

	b.ApplyFill("AAPL.XNAS", 100, 150)

	assert.Equal(t, 100.0, b.Positions()["AAPL.XNAS"])
	assert.Equal(t, 85_000.0, b.Cash())
	assert.Equal(t, 100_000.0, b.PortfolioValue(), "buying at the mark does not change total value")
}

func TestPaperBookSellReleasesCash(t *testing.T) {
	b := NewPaperBook(100_000, zap.NewNop())

	b.ApplyFill("AAPL.XNAS", 100, 150)
	b.ApplyFill("AAPL.XNAS", -40, 160)

	assert.Equal(t, 60.0, b.Positions()["AAPL.XNAS"])
	assert.Equal(t, 91_400.0, b.Cash())
}

func TestPaperBookMarkPriceMovesValue(t *testing.T) {
	b := NewPaperBook(100_000, zap.NewNop())

	b.ApplyFill("AAPL.XNAS", 100, 150)
	b.MarkPrice("AAPL.XNAS", 155)

	assert.Equal(t, 100_500.0, b.PortfolioValue())
	assert.Equal(t, 15_500.0, b.PositionsUSD()["AAPL.XNAS"])
}

func TestPaperBookIgnoresNonPositiveMark(t *testing.T) {
	b := NewPaperBook(100_000, zap.NewNop())

	b.MarkPrice("AAPL.XNAS", 150)
	b.MarkPrice("AAPL.XNAS", 0)
	b.MarkPrice("AAPL.XNAS", -1)

	assert.Equal(t, 150.0, b.LastPrice("AAPL.XNAS"))
}

func TestPaperBookPositionsReturnsCopy(t *testing.T) {
	b := NewPaperBook(100_000, zap.NewNop())
	b.ApplyFill("AAPL.XNAS", 100, 150)

	positions := b.Positions()
	positions["AAPL.XNAS"] = 0

	assert.Equal(t, 100.0, b.Positions()["AAPL.XNAS"])
}
