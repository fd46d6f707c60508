package types

// Side is the direction of a child order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Urgency classifies how a child order crosses the market.
type Urgency string

const (
	// UrgencyPassive rests a limit order away from the market for price improvement.
	UrgencyPassive Urgency = "PASSIVE"
	// UrgencyAggressive takes liquidity immediately at the prevailing price.
	UrgencyAggressive Urgency = "AGGRESSIVE"
)

// ChildOrderIntent is one slice submitted against a parent execution schedule.
// Intents are ephemeral: they are forwarded to the order gateway and never stored
// by the execution core.
type ChildOrderIntent struct {
	InstrumentID string
	Side         Side
	Quantity     float64 // always a positive magnitude
	LimitPrice   float64 // 0 for market orders
	Urgency      Urgency
}

// SideForQty derives the order side from a signed quantity. The sign of a
// schedule's remaining quantity is fixed at creation, so this is evaluated
// once per schedule, not per bar.
func SideForQty(qty float64) Side {
	if qty > 0 {
		return SideBuy
	}
	return SideSell
}
