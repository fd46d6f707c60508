package types

import "fmt"

// OrderError represents an error that occurred during order submission.
type OrderError struct {
	Code         string // gateway error code or internal error code
	Message      string // human-readable error message
	OrderID      string // client order ID if available
	InstrumentID string
}

func (e *OrderError) Error() string {
	if e.OrderID != "" {
		return fmt.Sprintf("%s order failed (ID: %s): %s (%s)", e.InstrumentID, e.OrderID, e.Message, e.Code)
	}

	return fmt.Sprintf("%s order failed: %s (%s)", e.InstrumentID, e.Message, e.Code)
}

// Internal order error codes.
const (
	ErrGatewayHalted     = "GATEWAY_HALTED"
	ErrInvalidQuantity   = "INVALID_QUANTITY"
	ErrUnknownInstrument = "UNKNOWN_INSTRUMENT"
)
