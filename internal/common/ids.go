package common

import "github.com/google/uuid"

// OrderID uniquely identifies an order for the life of the process. Either a
// caller-supplied client id that the gateway passes through, or, when that is
// blank, a UUID string minted by the engine at submit time (NewOrderID, which
// the NewLimitOrder/NewMarketOrder constructors also call).
type OrderID string

// TradeID uniquely identifies a trade print.
type TradeID string

// UserID identifies the owner of an order. Authentication and session
// handling live entirely in the gateway; the core only ever sees this opaque
// identifier.
type UserID string

// NewOrderID mints a fresh, globally unique order id.
func NewOrderID() OrderID {
	return OrderID(uuid.New().String())
}

// NewTradeID mints a fresh, globally unique trade id.
func NewTradeID() TradeID {
	return TradeID(uuid.New().String())
}
