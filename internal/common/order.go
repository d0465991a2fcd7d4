package common

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the resident unit of the book. Its price level (see
// internal/book) holds a pointer to it in FIFO order — there are no
// back-pointers from an order to its level or book, per the cyclic-reference
// re-architecture note: the book owns levels, levels own an ordered sequence
// of orders, and a separate id index resolves an id back to its (side,
// price) location.
type Order struct {
	ID       OrderID
	Symbol   string
	Side     Side
	Type     OrderType
	Price    Price    // zero/invalid for Market; must be > 0 for Limit
	HasPrice bool     // true iff Price is meaningful (Limit orders)
	Quantity Quantity // originally requested quantity; never mutated after submission
	Filled   Quantity // cumulative quantity matched against a counterparty (sum of this order's trade quantities)

	// STPDecrement is cumulative quantity removed by self-trade-prevention's
	// DecrementBoth mode (spec.md §4.3.3). It is tracked separately from
	// Filled because it produces no Trade, and separately from Quantity
	// because Quantity must keep reporting the originally requested size to
	// external callers (GetOrder, event payloads) even after a decrement.
	STPDecrement Quantity

	Status Status
	UserID UserID

	SubmitTime time.Time
	TIF        TIF
	STPMode    STPMode
	PostOnly   bool

	// ExpireTime is required iff TIF is GTD or DAY, and holds the explicit
	// (GTD) or gateway-supplied session-end (DAY) expiry instant.
	ExpireTime time.Time

	// FeeTier is an opaque tag the gateway may attach to select a fee
	// schedule; the engine resolves it through the pluggable fee table.
	FeeTier string

	// CancelReason explains a terminal Cancelled/Rejected/Expired status,
	// used only for event payloads/diagnostics — never branched on by the
	// matching algorithm itself.
	CancelReason CancelReason
}

// Remaining returns quantity not yet filled or STP-decremented. Invariant:
// always >= 0.
func (o *Order) Remaining() Quantity {
	return o.Quantity.Sub(o.Filled).Sub(o.STPDecrement)
}

// DecrementSTP reduces Remaining by qty via self-trade-prevention's
// DecrementBoth mode, without recording it against Filled (so Filled stays an
// exact record of traded quantity) and without touching Quantity (so
// GetOrder/event payloads keep reporting the originally requested size).
// Precondition: qty > 0 and qty <= Remaining().
func (o *Order) DecrementSTP(qty Quantity) {
	o.STPDecrement = o.STPDecrement.Add(qty)
	if o.Remaining().Sign() > 0 && o.Filled.Sign() > 0 {
		o.Status = PartiallyFilled
	}
}

// IsTerminal reports whether the order can no longer be mutated.
func (o *Order) IsTerminal() bool {
	return o.Status.IsTerminal()
}

// Fill advances the order's filled quantity by qty and updates status.
// Precondition: qty > 0 and qty <= Remaining().
func (o *Order) Fill(qty Quantity) {
	o.Filled = o.Filled.Add(qty)
	if o.Filled.Equal(o.Quantity) {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
}

// Cancel marks the order Cancelled (or Rejected, for pre-book-mutation
// validation failures) for the given reason. It does not touch the book —
// callers are responsible for removing the order from its level/index.
func (o *Order) Cancel(status Status, reason CancelReason) {
	o.Status = status
	o.CancelReason = reason
}

// Clone returns a value copy, used whenever an immutable snapshot must leave
// the book (event payloads, outcome responses, modify rollback).
func (o Order) Clone() Order {
	return o
}

// Validate applies the syntactic and temporal checks from the submit
// algorithm's step 1. now is supplied by the gateway's logical clock.
func (o *Order) Validate(now time.Time) *Error {
	switch o.Type {
	case Limit:
		if !o.HasPrice || o.Price.Sign() <= 0 {
			return NewValidationError("Submit", "price", "limit order requires price > 0")
		}
	case Market:
		if o.HasPrice {
			return NewValidationError("Submit", "price", "market order must not carry a price")
		}
	}

	if o.Quantity.Sign() <= 0 {
		return NewValidationError("Submit", "quantity", "quantity must be > 0")
	}

	if o.TIF.RequiresExpiry() {
		if o.ExpireTime.IsZero() {
			return NewValidationError("Submit", "expire_time", "GTD/DAY requires an expire_time")
		}
		if !o.ExpireTime.After(now) {
			return NewValidationError("Submit", "expire_time", "expire_time must be in the future")
		}
	}

	if o.PostOnly && o.Type == Market {
		return NewValidationError("Submit", "post_only", "post_only is incompatible with market orders")
	}

	return nil
}

// NewLimitOrder builds a Limit order value with sane defaults, for use by
// gateways and tests constructing submit requests.
func NewLimitOrder(symbol string, side Side, price Price, qty Quantity, user UserID) Order {
	return Order{
		ID:       NewOrderID(),
		Symbol:   symbol,
		Side:     side,
		Type:     Limit,
		Price:    price,
		HasPrice: true,
		Quantity: qty,
		Filled:   decimal.Zero,
		Status:   New,
		UserID:   user,
		TIF:      GTC,
	}
}

// NewMarketOrder builds a Market order value with sane defaults.
func NewMarketOrder(symbol string, side Side, qty Quantity, user UserID) Order {
	return Order{
		ID:       NewOrderID(),
		Symbol:   symbol,
		Side:     side,
		Type:     Market,
		Quantity: qty,
		Filled:   decimal.Zero,
		Status:   New,
		UserID:   user,
		TIF:      IOC,
	}
}
