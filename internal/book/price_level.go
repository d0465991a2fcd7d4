// Package book implements the per-symbol order book: price levels ordered by
// price, each holding orders in FIFO arrival order, plus the id index that
// lets the engine resolve an order id back to its resting location.
package book

import (
	"github.com/saiputravu/aurum/internal/common"
)

// PriceLevel holds all resident orders at a single price, in FIFO arrival
// order, along with a cached aggregate of their remaining quantity. The
// aggregate is maintained incrementally on every mutation; AggregateQty() must
// always equal the sum of member Remaining()s.
type PriceLevel struct {
	Price common.Price

	orders []*common.Order
	// pos maps an order id to its current index in orders, so Remove finds
	// an order without scanning for it. Removal itself still shifts the
	// orders behind it and re-indexes them, which is O(n) in the level.
	pos map[common.OrderID]int

	aggregate common.Quantity
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price common.Price) *PriceLevel {
	return &PriceLevel{
		Price:     price,
		orders:    make([]*common.Order, 0, 4),
		pos:       make(map[common.OrderID]int, 4),
		aggregate: common.ZeroQty,
	}
}

// Enqueue appends order to the tail of the level (arrival order) and updates
// the aggregate. The caller owns order; the level stores the pointer so
// in-place fills are visible without a separate update call.
func (l *PriceLevel) Enqueue(order *common.Order) {
	l.pos[order.ID] = len(l.orders)
	l.orders = append(l.orders, order)
	l.aggregate = l.aggregate.Add(order.Remaining())
}

// Remove deletes the order with the given id from the level, if present, and
// returns it. Removal preserves the relative FIFO order of the remaining
// orders.
func (l *PriceLevel) Remove(id common.OrderID) (*common.Order, bool) {
	idx, ok := l.pos[id]
	if !ok {
		return nil, false
	}
	order := l.orders[idx]
	l.aggregate = l.aggregate.Sub(order.Remaining())
	l.orders = append(l.orders[:idx], l.orders[idx+1:]...)
	delete(l.pos, id)
	for i := idx; i < len(l.orders); i++ {
		l.pos[l.orders[i].ID] = i
	}
	return order, true
}

// Front returns the order at the head of the FIFO queue, or nil if empty.
func (l *PriceLevel) Front() *common.Order {
	if len(l.orders) == 0 {
		return nil
	}
	return l.orders[0]
}

// PopFront removes and returns the head order, or nil if empty.
func (l *PriceLevel) PopFront() *common.Order {
	front := l.Front()
	if front == nil {
		return nil
	}
	order, _ := l.Remove(front.ID)
	return order
}

// DecrementFront reduces the aggregate by qty to reflect a fill applied
// directly to the front order (the caller calls order.Fill separately; this
// keeps the cached aggregate in sync without rescanning).
func (l *PriceLevel) DecrementFront(qty common.Quantity) {
	l.aggregate = l.aggregate.Sub(qty)
}

// IsEmpty reports whether the level has no resident orders.
func (l *PriceLevel) IsEmpty() bool {
	return len(l.orders) == 0
}

// AggregateQty returns the cached sum of member remainings.
func (l *PriceLevel) AggregateQty() common.Quantity {
	return l.aggregate
}

// OrderCount returns the number of resident orders, used for depth snapshots.
func (l *PriceLevel) OrderCount() int {
	return len(l.orders)
}

// Orders returns the resident orders in FIFO order. The returned slice is
// owned by the level; callers must not retain it across a mutation.
func (l *PriceLevel) Orders() []*common.Order {
	return l.orders
}

// recomputeAggregate rescans member orders and returns the sum of their
// remainings, leaving the cached aggregate untouched; exposed for
// invariant-checking tests, never used on the hot path.
func (l *PriceLevel) recomputeAggregate() common.Quantity {
	total := common.ZeroQty
	for _, o := range l.orders {
		total = total.Add(o.Remaining())
	}
	return total
}
