package engine

import (
	"github.com/saiputravu/aurum/internal/book"
	"github.com/saiputravu/aurum/internal/bus"
	"github.com/saiputravu/aurum/internal/common"
)

// GetOrder returns a point-in-time copy of a resident order, or ok=false if
// it is not currently resting (never existed, already terminal, or already
// removed).
func (e *Engine) GetOrder(symbol string, id common.OrderID) (common.Order, bool) {
	sym, serr := e.getSymbol(symbol)
	if serr != nil {
		return common.Order{}, false
	}
	sym.mu.RLock()
	defer sym.mu.RUnlock()
	order, ok := sym.book.GetOrder(id)
	if !ok {
		return common.Order{}, false
	}
	return order.Clone(), true
}

// BookSnapshot returns the top-depth levels of symbol's book as bus.LevelView
// slices, ready for direct use as a subscription snapshot payload.
func (e *Engine) BookSnapshot(symbol string, depth int) (bids, asks []bus.LevelView, sequence uint64, ok bool) {
	sym, serr := e.getSymbol(symbol)
	if serr != nil {
		return nil, nil, 0, false
	}
	if depth <= 0 {
		depth = e.depth
	}
	sym.mu.RLock()
	defer sym.mu.RUnlock()
	bookBids, bookAsks, seq := sym.book.Snapshot(depth)
	return toLevelViews(bookBids), toLevelViews(bookAsks), seq, true
}

func toLevelViews(levels []book.LevelView) []bus.LevelView {
	out := make([]bus.LevelView, len(levels))
	for i, l := range levels {
		out[i] = bus.LevelView{Price: l.Price, Qty: l.Qty, Count: l.Count}
	}
	return out
}

// SubscribeBook subscribes to symbol's live book feed, delivering a snapshot
// (captured atomically with respect to any in-flight command, per the
// symbol's lock) followed by every subsequent delta.
func (e *Engine) SubscribeBook(symbol string, depth int) (*bus.Subscriber, bool) {
	sym, serr := e.getSymbol(symbol)
	if serr != nil {
		return nil, false
	}
	if depth <= 0 {
		depth = e.depth
	}
	// Lock ordering matters here: every command path takes sym.mu and then,
	// while still holding it, takes the bus's per-topic lock via Publish. To
	// avoid a lock inversion against that path, sym.mu is held for the
	// entire SubscribeBook call, not just re-acquired inside snapshotFn.
	sym.mu.RLock()
	defer sym.mu.RUnlock()
	sub := e.bus.SubscribeBook(symbol, depth, func() ([]bus.LevelView, []bus.LevelView) {
		bids, asks, _ := sym.book.Snapshot(depth)
		return toLevelViews(bids), toLevelViews(asks)
	})
	return sub, true
}
