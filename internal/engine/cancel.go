package engine

import "github.com/saiputravu/aurum/internal/common"

// Cancel removes a resting order from its book. If id is not currently
// resident, it returns KindAlreadyTerminal when the symbol recognizes id as
// an order that previously reached a terminal status (e.g. it was already
// cancelled, or was filled by a match before this Cancel reached the
// critical section), and KindNotFound only when id is unrecognized entirely.
func (e *Engine) Cancel(symbol string, id common.OrderID, requester common.UserID) Outcome {
	sym, serr := e.getSymbol(symbol)
	if serr != nil {
		return Outcome{Err: serr}
	}

	sym.mu.Lock()
	defer sym.mu.Unlock()

	b := sym.book
	order, ok := b.GetOrder(id)
	if !ok {
		if sym.wasTerminal(id) {
			return Outcome{Err: common.NewAlreadyTerminalError("Cancel", id)}
		}
		return Outcome{Err: common.NewNotFoundError("Cancel", id)}
	}
	if requester != "" && order.UserID != requester {
		return Outcome{Err: common.NewUnauthorizedError("Cancel", id)}
	}

	before := captureTop(b)
	touched := map[touchedLevel]bool{{order.Side, order.Price}: true}

	removed, err := b.Cancel(id)
	if err != nil {
		return Outcome{Err: err}
	}
	removed.Cancel(common.Cancelled, common.ReasonUserRequested)
	sym.markTerminal(id)
	e.stats.recordCancel()

	e.publishBookEvents(symbol, b, touched, before)
	e.publishOrderUpdate(*removed)

	return Outcome{Order: *removed, CancelledOrders: []common.OrderID{id}}
}

// Modify atomically replaces a resting order with a new price/quantity,
// implemented as cancel-then-resubmit under the same symbol lock so no
// other command can observe the order missing from the book. The new order
// is assigned a fresh id and loses queue priority at its price, per the
// standard cancel-replace semantics. If the resubmit is rejected, the
// original order (same id, quantities and status) is put back on the book;
// it rejoins its price level at the back of the queue, so it does not keep
// the time priority it had before the Modify.
func (e *Engine) Modify(symbol string, id common.OrderID, requester common.UserID, newPrice common.Price, newQty common.Quantity) Outcome {
	sym, serr := e.getSymbol(symbol)
	if serr != nil {
		return Outcome{Err: serr}
	}

	sym.mu.Lock()
	defer sym.mu.Unlock()

	b := sym.book
	original, ok := b.GetOrder(id)
	if !ok {
		if sym.wasTerminal(id) {
			return Outcome{Err: common.NewAlreadyTerminalError("Modify", id)}
		}
		return Outcome{Err: common.NewNotFoundError("Modify", id)}
	}
	if requester != "" && original.UserID != requester {
		return Outcome{Err: common.NewUnauthorizedError("Modify", id)}
	}
	snapshot := original.Clone()

	before := captureTop(b)
	touched := map[touchedLevel]bool{{original.Side, original.Price}: true}

	removed, cerr := b.Cancel(id)
	if cerr != nil {
		return Outcome{Err: cerr}
	}
	removed.Cancel(common.Cancelled, common.ReasonModifyReplaced)

	replacement := snapshot
	replacement.ID = ""
	replacement.Price = newPrice
	replacement.Quantity = newQty
	replacement.Filled = common.ZeroQty
	replacement.STPDecrement = common.ZeroQty
	replacement.Status = common.New
	replacement.CancelReason = common.ReasonNone

	outcome := e.submitLocked(sym, replacement)
	if !outcome.Accepted() {
		// Put the original resting order back on the book. Add enqueues it
		// at the tail of its level, behind any orders already there.
		restored := snapshot
		if err := b.Add(&restored); err == nil {
			touched[touchedLevel{restored.Side, restored.Price}] = true
			e.publishBookEvents(symbol, b, touched, before)
			e.publishOrderUpdate(restored)
		}
		return Outcome{Order: restored, Err: outcome.Err}
	}

	sym.markTerminal(id)
	e.stats.recordCancel()
	return outcome
}
