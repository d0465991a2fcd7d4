package engine

import "github.com/saiputravu/aurum/internal/common"

// Submit runs the full submit algorithm for a new order: validation, the
// post-only and fill-or-kill pre-checks, matching, residual handling per
// time-in-force, and event publication. The returned Outcome's Order is
// always the final, terminal-or-resting state of the submitted order. A
// blank ID is replaced with a freshly assigned one once the order passes
// validation; an order rejected for an unknown symbol or by Validate is
// returned with the ID the caller supplied, blank or not.
func (e *Engine) Submit(order common.Order) Outcome {
	sym, serr := e.getSymbol(order.Symbol)
	if serr != nil {
		e.stats.recordRejected()
		order.Status = common.Rejected
		return Outcome{Order: order, Err: serr}
	}

	sym.mu.Lock()
	defer sym.mu.Unlock()
	return e.submitLocked(sym, order)
}

// submitLocked is Submit's body, factored out so Modify can run its
// cancel-then-resubmit as one atomic command while already holding the
// symbol's lock.
func (e *Engine) submitLocked(sym *symbolState, order common.Order) Outcome {
	now := e.clock.Now()
	if order.TIF == common.DAY && order.ExpireTime.IsZero() {
		order.ExpireTime = e.clock.SessionEnd(order.Symbol)
	}

	if verr := order.Validate(now); verr != nil {
		e.stats.recordRejected()
		order.Status = common.Rejected
		return Outcome{Order: order, Err: verr}
	}

	if order.ID == "" {
		order.ID = common.NewOrderID()
	}
	if order.SubmitTime.IsZero() {
		order.SubmitTime = now
	}

	b := sym.book
	before := captureTop(b)
	touched := make(map[touchedLevel]bool)

	if order.PostOnly && wouldMatch(b, &order) {
		order.Status = common.Rejected
		order.CancelReason = common.ReasonPostOnlyWouldMatch
		sym.markTerminal(order.ID)
		e.stats.recordRejected()
		e.publishOrderUpdate(order)
		return Outcome{Order: order, Err: common.NewPostOnlyError("Submit")}
	}

	if order.TIF == common.FOK && !simulateFeasible(b, &order) {
		order.Status = common.Rejected
		order.CancelReason = common.ReasonFOKInfeasible
		sym.markTerminal(order.ID)
		e.stats.recordRejected()
		e.publishOrderUpdate(order)
		return Outcome{Order: order, Err: common.NewFOKInfeasibleError("Submit")}
	}

	trades, cancelledIDs := e.runMatch(sym, &order, touched)

	e.finalizeResidual(sym, &order, touched)

	e.stats.recordAccepted()

	for _, trade := range trades {
		e.publishTrade(trade)
	}
	e.publishBookEvents(order.Symbol, b, touched, before)
	e.publishOrderUpdate(order)

	return Outcome{Order: order, Trades: trades, CancelledOrders: cancelledIDs}
}
