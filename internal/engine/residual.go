package engine

import "github.com/saiputravu/aurum/internal/common"

// finalizeResidual applies step 6 of the submit algorithm: deciding order's
// terminal-or-resting status after matching, and adding any GTC/GTD/DAY
// remainder back onto the book. It assumes order has already been through
// runMatch (and, for FOK, the feasibility pre-check).
func (e *Engine) finalizeResidual(sym *symbolState, order *common.Order, touched map[touchedLevel]bool) {
	if order.Status == common.Cancelled {
		// Self-trade prevention (stp.go) already cancelled this order as the
		// incoming side of a self-trade. It never rests, regardless of what
		// Remaining() reports now; any quantity it traded before the cancel
		// stays recorded in Filled.
		sym.markTerminal(order.ID)
		return
	}

	if order.Remaining().Sign() == 0 {
		order.Status = common.Filled
		sym.markTerminal(order.ID)
		return
	}

	switch {
	case order.Type == common.Market:
		cancelResidual(sym, order)
	case order.TIF == common.IOC:
		cancelResidual(sym, order)
	case order.TIF == common.FOK:
		// The feasibility pre-check guarantees a full fill; reaching here
		// means matching and simulation disagreed, which is a bug in one of
		// them, not a condition a caller can recover from.
		panic("engine: FOK order left a residual after a feasible pre-check")
	default: // GTC, GTD, DAY
		if order.Filled.Sign() == 0 {
			order.Status = common.New
		} else {
			order.Status = common.PartiallyFilled
		}
		if err := sym.book.Add(order); err != nil {
			panic("engine: failed to rest residual order with a freshly assigned id: " + err.Error())
		}
		touched[touchedLevel{order.Side, order.Price}] = true
	}
}

// cancelResidual finalizes a Market or IOC order's unfilled remainder. The
// order was never added to the book, so there is nothing to remove; only its
// reported status needs to reflect the outcome.
func cancelResidual(sym *symbolState, order *common.Order) {
	if order.Filled.Sign() == 0 {
		order.Status = common.Cancelled
	} else {
		order.Status = common.PartiallyFilled
	}
	order.CancelReason = common.ReasonIOCResidual
	sym.markTerminal(order.ID)
}
