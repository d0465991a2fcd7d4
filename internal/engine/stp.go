package engine

import (
	"github.com/saiputravu/aurum/internal/book"
	"github.com/saiputravu/aurum/internal/common"
)

// stpAction describes how applySTP resolved a self-trade candidate.
type stpAction int

const (
	// stpProceed means STPNone: the candidate trades normally.
	stpProceed stpAction = iota
	// stpSkipResting means the resting order was cancelled; advance to the
	// next candidate without trading against it.
	stpSkipResting
	// stpHalt means the incoming order's remainder was cancelled (possibly
	// along with the resting order too); stop matching entirely.
	stpHalt
	// stpDecremented means both sides were decremented with no trade;
	// continue the matching loop, re-checking the incoming remainder.
	stpDecremented
)

// applySTP resolves a same-user match according to taker.STPMode, mutating
// the book and the two orders as needed, and recording any order that
// reached a terminal status in cancelled. resting must be the front order of
// level (the only position STP ever evaluates, since it only ever concerns
// the next candidate match).
func applySTP(sym *symbolState, level *book.PriceLevel, resting, taker *common.Order, cancelled *[]common.OrderID, touched map[touchedLevel]bool) stpAction {
	b := sym.book
	switch taker.STPMode {
	case common.STPNone:
		return stpProceed

	case common.STPCancelResting:
		cancelResting(sym, level, resting, cancelled, touched)
		return stpSkipResting

	case common.STPCancelIncoming:
		cancelIncoming(sym, taker, cancelled)
		return stpHalt

	case common.STPCancelBoth:
		cancelResting(sym, level, resting, cancelled, touched)
		cancelIncoming(sym, taker, cancelled)
		return stpHalt

	case common.STPCancelSmallest:
		if resting.Remaining().Cmp(taker.Remaining()) <= 0 {
			// Resting is smaller, or tied; a tie cancels the resting side and
			// the incoming order keeps hunting further liquidity.
			cancelResting(sym, level, resting, cancelled, touched)
			return stpSkipResting
		}
		cancelIncoming(sym, taker, cancelled)
		return stpHalt

	case common.STPDecrementBoth:
		dec := common.MinQty(resting.Remaining(), taker.Remaining())
		level.DecrementFront(dec)
		touched[touchedLevel{resting.Side, resting.Price}] = true
		resting.DecrementSTP(dec)
		taker.DecrementSTP(dec)

		if resting.Remaining().IsZero() {
			resting.Cancel(common.Cancelled, common.ReasonSTP)
			*cancelled = append(*cancelled, resting.ID)
			b.Cancel(resting.ID) // already zero-remaining; aggregate already adjusted above
			sym.markTerminal(resting.ID)
		}
		if taker.Remaining().IsZero() {
			taker.Cancel(common.Cancelled, common.ReasonSTP)
			*cancelled = append(*cancelled, taker.ID)
			sym.markTerminal(taker.ID)
			return stpHalt
		}
		return stpDecremented

	default:
		return stpProceed
	}
}

func cancelResting(sym *symbolState, level *book.PriceLevel, resting *common.Order, cancelled *[]common.OrderID, touched map[touchedLevel]bool) {
	resting.Cancel(common.Cancelled, common.ReasonSTP)
	touched[touchedLevel{resting.Side, resting.Price}] = true
	sym.book.Cancel(resting.ID)
	sym.markTerminal(resting.ID)
	*cancelled = append(*cancelled, resting.ID)
	_ = level // level is implied by resting's (side, price); kept for call-site symmetry
}

func cancelIncoming(sym *symbolState, taker *common.Order, cancelled *[]common.OrderID) {
	taker.Cancel(common.Cancelled, common.ReasonSTP)
	sym.markTerminal(taker.ID)
	*cancelled = append(*cancelled, taker.ID)
}
