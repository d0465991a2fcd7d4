package engine

import (
	"github.com/saiputravu/aurum/internal/book"
	"github.com/saiputravu/aurum/internal/common"
)

// crosses reports whether level's price is still within taker's acceptable
// range. Market takers accept any price; Limit takers stop once the
// opposite side's best price no longer crosses their limit.
func crosses(taker *common.Order, levelPrice common.Price) bool {
	if taker.Type == common.Market {
		return true
	}
	if taker.Side == common.Buy {
		return levelPrice.LessThanOrEqual(taker.Price)
	}
	return levelPrice.GreaterThanOrEqual(taker.Price)
}

// runMatch sweeps the book opposite taker's side, consuming resting
// liquidity in price-time priority until taker is filled, the book runs out
// of crossing liquidity, or self-trade prevention halts the sweep. It
// mutates the book and both sides' orders directly; the caller is
// responsible for adding any residual back to the book per the order's TIF.
//
// touched accumulates every (side, price) level whose aggregate changed, so
// the caller can publish book deltas once after the whole command completes.
func (e *Engine) runMatch(sym *symbolState, taker *common.Order, touched map[touchedLevel]bool) ([]common.Trade, []common.OrderID) {
	b := sym.book
	var trades []common.Trade
	var cancelledIDs []common.OrderID

	// Resolved once per command so a concurrent SetFeeTable never changes the
	// rate partway through one taker's sweep.
	rate := e.feeRate(taker.Symbol, taker.FeeTier)

matchLoop:
	for taker.Remaining().Sign() > 0 {
		level, ok := b.BestOppositeLevel(taker.Side)
		if !ok {
			break
		}
		if !crosses(taker, level.Price) {
			break
		}

		resting := level.Front()
		if resting == nil {
			// Defensive: an empty level should already have been dropped by
			// whoever last emptied it.
			b.DropIfEmpty(taker.Side.Opposite(), level.Price)
			continue
		}

		if resting.UserID != "" && resting.UserID == taker.UserID {
			action := applySTP(sym, level, resting, taker, &cancelledIDs, touched)
			switch action {
			case stpSkipResting, stpDecremented:
				continue matchLoop
			case stpHalt:
				break matchLoop
			case stpProceed:
				// Fall through to a normal trade below.
			}
		}

		qty := common.MinQty(taker.Remaining(), resting.Remaining())
		price := resting.Price

		makerFee, takerFee := rate.Compute(price, qty, e.precision)

		trade := common.Trade{
			ID:         common.NewTradeID(),
			Symbol:     taker.Symbol,
			Price:      price,
			Quantity:   qty,
			MakerOrder: resting.ID,
			TakerOrder: taker.ID,
			MakerUser:  resting.UserID,
			TakerUser:  taker.UserID,
			MakerFee:   makerFee,
			TakerFee:   takerFee,
			Timestamp:  e.clock.Now(),
			MakerSide:  resting.Side,
		}

		resting.Fill(qty)
		taker.Fill(qty)
		level.DecrementFront(qty)
		touched[touchedLevel{resting.Side, resting.Price}] = true

		trades = append(trades, trade)
		e.stats.recordTrade()

		if resting.Remaining().IsZero() {
			b.Cancel(resting.ID)
			sym.markTerminal(resting.ID)
		}
	}

	return trades, cancelledIDs
}

// simulateFeasible answers the FOK pre-check (§4.3.1 step 3): can taker be
// completely filled right now, applying the same self-trade-prevention rules
// that real matching would? It walks the book read-only via ScanOpposite,
// tracking only a local "still needed" quantity — it never mutates orders or
// levels, so it is safe to call before deciding whether to commit to a real
// match.
func simulateFeasible(b *book.OrderBook, order *common.Order) bool {
	needed := order.Remaining()
	done := false

	b.ScanOpposite(order.Side, func(level *book.PriceLevel) bool {
		if done {
			return false
		}
		if !crosses(order, level.Price) {
			return false
		}

		for _, resting := range level.Orders() {
			restingRemaining := resting.Remaining()

			if resting.UserID != "" && resting.UserID == order.UserID {
				switch order.STPMode {
				case common.STPNone:
					// falls through to the normal accounting below
				case common.STPCancelResting:
					continue
				case common.STPCancelIncoming, common.STPCancelBoth:
					done = true
					return false
				case common.STPCancelSmallest:
					if restingRemaining.Cmp(needed) <= 0 {
						continue
					}
					done = true
					return false
				case common.STPDecrementBoth:
					dec := common.MinQty(restingRemaining, needed)
					needed = needed.Sub(dec)
					if needed.IsZero() {
						done = true
						return false
					}
					continue
				default:
					// unrecognized mode: be conservative and treat as blocking
					done = true
					return false
				}
			}

			q := common.MinQty(needed, restingRemaining)
			needed = needed.Sub(q)
			if needed.IsZero() {
				done = true
				return false
			}
		}
		return true
	})

	return needed.IsZero()
}

// wouldMatch answers the post-only pre-check (§4.3.1 step 2): would this
// order, if submitted right now, execute against at least one resting order?
// Market orders always would (and are independently rejected for carrying
// post_only at all, per Validate); a Limit order would match iff it crosses
// the best opposite price.
func wouldMatch(b *book.OrderBook, order *common.Order) bool {
	if order.Type == common.Market {
		return true
	}
	if order.Side == common.Buy {
		ask, ok := b.BestAsk()
		return ok && order.Price.GreaterThanOrEqual(ask)
	}
	bid, ok := b.BestBid()
	return ok && order.Price.LessThanOrEqual(bid)
}
