package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/saiputravu/aurum/internal/bus"
	"github.com/saiputravu/aurum/internal/common"
)

// fixedClock is a deterministic Clock for tests: Now() is pinned, and
// SessionEnd is always a fixed distance past it.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
func (c fixedClock) SessionEnd(string) time.Time {
	return c.now.Add(8 * time.Hour)
}

func newTestEngine(symbols ...string) *Engine {
	clock := fixedClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	fees := common.FlatFeeTable{Rate: common.FeeRate{MakerBps: decimal.Zero, TakerBps: decimal.Zero}}
	return New(symbols, clock, bus.New(), fees, 2, 10)
}

func px(s string) common.Price   { p, _ := decimal.NewFromString(s); return p }
func qty(s string) common.Quantity { q, _ := decimal.NewFromString(s); return q }

func limitOrder(symbol string, side common.Side, price, quantity string, user common.UserID) common.Order {
	o := common.NewLimitOrder(symbol, side, px(price), qty(quantity), user)
	return o
}

func marketOrder(symbol string, side common.Side, quantity string, user common.UserID) common.Order {
	return common.NewMarketOrder(symbol, side, qty(quantity), user)
}
