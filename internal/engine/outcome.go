package engine

import "github.com/saiputravu/aurum/internal/common"

// Outcome is the result of a single engine command (Submit, Cancel, Modify).
// Trades and CancelledOrders are reported in the order they occurred; trades
// are also published to the bus in that order. Orders cancelled as a side
// effect (e.g. resting orders removed by STP) get no event of their own
// beyond the book deltas for their levels.
type Outcome struct {
	Order           common.Order
	Trades          []common.Trade
	CancelledOrders []common.OrderID
	Err             *common.Error
}

// Accepted reports whether the command completed without a validation or
// state error. A command that matched zero quantity but was otherwise valid
// (e.g. an IOC order against an empty book) is still Accepted.
func (o Outcome) Accepted() bool { return o.Err == nil }
