package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/aurum/internal/common"
)

func TestSTP_CancelIncoming_HaltsAndCancelsTaker(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "30", "M")
	taker.STPMode = common.STPCancelIncoming
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	assert.Equal(t, common.Cancelled, out.Order.Status)
	assert.Equal(t, common.ReasonSTP, out.Order.CancelReason)

	resting, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	require.True(t, ok)
	assert.True(t, resting.Remaining().Equal(qty("50")))
}

func TestSTP_CancelBoth_CancelsBothSides(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "30", "M")
	taker.STPMode = common.STPCancelBoth
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	assert.Equal(t, common.Cancelled, out.Order.Status)
	assert.ElementsMatch(t, []common.OrderID{restOut.Order.ID, out.Order.ID}, out.CancelledOrders)

	_, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	assert.False(t, ok)
}

func TestSTP_CancelSmallest_CancelsWhicheverIsSmaller(t *testing.T) {
	e := newTestEngine("BTC-USD")

	// Resting (30) is smaller than incoming (50): resting cancels, incoming
	// keeps hunting and, with nothing left to match, rests for 50.
	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "30", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "50", "M")
	taker.STPMode = common.STPCancelSmallest
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	assert.Equal(t, common.New, out.Order.Status)
	assert.True(t, out.Order.Remaining().Equal(qty("50")))
	assert.Contains(t, out.CancelledOrders, restOut.Order.ID)
}

func TestSTP_CancelSmallest_CancelsIncomingWhenSmaller(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "80", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "20", "M")
	taker.STPMode = common.STPCancelSmallest
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	assert.Equal(t, common.Cancelled, out.Order.Status)

	resting, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	require.True(t, ok)
	assert.True(t, resting.Remaining().Equal(qty("80"))) // untouched
}

func TestSTP_DecrementBoth_ReducesBothWithNoTrade(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "30", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "50", "M")
	taker.STPMode = common.STPDecrementBoth
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	// Resting (30) fully absorbed by the decrement -> cancelled.
	assert.Contains(t, out.CancelledOrders, restOut.Order.ID)
	_, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	assert.False(t, ok)

	// Incoming still has 20 left over (50 - 30) and rests for it.
	assert.Equal(t, common.New, out.Order.Status)
	assert.True(t, out.Order.Remaining().Equal(qty("20")))
}

func TestSTP_DecrementBoth_FullyConsumesIncoming(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "80", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "20", "M")
	taker.STPMode = common.STPDecrementBoth
	out := e.Submit(taker)
	require.True(t, out.Accepted())

	assert.Empty(t, out.Trades)
	assert.Equal(t, common.Cancelled, out.Order.Status)

	resting, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	require.True(t, ok)
	assert.True(t, resting.Remaining().Equal(qty("60")))
	// The originally requested quantity is preserved verbatim across a
	// DecrementBoth adjustment; only Remaining() reflects the decrement.
	assert.True(t, resting.Quantity.Equal(qty("80")))
}

// FOK feasibility must apply the same STP rules the real match would: a FOK
// order that would only be feasible by trading against its own resting
// order under STPCancelResting is infeasible, because that liquidity never
// counts.
func TestFOK_InfeasibleWhenOnlyLiquidityIsSelf(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, restOut.Accepted())

	taker := limitOrder("BTC-USD", common.Buy, "100", "50", "M")
	taker.TIF = common.FOK
	taker.STPMode = common.STPCancelResting
	out := e.Submit(taker)

	require.False(t, out.Accepted())
	assert.True(t, common.IsKind(out.Err, common.KindFillOrKillInfeasible))

	resting, ok := e.GetOrder("BTC-USD", restOut.Order.ID)
	require.True(t, ok)
	assert.True(t, resting.Remaining().Equal(qty("50")))
}
