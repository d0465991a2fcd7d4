package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saiputravu/aurum/internal/common"
)

// Cancel(id) then Cancel(id) -> second returns AlreadyTerminal (spec.md §7, §8).
func TestCancel_TwiceReturnsAlreadyTerminalOnSecondAttempt(t *testing.T) {
	e := newTestEngine("BTC-USD")

	out := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, out.Accepted())
	id := out.Order.ID

	first := e.Cancel("BTC-USD", id, "M")
	require.Nil(t, first.Err)
	assert.Equal(t, common.Cancelled, first.Order.Status)

	second := e.Cancel("BTC-USD", id, "M")
	require.Error(t, second.Err)
	assert.True(t, common.IsKind(second.Err, common.KindAlreadyTerminal))
}

// Cancel on an id that was never submitted returns NotFound, not AlreadyTerminal.
func TestCancel_UnknownIDReturnsNotFound(t *testing.T) {
	e := newTestEngine("BTC-USD")

	out := e.Cancel("BTC-USD", common.OrderID("never-existed"), "M")
	require.Error(t, out.Err)
	assert.True(t, common.IsKind(out.Err, common.KindNotFound))
}

// A resting order that gets fully filled by a match, then cancelled by its
// owner racing the fill, reports AlreadyTerminal (spec.md §5).
func TestCancel_AfterFullFillReturnsAlreadyTerminal(t *testing.T) {
	e := newTestEngine("BTC-USD")

	restOut := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, restOut.Accepted())

	takerOut := e.Submit(limitOrder("BTC-USD", common.Buy, "100", "50", "N"))
	require.True(t, takerOut.Accepted())
	require.Len(t, takerOut.Trades, 1)

	out := e.Cancel("BTC-USD", restOut.Order.ID, "M")
	require.Error(t, out.Err)
	assert.True(t, common.IsKind(out.Err, common.KindAlreadyTerminal))
}

// Modify on an already-cancelled id likewise reports AlreadyTerminal.
func TestModify_OnCancelledOrderReturnsAlreadyTerminal(t *testing.T) {
	e := newTestEngine("BTC-USD")

	out := e.Submit(limitOrder("BTC-USD", common.Sell, "100", "50", "M"))
	require.True(t, out.Accepted())
	id := out.Order.ID

	cancelOut := e.Cancel("BTC-USD", id, "M")
	require.Nil(t, cancelOut.Err)

	modOut := e.Modify("BTC-USD", id, "M", px("101"), qty("40"))
	require.Error(t, modOut.Err)
	assert.True(t, common.IsKind(modOut.Err, common.KindAlreadyTerminal))
}
