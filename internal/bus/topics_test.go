package bus

import (
	"testing"
	"time"

	"github.com/saiputravu/aurum/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkTestTrade(symbol string) common.Trade {
	return common.Trade{
		ID:        common.NewTradeID(),
		Symbol:    symbol,
		Price:     decimal.NewFromInt(100),
		Quantity:  decimal.NewFromInt(1),
		Timestamp: time.Now(),
	}
}

func TestSubscribeBook_DeliversSnapshotThenDeltas(t *testing.T) {
	b := New()
	bids := []LevelView{{Price: decimal.NewFromInt(99), Qty: decimal.NewFromInt(10), Count: 1}}
	asks := []LevelView{{Price: decimal.NewFromInt(101), Qty: decimal.NewFromInt(5), Count: 1}}

	sub := b.SubscribeBook("BTC-USD", 5, func() ([]LevelView, []LevelView) {
		return bids, asks
	})

	b.PublishBookDelta("BTC-USD", common.Buy, decimal.NewFromInt(99), decimal.NewFromInt(20))

	snapEv := <-sub.Events()
	snap, ok := snapEv.Payload.(BookSnapshotPayload)
	require.True(t, ok)
	assert.Equal(t, "BTC-USD", snap.Symbol)
	assert.Len(t, snap.Bids, 1)

	deltaEv := <-sub.Events()
	assert.Equal(t, snapEv.Sequence+1, deltaEv.Sequence)
	delta, ok := deltaEv.Payload.(BookDeltaPayload)
	require.True(t, ok)
	assert.True(t, delta.NewQuantity.Equal(decimal.NewFromInt(20)))
}

func TestPublishOrderUpdate_IsPrivatePerUser(t *testing.T) {
	b := New()
	aliceSub := b.Subscribe(OrdersTopic("alice"), 4)
	bobSub := b.Subscribe(OrdersTopic("bob"), 4)

	b.PublishOrderUpdate(common.Order{ID: "o1", UserID: "alice"})

	ev := <-aliceSub.Events()
	update := ev.Payload.(OrderUpdatePayload)
	assert.Equal(t, common.UserID("alice"), update.Order.UserID)

	select {
	case ev := <-bobSub.Events():
		t.Fatalf("bob should not receive alice's order update, got %+v", ev)
	case <-time.After(10 * time.Millisecond):
	}
}
