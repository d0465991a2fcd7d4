package book

import (
	"testing"

	"github.com/saiputravu/aurum/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func mkOrder(id string, qty int64) *common.Order {
	return &common.Order{
		ID:       common.OrderID(id),
		Quantity: decimal.NewFromInt(qty),
		Filled:   decimal.Zero,
	}
}

func TestPriceLevel_EnqueueMaintainsFIFOAndAggregate(t *testing.T) {
	level := NewPriceLevel(decimal.NewFromInt(100))
	level.Enqueue(mkOrder("a", 10))
	level.Enqueue(mkOrder("b", 5))
	level.Enqueue(mkOrder("c", 7))

	assert.True(t, level.AggregateQty().Equal(decimal.NewFromInt(22)))
	assert.Equal(t, common.OrderID("a"), level.Front().ID)
	assert.Equal(t, 3, level.OrderCount())
}

func TestPriceLevel_RemovePreservesOrderAndAggregate(t *testing.T) {
	level := NewPriceLevel(decimal.NewFromInt(100))
	level.Enqueue(mkOrder("a", 10))
	level.Enqueue(mkOrder("b", 5))
	level.Enqueue(mkOrder("c", 7))

	removed, ok := level.Remove("b")
	assert.True(t, ok)
	assert.Equal(t, common.OrderID("b"), removed.ID)
	assert.True(t, level.AggregateQty().Equal(decimal.NewFromInt(17)))
	assert.Equal(t, common.OrderID("a"), level.Front().ID)

	level.PopFront()
	assert.Equal(t, common.OrderID("c"), level.Front().ID)
	assert.True(t, level.AggregateQty().Equal(decimal.NewFromInt(7)))
}

func TestPriceLevel_RemoveMissingIDIsNoop(t *testing.T) {
	level := NewPriceLevel(decimal.NewFromInt(100))
	level.Enqueue(mkOrder("a", 10))
	_, ok := level.Remove("nonexistent")
	assert.False(t, ok)
	assert.Equal(t, 1, level.OrderCount())
}

func TestPriceLevel_AggregateMatchesRecompute(t *testing.T) {
	level := NewPriceLevel(decimal.NewFromInt(100))
	orders := []*common.Order{mkOrder("a", 10), mkOrder("b", 5), mkOrder("c", 7)}
	for _, o := range orders {
		level.Enqueue(o)
	}
	orders[1].Fill(decimal.NewFromInt(2))
	level.DecrementFront(decimal.Zero) // front unaffected, just exercising the path
	level.Remove("b")
	level.Enqueue(orders[1])

	assert.True(t, level.AggregateQty().Equal(level.recomputeAggregate()))
}

func TestPriceLevel_IsEmpty(t *testing.T) {
	level := NewPriceLevel(decimal.NewFromInt(100))
	assert.True(t, level.IsEmpty())
	level.Enqueue(mkOrder("a", 1))
	assert.False(t, level.IsEmpty())
	level.PopFront()
	assert.True(t, level.IsEmpty())
}
