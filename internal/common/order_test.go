package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_Validate_LimitRequiresPositivePrice(t *testing.T) {
	o := NewLimitOrder("BTC-USD", Buy, decimal.Zero, decimal.NewFromInt(1), "u1")
	err := o.Validate(time.Now())
	assert.NotNil(t, err)
	assert.Equal(t, KindInvalidArgument, err.Kind)
}

func TestOrder_Validate_MarketForbidsPrice(t *testing.T) {
	o := NewMarketOrder("BTC-USD", Buy, decimal.NewFromInt(1), "u1")
	o.HasPrice = true
	o.Price = decimal.NewFromInt(100)
	err := o.Validate(time.Now())
	assert.NotNil(t, err)
}

func TestOrder_Validate_GTDPastExpiryRejected(t *testing.T) {
	o := NewLimitOrder("BTC-USD", Buy, decimal.NewFromInt(100), decimal.NewFromInt(1), "u1")
	o.TIF = GTD
	o.ExpireTime = time.Now().Add(-time.Minute)
	err := o.Validate(time.Now())
	assert.NotNil(t, err)
	assert.Equal(t, "expire_time", err.Field)
}

func TestOrder_Validate_PostOnlyIncompatibleWithMarket(t *testing.T) {
	o := NewMarketOrder("BTC-USD", Buy, decimal.NewFromInt(1), "u1")
	o.PostOnly = true
	err := o.Validate(time.Now())
	assert.NotNil(t, err)
}

func TestOrder_Fill_TransitionsStatus(t *testing.T) {
	o := NewLimitOrder("BTC-USD", Buy, decimal.NewFromInt(100), decimal.NewFromInt(10), "u1")
	o.Fill(decimal.NewFromInt(4))
	assert.Equal(t, PartiallyFilled, o.Status)
	assert.True(t, o.Remaining().Equal(decimal.NewFromInt(6)))

	o.Fill(decimal.NewFromInt(6))
	assert.Equal(t, Filled, o.Status)
	assert.True(t, o.Remaining().IsZero())
}

func TestOrder_DecrementSTP_PreservesQuantityAndFilled(t *testing.T) {
	o := NewLimitOrder("BTC-USD", Buy, decimal.NewFromInt(100), decimal.NewFromInt(10), "u1")
	o.DecrementSTP(decimal.NewFromInt(4))

	assert.True(t, o.Quantity.Equal(decimal.NewFromInt(10)), "Quantity must stay the originally requested amount")
	assert.True(t, o.Filled.IsZero(), "DecrementSTP must not count toward Filled")
	assert.True(t, o.Remaining().Equal(decimal.NewFromInt(6)))

	o.DecrementSTP(decimal.NewFromInt(6))
	assert.True(t, o.Remaining().IsZero())
}
