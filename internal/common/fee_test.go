package common

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFeeRate_Compute(t *testing.T) {
	rate := FeeRate{
		MakerBps: decimal.NewFromInt(-5), // rebate
		TakerBps: decimal.NewFromInt(10),
	}

	price := decimal.NewFromFloat(150.50)
	qty := decimal.NewFromInt(100)

	makerFee, takerFee := rate.Compute(price, qty, 2)

	// notional = 15050; maker = 15050 * -5/10000 = -7.525 -> round-bank(2) = -7.52
	assert.True(t, makerFee.Equal(decimal.NewFromFloat(-7.52)), "got %s", makerFee)
	// taker = 15050 * 10/10000 = 15.05
	assert.True(t, takerFee.Equal(decimal.NewFromFloat(15.05)), "got %s", takerFee)
}

func TestFeeRate_HalfToEvenRounding(t *testing.T) {
	price := decimal.NewFromInt(1)
	qty := decimal.NewFromInt(1000)

	// notional=1000, fee=1000*125/10000=12.5 -> banker's rounding to 0dp ties to 12 (even).
	_, fee := FeeRate{TakerBps: decimal.NewFromInt(125)}.Compute(price, qty, 0)
	assert.True(t, fee.Equal(decimal.NewFromInt(12)), "got %s", fee)

	// notional=1000, fee=1000*135/10000=13.5 -> ties to 14 (even).
	_, fee = FeeRate{TakerBps: decimal.NewFromInt(135)}.Compute(price, qty, 0)
	assert.True(t, fee.Equal(decimal.NewFromInt(14)), "got %s", fee)
}

func TestSymbolFeeTable_FallsBackToDefault(t *testing.T) {
	table := SymbolFeeTable{
		Default: FeeRate{TakerBps: decimal.NewFromInt(10)},
		Rates: map[string]FeeRate{
			"BTC-USD": {TakerBps: decimal.NewFromInt(5)},
		},
	}

	assert.True(t, table.RateFor("BTC-USD", "").TakerBps.Equal(decimal.NewFromInt(5)))
	assert.True(t, table.RateFor("ETH-USD", "").TakerBps.Equal(decimal.NewFromInt(10)))
}
