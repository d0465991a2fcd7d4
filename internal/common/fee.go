package common

import "github.com/shopspring/decimal"

// FeeRate is a (maker, taker) basis-point pair for a symbol, optionally scoped
// to a named tier. Maker rebates are represented as a negative MakerBps.
type FeeRate struct {
	MakerBps decimal.Decimal
	TakerBps decimal.Decimal
}

var bpsDivisor = decimal.NewFromInt(10000)

// Compute returns (makerFee, takerFee) for a trade of the given quantity at
// the given (maker) price, rounded half-to-even to the venue's currency
// precision. Negative MakerBps naturally produces a negative (rebate) fee.
func (r FeeRate) Compute(price, qty Quantity, precision int32) (makerFee, takerFee Price) {
	notional := price.Mul(qty)
	makerFee = notional.Mul(r.MakerBps).DivRound(bpsDivisor, precision+4).RoundBank(precision)
	takerFee = notional.Mul(r.TakerBps).DivRound(bpsDivisor, precision+4).RoundBank(precision)
	return makerFee, takerFee
}

// FeeTable resolves a FeeRate for a given symbol and optional fee tier. It is
// read-only at matching time; swapping in a new table is a between-commands
// operation performed by the caller holding the engine's configuration lock.
type FeeTable interface {
	RateFor(symbol, tier string) FeeRate
}

// FlatFeeTable is the simplest FeeTable: one rate for every symbol and tier,
// satisfying the "fee table as a pluggable function" open question by being
// the default pluggable implementation; a venue with per-symbol or
// volume-tiered schedules supplies its own FeeTable.
type FlatFeeTable struct {
	Rate FeeRate
}

func (f FlatFeeTable) RateFor(string, string) FeeRate { return f.Rate }

// SymbolFeeTable looks up a rate per-symbol, falling back to Default when the
// symbol is not explicitly configured. Fee tiers are not differentiated here;
// a tiering FeeTable can wrap this one.
type SymbolFeeTable struct {
	Default FeeRate
	Rates   map[string]FeeRate
}

func (f SymbolFeeTable) RateFor(symbol, _ string) FeeRate {
	if r, ok := f.Rates[symbol]; ok {
		return r
	}
	return f.Default
}
