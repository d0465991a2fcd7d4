package common

import "github.com/shopspring/decimal"

// Price is an exact decimal price. Arithmetic on it is exact (shopspring/decimal
// is backed by a scaled big.Int), never floating point, per the data model's
// decimal arithmetic mandate. Ordering is total via decimal.Decimal.Cmp.
type Price = decimal.Decimal

// Quantity is an exact, non-negative decimal quantity.
type Quantity = decimal.Decimal

// ZeroQty is the zero quantity, used as a sentinel for "empty"/"no liquidity".
var ZeroQty = decimal.Zero

// ZeroPrice is the zero price, used as a sentinel for "no limit price" on
// market orders (distinct from an actual zero-valued limit, which is invalid).
var ZeroPrice = decimal.Zero

// MinQty returns the smaller of a and b.
func MinQty(a, b Quantity) Quantity {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
