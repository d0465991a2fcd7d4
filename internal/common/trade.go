package common

import (
	"fmt"
	"time"
)

// Trade is an immutable execution print between a resting maker and an
// incoming taker. Trade price is always the maker's price.
type Trade struct {
	ID         TradeID
	Symbol     string
	Price      Price
	Quantity   Quantity
	MakerOrder OrderID
	TakerOrder OrderID
	MakerUser  UserID
	TakerUser  UserID
	MakerFee   Price // signed: negative denotes a rebate
	TakerFee   Price
	Timestamp  time.Time
	MakerSide  Side // the resting side of this trade
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade[%s] %s %s@%s qty=%s maker=%s(%s) taker=%s(%s) makerFee=%s takerFee=%s",
		t.ID, t.Symbol, t.MakerSide, t.Price, t.Quantity,
		t.MakerOrder, t.MakerUser, t.TakerOrder, t.TakerUser, t.MakerFee, t.TakerFee,
	)
}
