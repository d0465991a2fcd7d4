package bus

import (
	"fmt"

	"github.com/saiputravu/aurum/internal/common"
)

// Topic name helpers. Per-symbol topics follow "<kind>.<symbol>"; private
// per-user order topics follow "orders.<user>"; wildcard variants fan out a
// copy of every symbol's events on "<kind>.*" under their own sequence.
func TradesTopic(symbol string) string  { return fmt.Sprintf("trades.%s", symbol) }
func BookTopic(symbol string) string    { return fmt.Sprintf("book.%s", symbol) }
func TickerTopic(symbol string) string  { return fmt.Sprintf("ticker.%s", symbol) }
func OrdersTopic(user common.UserID) string { return fmt.Sprintf("orders.%s", user) }

const (
	WildcardTrades = "trades.*"
	WildcardBook   = "book.*"
	WildcardTicker = "ticker.*"
)

// BookSnapshotPayload is the initial state dump delivered on subscribe to a
// book topic, before the delta stream resumes at Sequence+1.
type BookSnapshotPayload struct {
	Symbol string
	Bids   []LevelView
	Asks   []LevelView
}

// LevelView mirrors book.LevelView without importing the book package,
// keeping bus a leaf dependency of common only.
type LevelView struct {
	Price common.Price
	Qty   common.Quantity
	Count int
}

// BookDeltaPayload is an incremental change to one price level.
// NewQuantity == 0 means the level was removed entirely.
type BookDeltaPayload struct {
	Symbol      string
	Side        common.Side
	Price       common.Price
	NewQuantity common.Quantity
}

// TickerPayload summarizes the current top of book.
type TickerPayload struct {
	Symbol   string
	BestBid  common.Price
	BestAsk  common.Price
	HasBid   bool
	HasAsk   bool
	Spread   common.Price
	MidPrice common.Price
}

// OrderUpdatePayload is delivered privately to the owning user on every
// status transition of one of their orders.
type OrderUpdatePayload struct {
	Order common.Order
}

// TradePayload wraps a trade print for the trades.<symbol> topic.
type TradePayload struct {
	Trade common.Trade
}

// PublishTrade emits a trade to its symbol topic and the trades wildcard.
func (b *Bus) PublishTrade(trade common.Trade) {
	payload := TradePayload{Trade: trade}
	b.Publish(TradesTopic(trade.Symbol), payload)
	b.Publish(WildcardTrades, payload)
}

// PublishBookDelta emits a book delta to its symbol topic and the book wildcard.
func (b *Bus) PublishBookDelta(symbol string, side common.Side, price, newQty common.Quantity) {
	payload := BookDeltaPayload{Symbol: symbol, Side: side, Price: price, NewQuantity: newQty}
	b.Publish(BookTopic(symbol), payload)
	b.Publish(WildcardBook, payload)
}

// PublishTicker emits a ticker update to its symbol topic and the ticker wildcard.
func (b *Bus) PublishTicker(t TickerPayload) {
	b.Publish(TickerTopic(t.Symbol), t)
	b.Publish(WildcardTicker, t)
}

// PublishOrderUpdate emits a private order status update to its owner's topic.
func (b *Bus) PublishOrderUpdate(order common.Order) {
	b.Publish(OrdersTopic(order.UserID), OrderUpdatePayload{Order: order})
}

// SubscribeBook subscribes to a symbol's book topic, atomically delivering a
// BookSnapshotPayload built from snapshotFn before any subsequent delta.
func (b *Bus) SubscribeBook(symbol string, depth int, snapshotFn func() ([]LevelView, []LevelView)) *Subscriber {
	return b.SubscribeWithSnapshot(BookTopic(symbol), 0, func() any {
		bids, asks := snapshotFn()
		return BookSnapshotPayload{Symbol: symbol, Bids: bids, Asks: asks}
	})
}
