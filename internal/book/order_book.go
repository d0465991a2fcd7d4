package book

import (
	"github.com/saiputravu/aurum/internal/common"
	"github.com/tidwall/btree"
)

// locator resolves an order id to its resting side and price, so Cancel and
// fill bookkeeping never need to scan a level to find an order's home.
type locator struct {
	side  common.Side
	price common.Price
}

// Levels is the generic ordered container backing both ladders. Bids are
// ordered highest price first, asks lowest price first — both trees present
// their best-price level first under Min()/MinMut(), mirroring the teacher's
// btree-backed order book.
type Levels = btree.BTreeG[*PriceLevel]

// LevelView is a read-only depth-snapshot entry: (price, aggregate quantity,
// order count) as required by Snapshot.
type LevelView struct {
	Price common.Price
	Qty   common.Quantity
	Count int
}

// OrderBook is the per-symbol bid/ask ladder plus id index. It carries no
// locking of its own: the matching engine is the sole mutator and is
// responsible for serializing access per symbol (per-symbol single-writer,
// §5). Methods here assume the caller already holds whatever discipline the
// engine imposes.
type OrderBook struct {
	Symbol string

	bids *Levels
	asks *Levels

	index map[common.OrderID]locator

	// sequence is the book's local mutation counter, surfaced in snapshots so
	// a consumer can align a snapshot with the event bus's delta sequence.
	sequence uint64
}

// NewOrderBook constructs an empty book for symbol.
func NewOrderBook(symbol string) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.GreaterThan(b.Price) // highest bid first
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.LessThan(b.Price) // lowest ask first
	})
	return &OrderBook{
		Symbol: symbol,
		bids:   bids,
		asks:   asks,
		index:  make(map[common.OrderID]locator),
	}
}

func (b *OrderBook) ladder(side common.Side) *Levels {
	if side == common.Buy {
		return b.bids
	}
	return b.asks
}

// Add places order at its price level (creating the level if needed) and
// updates the id index. Returns common.KindInvalidArgument if the id is
// already present.
func (b *OrderBook) Add(order *common.Order) *common.Error {
	if _, exists := b.index[order.ID]; exists {
		return common.NewValidationError("Add", "id", "order id already present in book")
	}
	ladder := b.ladder(order.Side)
	key := &PriceLevel{Price: order.Price}
	level, ok := ladder.GetMut(key)
	if !ok {
		level = NewPriceLevel(order.Price)
		ladder.Set(level)
	}
	level.Enqueue(order)
	b.index[order.ID] = locator{side: order.Side, price: order.Price}
	b.sequence++
	return nil
}

// Cancel removes the order with id from the book, returning it. Fails with
// KindNotFound if the id is absent from the index.
func (b *OrderBook) Cancel(id common.OrderID) (*common.Order, *common.Error) {
	loc, ok := b.index[id]
	if !ok {
		return nil, common.NewNotFoundError("Cancel", id)
	}
	ladder := b.ladder(loc.side)
	key := &PriceLevel{Price: loc.price}
	level, ok := ladder.GetMut(key)
	if !ok {
		return nil, common.NewInternalError("Cancel", "index referenced a price level that does not exist")
	}
	order, ok := level.Remove(id)
	if !ok {
		return nil, common.NewInternalError("Cancel", "index referenced an order not resident in its level")
	}
	if level.IsEmpty() {
		ladder.Delete(key)
	}
	delete(b.index, id)
	b.sequence++
	return order, nil
}

// Locate returns the resting side/price for id, used by the engine to route
// fill bookkeeping without re-deriving it from the order itself.
func (b *OrderBook) Locate(id common.OrderID) (common.Side, common.Price, bool) {
	loc, ok := b.index[id]
	return loc.side, loc.price, ok
}

// Level returns the resident price level for (side, price), if any.
func (b *OrderBook) Level(side common.Side, price common.Price) (*PriceLevel, bool) {
	ladder := b.ladder(side)
	return ladder.GetMut(&PriceLevel{Price: price})
}

// DropIfEmpty removes the level at (side, price) from the ladder if it has no
// resident orders. Used after the matching loop consumes a level's last
// order without going through Cancel.
func (b *OrderBook) DropIfEmpty(side common.Side, price common.Price) {
	ladder := b.ladder(side)
	key := &PriceLevel{Price: price}
	if level, ok := ladder.GetMut(key); ok && level.IsEmpty() {
		ladder.Delete(key)
	}
}

// BestBid returns the best (highest) bid price, or ok=false if the bid side
// is empty.
func (b *OrderBook) BestBid() (common.Price, bool) {
	level, ok := b.bids.Min()
	if !ok {
		return common.ZeroPrice, false
	}
	return level.Price, true
}

// BestAsk returns the best (lowest) ask price, or ok=false if the ask side is
// empty.
func (b *OrderBook) BestAsk() (common.Price, bool) {
	level, ok := b.asks.Min()
	if !ok {
		return common.ZeroPrice, false
	}
	return level.Price, true
}

// BestOppositeLevel returns the best level on the side opposite takerSide, or
// nil if empty. This is the entry point into the matching sweep.
func (b *OrderBook) BestOppositeLevel(takerSide common.Side) (*PriceLevel, bool) {
	return b.ladder(takerSide.Opposite()).MinMut()
}

// ScanOpposite walks the ladder opposite takerSide in match priority order,
// invoking fn with each resident level. fn returning false stops the scan.
// This never mutates the book; it is used by feasibility simulation (FOK)
// and by read-only diagnostics.
func (b *OrderBook) ScanOpposite(takerSide common.Side, fn func(level *PriceLevel) bool) {
	b.ladder(takerSide.Opposite()).Scan(fn)
}

// VolumeAt returns the aggregate resting quantity at (side, price), or zero
// if no level exists there.
func (b *OrderBook) VolumeAt(side common.Side, price common.Price) common.Quantity {
	level, ok := b.Level(side, price)
	if !ok {
		return common.ZeroQty
	}
	return level.AggregateQty()
}

// IsCrossed reports whether the book is in an illegal crossed state
// (best_bid >= best_ask). A healthy book never returns true at rest.
func (b *OrderBook) IsCrossed() bool {
	bid, bidOk := b.BestBid()
	ask, askOk := b.BestAsk()
	if !bidOk || !askOk {
		return false
	}
	return bid.GreaterThanOrEqual(ask)
}

// Snapshot returns the top-depth levels of each side as (price, qty, count)
// triples, plus the book's current local sequence.
func (b *OrderBook) Snapshot(depth int) (bids, asks []LevelView, sequence uint64) {
	bids = collectLevels(b.bids, depth)
	asks = collectLevels(b.asks, depth)
	return bids, asks, b.sequence
}

func collectLevels(tree *Levels, depth int) []LevelView {
	views := make([]LevelView, 0, depth)
	tree.Scan(func(level *PriceLevel) bool {
		views = append(views, LevelView{
			Price: level.Price,
			Qty:   level.AggregateQty(),
			Count: level.OrderCount(),
		})
		return len(views) < depth
	})
	return views
}

// GetOrder resolves an order id to its live resident order, if present.
func (b *OrderBook) GetOrder(id common.OrderID) (*common.Order, bool) {
	loc, ok := b.index[id]
	if !ok {
		return nil, false
	}
	level, ok := b.Level(loc.side, loc.price)
	if !ok {
		return nil, false
	}
	for _, o := range level.Orders() {
		if o.ID == id {
			return o, true
		}
	}
	return nil, false
}

// Sequence returns the book's local mutation counter.
func (b *OrderBook) Sequence() uint64 { return b.sequence }

// BumpSequence advances the local sequence counter without otherwise
// mutating the book; used by the sweeper so expirations still move the
// snapshot/delta alignment forward.
func (b *OrderBook) BumpSequence() { b.sequence++ }

// EachOrder walks every resident order across both ladders, in no particular
// order; used by the expiry sweeper and invariant checks.
func (b *OrderBook) EachOrder(fn func(*common.Order)) {
	b.bids.Scan(func(level *PriceLevel) bool {
		for _, o := range level.Orders() {
			fn(o)
		}
		return true
	})
	b.asks.Scan(func(level *PriceLevel) bool {
		for _, o := range level.Orders() {
			fn(o)
		}
		return true
	})
}

// IndexSize returns the number of orders tracked by the id index, used by
// invariant tests to confirm index<->level-membership bijection.
func (b *OrderBook) IndexSize() int { return len(b.index) }
