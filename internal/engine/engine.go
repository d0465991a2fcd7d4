// Package engine implements the per-symbol continuous matching engine:
// price-time priority matching, self-trade prevention, time-in-force
// handling, fee computation, and order lifecycle expiry. It owns the only
// mutex that touches a book (per-symbol single-writer): internal/book itself
// carries no locking, so every exported Engine method takes the relevant
// symbol's lock for the whole command, making multi-match Submit calls
// appear atomic to readers and other writers.
package engine

import (
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/saiputravu/aurum/internal/book"
	"github.com/saiputravu/aurum/internal/bus"
	"github.com/saiputravu/aurum/internal/common"
)

var decimalTwo = decimal.NewFromInt(2)

// terminalCacheSize bounds the number of recently-terminal order ids a
// symbol remembers, so a second Cancel/Modify on a since-filled-or-cancelled
// order can be distinguished from an id that never existed (spec.md §7, §8).
// Bounded rather than unbounded so a long-running venue's memory doesn't grow
// with every order it has ever fully processed.
const terminalCacheSize = 8192

// symbolState bundles one symbol's book with the lock that serializes every
// command against it.
type symbolState struct {
	mu   sync.RWMutex
	book *book.OrderBook

	// terminal remembers the ids of orders that recently left the book (or
	// were rejected/cancelled before ever entering it) in a terminal status,
	// so NotFound can be upgraded to AlreadyTerminal for a known id. Bounded
	// by terminalOrder, a FIFO eviction queue.
	terminal      map[common.OrderID]bool
	terminalOrder []common.OrderID
}

// markTerminal records id as having reached a terminal status, evicting the
// oldest entry once the bounded cache is full. Caller must hold sym.mu.
func (s *symbolState) markTerminal(id common.OrderID) {
	if id == "" {
		return
	}
	if s.terminal == nil {
		s.terminal = make(map[common.OrderID]bool)
	}
	if s.terminal[id] {
		return
	}
	s.terminal[id] = true
	s.terminalOrder = append(s.terminalOrder, id)
	if len(s.terminalOrder) > terminalCacheSize {
		oldest := s.terminalOrder[0]
		s.terminalOrder = s.terminalOrder[1:]
		delete(s.terminal, oldest)
	}
}

// wasTerminal reports whether id is a recently-terminal order this symbol
// remembers. Caller must hold sym.mu.
func (s *symbolState) wasTerminal(id common.OrderID) bool {
	return s.terminal[id]
}

// Engine is the matching engine for one venue's full symbol set.
type Engine struct {
	mu      sync.RWMutex // protects the symbols map itself, not book contents
	symbols map[string]*symbolState

	clock     Clock
	bus       *bus.Bus
	precision int32

	feesMu sync.RWMutex
	fees   common.FeeTable

	depth int // default depth published with book snapshots/deltas

	stats Stats
	log   zerolog.Logger
}

// New constructs an Engine serving the given symbols. precision is the
// venue's currency decimal precision used for half-to-even fee rounding;
// depth is the default book snapshot depth handed to subscribers that don't
// ask for a specific one.
func New(symbols []string, clock Clock, eventBus *bus.Bus, fees common.FeeTable, precision int32, depth int) *Engine {
	e := &Engine{
		symbols:   make(map[string]*symbolState, len(symbols)),
		clock:     clock,
		bus:       eventBus,
		fees:      fees,
		precision: precision,
		depth:     depth,
		log:       log.With().Str("component", "engine").Logger(),
	}
	for _, sym := range symbols {
		e.symbols[sym] = &symbolState{book: book.NewOrderBook(sym)}
	}
	return e
}

// SetFeeTable swaps the active fee table between commands. It is safe to call
// concurrently with Submit/Cancel/Modify; a command resolves its fee rate
// once, before matching, so the new table takes effect on the next command
// processed for any symbol.
func (e *Engine) SetFeeTable(fees common.FeeTable) {
	e.feesMu.Lock()
	e.fees = fees
	e.feesMu.Unlock()
}

func (e *Engine) feeRate(symbol, tier string) common.FeeRate {
	e.feesMu.RLock()
	defer e.feesMu.RUnlock()
	return e.fees.RateFor(symbol, tier)
}

// RegisterSymbol adds a new empty book for symbol if one does not already
// exist. It is idempotent.
func (e *Engine) RegisterSymbol(symbol string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.symbols[symbol]; ok {
		return
	}
	e.symbols[symbol] = &symbolState{book: book.NewOrderBook(symbol)}
}

// Symbols returns the currently registered symbol list.
func (e *Engine) Symbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.symbols))
	for sym := range e.symbols {
		out = append(out, sym)
	}
	return out
}

func (e *Engine) getSymbol(symbol string) (*symbolState, *common.Error) {
	e.mu.RLock()
	sym, ok := e.symbols[symbol]
	e.mu.RUnlock()
	if !ok {
		return nil, common.NewValidationError("", "symbol", "unknown symbol: "+symbol)
	}
	return sym, nil
}

// Stats returns a point-in-time copy of the engine's running counters.
func (e *Engine) Stats() StatsSnapshot {
	return e.stats.Snapshot()
}

// touchedLevel identifies one (side, price) level that must be republished
// after a command finishes mutating the book.
type touchedLevel struct {
	side  common.Side
	price common.Price
}

// bookTopState captures top-of-book before a command, to decide whether a
// Ticker update is warranted once the command completes.
type bookTopState struct {
	bid, ask       common.Price
	hasBid, hasAsk bool
}

func captureTop(b *book.OrderBook) bookTopState {
	bid, hasBid := b.BestBid()
	ask, hasAsk := b.BestAsk()
	return bookTopState{bid: bid, ask: ask, hasBid: hasBid, hasAsk: hasAsk}
}

// publishBookEvents emits a BookDelta for every level touched by a command,
// then a Ticker update if the top-of-book on either side changed. It is
// called once per command, after the book mutation is fully complete, so
// subscribers never see an intermediate state of a multi-match command.
func (e *Engine) publishBookEvents(symbol string, b *book.OrderBook, touched map[touchedLevel]bool, before bookTopState) {
	if e.bus == nil {
		return
	}
	for tl := range touched {
		qty := b.VolumeAt(tl.side, tl.price)
		e.bus.PublishBookDelta(symbol, tl.side, tl.price, qty)
	}

	after := captureTop(b)
	if after.hasBid == before.hasBid && after.hasAsk == before.hasAsk &&
		(!before.hasBid || before.bid.Equal(after.bid)) &&
		(!before.hasAsk || before.ask.Equal(after.ask)) {
		return
	}

	ticker := bus.TickerPayload{Symbol: symbol, BestBid: after.bid, HasBid: after.hasBid, BestAsk: after.ask, HasAsk: after.hasAsk}
	if after.hasBid && after.hasAsk {
		ticker.Spread = after.ask.Sub(after.bid)
		ticker.MidPrice = after.bid.Add(after.ask).Div(decimalTwo)
	}
	e.bus.PublishTicker(ticker)
}

// publishOrderUpdate emits a private order status update, fire-and-forget.
func (e *Engine) publishOrderUpdate(order common.Order) {
	if e.bus == nil {
		return
	}
	e.bus.PublishOrderUpdate(order)
}

// publishTrade emits a trade print, fire-and-forget.
func (e *Engine) publishTrade(trade common.Trade) {
	if e.bus == nil {
		return
	}
	e.bus.PublishTrade(trade)
}
