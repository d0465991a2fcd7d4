package engine

import "sync/atomic"

// Stats tracks running counters for operator visibility. It is not part of
// the matching algorithm; nothing in the hot path branches on it.
type Stats struct {
	ordersAccepted atomic.Uint64
	ordersRejected atomic.Uint64
	tradesExecuted atomic.Uint64
	cancels        atomic.Uint64
	expirations    atomic.Uint64
}

// StatsSnapshot is a point-in-time copy of Stats, safe to read without races.
type StatsSnapshot struct {
	OrdersAccepted uint64
	OrdersRejected uint64
	TradesExecuted uint64
	Cancels        uint64
	Expirations    uint64
}

func (s *Stats) recordAccepted() { s.ordersAccepted.Add(1) }
func (s *Stats) recordRejected() { s.ordersRejected.Add(1) }
func (s *Stats) recordTrade()    { s.tradesExecuted.Add(1) }
func (s *Stats) recordCancel()   { s.cancels.Add(1) }
func (s *Stats) recordExpiry()   { s.expirations.Add(1) }

// Snapshot returns a consistent-enough point-in-time read of all counters.
// Individual fields may be read a few nanoseconds apart under heavy
// concurrent load; this is a diagnostics surface, not a commit protocol.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		OrdersAccepted: s.ordersAccepted.Load(),
		OrdersRejected: s.ordersRejected.Load(),
		TradesExecuted: s.tradesExecuted.Load(),
		Cancels:        s.cancels.Load(),
		Expirations:    s.expirations.Load(),
	}
}
