// Package config holds the venue-wide settings the gateway constructs the
// engine and transport from. The teacher has no configuration framework of
// its own (cmd/main.go hardcodes its listen address and symbol list), so
// this stays a plain Go struct assembled in cmd/ rather than a new
// dependency — see DESIGN.md for the viper no-go rationale.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/saiputravu/aurum/internal/common"
)

// Config is the full set of knobs a running venue process needs, split
// across the pieces that actually consume them (engine, bus, transport).
type Config struct {
	// Symbols is the set of instruments the engine registers a book for at
	// startup. RegisterSymbol can add more later.
	Symbols []string

	// Precision is the venue's currency decimal precision, used for
	// half-to-even fee rounding (§4.3.4).
	Precision int32

	// Depth is the default book snapshot/subscription depth handed to
	// callers that don't ask for a specific one.
	Depth int

	// Fees is the venue's active fee table, swappable at runtime via
	// Engine.SetFeeTable.
	Fees common.FeeTable

	// SweepInterval is how often the expiry sweeper scans for lapsed
	// GTD/DAY orders (§4.3.5).
	SweepInterval time.Duration

	// SessionEnd supplies the gateway's notion of end-of-session for DAY
	// orders that don't carry an explicit expire_time; nil means every
	// symbol's session ends 24h from now (continuous-trading default).
	SessionEnd func(symbol string) time.Time

	// Address/Port is the TCP listener's bind address for internal/net.
	Address string
	Port    int

	// WorkerPoolSize bounds the number of goroutines draining accepted
	// connections concurrently.
	WorkerPoolSize int

	// QueueDepth is a per-subscriber event queue depth setting. No component
	// reads it: the TCP transport carries no subscription messages, and
	// callers of bus.Subscribe pass their own depth (0 selects the bus's
	// built-in default).
	QueueDepth int
}

// Default returns a single-symbol-set venue configuration suitable for a
// development process. Every field can be overridden before constructing
// the engine/bus/server.
func Default() Config {
	return Config{
		Symbols:        []string{"AAPL", "MSFT", "GOOG"},
		Precision:      2,
		Depth:          10,
		Fees:           common.FlatFeeTable{Rate: common.FeeRate{MakerBps: decimal.NewFromInt(-1), TakerBps: decimal.NewFromInt(5)}},
		SweepInterval:  time.Second,
		Address:        "0.0.0.0",
		Port:           9001,
		WorkerPoolSize: 10,
		QueueDepth:     256,
	}
}

// FromEnv applies process-environment overrides on top of base, matching
// the teacher's habit of keeping cmd/ free of a config-file dependency:
// AURUM_ADDRESS, AURUM_PORT, AURUM_SYMBOLS (comma-separated), AURUM_DEPTH.
func FromEnv(base Config) Config {
	if v := os.Getenv("AURUM_ADDRESS"); v != "" {
		base.Address = v
	}
	if v := os.Getenv("AURUM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			base.Port = port
		}
	}
	if v := os.Getenv("AURUM_DEPTH"); v != "" {
		if depth, err := strconv.Atoi(v); err == nil {
			base.Depth = depth
		}
	}
	if v := os.Getenv("AURUM_SYMBOLS"); v != "" {
		base.Symbols = splitNonEmpty(v)
	}
	return base
}

func splitNonEmpty(s string) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
