// Command server boots one venue process: an Engine for the configured
// symbol set, its event bus, the expiry sweeper, and the TCP gateway
// transport, wired together the way the teacher's cmd/main.go assembles its
// engine and net.Server.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"github.com/saiputravu/aurum/internal/bus"
	"github.com/saiputravu/aurum/internal/config"
	"github.com/saiputravu/aurum/internal/engine"
	"github.com/saiputravu/aurum/internal/gateway"
	"github.com/saiputravu/aurum/internal/net"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg := config.FromEnv(config.Default())

	eventBus := bus.New()
	eng := engine.New(cfg.Symbols, engine.SystemClock{SessionEndFn: cfg.SessionEnd}, eventBus, cfg.Fees, cfg.Precision, cfg.Depth)

	sweeperTomb, _ := tomb.WithContext(ctx)
	eng.StartExpirySweeper(sweeperTomb, cfg.SweepInterval)

	gw := gateway.New(eng, cfg.Depth)
	srv := net.New(cfg.Address, cfg.Port, gw, cfg.WorkerPoolSize)

	log.Info().
		Strs("symbols", cfg.Symbols).
		Str("address", cfg.Address).
		Int("port", cfg.Port).
		Msg("starting aurum venue")

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("gateway server exited")
	}

	sweeperTomb.Kill(nil)
	_ = sweeperTomb.Wait()
}
