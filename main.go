package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/transport/httpapi"
	"github.com/pthm-cable/petroom/transport/ws"
	"github.com/pthm-cable/petroom/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for room state dumps on bookmarks")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	bots := flag.Int("bots", -1, "Simulated owners (-1 = use config)")
	serve := flag.Bool("serve", false, "Serve the HTTP API and WebSocket gateway")
	addr := flag.String("addr", "", "Listen address for -serve (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGame(cfg, game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Bots:           *bots,
		StepsPerUpdate: *stepsPerUpdate,
		MaxTicks:       *maxTicks,
	})
	if err != nil {
		slog.Error("failed to create room", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var srv *http.Server
	if *serve {
		listen := cfg.Server.Addr
		if *addr != "" {
			listen = *addr
		}
		gateway := ws.NewServer(g, logger)
		defer gateway.Close()

		srv = &http.Server{
			Addr:              listen,
			Handler:           httpapi.NewRouter(g, gateway),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("http server listening", "addr", listen)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "error", err)
				stop()
			}
		}()
	}

	slog.Info("starting room",
		"seed", rngSeed,
		"headless", *headless,
		"serve", *serve,
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
	)

	switch {
	case !*headless:
		err = ui.NewViewer(g, "Pet Room").Run(ctx)
	case srv != nil:
		// Clients expect real time
		err = g.Run(ctx)
	default:
		// Pure CPU simulation as fast as possible
		for !g.Done() && ctx.Err() == nil {
			g.UpdateHeadless()
		}
		if g.Done() {
			slog.Info("max ticks reached", "tick", g.Tick())
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation stopped", "error", err)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("http server shutdown", "error", err)
		}
	}
}
