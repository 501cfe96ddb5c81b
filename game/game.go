// Package game drives a room: the simulation loop, simulated owners and the
// telemetry pipeline around each tick.
package game

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"time"

	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/room"
	"github.com/pthm-cable/petroom/telemetry"
)

// ErrStopped is returned by Submit once the loop has exited.
var ErrStopped = errors.New("game: simulation stopped")

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses config
	SnapshotDir    string
	OutputDir      string
	Bots           int // simulated owners; negative uses config
	StepsPerUpdate int
	MaxTicks       int64 // Run returns after this many ticks; 0 = unlimited
}

// request is one command executed on the simulation goroutine.
type request struct {
	ctx  context.Context
	fn   func(*room.Registry) error
	done chan error
}

// Game holds the room and everything that runs alongside it.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64

	room    *room.Registry
	avatars *room.Avatars
	bots    *Bots

	// Telemetry
	recorder         *telemetry.Recorder
	collector        *telemetry.Collector
	lifetimes        *telemetry.LifetimeTracker
	hallOfFame       *telemetry.HallOfFame
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	logStats         bool
	snapshotDir      string
	statsCallback    func(telemetry.WindowStats)
	lastWindow       *telemetry.WindowStats

	inbox     chan request
	stopped   chan struct{}
	observers []func(room.TickResult)

	// State
	paused         bool
	stepsPerUpdate int
	maxTicks       int64
	accum          time.Duration // unspent frame time in viewer mode
	lastResult     room.TickResult
	lastWorldLog   int64
}

// NewGame creates a room with its telemetry and simulated owners.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		outputManager.Close()
		return nil, err
	}

	g := &Game{
		cfg:              cfg,
		rng:              rng,
		rngSeed:          seed,
		avatars:          room.NewAvatars(),
		collector:        telemetry.NewCollector(statsWindow, cfg.Derived.TickInterval.Seconds()),
		lifetimes:        telemetry.NewLifetimeTracker(),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(cfg.Bookmarks, cfg.Telemetry.BookmarkHistorySize),
		outputManager:    outputManager,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		inbox:            make(chan request, max(1, cfg.Server.MaxQueue)),
		stopped:          make(chan struct{}),
		stepsPerUpdate:   steps,
		maxTicks:         opts.MaxTicks,
	}
	if cfg.HallOfFame.Enabled {
		g.hallOfFame = telemetry.NewHallOfFame(cfg.HallOfFame.Size)
	}

	g.room = room.NewRegistry(cfg, room.Options{
		Owners: g.avatars,
		Healer: g.avatars,
		RNG:    rng,
		Timer:  g.perfCollector,
	})

	g.recorder = telemetry.NewRecorder(g.collector, g.lifetimes, g.hallOfFame)
	g.recorder.Attach(g.room.Bus())

	botCount := opts.Bots
	if botCount < 0 {
		botCount = cfg.Bots.Count
	}
	g.bots = NewBots(cfg.Bots, g.room, g.avatars, rng)
	g.bots.Spawn(botCount)

	return g, nil
}

// Room returns the registry. Only safe on the simulation goroutine.
func (g *Game) Room() *room.Registry { return g.room }

// Avatars returns the owner avatars.
func (g *Game) Avatars() *room.Avatars { return g.avatars }

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config { return g.cfg }

// Seed returns the RNG seed in use.
func (g *Game) Seed() int64 { return g.rngSeed }

// Tick returns the number of completed ticks.
func (g *Game) Tick() int64 { return g.room.TickCount() }

// LastResult returns the summary of the most recent tick.
func (g *Game) LastResult() room.TickResult { return g.lastResult }

// Perf returns the current performance statistics.
func (g *Game) Perf() telemetry.PerfStats { return g.perfCollector.Stats() }

// Paused reports whether ticking is suspended.
func (g *Game) Paused() bool { return g.paused }

// TogglePause flips the paused state.
func (g *Game) TogglePause() { g.paused = !g.paused }

// StepsPerUpdate returns the tick multiplier.
func (g *Game) StepsPerUpdate() int { return g.stepsPerUpdate }

// SetStepsPerUpdate sets the tick multiplier, clamped to [1, 10].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = min(max(n, 1), 10)
}

// LastWindow returns the most recently flushed telemetry window.
func (g *Game) LastWindow() (telemetry.WindowStats, bool) {
	if g.lastWindow == nil {
		return telemetry.WindowStats{}, false
	}
	return *g.lastWindow, true
}

// RecordFrame feeds viewer frame timing into the perf collector.
func (g *Game) RecordFrame() { g.perfCollector.RecordFrame() }

// SetStatsCallback registers a function called with every flushed window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// AddTickObserver registers fn to run on the simulation goroutine after
// every tick. Must be called before Run.
func (g *Game) AddTickObserver(fn func(room.TickResult)) {
	g.observers = append(g.observers, fn)
}

// Submit runs fn on the simulation goroutine between ticks and waits for
// its result. A request whose ctx is done before the loop reaches it is
// dropped without running fn.
func (g *Game) Submit(ctx context.Context, fn func(*room.Registry) error) error {
	req := request{ctx: ctx, fn: fn, done: make(chan error, 1)}
	select {
	case g.inbox <- req:
	case <-g.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-g.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run ticks the room in real time until ctx is done or MaxTicks is reached.
// Commands submitted while running are applied between ticks.
func (g *Game) Run(ctx context.Context) error {
	defer close(g.stopped)

	ticker := time.NewTicker(g.cfg.Derived.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case req := <-g.inbox:
			g.apply(req)
		case <-ticker.C:
			if g.paused {
				continue
			}
			for i := 0; i < g.stepsPerUpdate; i++ {
				g.Step()
				if g.done() {
					slog.Info("max ticks reached", "tick", g.Tick())
					return nil
				}
			}
		}
	}
}

// Update advances the room by one viewer frame, ticking as many times as
// the elapsed frame time covers.
func (g *Game) Update(frame time.Duration) {
	g.drainInbox()
	if g.paused {
		return
	}
	interval := g.cfg.Derived.TickInterval
	g.accum += frame * time.Duration(g.stepsPerUpdate)
	// Never fall more than a handful of ticks behind
	if limit := interval * time.Duration(4*g.stepsPerUpdate); g.accum > limit {
		g.accum = limit
	}
	for g.accum >= interval {
		g.accum -= interval
		g.Step()
	}
}

// UpdateHeadless runs StepsPerUpdate ticks as fast as possible.
func (g *Game) UpdateHeadless() {
	g.drainInbox()
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Done reports whether MaxTicks has been reached.
func (g *Game) Done() bool { return g.done() }

func (g *Game) done() bool {
	return g.maxTicks > 0 && g.Tick() >= g.maxTicks
}

// Step runs one tick: bots, the room pipeline, then telemetry.
func (g *Game) Step() room.TickResult {
	interval := g.cfg.Derived.TickInterval

	g.bots.Update(interval.Seconds())

	g.perfCollector.StartTick()
	res := g.room.Tick(interval)
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perfCollector.EndTick()

	g.lastResult = res
	g.maybeLogWorldState()
	for _, fn := range g.observers {
		fn(res)
	}
	return res
}

func (g *Game) apply(req request) {
	if err := req.ctx.Err(); err != nil {
		req.done <- err
		return
	}
	req.done <- req.fn(g.room)
}

func (g *Game) drainInbox() {
	for {
		select {
		case req := <-g.inbox:
			g.apply(req)
		default:
			return
		}
	}
}

// Unload writes final output and closes files.
func (g *Game) Unload() {
	if err := g.outputManager.WriteHallOfFame(g.hallOfFame); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
