package game

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/room"
	"github.com/pthm-cable/petroom/telemetry"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	// Fast real-time loop for Run tests
	cfg.Derived.TickInterval = time.Millisecond
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Seed == 0 {
		opts.Seed = 1
	}
	g, err := NewGame(testConfig(t), opts)
	require.NoError(t, err)
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameSpawnsBots(t *testing.T) {
	g := newTestGame(t, Options{Bots: 2})

	assert.Equal(t, 2, g.bots.Len())
	assert.Equal(t, 2, g.Avatars().Len())
	assert.Equal(t, 2*g.Config().Bots.PetsPerBot, g.Room().Len())
	for _, owner := range g.bots.Owners() {
		assert.Len(t, g.Room().PetsOf(owner), g.Config().Bots.PetsPerBot)
	}
}

func TestNewGameNegativeBotsUsesConfig(t *testing.T) {
	g := newTestGame(t, Options{Bots: -1})
	assert.Equal(t, g.Config().Bots.Count, g.bots.Len())
}

func TestStepAdvancesTick(t *testing.T) {
	g := newTestGame(t, Options{Bots: 1})

	var observed []int64
	g.AddTickObserver(func(res room.TickResult) { observed = append(observed, res.Tick) })

	for i := 0; i < 3; i++ {
		g.Step()
	}
	assert.Equal(t, int64(3), g.Tick())
	assert.Equal(t, []int64{1, 2, 3}, observed)
	assert.Equal(t, int64(3), g.LastResult().Tick)
}

func TestUpdateHeadlessSteps(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 4})
	g.UpdateHeadless()
	assert.Equal(t, int64(4), g.Tick())
}

func TestUpdateAccumulatesFrameTime(t *testing.T) {
	g := newTestGame(t, Options{})
	interval := g.Config().Derived.TickInterval

	g.Update(interval / 2)
	assert.Equal(t, int64(0), g.Tick())
	g.Update(interval / 2)
	assert.Equal(t, int64(1), g.Tick())

	g.TogglePause()
	g.Update(10 * interval)
	assert.Equal(t, int64(1), g.Tick(), "paused game must not tick")
}

func TestSetStepsPerUpdateClamped(t *testing.T) {
	g := newTestGame(t, Options{})
	g.SetStepsPerUpdate(0)
	assert.Equal(t, 1, g.StepsPerUpdate())
	g.SetStepsPerUpdate(50)
	assert.Equal(t, 10, g.StepsPerUpdate())
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	g := newTestGame(t, Options{MaxTicks: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, g.Run(ctx))
	assert.Equal(t, int64(5), g.Tick())
	assert.True(t, g.Done())

	// Submissions after the loop exits fail fast
	err := g.Submit(ctx, func(*room.Registry) error { return nil })
	assert.ErrorIs(t, err, ErrStopped)
}

func TestSubmitRunsOnLoop(t *testing.T) {
	g := newTestGame(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- g.Run(ctx) }()

	var id components.PetID
	err := g.Submit(ctx, func(r *room.Registry) error {
		var err error
		id, err = r.SpawnPet("alice", "cat", room.SpawnOptions{Name: "Tom"})
		return err
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	err = g.Submit(ctx, func(r *room.Registry) error {
		_, err := r.SpawnPet("alice", "goldfish", room.SpawnOptions{})
		return err
	})
	assert.ErrorIs(t, err, room.ErrInvalidSpecies)

	cancel()
	assert.ErrorIs(t, <-errc, context.Canceled)
}

func TestSubmitCanceledWhileQueuedIsDropped(t *testing.T) {
	g := newTestGame(t, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	ran := false
	done := make(chan error, 1)
	go func() {
		done <- g.Submit(ctx, func(r *room.Registry) error {
			ran = true
			return nil
		})
	}()

	require.Eventually(t, func() bool { return len(g.inbox) == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	g.UpdateHeadless()
	assert.False(t, ran)
	assert.Empty(t, g.inbox)
}

func TestSubmitDrainedByUpdate(t *testing.T) {
	g := newTestGame(t, Options{})

	done := make(chan error, 1)
	go func() {
		done <- g.Submit(context.Background(), func(r *room.Registry) error {
			_, err := r.SpawnPet("bob", "dog", room.SpawnOptions{})
			return err
		})
	}()

	require.Eventually(t, func() bool {
		g.UpdateHeadless()
		select {
		case err := <-done:
			require.NoError(t, err)
			return true
		default:
			return false
		}
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, 1, g.Room().Len())
}

func TestTelemetryWindowFlush(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, Options{Bots: 2, StatsWindowSec: 1, OutputDir: dir})

	var windows []telemetry.WindowStats
	g.SetStatsCallback(func(s telemetry.WindowStats) { windows = append(windows, s) })

	// 1s windows at the config tick rate
	perWindow := g.collector.WindowDurationTicks()
	for i := int64(0); i < 3*perWindow; i++ {
		g.Step()
	}

	require.Len(t, windows, 3)
	assert.Equal(t, perWindow, windows[0].WindowEndTick)
	assert.Equal(t, 2*g.Config().Bots.PetsPerBot, windows[0].Pets)
	assert.Equal(t, 2, windows[0].Owners)

	g.Unload()
	for _, name := range []string{"telemetry.csv", "perf.csv", "bookmarks.csv", "config.yaml", "hall_of_fame.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestBotsWalkTowardTarget(t *testing.T) {
	g := newTestGame(t, Options{Bots: 1})
	bt := g.bots.bots[0]
	bt.target = r2.Vec{X: 1, Y: 1}
	bt.untilNew = 100
	g.avatars.Move(bt.id, r2.Vec{X: 10, Y: 1})

	g.bots.Update(1)
	av, ok := g.avatars.Get(bt.id)
	require.True(t, ok)
	assert.InDelta(t, 10-g.Config().Bots.WalkSpeed, av.Position.X, 1e-9)
	assert.InDelta(t, 1, av.Position.Y, 1e-9)
}

func TestBotsFeedHungryPets(t *testing.T) {
	g := newTestGame(t, Options{Bots: 1})
	owner := g.bots.Owners()[0]
	ids := g.Room().PetsOf(owner)
	require.NotEmpty(t, ids)

	pet, ok := g.Room().Inspect(ids[0])
	require.True(t, ok)
	pet.Needs.Hunger = 1

	g.bots.feedHungry(g.bots.bots[0])
	st, err := g.Room().Pet(ids[0])
	require.NoError(t, err)
	assert.Greater(t, st.Needs.Hunger, g.Config().Bots.FeedBelow)
}
