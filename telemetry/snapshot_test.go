package telemetry

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/room"
)

func TestSnapshotSaveLoad(t *testing.T) {
	// Create a temporary directory
	tmpDir := t.TempDir()

	// Create a test snapshot
	snapshot := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    42,
		RoomWidth:  40,
		RoomHeight: 25,
		Tick:       1000,
		SimTimeSec: 100,
		Pets: []PetSnapshot{
			{
				PetState: room.PetState{
					ID:       "pet-1",
					OwnerID:  "owner-1",
					Species:  components.Dog,
					Position: r2.Vec{X: 3, Y: 4},
					Action:   components.ActionPlaying,
					Mood:     components.MoodHappy,
					Needs:    room.NeedsState{Health: 90, Energy: 50, Hunger: 70, Happiness: 80, Affection: 60},
					Level:    2,
					Customization: components.Customization{
						Name:    "Rex",
						Options: map[string]string{"hat": "red"},
					},
				},
				Lifetime: &LifetimeStatsJSON{
					SpawnTick: 100,
					Feeds:     2,
					PeakLevel: 2,
				},
			},
		},
		Avatars: []AvatarSnapshot{{ID: "owner-1", X: 1, Y: 2, Health: 80}},
		Bookmark: &Bookmark{
			Type:        BookmarkLevelUpBurst,
			Tick:        1000,
			Description: "Test bookmark",
		},
	}

	// Save the snapshot
	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Snapshot file not created at %s", path)
	}

	// Load the snapshot
	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	// Verify loaded data matches original
	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Pets) != 1 {
		t.Fatalf("Pets count mismatch: got %d, want 1", len(loaded.Pets))
	}
	got := loaded.Pets[0]
	if got.ID != "pet-1" || got.Position != (r2.Vec{X: 3, Y: 4}) || got.Customization.Options["hat"] != "red" {
		t.Errorf("Pet state mismatch: %+v", got.PetState)
	}
	if got.Lifetime == nil || got.Lifetime.Feeds != 2 {
		t.Errorf("Lifetime not round-tripped: %+v", got.Lifetime)
	}
	if loaded.Bookmark == nil {
		t.Error("Bookmark not loaded")
	} else if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("Bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	// Test with bookmark
	snapshot := &Snapshot{
		Version: SnapshotVersion,
		Tick:    5000,
		Bookmark: &Bookmark{
			Type: BookmarkNeglectWave,
			Tick: 5000,
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected := filepath.Join(tmpDir, "snapshot_5000_neglect_wave.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}

	// Test without bookmark
	snapshotNoBookmark := &Snapshot{
		Version: SnapshotVersion,
		Tick:    3000,
	}

	path, err = SaveSnapshot(snapshotNoBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	expected = filepath.Join(tmpDir, "snapshot_3000.json")
	if path != expected {
		t.Errorf("Path mismatch: got %s, want %s", path, expected)
	}
}

func TestBuildSnapshot(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	avatars := room.NewAvatars()
	avatars.Move("owner-1", r2.Vec{X: 5, Y: 5})
	r := room.NewRegistry(cfg, room.Options{Owners: avatars, Healer: avatars, RNG: rand.New(rand.NewSource(7))})

	lifetimes := NewLifetimeTracker()
	rec := NewRecorder(NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.TickInterval.Seconds()), lifetimes, nil)
	rec.Attach(r.Bus())

	_, err = r.SpawnPet("owner-1", "cat", room.SpawnOptions{Name: "Mittens"})
	require.NoError(t, err)
	_, err = r.SpawnPet("owner-1", "dog", room.SpawnOptions{Name: "Rex"})
	require.NoError(t, err)
	r.Tick(cfg.Derived.TickInterval)

	bm := &Bookmark{Type: BookmarkCalmRoom, Tick: r.TickCount()}
	snap := BuildSnapshot(r, avatars.All(), lifetimes, 7, bm)

	assert.Equal(t, SnapshotVersion, snap.Version)
	assert.Equal(t, int64(1), snap.Tick)
	assert.Equal(t, cfg.Room.Width, snap.RoomWidth)
	require.Len(t, snap.Pets, 2)
	assert.Equal(t, "Mittens", snap.Pets[0].Customization.Name)
	assert.Equal(t, "Rex", snap.Pets[1].Customization.Name)
	require.NotNil(t, snap.Pets[0].Lifetime)
	assert.Equal(t, int64(0), snap.Pets[0].Lifetime.SpawnTick)
	require.Len(t, snap.Avatars, 1)
	assert.Equal(t, components.OwnerID("owner-1"), snap.Avatars[0].ID)
	assert.Same(t, bm, snap.Bookmark)
}
