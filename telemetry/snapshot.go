package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the room state at one tick, dumped when a bookmark fires.
type Snapshot struct {
	Version int   `json:"version"`
	RNGSeed int64 `json:"rng_seed"`

	RoomWidth  float64 `json:"room_width"`
	RoomHeight float64 `json:"room_height"`

	Tick       int64   `json:"tick"`
	SimTimeSec float64 `json:"sim_time_sec"`

	Pets    []PetSnapshot    `json:"pets"`
	Avatars []AvatarSnapshot `json:"avatars,omitempty"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// PetSnapshot is one pet's state plus its lifetime stats.
type PetSnapshot struct {
	room.PetState
	Lifetime *LifetimeStatsJSON `json:"lifetime,omitempty"`
}

// AvatarSnapshot is one owner avatar.
type AvatarSnapshot struct {
	ID      components.OwnerID `json:"id"`
	X       float64            `json:"x"`
	Y       float64            `json:"y"`
	Health  float64            `json:"health"`
	Emotion components.Emotion `json:"emotion,omitempty"`
}

// LifetimeStatsJSON is the JSON-serializable form of LifetimeStats.
type LifetimeStatsJSON struct {
	SpawnTick    int64   `json:"spawn_tick"`
	SpawnTimeSec float64 `json:"spawn_time_sec"`
	Feeds        int     `json:"feeds"`
	Plays        int     `json:"plays"`
	Interactions int     `json:"interactions"`
	Encounters   int     `json:"encounters"`
	Reactions    int     `json:"reactions"`
	LevelUps     int     `json:"level_ups"`
	PeakLevel    int     `json:"peak_level"`
}

// ToJSON converts LifetimeStats to its JSON form.
func (ls *LifetimeStats) ToJSON() *LifetimeStatsJSON {
	if ls == nil {
		return nil
	}
	return &LifetimeStatsJSON{
		SpawnTick:    ls.SpawnTick,
		SpawnTimeSec: ls.SpawnTime.Seconds(),
		Feeds:        ls.Feeds,
		Plays:        ls.Plays,
		Interactions: ls.Interactions,
		Encounters:   ls.Encounters,
		Reactions:    ls.Reactions,
		LevelUps:     ls.LevelUps,
		PeakLevel:    ls.PeakLevel,
	}
}

// BuildSnapshot assembles a snapshot from the room's current state.
func BuildSnapshot(r *room.Registry, avatars []room.Avatar, lifetimes *LifetimeTracker, seed int64, bookmark *Bookmark) *Snapshot {
	bounds := r.Bounds()
	snap := &Snapshot{
		Version:    SnapshotVersion,
		RNGSeed:    seed,
		RoomWidth:  bounds.Width,
		RoomHeight: bounds.Height,
		Tick:       r.TickCount(),
		SimTimeSec: r.Now().Seconds(),
		Bookmark:   bookmark,
	}
	for _, st := range r.Snapshot() {
		ps := PetSnapshot{PetState: st}
		if lifetimes != nil {
			ps.Lifetime = lifetimes.Get(st.ID).ToJSON()
		}
		snap.Pets = append(snap.Pets, ps)
	}
	for _, a := range avatars {
		snap.Avatars = append(snap.Avatars, AvatarSnapshot{
			ID:      a.ID,
			X:       a.Position.X,
			Y:       a.Position.Y,
			Health:  a.Health,
			Emotion: a.Emotion,
		})
	}
	return snap
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
