package telemetry

import (
	"cmp"
	"encoding/json"
	"slices"
	"time"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

// HallEntry records a pet that left the room.
type HallEntry struct {
	PetID        components.PetID
	OwnerID      components.OwnerID
	Species      components.Species
	Name         string
	Level        int
	Experience   int
	Interactions int
	Feeds        int
	Plays        int
	Tenure       time.Duration // simulated time in the room
}

// compareEntries orders entries best first: level, then experience, then
// owner interactions.
func compareEntries(a, b HallEntry) int {
	if c := cmp.Compare(b.Level, a.Level); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Experience, a.Experience); c != 0 {
		return c
	}
	return cmp.Compare(b.Interactions, a.Interactions)
}

// HallOfFame keeps the best pets seen leaving the room.
type HallOfFame struct {
	entries []HallEntry
	maxSize int
}

// NewHallOfFame creates a new hall of fame with the given capacity.
func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 1
	}
	return &HallOfFame{
		entries: make([]HallEntry, 0, maxSize),
		maxSize: maxSize,
	}
}

// Consider evaluates a removed pet for entry. stats may be nil when the pet
// was spawned before tracking started. Returns true if the pet was added.
func (hof *HallOfFame) Consider(state room.PetState, stats *LifetimeStats, now time.Duration) bool {
	entry := HallEntry{
		PetID:      state.ID,
		OwnerID:    state.OwnerID,
		Species:    state.Species,
		Name:       state.Customization.Name,
		Level:      state.Level,
		Experience: state.Experience,
	}
	if stats != nil {
		entry.Interactions = stats.Interactions
		entry.Feeds = stats.Feeds
		entry.Plays = stats.Plays
		entry.Tenure = now - stats.SpawnTime
	}

	// Find insertion point (sorted best first, stable for ties)
	idx, _ := slices.BinarySearchFunc(hof.entries, entry, func(e, t HallEntry) int {
		if c := compareEntries(e, t); c != 0 {
			return c
		}
		return -1
	})

	// If hall is full and entry would be last, skip it
	if len(hof.entries) >= hof.maxSize && idx >= hof.maxSize {
		return false
	}

	hof.entries = slices.Insert(hof.entries, idx, entry)
	if len(hof.entries) > hof.maxSize {
		hof.entries = hof.entries[:hof.maxSize]
	}
	return true
}

// Entries returns the hall best first.
func (hof *HallOfFame) Entries() []HallEntry {
	return slices.Clone(hof.entries)
}

// Size returns the number of entries.
func (hof *HallOfFame) Size() int {
	return len(hof.entries)
}

// hallEntryJSON is the JSON-serializable representation of a hall entry.
type hallEntryJSON struct {
	PetID        components.PetID   `json:"pet_id"`
	OwnerID      components.OwnerID `json:"owner_id"`
	Species      components.Species `json:"species"`
	Name         string             `json:"name,omitempty"`
	Level        int                `json:"level"`
	Experience   int                `json:"experience"`
	Interactions int                `json:"interactions"`
	Feeds        int                `json:"feeds"`
	Plays        int                `json:"plays"`
	TenureSec    float64            `json:"tenure_sec"`
}

// MarshalJSON serializes the hall of fame to JSON, best first.
func (hof *HallOfFame) MarshalJSON() ([]byte, error) {
	export := make([]hallEntryJSON, len(hof.entries))
	for i, e := range hof.entries {
		export[i] = hallEntryJSON{
			PetID:        e.PetID,
			OwnerID:      e.OwnerID,
			Species:      e.Species,
			Name:         e.Name,
			Level:        e.Level,
			Experience:   e.Experience,
			Interactions: e.Interactions,
			Feeds:        e.Feeds,
			Plays:        e.Plays,
			TenureSec:    e.Tenure.Seconds(),
		}
	}
	return json.MarshalIndent(export, "", "  ")
}
