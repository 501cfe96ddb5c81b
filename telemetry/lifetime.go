package telemetry

import (
	"time"

	"github.com/pthm-cable/petroom/components"
)

// LifetimeStats tracks per-pet statistics over its time in the room.
type LifetimeStats struct {
	SpawnTick int64
	SpawnTime time.Duration
	Species   components.Species
	OwnerID   components.OwnerID

	// Care received
	Feeds int
	Plays int

	// Social
	Interactions int
	Encounters   int
	Reactions    int

	// Progression
	LevelUps  int
	PeakLevel int
}

// LifetimeTracker manages per-pet lifetime statistics.
type LifetimeTracker struct {
	stats map[components.PetID]*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		stats: make(map[components.PetID]*LifetimeStats),
	}
}

// Register creates lifetime stats for a newly spawned pet.
func (lt *LifetimeTracker) Register(id components.PetID, owner components.OwnerID, species components.Species, tick int64, now time.Duration) {
	lt.stats[id] = &LifetimeStats{
		SpawnTick: tick,
		SpawnTime: now,
		Species:   species,
		OwnerID:   owner,
		PeakLevel: 1,
	}
}

// Get returns the lifetime stats for a pet, or nil if not found.
func (lt *LifetimeTracker) Get(id components.PetID) *LifetimeStats {
	return lt.stats[id]
}

// Remove removes a pet's stats and returns them (for hall of fame/logging).
func (lt *LifetimeTracker) Remove(id components.PetID) *LifetimeStats {
	stats := lt.stats[id]
	delete(lt.stats, id)
	return stats
}

// RecordFeed increments feed count.
func (lt *LifetimeTracker) RecordFeed(id components.PetID) {
	if s := lt.stats[id]; s != nil {
		s.Feeds++
	}
}

// RecordPlay increments play count.
func (lt *LifetimeTracker) RecordPlay(id components.PetID) {
	if s := lt.stats[id]; s != nil {
		s.Plays++
	}
}

// RecordInteraction increments owner interaction count.
func (lt *LifetimeTracker) RecordInteraction(id components.PetID) {
	if s := lt.stats[id]; s != nil {
		s.Interactions++
	}
}

// RecordEncounter counts a socializing encounter for both pets.
func (lt *LifetimeTracker) RecordEncounter(a, b components.PetID) {
	if s := lt.stats[a]; s != nil {
		s.Encounters++
	}
	if s := lt.stats[b]; s != nil {
		s.Encounters++
	}
}

// RecordReaction increments emotion reaction count.
func (lt *LifetimeTracker) RecordReaction(id components.PetID) {
	if s := lt.stats[id]; s != nil {
		s.Reactions++
	}
}

// RecordLevelUp tracks level-ups and peak level.
func (lt *LifetimeTracker) RecordLevelUp(id components.PetID, level int) {
	if s := lt.stats[id]; s != nil {
		s.LevelUps++
		if level > s.PeakLevel {
			s.PeakLevel = level
		}
	}
}

// All returns all tracked stats (for snapshots).
func (lt *LifetimeTracker) All() map[components.PetID]*LifetimeStats {
	return lt.stats
}

// Count returns the number of tracked pets.
func (lt *LifetimeTracker) Count() int {
	return len(lt.stats)
}
