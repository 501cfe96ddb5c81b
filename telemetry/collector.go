package telemetry

import (
	"time"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	spawns       int
	removals     int
	levelUps     int
	feeds        int
	plays        int
	interactions int
	encounters   int
	reactions    int
	fallbacks    int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in real seconds
// dt: seconds per tick (used for tick-to-window conversion)
func NewCollector(windowDurationSec float64, dt float64) *Collector {
	ticksPerWindow := int64(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record counts one room event in the current window.
func (c *Collector) Record(ev room.Event) {
	switch ev.Type {
	case room.EventPetCreated:
		c.spawns++
	case room.EventPetRemoved:
		c.removals++
	case room.EventPetLeveledUp:
		c.levelUps++
	case room.EventPetFed:
		c.feeds++
	case room.EventPetInteracted:
		if ev.Detail == room.DetailPlay {
			c.plays++
		} else {
			c.interactions++
		}
	case room.EventPetEncounter:
		c.encounters++
	case room.EventPetReacted:
		c.reactions++
	case room.EventSchedulerFallback:
		c.fallbacks++
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the pets alive at window end and resets
// counters for the next window.
func (c *Collector) Flush(currentTick int64, simTime time.Duration, pets []room.PetState) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime.Seconds(),

		Pets: len(pets),

		Spawns:       c.spawns,
		Removals:     c.removals,
		LevelUps:     c.levelUps,
		Feeds:        c.feeds,
		Plays:        c.plays,
		Interactions: c.interactions,
		Encounters:   c.encounters,
		Reactions:    c.reactions,
		Fallbacks:    c.fallbacks,
	}

	n := len(pets)
	health := make([]float64, 0, n)
	energy := make([]float64, 0, n)
	hunger := make([]float64, 0, n)
	happiness := make([]float64, 0, n)
	affection := make([]float64, 0, n)
	levels := make([]float64, 0, n)
	owners := make(map[components.OwnerID]struct{})

	var content, happy int
	for _, p := range pets {
		health = append(health, p.Needs.Health)
		energy = append(energy, p.Needs.Energy)
		hunger = append(hunger, p.Needs.Hunger)
		happiness = append(happiness, p.Needs.Happiness)
		affection = append(affection, p.Needs.Affection)
		levels = append(levels, float64(p.Level))
		owners[p.OwnerID] = struct{}{}

		switch p.Mood {
		case components.MoodEcstatic:
			stats.Ecstatic++
		case components.MoodHappy:
			stats.Happy++
		case components.MoodContent:
			stats.Content++
		case components.MoodSad:
			stats.Sad++
		case components.MoodDepressed:
			stats.Depressed++
		default:
			stats.Transient++
		}
		if p.Mood.AtLeastContent() {
			content++
		}
		if p.Mood == components.MoodHappy || p.Mood == components.MoodEcstatic {
			happy++
		}
	}
	stats.Owners = len(owners)

	stats.HealthMean, stats.HealthP10, _, _ = ComputeNeedStats(health)
	stats.EnergyMean, stats.EnergyP10, _, _ = ComputeNeedStats(energy)
	stats.HungerMean, stats.HungerP10, stats.HungerP50, stats.HungerP90 = ComputeNeedStats(hunger)
	stats.HappinessMean, stats.HappinessP10, stats.HappinessP50, stats.HappinessP90 = ComputeNeedStats(happiness)
	stats.AffectionMean, _, _, _ = ComputeNeedStats(affection)
	stats.LevelMean, stats.LevelStd, stats.LevelMax = ComputeLevelStats(levels)

	if n > 0 {
		stats.ContentFraction = float64(content) / float64(n)
		stats.HappyFraction = float64(happy) / float64(n)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.spawns = 0
	c.removals = 0
	c.levelUps = 0
	c.feeds = 0
	c.plays = 0
	c.interactions = 0
	c.encounters = 0
	c.reactions = 0
	c.fallbacks = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
