// Package telemetry provides room health tracking, bookmarking, and snapshots.
package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/petroom/room"
)

// Recorder routes room events into the window collector, per-pet lifetime
// stats and the hall of fame. It runs on the simulation goroutine.
type Recorder struct {
	collector *Collector
	lifetimes *LifetimeTracker
	hall      *HallOfFame // nil when disabled
}

// NewRecorder creates a recorder. hall may be nil.
func NewRecorder(collector *Collector, lifetimes *LifetimeTracker, hall *HallOfFame) *Recorder {
	return &Recorder{collector: collector, lifetimes: lifetimes, hall: hall}
}

// Attach subscribes the recorder to bus and returns the unsubscribe func.
func (rec *Recorder) Attach(bus *room.EventBus) func() {
	return bus.Subscribe(rec.Handle)
}

// Handle processes one event.
func (rec *Recorder) Handle(ev room.Event) {
	rec.collector.Record(ev)

	switch ev.Type {
	case room.EventPetCreated:
		if ev.Pet != nil {
			rec.lifetimes.Register(ev.PetID, ev.OwnerID, ev.Pet.Species, ev.Tick, ev.Time)
		}
	case room.EventPetRemoved:
		stats := rec.lifetimes.Remove(ev.PetID)
		if rec.hall != nil && ev.Pet != nil && rec.hall.Consider(*ev.Pet, stats, ev.Time) {
			slog.Debug("hall of fame entry", "pet", ev.PetID, "level", ev.Pet.Level)
		}
	case room.EventPetLeveledUp:
		rec.lifetimes.RecordLevelUp(ev.PetID, ev.Level)
	case room.EventPetFed:
		rec.lifetimes.RecordFeed(ev.PetID)
	case room.EventPetInteracted:
		if ev.Detail == room.DetailPlay {
			rec.lifetimes.RecordPlay(ev.PetID)
		} else {
			rec.lifetimes.RecordInteraction(ev.PetID)
		}
	case room.EventPetEncounter:
		rec.lifetimes.RecordEncounter(ev.PetID, ev.OtherID)
	case room.EventPetReacted:
		rec.lifetimes.RecordReaction(ev.PetID)
	}
}

// Collector returns the window collector.
func (rec *Recorder) Collector() *Collector { return rec.collector }

// HallOfFame returns the hall of fame, or nil when disabled.
func (rec *Recorder) HallOfFame() *HallOfFame { return rec.hall }
