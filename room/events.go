package room

import (
	"slices"
	"sync"
	"time"

	"github.com/pthm-cable/petroom/components"
)

// EventType names an outbound room event.
type EventType string

const (
	EventPetCreated    EventType = "petCreated"
	EventPetRemoved    EventType = "petRemoved"
	EventPetLeveledUp  EventType = "petLeveledUp"
	EventPetCustomized EventType = "petCustomized"
	EventPetInteracted EventType = "petInteracted"
	EventPetFed        EventType = "petFed"

	// Internal events consumed by telemetry only.
	EventPetReacted        EventType = "petReacted"
	EventPetEncounter      EventType = "petEncounter"
	EventSchedulerFallback EventType = "schedulerFallback"
)

// DetailPlay marks a petInteracted event raised by PlayWithPet.
const DetailPlay = "play"

// Public reports whether the event is forwarded to clients.
func (t EventType) Public() bool {
	switch t {
	case EventPetReacted, EventPetEncounter, EventSchedulerFallback:
		return false
	}
	return true
}

// Event is one outbound notification.
type Event struct {
	Type    EventType          `json:"type"`
	Tick    int64              `json:"tick"`
	Time    time.Duration      `json:"time"`
	PetID   components.PetID   `json:"pet_id"`
	OwnerID components.OwnerID `json:"owner_id,omitempty"`
	Pet     *PetState          `json:"pet,omitempty"`
	Level   int                `json:"level,omitempty"`
	Detail  string             `json:"detail,omitempty"` // interaction kind, food tier, emotion
	OtherID components.PetID   `json:"other_id,omitempty"`
}

// EventBus fans events out to subscribers. Publish is called from the
// simulation goroutine; handlers must not block.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[int]func(Event)
	next     int
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[int]func(Event))}
}

// Subscribe registers a handler and returns a function that removes it.
func (b *EventBus) Subscribe(fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = fn
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}
}

// Publish delivers ev to every handler in subscription order.
func (b *EventBus) Publish(ev Event) {
	b.mu.RLock()
	ids := make([]int, 0, len(b.handlers))
	for id := range b.handlers {
		ids = append(ids, id)
	}
	b.mu.RUnlock()

	slices.Sort(ids)
	for _, id := range ids {
		b.mu.RLock()
		fn, ok := b.handlers[id]
		b.mu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}
