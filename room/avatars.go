package room

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
)

// OwnerLocator is the read-only view of avatar positions the room needs.
type OwnerLocator interface {
	PositionOf(owner components.OwnerID) (r2.Vec, bool)
}

// Avatar is the room's record of one owner.
type Avatar struct {
	ID       components.OwnerID `json:"id"`
	Position r2.Vec             `json:"position"`
	Health   float64            `json:"health"`
	Emotion  components.Emotion `json:"emotion,omitempty"`
}

// Avatars is an in-memory avatar table standing in for the avatar
// subsystem. It satisfies OwnerLocator and systems.OwnerHealer.
type Avatars struct {
	mu    sync.RWMutex
	byID  map[components.OwnerID]*Avatar
	order []components.OwnerID
}

// NewAvatars creates an empty table.
func NewAvatars() *Avatars {
	return &Avatars{byID: make(map[components.OwnerID]*Avatar)}
}

// Move sets an avatar position, creating the avatar on first sight.
func (a *Avatars) Move(id components.OwnerID, pos r2.Vec) {
	a.mu.Lock()
	defer a.mu.Unlock()
	av, ok := a.byID[id]
	if !ok {
		av = &Avatar{ID: id, Health: components.NeedMax}
		a.byID[id] = av
		a.order = append(a.order, id)
	}
	av.Position = pos
}

// SetEmotion records the avatar's latest emotion.
func (a *Avatars) SetEmotion(id components.OwnerID, e components.Emotion) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if av, ok := a.byID[id]; ok {
		av.Emotion = e
	}
}

// Remove drops an avatar.
func (a *Avatars) Remove(id components.OwnerID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byID[id]; !ok {
		return
	}
	delete(a.byID, id)
	for i, o := range a.order {
		if o == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// PositionOf implements OwnerLocator.
func (a *Avatars) PositionOf(id components.OwnerID) (r2.Vec, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	av, ok := a.byID[id]
	if !ok {
		return r2.Vec{}, false
	}
	return av.Position, true
}

// HealOwner restores avatar health, capped at 100.
func (a *Avatars) HealOwner(id components.OwnerID, amount float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if av, ok := a.byID[id]; ok {
		av.Health = components.ClampNeed(av.Health + amount)
	}
}

// Get returns a copy of one avatar.
func (a *Avatars) Get(id components.OwnerID) (Avatar, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	av, ok := a.byID[id]
	if !ok {
		return Avatar{}, false
	}
	return *av, true
}

// All returns copies of every avatar in join order.
func (a *Avatars) All() []Avatar {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]Avatar, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, *a.byID[id])
	}
	return out
}

// Len returns the number of avatars.
func (a *Avatars) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.byID)
}
