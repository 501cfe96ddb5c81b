package room

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
)

// NeedsState is the outbound needs vector.
type NeedsState struct {
	Health    float64 `json:"health"`
	Energy    float64 `json:"energy"`
	Hunger    float64 `json:"hunger"`
	Happiness float64 `json:"happiness"`
	Affection float64 `json:"affection"`
}

// PetState is the read-only view of a pet consumed by presentation.
type PetState struct {
	ID            components.PetID         `json:"id"`
	OwnerID       components.OwnerID       `json:"owner_id"`
	Species       components.Species       `json:"species"`
	Position      r2.Vec                   `json:"position"`
	Action        components.Action        `json:"action"`
	Mood          components.Mood          `json:"mood"`
	Needs         NeedsState               `json:"needs"`
	Level         int                      `json:"level"`
	Experience    int                      `json:"experience"`
	SkillPoints   int                      `json:"skill_points"`
	Customization components.Customization `json:"customization"`

	seq uint64
}

func (r *Registry) stateOf(pet components.Pet) PetState {
	n := pet.Needs
	return PetState{
		ID:       pet.Identity.ID,
		OwnerID:  pet.Identity.OwnerID,
		Species:  pet.Identity.Species,
		Position: pet.Motion.Position,
		Action:   pet.Behavior.Action,
		Mood:     pet.Behavior.Mood,
		Needs: NeedsState{
			Health:    n.Health,
			Energy:    n.Energy,
			Hunger:    n.Hunger,
			Happiness: n.Happiness,
			Affection: n.Affection,
		},
		Level:         pet.Progression.Level,
		Experience:    pet.Progression.Experience,
		SkillPoints:   pet.Progression.SkillPoints,
		Customization: pet.Identity.Customization.Clone(),
		seq:           pet.Identity.Seq,
	}
}

// Snapshot returns the state of every live pet in spawn order.
func (r *Registry) Snapshot() []PetState {
	out := make([]PetState, 0, len(r.entities))
	r.each(func(pet components.Pet) {
		out = append(out, r.stateOf(pet))
	})
	slices.SortFunc(out, func(a, b PetState) int {
		return cmp.Compare(a.seq, b.seq)
	})
	return out
}

// Pet returns the state of one live pet.
func (r *Registry) Pet(id components.PetID) (PetState, error) {
	pet, ok := r.lookup(id)
	if !ok {
		return PetState{}, &PetNotFoundError{ID: id}
	}
	return r.stateOf(pet), nil
}

// Inspect returns the live component view of a pet for debugging panels.
// The pointers are only valid until the next structural change.
func (r *Registry) Inspect(id components.PetID) (components.Pet, bool) {
	return r.lookup(id)
}

// Friendships returns a copy of a pet's friendship map.
func (r *Registry) Friendships(id components.PetID) (map[components.PetID]components.Friendship, error) {
	pet, ok := r.lookup(id)
	if !ok {
		return nil, &PetNotFoundError{ID: id}
	}
	out := make(map[components.PetID]components.Friendship, len(pet.Social.Friendships))
	for k, v := range pet.Social.Friendships {
		out[k] = v
	}
	return out, nil
}
