package components

import "time"

// Customization holds visual-only display settings.
type Customization struct {
	Name    string            `json:"name"`
	Color   string            `json:"color"`
	Options map[string]string `json:"options,omitempty"`
}

// Clone returns a deep copy.
func (c Customization) Clone() Customization {
	out := c
	if c.Options != nil {
		out.Options = make(map[string]string, len(c.Options))
		for k, v := range c.Options {
			out.Options[k] = v
		}
	}
	return out
}

// Identity bundles who a pet is and who owns it.
type Identity struct {
	ID            PetID         `inspect:"label"`
	OwnerID       OwnerID       `inspect:"label"`
	Species       Species       `inspect:"label"`
	Customization Customization `inspect:"skip"`
	Seq           uint64        `inspect:"skip"` // spawn order, for stable snapshots
	Removed       bool          `inspect:"skip"` // marked for removal after the current tick
}

// Needs are the five bounded [0,100] scalars describing a pet's internal state.
type Needs struct {
	Health    float64 `inspect:"bar,max:100"`
	Energy    float64 `inspect:"bar,max:100"`
	Hunger    float64 `inspect:"bar,max:100"` // fullness; low means hungry
	Happiness float64 `inspect:"bar,max:100"`
	Affection float64 `inspect:"bar,max:100"`
}

// NeedMax is the upper bound of every need.
const NeedMax = 100.0

// Clamp bounds every need to [0, NeedMax].
func (n *Needs) Clamp() {
	n.Health = ClampNeed(n.Health)
	n.Energy = ClampNeed(n.Energy)
	n.Hunger = ClampNeed(n.Hunger)
	n.Happiness = ClampNeed(n.Happiness)
	n.Affection = ClampNeed(n.Affection)
}

// ClampNeed bounds a single need value.
func ClampNeed(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > NeedMax {
		return NeedMax
	}
	return v
}

// Behavior is the action-state machine cursor plus the current mood.
// All times are simulation time since room start.
type Behavior struct {
	Mood          Mood          `inspect:"label"`
	MoodOverride  Mood          `inspect:"skip"` // set by owner emotion reactions
	OverrideUntil time.Duration `inspect:"skip"`
	Action        Action        `inspect:"label"`
	ActionStart   time.Duration `inspect:"label,fmt:%v"`
	NextDecision  time.Duration `inspect:"label,fmt:%v"`
}

// Friendship is one pet's view of its bond with another pet.
type Friendship struct {
	Level            int           `json:"level"`
	InteractionCount int           `json:"interaction_count"`
	LastInteraction  time.Duration `json:"last_interaction"`
}

// Social holds interaction gating and the friendship map.
type Social struct {
	LastInteraction     time.Duration        `inspect:"label,fmt:%v"`
	HasInteracted       bool                 `inspect:"bool"`
	InteractionCooldown time.Duration        `inspect:"label,fmt:%v"`
	SocialInteractions  int                  `inspect:"label"`
	Friendships         map[PetID]Friendship `inspect:"skip"`
}

// Progression holds leveling state. Level and SkillPoints never decrease.
type Progression struct {
	Level           int     `inspect:"label"`
	Experience      int     `inspect:"label"`
	SkillPoints     int     `inspect:"label"`
	ExperienceCarry float64 `inspect:"skip"` // fractional experience not yet credited
}

// Pet is a view over one pet's components. Systems mutate through it;
// the registry owns the storage.
type Pet struct {
	Identity    *Identity
	Needs       *Needs
	Behavior    *Behavior
	Social      *Social
	Progression *Progression
	Motion      *Motion
}

// NewPet allocates a detached pet with level 1 and empty social state.
func NewPet(id PetID, owner OwnerID, species Species) Pet {
	return Pet{
		Identity: &Identity{ID: id, OwnerID: owner, Species: species},
		Needs:    &Needs{},
		Behavior: &Behavior{Mood: MoodContent, Action: ActionIdle},
		Social: &Social{
			Friendships: make(map[PetID]Friendship),
		},
		Progression: &Progression{Level: 1},
		Motion:      &Motion{},
	}
}
