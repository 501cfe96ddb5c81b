package systems

import (
	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
)

// NeedsSystem decays and regenerates a pet's needs over simulated time.
type NeedsSystem struct {
	cfg config.NeedsConfig
}

// NewNeedsSystem creates a needs system with the given rates.
func NewNeedsSystem(cfg config.NeedsConfig) *NeedsSystem {
	return &NeedsSystem{cfg: cfg}
}

// Update applies elapsedMinutes of decay, the neglect penalty and, for
// resting pets, regeneration. Regeneration runs after decay so rest
// never nets negative. Every need ends clamped to [0,100].
func (s *NeedsSystem) Update(pet components.Pet, profile components.SpeciesProfile, elapsedMinutes float64) {
	if elapsedMinutes <= 0 {
		return
	}
	n := pet.Needs

	n.Energy -= profile.EnergyDecay * elapsedMinutes
	n.Happiness -= profile.HappinessDecay * elapsedMinutes
	n.Hunger -= s.cfg.HungerDecay * elapsedMinutes
	n.Clamp()

	if n.Hunger < s.cfg.NeglectThreshold || n.Happiness < s.cfg.NeglectThreshold {
		n.Health -= s.cfg.NeglectPenalty * elapsedMinutes
	}

	if pet.Behavior.Action.IsRest() {
		n.Energy += s.cfg.RestEnergyRegen * elapsedMinutes
		n.Health += s.cfg.RestHealthRegen * elapsedMinutes
	}

	n.Clamp()
}
