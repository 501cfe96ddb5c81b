package systems

import (
	"math"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
)

// ProgressionSystem accrues experience and levels pets up.
type ProgressionSystem struct {
	cfg config.ProgressionConfig
}

// NewProgressionSystem creates a progression system.
func NewProgressionSystem(cfg config.ProgressionConfig) *ProgressionSystem {
	return &ProgressionSystem{cfg: cfg}
}

// Update credits floor(rate * elapsedMinutes) experience, carrying the
// fractional remainder to the next call, and fires at most one level-up.
// Reports whether the pet leveled.
func (s *ProgressionSystem) Update(pet components.Pet, elapsedMinutes float64) bool {
	p := pet.Progression
	if elapsedMinutes > 0 {
		earned := s.cfg.ExpPerMinute*elapsedMinutes + p.ExperienceCarry
		whole := math.Floor(earned)
		p.ExperienceCarry = earned - whole
		p.Experience += int(whole)
	}

	if p.Experience >= s.Threshold(p.Level) {
		s.LevelUp(pet)
		return true
	}
	return false
}

// Threshold is the experience needed to leave level.
func (s *ProgressionSystem) Threshold(level int) int {
	return level * s.cfg.ExpPerLevel
}

// LevelUp advances one level. Surplus experience is dropped.
func (s *ProgressionSystem) LevelUp(pet components.Pet) {
	p := pet.Progression
	p.Level++
	p.Experience = 0
	p.SkillPoints += s.cfg.SkillPointsPerLevel

	n := pet.Needs
	n.Health = components.NeedMax
	n.Happiness += s.cfg.HappinessBonus
	n.Energy += s.cfg.EnergyBonus
	n.Clamp()
}
