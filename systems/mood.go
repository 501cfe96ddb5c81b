package systems

import (
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
)

// MoodEvaluator derives a mood label from the needs vector.
type MoodEvaluator struct {
	cfg config.MoodConfig
}

// NewMoodEvaluator creates an evaluator with the given band thresholds.
func NewMoodEvaluator(cfg config.MoodConfig) *MoodEvaluator {
	return &MoodEvaluator{cfg: cfg}
}

// FromNeeds maps the mean of health, energy, happiness and hunger to a
// mood band. Affection does not count.
func (m *MoodEvaluator) FromNeeds(n components.Needs) components.Mood {
	avg := stat.Mean([]float64{n.Health, n.Energy, n.Happiness, n.Hunger}, nil)
	switch {
	case avg >= m.cfg.Ecstatic:
		return components.MoodEcstatic
	case avg >= m.cfg.Happy:
		return components.MoodHappy
	case avg >= m.cfg.Content:
		return components.MoodContent
	case avg >= m.cfg.Sad:
		return components.MoodSad
	default:
		return components.MoodDepressed
	}
}

// Evaluate returns the pet's mood at now. An owner-emotion override wins
// until it expires at the end of its scheduling cycle.
func (m *MoodEvaluator) Evaluate(pet components.Pet, now time.Duration) components.Mood {
	b := pet.Behavior
	if b.MoodOverride != "" && now < b.OverrideUntil {
		return b.MoodOverride
	}
	return m.FromNeeds(*pet.Needs)
}

// Update evaluates and stores the mood, clearing an expired override.
func (m *MoodEvaluator) Update(pet components.Pet, now time.Duration) components.Mood {
	b := pet.Behavior
	if b.MoodOverride != "" && now >= b.OverrideUntil {
		b.MoodOverride = ""
	}
	b.Mood = m.Evaluate(pet, now)
	return b.Mood
}
