package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/petroom/components"
)

func TestMoodFromNeeds(t *testing.T) {
	cfg := testConfig(t)
	m := NewMoodEvaluator(cfg.Mood)

	tests := []struct {
		name string
		avg  float64
		want components.Mood
	}{
		{"top", 100, components.MoodEcstatic},
		{"ecstatic edge", 80, components.MoodEcstatic},
		{"happy", 79.9, components.MoodHappy},
		{"happy edge", 60, components.MoodHappy},
		{"content", 45, components.MoodContent},
		{"sad", 20, components.MoodSad},
		{"depressed", 19.99, components.MoodDepressed},
		{"zero", 0, components.MoodDepressed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := components.Needs{Health: tt.avg, Energy: tt.avg, Hunger: tt.avg, Happiness: tt.avg, Affection: 0}
			assert.Equal(t, tt.want, m.FromNeeds(n))
		})
	}
}

func TestMoodFromNeeds_IgnoresAffection(t *testing.T) {
	cfg := testConfig(t)
	m := NewMoodEvaluator(cfg.Mood)

	low := components.Needs{Health: 50, Energy: 50, Hunger: 50, Happiness: 50, Affection: 0}
	high := low
	high.Affection = 100
	assert.Equal(t, m.FromNeeds(low), m.FromNeeds(high))
}

func TestMoodUpdate_OverrideExpires(t *testing.T) {
	cfg := testConfig(t)
	m := NewMoodEvaluator(cfg.Mood)

	pet := newTestPet("p", components.Cat, fullNeeds())
	pet.Behavior.MoodOverride = components.MoodConcerned
	pet.Behavior.OverrideUntil = 10 * time.Second

	assert.Equal(t, components.MoodConcerned, m.Update(pet, 5*time.Second))
	assert.Equal(t, components.MoodEcstatic, m.Update(pet, 10*time.Second))
	assert.Empty(t, pet.Behavior.MoodOverride)
}
