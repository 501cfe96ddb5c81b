package systems

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pthm-cable/petroom/components"
)

func TestCompatibility(t *testing.T) {
	cfg := testConfig(t)
	g := NewSocialGraph(cfg.Social)

	tests := []struct {
		name string
		a, b components.Species
		want float64
	}{
		{"same species no pair", components.Rabbit, components.Rabbit, 0.8},
		{"different species no pair", components.Cat, components.Rabbit, 0.5},
		{"pair overrides species bonus", components.Cat, components.Cat, 0.6},
		{"pair table", components.Dog, components.Cat, 0.4},
		{"pair table reversed", components.Cat, components.Dog, 0.4},
		{"playful energetic", components.Bird, components.Hamster, 0.8},
		{"energetic playful", components.Hamster, components.Bird, 0.8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Compatibility(testProfile(t, cfg, tt.a), testProfile(t, cfg, tt.b))
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSeed_BothSides(t *testing.T) {
	cfg := testConfig(t)
	g := NewSocialGraph(cfg.Social)
	a := newTestPet("a", components.Rabbit, fullNeeds())
	b := newTestPet("b", components.Rabbit, fullNeeds())

	level := g.Seed(a, b, 0.8)
	assert.Equal(t, 40, level)
	assert.Equal(t, 40, a.Social.Friendships["b"].Level)
	assert.Equal(t, 40, b.Social.Friendships["a"].Level)
}

func TestRecordEncounter_KeepsLevel(t *testing.T) {
	cfg := testConfig(t)
	g := NewSocialGraph(cfg.Social)
	a := newTestPet("a", components.Dog, fullNeeds())
	b := newTestPet("b", components.Cat, fullNeeds())
	g.Seed(a, b, 0.4)

	g.RecordEncounter(a, b, 3*time.Second)
	g.RecordEncounter(a, b, 9*time.Second)

	fa := a.Social.Friendships["b"]
	assert.Equal(t, 20, fa.Level)
	assert.Equal(t, 2, fa.InteractionCount)
	assert.Equal(t, 9*time.Second, fa.LastInteraction)
	assert.Equal(t, 2, b.Social.Friendships["a"].InteractionCount)
	assert.Equal(t, 2, a.Social.SocialInteractions)
	assert.Equal(t, 2, b.Social.SocialInteractions)
}

func TestForget(t *testing.T) {
	cfg := testConfig(t)
	g := NewSocialGraph(cfg.Social)
	a := newTestPet("a", components.Dog, fullNeeds())
	b := newTestPet("b", components.Cat, fullNeeds())
	g.Seed(a, b, 0.5)

	g.Forget(a, "b")
	assert.NotContains(t, a.Social.Friendships, components.PetID("b"))
	assert.Contains(t, b.Social.Friendships, components.PetID("a"))
}
