package systems

import (
	"math"
	"time"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/traits"
)

type personalityPair struct {
	a, b traits.Personality
}

// SocialGraph computes static pet-pet compatibility and maintains the
// friendship maps.
type SocialGraph struct {
	cfg   config.SocialConfig
	pairs map[personalityPair]float64
}

// NewSocialGraph creates a social graph with a symmetric personality table.
func NewSocialGraph(cfg config.SocialConfig) *SocialGraph {
	g := &SocialGraph{
		cfg:   cfg,
		pairs: make(map[personalityPair]float64, 2*len(cfg.PersonalityPairs)),
	}
	for _, p := range cfg.PersonalityPairs {
		a, b := traits.Personality(p.A), traits.Personality(p.B)
		g.pairs[personalityPair{a, b}] = p.Value
		g.pairs[personalityPair{b, a}] = p.Value
	}
	return g
}

// Compatibility returns a score in [0,1]. The personality table, when it
// has an entry for the pair, replaces the species-adjusted base.
func (g *SocialGraph) Compatibility(a, b components.SpeciesProfile) float64 {
	if v, ok := g.pairs[personalityPair{a.Personality, b.Personality}]; ok {
		return v
	}
	c := g.cfg.BaseCompatibility
	if a.Species == b.Species {
		c += g.cfg.SameSpeciesBonus
	}
	return c
}

// Seed stores the initial friendship level in both pets' maps.
func (g *SocialGraph) Seed(a, b components.Pet, compatibility float64) int {
	level := int(math.Floor(compatibility * g.cfg.FriendshipScale))
	a.Social.Friendships[b.Identity.ID] = components.Friendship{Level: level}
	b.Social.Friendships[a.Identity.ID] = components.Friendship{Level: level}
	return level
}

// RecordEncounter bumps interaction counts and timestamps on both sides.
// Friendship level stays at its seed value.
func (g *SocialGraph) RecordEncounter(a, b components.Pet, now time.Duration) {
	touch := func(self, other components.Pet) {
		f := self.Social.Friendships[other.Identity.ID]
		f.InteractionCount++
		f.LastInteraction = now
		self.Social.Friendships[other.Identity.ID] = f
		self.Social.SocialInteractions++
	}
	touch(a, b)
	touch(b, a)
}

// Forget drops id from the pet's friendship map.
func (g *SocialGraph) Forget(pet components.Pet, id components.PetID) {
	delete(pet.Social.Friendships, id)
}

// EncounterRadius is the distance within which socializing pets meet.
func (g *SocialGraph) EncounterRadius() float64 {
	return g.cfg.EncounterRadius
}
