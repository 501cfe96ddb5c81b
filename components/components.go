// Package components defines the ECS components that make up a pet.
package components

import (
	"strings"

	"github.com/pthm-cable/petroom/traits"
)

// PetID is an opaque unique pet identifier.
type PetID string

// OwnerID references an avatar owned by an external subsystem.
type OwnerID string

// Species is one of the fixed pet species.
type Species string

const (
	Cat     Species = "cat"
	Dog     Species = "dog"
	Bird    Species = "bird"
	Rabbit  Species = "rabbit"
	Fox     Species = "fox"
	Dragon  Species = "dragon"
	Hamster Species = "hamster"
	Unicorn Species = "unicorn"
)

// AllSpecies lists species in display order.
var AllSpecies = []Species{Cat, Dog, Bird, Rabbit, Fox, Dragon, Hamster, Unicorn}

// ParseSpecies maps a name to a Species.
func ParseSpecies(name string) (Species, bool) {
	s := Species(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range AllSpecies {
		if s == known {
			return s, true
		}
	}
	return "", false
}

// SpeciesProfile is the immutable per-species tuning a pet is bound to.
type SpeciesProfile struct {
	Species        Species
	Speed          float64 // meters per second
	FollowDistance float64 // meters
	EnergyDecay    float64 // per simulated minute
	HappinessDecay float64 // per simulated minute
	Interactions   []string
	Traits         traits.Trait
	Personality    traits.Personality
}

// FoodTier selects how much a feeding restores.
type FoodTier string

const (
	FoodGeneric  FoodTier = "generic"
	FoodPremium  FoodTier = "premium"
	FoodFavorite FoodTier = "favorite"
)

// FoodTiers lists every tier the config must define.
var FoodTiers = []FoodTier{FoodGeneric, FoodPremium, FoodFavorite}

// Emotion is an owner emotion reported by the avatar subsystem.
type Emotion string

const (
	EmotionHappy   Emotion = "happy"
	EmotionExcited Emotion = "excited"
	EmotionSad     Emotion = "sad"
	EmotionAngry   Emotion = "angry"
	EmotionLove    Emotion = "love"
)

// ParseEmotion maps a name to an Emotion.
func ParseEmotion(name string) (Emotion, bool) {
	e := Emotion(strings.ToLower(strings.TrimSpace(name)))
	switch e {
	case EmotionHappy, EmotionExcited, EmotionSad, EmotionAngry, EmotionLove:
		return e, true
	}
	return "", false
}
