package systems

import (
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/traits"
)

// OwnerHealer is the capability a healing pet uses to restore its owner.
type OwnerHealer interface {
	HealOwner(owner components.OwnerID, amount float64)
}

// Interaction records one performed pet-owner interaction.
type Interaction struct {
	Kind   string
	Effect config.InteractionEffect
	Healed float64 // owner health restored, 0 unless the species heals
}

// InteractionSystem gates and applies pet-owner interactions and reacts to
// owner emotions.
type InteractionSystem struct {
	cfg       config.InteractionConfig
	effects   map[string]config.InteractionEffect
	scheduler *Scheduler
	healer    OwnerHealer
	rng       RNG
}

// NewInteractionSystem creates an interaction system. healer may be nil.
func NewInteractionSystem(cfg *config.Config, scheduler *Scheduler, healer OwnerHealer, rng RNG) *InteractionSystem {
	return &InteractionSystem{
		cfg:       cfg.Interaction,
		effects:   cfg.Interactions,
		scheduler: scheduler,
		healer:    healer,
		rng:       rng,
	}
}

// CanInteract reports whether the cooldown has elapsed, the owner is within
// range and the pet is happy enough. A pet that has never interacted has no
// cooldown to wait out.
func (s *InteractionSystem) CanInteract(pet components.Pet, profile components.SpeciesProfile, ownerPos r2.Vec, now time.Duration) bool {
	soc := pet.Social
	if soc.HasInteracted && now-soc.LastInteraction <= soc.InteractionCooldown {
		return false
	}
	if r2.Norm(r2.Sub(pet.Motion.Position, ownerPos)) >= s.cfg.RangeFactor*profile.FollowDistance {
		return false
	}
	return pet.Needs.Happiness > s.cfg.MinHappiness
}

// Perform picks an interaction uniformly from the species list and applies
// its effect.
func (s *InteractionSystem) Perform(pet components.Pet, profile components.SpeciesProfile, now time.Duration) Interaction {
	kind := profile.Interactions[s.rng.Intn(len(profile.Interactions))]
	effect := s.effects[kind]

	n := pet.Needs
	n.Affection += effect.Affection
	n.Happiness += effect.Happiness
	n.Energy += effect.Energy
	n.Clamp()

	out := Interaction{Kind: kind, Effect: effect}
	if effect.OwnerHealth > 0 && profile.Traits.Has(traits.Healing) && s.healer != nil {
		s.healer.HealOwner(pet.Identity.OwnerID, effect.OwnerHealth)
		out.Healed = effect.OwnerHealth
	}

	pet.Social.LastInteraction = now
	pet.Social.HasInteracted = true
	pet.Social.SocialInteractions++
	return out
}

// MaybeInteract performs an interaction when the pet is in the interacting
// action and the gate holds.
func (s *InteractionSystem) MaybeInteract(pet components.Pet, profile components.SpeciesProfile, ownerPos r2.Vec, ownerKnown bool, now time.Duration) (Interaction, bool) {
	if pet.Behavior.Action != components.ActionInteracting || !ownerKnown {
		return Interaction{}, false
	}
	if !s.CanInteract(pet, profile, ownerPos, now) {
		return Interaction{}, false
	}
	return s.Perform(pet, profile, now), true
}

// EmotionReaction describes what an owner emotion did to a pet.
type EmotionReaction struct {
	Action    components.Action
	HasAction bool
	Mood      components.Mood
}

// ReactToOwnerEmotion overrides the pet's action and mood for one
// scheduling cycle. Unknown emotions are ignored.
func (s *InteractionSystem) ReactToOwnerEmotion(pet components.Pet, profile components.SpeciesProfile, emotion components.Emotion, now time.Duration) (EmotionReaction, bool) {
	var r EmotionReaction
	n := pet.Needs

	switch emotion {
	case components.EmotionHappy:
		r = EmotionReaction{Action: components.ActionCelebrating, HasAction: true, Mood: components.MoodHappy}
		n.Happiness += 10
	case components.EmotionExcited:
		r = EmotionReaction{Action: components.ActionCelebrating, HasAction: true, Mood: components.MoodEcstatic}
		n.Happiness += 10
	case components.EmotionSad:
		r = EmotionReaction{Action: components.ActionSeekingComfort, HasAction: true, Mood: components.MoodConcerned}
		n.Happiness -= 5
	case components.EmotionAngry:
		if profile.Personality == traits.Protective {
			r = EmotionReaction{Action: components.ActionProtecting, HasAction: true, Mood: components.MoodAlert}
		} else {
			r = EmotionReaction{Mood: components.MoodAnxious}
		}
	case components.EmotionLove:
		r = EmotionReaction{Action: components.ActionInteracting, HasAction: true, Mood: components.MoodLoving}
		n.Affection += 15
	default:
		return EmotionReaction{}, false
	}
	n.Clamp()

	b := pet.Behavior
	if r.HasAction {
		StartAction(pet, r.Action, now, s.scheduler.Duration(r.Action, profile))
	}
	// A mood-only reaction lasts until the current action's cycle ends.
	b.MoodOverride = r.Mood
	b.OverrideUntil = b.NextDecision
	if b.OverrideUntil <= now {
		b.OverrideUntil = now + Describe(b.Action).BaseDuration
	}
	b.Mood = r.Mood
	return r, true
}
