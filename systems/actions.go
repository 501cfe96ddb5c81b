package systems

import (
	"time"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/traits"
)

// DecisionContext is the snapshot an action decision is made against.
type DecisionContext struct {
	Needs   components.Needs
	Mood    components.Mood
	Profile components.SpeciesProfile

	// OwnerKnown is false when the owner has no reported position. Actions
	// that need the owner are then ineligible.
	OwnerKnown    bool
	OwnerDistance float64

	// CanInteract is the InteractionSystem gate evaluated at the same
	// instant: cooldown elapsed, owner in range and happiness high enough.
	CanInteract bool
}

// ActionDescriptor is the static behavior entry for one action.
type ActionDescriptor struct {
	Action       components.Action
	BaseDuration time.Duration
	Eligible     func(ctx DecisionContext) bool
}

func energetic(ctx DecisionContext) bool { return ctx.Needs.Energy > 60 }

func ownerFar(ctx DecisionContext) bool {
	return ctx.OwnerKnown && ctx.OwnerDistance > ctx.Profile.FollowDistance
}

// Catalog is the action table in stable enumeration order. Weighted
// selection walks it in this order.
var Catalog = [components.NumActions]ActionDescriptor{
	{components.ActionIdle, 3 * time.Second, func(DecisionContext) bool { return true }},
	{components.ActionFollowing, 5 * time.Second, ownerFar},
	{components.ActionExploring, 10 * time.Second, energetic},
	{components.ActionPlaying, 8 * time.Second, func(ctx DecisionContext) bool {
		return energetic(ctx) || ctx.Mood == components.MoodHappy
	}},
	{components.ActionFlying, 12 * time.Second, func(ctx DecisionContext) bool {
		return energetic(ctx) && ctx.Profile.Traits.Has(traits.Flying)
	}},
	{components.ActionCastingMagic, 5 * time.Second, func(ctx DecisionContext) bool {
		return energetic(ctx) && ctx.Profile.Traits.Has(traits.Magic)
	}},
	{components.ActionResting, 15 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Needs.Energy < 30 || ctx.Needs.Health < 50
	}},
	{components.ActionSleeping, 20 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Needs.Energy < 15
	}},
	{components.ActionSeekingFood, 6 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Needs.Hunger < 40
	}},
	{components.ActionInteracting, 4 * time.Second, func(ctx DecisionContext) bool {
		return ctx.OwnerKnown && ctx.CanInteract
	}},
	{components.ActionCelebrating, 4 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Mood == components.MoodEcstatic
	}},
	{components.ActionShowingOff, 5 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Mood == components.MoodEcstatic
	}},
	{components.ActionSocializing, 6 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Mood == components.MoodHappy
	}},
	{components.ActionSeekingComfort, 8 * time.Second, func(ctx DecisionContext) bool {
		return ctx.Mood == components.MoodSad
	}},
	// Only reachable through an owner emotion reaction.
	{components.ActionProtecting, 10 * time.Second, func(DecisionContext) bool { return false }},
}

// Describe returns the descriptor for an action.
func Describe(a components.Action) ActionDescriptor {
	if a < components.NumActions {
		return Catalog[a]
	}
	return Catalog[components.ActionIdle]
}

// Eligible returns the eligible set in catalog order.
func Eligible(ctx DecisionContext) []components.Action {
	out := make([]components.Action, 0, 6)
	for _, d := range Catalog {
		if d.Eligible(ctx) {
			out = append(out, d.Action)
		}
	}
	return out
}

// WeightedAction pairs an eligible action with its selection weight.
type WeightedAction struct {
	Action components.Action
	Weight float64
}

// Weigh assigns personality and urgency weights to an eligible set,
// preserving its order.
func Weigh(ctx DecisionContext, eligible []components.Action) []WeightedAction {
	out := make([]WeightedAction, len(eligible))
	for i, a := range eligible {
		out[i] = WeightedAction{Action: a, Weight: weight(ctx, a)}
	}
	return out
}

func weight(ctx DecisionContext, a components.Action) float64 {
	w := 1.0

	switch ctx.Profile.Personality {
	case traits.Playful:
		if a == components.ActionPlaying {
			w *= 3
		}
	case traits.Loyal:
		if a == components.ActionFollowing || a == components.ActionInteracting {
			w *= 2
		}
	case traits.Independent:
		if a == components.ActionFollowing {
			w *= 0.5
		}
	case traits.Curious:
		if a == components.ActionExploring {
			w *= 2
		}
	}

	switch a {
	case components.ActionSeekingFood:
		if ctx.Needs.Hunger < 30 {
			w *= 4
		}
	case components.ActionResting:
		if ctx.Needs.Energy < 40 {
			w *= 3
		}
	case components.ActionSleeping:
		if ctx.Needs.Energy < 20 {
			w *= 5
		}
	}
	return w
}

// WeightOf returns the weight of a in a weighted set, or 0 if absent.
func WeightOf(set []WeightedAction, a components.Action) float64 {
	for _, wa := range set {
		if wa.Action == a {
			return wa.Weight
		}
	}
	return 0
}

// Select draws r in [0, total) and walks the set subtracting weights,
// returning the first action where r drops to zero or below.
func Select(set []WeightedAction, rng RNG) (components.Action, bool) {
	if len(set) == 0 {
		return components.ActionIdle, false
	}
	total := 0.0
	for _, wa := range set {
		total += wa.Weight
	}
	if total <= 0 {
		return components.ActionIdle, false
	}

	r := rng.Float64() * total
	for _, wa := range set {
		r -= wa.Weight
		if r <= 0 {
			return wa.Action, true
		}
	}
	// Float rounding can leave a sliver past the last weight.
	return set[len(set)-1].Action, true
}

// durationMultiplier applies personality scaling to a base duration.
func durationMultiplier(a components.Action, p traits.Personality) float64 {
	m := 1.0
	switch p {
	case traits.Energetic:
		m *= 0.7
	case traits.Lazy:
		m *= 1.5
	case traits.Curious:
		if a == components.ActionExploring {
			m *= 1.5
		}
	}
	return m
}
