package systems

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
)

// Decision is the outcome of one scheduler invocation.
type Decision struct {
	Action   components.Action
	Duration time.Duration
	Weights  []WeightedAction // the weighted eligible set the draw was made from
	Fallback bool             // true when nothing was eligible
}

// Scheduler picks each pet's next action by weighted random choice.
type Scheduler struct {
	cfg config.SchedulerConfig
	rng RNG
}

// NewScheduler creates a scheduler drawing from rng.
func NewScheduler(cfg config.SchedulerConfig, rng RNG) *Scheduler {
	return &Scheduler{cfg: cfg, rng: rng}
}

// Due reports whether the pet should pick a new action at now.
func (s *Scheduler) Due(pet components.Pet, now time.Duration) bool {
	return now >= pet.Behavior.NextDecision
}

// Decide builds the eligible set, weighs it and samples one action.
// The selection draw happens before the jitter draw.
func (s *Scheduler) Decide(ctx DecisionContext) Decision {
	weights := Weigh(ctx, Eligible(ctx))
	action, ok := Select(weights, s.rng)
	if !ok {
		slog.Warn("empty eligible set, falling back to idle",
			"species", ctx.Profile.Species,
			"mood", ctx.Mood,
		)
		return Decision{
			Action:   components.ActionIdle,
			Duration: secondsToDuration(s.cfg.FallbackSec),
			Weights:  weights,
			Fallback: true,
		}
	}
	return Decision{
		Action:   action,
		Duration: s.Duration(action, ctx.Profile),
		Weights:  weights,
	}
}

// Duration returns how long a pet of the given profile holds an action:
// the base table value scaled by personality plus uniform jitter.
func (s *Scheduler) Duration(a components.Action, profile components.SpeciesProfile) time.Duration {
	base := Describe(a).BaseDuration.Seconds() * durationMultiplier(a, profile.Personality)
	jitter := (s.rng.Float64()*2 - 1) * s.cfg.JitterSec
	secs := base + jitter
	if secs < 0 {
		secs = 0
	}
	return secondsToDuration(secs)
}

// Apply starts the decided action at now.
func (s *Scheduler) Apply(pet components.Pet, d Decision, now time.Duration) {
	StartAction(pet, d.Action, now, d.Duration)
}

// StartAction moves the pet's state machine cursor to a new action.
func StartAction(pet components.Pet, a components.Action, now, duration time.Duration) {
	b := pet.Behavior
	if b.Action != a {
		pet.Motion.HasTarget = false
	}
	b.Action = a
	b.ActionStart = now
	b.NextDecision = now + duration
}

func secondsToDuration(secs float64) time.Duration {
	return time.Duration(secs * float64(time.Second))
}
