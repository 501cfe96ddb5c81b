package room

import (
	"math"
	"time"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/systems"
)

// TickResult summarizes one tick for the driver.
type TickResult struct {
	Tick      int64
	Now       time.Duration
	Elapsed   time.Duration // simulated
	Pets      int
	Decisions int
	LevelUps  int
}

// Tick advances the room by one real interval. Each phase runs over every
// live pet before the next starts, so each pet sees needs, mood, decide,
// interact and progression in that order. Pets removed mid-tick are
// skipped and flushed in the cleanup phase.
func (r *Registry) Tick(real time.Duration) TickResult {
	dt := r.clock.Advance(real)
	now := r.clock.Now()
	minutes := dt.Minutes()
	res := TickResult{Now: now, Elapsed: dt}

	r.inTick = true

	r.timer.StartPhase("needs")
	r.each(func(pet components.Pet) {
		r.needs.Update(pet, r.profile(pet), minutes)
	})

	r.timer.StartPhase("mood")
	r.each(func(pet components.Pet) {
		r.mood.Update(pet, now)
	})

	r.timer.StartPhase("decide")
	r.each(func(pet components.Pet) {
		if !r.scheduler.Due(pet, now) {
			return
		}
		ctx := r.decisionContext(pet, now)
		d := r.scheduler.Decide(ctx)
		r.scheduler.Apply(pet, d, now)
		res.Decisions++
		if d.Fallback {
			r.publish(Event{Type: EventSchedulerFallback, PetID: pet.Identity.ID, OwnerID: pet.Identity.OwnerID})
		}
	})

	r.timer.StartPhase("interact")
	r.interactPhase(now)

	r.timer.StartPhase("progression")
	r.each(func(pet components.Pet) {
		if r.progression.Update(pet, minutes) {
			res.LevelUps++
			r.publish(Event{
				Type:    EventPetLeveledUp,
				PetID:   pet.Identity.ID,
				OwnerID: pet.Identity.OwnerID,
				Level:   pet.Progression.Level,
			})
		}
	})

	r.timer.StartPhase("movement")
	secs := dt.Seconds()
	r.each(func(pet components.Pet) {
		pos, ok := r.owners.PositionOf(pet.Identity.OwnerID)
		r.movement.Update(pet, r.profile(pet), pos, ok, secs)
	})

	r.inTick = false

	r.timer.StartPhase("cleanup")
	pending := r.pending
	r.pending = nil
	for _, id := range pending {
		r.destroy(id)
	}

	r.tick++
	res.Tick = r.tick
	res.Pets = r.Len()
	return res
}

// each visits every live pet. fn must not add or remove entities.
func (r *Registry) each(fn func(pet components.Pet)) {
	query := r.filter.Query()
	for query.Next() {
		ident, needs, beh, soc, prog, mot := query.Get()
		if ident.Removed {
			continue
		}
		fn(components.Pet{Identity: ident, Needs: needs, Behavior: beh, Social: soc, Progression: prog, Motion: mot})
	}
}

func (r *Registry) decisionContext(pet components.Pet, now time.Duration) systems.DecisionContext {
	profile := r.profile(pet)
	ctx := systems.DecisionContext{
		Needs:   *pet.Needs,
		Mood:    pet.Behavior.Mood,
		Profile: profile,
	}
	if pos, ok := r.owners.PositionOf(pet.Identity.OwnerID); ok {
		ctx.OwnerKnown = true
		ctx.OwnerDistance = r2.Norm(r2.Sub(pet.Motion.Position, pos))
		ctx.CanInteract = r.interaction.CanInteract(pet, profile, pos, now)
	}
	return ctx
}

type located struct {
	entity ecs.Entity
	id     components.PetID
	pos    r2.Vec
}

// interactPhase runs owner interactions and socializing encounters.
func (r *Registry) interactPhase(now time.Duration) {
	var everyone []located
	r.each(func(pet components.Pet) {
		everyone = append(everyone, located{entity: r.entities[pet.Identity.ID], id: pet.Identity.ID, pos: pet.Motion.Position})
	})

	radius := r.social.EncounterRadius()
	r.each(func(pet components.Pet) {
		profile := r.profile(pet)
		pos, ok := r.owners.PositionOf(pet.Identity.OwnerID)
		if in, done := r.interaction.MaybeInteract(pet, profile, pos, ok, now); done {
			r.publish(Event{Type: EventPetInteracted, PetID: pet.Identity.ID, OwnerID: pet.Identity.OwnerID, Detail: in.Kind})
		}

		if pet.Behavior.Action != components.ActionSocializing {
			return
		}
		nearest, dist := located{}, math.Inf(1)
		for _, o := range everyone {
			if o.id == pet.Identity.ID {
				continue
			}
			if d := r2.Norm(r2.Sub(o.pos, pet.Motion.Position)); d <= radius && d < dist {
				nearest, dist = o, d
			}
		}
		if math.IsInf(dist, 1) {
			return
		}
		// One encounter per pair per interaction cooldown
		f, known := pet.Social.Friendships[nearest.id]
		if known && f.InteractionCount > 0 && now-f.LastInteraction <= pet.Social.InteractionCooldown {
			return
		}
		other := r.pet(nearest.entity)
		if other.Identity.Removed {
			return
		}
		r.social.RecordEncounter(pet, other, now)
		r.publish(Event{Type: EventPetEncounter, PetID: pet.Identity.ID, OwnerID: pet.Identity.OwnerID, OtherID: nearest.id})
	})
}
