// Package room owns the live pets of one shared room and drives their
// simulation pipeline.
package room

import (
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/systems"
)

// PhaseTimer receives pipeline phase boundaries. The caller brackets the
// whole tick; *telemetry.PerfCollector satisfies it.
type PhaseTimer interface {
	StartPhase(phase string)
}

type noopTimer struct{}

func (noopTimer) StartPhase(string) {}

// Options configures a Registry.
type Options struct {
	Owners OwnerLocator
	Healer systems.OwnerHealer
	Bus    *EventBus
	RNG    systems.RNG
	Timer  PhaseTimer
	// NewID generates pet ids. Defaults to uuid.NewString.
	NewID func() string
}

// Registry is the single owner of all live pets. It is not safe for
// concurrent use; callers serialize access through the simulation loop.
type Registry struct {
	cfg *config.Config

	world  *ecs.World
	mapper *ecs.Map6[
		components.Identity,
		components.Needs,
		components.Behavior,
		components.Social,
		components.Progression,
		components.Motion,
	]
	filter *ecs.Filter6[
		components.Identity,
		components.Needs,
		components.Behavior,
		components.Social,
		components.Progression,
		components.Motion,
	]

	entities map[components.PetID]ecs.Entity

	owners OwnerLocator
	bus    *EventBus
	rng    systems.RNG
	timer  PhaseTimer
	newID  func() string

	clock       *systems.Clock
	needs       *systems.NeedsSystem
	mood        *systems.MoodEvaluator
	scheduler   *systems.Scheduler
	interaction *systems.InteractionSystem
	social      *systems.SocialGraph
	progression *systems.ProgressionSystem
	movement    *systems.MovementSystem

	tick    int64
	nextSeq uint64
	inTick  bool
	pending []components.PetID // marked for removal during the current tick
}

// NewRegistry creates an empty room.
func NewRegistry(cfg *config.Config, opts Options) *Registry {
	world := ecs.NewWorld()

	if opts.Bus == nil {
		opts.Bus = NewEventBus()
	}
	if opts.RNG == nil {
		opts.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Timer == nil {
		opts.Timer = noopTimer{}
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Owners == nil {
		opts.Owners = NewAvatars()
	}

	scheduler := systems.NewScheduler(cfg.Scheduler, opts.RNG)
	bounds := systems.Bounds{Width: cfg.Room.Width, Height: cfg.Room.Height}

	return &Registry{
		cfg:   cfg,
		world: world,
		mapper: ecs.NewMap6[
			components.Identity,
			components.Needs,
			components.Behavior,
			components.Social,
			components.Progression,
			components.Motion,
		](world),
		filter: ecs.NewFilter6[
			components.Identity,
			components.Needs,
			components.Behavior,
			components.Social,
			components.Progression,
			components.Motion,
		](world),
		entities:    make(map[components.PetID]ecs.Entity),
		owners:      opts.Owners,
		bus:         opts.Bus,
		rng:         opts.RNG,
		timer:       opts.Timer,
		newID:       opts.NewID,
		clock:       systems.NewClock(cfg.Simulation.TimeScale),
		needs:       systems.NewNeedsSystem(cfg.Needs),
		mood:        systems.NewMoodEvaluator(cfg.Mood),
		scheduler:   scheduler,
		interaction: systems.NewInteractionSystem(cfg, scheduler, opts.Healer, opts.RNG),
		social:      systems.NewSocialGraph(cfg.Social),
		progression: systems.NewProgressionSystem(cfg.Progression),
		movement:    systems.NewMovementSystem(bounds, opts.RNG),
	}
}

// Bus returns the registry's event bus.
func (r *Registry) Bus() *EventBus { return r.bus }

// Config returns the configuration the room runs with.
func (r *Registry) Config() *config.Config { return r.cfg }

// Now returns the current simulation time.
func (r *Registry) Now() time.Duration { return r.clock.Now() }

// TickCount returns the number of completed ticks.
func (r *Registry) TickCount() int64 { return r.tick }

// Bounds returns the room extent in meters.
func (r *Registry) Bounds() systems.Bounds { return r.movement.Bounds() }

// Len returns the number of live pets, excluding pets marked for removal.
func (r *Registry) Len() int { return len(r.entities) - len(r.pending) }

// pet builds a component view for an entity.
func (r *Registry) pet(e ecs.Entity) components.Pet {
	id, needs, beh, soc, prog, mot := r.mapper.Get(e)
	return components.Pet{Identity: id, Needs: needs, Behavior: beh, Social: soc, Progression: prog, Motion: mot}
}

// lookup returns a live pet by id.
func (r *Registry) lookup(id components.PetID) (components.Pet, bool) {
	e, ok := r.entities[id]
	if !ok || !r.world.Alive(e) {
		return components.Pet{}, false
	}
	pet := r.pet(e)
	if pet.Identity.Removed {
		return components.Pet{}, false
	}
	return pet, true
}

func (r *Registry) profile(pet components.Pet) components.SpeciesProfile {
	p, _ := r.cfg.Profile(pet.Identity.Species)
	return p
}

func (r *Registry) publish(ev Event) {
	ev.Tick = r.tick
	ev.Time = r.clock.Now()
	r.bus.Publish(ev)
}

// SpawnOptions are the visual settings chosen at spawn.
type SpawnOptions struct {
	Name    string
	Color   string
	Options map[string]string
}

// SpawnPet creates a pet bound to owner. Unknown species are rejected
// without creating anything.
func (r *Registry) SpawnPet(owner components.OwnerID, species string, opts SpawnOptions) (components.PetID, error) {
	s, ok := components.ParseSpecies(species)
	if !ok {
		return "", &InvalidSpeciesError{Species: species}
	}
	profile, ok := r.cfg.Profile(s)
	if !ok {
		return "", &InvalidSpeciesError{Species: species}
	}
	if limit := r.cfg.Room.MaxPetsPerOwner; limit > 0 && len(r.PetsOf(owner)) >= limit {
		return "", ErrPetLimit
	}

	id := components.PetID(r.newID())
	now := r.clock.Now()

	identity := components.Identity{
		ID:      id,
		OwnerID: owner,
		Species: s,
		Customization: components.Customization{
			Name:    opts.Name,
			Color:   opts.Color,
			Options: opts.Options,
		}.Clone(),
		Seq: r.nextSeq,
	}
	r.nextSeq++

	init := r.cfg.Needs.Initial
	needs := components.Needs{
		Health:    init.Health,
		Energy:    init.Energy,
		Hunger:    init.Hunger,
		Happiness: init.Happiness,
		Affection: init.Affection,
	}
	needs.Clamp()

	behavior := components.Behavior{
		Mood:         r.mood.FromNeeds(needs),
		Action:       components.ActionIdle,
		ActionStart:  now,
		NextDecision: now + time.Duration(r.cfg.Scheduler.InitialDecisionSec*float64(time.Second)),
	}
	social := components.Social{
		InteractionCooldown: r.cfg.Derived.InteractionCooldown,
		Friendships:         make(map[components.PetID]components.Friendship),
	}
	progression := components.Progression{Level: 1}
	motion := components.Motion{Position: r.spawnPosition(owner)}

	e := r.mapper.NewEntity(&identity, &needs, &behavior, &social, &progression, &motion)
	r.entities[id] = e

	// Seed friendships against every other live pet
	created := r.pet(e)
	query := r.filter.Query()
	for query.Next() {
		other := query.Entity()
		if other == e {
			continue
		}
		op := r.pet(other)
		if op.Identity.Removed {
			continue
		}
		compat := r.social.Compatibility(profile, r.profile(op))
		r.social.Seed(created, op, compat)
	}

	slog.Debug("pet spawned", "pet", id, "owner", owner, "species", s)
	state := r.stateOf(r.pet(e))
	r.publish(Event{Type: EventPetCreated, PetID: id, OwnerID: owner, Pet: &state})
	return id, nil
}

func (r *Registry) spawnPosition(owner components.OwnerID) r2.Vec {
	bounds := r.movement.Bounds()
	anchor := r2.Vec{X: bounds.Width / 2, Y: bounds.Height / 2}
	if pos, ok := r.owners.PositionOf(owner); ok {
		anchor = pos
	}
	offset := r.cfg.Room.SpawnOffset
	p := r2.Add(anchor, r2.Vec{
		X: (r.rng.Float64()*2 - 1) * offset,
		Y: (r.rng.Float64()*2 - 1) * offset,
	})
	return bounds.Clamp(p)
}

// RemovePet removes a pet and purges it from every friendship map.
// During a tick the pet is only marked and is flushed after the pipeline.
func (r *Registry) RemovePet(id components.PetID) error {
	pet, ok := r.lookup(id)
	if !ok {
		return &PetNotFoundError{ID: id}
	}
	if r.inTick {
		pet.Identity.Removed = true
		r.pending = append(r.pending, id)
		return nil
	}
	r.destroy(id)
	return nil
}

// destroy purges and deletes a pet. Must not run inside a query.
func (r *Registry) destroy(id components.PetID) {
	e, ok := r.entities[id]
	if !ok {
		return
	}
	pet := r.pet(e)
	owner := pet.Identity.OwnerID
	state := r.stateOf(pet)

	query := r.filter.Query()
	for query.Next() {
		other := query.Entity()
		if other == e {
			continue
		}
		r.social.Forget(r.pet(other), id)
	}

	r.world.RemoveEntity(e)
	delete(r.entities, id)

	slog.Debug("pet removed", "pet", id, "owner", owner)
	r.publish(Event{Type: EventPetRemoved, PetID: id, OwnerID: owner, Pet: &state})
}

// PetsOf returns the live pets of an owner in spawn order.
func (r *Registry) PetsOf(owner components.OwnerID) []components.PetID {
	var out []components.PetID
	for _, st := range r.Snapshot() {
		if st.OwnerID == owner {
			out = append(out, st.ID)
		}
	}
	return out
}

// Owners returns the distinct owners that have live pets.
func (r *Registry) Owners() []components.OwnerID {
	var out []components.OwnerID
	for _, st := range r.Snapshot() {
		if !slices.Contains(out, st.OwnerID) {
			out = append(out, st.OwnerID)
		}
	}
	return out
}
