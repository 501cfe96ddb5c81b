package game

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/room"
	"github.com/pthm-cable/petroom/systems"
)

// bot is one simulated owner wandering the room.
type bot struct {
	id       components.OwnerID
	target   r2.Vec
	untilNew float64 // seconds until a new walk target
}

// Bots stand in for real avatars: they walk around, spawn pets, change
// emotion now and then and feed pets that get too hungry.
type Bots struct {
	cfg      config.BotsConfig
	room     *room.Registry
	avatars  *room.Avatars
	rng      systems.RNG
	emotions []components.Emotion
	bots     []*bot
}

// NewBots creates the bot driver. Unknown emotion names are skipped.
func NewBots(cfg config.BotsConfig, r *room.Registry, avatars *room.Avatars, rng systems.RNG) *Bots {
	b := &Bots{cfg: cfg, room: r, avatars: avatars, rng: rng}
	for _, name := range cfg.Emotions {
		if e, ok := components.ParseEmotion(name); ok {
			b.emotions = append(b.emotions, e)
		} else {
			slog.Warn("bots: unknown emotion, skipping", "emotion", name)
		}
	}
	return b
}

// Spawn adds n bots, each with PetsPerBot pets of random species.
func (b *Bots) Spawn(n int) {
	bounds := b.room.Bounds()
	species := b.room.Config().Species
	for i := 0; i < n; i++ {
		bt := &bot{
			id:     components.OwnerID(fmt.Sprintf("bot-%d", len(b.bots)+1)),
			target: bounds.Random(b.rng),
		}
		b.avatars.Move(bt.id, bounds.Random(b.rng))
		b.bots = append(b.bots, bt)

		for j := 0; j < b.cfg.PetsPerBot && len(species) > 0; j++ {
			sc := species[b.rng.Intn(len(species))]
			name := fmt.Sprintf("%s-%d", sc.Name, j+1)
			if _, err := b.room.SpawnPet(bt.id, sc.Name, room.SpawnOptions{Name: name}); err != nil {
				slog.Warn("bots: spawn failed", "owner", bt.id, "species", sc.Name, "error", err)
			}
		}
	}
}

// Len returns the number of bots.
func (b *Bots) Len() int { return len(b.bots) }

// Owners returns the bot owner ids.
func (b *Bots) Owners() []components.OwnerID {
	out := make([]components.OwnerID, len(b.bots))
	for i, bt := range b.bots {
		out[i] = bt.id
	}
	return out
}

// Update advances every bot by dt real seconds.
func (b *Bots) Update(dt float64) {
	if dt <= 0 {
		return
	}
	bounds := b.room.Bounds()
	for _, bt := range b.bots {
		b.walk(bt, bounds, dt)

		if len(b.emotions) > 0 && b.rng.Float64() < b.cfg.EmotionChance*dt {
			e := b.emotions[b.rng.Intn(len(b.emotions))]
			b.avatars.SetEmotion(bt.id, e)
			b.room.OwnerEmotionChanged(bt.id, e)
		}

		if b.cfg.FeedBelow > 0 {
			b.feedHungry(bt)
		}
	}
}

func (b *Bots) walk(bt *bot, bounds systems.Bounds, dt float64) {
	av, ok := b.avatars.Get(bt.id)
	if !ok {
		return
	}

	bt.untilNew -= dt
	delta := r2.Sub(bt.target, av.Position)
	dist := r2.Norm(delta)
	if bt.untilNew <= 0 || dist < 0.1 {
		bt.target = bounds.Random(b.rng)
		bt.untilNew = b.cfg.MoveInterval
		return
	}

	step := b.cfg.WalkSpeed * dt
	next := bt.target
	if step < dist {
		next = r2.Add(av.Position, r2.Scale(step/dist, delta))
	}
	b.avatars.Move(bt.id, bounds.Clamp(next))
	b.room.OwnerMoved(bt.id)
}

func (b *Bots) feedHungry(bt *bot) {
	for _, id := range b.room.PetsOf(bt.id) {
		st, err := b.room.Pet(id)
		if err != nil || st.Needs.Hunger >= b.cfg.FeedBelow {
			continue
		}
		if err := b.room.FeedPet(id, components.FoodGeneric); err != nil {
			slog.Warn("bots: feed failed", "pet", id, "error", err)
		}
	}
}
