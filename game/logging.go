package game

import (
	"log/slog"

	"github.com/pthm-cable/petroom/components"
)

// worldLogEvery is the number of ticks between world state log lines.
const worldLogEvery = 600

// maybeLogWorldState logs a room summary every worldLogEvery ticks when
// stats logging is on.
func (g *Game) maybeLogWorldState() {
	tick := g.room.TickCount()
	if !g.logStats || tick-g.lastWorldLog < worldLogEvery {
		return
	}
	g.lastWorldLog = tick
	g.logWorldState()
}

// logWorldState logs species and action counts of the live pets.
func (g *Game) logWorldState() {
	pets := g.room.Snapshot()

	bySpecies := make(map[components.Species]int)
	byAction := make(map[components.Action]int)
	var hungry, tired int
	for _, p := range pets {
		bySpecies[p.Species]++
		byAction[p.Action]++
		if p.Needs.Hunger < g.cfg.Needs.NeglectThreshold {
			hungry++
		}
		if p.Needs.Energy < 30 {
			tired++
		}
	}

	attrs := []any{
		"tick", g.room.TickCount(),
		"sim_time", g.room.Now().Round(1e9).String(),
		"pets", len(pets),
		"owners", g.avatars.Len(),
		"hungry", hungry,
		"tired", tired,
	}
	for _, s := range components.AllSpecies {
		if n := bySpecies[s]; n > 0 {
			attrs = append(attrs, "species_"+string(s), n)
		}
	}
	for a := components.Action(0); a < components.NumActions; a++ {
		if n := byAction[a]; n > 0 {
			attrs = append(attrs, "action_"+a.String(), n)
		}
	}
	slog.Info("world", attrs...)
}
