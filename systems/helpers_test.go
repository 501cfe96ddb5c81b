package systems

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
)

// scriptedRNG replays fixed streams, cycling when exhausted.
type scriptedRNG struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRNG) Float64() float64 {
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[r.fi%len(r.floats)]
	r.fi++
	return v
}

func (r *scriptedRNG) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.ii%len(r.ints)]
	r.ii++
	return v % n
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func testProfile(t *testing.T, cfg *config.Config, s components.Species) components.SpeciesProfile {
	t.Helper()
	p, ok := cfg.Profile(s)
	require.True(t, ok, "no profile for %s", s)
	return p
}

func newTestPet(id string, species components.Species, needs components.Needs) components.Pet {
	pet := components.NewPet(components.PetID(id), "owner-1", species)
	*pet.Needs = needs
	pet.Social.InteractionCooldown = 5_000_000_000 // 5s
	return pet
}

func fullNeeds() components.Needs {
	return components.Needs{Health: 100, Energy: 100, Hunger: 100, Happiness: 100, Affection: 50}
}
