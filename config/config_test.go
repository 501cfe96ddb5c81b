package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/traits"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Simulation.TickRateHz)
	assert.Equal(t, 100*time.Millisecond, cfg.Derived.TickInterval)
	assert.Equal(t, 5*time.Second, cfg.Derived.InteractionCooldown)
	assert.Len(t, cfg.Derived.Profiles, len(components.AllSpecies))

	for _, s := range components.AllSpecies {
		_, ok := cfg.Profile(s)
		assert.True(t, ok, "missing profile for %s", s)
	}

	dragon, _ := cfg.Profile(components.Dragon)
	assert.True(t, dragon.Traits.Has(traits.Flying))
	assert.True(t, dragon.Traits.Has(traits.Magic))
	assert.Equal(t, traits.Protective, dragon.Personality)

	unicorn, _ := cfg.Profile(components.Unicorn)
	assert.True(t, unicorn.Traits.Has(traits.Healing))
}

func TestLoadOverridesMerge(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  tick_rate_hz: 20\nfood:\n  happiness_bonus: 15\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Simulation.TickRateHz)
	assert.Equal(t, 50*time.Millisecond, cfg.Derived.TickInterval)
	assert.Equal(t, 15.0, cfg.Food.HappinessBonus)
	// Untouched keys keep their defaults
	assert.Equal(t, 70.0, cfg.Food.Tiers["favorite"])
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero tick rate", "simulation:\n  tick_rate_hz: 0\n"},
		{"bad personality", "species:\n  - {name: cat, speed: 1, follow_distance: 1, interactions: [purr], personality: grumpy}\n"},
		{"bad trait", "species:\n  - {name: cat, speed: 1, follow_distance: 1, interactions: [purr], traits: [gills], personality: loyal}\n"},
		{"unknown species", "species:\n  - {name: axolotl, speed: 1, follow_distance: 1, interactions: [purr], personality: loyal}\n"},
		{"missing effect", "species:\n  - {name: cat, speed: 1, follow_distance: 1, interactions: [juggle], personality: loyal}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := MustLoad("")
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Room, again.Room)
	assert.Equal(t, len(cfg.Species), len(again.Species))
}
