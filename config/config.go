// Package config provides configuration loading and access for the pet room.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/traits"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Simulation   SimulationConfig             `yaml:"simulation"`
	Room         RoomConfig                   `yaml:"room"`
	Needs        NeedsConfig                  `yaml:"needs"`
	Mood         MoodConfig                   `yaml:"mood"`
	Scheduler    SchedulerConfig              `yaml:"scheduler"`
	Interaction  InteractionConfig            `yaml:"interaction"`
	Food         FoodConfig                   `yaml:"food"`
	Play         PlayConfig                   `yaml:"play"`
	Progression  ProgressionConfig            `yaml:"progression"`
	Social       SocialConfig                 `yaml:"social"`
	Species      []SpeciesConfig              `yaml:"species"`
	Interactions map[string]InteractionEffect `yaml:"interactions"`
	Telemetry    TelemetryConfig              `yaml:"telemetry"`
	Bookmarks    BookmarksConfig              `yaml:"bookmarks"`
	HallOfFame   HallOfFameConfig             `yaml:"hall_of_fame"`
	Server       ServerConfig                 `yaml:"server"`
	Screen       ScreenConfig                 `yaml:"screen"`
	Bots         BotsConfig                   `yaml:"bots"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// SimulationConfig holds tick driver parameters.
type SimulationConfig struct {
	TickRateHz int     `yaml:"tick_rate_hz"`
	TimeScale  float64 `yaml:"time_scale"` // Simulated seconds per real second
}

// RoomConfig holds room dimensions and ownership limits.
type RoomConfig struct {
	Width           float64 `yaml:"width"`  // meters
	Height          float64 `yaml:"height"` // meters
	MaxPetsPerOwner int     `yaml:"max_pets_per_owner"`
	SpawnOffset     float64 `yaml:"spawn_offset"` // Max distance from owner at spawn
}

// NeedValues is a full needs vector, used for spawn defaults.
type NeedValues struct {
	Health    float64 `yaml:"health"`
	Energy    float64 `yaml:"energy"`
	Hunger    float64 `yaml:"hunger"`
	Happiness float64 `yaml:"happiness"`
	Affection float64 `yaml:"affection"`
}

// NeedsConfig holds decay and regeneration rates, all per simulated minute.
type NeedsConfig struct {
	Initial          NeedValues `yaml:"initial"`
	HungerDecay      float64    `yaml:"hunger_decay"`
	NeglectThreshold float64    `yaml:"neglect_threshold"` // hunger or happiness below this hurts health
	NeglectPenalty   float64    `yaml:"neglect_penalty"`
	RestEnergyRegen  float64    `yaml:"rest_energy_regen"`
	RestHealthRegen  float64    `yaml:"rest_health_regen"`
}

// MoodConfig holds the lower bound of each mood band on the needs average.
type MoodConfig struct {
	Ecstatic float64 `yaml:"ecstatic"`
	Happy    float64 `yaml:"happy"`
	Content  float64 `yaml:"content"`
	Sad      float64 `yaml:"sad"`
}

// SchedulerConfig holds action scheduling parameters.
type SchedulerConfig struct {
	JitterSec          float64 `yaml:"jitter_sec"`           // Uniform +/- jitter on every duration
	FallbackSec        float64 `yaml:"fallback_sec"`         // Idle duration when nothing is eligible
	InitialDecisionSec float64 `yaml:"initial_decision_sec"` // Delay before a new pet's first decision
}

// InteractionConfig gates pet-owner interactions.
type InteractionConfig struct {
	CooldownMs   int     `yaml:"cooldown_ms"`
	RangeFactor  float64 `yaml:"range_factor"` // Multiplier on follow distance
	MinHappiness float64 `yaml:"min_happiness"`
}

// FoodConfig holds feeding amounts by tier.
type FoodConfig struct {
	Tiers          map[string]float64 `yaml:"tiers"`
	HappinessBonus float64            `yaml:"happiness_bonus"`
}

// PlayConfig holds the effect of the play command.
type PlayConfig struct {
	Happiness float64 `yaml:"happiness"`
	Energy    float64 `yaml:"energy"`
	Affection float64 `yaml:"affection"`
}

// ProgressionConfig holds leveling parameters.
type ProgressionConfig struct {
	ExpPerMinute        float64 `yaml:"exp_per_minute"`
	ExpPerLevel         int     `yaml:"exp_per_level"` // Threshold is level * this
	SkillPointsPerLevel int     `yaml:"skill_points_per_level"`
	HappinessBonus      float64 `yaml:"happiness_bonus"`
	EnergyBonus         float64 `yaml:"energy_bonus"`
}

// PersonalityPair is one entry of the compatibility lookup table.
type PersonalityPair struct {
	A     string  `yaml:"a"`
	B     string  `yaml:"b"`
	Value float64 `yaml:"value"`
}

// SocialConfig holds pet-pet compatibility parameters.
type SocialConfig struct {
	BaseCompatibility float64           `yaml:"base_compatibility"`
	SameSpeciesBonus  float64           `yaml:"same_species_bonus"`
	FriendshipScale   float64           `yaml:"friendship_scale"` // Seed level = floor(compat * this)
	EncounterRadius   float64           `yaml:"encounter_radius"`
	PersonalityPairs  []PersonalityPair `yaml:"personality_pairs"`
}

// SpeciesConfig defines one species profile.
type SpeciesConfig struct {
	Name           string   `yaml:"name"`
	Speed          float64  `yaml:"speed"`           // meters per second
	FollowDistance float64  `yaml:"follow_distance"` // meters
	EnergyDecay    float64  `yaml:"energy_decay"`    // per minute
	HappinessDecay float64  `yaml:"happiness_decay"` // per minute
	Interactions   []string `yaml:"interactions"`
	Traits         []string `yaml:"traits"`
	Personality    string   `yaml:"personality"`
}

// InteractionEffect is the fixed effect of one interaction kind.
type InteractionEffect struct {
	Affection   float64 `yaml:"affection"`
	Happiness   float64 `yaml:"happiness"`
	Energy      float64 `yaml:"energy"`
	OwnerHealth float64 `yaml:"owner_health"` // Only applied by species with the healing trait
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"` // seconds
	BookmarkHistorySize int     `yaml:"bookmark_history_size"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// BookmarksConfig holds bookmark detection thresholds.
type BookmarksConfig struct {
	NeglectWave  NeglectWaveConfig  `yaml:"neglect_wave"`
	MoodCrash    MoodCrashConfig    `yaml:"mood_crash"`
	LevelUpBurst LevelUpBurstConfig `yaml:"level_up_burst"`
	CalmRoom     CalmRoomConfig     `yaml:"calm_room"`
}

// NeglectWaveConfig flags windows where most pets are going hungry.
type NeglectWaveConfig struct {
	HungerP50 float64 `yaml:"hunger_p50"`
	MinPets   int     `yaml:"min_pets"`
}

// MoodCrashConfig flags a sharp drop in the share of content-or-better pets.
type MoodCrashConfig struct {
	DropFraction float64 `yaml:"drop_fraction"`
	MinPets      int     `yaml:"min_pets"`
}

// LevelUpBurstConfig flags windows with many level-ups.
type LevelUpBurstConfig struct {
	MinLevelUps int `yaml:"min_level_ups"`
}

// CalmRoomConfig flags sustained periods where nearly every pet is happy.
type CalmRoomConfig struct {
	MinPets       int     `yaml:"min_pets"`
	HappyFraction float64 `yaml:"happy_fraction"`
	StableWindows int     `yaml:"stable_windows"`
}

// HallOfFameConfig holds settings for the top-pets leaderboard.
type HallOfFameConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// ServerConfig holds HTTP/WebSocket gateway settings.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	SnapshotEvery int    `yaml:"snapshot_every"` // ticks between state frames
	MaxQueue      int    `yaml:"max_queue"`      // per-connection outbound frames
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width          int     `yaml:"width"`
	Height         int     `yaml:"height"`
	TargetFPS      int     `yaml:"target_fps"`
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
}

// BotsConfig drives simulated owners for headless and viewer runs.
type BotsConfig struct {
	Count         int      `yaml:"count"`
	PetsPerBot    int      `yaml:"pets_per_bot"`
	MoveInterval  float64  `yaml:"move_interval"`  // seconds between new walk targets
	WalkSpeed     float64  `yaml:"walk_speed"`     // meters per second
	EmotionChance float64  `yaml:"emotion_chance"` // per bot per second
	Emotions      []string `yaml:"emotions"`
	FeedBelow     float64  `yaml:"feed_below"` // feed pets whose hunger drops below this; 0 disables
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TickInterval        time.Duration
	InteractionCooldown time.Duration
	SpeciesIndex        map[string]int // name -> index into Species
	Profiles            map[components.Species]components.SpeciesProfile
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// computeDerived validates the loaded values and fills Derived.
func (c *Config) computeDerived() error {
	if c.Simulation.TickRateHz <= 0 {
		return fmt.Errorf("simulation.tick_rate_hz must be positive, got %d", c.Simulation.TickRateHz)
	}
	if c.Simulation.TimeScale <= 0 {
		c.Simulation.TimeScale = 1
	}
	c.Derived.TickInterval = time.Second / time.Duration(c.Simulation.TickRateHz)
	c.Derived.InteractionCooldown = time.Duration(c.Interaction.CooldownMs) * time.Millisecond

	for _, tier := range components.FoodTiers {
		if _, ok := c.Food.Tiers[string(tier)]; !ok {
			return fmt.Errorf("food.tiers missing %q", tier)
		}
	}

	for _, p := range c.Social.PersonalityPairs {
		if !traits.Personality(p.A).Valid() || !traits.Personality(p.B).Valid() {
			return fmt.Errorf("social.personality_pairs: unknown personality in %s/%s", p.A, p.B)
		}
	}

	c.Derived.SpeciesIndex = make(map[string]int, len(c.Species))
	c.Derived.Profiles = make(map[components.Species]components.SpeciesProfile, len(c.Species))
	for i, sc := range c.Species {
		profile, err := c.buildProfile(sc)
		if err != nil {
			return fmt.Errorf("species %q: %w", sc.Name, err)
		}
		c.Derived.SpeciesIndex[sc.Name] = i
		c.Derived.Profiles[profile.Species] = profile
	}
	return nil
}

func (c *Config) buildProfile(sc SpeciesConfig) (components.SpeciesProfile, error) {
	species, ok := components.ParseSpecies(sc.Name)
	if !ok {
		return components.SpeciesProfile{}, fmt.Errorf("unknown species")
	}
	tr, err := traits.Parse(sc.Traits)
	if err != nil {
		return components.SpeciesProfile{}, err
	}
	personality := traits.Personality(sc.Personality)
	if !personality.Valid() {
		return components.SpeciesProfile{}, fmt.Errorf("unknown personality %q", sc.Personality)
	}
	if sc.Speed <= 0 || sc.FollowDistance <= 0 {
		return components.SpeciesProfile{}, fmt.Errorf("speed and follow_distance must be positive")
	}
	if len(sc.Interactions) == 0 {
		return components.SpeciesProfile{}, fmt.Errorf("no interactions")
	}
	for _, kind := range sc.Interactions {
		if _, ok := c.Interactions[kind]; !ok {
			return components.SpeciesProfile{}, fmt.Errorf("interaction %q has no effect entry", kind)
		}
	}

	return components.SpeciesProfile{
		Species:        species,
		Speed:          sc.Speed,
		FollowDistance: sc.FollowDistance,
		EnergyDecay:    sc.EnergyDecay,
		HappinessDecay: sc.HappinessDecay,
		Interactions:   append([]string(nil), sc.Interactions...),
		Traits:         tr,
		Personality:    personality,
	}, nil
}

// Profile returns the profile for a species.
func (c *Config) Profile(s components.Species) (components.SpeciesProfile, bool) {
	p, ok := c.Derived.Profiles[s]
	return p, ok
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
