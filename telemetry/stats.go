package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Pets   int `csv:"pets"`
	Owners int `csv:"owners"`

	// Events during window
	Spawns       int `csv:"spawns"`
	Removals     int `csv:"removals"`
	LevelUps     int `csv:"level_ups"`
	Feeds        int `csv:"feeds"`
	Plays        int `csv:"plays"`
	Interactions int `csv:"interactions"`
	Encounters   int `csv:"encounters"`
	Reactions    int `csv:"reactions"`
	Fallbacks    int `csv:"fallbacks"`

	// Needs distribution (sampled at window end)
	HealthMean    float64 `csv:"health_mean"`
	HealthP10     float64 `csv:"health_p10"`
	EnergyMean    float64 `csv:"energy_mean"`
	EnergyP10     float64 `csv:"energy_p10"`
	HungerMean    float64 `csv:"hunger_mean"`
	HungerP10     float64 `csv:"hunger_p10"`
	HungerP50     float64 `csv:"hunger_p50"`
	HungerP90     float64 `csv:"hunger_p90"`
	HappinessMean float64 `csv:"happiness_mean"`
	HappinessP10  float64 `csv:"happiness_p10"`
	HappinessP50  float64 `csv:"happiness_p50"`
	HappinessP90  float64 `csv:"happiness_p90"`
	AffectionMean float64 `csv:"affection_mean"`

	// Mood histogram
	Ecstatic  int `csv:"mood_ecstatic"`
	Happy     int `csv:"mood_happy"`
	Content   int `csv:"mood_content"`
	Sad       int `csv:"mood_sad"`
	Depressed int `csv:"mood_depressed"`
	Transient int `csv:"mood_transient"`

	// Share of pets that are content or better
	ContentFraction float64 `csv:"content_fraction"`
	// Share of pets that are happy or ecstatic
	HappyFraction float64 `csv:"happy_fraction"`

	// Progression
	LevelMean float64 `csv:"level_mean"`
	LevelStd  float64 `csv:"level_std"`
	LevelMax  int     `csv:"level_max"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeNeedStats calculates mean and percentiles of one need.
func ComputeNeedStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean = stat.Mean(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, p10, p50, p90
}

// ComputeLevelStats calculates mean, population std and max level.
func ComputeLevelStats(levels []float64) (mean, std float64, maxLevel int) {
	n := len(levels)
	if n == 0 {
		return 0, 0, 0
	}
	mean = stat.Mean(levels, nil)
	if n > 1 {
		// stat.StdDev is the sample estimate; rescale to population
		std = stat.StdDev(levels, nil) * math.Sqrt(float64(n-1)/float64(n))
	}
	maxLevel = int(slices.Max(levels))
	return mean, std, maxLevel
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("pets", s.Pets),
		slog.Int("owners", s.Owners),
		slog.Int("spawns", s.Spawns),
		slog.Int("removals", s.Removals),
		slog.Int("level_ups", s.LevelUps),
		slog.Int("feeds", s.Feeds),
		slog.Int("plays", s.Plays),
		slog.Int("interactions", s.Interactions),
		slog.Int("encounters", s.Encounters),
		slog.Int("reactions", s.Reactions),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Float64("health_mean", s.HealthMean),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("hunger_mean", s.HungerMean),
		slog.Float64("hunger_p50", s.HungerP50),
		slog.Float64("happiness_mean", s.HappinessMean),
		slog.Float64("affection_mean", s.AffectionMean),
		slog.Float64("content_fraction", s.ContentFraction),
		slog.Float64("happy_fraction", s.HappyFraction),
		slog.Float64("level_mean", s.LevelMean),
		slog.Int("level_max", s.LevelMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"pets", s.Pets,
		"owners", s.Owners,
		"spawns", s.Spawns,
		"removals", s.Removals,
		"level_ups", s.LevelUps,
		"feeds", s.Feeds,
		"plays", s.Plays,
		"interactions", s.Interactions,
		"encounters", s.Encounters,
		"hunger_p50", s.HungerP50,
		"happiness_mean", s.HappinessMean,
		"content_fraction", s.ContentFraction,
		"level_mean", s.LevelMean,
		"level_max", s.LevelMax,
	)
}
