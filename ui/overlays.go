package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayNames           OverlayID = "names"
	OverlayActions         OverlayID = "actions"
	OverlaySpeciesColors   OverlayID = "species_colors"
	OverlayFollowRange     OverlayID = "follow_range"
	OverlayEncounterRadius OverlayID = "encounter_radius"
	OverlayFriendships     OverlayID = "friendships"
	OverlayPerf            OverlayID = "perf"
	OverlayWindowStats     OverlayID = "window_stats"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID
	Name        string
	Description string
	Key         int32  // Keyboard key to toggle (0 = no key)
	KeyLabel    string // Key label for display (e.g., "S", "V")
	Category    string // Grouping (e.g., "pets", "debug")
	Exclusive   []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	reg.SetEnabled(OverlayNames, true)
	reg.SetEnabled(OverlayActions, true)
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayNames,
		Name:        "Names",
		Description: "Show pet names and levels",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "pets",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayActions,
		Name:        "Actions",
		Description: "Show each pet's current action",
		Key:         rl.KeyA,
		KeyLabel:    "A",
		Category:    "pets",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlaySpeciesColors,
		Name:        "Species Colors",
		Description: "Color pets by species instead of mood",
		Key:         rl.KeyS,
		KeyLabel:    "S",
		Category:    "pets",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayFollowRange,
		Name:        "Follow Range",
		Description: "Ring the follow distance around the selected pet's owner",
		Key:         rl.KeyF,
		KeyLabel:    "F",
		Category:    "social",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayEncounterRadius,
		Name:        "Encounter Radius",
		Description: "Ring the encounter radius around socializing pets",
		Key:         rl.KeyE,
		KeyLabel:    "E",
		Category:    "social",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayFriendships,
		Name:        "Friendships",
		Description: "Link the selected pet to its friends",
		Key:         rl.KeyL,
		KeyLabel:    "L",
		Category:    "social",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayPerf,
		Name:        "Tick Perf",
		Description: "Per-phase tick timings",
		Key:         rl.KeyT,
		KeyLabel:    "T",
		Category:    "debug",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayWindowStats,
		Name:        "Window Stats",
		Description: "Last telemetry window",
		Key:         rl.KeyW,
		KeyLabel:    "W",
		Category:    "debug",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = false
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	next := !r.enabled[id]
	r.SetEnabled(id, next)
	return next
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeys toggles every overlay whose key was pressed this frame.
func (r *OverlayRegistry) HandleKeys() {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && rl.IsKeyPressed(desc.Key) {
			r.Toggle(desc.ID)
		}
	}
}
