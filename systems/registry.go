// Package systems contains the per-pet simulation systems of the room.
package systems

// SystemInfo describes a pipeline system for UI display.
type SystemInfo struct {
	ID          string // Internal identifier (used for perf tracking)
	Name        string // Display name
	Description string // What this system does
	Category    string // Grouping (e.g., "core", "social")
}

// SystemRegistry holds metadata about all systems.
// This centralizes system naming so the UI and perf tracker stay in sync.
type SystemRegistry struct {
	systems []SystemInfo
	byID    map[string]SystemInfo
}

// NewSystemRegistry creates a registry with all known systems.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{
		byID: make(map[string]SystemInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the tick pipeline systems in execution order.
func (r *SystemRegistry) registerDefaults() {
	r.Register(SystemInfo{ID: "needs", Name: "Needs", Description: "Decays and regenerates needs", Category: "core"})
	r.Register(SystemInfo{ID: "mood", Name: "Mood", Description: "Derives mood from needs", Category: "core"})
	r.Register(SystemInfo{ID: "decide", Name: "Scheduler", Description: "Weighted action selection", Category: "ai"})
	r.Register(SystemInfo{ID: "interact", Name: "Interaction", Description: "Owner interactions and encounters", Category: "social"})
	r.Register(SystemInfo{ID: "progression", Name: "Progression", Description: "Experience and level-ups", Category: "core"})
	r.Register(SystemInfo{ID: "movement", Name: "Movement", Description: "Steers pets toward action targets", Category: "physics"})
	r.Register(SystemInfo{ID: "cleanup", Name: "Cleanup", Description: "Removes marked pets", Category: "core"})
	r.Register(SystemInfo{ID: "telemetry", Name: "Telemetry", Description: "Window stats and bookmarks", Category: "output"})
}

// Register adds a system to the registry.
func (r *SystemRegistry) Register(info SystemInfo) {
	r.systems = append(r.systems, info)
	r.byID[info.ID] = info
}

// Get returns system info by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	info, ok := r.byID[id]
	return info, ok
}

// GetName returns the display name for a system ID.
// Falls back to the ID itself if not found.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.byID[id]; ok {
		return info.Name
	}
	return id
}

// All returns all registered systems.
func (r *SystemRegistry) All() []SystemInfo {
	return r.systems
}

// IDs returns all system IDs in registration order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.systems))
	for i, info := range r.systems {
		ids[i] = info.ID
	}
	return ids
}
