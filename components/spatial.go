package components

import "gonum.org/v1/gonum/spatial/r2"

// Motion is the pet's simulation-level kinematic state in room meters.
// The rendering transform is owned by the presentation layer.
type Motion struct {
	Position  r2.Vec
	Velocity  r2.Vec
	Target    r2.Vec // Wander or play anchor
	HasTarget bool
}
