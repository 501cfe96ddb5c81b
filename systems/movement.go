package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
)

// Bounds represents the room extent in meters.
type Bounds struct {
	Width, Height float64
}

// Clamp keeps p inside the bounds.
func (b Bounds) Clamp(p r2.Vec) r2.Vec {
	return r2.Vec{X: clampRange(p.X, 0, b.Width), Y: clampRange(p.Y, 0, b.Height)}
}

// Random returns a uniform point inside the bounds.
func (b Bounds) Random(rng RNG) r2.Vec {
	return r2.Vec{X: rng.Float64() * b.Width, Y: rng.Float64() * b.Height}
}

const (
	steerRate   = 4.0 // fraction of velocity error corrected per second
	restDamping = 0.9 // velocity kept per tick when idle
	arriveSlack = 0.3 // meters; closer than this counts as arrived
	hopRadius   = 1.5 // meters around the play anchor
	hopSpeed    = 0.8 // fraction of species speed while hopping
)

// MovementSystem integrates pet positions from their current action.
// Kinematics only; there is no pathfinding or collision.
type MovementSystem struct {
	bounds Bounds
	rng    RNG
}

// NewMovementSystem creates a movement system for a room.
func NewMovementSystem(bounds Bounds, rng RNG) *MovementSystem {
	return &MovementSystem{bounds: bounds, rng: rng}
}

// Bounds returns the room extent.
func (s *MovementSystem) Bounds() Bounds {
	return s.bounds
}

// Update steps one pet by dt seconds.
func (s *MovementSystem) Update(pet components.Pet, profile components.SpeciesProfile, ownerPos r2.Vec, ownerKnown bool, dt float64) {
	if dt <= 0 {
		return
	}
	m := pet.Motion
	desired, moving := s.desiredVelocity(pet, profile, ownerPos, ownerKnown)

	if moving {
		blend := math.Min(1, steerRate*dt)
		m.Velocity = r2.Add(m.Velocity, r2.Scale(blend, r2.Sub(desired, m.Velocity)))
	} else {
		m.Velocity = r2.Scale(restDamping, m.Velocity)
		if r2.Norm(m.Velocity) < 0.01 {
			m.Velocity = r2.Vec{}
		}
	}

	// Limit velocity
	if speed := r2.Norm(m.Velocity); speed > profile.Speed {
		m.Velocity = r2.Scale(profile.Speed/speed, m.Velocity)
	}

	m.Position = s.bounds.Clamp(r2.Add(m.Position, r2.Scale(dt, m.Velocity)))
}

func (s *MovementSystem) desiredVelocity(pet components.Pet, profile components.SpeciesProfile, ownerPos r2.Vec, ownerKnown bool) (r2.Vec, bool) {
	m := pet.Motion

	switch pet.Behavior.Action {
	case components.ActionFollowing:
		if !ownerKnown {
			return r2.Vec{}, false
		}
		return seek(m.Position, ownerPos, profile.FollowDistance, profile.Speed)

	case components.ActionInteracting, components.ActionSeekingComfort, components.ActionProtecting:
		if !ownerKnown {
			return r2.Vec{}, false
		}
		return seek(m.Position, ownerPos, profile.FollowDistance*0.5, profile.Speed)

	case components.ActionExploring, components.ActionFlying, components.ActionSeekingFood:
		if !m.HasTarget || r2.Norm(r2.Sub(m.Target, m.Position)) < arriveSlack {
			m.Target = s.bounds.Random(s.rng)
			m.HasTarget = true
		}
		return seek(m.Position, m.Target, 0, profile.Speed)

	case components.ActionPlaying, components.ActionCelebrating, components.ActionShowingOff, components.ActionSocializing:
		if !m.HasTarget || r2.Norm(r2.Sub(m.Target, m.Position)) < arriveSlack {
			anchor := m.Position
			if ownerKnown {
				anchor = ownerPos
			}
			offset := r2.Vec{X: (s.rng.Float64()*2 - 1) * hopRadius, Y: (s.rng.Float64()*2 - 1) * hopRadius}
			m.Target = s.bounds.Clamp(r2.Add(anchor, offset))
			m.HasTarget = true
		}
		return seek(m.Position, m.Target, 0, profile.Speed*hopSpeed)
	}
	return r2.Vec{}, false
}

// seek returns the velocity that closes on target until within stopAt.
func seek(from, target r2.Vec, stopAt, speed float64) (r2.Vec, bool) {
	delta := r2.Sub(target, from)
	dist := r2.Norm(delta)
	if dist <= stopAt+arriveSlack*0.5 || dist == 0 {
		return r2.Vec{}, false
	}
	return r2.Scale(speed, r2.Unit(delta)), true
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
