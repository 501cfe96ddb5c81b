package components

import (
	"encoding/json"
	"fmt"
)

// Action is a discrete behavior state a pet occupies for a bounded duration.
// The numeric order is the stable enumeration order used by the scheduler.
type Action uint8

const (
	ActionIdle Action = iota
	ActionFollowing
	ActionExploring
	ActionPlaying
	ActionFlying
	ActionCastingMagic
	ActionResting
	ActionSleeping
	ActionSeekingFood
	ActionInteracting
	ActionCelebrating
	ActionShowingOff
	ActionSocializing
	ActionSeekingComfort
	ActionProtecting

	NumActions
)

var actionNames = [NumActions]string{
	"idle",
	"following",
	"exploring",
	"playing",
	"flying",
	"casting_magic",
	"resting",
	"sleeping",
	"seeking_food",
	"interacting",
	"celebrating",
	"showing_off",
	"socializing",
	"seeking_comfort",
	"protecting",
}

// String returns the wire name of the action.
func (a Action) String() string {
	if a < NumActions {
		return actionNames[a]
	}
	return "unknown"
}

// ParseAction maps a wire name to an Action.
func ParseAction(name string) (Action, bool) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), true
		}
	}
	return 0, false
}

// IsRest reports whether the action regenerates energy and health.
func (a Action) IsRest() bool {
	return a == ActionResting || a == ActionSleeping
}

// MarshalJSON encodes the action by name.
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes an action name.
func (a *Action) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, ok := ParseAction(name)
	if !ok {
		return fmt.Errorf("unknown action %q", name)
	}
	*a = parsed
	return nil
}
