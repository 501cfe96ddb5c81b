package ws

import (
	"encoding/json"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

// Message types. Clients open with HELLO; everything after that is a
// command or a server push.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeState   = "STATE"
	TypeEvent   = "EVENT"
	TypeAck     = "ACK"
	TypeError   = "ERROR"

	TypeMove      = "MOVE"
	TypeEmotion   = "EMOTION"
	TypeSpawn     = "SPAWN"
	TypeFeed      = "FEED"
	TypePlay      = "PLAY"
	TypeCustomize = "CUSTOMIZE"
	TypeRemove    = "REMOVE"
)

// Error codes carried by ERROR frames.
const (
	ErrBadRequest     = "E_BAD_REQUEST"
	ErrNotFound       = "E_NOT_FOUND"
	ErrInvalidSpecies = "E_INVALID_SPECIES"
	ErrInvalidTier    = "E_INVALID_TIER"
	ErrPetLimit       = "E_PET_LIMIT"
	ErrNotOwner       = "E_NOT_OWNER"
	ErrInternal       = "E_INTERNAL"
)

// BaseMessage lets us route inbound JSON by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func decodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// HelloMsg opens a session. The avatar starts at (X, Y) when Position is
// set, otherwise at the room center.
type HelloMsg struct {
	Type     string    `json:"type"`
	Name     string    `json:"name,omitempty"`
	Position *Position `json:"position,omitempty"`
}

// Position is a room point in meters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CommandMsg is any client command. Which fields matter depends on Type.
type CommandMsg struct {
	Type    string            `json:"type"`
	Ref     string            `json:"ref,omitempty"` // echoed in the reply
	PetID   components.PetID  `json:"pet_id,omitempty"`
	X       float64           `json:"x,omitempty"`
	Y       float64           `json:"y,omitempty"`
	Emotion string            `json:"emotion,omitempty"`
	Species string            `json:"species,omitempty"`
	Tier    string            `json:"tier,omitempty"`
	Name    *string           `json:"name,omitempty"`
	Color   *string           `json:"color,omitempty"`
	Options map[string]string `json:"options,omitempty"`
}

// RoomInfo describes the room extent.
type RoomInfo struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// WelcomeMsg answers HELLO with the assigned owner id.
type WelcomeMsg struct {
	Type    string             `json:"type"`
	OwnerID components.OwnerID `json:"owner_id"`
	Tick    int64              `json:"tick"`
	Room    RoomInfo           `json:"room"`
	Species []string           `json:"species"`
}

// StateMsg is the periodic room snapshot.
type StateMsg struct {
	Type    string          `json:"type"`
	Tick    int64           `json:"tick"`
	TimeSec float64         `json:"time_sec"`
	Pets    []room.PetState `json:"pets"`
	Avatars []room.Avatar   `json:"avatars"`
}

// EventMsg forwards one public room event.
type EventMsg struct {
	Type  string     `json:"type"`
	Event room.Event `json:"event"`
}

// AckMsg confirms a command.
type AckMsg struct {
	Type    string           `json:"type"`
	Ref     string           `json:"ref,omitempty"`
	Command string           `json:"command"`
	PetID   components.PetID `json:"pet_id,omitempty"`
	Count   int              `json:"count,omitempty"` // reacting pets for EMOTION
}

// ErrorMsg rejects a command.
type ErrorMsg struct {
	Type    string `json:"type"`
	Ref     string `json:"ref,omitempty"`
	Command string `json:"command,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
