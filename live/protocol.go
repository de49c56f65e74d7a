package live

import (
	"encoding/json"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/hostcfg"
	"github.com/olablt/worldmap/tiles"
)

// Message types.
const (
	TypeHello  = "HELLO"
	TypeUpdate = "UPDATE"
	TypePush   = "PUSH"
)

// Events pushed to the server when the player picks a location.
const (
	EventSubmissionLocation = "set_submission_location"
	EventGuessLocation      = "set_guess_location"
)

// BaseMessage lets us route messages by type.
type BaseMessage struct {
	Type string `json:"type"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

type HelloMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// UpdateMsg carries the map element's attributes as re-rendered by the server.
type UpdateMsg struct {
	Type  string             `json:"type"`
	Attrs hostcfg.Attributes `json:"attrs"`
}

type PushMsg struct {
	Type    string       `json:"type"`
	Event   string       `json:"event"`
	Payload tiles.LatLng `json:"payload"`
}

// EventForMode names the event a selection produces in mode. Nothing is sent
// during the reveal.
func EventForMode(mode engine.Mode) (string, bool) {
	switch mode {
	case engine.ModeSubmission:
		return EventSubmissionLocation, true
	case engine.ModeGuess:
		return EventGuessLocation, true
	}
	return "", false
}
