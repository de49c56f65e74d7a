package engine

import (
	"math"

	"github.com/olablt/worldmap/tiles"
)

// Mode selects what the map is used for in the current game phase
type Mode string

const (
	ModeSubmission Mode = "submission"
	ModeGuess      Mode = "guess"
	ModeReveal     Mode = "reveal"
)

const DefaultZoom = 2

// DefaultCenter is used when neither a center, a marker nor an actual
// location is configured.
var DefaultCenter = tiles.LatLng{Lat: 20, Lng: 0}

// GuessMarker is one player's guess shown during the reveal phase.
// Missing or unparsable coordinates are NaN.
type GuessMarker struct {
	Lat        float64  `json:"lat"`
	Lng        float64  `json:"lng"`
	PlayerID   string   `json:"player_id"`
	PlayerName string   `json:"player_name,omitempty"`
	Points     *float64 `json:"points,omitempty"`
}

func (g GuessMarker) LatLng() tiles.LatLng {
	return tiles.LatLng{Lat: g.Lat, Lng: g.Lng}
}

// State is everything a render pass needs to know about the map
type State struct {
	Center   tiles.LatLng
	Zoom     int
	Mode     Mode
	PlayerID string

	Marker  *tiles.LatLng
	Actual  *tiles.LatLng
	Guesses []GuessMarker

	ShowControls bool
	// UserHasInteracted is set by any user pan or zoom. While set, pushed
	// center and zoom values are ignored unless the mode changes.
	UserHasInteracted bool
}

// Config holds the options supplied when the map is mounted. Nil fields take
// their defaults.
type Config struct {
	Mode         Mode
	PlayerID     string
	Center       *tiles.LatLng
	Zoom         *float64
	Marker       *tiles.LatLng
	Actual       *tiles.LatLng
	Guesses      []GuessMarker
	ShowControls *bool
}

// NewState applies defaults to cfg
func NewState(cfg Config) State {
	st := State{
		Mode:         cfg.Mode,
		PlayerID:     cfg.PlayerID,
		Zoom:         DefaultZoom,
		Marker:       cfg.Marker,
		Actual:       cfg.Actual,
		Guesses:      cfg.Guesses,
		ShowControls: true,
	}
	if st.Mode == "" {
		st.Mode = ModeSubmission
	}
	if cfg.Zoom != nil {
		st.Zoom = tiles.ClampZoom(*cfg.Zoom)
	}
	if cfg.ShowControls != nil {
		st.ShowControls = *cfg.ShowControls
	}

	st.Center = DefaultCenter
	for _, c := range []*tiles.LatLng{cfg.Center, cfg.Marker, cfg.Actual} {
		if ll := tiles.ClampLatLng(c); ll != nil {
			st.Center = *ll
			break
		}
	}
	return st
}

// Update is a partial configuration pushed by the host after mount.
// Pointer fields are applied only when non-nil. Marker, Actual and Guesses
// are applied when their Has flag is set, so they can be cleared.
type Update struct {
	Mode     Mode
	PlayerID *string
	Center   *tiles.LatLng
	Zoom     *float64
	Controls *bool

	Marker     *tiles.LatLng
	HasMarker  bool
	Actual     *tiles.LatLng
	HasActual  bool
	Guesses    []GuessMarker
	HasGuesses bool
}

// Config converts a mount-time update into a Config
func (u Update) Config() Config {
	cfg := Config{
		Mode:         u.Mode,
		Center:       u.Center,
		Zoom:         u.Zoom,
		Marker:       u.Marker,
		Actual:       u.Actual,
		Guesses:      u.Guesses,
		ShowControls: u.Controls,
	}
	if u.PlayerID != nil {
		cfg.PlayerID = *u.PlayerID
	}
	return cfg
}

// Apply merges u into the state. A mode change clears UserHasInteracted and
// always accepts the pushed center and zoom; otherwise they are accepted
// only while the user has not touched the map.
func (s *State) Apply(u Update) {
	modeChanged := u.Mode != "" && u.Mode != s.Mode
	if u.Mode != "" {
		s.Mode = u.Mode
	}
	if modeChanged {
		s.UserHasInteracted = false
	}
	canMove := !s.UserHasInteracted || modeChanged

	if u.PlayerID != nil {
		s.PlayerID = *u.PlayerID
	}
	if u.Zoom != nil && !math.IsNaN(*u.Zoom) && !math.IsInf(*u.Zoom, 0) && canMove {
		s.Zoom = tiles.ClampZoom(*u.Zoom)
	}
	if u.HasMarker {
		s.Marker = u.Marker
	}
	if u.HasActual {
		s.Actual = u.Actual
	}
	if u.HasGuesses {
		s.Guesses = u.Guesses
	}
	if u.Controls != nil {
		s.ShowControls = *u.Controls
	}
	if canMove {
		if ll := tiles.ClampLatLng(u.Center); ll != nil {
			s.Center = *ll
		}
	}
}
