// Package hostcfg turns the raw string attributes a host page puts on the map
// element into engine configuration. Bad values never fail: they fall back to
// defaults and, for the guess list, log a warning.
package hostcfg

import (
	"math"
	"strconv"
	"strings"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/tiles"
)

// Attributes are the map element's data attributes without the "data-" prefix
type Attributes map[string]string

const (
	AttrMode      = "mode"
	AttrPlayerID  = "player-id"
	AttrMarkerLat = "marker-lat"
	AttrMarkerLng = "marker-lng"
	AttrActualLat = "actual-lat"
	AttrActualLng = "actual-lng"
	AttrCenterLat = "center-lat"
	AttrCenterLng = "center-lng"
	AttrZoom      = "zoom"
	AttrControls  = "controls"
	AttrGuesses   = "guesses"
)

// ParseNumber parses a finite decimal number
func ParseNumber(v string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseLatLng returns nil unless both coordinates parse
func ParseLatLng(lat, lng string) *tiles.LatLng {
	la, ok := ParseNumber(lat)
	if !ok {
		return nil
	}
	ln, ok := ParseNumber(lng)
	if !ok {
		return nil
	}
	return &tiles.LatLng{Lat: la, Lng: ln}
}

func ParseZoom(v string, fallback int) int {
	z, ok := ParseNumber(v)
	if !ok {
		return fallback
	}
	return tiles.ClampZoom(z)
}

// ParseBool accepts "true"/"1" and "false"/"0"; anything else is fallback
func ParseBool(v string, fallback bool) bool {
	switch v {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return fallback
}

// Extract builds the update for the current attribute values. Zoom and
// controls are left unset when their attribute is missing.
func Extract(attrs Attributes) engine.Update {
	mode := engine.Mode(attrs[AttrMode])
	if mode == "" {
		mode = engine.ModeSubmission
	}
	playerID := attrs[AttrPlayerID]

	u := engine.Update{
		Mode:       mode,
		PlayerID:   &playerID,
		Center:     ParseLatLng(attrs[AttrCenterLat], attrs[AttrCenterLng]),
		Marker:     ParseLatLng(attrs[AttrMarkerLat], attrs[AttrMarkerLng]),
		HasMarker:  true,
		Actual:     ParseLatLng(attrs[AttrActualLat], attrs[AttrActualLng]),
		HasActual:  true,
		Guesses:    ParseGuesses(attrs[AttrGuesses]),
		HasGuesses: true,
	}
	if v, ok := attrs[AttrZoom]; ok {
		z := float64(ParseZoom(v, engine.DefaultZoom))
		u.Zoom = &z
	}
	if v, ok := attrs[AttrControls]; ok {
		c := ParseBool(v, true)
		u.Controls = &c
	}
	return u
}

// MountConfig is Extract for the initial mount, with zoom defaulting to 2
func MountConfig(attrs Attributes) engine.Config {
	u := Extract(attrs)
	if u.Zoom == nil {
		z := float64(engine.DefaultZoom)
		u.Zoom = &z
	}
	return u.Config()
}
