package engine

import (
	"math"
	"strconv"

	"github.com/olablt/worldmap/tiles"
)

type MarkerKind string

const (
	MarkerActual  MarkerKind = "actual"
	MarkerSelf    MarkerKind = "self"
	MarkerOther   MarkerKind = "other"
	MarkerPrimary MarkerKind = "primary"
)

// CullMargin is how far past the surface edge a marker may sit and still be drawn
const CullMargin = 60

type ScreenMarker struct {
	Kind     MarkerKind
	Position tiles.LatLng
	X, Y     float64
	Title    string
	Label    string
	// Visible is false for markers culled outside the surface.
	Visible bool
}

// ProjectMarkers lists the markers for the current mode and places them on
// screen. Markers with non-finite coordinates are dropped.
func ProjectMarkers(st State, vp tiles.Viewport) []ScreenMarker {
	var markers []ScreenMarker

	if st.Mode == ModeReveal {
		if st.Actual != nil && st.Actual.Finite() {
			markers = append(markers, ScreenMarker{
				Kind:     MarkerActual,
				Position: *st.Actual,
				Title:    "Actual location",
				Label:    "Actual",
			})
		}
		for _, g := range st.Guesses {
			if !g.LatLng().Finite() {
				continue
			}
			kind := MarkerOther
			if st.PlayerID != "" && g.PlayerID == st.PlayerID {
				kind = MarkerSelf
			}
			m := ScreenMarker{Kind: kind, Position: g.LatLng()}
			if g.Points != nil && !math.IsNaN(*g.Points) && !math.IsInf(*g.Points, 0) {
				m.Label = formatPoints(*g.Points)
			}
			if g.PlayerName != "" {
				m.Title = g.PlayerName
				if m.Label != "" {
					m.Title += " • " + m.Label
				}
			}
			markers = append(markers, m)
		}
	} else if st.Marker != nil && st.Marker.Finite() {
		m := ScreenMarker{
			Kind:     MarkerPrimary,
			Position: *st.Marker,
			Title:    "Selected location",
		}
		if st.Mode == ModeGuess {
			m.Kind = MarkerSelf
			m.Title = "Your guess"
		}
		markers = append(markers, m)
	}

	for i := range markers {
		m := &markers[i]
		m.X, m.Y = vp.ToScreen(m.Position)
		m.Visible = m.X >= -CullMargin && m.X <= vp.Width+CullMargin &&
			m.Y >= -CullMargin && m.Y <= vp.Height+CullMargin
	}
	return markers
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + " pts"
}

// VisibleMarkers filters out culled markers
func VisibleMarkers(markers []ScreenMarker) []ScreenMarker {
	visible := make([]ScreenMarker, 0, len(markers))
	for _, m := range markers {
		if m.Visible {
			visible = append(visible, m)
		}
	}
	return visible
}
