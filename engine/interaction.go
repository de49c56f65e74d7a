package engine

import (
	"math"

	"github.com/olablt/worldmap/tiles"
)

type EventKind int

const (
	PointerDown EventKind = iota + 1
	PointerMove
	PointerUp
	PointerCancel
	Wheel
	DoubleClick
)

func (k EventKind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerMove:
		return "pointermove"
	case PointerUp:
		return "pointerup"
	case PointerCancel:
		return "pointercancel"
	case Wheel:
		return "wheel"
	case DoubleClick:
		return "dblclick"
	}
	return "unknown"
}

// DeltaMode is the unit of a wheel delta
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

const ButtonPrimary = 0

const (
	// DragThreshold is how far, in pixels on either axis, a pointer has to
	// travel before a press becomes a drag instead of a click.
	DragThreshold = 2
	// WheelStepDelta is the normalized wheel delta worth one zoom level.
	WheelStepDelta = 240
	// MaxWheelSteps bounds the zoom levels applied for a single wheel event.
	MaxWheelSteps = 4
	// SelectionPlaces is the decimal precision of selected coordinates.
	SelectionPlaces = 6
)

// Event is an input event in surface coordinates
type Event struct {
	Kind      EventKind
	PointerID int
	Button    int
	X, Y      float64
	// OverControl is set when the pointer is over the zoom buttons or the
	// attribution. Surfaces whose toolkit already keeps those presses away
	// from the map handler, as Gio's hit testing does for mapview, leave it
	// false.
	OverControl bool

	DeltaY    float64
	DeltaMode DeltaMode
	// Modifier is set when shift is held.
	Modifier bool
}

// DragState tracks the single pointer currently pressed on the map
type DragState struct {
	PointerID     int
	Origin        ScreenPoint
	CenterAtStart tiles.LatLng
	Moved         bool
}

// HandleEvent feeds one input event to the interaction state machine. It
// reports whether the host should suppress the event's default action.
func (e *Engine) HandleEvent(ev Event) bool {
	if e.closed {
		return false
	}
	switch ev.Kind {
	case PointerDown:
		e.pointerDown(ev)
	case PointerMove:
		e.pointerMove(ev)
	case PointerUp, PointerCancel:
		e.pointerUp(ev)
	case Wheel:
		e.wheel(ev)
		return true
	case DoubleClick:
		e.doubleClick(ev)
		return true
	}
	return false
}

// Dragging reports whether a pointer is pressed on the map
func (e *Engine) Dragging() bool {
	return e.drag != nil
}

// WheelAccumulator returns the fractional zoom steps not yet applied
func (e *Engine) WheelAccumulator() float64 {
	return e.wheelAcc
}

func (e *Engine) pointerDown(ev Event) {
	if e.drag != nil || ev.Button != ButtonPrimary || ev.OverControl {
		return
	}
	if c, ok := e.surface.(PointerCapturer); ok {
		c.CapturePointer(ev.PointerID)
	}
	e.drag = &DragState{
		PointerID:     ev.PointerID,
		Origin:        ScreenPoint{X: ev.X, Y: ev.Y},
		CenterAtStart: e.state.Center,
	}
}

func (e *Engine) pointerMove(ev Event) {
	d := e.drag
	if d == nil || ev.PointerID != d.PointerID {
		return
	}

	dx := ev.X - d.Origin.X
	dy := ev.Y - d.Origin.Y
	if !d.Moved && (math.Abs(dx) > DragThreshold || math.Abs(dy) > DragThreshold) {
		d.Moved = true
	}
	if !d.Moved {
		return
	}

	e.state.UserHasInteracted = true
	start := tiles.LatLngToPoint(d.CenterAtStart, e.state.Zoom)
	e.state.Center = tiles.PointToLatLng(tiles.Point{X: start.X - dx, Y: start.Y - dy}, e.state.Zoom)
	e.RequestRender()
}

func (e *Engine) pointerUp(ev Event) {
	d := e.drag
	if d == nil || ev.PointerID != d.PointerID {
		return
	}
	e.releaseCapture(d.PointerID)
	e.drag = nil

	if d.Moved || e.state.Mode == ModeReveal || e.onSelect == nil {
		return
	}
	// Clicks resolve through the last rendered viewport, never a newer size
	// or zoom the user has not seen yet.
	if e.viewport == nil {
		return
	}
	ll, ok := e.viewport.ScreenToLatLng(ev.X, ev.Y)
	if !ok {
		return
	}
	e.state.UserHasInteracted = true
	e.onSelect(tiles.RoundLatLng(ll, SelectionPlaces))
}

func (e *Engine) releaseCapture(id int) {
	if c, ok := e.surface.(PointerCapturer); ok {
		c.ReleasePointer(id)
	}
}

func normalizeWheelDelta(ev Event) float64 {
	delta := ev.DeltaY
	switch ev.DeltaMode {
	case DeltaLine:
		delta *= 20
	case DeltaPage:
		delta *= 60
	}
	return delta / WheelStepDelta
}

func (e *Engine) wheel(ev Event) {
	e.state.UserHasInteracted = true
	delta := normalizeWheelDelta(ev)
	if delta == 0 || math.IsNaN(delta) {
		return
	}
	focus := ScreenPoint{X: ev.X, Y: ev.Y}

	// Scrolling down (positive delta) zooms out.
	e.wheelAcc += delta
	for steps := 0; math.Abs(e.wheelAcc) >= 1 && steps < MaxWheelSteps; steps++ {
		step := 1
		if e.wheelAcc > 0 {
			step = -1
		}
		if !e.AdjustZoom(step, &focus) {
			e.wheelAcc = 0
			break
		}
		e.wheelAcc += float64(step)
	}
}

func (e *Engine) doubleClick(ev Event) {
	e.state.UserHasInteracted = true
	e.wheelAcc = 0
	step := 1
	if ev.Modifier {
		step = -1
	}
	e.AdjustZoom(step, &ScreenPoint{X: ev.X, Y: ev.Y})
}

// ZoomIn is the "+" control: one level in, anchored at the surface center
func (e *Engine) ZoomIn() bool {
	return e.zoomControl(1)
}

// ZoomOut is the "-" control
func (e *Engine) ZoomOut() bool {
	return e.zoomControl(-1)
}

func (e *Engine) zoomControl(step int) bool {
	if e.closed {
		return false
	}
	e.state.UserHasInteracted = true
	e.wheelAcc = 0
	return e.AdjustZoom(step, nil)
}

// AdjustZoom changes the zoom by delta levels while keeping the geographical
// point under focus at the same screen position. A nil focus means the
// surface center. It reports false, changing nothing, when the zoom is
// already at its bound.
func (e *Engine) AdjustZoom(delta int, focus *ScreenPoint) bool {
	if e.closed {
		return false
	}
	target := tiles.ClampZoom(float64(e.state.Zoom + delta))
	if target == e.state.Zoom {
		e.log.Debug("zoom step rejected", "zoom", e.state.Zoom, "delta", delta)
		return false
	}

	vp := BuildViewport(e.state, e.surface.Size())
	f := ScreenPoint{X: vp.Width / 2, Y: vp.Height / 2}
	if focus != nil {
		f = *focus
	}
	anchor := tiles.PointToLatLng(vp.ScreenToWorld(f.X, f.Y), e.state.Zoom)

	e.state.Zoom = target

	p := tiles.LatLngToPoint(anchor, target)
	center := tiles.Point{
		X: p.X - f.X + vp.Width/2,
		Y: p.Y - f.Y + vp.Height/2,
	}
	e.state.Center = tiles.PointToLatLng(center, target)
	e.RequestRender()
	return true
}
