// Package engine turns map state and input events into render plans for a
// slippy map: which tiles to show where, and where the game markers go.
//
// An Engine is not safe for concurrent use. Hosts call every method, and run
// FrameClock callbacks, on their UI goroutine.
package engine

import (
	"log/slog"

	"github.com/olablt/worldmap/tiles"
)

// Subscription is a registration that can be undone
type Subscription interface {
	Release()
}

// ReleaseFunc adapts a function to Subscription
type ReleaseFunc func()

func (f ReleaseFunc) Release() {
	if f != nil {
		f()
	}
}

// Surface is the host display the engine draws on and listens to
type Surface interface {
	Size() Size
	// Subscribe registers the input handler. The handler reports whether the
	// host should suppress the event's default action (page scroll, text
	// selection on double click). Presses on the surface's own controls must
	// either not reach the handler or carry Event.OverControl.
	Subscribe(handler func(Event) bool) Subscription
	// ObserveResize registers fn to run whenever the surface size changes.
	ObserveResize(fn func()) Subscription
	// Present hands a finished frame to the display.
	Present(Frame)
}

// PointerCapturer is implemented by surfaces that can route all events of
// one pointer to the map while it is dragged.
type PointerCapturer interface {
	CapturePointer(id int)
	ReleasePointer(id int)
}

type SelectFunc func(tiles.LatLng)

type Engine struct {
	state     State
	surface   Surface
	scheduler *Scheduler
	arena     *tiles.Arena
	viewport  *tiles.Viewport
	onSelect  SelectFunc

	drag     *DragState
	wheelAcc float64

	subs   []Subscription
	closed bool
	log    *slog.Logger
}

// Initialize mounts an engine on surface, subscribes to its input and resize
// notifications and schedules the first render on clock.
func Initialize(surface Surface, clock FrameClock, cfg Config) *Engine {
	e := &Engine{
		state:   NewState(cfg),
		surface: surface,
		arena:   tiles.NewArena(),
		log:     Logger(),
	}
	e.scheduler = NewScheduler(clock, e.renderNow)
	e.subs = append(e.subs,
		surface.Subscribe(e.HandleEvent),
		surface.ObserveResize(e.RequestRender),
	)
	e.log.Info("map initialized",
		"mode", e.state.Mode,
		"zoom", e.state.Zoom,
		"lat", e.state.Center.Lat,
		"lng", e.state.Center.Lng,
	)
	e.RequestRender()
	return e
}

// OnSelect sets the handler invoked when the user clicks or taps a location.
// The coordinates are rounded to six decimal places.
func (e *Engine) OnSelect(fn SelectFunc) {
	e.onSelect = fn
}

// ApplyUpdate merges a host push into the map state and re-renders
func (e *Engine) ApplyUpdate(u Update) {
	if e.closed {
		return
	}
	e.state.Apply(u)
	e.RequestRender()
}

// State returns a copy of the current map state
func (e *Engine) State() State {
	return e.state
}

// Viewport returns the viewport of the last render pass
func (e *Engine) Viewport() (tiles.Viewport, bool) {
	if e.viewport == nil {
		return tiles.Viewport{}, false
	}
	return *e.viewport, true
}

// RequestRender schedules a render for the next refresh, replacing any
// render already scheduled.
func (e *Engine) RequestRender() {
	if e.closed {
		return
	}
	e.scheduler.Request()
}

func (e *Engine) renderNow() {
	if e.closed {
		return
	}
	plan := BuildPlan(e.state, e.surface.Size())
	diff := e.arena.Apply(plan.Tiles)
	e.viewport = &plan.Viewport

	if !diff.Empty() {
		e.log.Debug("tile set changed",
			"zoom", plan.Viewport.Zoom,
			"added", len(diff.Added),
			"removed", len(diff.Removed),
			"kept", len(diff.Kept),
		)
	}
	e.surface.Present(Frame{Plan: plan, Diff: diff})
}

// Teardown cancels any pending render and releases every subscription taken
// in Initialize. Calling it again does nothing.
func (e *Engine) Teardown() {
	if e.closed {
		return
	}
	e.closed = true
	e.scheduler.Cancel()
	if e.drag != nil {
		e.releaseCapture(e.drag.PointerID)
		e.drag = nil
	}
	for _, sub := range e.subs {
		if sub != nil {
			sub.Release()
		}
	}
	e.subs = nil
	e.arena.Reset()
	e.onSelect = nil
	e.log.Info("map torn down")
}

// Closed reports whether Teardown has been called
func (e *Engine) Closed() bool {
	return e.closed
}
