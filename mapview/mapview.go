// Package mapview mounts the map engine in a Gio window. MapView is the
// engine's display surface: it forwards pointer input, loads the tiles each
// frame asks for and paints them with the markers and zoom controls.
package mapview

import (
	"context"
	"image"
	"log/slog"
	"math"
	"sync"

	"gioui.org/font/gofont"
	"gioui.org/gesture"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"

	"github.com/olablt/worldmap/engine"
	"github.com/olablt/worldmap/tiles"
	"github.com/olablt/worldmap/tiles/worker"
)

type Options struct {
	Workers   int
	QueueSize int
	Logger    *slog.Logger
}

type MapView struct {
	TileManager *tiles.TileManager
	Engine      *engine.Engine

	queue   *engine.FrameQueue
	refresh chan<- struct{}
	pool    *worker.Pool
	ctx     context.Context
	cancel  context.CancelFunc
	log     *slog.Logger

	size     image.Point
	handler  func(engine.Event) bool
	onResize func()
	frame    engine.Frame
	assets   *ImageOpCache

	inflightMu sync.Mutex
	inflight   map[tiles.Key]bool
	// failed tiles are not requested again until they scroll out of view
	failed map[tiles.Key]bool

	pendingMu sync.Mutex
	pending   []engine.Update

	click     gesture.Click
	pressedID pointer.ID
	zoomIn    widget.Clickable
	zoomOut   widget.Clickable
	theme     *material.Theme
}

// New creates the widget and mounts an engine on it. refresh is signalled
// whenever the window should draw another frame.
func New(cfg engine.Config, tm *tiles.TileManager, refresh chan<- struct{}, opts Options) *MapView {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))

	mv := &MapView{
		TileManager: tm,
		queue:       engine.NewFrameQueue(refresh),
		refresh:     refresh,
		pool:        worker.NewPool(opts.Workers, opts.QueueSize),
		log:         opts.Logger,
		assets:      NewImageOpCache(),
		inflight:    make(map[tiles.Key]bool),
		failed:      make(map[tiles.Key]bool),
		theme:       th,
	}
	mv.ctx, mv.cancel = context.WithCancel(context.Background())
	tm.SetOnLoadCallback(func(tiles.Key) { mv.poke() })
	mv.Engine = engine.Initialize(mv, mv.queue, cfg)
	return mv
}

// Push queues a host update. It may be called from any goroutine; the update
// is applied on the next frame.
func (mv *MapView) Push(u engine.Update) {
	mv.pendingMu.Lock()
	mv.pending = append(mv.pending, u)
	mv.pendingMu.Unlock()
	mv.poke()
}

// Close tears the engine down and stops tile loading. Safe to call twice.
func (mv *MapView) Close() {
	mv.Engine.Teardown()
	mv.cancel()
	mv.pool.Shutdown()
	mv.assets.Clear()
}

func (mv *MapView) poke() {
	if mv.refresh == nil {
		return
	}
	select {
	case mv.refresh <- struct{}{}:
	default:
	}
}

// Size implements engine.Surface.
func (mv *MapView) Size() engine.Size {
	return engine.Size{W: float64(mv.size.X), H: float64(mv.size.Y)}
}

// Subscribe implements engine.Surface.
func (mv *MapView) Subscribe(handler func(engine.Event) bool) engine.Subscription {
	mv.handler = handler
	return engine.ReleaseFunc(func() { mv.handler = nil })
}

// ObserveResize implements engine.Surface.
func (mv *MapView) ObserveResize(fn func()) engine.Subscription {
	mv.onResize = fn
	return engine.ReleaseFunc(func() { mv.onResize = nil })
}

// Present implements engine.Surface. Gio delivers drag events to the handler
// that saw the press, so no explicit pointer capture is needed.
func (mv *MapView) Present(f engine.Frame) {
	mv.frame = f
	for _, e := range f.Diff.Removed {
		mv.assets.Delete(e.Key)
		mv.inflightMu.Lock()
		delete(mv.failed, e.Key)
		mv.inflightMu.Unlock()
	}
	for _, e := range f.Diff.Added {
		mv.load(e.Key)
	}
}

func (mv *MapView) load(key tiles.Key) {
	if _, ok := mv.TileManager.Cached(key); ok {
		return
	}
	mv.inflightMu.Lock()
	if mv.inflight[key] || mv.failed[key] {
		mv.inflightMu.Unlock()
		return
	}
	mv.inflight[key] = true
	mv.inflightMu.Unlock()

	done := func() {
		mv.inflightMu.Lock()
		delete(mv.inflight, key)
		mv.inflightMu.Unlock()
	}
	ok := mv.pool.Submit(worker.Task{
		Ctx: mv.ctx,
		Work: func(ctx context.Context) error {
			defer done()
			if _, err := mv.TileManager.GetTile(ctx, key); err != nil {
				mv.inflightMu.Lock()
				mv.failed[key] = true
				mv.inflightMu.Unlock()
				return err
			}
			return nil
		},
		OnError: func(err error) {
			mv.log.Warn("tile load failed", "key", key.String(), "err", err)
		},
	})
	if !ok {
		// Queue full: the tile is requested again on a later frame.
		done()
	}
}

func (mv *MapView) emit(ev engine.Event) {
	if mv.handler != nil {
		mv.handler(ev)
	}
}

func (mv *MapView) Layout(gtx layout.Context) layout.Dimensions {
	mv.pendingMu.Lock()
	pending := mv.pending
	mv.pending = nil
	mv.pendingMu.Unlock()
	for _, u := range pending {
		mv.Engine.ApplyUpdate(u)
	}

	if mv.size != gtx.Constraints.Max {
		mv.size = gtx.Constraints.Max
		if mv.onResize != nil {
			mv.onResize()
		}
	}

	mv.processPointer(gtx)
	mv.processClicks(gtx)
	for mv.zoomIn.Clicked(gtx) {
		mv.Engine.ZoomIn()
	}
	for mv.zoomOut.Clicked(gtx) {
		mv.Engine.ZoomOut()
	}

	mv.queue.Flush()

	area := clip.Rect{Max: mv.size}.Push(gtx.Ops)
	event.Op(gtx.Ops, mv)
	mv.click.Add(gtx.Ops)
	if mv.Engine.Dragging() {
		pointer.CursorGrabbing.Add(gtx.Ops)
	}
	mv.drawTiles(gtx)
	mv.drawMarkers(gtx)
	area.Pop()

	mv.drawControls(gtx)
	mv.drawAttribution(gtx)

	return layout.Dimensions{Size: mv.size}
}

func (mv *MapView) processPointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  mv,
			Kinds:   pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel | pointer.Scroll,
			ScrollY: pointer.ScrollRange{Min: math.MinInt32, Max: math.MaxInt32},
		})
		if !ok {
			return
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		out := engine.Event{
			PointerID: int(e.PointerID),
			X:         float64(e.Position.X),
			Y:         float64(e.Position.Y),
		}
		switch e.Kind {
		case pointer.Press:
			out.Kind = engine.PointerDown
			if !e.Buttons.Contain(pointer.ButtonPrimary) && e.Source == pointer.Mouse {
				out.Button = 1
			}
			mv.pressedID = e.PointerID
		case pointer.Drag:
			out.Kind = engine.PointerMove
		case pointer.Release:
			out.Kind = engine.PointerUp
		case pointer.Cancel:
			out.Kind = engine.PointerCancel
			out.PointerID = int(mv.pressedID)
		case pointer.Scroll:
			out.Kind = engine.Wheel
			out.DeltaY = float64(e.Scroll.Y)
			out.DeltaMode = engine.DeltaPixel
		default:
			continue
		}
		mv.emit(out)
	}
}

func (mv *MapView) processClicks(gtx layout.Context) {
	for {
		e, ok := mv.click.Update(gtx.Source)
		if !ok {
			return
		}
		if e.Kind != gesture.KindClick || e.NumClicks != 2 {
			continue
		}
		mv.emit(engine.Event{
			Kind:     engine.DoubleClick,
			X:        float64(e.Position.X),
			Y:        float64(e.Position.Y),
			Modifier: e.Modifiers.Contain(key.ModShift),
		})
	}
}

// Reload drops the painted copy of a tile so the next frame fetches it from
// the tile manager again. Safe to call from any goroutine.
func (mv *MapView) Reload(key tiles.Key) {
	mv.assets.Delete(key)
	mv.inflightMu.Lock()
	delete(mv.failed, key)
	mv.inflightMu.Unlock()
	mv.poke()
}
