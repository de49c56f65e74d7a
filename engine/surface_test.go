package engine

import (
	"testing"

	"github.com/olablt/worldmap/tiles"
)

// fakeSurface records presented frames and subscription churn
type fakeSurface struct {
	size     Size
	handler  func(Event) bool
	onResize func()
	frames   []Frame
	released int

	captured []int
	freed    []int
}

func (s *fakeSurface) Size() Size { return s.size }

func (s *fakeSurface) Subscribe(h func(Event) bool) Subscription {
	s.handler = h
	return ReleaseFunc(func() {
		s.released++
		s.handler = nil
	})
}

func (s *fakeSurface) ObserveResize(fn func()) Subscription {
	s.onResize = fn
	return ReleaseFunc(func() {
		s.released++
		s.onResize = nil
	})
}

func (s *fakeSurface) Present(f Frame) { s.frames = append(s.frames, f) }

func (s *fakeSurface) send(ev Event) bool {
	if s.handler == nil {
		return false
	}
	return s.handler(ev)
}

func (s *fakeSurface) last(t *testing.T) Frame {
	t.Helper()
	if len(s.frames) == 0 {
		t.Fatal("no frame presented")
	}
	return s.frames[len(s.frames)-1]
}

type capturingSurface struct {
	fakeSurface
}

func (s *capturingSurface) CapturePointer(id int) { s.captured = append(s.captured, id) }
func (s *capturingSurface) ReleasePointer(id int) { s.freed = append(s.freed, id) }

func zoomPtr(z float64) *float64 { return &z }

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }

func llPtr(lat, lng float64) *tiles.LatLng { return &tiles.LatLng{Lat: lat, Lng: lng} }

// mount initializes an engine on an 800x600 surface and runs its first render
func mount(t *testing.T, cfg Config) (*Engine, *fakeSurface, *FrameQueue) {
	t.Helper()
	s := &fakeSurface{size: Size{W: 800, H: 600}}
	q := NewFrameQueue(nil)
	e := Initialize(s, q, cfg)
	q.Flush()
	if len(s.frames) != 1 {
		t.Fatalf("first flush presented %d frames, want 1", len(s.frames))
	}
	return e, s, q
}
