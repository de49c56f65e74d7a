package engine

import "sort"

// FrameClock runs callbacks at the next display refresh
type FrameClock interface {
	// Schedule arranges for fn to run once at the next refresh and returns a
	// function that cancels it if it has not run yet.
	Schedule(fn func()) (cancel func())
}

// Scheduler coalesces render requests into at most one render per refresh
type Scheduler struct {
	clock  FrameClock
	render func()
	cancel func()
}

func NewScheduler(clock FrameClock, render func()) *Scheduler {
	return &Scheduler{clock: clock, render: render}
}

// Request cancels any pending render and schedules a new one
func (s *Scheduler) Request() {
	s.Cancel()
	s.cancel = s.clock.Schedule(s.run)
}

func (s *Scheduler) run() {
	s.cancel = nil
	s.render()
}

// Cancel drops the pending render, if any
func (s *Scheduler) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// FrameQueue is a FrameClock for hosts that drive their own refresh loop.
// Schedule wakes the host through refresh, a channel of capacity 1, so any
// number of requests between two frames produce one wake-up. The host calls
// Flush from its frame handler. Not safe for concurrent use apart from the
// refresh channel.
type FrameQueue struct {
	refresh chan<- struct{}
	next    uint64
	pending map[uint64]func()
}

// NewFrameQueue returns a queue that signals refresh, which may be nil
func NewFrameQueue(refresh chan<- struct{}) *FrameQueue {
	return &FrameQueue{
		refresh: refresh,
		pending: make(map[uint64]func()),
	}
}

func (q *FrameQueue) Schedule(fn func()) (cancel func()) {
	q.next++
	id := q.next
	q.pending[id] = fn
	if q.refresh != nil {
		select {
		case q.refresh <- struct{}{}:
		default:
		}
	}
	return func() { delete(q.pending, id) }
}

// Len returns the number of callbacks waiting for the next frame
func (q *FrameQueue) Len() int {
	return len(q.pending)
}

// Flush runs the callbacks scheduled before the call in scheduling order.
// Callbacks scheduled while flushing wait for the next frame.
func (q *FrameQueue) Flush() int {
	ids := make([]uint64, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		fn, ok := q.pending[id]
		if !ok {
			continue
		}
		delete(q.pending, id)
		fn()
		ran++
	}
	return ran
}
