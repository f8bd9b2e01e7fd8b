package render

import "sync"

// Host is the narrow capability surface the core needs from its embedding
// environment: a way to schedule one paint on the host's next paint tick.
// All event-loop and widget specifics live on the host side.
type Host interface {
	// RequestPaint asks the host to call Scheduler.Flush on its next
	// paint tick. Multiple calls before the tick must coalesce.
	RequestPaint()
}

// Scheduler coalesces bursts of state changes into at most one pending
// redraw per paint tick. Requests may arrive from background tickers
// while the host's paint thread flushes, so the dirty state is guarded.
type Scheduler struct {
	host Host

	mu      sync.Mutex
	pending bool
	reasons []string
}

// NewScheduler binds a scheduler to a host.
func NewScheduler(host Host) *Scheduler {
	return &Scheduler{host: host}
}

// RequestRender marks the scene dirty. Idempotent within one paint tick:
// the first call schedules a paint, later calls only record their reason.
func (s *Scheduler) RequestRender(reason string) {
	s.mu.Lock()
	s.reasons = append(s.reasons, reason)
	schedule := !s.pending
	s.pending = true
	s.mu.Unlock()

	if schedule {
		s.host.RequestPaint()
	}
}

// Pending reports whether a redraw is scheduled.
func (s *Scheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Flush runs the draw callback if a redraw is pending and resets the
// dirty state. The host calls this from its paint tick. It returns the
// reasons accumulated since the previous flush.
func (s *Scheduler) Flush(draw func()) []string {
	s.mu.Lock()
	if !s.pending {
		s.mu.Unlock()
		return nil
	}
	reasons := s.reasons
	s.pending = false
	s.reasons = nil
	s.mu.Unlock()

	draw()
	return reasons
}
