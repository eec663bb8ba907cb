package islet

import (
	"context"
	"sync/atomic"
	"time"
)

// TickFunc is called once per tick with the elapsed seconds since the
// previous tick.
type TickFunc func(dt float64)

type tickEntry struct {
	id uint32
	fn TickFunc
}

// DefaultMaxDelta caps a single tick's dt so a stalled host (a hidden window,
// a debugger pause) does not make simulators jump.
const DefaultMaxDelta = 0.1

// Scheduler runs registered callbacks once per tick, grouped by Phase: every
// PhaseSimulate callback runs before any PhaseCompose callback, which all run
// before PhasePresent. Within a phase, callbacks run in registration order.
//
// One Scheduler drives one surface. Tick must be called from a single
// goroutine; Stop may be called from any goroutine.
type Scheduler struct {
	phases  [numPhases][]tickEntry
	nextID  uint32
	ticking bool
	pending bool // entries were removed during a tick

	// MaxDelta caps dt per tick. Zero means DefaultMaxDelta.
	MaxDelta float64

	elapsed float64
	frames  uint64
	stopped atomic.Bool
}

// NewScheduler returns an empty, running scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// TickHandle removes a registered callback.
type TickHandle struct {
	s     *Scheduler
	phase Phase
	id    uint32
}

// Add registers fn to run in phase on every tick.
func (s *Scheduler) Add(phase Phase, fn TickFunc) TickHandle {
	if phase >= numPhases {
		panic("islet: invalid scheduler phase " + phase.String())
	}
	s.nextID++
	s.phases[phase] = append(s.phases[phase], tickEntry{id: s.nextID, fn: fn})
	return TickHandle{s: s, phase: phase, id: s.nextID}
}

// Remove unregisters the callback. Removing during a tick takes effect
// immediately: the callback is not invoked again, even later in the same
// tick.
func (h TickHandle) Remove() {
	if h.s == nil {
		return
	}
	entries := h.s.phases[h.phase]
	for i := range entries {
		if entries[i].id != h.id {
			continue
		}
		if h.s.ticking {
			entries[i].fn = nil
			h.s.pending = true
			return
		}
		copy(entries[i:], entries[i+1:])
		entries[len(entries)-1] = tickEntry{}
		h.s.phases[h.phase] = entries[:len(entries)-1]
		return
	}
}

// Len returns the number of registered callbacks.
func (s *Scheduler) Len() int {
	n := 0
	for p := range s.phases {
		for _, e := range s.phases[p] {
			if e.fn != nil {
				n++
			}
		}
	}
	return n
}

// Tick runs one tick. Negative or NaN dt counts as zero and dt is capped at
// MaxDelta. It returns false, running nothing, once the scheduler is
// stopped; a Stop during the tick skips every callback not yet run.
func (s *Scheduler) Tick(dt float64) bool {
	if s.stopped.Load() {
		return false
	}
	maxDt := s.MaxDelta
	if maxDt <= 0 {
		maxDt = DefaultMaxDelta
	}
	if !(dt > 0) {
		dt = 0
	}
	dt = min(dt, maxDt)

	s.ticking = true
	for p := range s.phases {
		// Callbacks added during the tick wait for the next one.
		n := len(s.phases[p])
		for i := 0; i < n; i++ {
			if s.stopped.Load() {
				s.endTick()
				return false
			}
			if fn := s.phases[p][i].fn; fn != nil {
				fn(dt)
			}
		}
	}
	s.endTick()
	s.elapsed += dt
	s.frames++
	return true
}

func (s *Scheduler) endTick() {
	s.ticking = false
	if !s.pending {
		return
	}
	s.pending = false
	for p := range s.phases {
		kept := s.phases[p][:0]
		for _, e := range s.phases[p] {
			if e.fn != nil {
				kept = append(kept, e)
			}
		}
		clear(s.phases[p][len(kept):])
		s.phases[p] = kept
	}
}

// Stop cancels all future ticks. It is safe to call more than once and from
// any goroutine.
func (s *Scheduler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		logDebug("scheduler stopped", "frames", s.frames)
	}
}

// Stopped reports whether Stop was called.
func (s *Scheduler) Stopped() bool { return s.stopped.Load() }

// Elapsed returns the simulated seconds so far.
func (s *Scheduler) Elapsed() float64 { return s.elapsed }

// Frames returns the number of completed ticks.
func (s *Scheduler) Frames() uint64 { return s.frames }

// Run ticks at the given rate until ctx is done or the scheduler is stopped,
// measuring dt with a Clock. It is the headless counterpart of a Surface,
// used by tools and tests that have no window. It returns ctx.Err() on
// cancellation and nil after Stop.
func (s *Scheduler) Run(ctx context.Context, hz int) error {
	if hz <= 0 {
		hz = 60
	}
	t := time.NewTicker(time.Second / time.Duration(hz))
	defer t.Stop()
	clock := NewClock()
	for {
		select {
		case <-ctx.Done():
			s.Stop()
			return ctx.Err()
		case <-t.C:
			if !s.Tick(clock.Delta()) {
				return nil
			}
		}
	}
}

// Clock measures wall time between calls to Delta.
type Clock struct {
	now  func() time.Time
	last time.Time
}

// NewClock returns a clock starting now.
func NewClock() *Clock {
	return newClockAt(time.Now)
}

func newClockAt(now func() time.Time) *Clock {
	return &Clock{now: now, last: now()}
}

// Delta returns the seconds since the previous call (or since creation).
func (c *Clock) Delta() float64 {
	t := c.now()
	d := t.Sub(c.last).Seconds()
	c.last = t
	return d
}

// Reset restarts the measurement, e.g. after the host was suspended.
func (c *Clock) Reset() {
	c.last = c.now()
}
