// Package clock paces the virtual machine. A clock is asked before every
// instruction whether execution may continue.
package clock

import (
	"sync"
	"time"
)

// Clock decides whether the next instruction may run. Only effectful
// instructions are subject to pausing; every clock lets others through.
type Clock interface {
	Tick(effectful bool) bool
}

// Unbounded never pauses.
type Unbounded struct{}

func (Unbounded) Tick(bool) bool { return true }

// TimeBox lets instructions run for a fixed wall time, then yields once and
// starts a new box on the following tick.
type TimeBox struct {
	duration time.Duration
	now      func() time.Time
	start    time.Time
}

// Option configures a TimeBox.
type Option func(*TimeBox)

// WithNow replaces the wall clock, mostly for tests.
func WithNow(now func() time.Time) Option {
	return func(t *TimeBox) {
		t.now = now
	}
}

// NewTimeBox creates a time-boxed clock of length d.
func NewTimeBox(d time.Duration, opts ...Option) *TimeBox {
	t := &TimeBox{duration: d, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *TimeBox) Tick(effectful bool) bool {
	if !effectful {
		return true
	}

	now := t.now()
	if t.start.IsZero() {
		t.start = now
	}

	if now.Sub(t.start) >= t.duration {
		t.Reset()
		return false
	}

	return true
}

// Reset starts a fresh box on the next effectful tick.
func (t *TimeBox) Reset() {
	t.start = time.Time{}
}

// NewFPS creates a clock yielding fps times per second.
func NewFPS(fps int, opts ...Option) *TimeBox {
	if fps <= 0 {
		fps = 1
	}

	return NewTimeBox(time.Second/time.Duration(fps), opts...)
}

// Step pauses before every effectful instruction until Resume is called.
// Resume and Pause may be called from another goroutine.
type Step struct {
	mu      sync.Mutex
	permits int
}

// NewStep creates a paused step clock.
func NewStep() *Step {
	return &Step{}
}

func (s *Step) Tick(effectful bool) bool {
	if !effectful {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permits == 0 {
		return false
	}

	s.permits--

	return true
}

func (s *Step) ready(effectful bool) bool {
	if !effectful {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.permits > 0
}

// Resume allows one more effectful instruction.
func (s *Step) Resume() {
	s.mu.Lock()
	s.permits++
	s.mu.Unlock()
}

// Pause withdraws every pending permit.
func (s *Step) Pause() {
	s.mu.Lock()
	s.permits = 0
	s.mu.Unlock()
}

// peeker is a clock whose Tick consumes something. ready answers as Tick
// would without consuming it.
type peeker interface {
	Clock
	ready(effectful bool) bool
}

type and struct {
	a, b Clock
}

// And continues only while both clocks agree. b is not consulted when a
// declines. A Step permit is consumed only when every other clock lets the
// instruction through.
func And(a, b Clock) Clock {
	return and{a: a, b: b}
}

func (c and) ready(effectful bool) bool {
	for _, k := range []Clock{c.a, c.b} {
		if p, ok := k.(peeker); ok && !p.ready(effectful) {
			return false
		}
	}

	return true
}

func (c and) Tick(effectful bool) bool {
	if !c.ready(effectful) {
		return false
	}

	clocks := []Clock{c.a, c.b}
	for _, k := range clocks {
		if _, ok := k.(peeker); !ok && !k.Tick(effectful) {
			return false
		}
	}

	for _, k := range clocks {
		if _, ok := k.(peeker); ok && !k.Tick(effectful) {
			return false
		}
	}

	return true
}
