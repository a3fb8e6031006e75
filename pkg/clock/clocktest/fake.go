// Package clocktest wraps clockwork's fake clock so a test can wait for the
// callbacks an Advance releases before asserting on their effects.
package clocktest

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Fake is a clockwork.FakeClock whose Advance returns only after every AfterFunc
// callback that fell due has finished running.
type Fake struct {
	*clockwork.FakeClock

	mu     sync.Mutex
	timers []*trackedTimer
}

type trackedTimer struct {
	clockwork.Timer

	at      time.Time
	done    chan struct{}
	mu      sync.Mutex
	stopped bool
}

var _ clockwork.Clock = (*Fake)(nil)

func New(start time.Time) *Fake {
	return &Fake{FakeClock: clockwork.NewFakeClockAt(start)}
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) clockwork.Timer {
	t := &trackedTimer{at: f.Now().Add(d), done: make(chan struct{})}
	f.mu.Lock()
	f.timers = append(f.timers, t)
	f.mu.Unlock()
	t.Timer = f.FakeClock.AfterFunc(d, func() {
		defer close(t.done)
		fn()
	})
	return t
}

// Pending reports the number of callbacks that have neither fired nor been stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := f.Now()
	n := 0
	for _, t := range f.timers {
		if !t.isStopped() && t.at.After(now) {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d one deadline at a time, waiting for the
// callbacks due at each step. Timers scheduled from a callback fire too when they
// fall due within the window.
func (f *Fake) Advance(d time.Duration) {
	target := f.Now().Add(d)
	for {
		now := f.Now()
		step := target.Sub(now)
		if next, ok := f.nextDeadline(); ok && next.Before(target) {
			step = next.Sub(now)
		}
		if step < 0 {
			step = 0
		}
		f.FakeClock.Advance(step)
		for _, t := range f.takeDue(f.Now()) {
			if !t.isStopped() {
				<-t.done
			}
		}
		if !f.Now().Before(target) {
			if next, ok := f.nextDeadline(); !ok || next.After(target) {
				return
			}
		}
	}
}

func (f *Fake) nextDeadline() (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var next time.Time
	found := false
	for _, t := range f.timers {
		if t.isStopped() {
			continue
		}
		if !found || t.at.Before(next) {
			next, found = t.at, true
		}
	}
	return next, found
}

func (f *Fake) takeDue(now time.Time) []*trackedTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	var due, rest []*trackedTimer
	for _, t := range f.timers {
		switch {
		case t.isStopped():
		case t.at.After(now):
			rest = append(rest, t)
		default:
			due = append(due, t)
		}
	}
	f.timers = rest
	return due
}

func (t *trackedTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.Timer.Stop() {
		return false
	}
	t.stopped = true
	return true
}

func (t *trackedTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
