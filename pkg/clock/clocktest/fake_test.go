package clocktest

import (
	"sync"
	"testing"
	"time"
)

func TestAdvanceWaitsForDueCallbacks(t *testing.T) {
	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := New(start)

	var mu sync.Mutex
	fired := map[string]bool{}
	mark := func(name string) func() {
		return func() {
			mu.Lock()
			fired[name] = true
			mu.Unlock()
		}
	}
	c.AfterFunc(3*time.Second, mark("three"))
	c.AfterFunc(1*time.Second, mark("one"))
	c.AfterFunc(10*time.Second, mark("ten"))

	c.Advance(5 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	if !fired["one"] || !fired["three"] || fired["ten"] {
		t.Fatalf("unexpected callbacks %v", fired)
	}
	if got := c.Now(); !got.Equal(start.Add(5 * time.Second)) {
		t.Fatalf("unexpected now %v", got)
	}
	if c.Pending() != 1 {
		t.Fatalf("expected one pending timer, got %d", c.Pending())
	}
}

func TestStoppedTimerDoesNotFire(t *testing.T) {
	c := New(time.Unix(0, 0))
	fired := make(chan struct{}, 1)
	timer := c.AfterFunc(time.Second, func() { fired <- struct{}{} })

	if !timer.Stop() {
		t.Fatal("first Stop should report true")
	}
	if timer.Stop() {
		t.Fatal("second Stop should report false")
	}
	c.Advance(time.Minute)
	select {
	case <-fired:
		t.Fatal("stopped timer fired")
	default:
	}
	if c.Pending() != 0 {
		t.Fatalf("expected nothing pending, got %d", c.Pending())
	}
}

func TestCallbackScheduledTimersFireWithinWindow(t *testing.T) {
	c := New(time.Unix(0, 0))
	var mu sync.Mutex
	var at []time.Time
	record := func() {
		mu.Lock()
		at = append(at, c.Now())
		mu.Unlock()
	}
	c.AfterFunc(2*time.Second, func() {
		record()
		c.AfterFunc(3*time.Second, record)
	})

	c.Advance(10 * time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(at) != 2 {
		t.Fatalf("expected both callbacks, got %d", len(at))
	}
	if !at[0].Equal(time.Unix(2, 0)) || at[1].Sub(at[0]) != 3*time.Second {
		t.Fatalf("nested timer fired at the wrong time: %v", at)
	}
}
