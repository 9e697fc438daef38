package store

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsOnceAfterBurst(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(25*time.Millisecond, func() { calls.Add(1) })

	for i := 0; i < 10; i++ {
		d.Reset()
		time.Sleep(2 * time.Millisecond)
	}
	if !d.Pending() {
		t.Error("run should be pending during the burst")
	}

	time.Sleep(100 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}
	if d.Pending() {
		t.Error("nothing should be pending after the run")
	}
}

func TestDebouncerStop(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	if d.Stop() {
		t.Error("Stop() with nothing scheduled should report false")
	}

	d.Reset()
	if !d.Stop() {
		t.Error("Stop() should report the pending run")
	}

	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("fn ran %d times after Stop, want 0", got)
	}

	d.Reset()
	time.Sleep(60 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("fn ran %d times after a new Reset, want 1", got)
	}
}

func TestDebouncerClose(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.Reset()
	d.Close()
	d.Reset()

	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Errorf("fn ran %d times after Close, want 0", got)
	}
	if d.Pending() {
		t.Error("closed debouncer should have nothing pending")
	}
}

func TestDebouncerIgnoresSupersededTimer(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(time.Hour, func() { calls.Add(1) })
	t.Cleanup(d.Close)

	d.Reset()
	d.Reset()

	// The first timer lost the race with the second Reset and fires anyway.
	d.fire(1)
	if got := calls.Load(); got != 0 {
		t.Errorf("fn ran %d times from a superseded timer, want 0", got)
	}
	if !d.Pending() {
		t.Error("the latest run should still be pending")
	}

	d.fire(2)
	if got := calls.Load(); got != 1 {
		t.Errorf("fn ran %d times from the current timer, want 1", got)
	}
}
