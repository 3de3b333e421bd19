package engine

import (
	"testing"
	"time"
)

func TestLimiterReportsOverrun(t *testing.T) {
	l := NewFrameLimiter(100) // 10ms budget
	start := time.Now().Add(-50 * time.Millisecond)
	elapsed, overrun := l.Wait(start)
	if !overrun {
		t.Fatal("expected overrun for a 50ms frame on a 10ms budget")
	}
	if elapsed < 50*time.Millisecond {
		t.Fatalf("elapsed underestimates the frame: %v", elapsed)
	}
}

func TestLimiterSleepsRemainder(t *testing.T) {
	l := NewFrameLimiter(50) // 20ms budget
	start := time.Now()
	_, overrun := l.Wait(start)
	if overrun {
		t.Fatal("fresh frame must not overrun")
	}
	if since := time.Since(start); since < 15*time.Millisecond {
		t.Fatalf("limiter returned too early: %v", since)
	}
}

func TestLimiterDefaultsFPS(t *testing.T) {
	l := NewFrameLimiter(0)
	if l.Interval() != time.Second/defaultFPS {
		t.Fatalf("unexpected default interval %v", l.Interval())
	}
}
