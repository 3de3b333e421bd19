package trigger

import (
	"testing"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
)

func TestChanSourceDrainsWithoutBlocking(t *testing.T) {
	s := NewChanSource(2)
	now := time.Now()

	if !s.Fire(Event{Kind: "cascade", Edge: anim.Top, At: now}) {
		t.Fatal("fire into empty buffer must succeed")
	}
	if !s.Fire(Event{Kind: "cascade", Edge: anim.Bottom, At: now}) {
		t.Fatal("second fire must succeed")
	}
	// Buffer full: drop, never block.
	if s.Fire(Event{Kind: "cascade", At: now}) {
		t.Fatal("fire into full buffer must report a drop")
	}

	evs := s.Poll(now)
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].Edge != anim.Top || evs[1].Edge != anim.Bottom {
		t.Fatalf("events out of order: %v", evs)
	}
	if got := s.Poll(now); len(got) != 0 {
		t.Fatalf("drained source must be empty, got %d", len(got))
	}
}

func TestScriptFiresInOrder(t *testing.T) {
	start := time.Unix(1000, 0)
	s := NewScript(start, []Step{
		{After: 0, Event: Event{Kind: "a"}},
		{After: time.Second, Event: Event{Kind: "b"}},
		{After: 2 * time.Second, Event: Event{Kind: "c"}},
	})

	if evs := s.Poll(start); len(evs) != 1 || evs[0].Kind != "a" {
		t.Fatalf("expected only a at t=0, got %v", evs)
	}
	// Late poll picks up everything due, in order.
	evs := s.Poll(start.Add(3 * time.Second))
	if len(evs) != 2 || evs[0].Kind != "b" || evs[1].Kind != "c" {
		t.Fatalf("expected b,c, got %v", evs)
	}
	if !s.Done() {
		t.Fatal("script should be done")
	}
}

func TestPeriodicAlternatesEdges(t *testing.T) {
	p := NewPeriodic("cascade", time.Second)
	now := time.Unix(0, 0)

	first := p.Poll(now)
	if len(first) != 1 || first[0].Edge != anim.Top {
		t.Fatalf("expected top edge first, got %v", first)
	}
	if evs := p.Poll(now.Add(500 * time.Millisecond)); len(evs) != 0 {
		t.Fatalf("fired before the period elapsed: %v", evs)
	}
	second := p.Poll(now.Add(time.Second))
	if len(second) != 1 || second[0].Edge != anim.Bottom {
		t.Fatalf("expected bottom edge second, got %v", second)
	}
}
