// Package trigger is the seam between the sensor collaborators and
// the frame loop. Debouncing, distance thresholds and rate limiting
// happen on the sensor side; by the time an Event reaches a Source it
// is an admission request, nothing more.
package trigger

import (
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
)

// Event is one classified trigger: which animation kind to admit and
// which staircase edge fired.
type Event struct {
	Kind string
	Edge anim.Edge
	At   time.Time
}

// Source delivers pending events once per frame. Poll must never
// block; an empty slice means no triggers this frame.
type Source interface {
	Poll(now time.Time) []Event
}

// ChanSource adapts a bounded channel into a Source. Sensor
// goroutines push with Fire; the frame loop drains on its own
// schedule. When the buffer is full, Fire drops the event, matching
// the scheduler's own drop-on-full policy.
type ChanSource struct {
	ch  chan Event
	out []Event
}

func NewChanSource(buffer int) *ChanSource {
	if buffer <= 0 {
		buffer = 16
	}
	return &ChanSource{ch: make(chan Event, buffer), out: make([]Event, 0, buffer)}
}

// Fire enqueues an event without blocking. Reports false if dropped.
func (c *ChanSource) Fire(ev Event) bool {
	select {
	case c.ch <- ev:
		return true
	default:
		return false
	}
}

func (c *ChanSource) Poll(now time.Time) []Event {
	c.out = c.out[:0]
	for {
		select {
		case ev := <-c.ch:
			c.out = append(c.out, ev)
		default:
			return c.out
		}
	}
}

// Step is one scripted trigger, offset from script start.
type Step struct {
	After time.Duration
	Event Event
}

// Script replays a fixed trigger schedule; used by the simulator and
// by end-to-end tests. Steps must be ordered by After.
type Script struct {
	steps []Step
	start time.Time
	next  int
	out   []Event
}

func NewScript(start time.Time, steps []Step) *Script {
	return &Script{steps: steps, start: start, out: make([]Event, 0, 4)}
}

func (s *Script) Poll(now time.Time) []Event {
	s.out = s.out[:0]
	for s.next < len(s.steps) && now.Sub(s.start) >= s.steps[s.next].After {
		ev := s.steps[s.next].Event
		ev.At = now
		s.out = append(s.out, ev)
		s.next++
	}
	return s.out
}

// Done reports whether every scripted step has fired.
func (s *Script) Done() bool { return s.next >= len(s.steps) }

// Periodic fires the same kind on a fixed cadence, alternating edges.
// Handy as a demo source when no sensors are wired up.
type Periodic struct {
	Kind  string
	Every time.Duration

	last time.Time
	edge anim.Edge
	out  [1]Event
}

func NewPeriodic(kind string, every time.Duration) *Periodic {
	if every <= 0 {
		every = 8 * time.Second
	}
	return &Periodic{Kind: kind, Every: every}
}

func (p *Periodic) Poll(now time.Time) []Event {
	if !p.last.IsZero() && now.Sub(p.last) < p.Every {
		return nil
	}
	p.last = now
	p.out[0] = Event{Kind: p.Kind, Edge: p.edge, At: now}
	if p.edge == anim.Top {
		p.edge = anim.Bottom
	} else {
		p.edge = anim.Top
	}
	return p.out[:]
}
