package engine

import (
	"testing"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
)

func TestCompositorSaturatingBlend(t *testing.T) {
	g := engineGrid(t)
	s := NewScheduler(4)
	c := NewCompositor(g)
	now := time.Unix(100, 0)

	cell := anim.Address{Row: 0, Col: 1}
	s.Admit(&fakeInstance{cell: cell, color: anim.Color{R: 200}, life: time.Hour}, now)
	s.Admit(&fakeInstance{cell: cell, color: anim.Color{R: 200}, life: time.Hour}, now)

	buf, failed := c.Render(now, s)
	if len(failed) != 0 {
		t.Fatalf("unexpected failures: %v", failed)
	}
	if buf[1].R != 255 {
		t.Fatalf("expected saturated 255 at slot 1, got %d", buf[1].R)
	}
	if buf[0].R != 0 {
		t.Fatal("untouched slot must stay black")
	}
}

func TestCompositorDiscardsUnmappableSamples(t *testing.T) {
	g := engineGrid(t)
	s := NewScheduler(2)
	c := NewCompositor(g)
	now := time.Unix(100, 0)

	// Off-grid address: fails closed, no write anywhere.
	s.Admit(&fakeInstance{cell: anim.Address{Row: 99, Col: 99}, color: anim.Color{R: 255}, life: time.Hour}, now)

	buf, _ := c.Render(now, s)
	for i, col := range buf {
		if col != (anim.Color{}) {
			t.Fatalf("slot %d written by unmappable sample: %v", i, col)
		}
	}
}

func TestCompositorContainsEvaluatePanic(t *testing.T) {
	g := engineGrid(t)
	s := NewScheduler(3)
	c := NewCompositor(g)
	now := time.Unix(100, 0)

	s.Admit(&fakeInstance{cell: anim.Address{Row: 0, Col: 0}, color: anim.Color{G: 50}, life: time.Hour}, now)
	badID, _ := s.Admit(&fakeInstance{panics: true, life: time.Hour}, now)

	buf, failed := c.Render(now, s)
	if len(failed) != 1 || failed[0] != badID {
		t.Fatalf("expected exactly the panicking instance reported, got %v", failed)
	}
	if buf[0].G != 50 {
		t.Fatal("healthy instance's output must survive a neighbor's panic")
	}

	// The loop's contract: failed instances are evicted and the next
	// frame renders without them.
	s.Evict(badID)
	if _, failed = c.Render(now.Add(time.Second), s); len(failed) != 0 {
		t.Fatalf("panicking instance still live: %v", failed)
	}
}

func TestCompositorResetsBufferEachFrame(t *testing.T) {
	g := engineGrid(t)
	s := NewScheduler(2)
	c := NewCompositor(g)
	now := time.Unix(100, 0)

	id, _ := s.Admit(&fakeInstance{cell: anim.Address{Row: 1, Col: 0}, color: anim.Color{B: 99}, life: time.Hour}, now)
	buf, _ := c.Render(now, s)
	slot := g.Slot(1, 0)
	if buf[slot].B != 99 {
		t.Fatalf("expected write at slot %d", slot)
	}

	s.Evict(id)
	buf, _ = c.Render(now.Add(time.Second), s)
	if buf[slot] != (anim.Color{}) {
		t.Fatal("buffer must reset to black between frames")
	}
}
