package anim

import (
	"testing"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

func testGrid(t *testing.T, rows, cols int) *topology.Grid {
	t.Helper()
	rr := make([]topology.Row, rows)
	for i := range rr {
		dir := topology.Forward
		if i%2 == 1 {
			dir = topology.Reverse
		}
		rr[i] = topology.Row{Length: cols, PhysicalStart: i * cols, Direction: dir}
	}
	g, err := topology.New(rr)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	return g
}

func sampleAt(samples []Sample, row, col int) (Color, bool) {
	for _, s := range samples {
		if s.At.Row == row && s.At.Col == col {
			return s.C, true
		}
	}
	return Color{}, false
}

func TestCascadeHoldThenFadeTimeline(t *testing.T) {
	g := testGrid(t, 4, 3)
	c := NewCascade(g, Params{
		Edge:  Top,
		Color: Color{R: 200},
		Hold:  2000 * time.Millisecond,
		Fade:  3000 * time.Millisecond,
	})

	// Row 0 arms immediately: full brightness through the hold.
	col, ok := sampleAt(c.Evaluate(1000*time.Millisecond, g), 0, 0)
	if !ok || col.R != 200 {
		t.Fatalf("expected full brightness at 1s, got %v ok=%v", col, ok)
	}

	// Halfway through the fade: ~50%.
	col, ok = sampleAt(c.Evaluate(3500*time.Millisecond, g), 0, 0)
	if !ok || col.R < 95 || col.R > 105 {
		t.Fatalf("expected ~half brightness at 3.5s, got %v ok=%v", col, ok)
	}

	// Row 0 fully faded; far rows may still be lit.
	if _, ok := sampleAt(c.Evaluate(5001*time.Millisecond, g), 0, 0); ok {
		t.Fatal("row 0 should contribute nothing after hold+fade")
	}
}

func TestCascadeStaggersFromEdge(t *testing.T) {
	g := testGrid(t, 6, 2)

	top := NewCascade(g, Params{Edge: Top})
	s := top.Evaluate(50*time.Millisecond, g)
	if _, ok := sampleAt(s, 0, 0); !ok {
		t.Fatal("top cascade should light row 0 first")
	}
	if _, ok := sampleAt(s, 5, 0); ok {
		t.Fatal("top cascade should not have reached the last row yet")
	}

	bottom := NewCascade(g, Params{Edge: Bottom})
	s = bottom.Evaluate(50*time.Millisecond, g)
	if _, ok := sampleAt(s, 5, 0); !ok {
		t.Fatal("bottom cascade should light the last row first")
	}
	if _, ok := sampleAt(s, 0, 0); ok {
		t.Fatal("bottom cascade should not have reached row 0 yet")
	}
}

func TestCascadeEvaluateIdempotent(t *testing.T) {
	g := testGrid(t, 4, 3)
	c := NewCascade(g, Params{Edge: Top})

	at := 1200 * time.Millisecond
	first := append([]Sample(nil), c.Evaluate(at, g)...)
	second := c.Evaluate(at, g)
	if len(first) != len(second) {
		t.Fatalf("sample count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sample %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestCascadeExpires(t *testing.T) {
	g := testGrid(t, 4, 3)
	c := NewCascade(g, Params{Hold: time.Second, Fade: time.Second})
	if c.Expired(time.Second) {
		t.Fatal("expired too early")
	}
	// 3 rows of stagger at the default delay plus hold plus fade.
	if !c.Expired(3*defaultRowDelay + 2*time.Second) {
		t.Fatal("should be expired after the last row fades")
	}
}
