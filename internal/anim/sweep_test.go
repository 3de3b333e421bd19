package anim

import (
	"testing"
	"time"
)

func TestSweepTraversesAllRows(t *testing.T) {
	g := testGrid(t, 8, 4)
	s := NewSweep(g, Params{Edge: Top, Duration: 2 * time.Second})

	visited := map[int]bool{}
	for ms := 0; ms < 2000; ms += 20 {
		for _, sm := range s.Evaluate(time.Duration(ms)*time.Millisecond, g) {
			visited[sm.At.Row] = true
		}
	}
	for row := 0; row < g.Rows(); row++ {
		if !visited[row] {
			t.Fatalf("sweep never lit row %d", row)
		}
	}
}

func TestSweepDirectionFollowsEdge(t *testing.T) {
	g := testGrid(t, 10, 4)
	dur := 2 * time.Second

	top := NewSweep(g, Params{Edge: Top, Duration: dur})
	early := top.Evaluate(300*time.Millisecond, g)
	for _, sm := range early {
		if sm.At.Row > 5 {
			t.Fatalf("top sweep reached row %d too early", sm.At.Row)
		}
	}

	bottom := NewSweep(g, Params{Edge: Bottom, Duration: dur})
	early = bottom.Evaluate(300*time.Millisecond, g)
	for _, sm := range early {
		if sm.At.Row < 4 {
			t.Fatalf("bottom sweep reached row %d too early", sm.At.Row)
		}
	}
}

func TestSweepExpiresAtDuration(t *testing.T) {
	g := testGrid(t, 8, 4)
	s := NewSweep(g, Params{Duration: time.Second})
	if s.Expired(999 * time.Millisecond) {
		t.Fatal("expired too early")
	}
	if !s.Expired(time.Second) {
		t.Fatal("should expire at duration")
	}
}
