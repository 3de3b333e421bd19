package anim

import (
	"math/rand"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

const (
	stackSpeedRowsPerSec = 8.0
	stackHold            = 1500 * time.Millisecond
	stackFade            = 2000 * time.Millisecond
)

// Stack drops one colored bar per step from the top of the staircase;
// each bar lands on the pile growing from the bottom. Once the pile
// reaches the top the whole structure holds, fades, and the instance
// expires.
//
// All geometry is a closed-form function of elapsed time: piece k
// starts falling the moment piece k-1 lands, so there is no mutable
// simulation state at all, just the precomputed per-piece colors.
type Stack struct {
	colors  []Color // color of the piece landing at row rows-1-k
	fallDur []time.Duration
	built   time.Duration // when the last piece lands
	samples []Sample
}

// NewStack is the "stack" kind factory. Piece colors are drawn once
// from the admission seed.
func NewStack(g *topology.Grid, p Params) Instance {
	rng := rand.New(rand.NewSource(p.Seed))
	rows := g.Rows()
	s := &Stack{
		colors:  make([]Color, rows),
		fallDur: make([]time.Duration, rows),
		samples: make([]Sample, 0, rows*g.MaxRowLength()),
	}
	for k := 0; k < rows; k++ {
		s.colors[k] = HSV(rng.Float64(), 0.9, 1.0)
		target := rows - 1 - k
		// Falling from one row above the top to the target row.
		s.fallDur[k] = time.Duration(float64(target+1) / stackSpeedRowsPerSec * float64(time.Second))
		s.built += s.fallDur[k]
	}
	return s
}

func (s *Stack) emitRow(g *topology.Grid, row int, c Color) {
	for col := 0; col < g.MaxRowLength(); col++ {
		s.samples = append(s.samples, Sample{At: Address{Row: row, Col: col}, C: c})
	}
}

func (s *Stack) Evaluate(elapsed time.Duration, g *topology.Grid) []Sample {
	s.samples = s.samples[:0]
	rows := g.Rows()

	// Whole-pile brightness after completion.
	master := 1.0
	if elapsed >= s.built {
		env := Envelope{Delay: s.built, Hold: stackHold, Fade: stackFade, Ease: "smooth"}
		master = env.Value(elapsed)
		if master <= 0 {
			return s.samples
		}
	}

	// Landed pieces and the one still in flight.
	t := elapsed
	landed := 0
	for k := 0; k < rows; k++ {
		if t < s.fallDur[k] {
			break
		}
		t -= s.fallDur[k]
		landed++
	}
	for k := 0; k < landed; k++ {
		s.emitRow(g, rows-1-k, s.colors[k].Scale(master))
	}
	if landed < rows {
		target := rows - 1 - landed
		progress := t.Seconds() / s.fallDur[landed].Seconds()
		row := int(progress*float64(target+1)) - 1
		if row >= 0 && row <= target {
			s.emitRow(g, row, s.colors[landed])
		}
	}
	return s.samples
}

func (s *Stack) Expired(elapsed time.Duration) bool {
	return elapsed >= s.built+stackHold+stackFade
}
