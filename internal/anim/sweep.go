package anim

import (
	"math"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

const (
	defaultSweepDuration = 4 * time.Second
	sweepBandRows        = 3.0
)

// Sweep runs a soft band of light from one edge of the staircase to
// the other over a fixed duration. With a white color this doubles as
// the wiring check pattern: the band visits every row in physical
// order, making crossed rows obvious.
type Sweep struct {
	color    Color
	edge     Edge
	duration time.Duration
	samples  []Sample
}

// NewSweep is the "sweep" kind factory.
func NewSweep(g *topology.Grid, p Params) Instance {
	s := &Sweep{
		color:    p.Color,
		edge:     p.Edge,
		duration: p.Duration,
		samples:  make([]Sample, 0, g.Rows()*g.MaxRowLength()),
	}
	if s.color == (Color{}) {
		s.color = Color{R: 255, G: 255, B: 255}
	}
	if s.duration <= 0 {
		s.duration = defaultSweepDuration
	}
	return s
}

func (s *Sweep) Evaluate(elapsed time.Duration, g *topology.Grid) []Sample {
	s.samples = s.samples[:0]
	progress := clamp01(elapsed.Seconds() / s.duration.Seconds())

	// Band center travels from just before the first row to just past
	// the last, so the sweep fades in and out at the edges.
	span := float64(g.Rows()) + 2*sweepBandRows
	center := progress*span - sweepBandRows
	if s.edge == Bottom {
		center = float64(g.Rows()-1) - center
	}

	for row := 0; row < g.Rows(); row++ {
		d := math.Abs(float64(row) - center)
		if d >= sweepBandRows {
			continue
		}
		v := 1 - easeApply("smooth", d/sweepBandRows)
		c := s.color.Scale(v)
		for col := 0; col < g.MaxRowLength(); col++ {
			s.samples = append(s.samples, Sample{At: Address{Row: row, Col: col}, C: c})
		}
	}
	return s.samples
}

func (s *Sweep) Expired(elapsed time.Duration) bool {
	return elapsed >= s.duration
}
