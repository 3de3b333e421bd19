package anim

import (
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

const (
	defaultHold     = 2000 * time.Millisecond
	defaultFade     = 3000 * time.Millisecond
	defaultRowDelay = 150 * time.Millisecond
)

// Cascade lights the staircase row by row from the triggering edge,
// holds each row at full brightness, then fades it out. The classic
// "walk onto the stairs" effect: rows nearer the far edge arm later,
// so the light appears to chase the walker.
type Cascade struct {
	color    Color
	edge     Edge
	hold     time.Duration
	fade     time.Duration
	rowDelay time.Duration
	ease     string
	total    time.Duration
	samples  []Sample
}

// NewCascade is the "cascade" kind factory.
func NewCascade(g *topology.Grid, p Params) Instance {
	c := &Cascade{
		color:    p.Color,
		edge:     p.Edge,
		hold:     p.Hold,
		fade:     p.Fade,
		rowDelay: defaultRowDelay,
		samples:  make([]Sample, 0, g.Rows()*g.MaxRowLength()),
	}
	if c.color == (Color{}) {
		c.color = Color{R: 255, G: 180, B: 40} // warm white
	}
	if c.hold <= 0 {
		c.hold = defaultHold
	}
	if c.fade <= 0 {
		c.fade = defaultFade
	}
	maxDelay := time.Duration(g.Rows()-1) * c.rowDelay
	c.total = maxDelay + c.hold + c.fade
	return c
}

func (c *Cascade) rowEnvelope(g *topology.Grid, row int) Envelope {
	dist := row
	if c.edge == Bottom {
		dist = g.Rows() - 1 - row
	}
	return Envelope{
		Delay: time.Duration(dist) * c.rowDelay,
		Hold:  c.hold,
		Fade:  c.fade,
		Ease:  c.ease,
	}
}

func (c *Cascade) Evaluate(elapsed time.Duration, g *topology.Grid) []Sample {
	c.samples = c.samples[:0]
	for row := 0; row < g.Rows(); row++ {
		v := c.rowEnvelope(g, row).Value(elapsed)
		if v <= 0 {
			continue
		}
		col0 := c.color.Scale(v)
		for col := 0; col < g.MaxRowLength(); col++ {
			c.samples = append(c.samples, Sample{At: Address{Row: row, Col: col}, C: col0})
		}
	}
	return c.samples
}

func (c *Cascade) Expired(elapsed time.Duration) bool {
	return elapsed >= c.total
}
