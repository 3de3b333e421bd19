package engine

import (
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

// Compositor merges all live instances' per-cell contributions into
// one physical buffer. The buffer is allocated once and reused every
// frame.
type Compositor struct {
	grid *topology.Grid
	buf  []anim.Color
}

func NewCompositor(g *topology.Grid) *Compositor {
	return &Compositor{grid: g, buf: make([]anim.Color, g.Count())}
}

// Buffer exposes the physical buffer; valid until the next Render.
func (c *Compositor) Buffer() []anim.Color { return c.buf }

// Render produces the frame at time now: reset to black, evaluate
// every live instance, map each sample through the topology, and
// accumulate with per-channel saturating addition. Samples that map
// to the None sentinel are discarded.
//
// A panic inside one instance's Evaluate is contained to that
// instance: its partial contribution stays (the buffer is not rolled
// back mid-frame), it is reported in failed, and the caller evicts
// it. The frame itself always completes.
func (c *Compositor) Render(now time.Time, s *Scheduler) (buf []anim.Color, failed []InstanceID) {
	for i := range c.buf {
		c.buf[i] = anim.Color{}
	}
	none := c.grid.None()
	s.ForEach(func(id InstanceID, inst anim.Instance, start time.Time) {
		defer func() {
			if r := recover(); r != nil {
				failed = append(failed, id)
			}
		}()
		for _, sm := range inst.Evaluate(now.Sub(start), c.grid) {
			slot := c.grid.Slot(sm.At.Row, sm.At.Col)
			if slot == none {
				continue
			}
			c.buf[slot] = c.buf[slot].Add(sm.C)
		}
	})
	return c.buf, failed
}
