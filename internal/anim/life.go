package anim

import (
	"math/rand"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

const (
	defaultLifeTick = 250 * time.Millisecond
	lifeSeedDensity = 0.35
	lifeMaxGens     = 200
)

// Life runs Conway's game of life across the logical grid, stepping
// on a fixed tick. The board lives in a two-generation arena: two
// fixed buffers that swap roles every step, so there is no aliasing
// between the generation being read and the one being written and no
// allocation after construction.
//
// The instance expires when the board dies out, reaches a still life,
// or hits the generation cap (oscillators never die on their own).
type Life struct {
	rows, cols int
	tick       time.Duration
	color      Color

	cur, next []uint8
	applied   int  // generations already stepped
	terminal  bool // empty or stable

	samples []Sample
}

// NewLife is the "life" kind factory. The initial board is seeded
// from the admission seed.
func NewLife(g *topology.Grid, p Params) Instance {
	l := &Life{
		rows:    g.Rows(),
		cols:    g.MaxRowLength(),
		tick:    p.Tick,
		color:   p.Color,
		samples: make([]Sample, 0, g.Rows()*g.MaxRowLength()),
	}
	if l.tick <= 0 {
		l.tick = defaultLifeTick
	}
	if l.color == (Color{}) {
		l.color = Color{R: 40, G: 255, B: 120}
	}
	n := l.rows * l.cols
	l.cur = make([]uint8, n)
	l.next = make([]uint8, n)

	rng := rand.New(rand.NewSource(p.Seed))
	for i := range l.cur {
		if rng.Float64() < lifeSeedDensity {
			l.cur[i] = 1
		}
	}
	return l
}

func (l *Life) at(gen []uint8, row, col int) uint8 {
	if row < 0 || row >= l.rows || col < 0 || col >= l.cols {
		return 0
	}
	return gen[row*l.cols+col]
}

// step advances one generation, writing into l.next and swapping.
// Reports whether the new generation differs from the old one.
func (l *Life) step() bool {
	changed := false
	alive := false
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.cols; col++ {
			var n uint8
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					if dr == 0 && dc == 0 {
						continue
					}
					n += l.at(l.cur, row+dr, col+dc)
				}
			}
			i := row*l.cols + col
			switch {
			case l.cur[i] == 1 && (n == 2 || n == 3):
				l.next[i] = 1
			case l.cur[i] == 0 && n == 3:
				l.next[i] = 1
			default:
				l.next[i] = 0
			}
			if l.next[i] != l.cur[i] {
				changed = true
			}
			if l.next[i] == 1 {
				alive = true
			}
		}
	}
	l.cur, l.next = l.next, l.cur
	if !alive || !changed {
		l.terminal = true
	}
	return changed
}

func (l *Life) Evaluate(elapsed time.Duration, g *topology.Grid) []Sample {
	steps := int(elapsed / l.tick)
	for l.applied < steps && !l.terminal {
		l.step()
		l.applied++
	}

	l.samples = l.samples[:0]
	for row := 0; row < l.rows; row++ {
		for col := 0; col < l.cols; col++ {
			if l.cur[row*l.cols+col] == 1 {
				l.samples = append(l.samples, Sample{At: Address{Row: row, Col: col}, C: l.color})
			}
		}
	}
	return l.samples
}

func (l *Life) Expired(elapsed time.Duration) bool {
	return l.terminal || l.applied >= lifeMaxGens
}
