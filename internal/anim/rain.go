package anim

import (
	"math"
	"math/rand"
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

const (
	defaultRainDuration = 10 * time.Second
	rainFadeOut         = 1500 * time.Millisecond
	rainTrailRows       = 3
)

type drop struct {
	col   int
	phase float64 // initial offset in rows
	speed float64 // rows per second
	color Color
}

// Rain scatters falling drops down the staircase, each with its own
// column, speed and tint. Every random quantity is drawn once here
// from the admission seed; Evaluate is a pure function of elapsed
// time after that.
type Rain struct {
	drops    []drop
	duration time.Duration
	samples  []Sample
}

// NewRain is the "rain" kind factory.
func NewRain(g *topology.Grid, p Params) Instance {
	rng := rand.New(rand.NewSource(p.Seed))
	nd := g.MaxRowLength() / 3
	if nd < 4 {
		nd = 4
	}
	r := &Rain{
		drops:    make([]drop, nd),
		duration: p.Duration,
		samples:  make([]Sample, 0, nd*(rainTrailRows+1)),
	}
	if r.duration <= 0 {
		r.duration = defaultRainDuration
	}
	for i := range r.drops {
		hue := 0.55 + 0.15*rng.Float64() // blue range
		r.drops[i] = drop{
			col:   rng.Intn(g.MaxRowLength()),
			phase: rng.Float64() * float64(g.Rows()+rainTrailRows),
			speed: 2.0 + 3.0*rng.Float64(),
			color: HSV(hue, 0.8, 1.0),
		}
	}
	return r
}

func (r *Rain) Evaluate(elapsed time.Duration, g *topology.Grid) []Sample {
	r.samples = r.samples[:0]

	// Whole-instance fade at the tail so the rain stops gracefully.
	master := 1.0
	if remain := r.duration - elapsed; remain < rainFadeOut {
		master = clamp01(remain.Seconds() / rainFadeOut.Seconds())
	}
	if master <= 0 {
		return r.samples
	}

	wrap := float64(g.Rows() + rainTrailRows)
	for _, d := range r.drops {
		y := math.Mod(elapsed.Seconds()*d.speed+d.phase, wrap)
		head := int(y)
		for t := 0; t <= rainTrailRows; t++ {
			row := head - t
			if row < 0 || row >= g.Rows() {
				continue
			}
			v := master * (1 - float64(t)/float64(rainTrailRows+1))
			r.samples = append(r.samples, Sample{
				At: Address{Row: row, Col: d.col},
				C:  d.color.Scale(v),
			})
		}
	}
	return r.samples
}

func (r *Rain) Expired(elapsed time.Duration) bool {
	return elapsed >= r.duration
}
