package engine

import (
	"context"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/driver"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
	"github.com/uPaymeiFixit/tims-led-staircase/internal/trigger"
)

// Seed policies for per-instance randomness. PerTrigger draws a fresh
// seed for every admitted instance; PerProcess reuses one seed drawn
// at startup, so every run of a kind plays identically until restart.
const (
	SeedPerTrigger = "per-trigger"
	SeedPerProcess = "process"
)

// Options configures a Loop.
type Options struct {
	FPS          int
	MaxInstances int
	SeedPolicy   string
	Seed         int64 // base seed; 0 means derive from the clock
	Logger       zerolog.Logger
}

// Loop is the single logical thread of execution: trigger polling,
// admission, eviction, evaluation, compositing and output all happen
// strictly sequentially inside Run, once per frame. Every component
// the loop touches is owned by it; nothing here needs locks.
type Loop struct {
	grid    *topology.Grid
	reg     *anim.Registry
	sched   *Scheduler
	comp    *Compositor
	limiter FrameLimiter
	drv     driver.Driver
	src     trigger.Source
	log     zerolog.Logger

	// Broadcast, when set, receives each finished frame (preview).
	Broadcast func(rgb []byte, frameID uint64)

	seedPolicy string
	rng        *rand.Rand
	fixedSeed  int64

	rgb     []byte
	frameID uint64

	// Last frame's timings in milliseconds, for observability.
	Last struct {
		RenderMS float64
		WriteMS  float64
		TotalMS  float64
	}
}

// NewLoop wires the frame loop. All buffers are sized here; the loop
// allocates nothing per frame.
func NewLoop(g *topology.Grid, reg *anim.Registry, drv driver.Driver, src trigger.Source, o Options) *Loop {
	if o.MaxInstances <= 0 {
		o.MaxInstances = 5
	}
	if o.SeedPolicy == "" {
		o.SeedPolicy = SeedPerTrigger
	}
	if o.Seed == 0 {
		o.Seed = time.Now().UnixNano()
	}
	return &Loop{
		grid:       g,
		reg:        reg,
		sched:      NewScheduler(o.MaxInstances),
		comp:       NewCompositor(g),
		limiter:    NewFrameLimiter(o.FPS),
		drv:        drv,
		src:        src,
		log:        o.Logger,
		seedPolicy: o.SeedPolicy,
		rng:        rand.New(rand.NewSource(o.Seed)),
		fixedSeed:  o.Seed,
		rgb:        make([]byte, g.Count()*3),
	}
}

// Scheduler exposes the live set, mainly for health reporting.
func (l *Loop) Scheduler() *Scheduler { return l.sched }

func (l *Loop) seed() int64 {
	if l.seedPolicy == SeedPerProcess {
		return l.fixedSeed
	}
	return l.rng.Int63()
}

func (l *Loop) admit(ev trigger.Event, now time.Time) {
	f, ok := l.reg.Get(ev.Kind)
	if !ok {
		l.log.Warn().Str("kind", ev.Kind).Msg("trigger for unknown animation kind")
		return
	}
	inst := f(l.grid, anim.Params{Edge: ev.Edge, Seed: l.seed()})
	id, ok := l.sched.Admit(inst, now)
	if !ok {
		// At capacity. Not an error: the trigger is dropped and a
		// later one will find a slot once something expires.
		l.log.Debug().Str("kind", ev.Kind).Int("live", l.sched.Live()).Msg("scheduler full, trigger dropped")
		return
	}
	l.log.Debug().Str("kind", ev.Kind).Uint64("id", uint64(id)).Msg("instance admitted")
}

func (l *Loop) frame() {
	start := time.Now()

	for _, ev := range l.src.Poll(start) {
		l.admit(ev, start)
	}

	buf, failed := l.comp.Render(start, l.sched)
	for _, id := range failed {
		l.sched.Evict(id)
		l.log.Warn().Uint64("id", uint64(id)).Msg("instance panicked during evaluate, evicted")
	}
	l.Last.RenderMS = float64(time.Since(start).Microseconds()) / 1000.0

	// Expiry runs after rendering so an instance's final frame is
	// shown; evicted instances are gone before the next frame.
	l.sched.Tick(start)

	for i, c := range buf {
		l.rgb[i*3+0] = c.R
		l.rgb[i*3+1] = c.G
		l.rgb[i*3+2] = c.B
	}
	l.frameID++

	writeStart := time.Now()
	if err := l.drv.Write(l.rgb); err != nil {
		l.log.Warn().Err(err).Msg("driver write failed")
	}
	l.Last.WriteMS = float64(time.Since(writeStart).Microseconds()) / 1000.0

	if l.Broadcast != nil {
		l.Broadcast(l.rgb, l.frameID)
	}

	elapsed, overrun := l.limiter.Wait(start)
	l.Last.TotalMS = float64(elapsed.Microseconds()) / 1000.0
	if overrun {
		l.log.Warn().
			Float64("frame_ms", l.Last.TotalMS).
			Float64("budget_ms", float64(l.limiter.Interval().Microseconds())/1000.0).
			Msg("frame overran budget")
	}
}

// Run drives frames until ctx is cancelled. On exit the strip is
// blanked; instances are simply abandoned (their only lifecycle end
// is expiry, and the process is going away).
func (l *Loop) Run(ctx context.Context) error {
	l.log.Info().
		Int("leds", l.grid.Count()).
		Int("rows", l.grid.Rows()).
		Dur("frame_interval", l.limiter.Interval()).
		Int("max_instances", l.sched.Capacity()).
		Str("seed_policy", l.seedPolicy).
		Msg("frame loop starting")
	for {
		select {
		case <-ctx.Done():
			for i := range l.rgb {
				l.rgb[i] = 0
			}
			_ = l.drv.Write(l.rgb)
			return nil
		default:
			l.frame()
		}
	}
}
