package anim

import (
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/topology"
)

// Address is a logical grid coordinate. It may or may not have a
// backing LED; the topology mapper decides that at composite time.
type Address struct {
	Row, Col int
}

// Sample is one cell's color contribution for the current frame.
type Sample struct {
	At Address
	C  Color
}

// Edge names the staircase end an animation starts from, matching
// which sensor fired.
type Edge int

const (
	Top Edge = iota
	Bottom
)

// Instance is one running, time-parameterized animation.
//
// Evaluate is called once per frame with the time elapsed since
// admission and must be deterministic: the same elapsed time with the
// same frozen parameters reproduces the same output. Any randomness
// is drawn at construction and stored; none may be drawn inside
// Evaluate. Internal simulation state (automaton generations, landed
// pieces) advances only inside Evaluate, and only as a pure function
// of elapsed time, so re-evaluating at the same instant is harmless.
//
// The returned slice is owned by the instance and reused between
// frames; callers must consume it before the next Evaluate call.
//
// Expired is checked after each frame render; once it reports true
// the instance is evicted and never evaluated again.
type Instance interface {
	Evaluate(elapsed time.Duration, g *topology.Grid) []Sample
	Expired(elapsed time.Duration) bool
}

// Params carries trigger-time parameters into a kind's factory. The
// factory copies what it needs; nothing retains Params afterwards.
// Zero values mean "use the kind's default".
type Params struct {
	Edge  Edge
	Color Color
	Hold  time.Duration
	Fade  time.Duration
	// Total run length for duration-bound kinds (sweep, rain).
	Duration time.Duration
	// Simulation step cadence for stepping kinds (life, stack).
	Tick time.Duration
	// Seed for any randomness the kind wants. Drawn by the caller
	// according to the configured seed policy.
	Seed int64
}

// Factory builds a fresh instance for one trigger. All allocation a
// kind needs for its lifetime happens here, not per frame.
type Factory func(g *topology.Grid, p Params) Instance

// Registry maps kind names to factories. New animation kinds register
// here; the scheduler and compositor never branch on kind.
type Registry struct{ m map[string]Factory }

func NewRegistry() *Registry { return &Registry{m: map[string]Factory{}} }

func (r *Registry) Register(name string, f Factory) {
	if f == nil {
		return
	}
	r.m[name] = f
}

func (r *Registry) Get(name string) (Factory, bool) { f, ok := r.m[name]; return f, ok }

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	return out
}

// Defaults returns a registry with every built-in kind registered.
func Defaults() *Registry {
	r := NewRegistry()
	r.Register("cascade", NewCascade)
	r.Register("sweep", NewSweep)
	r.Register("rain", NewRain)
	r.Register("life", NewLife)
	r.Register("stack", NewStack)
	return r
}
