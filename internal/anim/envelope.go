package anim

import "time"

// Envelope is the shared brightness-over-time discipline: an optional
// arm delay, a full-brightness hold, then a fade to zero. It is a
// pure function of elapsed time, so instances that restart evaluation
// at the same instant reproduce the same brightness.
type Envelope struct {
	Delay time.Duration
	Hold  time.Duration
	Fade  time.Duration
	Ease  string // "linear" (default), "smooth", "cubic"
}

// Value returns the brightness factor in [0,1] at the given elapsed
// time: 0 while armed, 1 through the hold, easing down to 0 across
// the fade.
func (e Envelope) Value(elapsed time.Duration) float64 {
	t := elapsed - e.Delay
	if t < 0 {
		return 0
	}
	if t < e.Hold {
		return 1
	}
	f := t - e.Hold
	if e.Fade <= 0 || f >= e.Fade {
		return 0
	}
	x := f.Seconds() / e.Fade.Seconds()
	return 1 - easeApply(e.Ease, x)
}

// Done reports whether the envelope has fully faded out.
func (e Envelope) Done(elapsed time.Duration) bool {
	return elapsed >= e.Delay+e.Hold+e.Fade
}

func easeApply(kind string, x float64) float64 {
	switch kind {
	case "linear", "":
		return x
	case "smooth":
		// classic smoothstep 3x^2 - 2x^3
		return x * x * (3 - 2*x)
	case "cubic":
		return smootherstep(x)
	default:
		return x
	}
}

// smootherstep: 6x^5 - 15x^4 + 10x^3
func smootherstep(x float64) float64 {
	return x * x * x * (x*(x*6-15) + 10)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
