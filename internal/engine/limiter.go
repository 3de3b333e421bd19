package engine

import "time"

const defaultFPS = 30

// FrameLimiter paces the render loop to a target frame interval.
type FrameLimiter struct {
	interval time.Duration
}

func NewFrameLimiter(fps int) FrameLimiter {
	if fps <= 0 {
		fps = defaultFPS
	}
	return FrameLimiter{interval: time.Second / time.Duration(fps)}
}

func (l FrameLimiter) Interval() time.Duration { return l.interval }

// Wait sleeps out whatever remains of the frame budget that started
// at frameStart. If the frame already overran, it returns immediately
// with overrun set: the loop proceeds at whatever rate it can manage,
// with no catch-up and no skipped frames.
func (l FrameLimiter) Wait(frameStart time.Time) (elapsed time.Duration, overrun bool) {
	elapsed = time.Since(frameStart)
	if elapsed >= l.interval {
		return elapsed, true
	}
	time.Sleep(l.interval - elapsed)
	return elapsed, false
}
