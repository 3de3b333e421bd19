package engine

import (
	"time"

	"github.com/uPaymeiFixit/tims-led-staircase/internal/anim"
)

// InstanceID identifies one admitted animation for its whole
// lifetime. IDs are never reused, so a stale ID simply misses.
type InstanceID uint64

type slot struct {
	id    InstanceID
	inst  anim.Instance
	start time.Time
	live  bool
}

// Scheduler owns the live animation set: a fixed-capacity slot array
// with liveness flags. Slots are tombstoned on eviction rather than
// shifted, so an InstanceID stays addressable while its instance
// lives regardless of what happens to neighboring slots. Nothing here
// allocates after construction; a full scheduler drops new triggers.
//
// Not goroutine safe: the frame loop is the only caller.
type Scheduler struct {
	slots  []slot
	nextID InstanceID
	live   int
}

// NewScheduler allocates a scheduler holding at most capacity
// concurrent instances.
func NewScheduler(capacity int) *Scheduler {
	if capacity <= 0 {
		capacity = 1
	}
	return &Scheduler{slots: make([]slot, capacity)}
}

// Capacity returns the fixed instance bound.
func (s *Scheduler) Capacity() int { return len(s.slots) }

// Live returns the current live-instance count.
func (s *Scheduler) Live() int { return s.live }

// Admit places inst into a free slot. It reports false when every
// slot is occupied; the trigger is dropped and the caller may retry
// on a later one. Admission never blocks.
func (s *Scheduler) Admit(inst anim.Instance, now time.Time) (InstanceID, bool) {
	if inst == nil || s.live >= len(s.slots) {
		return 0, false
	}
	for i := range s.slots {
		if s.slots[i].live {
			continue
		}
		s.nextID++
		s.slots[i] = slot{id: s.nextID, inst: inst, start: now, live: true}
		s.live++
		return s.nextID, true
	}
	return 0, false
}

// Evict removes the instance with the given ID, if still live.
func (s *Scheduler) Evict(id InstanceID) bool {
	for i := range s.slots {
		if s.slots[i].live && s.slots[i].id == id {
			s.slots[i] = slot{}
			s.live--
			return true
		}
	}
	return false
}

// Tick evicts every instance whose Expired check fires, returning how
// many were removed. Eviction order carries no meaning; instances
// never depend on each other's slot positions.
func (s *Scheduler) Tick(now time.Time) int {
	evicted := 0
	for i := range s.slots {
		if !s.slots[i].live {
			continue
		}
		if s.slots[i].inst.Expired(now.Sub(s.slots[i].start)) {
			s.slots[i] = slot{}
			s.live--
			evicted++
		}
	}
	return evicted
}

// ForEach visits every live instance in slot order.
func (s *Scheduler) ForEach(f func(id InstanceID, inst anim.Instance, start time.Time)) {
	for i := range s.slots {
		if s.slots[i].live {
			f(s.slots[i].id, s.slots[i].inst, s.slots[i].start)
		}
	}
}
