// Package notifytest provides a manual clock and a recording surface for
// exercising notify.Queue without real timers.
package notifytest

import (
	"strconv"
	"sync"
	"time"

	"github.com/colonyops/widgets/internal/core/notify"
)

// Scheduler is a notify.Scheduler driven by Advance. Callbacks run on the
// goroutine calling Advance, in deadline order, ties in scheduling order.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*timer
}

type timer struct {
	s       *Scheduler
	at      time.Time
	seq     int
	fn      func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

// NewScheduler returns a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) notify.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	t := &timer{s: s, at: s.now.Add(d), seq: s.seq, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now.Add(d)
	s.mu.Unlock()

	for {
		s.mu.Lock()
		next := s.nextDue(target)
		if next == nil {
			s.now = target
			s.mu.Unlock()
			return
		}
		s.now = next.at
		next.fired = true
		s.mu.Unlock()

		next.fn()
	}
}

func (s *Scheduler) nextDue(target time.Time) *timer {
	var best *timer
	live := s.timers[:0]
	for _, t := range s.timers {
		if t.fired || t.stopped {
			continue
		}
		live = append(live, t)
		if t.at.After(target) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	s.timers = live
	return best
}

// Scheduled returns the number of timers that have neither fired nor stopped.
func (s *Scheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

// Surface records Display and Remove calls.
type Surface struct {
	mu        sync.Mutex
	displayed []notify.Notification
	removed   []notify.ID
	visible   []notify.ID
	capacity  int

	// OnDisplay runs after a notification is recorded, outside the lock.
	OnDisplay func(n notify.Notification)
}

// NewSurface returns an unbounded recording surface.
func NewSurface() *Surface {
	return &Surface{}
}

// NewBoundedSurface returns a recording surface that accepts at most capacity
// visible notifications.
func NewBoundedSurface(capacity int) *BoundedSurface {
	return &BoundedSurface{Surface: &Surface{capacity: capacity}}
}

func (s *Surface) Display(n notify.Notification) {
	s.mu.Lock()
	s.displayed = append(s.displayed, n)
	s.visible = append(s.visible, n.ID)
	hook := s.OnDisplay
	s.mu.Unlock()

	if hook != nil {
		hook(n)
	}
}

func (s *Surface) Remove(id notify.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, id)
	for i, v := range s.visible {
		if v == id {
			s.visible = append(s.visible[:i], s.visible[i+1:]...)
			break
		}
	}
}

// Displayed returns every displayed notification in call order.
func (s *Surface) Displayed() []notify.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.Notification(nil), s.displayed...)
}

// DisplayedTitles returns the titles of displayed notifications in call order.
func (s *Surface) DisplayedTitles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.displayed))
	for i, n := range s.displayed {
		out[i] = n.Title
	}
	return out
}

// Removed returns removed IDs in call order.
func (s *Surface) Removed() []notify.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.ID(nil), s.removed...)
}

// Visible returns the IDs currently shown on the surface.
func (s *Surface) Visible() []notify.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]notify.ID(nil), s.visible...)
}

// BoundedSurface is a recording surface that implements notify.Bounded.
type BoundedSurface struct {
	*Surface
}

func (b *BoundedSurface) Capacity() int {
	return b.capacity
}

// SequentialIDs returns a generator producing "n-1", "n-2", ...
func SequentialIDs() func() notify.ID {
	var mu sync.Mutex
	n := 0
	return func() notify.ID {
		mu.Lock()
		defer mu.Unlock()
		n++
		return notify.ID("n-" + strconv.Itoa(n))
	}
}
