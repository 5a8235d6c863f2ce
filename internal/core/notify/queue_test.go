package notify_test

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/core/notify/notifytest"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestQueue(t *testing.T) (*notify.Queue, *notifytest.Scheduler) {
	t.Helper()
	sched := notifytest.NewScheduler(epoch)
	q := notify.New(
		notify.WithScheduler(sched),
		notify.WithLogger(zerolog.Nop()),
		notify.WithIDGenerator(notifytest.SequentialIDs()),
	)
	return q, sched
}

func TestQueue_Enqueue_withoutSurface_staysPending(t *testing.T) {
	q, _ := newTestQueue(t)

	id := q.Enqueue(notify.Request{Title: "a"})

	assert.NotEmpty(t, id)
	assert.Equal(t, notify.StateQueued, q.State(id))
	require.Len(t, q.Pending(), 1)
	assert.Empty(t, q.Active())
}

func TestQueue_FIFO_displayOrder(t *testing.T) {
	q, _ := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	for _, title := range []string{"a", "b", "c", "d"} {
		q.Enqueue(notify.Request{Title: title})
	}

	assert.Equal(t, []string{"a", "b", "c", "d"}, surface.DisplayedTitles())
}

func TestQueue_FIFO_whenSurfaceAttachesLate(t *testing.T) {
	q, _ := newTestQueue(t)

	q.Enqueue(notify.Request{Title: "a"})
	q.Enqueue(notify.Request{Title: "b"})
	q.Enqueue(notify.Request{Title: "c"})

	surface := notifytest.NewSurface()
	q.Attach(surface)

	assert.Equal(t, []string{"a", "b", "c"}, surface.DisplayedTitles())
	assert.Empty(t, q.Pending())
	assert.Len(t, q.Active(), 3)
}

func TestQueue_Enqueue_assignsSequenceAndTimestamp(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	q.Enqueue(notify.Request{Title: "a"})
	sched.Advance(time.Second)
	q.Enqueue(notify.Request{Title: "b", Kind: "bogus", Timeout: -time.Second})

	got := surface.Displayed()
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, int64(2), got[1].Seq)
	assert.Equal(t, epoch, got[0].CreatedAt)
	assert.Equal(t, epoch.Add(time.Second), got[1].CreatedAt)
	assert.Equal(t, notify.KindInfo, got[1].Kind, "unknown kinds fall back to info")
	assert.Equal(t, time.Duration(0), got[1].Timeout, "negative timeouts are normalized")
	assert.True(t, got[1].Persistent())
}

func TestQueue_Dismiss_idempotent(t *testing.T) {
	q, _ := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	id := q.Enqueue(notify.Request{Title: "a"})
	keep := q.Enqueue(notify.Request{Title: "b"})

	q.Dismiss(id)
	q.Dismiss(id)
	q.Dismiss("unknown")

	assert.Equal(t, notify.StateRemoved, q.State(id))
	assert.Equal(t, []notify.ID{id}, surface.Removed(), "surface is told exactly once")
	assert.Equal(t, []notify.ID{keep}, surface.Visible())
}

func TestQueue_Dismiss_pendingNotification(t *testing.T) {
	q, _ := newTestQueue(t)

	a := q.Enqueue(notify.Request{Title: "a"})
	b := q.Enqueue(notify.Request{Title: "b"})
	c := q.Enqueue(notify.Request{Title: "c"})

	q.Dismiss(b)

	surface := notifytest.NewSurface()
	q.Attach(surface)

	assert.Equal(t, []string{"a", "c"}, surface.DisplayedTitles())
	assert.Equal(t, notify.StateVisible, q.State(a))
	assert.Equal(t, notify.StateRemoved, q.State(b))
	assert.Equal(t, notify.StateVisible, q.State(c))
	assert.Empty(t, surface.Removed(), "pending removals never reach the surface")
}

func TestQueue_AutoDismiss_timing(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	id := q.Enqueue(notify.Request{Title: "a", Timeout: 100 * time.Millisecond})

	sched.Advance(99 * time.Millisecond)
	assert.Equal(t, notify.StateVisible, q.State(id), "must not expire early")

	sched.Advance(1 * time.Millisecond)
	assert.Equal(t, notify.StateRemoved, q.State(id))
	assert.Equal(t, []notify.ID{id}, surface.Removed())
}

func TestQueue_AutoDismiss_afterExplicitDismiss_isNoop(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	id := q.Enqueue(notify.Request{Title: "a", Timeout: time.Second})
	q.Dismiss(id)
	assert.Equal(t, 0, sched.Scheduled(), "explicit dismiss cancels the timer")

	sched.Advance(2 * time.Second)
	assert.Equal(t, []notify.ID{id}, surface.Removed())
}

func TestQueue_Dismiss_afterTimerFired_isNoop(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	id := q.Enqueue(notify.Request{Title: "a", Timeout: time.Second})
	sched.Advance(time.Second)
	q.Dismiss(id)

	assert.Equal(t, []notify.ID{id}, surface.Removed())
	assert.Equal(t, 0, q.Len())
}

func TestQueue_Persistent_neverExpires(t *testing.T) {
	q, sched := newTestQueue(t)
	q.Attach(notifytest.NewSurface())

	id := q.Enqueue(notify.Request{Title: "sticky"})
	sched.Advance(time.Hour)

	assert.Equal(t, notify.StateVisible, q.State(id))
	assert.Equal(t, 0, sched.Scheduled())
}

func TestQueue_Clear(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewBoundedSurface(1)
	q.Attach(surface)

	a := q.Enqueue(notify.Request{Title: "a", Timeout: time.Second})
	b := q.Enqueue(notify.Request{Title: "b"})

	q.Clear()

	assert.Equal(t, 0, q.Len())
	assert.Equal(t, notify.StateRemoved, q.State(a))
	assert.Equal(t, notify.StateRemoved, q.State(b))
	assert.Equal(t, []string{"a"}, surface.DisplayedTitles(), "pending notifications are dropped, not shown")
	assert.Equal(t, 0, sched.Scheduled())

	q.Clear()
	assert.Equal(t, 0, q.Len())
}

func TestQueue_BoundedSurface_gatesDrain(t *testing.T) {
	q, _ := newTestQueue(t)
	surface := notifytest.NewBoundedSurface(2)
	q.Attach(surface)

	a := q.Enqueue(notify.Request{Title: "a"})
	q.Enqueue(notify.Request{Title: "b"})
	q.Enqueue(notify.Request{Title: "c"})

	assert.Equal(t, []string{"a", "b"}, surface.DisplayedTitles())
	require.Len(t, q.Pending(), 1)

	q.Dismiss(a)
	assert.Equal(t, []string{"a", "b", "c"}, surface.DisplayedTitles())
	assert.Empty(t, q.Pending())
}

func TestQueue_Detach_accumulatesUntilReattach(t *testing.T) {
	q, sched := newTestQueue(t)
	first := notifytest.NewSurface()
	q.Attach(first)

	a := q.Enqueue(notify.Request{Title: "a", Timeout: time.Second})
	q.Detach()
	assert.False(t, q.Attached())

	q.Enqueue(notify.Request{Title: "b"})
	assert.Len(t, q.Pending(), 1)

	sched.Advance(time.Second)
	assert.Equal(t, notify.StateRemoved, q.State(a), "timers keep running while detached")
	assert.Equal(t, []notify.ID{a}, first.Removed(), "the displaying surface learns of the removal")

	second := notifytest.NewSurface()
	q.Attach(second)
	assert.Equal(t, []string{"b"}, second.DisplayedTitles())
	assert.Equal(t, []string{"a"}, first.DisplayedTitles())
}

func TestQueue_Reattach_boundedSurfaceGetsFreshSlots(t *testing.T) {
	q, _ := newTestQueue(t)
	first := notifytest.NewBoundedSurface(1)
	q.Attach(first)

	a := q.Enqueue(notify.Request{Title: "a"})
	q.Detach()

	second := notifytest.NewBoundedSurface(1)
	q.Attach(second)
	b := q.Enqueue(notify.Request{Title: "b"})

	assert.Equal(t, []string{"b"}, second.DisplayedTitles(), "toasts left on the old surface do not use the new one's slots")
	assert.Empty(t, q.Pending())
	assert.Equal(t, notify.StateVisible, q.State(a))

	q.Enqueue(notify.Request{Title: "c"})
	assert.Len(t, q.Pending(), 1, "the new surface is full")

	q.Dismiss(a)
	assert.Equal(t, []notify.ID{a}, first.Removed())
	assert.Empty(t, second.Removed())
	assert.Len(t, q.Pending(), 1, "freeing an old slot does not free a new one")

	q.Dismiss(b)
	assert.Equal(t, []string{"b", "c"}, second.DisplayedTitles())
}

func TestQueue_ReentrantDismissFromDisplay(t *testing.T) {
	q, _ := newTestQueue(t)
	surface := notifytest.NewSurface()
	surface.OnDisplay = func(n notify.Notification) {
		if n.Title == "self-dismiss" {
			q.Dismiss(n.ID)
		}
	}
	q.Attach(surface)

	id := q.Enqueue(notify.Request{Title: "self-dismiss"})
	q.Enqueue(notify.Request{Title: "next"})

	assert.Equal(t, notify.StateRemoved, q.State(id))
	assert.Equal(t, []string{"self-dismiss", "next"}, surface.DisplayedTitles())
	assert.Equal(t, []notify.ID{id}, surface.Removed())
}

func TestQueue_Listeners_receiveOrderedEvents(t *testing.T) {
	q, sched := newTestQueue(t)

	var (
		mu     sync.Mutex
		events []string
	)
	q.Subscribe(func(ev notify.Event) {
		mu.Lock()
		defer mu.Unlock()
		entry := ev.Type.String() + ":" + ev.Notification.Title
		if ev.Reason != notify.ReasonNone {
			entry += ":" + string(ev.Reason)
		}
		events = append(events, entry)
	})

	q.Attach(notifytest.NewSurface())
	q.Enqueue(notify.Request{Title: "a", Timeout: time.Second})
	b := q.Enqueue(notify.Request{Title: "b"})
	q.Dismiss(b)
	sched.Advance(time.Second)
	q.Enqueue(notify.Request{Title: "c"})
	q.Clear()

	assert.Equal(t, []string{
		"enqueued:a",
		"displayed:a",
		"enqueued:b",
		"displayed:b",
		"removed:b:dismissed",
		"removed:a:expired",
		"enqueued:c",
		"displayed:c",
		"removed:c:cleared",
	}, events)
}

func TestQueue_KindHelpers_useDefaultTimeout(t *testing.T) {
	sched := notifytest.NewScheduler(epoch)
	q := notify.New(
		notify.WithScheduler(sched),
		notify.WithLogger(zerolog.Nop()),
		notify.WithDefaultTimeout(250*time.Millisecond),
	)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	q.Success("Saved", "profile updated")
	q.Warning("Careful", "")
	q.Error("", "broken")
	q.Infof("%d items", 3)

	got := surface.Displayed()
	require.Len(t, got, 4)
	assert.Equal(t, notify.KindSuccess, got[0].Kind)
	assert.Equal(t, notify.KindWarning, got[1].Kind)
	assert.Equal(t, notify.KindError, got[2].Kind)
	assert.Equal(t, notify.KindInfo, got[3].Kind)
	assert.Equal(t, "3 items", got[3].Message)
	for _, n := range got {
		assert.Equal(t, 250*time.Millisecond, n.Timeout)
	}

	sched.Advance(250 * time.Millisecond)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DefaultIDs_areUnique(t *testing.T) {
	q := notify.New(notify.WithLogger(zerolog.Nop()))

	seen := make(map[notify.ID]bool)
	for range 100 {
		id := q.Enqueue(notify.Request{Title: "x"})
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	assert.Equal(t, 100, q.Len())
}

func TestQueue_ConcurrentDismissAndExpire(t *testing.T) {
	q := notify.New(notify.WithLogger(zerolog.Nop()))
	surface := notifytest.NewSurface()
	q.Attach(surface)

	ids := make([]notify.ID, 50)
	for i := range ids {
		ids[i] = q.Enqueue(notify.Request{Title: "x", Timeout: time.Millisecond})
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id notify.ID) {
			defer wg.Done()
			q.Dismiss(id)
		}(id)
	}
	wg.Wait()
	time.Sleep(10 * time.Millisecond)

	assert.Equal(t, 0, q.Len())
	assert.Len(t, surface.Removed(), len(ids), "each notification is removed exactly once")
}

// End-to-end: A, B, C with timeouts 0, 100ms, 0.
func TestQueue_Scenario_mixedTimeouts(t *testing.T) {
	q, sched := newTestQueue(t)
	surface := notifytest.NewSurface()
	q.Attach(surface)

	a := q.Enqueue(notify.Request{Title: "A"})
	b := q.Enqueue(notify.Request{Title: "B", Timeout: 100 * time.Millisecond})
	c := q.Enqueue(notify.Request{Title: "C"})

	assert.Equal(t, []string{"A", "B", "C"}, surface.DisplayedTitles())

	sched.Advance(100 * time.Millisecond)

	assert.Equal(t, notify.StateVisible, q.State(a))
	assert.Equal(t, notify.StateRemoved, q.State(b))
	assert.Equal(t, notify.StateVisible, q.State(c))

	q.Dismiss(a)
	q.Dismiss(c)
	assert.Equal(t, []notify.ID{b, a, c}, surface.Removed())
	assert.Equal(t, 0, q.Len())
}
