package notify

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/colonyops/widgets/internal/core/logging"
)

// DefaultTimeout is used by the Info/Success/Warning/Error helpers.
const DefaultTimeout = 4 * time.Second

// Surface renders notifications. Display is called once per notification when
// it becomes visible, Remove once when it leaves the visible set. Both are
// called outside the queue lock and may call back into the queue.
type Surface interface {
	Display(n Notification)
	Remove(id ID)
}

// Bounded is implemented by surfaces that can only show a limited number of
// notifications at once. Capacity is read with the queue locked and must not
// call back into the queue. Values <= 0 mean unbounded.
type Bounded interface {
	Capacity() int
}

type entry struct {
	n       Notification
	timer   Timer
	surface Surface
	// attachment is the Attach generation the entry was displayed under.
	attachment uint64
}

// Queue is the process-wide notification queue. Construct one with New and
// pass it to every component that raises notifications. It is safe for
// concurrent use; timer callbacks and UI callbacks may race freely.
type Queue struct {
	mu             sync.Mutex
	sched          Scheduler
	logger         zerolog.Logger
	defaultTimeout time.Duration
	newID          func() ID
	seq            int64

	pending []Notification
	queued  map[ID]struct{}
	active  []*entry
	index   map[ID]*entry

	surface    Surface
	attachment uint64
	listeners  []Listener

	// outbox holds surface calls and listener callbacks in the order the
	// state changes happened. Only one goroutine runs it at a time.
	outbox   []func()
	flushing bool
}

// Option configures a Queue.
type Option func(*Queue)

// WithScheduler replaces the system timer source.
func WithScheduler(s Scheduler) Option {
	return func(q *Queue) { q.sched = s }
}

// WithDefaultTimeout sets the timeout used by the kind helpers.
func WithDefaultTimeout(d time.Duration) Option {
	return func(q *Queue) {
		if d >= 0 {
			q.defaultTimeout = d
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(q *Queue) { q.logger = l }
}

// WithIDGenerator replaces UUIDv7 identifiers. Generated IDs must be unique.
func WithIDGenerator(fn func() ID) Option {
	return func(q *Queue) { q.newID = fn }
}

// New creates an empty queue with no surface attached.
func New(opts ...Option) *Queue {
	q := &Queue{
		sched:          SystemScheduler{},
		logger:         logging.Component("notify"),
		defaultTimeout: DefaultTimeout,
		newID:          newUUID,
		queued:         make(map[ID]struct{}),
		index:          make(map[ID]*entry),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func newUUID() ID {
	u, err := uuid.NewV7()
	if err != nil {
		u = uuid.New()
	}
	return ID(u.String())
}

// Enqueue accepts a request and returns its ID. The notification is shown
// immediately if a surface is attached and has room, otherwise it waits in
// FIFO order.
func (q *Queue) Enqueue(req Request) ID {
	q.mu.Lock()
	q.seq++
	kind := req.Kind
	if !kind.Valid() {
		kind = KindInfo
	}
	n := Notification{
		ID:        q.newID(),
		Seq:       q.seq,
		Kind:      kind,
		Title:     req.Title,
		Message:   req.Message,
		Timeout:   max(req.Timeout, 0),
		CreatedAt: q.sched.Now(),
	}
	q.pending = append(q.pending, n)
	q.queued[n.ID] = struct{}{}
	q.logger.Debug().
		Str("id", string(n.ID)).
		Str("kind", string(n.Kind)).
		Dur("timeout", n.Timeout).
		Msg("notification enqueued")
	q.emitLocked(Event{Type: EventEnqueued, Notification: n})
	q.drainLocked()
	q.mu.Unlock()

	q.flush()
	return n.ID
}

// Dismiss removes the notification wherever it is. Unknown or already removed
// IDs are ignored.
func (q *Queue) Dismiss(id ID) {
	q.remove(id, ReasonDismissed)
}

func (q *Queue) expire(id ID) {
	q.remove(id, ReasonExpired)
}

func (q *Queue) remove(id ID, reason Reason) {
	q.mu.Lock()
	if q.removeLocked(id, reason) {
		q.drainLocked()
	}
	q.mu.Unlock()

	q.flush()
}

// Clear dismisses every visible and pending notification.
func (q *Queue) Clear() {
	q.mu.Lock()
	ids := make([]ID, 0, len(q.active)+len(q.pending))
	for _, e := range q.active {
		ids = append(ids, e.n.ID)
	}
	for _, n := range q.pending {
		ids = append(ids, n.ID)
	}
	for _, id := range ids {
		q.removeLocked(id, ReasonCleared)
	}
	if len(ids) > 0 {
		q.logger.Debug().Int("count", len(ids)).Msg("notifications cleared")
	}
	q.mu.Unlock()

	q.flush()
}

// Attach connects a rendering surface and shows as many pending notifications
// as it accepts. A previously attached surface is replaced.
func (q *Queue) Attach(s Surface) {
	q.mu.Lock()
	q.surface = s
	q.attachment++
	q.drainLocked()
	q.mu.Unlock()

	q.flush()
}

// Detach disconnects the current surface. Visible notifications keep their
// timers; new requests wait until a surface attaches again.
func (q *Queue) Detach() {
	q.mu.Lock()
	q.surface = nil
	q.mu.Unlock()
}

// Attached reports whether a surface is connected.
func (q *Queue) Attached() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.surface != nil
}

// Subscribe registers a listener for every subsequent transition.
func (q *Queue) Subscribe(l Listener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listeners = append(q.listeners, l)
}

// Pending returns the queued notifications in FIFO order.
func (q *Queue) Pending() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return slices.Clone(q.pending)
}

// Active returns the visible notifications in display order.
func (q *Queue) Active() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.active))
	for i, e := range q.active {
		out[i] = e.n
	}
	return out
}

// State returns the lifecycle state of id. Unknown IDs report StateRemoved.
func (q *Queue) State(id ID) State {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.index[id]; ok {
		return StateVisible
	}
	if _, ok := q.queued[id]; ok {
		return StateQueued
	}
	return StateRemoved
}

// Len returns the number of tracked notifications, pending and visible.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) + len(q.active)
}

// Info enqueues an info notification with the default timeout.
func (q *Queue) Info(title, message string) ID {
	return q.Enqueue(Request{Kind: KindInfo, Title: title, Message: message, Timeout: q.defaultTimeout})
}

// Success enqueues a success notification with the default timeout.
func (q *Queue) Success(title, message string) ID {
	return q.Enqueue(Request{Kind: KindSuccess, Title: title, Message: message, Timeout: q.defaultTimeout})
}

// Warning enqueues a warning notification with the default timeout.
func (q *Queue) Warning(title, message string) ID {
	return q.Enqueue(Request{Kind: KindWarning, Title: title, Message: message, Timeout: q.defaultTimeout})
}

// Error enqueues an error notification with the default timeout.
func (q *Queue) Error(title, message string) ID {
	return q.Enqueue(Request{Kind: KindError, Title: title, Message: message, Timeout: q.defaultTimeout})
}

// Infof enqueues a formatted info message.
func (q *Queue) Infof(format string, args ...any) ID {
	return q.Info("", fmt.Sprintf(format, args...))
}

// Successf enqueues a formatted success message.
func (q *Queue) Successf(format string, args ...any) ID {
	return q.Success("", fmt.Sprintf(format, args...))
}

// Warnf enqueues a formatted warning message.
func (q *Queue) Warnf(format string, args ...any) ID {
	return q.Warning("", fmt.Sprintf(format, args...))
}

// Errorf enqueues a formatted error message.
func (q *Queue) Errorf(format string, args ...any) ID {
	return q.Error("", fmt.Sprintf(format, args...))
}

// full reports whether the attached surface is at capacity. Only entries
// displayed on the current attachment take up its slots.
func (q *Queue) full() bool {
	b, ok := q.surface.(Bounded)
	if !ok {
		return false
	}
	c := b.Capacity()
	if c <= 0 {
		return false
	}
	shown := 0
	for _, e := range q.active {
		if e.attachment == q.attachment {
			shown++
		}
	}
	return shown >= c
}

// drainLocked moves pending notifications to the surface until it is full.
func (q *Queue) drainLocked() {
	for q.surface != nil && len(q.pending) > 0 && !q.full() {
		n := q.pending[0]
		q.pending[0] = Notification{}
		q.pending = q.pending[1:]
		delete(q.queued, n.ID)

		s := q.surface
		e := &entry{n: n, surface: s, attachment: q.attachment}
		q.active = append(q.active, e)
		q.index[n.ID] = e

		q.outbox = append(q.outbox, func() { s.Display(n) })
		q.emitLocked(Event{Type: EventDisplayed, Notification: n})

		if n.Timeout > 0 {
			id := n.ID
			e.timer = q.sched.AfterFunc(n.Timeout, func() { q.expire(id) })
		}
	}
}

func (q *Queue) removeLocked(id ID, reason Reason) bool {
	if e, ok := q.index[id]; ok {
		delete(q.index, id)
		q.active = slices.DeleteFunc(q.active, func(x *entry) bool { return x == e })
		if e.timer != nil {
			e.timer.Stop()
		}
		if s := e.surface; s != nil {
			q.outbox = append(q.outbox, func() { s.Remove(id) })
		}
		q.logger.Debug().Str("id", string(id)).Str("reason", string(reason)).Msg("notification removed")
		q.emitLocked(Event{Type: EventRemoved, Notification: e.n, Reason: reason, WasVisible: true})
		return true
	}

	if _, ok := q.queued[id]; ok {
		delete(q.queued, id)
		idx := slices.IndexFunc(q.pending, func(n Notification) bool { return n.ID == id })
		n := q.pending[idx]
		q.pending = slices.Delete(q.pending, idx, idx+1)
		q.logger.Debug().Str("id", string(id)).Str("reason", string(reason)).Msg("pending notification dropped")
		q.emitLocked(Event{Type: EventRemoved, Notification: n, Reason: reason})
		return true
	}

	return false
}

func (q *Queue) emitLocked(ev Event) {
	if len(q.listeners) == 0 {
		return
	}
	ls := slices.Clone(q.listeners)
	q.outbox = append(q.outbox, func() {
		for _, l := range ls {
			l(ev)
		}
	})
}

// flush runs queued effects outside the lock. A caller that finds another
// goroutine (or an outer frame of itself) already flushing returns at once;
// the active flusher picks up the new effects in order.
func (q *Queue) flush() {
	q.mu.Lock()
	if q.flushing {
		q.mu.Unlock()
		return
	}
	q.flushing = true
	for len(q.outbox) > 0 {
		fn := q.outbox[0]
		q.outbox[0] = nil
		q.outbox = q.outbox[1:]
		q.mu.Unlock()
		q.run(fn)
		q.mu.Lock()
	}
	q.flushing = false
	q.mu.Unlock()
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error().Interface("panic", r).Msg("notification callback panicked")
		}
	}()
	fn()
}
