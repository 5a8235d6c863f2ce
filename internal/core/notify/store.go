package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store persists notification history.
type Store interface {
	Save(ctx context.Context, n Notification) error
	List(ctx context.Context) ([]Notification, error)
	Clear(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

const recordTimeout = 2 * time.Second

// Recorder writes every enqueued notification to a Store. Saves run on a
// background goroutine in enqueue order, so a slow store never holds up the
// caller that raised the notification. Call Close to finish pending writes.
type Recorder struct {
	store  Store
	logger zerolog.Logger

	mu      sync.Mutex
	cond    *sync.Cond
	buf     []Notification
	pending int
	closed  bool
	done    chan struct{}
}

// NewRecorder creates a recorder backed by store and starts its writer.
func NewRecorder(store Store, logger zerolog.Logger) *Recorder {
	r := &Recorder{
		store:  store,
		logger: logger,
		done:   make(chan struct{}),
	}
	r.cond = sync.NewCond(&r.mu)
	go r.run()
	return r
}

// Attach subscribes the recorder to q.
func (r *Recorder) Attach(q *Queue) {
	q.Subscribe(r.Observe)
}

// Observe handles a single queue event. It only buffers the notification;
// store failures are logged by the writer and never reach the caller.
func (r *Recorder) Observe(ev Event) {
	if ev.Type != EventEnqueued || r.store == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		r.logger.Warn().Str("id", string(ev.Notification.ID)).Msg("recorder closed, notification not persisted")
		return
	}
	r.buf = append(r.buf, ev.Notification)
	r.pending++
	r.cond.Broadcast()
}

// Sync blocks until every notification observed so far has been written.
func (r *Recorder) Sync() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for r.pending > 0 {
		r.cond.Wait()
	}
}

// Close writes the remaining notifications and stops the writer. Later
// events are dropped. Close is safe to call more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.cond.Broadcast()
	r.mu.Unlock()

	<-r.done
}

func (r *Recorder) run() {
	defer close(r.done)

	for {
		r.mu.Lock()
		for len(r.buf) == 0 && !r.closed {
			r.cond.Wait()
		}
		if len(r.buf) == 0 {
			r.mu.Unlock()
			return
		}
		batch := r.buf
		r.buf = nil
		r.mu.Unlock()

		for _, n := range batch {
			r.save(n)
		}

		r.mu.Lock()
		r.pending -= len(batch)
		r.cond.Broadcast()
		r.mu.Unlock()
	}
}

func (r *Recorder) save(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	if err := r.store.Save(ctx, n); err != nil {
		r.logger.Error().
			Err(err).
			Str("id", string(n.ID)).
			Msg("failed to persist notification")
	}
}
