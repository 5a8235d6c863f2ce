package notify

// EventType identifies a lifecycle transition.
type EventType int

const (
	EventEnqueued EventType = iota + 1
	EventDisplayed
	EventRemoved
)

func (t EventType) String() string {
	switch t {
	case EventEnqueued:
		return "enqueued"
	case EventDisplayed:
		return "displayed"
	case EventRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// Reason explains why a notification was removed.
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonDismissed Reason = "dismissed"
	ReasonExpired   Reason = "expired"
	ReasonCleared   Reason = "cleared"
)

// Event is delivered to listeners after every transition.
type Event struct {
	Type         EventType
	Notification Notification
	// Reason is set for EventRemoved only.
	Reason Reason
	// WasVisible is set for EventRemoved when the notification left the
	// active set rather than the pending queue.
	WasVisible bool
}

// Listener observes queue transitions. Listeners run outside the queue lock
// and may call back into the queue.
type Listener func(Event)
