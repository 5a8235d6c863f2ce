// Package notify implements the notification queue behind toasts: requests are
// queued, shown one at a time through an attached Surface, and retired on
// timeout or explicit dismissal.
package notify

import (
	"fmt"
	"time"
)

// Kind is the presentational variant of a notification.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Kinds returns every supported kind in display priority order.
func Kinds() []Kind {
	return []Kind{KindInfo, KindSuccess, KindWarning, KindError}
}

// ParseKind converts s to a Kind. An empty string maps to KindInfo.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindInfo, nil
	}
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown notification kind %q", s)
}

// Valid reports whether k is one of the supported kinds.
func (k Kind) Valid() bool {
	_, err := ParseKind(string(k))
	return err == nil && k != ""
}

// ID uniquely identifies a notification within a queue.
type ID string

// State is the lifecycle position of a notification. Transitions only move
// forward: queued, visible, removed.
type State int

const (
	StateRemoved State = iota
	StateQueued
	StateVisible
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateVisible:
		return "visible"
	default:
		return "removed"
	}
}

// Request describes a notification to enqueue.
type Request struct {
	Kind    Kind
	Title   string
	Message string
	// Timeout is how long the notification stays visible. Zero keeps it until
	// it is dismissed explicitly.
	Timeout time.Duration
}

// Notification is a request accepted by a Queue.
type Notification struct {
	ID        ID
	Seq       int64
	Kind      Kind
	Title     string
	Message   string
	Timeout   time.Duration
	CreatedAt time.Time
}

// Persistent reports whether the notification waits for an explicit dismissal.
func (n Notification) Persistent() bool {
	return n.Timeout <= 0
}

// Text joins title and message for single-line renderers.
func (n Notification) Text() string {
	switch {
	case n.Title == "":
		return n.Message
	case n.Message == "":
		return n.Title
	default:
		return n.Title + ": " + n.Message
	}
}
