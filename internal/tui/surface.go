package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/widgets/internal/core/notify"
)

type toastOp int

const (
	opDisplay toastOp = iota
	opRemove
)

// toastEvent is one surface call waiting to be applied on the update loop.
type toastEvent struct {
	op           toastOp
	notification notify.Notification
	id           notify.ID
}

type drainToastsMsg struct{}

// ToastSurface is the notify.Surface used by the TUI. Queue callbacks may
// arrive on timer goroutines, so calls are buffered and a coalesced signal
// wakes the bubbletea program, which drains them on its own goroutine.
type ToastSurface struct {
	mu       sync.Mutex
	events   []toastEvent
	signal   chan struct{}
	capacity int
}

var (
	_ notify.Surface = (*ToastSurface)(nil)
	_ notify.Bounded = (*ToastSurface)(nil)
)

// NewToastSurface constructs a surface that shows at most capacity toasts at
// once. capacity <= 0 means unbounded.
func NewToastSurface(capacity int) *ToastSurface {
	return &ToastSurface{
		events:   make([]toastEvent, 0),
		signal:   make(chan struct{}, 1),
		capacity: capacity,
	}
}

// Display implements notify.Surface.
func (s *ToastSurface) Display(n notify.Notification) {
	s.push(toastEvent{op: opDisplay, notification: n, id: n.ID})
}

// Remove implements notify.Surface.
func (s *ToastSurface) Remove(id notify.ID) {
	s.push(toastEvent{op: opRemove, id: id})
}

// Capacity implements notify.Bounded.
func (s *ToastSurface) Capacity() int {
	return s.capacity
}

func (s *ToastSurface) push(ev toastEvent) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered events in arrival order and clears the buffer.
func (s *ToastSurface) Drain() []toastEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.events) == 0 {
		return nil
	}

	out := make([]toastEvent, len(s.events))
	copy(out, s.events)
	s.events = s.events[:0]
	return out
}

// WaitForSignal blocks until there are events ready to drain.
func (s *ToastSurface) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-s.signal
		return drainToastsMsg{}
	}
}
