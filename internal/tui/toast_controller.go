package tui

import (
	"slices"

	"github.com/colonyops/widgets/internal/core/notify"
)

// ToastController mirrors the queue's active set on the update loop. It
// never decides lifetimes itself; Display and Remove events from the queue
// are the only way toasts come and go.
type ToastController struct {
	toasts []notify.Notification
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Apply replays buffered surface events in order.
func (c *ToastController) Apply(events []toastEvent) {
	for _, ev := range events {
		switch ev.op {
		case opDisplay:
			if c.index(ev.id) < 0 {
				c.toasts = append(c.toasts, ev.notification)
			}
		case opRemove:
			if i := c.index(ev.id); i >= 0 {
				c.toasts = slices.Delete(c.toasts, i, i+1)
			}
		}
	}
}

// Newest returns the most recently displayed toast.
func (c *ToastController) Newest() (notify.ID, bool) {
	if len(c.toasts) == 0 {
		return "", false
	}
	return c.toasts[len(c.toasts)-1].ID, true
}

// HasToasts returns true if there are any visible toasts.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the visible toasts, oldest first.
func (c *ToastController) Toasts() []notify.Notification {
	return c.toasts
}

func (c *ToastController) index(id notify.ID) int {
	return slices.IndexFunc(c.toasts, func(n notify.Notification) bool { return n.ID == id })
}
