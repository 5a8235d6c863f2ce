package tui

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/widgets/internal/core/notify"
)

func TestToastSurface_Drain_empty_returnsNil(t *testing.T) {
	s := NewToastSurface(3)
	assert.Nil(t, s.Drain())
	assert.Equal(t, 3, s.Capacity())
}

func TestToastSurface_DisplayRemove_orderAndClear(t *testing.T) {
	s := NewToastSurface(0)
	s.Display(notify.Notification{ID: "a", Title: "first"})
	s.Remove("a")
	s.Display(notify.Notification{ID: "b", Title: "second"})

	events := s.Drain()
	require.Len(t, events, 3)
	assert.Equal(t, opDisplay, events[0].op)
	assert.Equal(t, "first", events[0].notification.Title)
	assert.Equal(t, opRemove, events[1].op)
	assert.Equal(t, notify.ID("a"), events[1].id)
	assert.Equal(t, notify.ID("b"), events[2].id)
	assert.Nil(t, s.Drain())
}

func TestToastSurface_WaitForSignal_singleSignalDrainsAll(t *testing.T) {
	s := NewToastSurface(0)
	s.Display(notify.Notification{ID: "one"})
	s.Display(notify.Notification{ID: "two"})

	msg := s.WaitForSignal()()
	_, ok := msg.(drainToastsMsg)
	require.True(t, ok)

	assert.Len(t, s.Drain(), 2)
}

func TestToastSurface_ConcurrentDisplay_noLoss(t *testing.T) {
	s := NewToastSurface(0)
	const count = 200

	var wg sync.WaitGroup
	for i := range count {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Display(notify.Notification{ID: notify.ID(fmt.Sprint(i))})
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.Drain(), count)
}
