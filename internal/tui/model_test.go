package tui

import (
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/widgets/internal/core/config"
	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/core/notify/notifytest"
	"github.com/colonyops/widgets/pkg/tuitest"
)

type harness struct {
	sched *notifytest.Scheduler
	queue *notify.Queue
	model Model
}

func newHarness(t *testing.T, tbl *datatable.Table, opts Opts) *harness {
	t.Helper()
	sched := notifytest.NewScheduler(time.Unix(0, 0))
	q := notify.New(
		notify.WithScheduler(sched),
		notify.WithIDGenerator(notifytest.SequentialIDs()),
		notify.WithLogger(zerolog.Nop()),
		notify.WithDefaultTimeout(time.Second),
	)
	m := New(Deps{Queue: q, Table: tbl}, opts)
	t.Cleanup(m.Close)
	return &harness{sched: sched, queue: q, model: m}
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	return cmd
}

// sync applies any buffered surface events, the way the program does after
// WaitForSignal fires.
func (h *harness) sync() tea.Cmd {
	return h.send(drainToastsMsg{})
}

func titles(ns []notify.Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Title + n.Message
	}
	return out
}

func peopleTable(n int) *datatable.Table {
	tbl := datatable.New([]datatable.Column{
		{Key: "id", Label: "ID"},
		{Key: "name", Label: "Name"},
		{Key: "actions", Label: "Actions", DisableSort: true},
	}, 5, datatable.WithLogger(zerolog.Nop()))

	records := make([]datatable.Record, n)
	for i := range records {
		records[i] = datatable.Record{"id": i + 1, "name": fmt.Sprintf("person-%02d", i+1)}
	}
	tbl.SetRecords(records)
	return tbl
}

func TestModel_ToastsFollowQueue(t *testing.T) {
	h := newHarness(t, nil, Opts{MaxVisible: 2})

	h.queue.Info("A", "")
	h.queue.Info("B", "")
	h.queue.Info("C", "")
	h.sync()

	assert.Equal(t, []string{"A", "B"}, titles(h.model.Toasts()), "capacity gates the third toast")

	h.sched.Advance(time.Second)
	h.sync()
	assert.Equal(t, []string{"C"}, titles(h.model.Toasts()), "expired toasts leave and the queue drains")
}

func TestModel_DismissKeys(t *testing.T) {
	h := newHarness(t, nil, Opts{})

	h.queue.Enqueue(notify.Request{Title: "keep"})
	h.queue.Enqueue(notify.Request{Title: "newest"})
	h.sync()

	h.send(tuitest.KeyPress('x'))
	h.sync()
	assert.Equal(t, []string{"keep"}, titles(h.model.Toasts()))

	h.send(tuitest.KeyPress('X'))
	h.sync()
	assert.Empty(t, h.model.Toasts())
	assert.Zero(t, h.queue.Len())
}

func TestModel_ExitWhenIdle(t *testing.T) {
	h := newHarness(t, nil, Opts{ExitWhenIdle: true})

	h.queue.Success("Done", "")
	cmd := h.sync()
	require.NotNil(t, cmd)
	assert.NotEqual(t, tea.Quit(), cmd(), "a toast is still visible")

	h.sched.Advance(time.Second)
	cmd = h.sync()
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_SortKeysRaiseToasts(t *testing.T) {
	tbl := peopleTable(12)
	h := newHarness(t, tbl, Opts{})

	h.send(tuitest.KeyEnter())
	h.sync()

	key, sorting := tbl.SortColumn()
	require.True(t, sorting)
	assert.Equal(t, "id", key)
	assert.Equal(t, []string{"Sorted by ID (asc)"}, titles(h.model.Toasts()))

	h.send(tuitest.KeyPress('s'))
	assert.Equal(t, datatable.Descending, tbl.SortDirection())

	h.send(tuitest.KeyRight())
	h.send(tuitest.KeyRight())
	h.send(tuitest.KeyEnter())
	h.sync()

	col, ok := h.model.TableView().Cursor()
	require.True(t, ok)
	assert.Equal(t, "actions", col.Key)
	assert.Contains(t, titles(h.model.Toasts()), "Not sortableActions is display only")
	assert.Equal(t, datatable.Descending, tbl.SortDirection(), "display-only column leaves the sort alone")
}

func TestModel_PagingKeys(t *testing.T) {
	tbl := peopleTable(12)
	h := newHarness(t, tbl, Opts{})

	h.send(tuitest.KeyPress('p'))
	h.sync()
	assert.Equal(t, 1, tbl.CurrentPage())
	assert.Equal(t, []string{"Already on the first page"}, titles(h.model.Toasts()))

	h.send(tuitest.KeyPress('n'))
	assert.Equal(t, 2, tbl.CurrentPage())

	h.send(tuitest.KeyPress('G'))
	assert.Equal(t, 3, tbl.CurrentPage())

	h.send(tuitest.KeyPress('g'))
	assert.Equal(t, 1, tbl.CurrentPage())
}

func TestModel_CursorWraps(t *testing.T) {
	h := newHarness(t, peopleTable(1), Opts{})

	h.send(tuitest.KeyLeft())
	col, _ := h.model.TableView().Cursor()
	assert.Equal(t, "actions", col.Key)
}

func TestModel_TableKeysIgnoredWithoutTable(t *testing.T) {
	h := newHarness(t, nil, Opts{})

	assert.NotPanics(t, func() {
		h.send(tuitest.KeyPress('n'))
		h.send(tuitest.KeyEnter())
	})
	assert.Zero(t, h.queue.Len())
}

func TestModel_View(t *testing.T) {
	tbl := peopleTable(12)
	h := newHarness(t, tbl, Opts{Position: config.PositionTopRight})
	h.send(tuitest.WindowSize(100, 30))

	h.queue.Info("Hello", "from the queue")
	h.sync()

	out := tuitest.StripANSI(h.model.View())
	assert.Contains(t, out, "person-01")
	assert.NotContains(t, out, "person-06")
	assert.Contains(t, out, "Showing 1 to 5 of 12 entries")
	assert.Contains(t, out, "page 1 of 3")
	assert.Contains(t, out, "Hello")
	assert.Contains(t, out, "from the queue")
}

func TestModel_QuitKey(t *testing.T) {
	h := newHarness(t, nil, Opts{})

	cmd := h.send(tuitest.KeyPress('q'))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
