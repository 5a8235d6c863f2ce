// Package tui implements the interactive terminal front end: a data table
// with keyboard sorting and paging, and a toast stack fed by notify.Queue.
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/colonyops/widgets/internal/core/config"
	"github.com/colonyops/widgets/internal/core/datatable"
	"github.com/colonyops/widgets/internal/core/logging"
	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/core/styles"
)

// Deps are the collaborators the model drives.
type Deps struct {
	Queue *notify.Queue
	// Table is optional; without it the model only shows toasts.
	Table *datatable.Table
}

// Opts tune presentation and lifetime.
type Opts struct {
	Position   config.Position
	MaxVisible int
	PageWindow int
	// ExitWhenIdle quits once no toast is visible or pending.
	ExitWhenIdle bool
}

// Model is the root bubbletea model.
type Model struct {
	queue     *notify.Queue
	surface   *ToastSurface
	toasts    *ToastController
	toastView *ToastView
	table     *TableView

	keys   KeyMap
	help   help.Model
	logger zerolog.Logger

	width  int
	height int

	exitWhenIdle bool
}

// New builds the model and attaches its toast surface to the queue. Call
// Close after the program exits to detach it.
func New(deps Deps, opts Opts) Model {
	surface := NewToastSurface(opts.MaxVisible)
	controller := NewToastController()

	m := Model{
		queue:        deps.Queue,
		surface:      surface,
		toasts:       controller,
		toastView:    NewToastView(controller, opts.Position),
		keys:         DefaultKeyMap(deps.Table != nil),
		help:         help.New(),
		logger:       logging.Component("tui"),
		exitWhenIdle: opts.ExitWhenIdle,
	}
	if deps.Table != nil {
		m.table = NewTableView(deps.Table, opts.PageWindow)
	}

	deps.Queue.Attach(surface)
	return m
}

// Close detaches the toast surface from the queue.
func (m Model) Close() {
	m.queue.Detach()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.surface.WaitForSignal()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case drainToastsMsg:
		m.toasts.Apply(m.surface.Drain())
		if m.idle() {
			m.logger.Debug().Msg("no toasts left, exiting")
			return m, tea.Quit
		}
		return m, m.surface.WaitForSignal()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) idle() bool {
	return m.exitWhenIdle && !m.toasts.HasToasts() && m.queue.Len() == 0
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Dismiss):
		if id, ok := m.toasts.Newest(); ok {
			m.queue.Dismiss(id)
		}
	case key.Matches(msg, m.keys.DismissAll):
		m.queue.Clear()
	case key.Matches(msg, m.keys.Left):
		m.table.MoveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.table.MoveCursor(1)
	case key.Matches(msg, m.keys.Sort):
		m.sortSelected()
	case key.Matches(msg, m.keys.NextPage):
		if !m.table.Table().HasNext() {
			m.queue.Warning("", "Already on the last page")
			break
		}
		m.table.Table().NextPage()
	case key.Matches(msg, m.keys.PrevPage):
		if !m.table.Table().HasPrev() {
			m.queue.Warning("", "Already on the first page")
			break
		}
		m.table.Table().PrevPage()
	case key.Matches(msg, m.keys.FirstPage):
		m.table.Table().GoToPage(1)
	case key.Matches(msg, m.keys.LastPage):
		m.table.Table().GoToPage(m.table.Table().TotalPages())
	}
	return m, nil
}

func (m Model) sortSelected() {
	col, ok := m.table.SortSelected()
	if !ok {
		m.queue.Warning("Not sortable", col.Title()+" is display only")
		return
	}
	m.queue.Infof("Sorted by %s (%s)", col.Title(), m.table.Table().SortDirection())
}

// View implements tea.Model.
func (m Model) View() string {
	if m.table == nil {
		toasts := m.toastView.View()
		if toasts == "" {
			return ""
		}
		return toasts + "\n" + styles.HelpStyle.Render(m.help.View(m.keys))
	}

	var b strings.Builder
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render(m.help.View(m.keys)))
	body := b.String()

	width, height := m.width, m.height
	if width == 0 {
		width = lipgloss.Width(body)
	}
	if height == 0 {
		height = lipgloss.Height(body)
	}
	return m.toastView.Overlay(body, width, height)
}

// Toasts returns the toasts currently on screen, oldest first.
func (m Model) Toasts() []notify.Notification {
	return m.toasts.Toasts()
}

// TableView returns the table view, or nil in toast-only mode.
func (m Model) TableView() *TableView {
	return m.table
}
