package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/colonyops/widgets/internal/core/config"
	"github.com/colonyops/widgets/internal/core/notify"
	"github.com/colonyops/widgets/internal/core/styles"
)

// ToastView renders the toast stack and composites it over other content.
type ToastView struct {
	controller *ToastController
	position   config.Position
}

func NewToastView(controller *ToastController, position config.Position) *ToastView {
	if !position.IsValid() {
		position = config.PositionBottomRight
	}
	return &ToastView{controller: controller, position: position}
}

// View renders the toast stack. Newest toasts sit closest to the anchored
// edge: at the bottom for bottom positions, at the top for top positions.
func (v *ToastView) View() string {
	toasts := slices.Clone(v.controller.Toasts())
	if len(toasts) == 0 {
		return ""
	}
	if v.position.Top() {
		slices.Reverse(toasts)
	}

	rendered := make([]string, 0, len(toasts))
	for _, n := range toasts {
		rendered = append(rendered, renderToast(n))
	}

	return lipgloss.JoinVertical(v.align(), rendered...)
}

func (v *ToastView) align() lipgloss.Position {
	switch v.position {
	case config.PositionTopLeft, config.PositionBottomLeft:
		return lipgloss.Left
	case config.PositionTopCenter, config.PositionBottomCenter:
		return lipgloss.Center
	default:
		return lipgloss.Right
	}
}

func renderToast(n notify.Notification) string {
	header := styles.KindIcon(n.Kind)
	if n.Title != "" {
		header += " " + styles.ToastTitleStyle.Render(n.Title)
	}

	content := header
	if n.Message != "" {
		content += "\n" + styles.ToastMessageStyle.Render(n.Message)
	}

	return styles.ToastStyle.
		BorderForeground(styles.KindColor(n.Kind)).
		Render(content)
}

// Overlay composites the toast stack over background at the configured
// position within a width x height screen.
func (v *ToastView) Overlay(background string, width, height int) string {
	fg := v.View()
	if fg == "" {
		return background
	}

	fgLines := strings.Split(fg, "\n")
	fgW := lipgloss.Width(fg)
	fgH := len(fgLines)

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < height {
		bgLines = append(bgLines, "")
	}

	var x int
	switch v.align() {
	case lipgloss.Left:
		x = 1
	case lipgloss.Center:
		x = max((width-fgW)/2, 0)
	default:
		x = max(width-fgW-1, 0)
	}

	y := 0
	if !v.position.Top() {
		y = max(height-fgH, 0)
	}

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			bgLines = append(bgLines, "")
		}
		bgLines[row] = spliceLine(bgLines[row], line, x, fgW)
	}

	return strings.Join(bgLines, "\n")
}

// spliceLine replaces the cells [x, x+w) of bg with fg, keeping the ANSI
// styling of what remains on either side.
func spliceLine(bg, fg string, x, w int) string {
	left := ansi.Truncate(bg, x, "")
	if pad := x - ansi.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	if pad := w - ansi.StringWidth(fg); pad > 0 {
		fg += strings.Repeat(" ", pad)
	}

	right := ""
	if ansi.StringWidth(bg) > x+w {
		right = ansi.TruncateLeft(bg, x+w, "")
	}

	return left + fg + right
}
