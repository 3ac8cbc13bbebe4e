// ABOUTME: Top-level View() for the TUI
// ABOUTME: Joins the timeline and inspector panels above the status and help lines

package tui

import (
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	if m.quitting {
		return "Exiting...\n"
	}

	// Leave room for status bar and help
	panelHeight := m.height - (statusBarHeight + helpHeight + 1)

	timelineWidth := m.width - inspectorWidth - panelPadding
	if timelineWidth < minViewportWidth {
		timelineWidth = minViewportWidth
	}

	timelinePanelStyle := lipgloss.NewStyle().
		Width(timelineWidth).
		Height(panelHeight)

	inspectorPanelStyle := lipgloss.NewStyle().
		Width(inspectorWidth).
		Height(panelHeight).
		Padding(0, 1)

	combined := lipgloss.JoinHorizontal(
		lipgloss.Top,
		timelinePanelStyle.Render(m.renderTimeline()),
		inspectorPanelStyle.Render(m.renderInspector()),
	)

	return combined + "\n" + m.renderStatus() + "\n" + m.renderHelp()
}
