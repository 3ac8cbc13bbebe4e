// ABOUTME: Rendering functions for TUI components
// ABOUTME: Draws tracks at their layout heights, the drop line, inspector and status bar

package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"timeline-history/timeline"
)

const chipWidth = 26 // Widest an element label may be drawn

// rows converts a layout height into whole terminal rows
func rows(h float64) int {
	return max(0, int(math.Round(h)))
}

// buildTimeline renders every track into rows.
// starts[i] is the first row of track i; the drop line, when shown, is one of the rows.
func (m model) buildTimeline(width int) (lines []string, starts []int, dropRow int) {
	tracks := m.tracks()
	dropRow = -1

	// Header
	for i := range rows(m.layout.HeaderHeight) {
		if i == 0 {
			lines = append(lines, headerStyle.Render(fit(runewidth.FillRight("Track", labelWidth)+"Elements", width)))
		} else {
			lines = append(lines, "")
		}
	}

	for i, track := range tracks {
		if i > 0 {
			for range rows(m.layout.TrackGap) {
				lines = append(lines, "")
			}
		}

		starts = append(starts, len(lines))

		for r := range max(1, rows(m.layout.Height(track))) {
			if r == 0 {
				lines = append(lines, m.renderTrackRow(i, track, width))
			} else {
				lines = append(lines, labelStyle.Render("  │"))
			}
		}
	}

	if len(tracks) == 0 {
		lines = append(lines, labelStyle.Render("  (no tracks)"))
	}

	// Drop line goes between rows at the target offset
	if target := m.dropTarget(); target != nil {
		if offset, ok := m.layout.Offset(target, tracks); ok {
			dropRow = min(rows(offset), len(lines))
			line := dropLineStyle.Render(strings.Repeat("─", max(1, width)))
			lines = slices.Insert(lines, dropRow, line)

			for i := range starts {
				if starts[i] >= dropRow {
					starts[i]++
				}
			}
		}
	}

	return lines, starts, dropRow
}

// renderTrackRow draws the label and element chips of one track
func (m model) renderTrackRow(i int, track *timeline.Track, width int) string {
	prefix := "  "

	switch {
	case m.mode == modeMoveElement && i == m.moveTo:
		prefix = "→ "
	case i == m.trackCursor:
		prefix = "► "
	}

	name := track.Name
	if name == "" {
		name = track.ID
	}

	if track.Muted {
		name += " (m)"
	}

	label := runewidth.FillRight(runewidth.Truncate(prefix+name, labelWidth-1, "…"), labelWidth)

	style := labelStyle
	if i == m.trackCursor || (m.mode == modeMoveElement && i == m.moveTo) {
		style = cursorLabelStyle
	}

	line := style.Render(label)
	used := labelWidth

	for j, el := range track.Elements {
		chip := runewidth.Truncate(fmt.Sprintf(" %s %.1f+%.1f ", elementLabel(el), el.StartTime, el.Duration), chipWidth, "…")
		w := runewidth.StringWidth(chip) + 1

		if used+w > width {
			line += "…"
			break
		}

		chipStyle := elementStyle
		if i == m.trackCursor && j == m.elementCursor {
			chipStyle = selectedElementStyle
		}

		line += chipStyle.Render(chip) + " "
		used += w
	}

	return line
}

// elementLabel names an element for the timeline
func elementLabel(el *timeline.Element) string {
	if el.IsText() && el.Text.Content != "" {
		return fmt.Sprintf("%q", el.Text.Content)
	}

	if el.Name != "" {
		return el.Name
	}

	return el.ID
}

// fit truncates s to width cells
func fit(s string, width int) string {
	return runewidth.Truncate(s, max(0, width), "…")
}

// refresh rebuilds the viewport content and scrolls the selection into view
func (m *model) refresh() {
	lines, starts, dropRow := m.buildTimeline(m.viewport.Width)
	m.viewport.SetContent(strings.Join(lines, "\n"))

	cursorRow, cursorRows := 0, 1

	switch {
	case dropRow >= 0:
		cursorRow = dropRow
	case m.trackCursor < len(starts):
		cursorRow = starts[m.trackCursor]
		cursorRows = max(1, rows(m.layout.Height(m.tracks()[m.trackCursor])))
	}

	vm := NewViewportManager(m.viewport.Height, cursorRow, cursorRows, len(lines))
	m.viewport.SetYOffset(vm.CalculateOffset())
}

// renderTimeline renders the timeline panel
func (m model) renderTimeline() string {
	title := "Timeline"

	switch m.mode {
	case modeMoveElement:
		title += " (MOVE ELEMENT)"
	case modeReorderTrack:
		title += " (MOVE TRACK)"
	case modeEditText:
		title += " (EDIT TEXT)"
	}

	s := titleStyle.Render(title) + "\n\n"
	s += m.viewport.View()

	if m.mode == modeEditText {
		s += "\n" + m.input.View()
	}

	return s
}

// renderInspector renders the selected element's fields
func (m model) renderInspector() string {
	s := titleStyle.Render("Element") + "\n\n"

	_, el, ok := m.currentElement()
	if !ok {
		return s + helpStyle.Render("No element selected")
	}

	valueWidth := inspectorWidth - 14

	row := func(k, v string) {
		s += inspectorKeyStyle.Render(fmt.Sprintf("%-12s", k)) + " " + runewidth.Truncate(v, valueWidth, "…") + "\n"
	}

	row("ID", el.ID)
	row("Name", el.Name)
	row("Type", string(el.Type))
	row("Start", fmt.Sprintf("%.3fs", el.StartTime))
	row("Duration", fmt.Sprintf("%.3fs", el.Duration))
	row("Trim", fmt.Sprintf("%.2fs / %.2fs", el.TrimStart, el.TrimEnd))
	row("End", fmt.Sprintf("%.3fs", el.EndTime()))
	row("Opacity", fmt.Sprintf("%.2f", el.Opacity))
	row("Scale", fmt.Sprintf("%.2f", el.Transform.Scale))
	row("Position", fmt.Sprintf("%.0f, %.0f", el.Transform.Position.X, el.Transform.Position.Y))
	row("Rotate", fmt.Sprintf("%.1f°", el.Transform.Rotate))

	if el.MediaPath != "" {
		row("Media", el.MediaPath)
	}

	if el.IsText() {
		s += "\n"
		row("Content", el.Text.Content)
		row("Font", fmt.Sprintf("%s %.0f %s", el.Text.FontFamily, el.Text.FontSize, el.Text.FontWeight))
		row("Color", el.Text.Color+" on "+el.Text.BackgroundColor)
		row("Align", el.Text.TextAlign)
	}

	return s
}

// renderStatus renders the status bar
func (m model) renderStatus() string {
	// Show status message if recent
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return statusStyle.Width(m.width).Render(m.statusMsg)
	}

	tracks := m.tracks()

	trackInfo := fmt.Sprintf("%d tracks | Track %d/%d", len(tracks), min(m.trackCursor+1, len(tracks)), len(tracks))
	undoInfo := fmt.Sprintf("U:%d R:%d", m.history.UndoSize(), m.history.RedoSize())

	if label := m.history.UndoLabel(); label != "" {
		undoInfo += " | undo: " + label
	}

	if m.history.CanRedo() {
		undoInfo += " | redo: " + m.history.RedoLabel()
	}

	modified := ""
	if m.modified {
		modified = "[MODIFIED] "
	}

	return statusStyle.Width(m.width).Render(fmt.Sprintf("%s%s | %s", modified, trackInfo, undoInfo))
}

// renderHelp renders the help text for the current mode
func (m model) renderHelp() string {
	switch m.mode {
	case modeEditText:
		return helpStyle.Render(" enter: apply | esc: cancel")
	case modeMoveElement, modeReorderTrack:
		return helpStyle.Render(" ↑/↓: move drop target | enter: drop | esc: cancel")
	}

	return helpStyle.Render(" ↑/↓: track | ←/→: element | [/]: nudge | -/=: opacity | e: edit text | t: add text | d: delete | m/M: move element/track | u: undo | ctrl+r: redo | y: copy | s: save | q: quit")
}
