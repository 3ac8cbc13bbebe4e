// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and turns keys into history commands

package tui

import (
	"math"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"timeline-history/command"
	"timeline-history/dropline"
	"timeline-history/timeline"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r) // Re-panic so Bubble Tea can handle it
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Timeline panel width: total width - inspector - padding
		viewportWidth := msg.Width - inspectorWidth - panelPadding
		if viewportWidth < minViewportWidth {
			viewportWidth = minViewportWidth
		}

		viewportHeight := msg.Height - totalUIChrome
		if viewportHeight < minViewportHeight {
			viewportHeight = minViewportHeight
		}

		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.input.Width = viewportWidth - len(m.input.Prompt) - 1

		m.refresh()

		return m, nil

	case configChangedMsg:
		m.applyConfig(msg)

		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeEditText:
			return m.handleEditTextKey(msg)
		case modeMoveElement, modeReorderTrack:
			m.handleDragKey(msg)

			return m, nil
		}

		return m.handleNormalKey(msg)
	}

	return m, nil
}

// handleNormalKey dispatches keys while browsing
func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true

		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.moveTrackCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveTrackCursor(1)

	case key.Matches(msg, keys.Left):
		m.moveElementCursor(-1)

	case key.Matches(msg, keys.Right):
		m.moveElementCursor(1)

	case key.Matches(msg, keys.NudgeLeft):
		m.nudge(-m.editor.NudgeSeconds)

	case key.Matches(msg, keys.NudgeRight):
		m.nudge(m.editor.NudgeSeconds)

	case key.Matches(msg, keys.OpacityDown):
		m.adjustOpacity(-m.editor.OpacityStep)

	case key.Matches(msg, keys.OpacityUp):
		m.adjustOpacity(m.editor.OpacityStep)

	case key.Matches(msg, keys.EditText):
		cmd := m.startTextEdit()

		return m, cmd

	case key.Matches(msg, keys.AddText):
		cmd := m.addTextElement()

		return m, cmd

	case key.Matches(msg, keys.Delete):
		m.deleteElement()

	case key.Matches(msg, keys.Move):
		m.startMoveElement()

	case key.Matches(msg, keys.Reorder):
		m.startReorderTrack()

	case key.Matches(msg, keys.Undo):
		m.undo()

	case key.Matches(msg, keys.Redo):
		m.redo()

	case key.Matches(msg, keys.Copy):
		m.copyElement()

	case key.Matches(msg, keys.Save):
		m.saveDocument()
	}

	return m, nil
}

// moveTrackCursor moves the track selection by delta
func (m *model) moveTrackCursor(delta int) {
	m.trackCursor = clamp(m.trackCursor+delta, 0, len(m.tracks())-1)
	m.clampCursor()
	m.refresh()
}

// moveElementCursor moves the element selection within the current track
func (m *model) moveElementCursor(delta int) {
	track, ok := m.currentTrack()
	if !ok {
		return
	}

	m.elementCursor = clamp(m.elementCursor+delta, 0, len(track.Elements)-1)
	m.refresh()
}

// execute runs cmd through the history manager.
// The manager records nothing when a command fails, so whatever part of it
// already ran is put back here.
func (m *model) execute(cmd command.Command) bool {
	if err := m.history.Execute(cmd); err != nil {
		if undoErr := cmd.Undo(); undoErr != nil {
			m.debugf("[TUI] Rollback of %s failed: %v", command.Describe(cmd), undoErr)
		}

		m.debugf("[TUI] %v", err)
		m.setStatus("Error: %v", err)
		m.clampCursor()
		m.refresh()

		return false
	}

	m.modified = true
	m.debugf("[TUI] Executed %s (undo=%d)", command.Describe(cmd), m.history.UndoSize())
	m.clampCursor()
	m.refresh()

	return true
}

// nudge shifts the selected element's start time, never before zero
func (m *model) nudge(delta float64) {
	track, el, ok := m.currentElement()
	if !ok {
		return
	}

	start := roundTime(max(0, el.StartTime+delta))
	if start == el.StartTime {
		return
	}

	m.execute(command.NewUpdateElement(m.store, track.ID, el.ID, timeline.ElementUpdate{StartTime: &start}))
}

// adjustOpacity changes the selected element's opacity within [0, 1]
func (m *model) adjustOpacity(delta float64) {
	track, el, ok := m.currentElement()
	if !ok {
		return
	}

	opacity := math.Round(max(0, min(1, el.Opacity+delta))*100) / 100
	if opacity == el.Opacity {
		return
	}

	m.execute(command.NewUpdateElement(m.store, track.ID, el.ID, timeline.ElementUpdate{Opacity: &opacity}))
}

// roundTime rounds seconds to milliseconds so repeated nudges don't drift
func roundTime(seconds float64) float64 {
	return math.Round(seconds*1000) / 1000
}

// startTextEdit opens the text input on the selected text element
func (m *model) startTextEdit() tea.Cmd {
	_, el, ok := m.currentElement()
	if !ok || !el.IsText() {
		m.setStatus("Select a text element to edit")

		return nil
	}

	m.mode = modeEditText
	m.dragID = el.ID
	m.input.SetValue(el.Text.Content)
	m.input.CursorEnd()

	return m.input.Focus()
}

// handleEditTextKey feeds keys to the text input until enter or esc
func (m model) handleEditTextKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Cancel):
		m.endMode()
		m.setStatus("Edit cancelled")

		return m, nil

	case key.Matches(msg, keys.Drop):
		content := m.input.Value()
		elementID := m.dragID
		m.endMode()

		track, ok := m.currentTrack()
		if !ok {
			return m, nil
		}

		el, found := timeline.FindElement(m.tracks(), track.ID, elementID)
		if !found || el.Text.Content == content {
			return m, nil
		}

		m.execute(command.NewUpdateTextElement(m.store, track.ID, elementID, timeline.TextUpdate{Content: &content}))

		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// addTextElement appends a text element to the current text track and starts editing it
func (m *model) addTextElement() tea.Cmd {
	track, ok := m.currentTrack()
	if !ok || track.Type != timeline.TrackText {
		m.setStatus("Select a text track to add text")

		return nil
	}

	el := &timeline.Element{
		ID:        timeline.NewIDFunc(m.tracks(), "text")(),
		Type:      timeline.ElementText,
		Name:      "Text",
		StartTime: roundTime(track.End()),
		Duration:  m.editor.DefaultClipSeconds,
		Transform: timeline.DefaultTransform(),
		Opacity:   1,
		Text:      timeline.DefaultTextProps("Text"),
	}

	if !m.execute(command.NewAddElement(m.store, track.ID, len(track.Elements), el)) {
		return nil
	}

	m.selectElement(track.ID, el.ID)

	return m.startTextEdit()
}

// deleteElement removes the selected element
func (m *model) deleteElement() {
	track, el, ok := m.currentElement()
	if !ok {
		return
	}

	if m.execute(command.NewDeleteElement(m.store, track.ID, el.ID)) {
		m.setStatus("Deleted %s", el.Name)
	}
}

// startMoveElement begins a drag of the selected element to another track
func (m *model) startMoveElement() {
	_, el, ok := m.currentElement()
	if !ok {
		return
	}

	m.mode = modeMoveElement
	m.dragID = el.ID
	m.moveTo = m.trackCursor
	m.setStatus("Moving %s: ↑/↓ pick track, enter drop, esc cancel", el.Name)
	m.refresh()
}

// startReorderTrack begins a drag of the current track
func (m *model) startReorderTrack() {
	track, ok := m.currentTrack()
	if !ok {
		return
	}

	m.mode = modeReorderTrack
	m.dragID = track.ID
	m.dropIndex = m.trackCursor
	m.setStatus("Moving track %s: ↑/↓ pick position, enter drop, esc cancel", track.Name)
	m.refresh()
}

// handleDragKey moves the drop target or finishes a drag
func (m *model) handleDragKey(msg tea.KeyMsg) {
	tracks := m.tracks()

	switch {
	case key.Matches(msg, keys.Cancel):
		m.endMode()
		m.setStatus("Move cancelled")

	case key.Matches(msg, keys.Up):
		if m.mode == modeReorderTrack {
			m.dropIndex = clamp(m.dropIndex-1, 0, len(tracks))
		} else {
			m.moveTo = clamp(m.moveTo-1, 0, len(tracks)-1)
		}
		m.refresh()

	case key.Matches(msg, keys.Down):
		if m.mode == modeReorderTrack {
			m.dropIndex = clamp(m.dropIndex+1, 0, len(tracks))
		} else {
			m.moveTo = clamp(m.moveTo+1, 0, len(tracks)-1)
		}
		m.refresh()

	case key.Matches(msg, keys.Drop):
		if m.mode == modeReorderTrack {
			m.dropTrack()
		} else {
			m.dropElement()
		}
	}
}

// dropTarget returns the drop target for the current reorder slot.
// Slot i is the top edge of track i; the last slot is the bottom edge of the last track.
func (m model) dropTarget() *dropline.DropTarget {
	tracks := m.tracks()
	if m.mode != modeReorderTrack || len(tracks) == 0 {
		return nil
	}

	if m.dropIndex < len(tracks) {
		return &dropline.DropTarget{TrackID: tracks[m.dropIndex].ID, Edge: dropline.EdgeAbove}
	}

	return &dropline.DropTarget{TrackID: tracks[len(tracks)-1].ID, Edge: dropline.EdgeBelow}
}

// dropTrack finishes a track reorder
func (m *model) dropTrack() {
	target := m.dropTarget()
	trackID := m.dragID
	m.endMode()

	if target == nil {
		return
	}

	tracks := m.tracks()
	if to, ok := dropline.DestinationIndex(tracks, trackID, *target); ok && to == timeline.TrackIndex(tracks, trackID) {
		return
	}

	if m.execute(command.NewReorderTrack(m.store, trackID, *target)) {
		m.trackCursor = timeline.TrackIndex(m.tracks(), trackID)
		m.clampCursor()
		m.refresh()
	}
}

// dropElement finishes an element move, keeping the destination ordered by start time
func (m *model) dropElement() {
	elementID := m.dragID
	destIndex := m.moveTo
	m.endMode()

	from, ok := m.currentTrack()
	if !ok {
		return
	}

	tracks := m.tracks()
	if destIndex < 0 || destIndex >= len(tracks) || tracks[destIndex].ID == from.ID {
		return
	}

	el, found := timeline.FindElement(tracks, from.ID, elementID)
	if !found {
		return
	}

	dest := tracks[destIndex]
	index := 0

	for _, other := range dest.Elements {
		if other.StartTime <= el.StartTime {
			index++
		}
	}

	if m.execute(command.NewMoveElement(m.store, from.ID, elementID, dest.ID, index)) {
		m.selectElement(dest.ID, elementID)
		m.refresh()
	}
}

// endMode returns to browsing
func (m *model) endMode() {
	m.mode = modeNormal
	m.dragID = ""
	m.input.Blur()
	m.refresh()
}

// undo reverts the most recent edit
func (m *model) undo() {
	label := m.history.UndoLabel()

	ok, err := m.history.Undo()
	switch {
	case err != nil:
		m.setStatus("Undo failed: %v", err)
	case !ok:
		m.setStatus("Nothing to undo")
	default:
		m.modified = true
		m.setStatus("Undid %s", label)
	}

	m.clampCursor()
	m.refresh()
}

// redo re-applies the most recently undone edit
func (m *model) redo() {
	label := m.history.RedoLabel()

	ok, err := m.history.Redo()
	switch {
	case err != nil:
		m.setStatus("Redo failed: %v", err)
	case !ok:
		m.setStatus("Nothing to redo")
	default:
		m.modified = true
		m.setStatus("Redid %s", label)
	}

	m.clampCursor()
	m.refresh()
}

// copyElement puts the selected element on the clipboard as JSON
func (m *model) copyElement() {
	_, el, ok := m.currentElement()
	if !ok {
		return
	}

	data, err := json.MarshalIndent(el, "", "  ")
	if err != nil {
		m.setStatus("Copy failed: %v", err)

		return
	}

	if err := m.copyText(string(data)); err != nil {
		m.debugf("[TUI] Clipboard write failed: %v", err)
		m.setStatus("Copy failed: %v", err)

		return
	}

	m.setStatus("Copied %s", el.Name)
}

// saveDocument writes the timeline to the output path
func (m *model) saveDocument() {
	if m.dryRun {
		m.setStatus("--dry-run mode: not saved")

		return
	}

	if err := m.save(m.outputPath, m.tracks()); err != nil {
		m.debugf("[TUI] Save failed: %v", err)
		m.setStatus("Save failed: %v", err)

		return
	}

	m.modified = false
	m.setStatus("Saved %s", m.outputPath)
}

// applyConfig installs a reloaded config file
func (m *model) applyConfig(msg configChangedMsg) {
	if msg.err != nil {
		m.debugf("[TUI] Config reload failed: %v", msg.err)
		m.setStatus("Config reload failed: %v", msg.err)

		return
	}

	m.shared.Update(msg.cfg)
	m.layout = LayoutFromConfig(msg.cfg.Layout)
	m.editor = msg.cfg.Editor
	m.setStatus("Config reloaded")
	m.refresh()
}
