// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model for browsing and editing a timeline with undo/redo

// Package tui provides an interactive terminal editor for timeline documents.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"timeline-history/config"
	"timeline-history/document"
	"timeline-history/dropline"
	"timeline-history/history"
	"timeline-history/timeline"
)

// Layout constants for UI dimensions
const (
	inspectorWidth = 38 // Right panel width for the selected element
	panelPadding   = 2  // Horizontal spacing between panels
	labelWidth     = 14 // Track name column inside the timeline panel

	// UI chrome heights (elements that reduce available viewport space)
	titleHeight     = 2 // Panel title bars
	statusBarHeight = 1 // Bottom status bar
	helpHeight      = 1 // Help text line
	spacingHeight   = 1 // Vertical spacing between elements
	totalUIChrome   = titleHeight + statusBarHeight + helpHeight + spacingHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 5
)

// Interaction constants
const (
	statusMessageDuration = 5 * time.Second  // How long to show transient status messages
	autosaveInterval      = 30 * time.Second // How often pending changes are autosaved
)

// mode is what the keyboard currently drives
type mode int

const (
	modeNormal       mode = iota
	modeEditText          // text input owns the keyboard
	modeMoveElement       // choosing a destination track for the selected element
	modeReorderTrack      // choosing where to drop the selected track
)

// configChangedMsg carries a reloaded config file
type configChangedMsg struct {
	cfg config.Config
	err error
}

// model holds the TUI state
type model struct {
	// Dependencies
	store    *timeline.Store
	history  *history.Manager
	shared   *config.Shared
	save     func(string, []*timeline.Track) error
	copyText func(string) error
	debugf   func(string, ...any)

	// Configuration
	layout dropline.Layout
	editor config.EditorConfig

	// File I/O
	documentPath string
	outputPath   string
	dryRun       bool
	modified     bool

	// UI state
	width        int
	height       int
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time
	viewport     viewport.Model

	// Selection
	trackCursor   int
	elementCursor int

	// Editing
	mode      mode
	input     textinput.Model
	dropIndex int    // reorder: slot between tracks, 0..len(tracks)
	moveTo    int    // move: destination track index
	dragID    string // track or element being dragged
}

// Key bindings
type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	NudgeLeft   key.Binding
	NudgeRight  key.Binding
	OpacityDown key.Binding
	OpacityUp   key.Binding
	EditText    key.Binding
	AddText     key.Binding
	Delete      key.Binding
	Move        key.Binding
	Reorder     key.Binding
	Drop        key.Binding
	Cancel      key.Binding
	Undo        key.Binding
	Redo        key.Binding
	Copy        key.Binding
	Save        key.Binding
	Quit        key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "track"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "track"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "element"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "element"),
	),
	NudgeLeft: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "nudge earlier"),
	),
	NudgeRight: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "nudge later"),
	),
	OpacityDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "opacity down"),
	),
	OpacityUp: key.NewBinding(
		key.WithKeys("=", "+"),
		key.WithHelp("=", "opacity up"),
	),
	EditText: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "edit text"),
	),
	AddText: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "add text"),
	),
	Delete: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "delete element"),
	),
	Move: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "move element"),
	),
	Reorder: key.NewBinding(
		key.WithKeys("M"),
		key.WithHelp("M", "move track"),
	),
	Drop: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "drop"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Redo: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "redo"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy element"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("10"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	cursorLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15"))

	elementStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Foreground(lipgloss.Color("252"))

	selectedElementStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true)

	dropLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	inspectorKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("241"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// LayoutFromConfig converts row heights from the config file into a drop-line layout
func LayoutFromConfig(cfg config.LayoutConfig) dropline.Layout {
	heights := make(map[timeline.TrackType]float64, len(cfg.TrackHeights))
	for name, h := range cfg.TrackHeights {
		heights[timeline.TrackType(name)] = h
	}

	return dropline.Layout{
		HeaderHeight:  cfg.HeaderHeight,
		TrackGap:      cfg.TrackGap,
		DefaultHeight: cfg.DefaultHeight,
		Heights:       heights,
	}
}

// Run starts the TUI mode with injected dependencies
func Run(opts Options, shared *config.Shared, deps Dependencies) error {
	tracks, err := deps.Load(opts.DocumentPath)
	if err != nil {
		return err
	}

	store := timeline.NewStore(tracks)
	m := initModel(store, opts, shared, deps)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := tea.NewProgram(m, tea.WithAltScreen())

	// Live layout reloads
	if opts.ConfigPath != "" {
		err := config.Watch(ctx, opts.ConfigPath, func(cfg config.Config, err error) {
			p.Send(configChangedMsg{cfg: cfg, err: err})
		})
		if err != nil {
			deps.Debugf("[TUI] Config watcher disabled: %v", err)
		}
	}

	if opts.Autosave && !opts.DryRun {
		saver := document.NewAutosaver(store, autosavePath(m.outputPath), func(err error) {
			deps.Debugf("[TUI] %v", err)
		})

		go saver.Run(ctx, autosaveInterval)
	}

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Save unsaved edits on exit (unless dry-run mode)
	if m, ok := finalModel.(model); ok && m.modified {
		if m.dryRun {
			fmt.Println("\n--dry-run mode: timeline not modified")
		} else {
			if err := deps.Save(m.outputPath, store.Tracks()); err != nil {
				return fmt.Errorf("failed to save timeline: %w", err)
			}

			fmt.Printf("\nSaved timeline to: %s\n", m.outputPath)
		}
	}

	return nil
}

// autosavePath turns "cut.yaml" into "cut.autosave.yaml"
func autosavePath(path string) string {
	ext := filepath.Ext(path)

	return strings.TrimSuffix(path, ext) + ".autosave" + ext
}

// initModel creates the initial model with injected dependencies
func initModel(store *timeline.Store, opts Options, shared *config.Shared, deps Dependencies) model {
	cfg := shared.Get()

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Determine output path
	outputPath := opts.DocumentPath
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	input := textinput.New()
	input.Prompt = "text: "
	input.CharLimit = 500

	hist := history.NewManager(
		cfg.History.MaxDepth,
		history.WithCoalesceWindow(cfg.History.CoalesceWindow()),
		history.WithLogger(logger),
	)

	return model{
		store:    store,
		history:  hist,
		shared:   shared,
		save:     deps.Save,
		copyText: deps.Copy,
		debugf:   deps.Debugf,

		layout: LayoutFromConfig(cfg.Layout),
		editor: cfg.Editor,

		documentPath: opts.DocumentPath,
		outputPath:   outputPath,
		dryRun:       opts.DryRun,

		viewport: viewport.New(0, 0), // Width and height set on first WindowSizeMsg
		input:    input,
	}
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	return tea.SetWindowTitle("timeline-history - " + filepath.Base(m.documentPath))
}

// tracks returns the current track list
func (m model) tracks() []*timeline.Track {
	return m.store.Tracks()
}

// currentTrack returns the track under the cursor
func (m model) currentTrack() (*timeline.Track, bool) {
	tracks := m.tracks()
	if m.trackCursor < 0 || m.trackCursor >= len(tracks) {
		return nil, false
	}

	return tracks[m.trackCursor], true
}

// currentElement returns the selected element and its track
func (m model) currentElement() (*timeline.Track, *timeline.Element, bool) {
	track, ok := m.currentTrack()
	if !ok || m.elementCursor < 0 || m.elementCursor >= len(track.Elements) {
		return track, nil, false
	}

	return track, track.Elements[m.elementCursor], true
}

// clampCursor keeps the selection inside the current track list
func (m *model) clampCursor() {
	tracks := m.tracks()
	m.trackCursor = clamp(m.trackCursor, 0, len(tracks)-1)

	if track, ok := m.currentTrack(); ok {
		m.elementCursor = clamp(m.elementCursor, 0, len(track.Elements)-1)
	} else {
		m.elementCursor = 0
	}
}

// selectElement moves the cursor onto elementID, if it exists
func (m *model) selectElement(trackID, elementID string) {
	tracks := m.tracks()

	ti := timeline.TrackIndex(tracks, trackID)
	if ti < 0 {
		return
	}

	m.trackCursor = ti
	if ei := tracks[ti].ElementIndex(elementID); ei >= 0 {
		m.elementCursor = ei
	}
}

// setStatus sets a transient status message
func (m *model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusMsgAge = time.Now()
}

// clamp limits v to [lo, hi]; an empty range yields lo
func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}

	return max(lo, min(v, hi))
}
