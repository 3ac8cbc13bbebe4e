// ABOUTME: Undo/redo stack manager for timeline commands
// ABOUTME: Enforces a maximum depth, clears redo on new edits and coalesces rapid same-target edits

// Package history keeps the undo and redo stacks of executed commands.
package history

import (
	"fmt"
	"log/slog"
	"time"

	"timeline-history/command"
)

// DefaultMaxSize is used when a manager is created with a non-positive size
const DefaultMaxSize = 50

// Coalescer is implemented by commands that can fold a following command on the
// same target into themselves, so a burst of small edits becomes one history entry.
type Coalescer interface {
	CoalesceKey() string
	Coalesce(next command.Command) (command.Command, bool)
}

// Option configures a Manager
type Option func(*Manager)

// WithCoalesceWindow merges same-target edits made within d of each other.
// Zero disables coalescing.
func WithCoalesceWindow(d time.Duration) Option {
	return func(m *Manager) {
		m.window = d
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.log = logger
	}
}

// Manager manages undo/redo stacks with maximum size limit
type Manager struct {
	undoStack []command.Command
	redoStack []command.Command
	maxSize   int

	window   time.Duration
	now      func() time.Time
	lastPush time.Time

	log *slog.Logger
}

// NewManager creates a new history manager with the specified max stack size
func NewManager(maxSize int, opts ...Option) *Manager {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}

	m := &Manager{
		maxSize: maxSize,
		now:     time.Now,
		log:     slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Execute runs cmd and records it.
// A failing command is not recorded; whatever it already changed stays in place
// and recovering is up to the caller.
func (m *Manager) Execute(cmd command.Command) error {
	if err := cmd.Execute(); err != nil {
		m.log.Debug("execute failed", "command", command.Describe(cmd), "err", err)

		return fmt.Errorf("%s: %w", command.Describe(cmd), err)
	}

	m.Record(cmd)

	return nil
}

// Record pushes an already executed command.
// Clears the redo stack (you can't redo after a new action).
func (m *Manager) Record(cmd command.Command) {
	now := m.now()

	m.redoStack = nil

	if m.coalesce(cmd, now) {
		m.lastPush = now
		m.log.Debug("coalesced", "command", command.Describe(cmd), "undo", len(m.undoStack))

		return
	}

	m.undoStack = append(m.undoStack, cmd)

	// Enforce max size
	if len(m.undoStack) > m.maxSize {
		m.undoStack = m.undoStack[1:]
	}

	m.lastPush = now
	m.log.Debug("recorded", "command", command.Describe(cmd), "undo", len(m.undoStack))
}

// coalesce folds cmd into the top of the undo stack when both target the same
// thing and the previous edit happened within the window
func (m *Manager) coalesce(cmd command.Command, now time.Time) bool {
	if m.window <= 0 || len(m.undoStack) == 0 || m.lastPush.IsZero() || now.Sub(m.lastPush) > m.window {
		return false
	}

	top, ok := m.undoStack[len(m.undoStack)-1].(Coalescer)
	if !ok {
		return false
	}

	next, ok := cmd.(Coalescer)
	if !ok || top.CoalesceKey() != next.CoalesceKey() {
		return false
	}

	merged, ok := top.Coalesce(cmd)
	if !ok {
		return false
	}

	m.undoStack[len(m.undoStack)-1] = merged

	return true
}

// Undo reverts the most recent command.
// Returns false if there is nothing to undo. On error the stacks are left as they were.
func (m *Manager) Undo() (bool, error) {
	if len(m.undoStack) == 0 {
		m.log.Debug("nothing to undo")

		return false, nil
	}

	cmd := m.undoStack[len(m.undoStack)-1]

	if err := cmd.Undo(); err != nil {
		return false, fmt.Errorf("undo %s: %w", command.Describe(cmd), err)
	}

	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, cmd)

	// Enforce max size on redo stack
	if len(m.redoStack) > m.maxSize {
		m.redoStack = m.redoStack[1:]
	}

	// An undo ends any coalescing burst
	m.lastPush = time.Time{}
	m.log.Debug("undo", "command", command.Describe(cmd), "undo", len(m.undoStack), "redo", len(m.redoStack))

	return true, nil
}

// Redo re-applies the most recently undone command.
// Returns false if there is nothing to redo. On error the stacks are left as they were.
func (m *Manager) Redo() (bool, error) {
	if len(m.redoStack) == 0 {
		m.log.Debug("nothing to redo")

		return false, nil
	}

	cmd := m.redoStack[len(m.redoStack)-1]

	if err := cmd.Redo(); err != nil {
		return false, fmt.Errorf("redo %s: %w", command.Describe(cmd), err)
	}

	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, cmd)

	if len(m.undoStack) > m.maxSize {
		m.undoStack = m.undoStack[1:]
	}

	m.lastPush = time.Time{}
	m.log.Debug("redo", "command", command.Describe(cmd), "undo", len(m.undoStack), "redo", len(m.redoStack))

	return true, nil
}

// CanUndo returns true if there are commands that can be undone
func (m *Manager) CanUndo() bool {
	return len(m.undoStack) > 0
}

// CanRedo returns true if there are commands that can be redone
func (m *Manager) CanRedo() bool {
	return len(m.redoStack) > 0
}

// UndoSize returns the number of items in the undo stack
func (m *Manager) UndoSize() int {
	return len(m.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (m *Manager) RedoSize() int {
	return len(m.redoStack)
}

// UndoLabel describes the command Undo would revert, or "" when there is none
func (m *Manager) UndoLabel() string {
	if len(m.undoStack) == 0 {
		return ""
	}

	return command.Describe(m.undoStack[len(m.undoStack)-1])
}

// RedoLabel describes the command Redo would re-apply, or "" when there is none
func (m *Manager) RedoLabel() string {
	if len(m.redoStack) == 0 {
		return ""
	}

	return command.Describe(m.redoStack[len(m.redoStack)-1])
}

// Clear clears both stacks
func (m *Manager) Clear() {
	m.undoStack = nil
	m.redoStack = nil
	m.lastPush = time.Time{}
}
