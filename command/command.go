// ABOUTME: Command contract for reversible timeline edits and the shared snapshot base
// ABOUTME: Also defines Batch, which groups commands into one history entry

// Package command implements reversible edits over a timeline store.
//
// Leaf commands capture the full track list when they execute and restore it on
// undo. Because track lists are never modified in place, the captured list is an
// exact, immutable copy of the pre-execute state that shares storage with it.
package command

import (
	"errors"
	"fmt"

	"timeline-history/timeline"
)

// ErrEmptyBatch is returned when a batch is built without commands
var ErrEmptyBatch = errors.New("batch needs at least one command")

// Command is a reversible unit of work against a timeline store
type Command interface {
	// Execute performs the edit and captures whatever Undo needs.
	Execute() error
	// Undo reverts the store to the state before the last Execute.
	Undo() error
	// Redo applies the edit again.
	Redo() error
}

// snapshot holds the track list seen by the last Execute
type snapshot struct {
	store timeline.TrackStore
	saved []*timeline.Track
	taken bool
}

func (s *snapshot) capture() {
	s.saved = s.store.Tracks()
	s.taken = true
}

// Undo restores the captured list; without a capture it does nothing
func (s *snapshot) Undo() error {
	if !s.taken {
		return nil
	}

	s.store.SetTracks(s.saved)

	return nil
}

// Batch runs commands as a single unit of history.
//
// Sub-commands execute in order and undo in reverse, since later commands may
// depend on state left by earlier ones. When a sub-command fails the batch stops
// and returns the error; commands that already ran stay applied. Callers that
// need the store back call Undo, which skips sub-commands that never executed.
type Batch struct {
	commands []Command
}

// NewBatch groups commands into one batch
func NewBatch(commands ...Command) (*Batch, error) {
	if len(commands) == 0 {
		return nil, ErrEmptyBatch
	}

	return &Batch{commands: commands}, nil
}

// Execute runs every sub-command in order
func (b *Batch) Execute() error {
	return b.forward()
}

// Redo re-executes every sub-command in order
func (b *Batch) Redo() error {
	return b.forward()
}

func (b *Batch) forward() error {
	for i, c := range b.commands {
		if err := c.Execute(); err != nil {
			return fmt.Errorf("batch step %d (%s): %w", i+1, Describe(c), err)
		}
	}

	return nil
}

// Undo reverts every sub-command in reverse order
func (b *Batch) Undo() error {
	for i := len(b.commands) - 1; i >= 0; i-- {
		if err := b.commands[i].Undo(); err != nil {
			return fmt.Errorf("batch undo step %d (%s): %w", i+1, Describe(b.commands[i]), err)
		}
	}

	return nil
}

// Len returns the number of sub-commands
func (b *Batch) Len() int {
	return len(b.commands)
}

func (b *Batch) String() string {
	return fmt.Sprintf("%d edits", len(b.commands))
}

// Describe returns a short label for status messages
func Describe(c Command) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%T", c)
}
