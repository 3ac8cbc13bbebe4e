// ABOUTME: Tests for the history Manager stack operations
// ABOUTME: Verifies undo/redo behavior, stack size limits, redo invalidation and coalescing

package history

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"timeline-history/command"
	"timeline-history/timeline"
)

// counter is a command that adds delta to a shared total
type counter struct {
	total *int
	delta int
	fail  bool
}

var errCounter = errors.New("counter failed")

func (c *counter) Execute() error {
	if c.fail {
		return errCounter
	}

	*c.total += c.delta

	return nil
}

func (c *counter) Undo() error {
	if c.fail {
		return errCounter
	}

	*c.total -= c.delta

	return nil
}

func (c *counter) Redo() error { return c.Execute() }

func createTestStore() *timeline.Store {
	return timeline.NewStore([]*timeline.Track{
		{
			ID:   "video",
			Type: timeline.TrackMedia,
			Elements: []*timeline.Element{
				{ID: "clip", Type: timeline.ElementMedia, Duration: 5, Opacity: 1},
				{ID: "other", Type: timeline.ElementMedia, Duration: 5, Opacity: 1},
			},
		},
	})
}

// fakeClock returns a controllable time source
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestManager_ExecuteAndUndo(t *testing.T) {
	total := 0
	m := NewManager(50)

	if err := m.Execute(&counter{total: &total, delta: 5}); err != nil {
		t.Fatal(err)
	}

	if total != 5 {
		t.Fatalf("total = %d after execute, want 5", total)
	}

	ok, err := m.Undo()
	if !ok || err != nil {
		t.Fatalf("Undo should succeed, got ok=%v err=%v", ok, err)
	}

	if total != 0 {
		t.Errorf("total = %d after undo, want 0", total)
	}
}

func TestManager_UndoEmpty(t *testing.T) {
	m := NewManager(50)

	if ok, err := m.Undo(); ok || err != nil {
		t.Errorf("Undo should report nothing to undo, got ok=%v err=%v", ok, err)
	}
}

func TestManager_RedoEmpty(t *testing.T) {
	m := NewManager(50)

	if ok, err := m.Redo(); ok || err != nil {
		t.Errorf("Redo should report nothing to redo, got ok=%v err=%v", ok, err)
	}
}

func TestManager_Redo(t *testing.T) {
	total := 0
	m := NewManager(50)

	_ = m.Execute(&counter{total: &total, delta: 3})
	_, _ = m.Undo()

	ok, err := m.Redo()
	if !ok || err != nil {
		t.Fatalf("Redo should succeed, got ok=%v err=%v", ok, err)
	}

	if total != 3 {
		t.Errorf("total = %d after redo, want 3", total)
	}
}

func TestManager_ExecuteClearsRedo(t *testing.T) {
	total := 0
	m := NewManager(50)

	for range 3 {
		_ = m.Execute(&counter{total: &total, delta: 1})
	}

	_, _ = m.Undo()
	_, _ = m.Undo()

	if m.RedoSize() != 2 {
		t.Fatalf("Redo stack should have 2 items, got %d", m.RedoSize())
	}

	_ = m.Execute(&counter{total: &total, delta: 10})

	if m.RedoSize() != 0 {
		t.Errorf("Execute should clear redo stack, but has %d items", m.RedoSize())
	}

	if m.CanRedo() {
		t.Error("CanRedo should be false after a new execute")
	}
}

func TestManager_MaxStackSize(t *testing.T) {
	total := 0
	m := NewManager(3)

	for range 5 {
		_ = m.Execute(&counter{total: &total, delta: 1})
	}

	if m.UndoSize() != 3 {
		t.Errorf("Undo stack size = %d, want 3 (max)", m.UndoSize())
	}

	for i := range 3 {
		if ok, _ := m.Undo(); !ok {
			t.Errorf("Undo %d failed, should have 3 items", i+1)
		}
	}

	if ok, _ := m.Undo(); ok {
		t.Error("4th undo should fail (max stack size is 3)")
	}

	// The two evicted commands stay applied
	if total != 2 {
		t.Errorf("total = %d, want 2", total)
	}
}

func TestManager_DefaultSize(t *testing.T) {
	if m := NewManager(0); m.maxSize != DefaultMaxSize {
		t.Errorf("maxSize = %d, want %d", m.maxSize, DefaultMaxSize)
	}
}

func TestManager_UndoRedoCycle(t *testing.T) {
	total := 0
	m := NewManager(50)

	_ = m.Execute(&counter{total: &total, delta: 1})
	_ = m.Execute(&counter{total: &total, delta: 10})

	_, _ = m.Undo()
	_, _ = m.Undo()

	if total != 0 {
		t.Fatalf("total = %d after two undos, want 0", total)
	}

	_, _ = m.Redo()

	if total != 1 {
		t.Errorf("total = %d after redo, want 1 (redo follows stack order)", total)
	}

	if m.UndoSize() != 1 || m.RedoSize() != 1 {
		t.Errorf("After undo-redo cycle, undo=%d redo=%d, want 1 and 1", m.UndoSize(), m.RedoSize())
	}
}

func TestManager_FailedExecuteNotRecorded(t *testing.T) {
	total := 0
	m := NewManager(50)

	err := m.Execute(&counter{total: &total, fail: true})
	if !errors.Is(err, errCounter) {
		t.Fatalf("Expected errCounter, got %v", err)
	}

	if m.UndoSize() != 0 {
		t.Errorf("Failed command should not be recorded, undo size %d", m.UndoSize())
	}
}

func TestManager_FailedUndoKeepsStacks(t *testing.T) {
	total := 0
	cmd := &counter{total: &total, delta: 1}
	m := NewManager(50)

	_ = m.Execute(cmd)
	cmd.fail = true

	ok, err := m.Undo()
	if ok || !errors.Is(err, errCounter) {
		t.Fatalf("Expected failed undo, got ok=%v err=%v", ok, err)
	}

	if m.UndoSize() != 1 || m.RedoSize() != 0 {
		t.Errorf("Stacks changed after failed undo: undo=%d redo=%d", m.UndoSize(), m.RedoSize())
	}
}

func TestManager_Clear(t *testing.T) {
	total := 0
	m := NewManager(50)

	_ = m.Execute(&counter{total: &total, delta: 1})
	_ = m.Execute(&counter{total: &total, delta: 1})
	_, _ = m.Undo()

	m.Clear()

	if m.UndoSize() != 0 || m.RedoSize() != 0 {
		t.Errorf("After clear, undo=%d redo=%d, want 0 and 0", m.UndoSize(), m.RedoSize())
	}
}

func TestManager_Labels(t *testing.T) {
	store := createTestStore()
	m := NewManager(50)

	if m.UndoLabel() != "" || m.RedoLabel() != "" {
		t.Error("Empty manager should have empty labels")
	}

	_ = m.Execute(command.NewDeleteElement(store, "video", "clip"))

	if got := m.UndoLabel(); got != "delete clip" {
		t.Errorf("UndoLabel = %q", got)
	}

	_, _ = m.Undo()

	if got := m.RedoLabel(); got != "delete clip" {
		t.Errorf("RedoLabel = %q", got)
	}
}

func TestManager_CoalescesWithinWindow(t *testing.T) {
	store := createTestStore()
	before := store.Tracks()
	clock := &fakeClock{t: time.Unix(1000, 0)}
	m := NewManager(50, WithCoalesceWindow(time.Second), WithClock(clock.Now))

	for i := 1; i <= 5; i++ {
		start := float64(i)
		_ = m.Execute(command.NewUpdateElement(store, "video", "clip", timeline.ElementUpdate{StartTime: &start}))
		clock.Advance(200 * time.Millisecond)
	}

	if m.UndoSize() != 1 {
		t.Fatalf("Undo stack size = %d, want 1 coalesced entry", m.UndoSize())
	}

	el, _ := timeline.FindElement(store.Tracks(), "video", "clip")
	if el.StartTime != 5 {
		t.Errorf("StartTime = %v, want 5", el.StartTime)
	}

	_, _ = m.Undo()

	if !reflect.DeepEqual(store.Tracks(), before) {
		t.Error("One undo should restore the state before the whole burst")
	}

	_, _ = m.Redo()

	el, _ = timeline.FindElement(store.Tracks(), "video", "clip")
	if el.StartTime != 5 {
		t.Errorf("StartTime after redo = %v, want 5", el.StartTime)
	}
}

func TestManager_NoCoalesceAcrossBoundaries(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *Manager, store *timeline.Store, clock *fakeClock)
	}{
		{
			name: "window elapsed",
			setup: func(_ *Manager, _ *timeline.Store, clock *fakeClock) {
				clock.Advance(2 * time.Second)
			},
		},
		{
			name: "different element",
			setup: func(m *Manager, store *timeline.Store, _ *fakeClock) {
				_ = m.Execute(command.NewUpdateElement(store, "video", "other", timeline.ElementUpdate{Opacity: timeline.Ptr(0.5)}))
			},
		},
		{
			name: "undo in between",
			setup: func(m *Manager, store *timeline.Store, _ *fakeClock) {
				_ = m.Execute(command.NewDeleteElement(store, "video", "other"))
				_, _ = m.Undo()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStore()
			clock := &fakeClock{t: time.Unix(1000, 0)}
			m := NewManager(50, WithCoalesceWindow(time.Second), WithClock(clock.Now))

			_ = m.Execute(command.NewUpdateElement(store, "video", "clip", timeline.ElementUpdate{Opacity: timeline.Ptr(0.9)}))
			tt.setup(m, store, clock)
			sizeBefore := m.UndoSize()

			_ = m.Execute(command.NewUpdateElement(store, "video", "clip", timeline.ElementUpdate{Opacity: timeline.Ptr(0.8)}))

			if m.UndoSize() != sizeBefore+1 {
				t.Errorf("Undo size = %d, want %d (no coalescing)", m.UndoSize(), sizeBefore+1)
			}
		})
	}
}

func TestManager_CoalescingDisabledByDefault(t *testing.T) {
	store := createTestStore()
	m := NewManager(50)

	_ = m.Execute(command.NewUpdateElement(store, "video", "clip", timeline.ElementUpdate{Opacity: timeline.Ptr(0.9)}))
	_ = m.Execute(command.NewUpdateElement(store, "video", "clip", timeline.ElementUpdate{Opacity: timeline.Ptr(0.8)}))

	if m.UndoSize() != 2 {
		t.Errorf("Undo size = %d, want 2", m.UndoSize())
	}
}
