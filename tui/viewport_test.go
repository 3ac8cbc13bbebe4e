// ABOUTME: Tests for ViewportManager scrolling logic
// ABOUTME: Verifies cursor-to-middle scrolling for single and multi-row track blocks

package tui

import "testing"

func TestViewportManager_SingleRowCursor(t *testing.T) {
	// Viewport with 10 rows, 50 rows of content
	// Middle = 5, max offset = 40
	vm := NewViewportManager(10, 0, 1, 50)

	tests := []struct {
		name       string
		cursorRow  int
		wantOffset int
		wantPhase  ScrollPhase
	}{
		{"cursor at 0", 0, 0, TopPhase},
		{"cursor at 4 (before middle)", 4, 0, TopPhase},
		{"cursor at 10", 10, 5, MiddlePhase},
		{"cursor at 25", 25, 20, MiddlePhase},
		{"cursor at 44", 44, 39, MiddlePhase},
		{"cursor at 45 (bottom threshold)", 45, 40, BottomPhase},
		{"cursor at 49 (last row)", 49, 40, BottomPhase},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm.SetCursor(tt.cursorRow, 1)

			if offset := vm.CalculateOffset(); offset != tt.wantOffset {
				t.Errorf("CalculateOffset() = %d, want %d", offset, tt.wantOffset)
			}

			if phase := vm.GetPhase(); phase != tt.wantPhase {
				t.Errorf("GetPhase() = %v, want %v", phase, tt.wantPhase)
			}
		})
	}
}

func TestViewportManager_MultiRowBlock(t *testing.T) {
	tests := []struct {
		name       string
		cursorRow  int
		cursorRows int
		wantOffset int
	}{
		{"block centred on middle", 20, 4, 17},
		{"block near top", 2, 3, 0},
		{"block taller than viewport shows its first row", 20, 30, 20},
		{"block at end", 46, 4, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm := NewViewportManager(10, tt.cursorRow, tt.cursorRows, 50)

			if offset := vm.CalculateOffset(); offset != tt.wantOffset {
				t.Errorf("CalculateOffset() = %d, want %d", offset, tt.wantOffset)
			}
		})
	}
}

func TestViewportManager_SmallContent(t *testing.T) {
	// Viewport with 10 rows, only 5 rows of content
	vm := NewViewportManager(10, 0, 1, 5)

	for row := range 5 {
		vm.SetCursor(row, 1)

		if offset := vm.CalculateOffset(); offset != 0 {
			t.Errorf("cursor at %d: CalculateOffset() = %d, want 0 (small content should never scroll)", row, offset)
		}
	}
}

func TestViewportManager_EdgeCases(t *testing.T) {
	t.Run("empty content", func(t *testing.T) {
		vm := NewViewportManager(10, 0, 1, 0)

		if offset := vm.CalculateOffset(); offset != 0 {
			t.Errorf("Empty content should return offset 0, got %d", offset)
		}
	})

	t.Run("zero height viewport", func(t *testing.T) {
		vm := NewViewportManager(0, 5, 1, 50)

		if offset := vm.CalculateOffset(); offset != 0 {
			t.Errorf("Zero height viewport should return offset 0, got %d", offset)
		}
	})

	t.Run("zero row block counts as one row", func(t *testing.T) {
		vm := NewViewportManager(10, 25, 0, 50)

		if offset := vm.CalculateOffset(); offset != 20 {
			t.Errorf("CalculateOffset() = %d, want 20", offset)
		}
	})
}

func TestViewportManager_HeightUpdate(t *testing.T) {
	vm := NewViewportManager(10, 25, 1, 50)

	if offset := vm.CalculateOffset(); offset != 20 {
		t.Errorf("Initial offset = %d, want 20", offset)
	}

	// Middle now = 10, cursor at 25 should give offset 15
	vm.SetHeight(20)

	if offset := vm.CalculateOffset(); offset != 15 {
		t.Errorf("After height change, offset = %d, want 15", offset)
	}

	vm.SetTotalRows(20)

	if offset := vm.CalculateOffset(); offset != 0 {
		t.Errorf("Content that fits should not scroll, got offset %d", offset)
	}
}

func TestViewportManager_OffsetsAreMonotonic(t *testing.T) {
	vm := NewViewportManager(10, 0, 3, 60)

	prev := 0

	for row := range 58 {
		vm.SetCursor(row, 3)

		offset := vm.CalculateOffset()
		if offset < prev {
			t.Errorf("Offset decreased from %d to %d at row %d (should be monotonic)", prev, offset, row)
		}

		prev = offset
	}
}
