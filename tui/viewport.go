// ABOUTME: Viewport manager for cursor-to-middle scrolling over timeline rows
// ABOUTME: Keeps the selected track, which may span several rows, centred like vim/less

package tui

// ViewportManager handles cursor visibility and viewport scrolling.
// The cursor is a block of rows (a track) rather than a single line.
type ViewportManager struct {
	height     int // Viewport height in rows
	cursorRow  int // First row of the selected block
	cursorRows int // Rows the selected block spans
	totalRows  int // Total rows of content
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(height, cursorRow, cursorRows, totalRows int) *ViewportManager {
	return &ViewportManager{
		height:     height,
		cursorRow:  cursorRow,
		cursorRows: max(1, cursorRows),
		totalRows:  totalRows,
	}
}

// SetHeight updates the viewport height
func (vm *ViewportManager) SetHeight(height int) {
	vm.height = height
}

// SetCursor updates the selected block
func (vm *ViewportManager) SetCursor(row, rows int) {
	vm.cursorRow = row
	vm.cursorRows = max(1, rows)
}

// SetTotalRows updates the content height
func (vm *ViewportManager) SetTotalRows(total int) {
	vm.totalRows = total
}

// CalculateOffset computes the viewport Y offset to keep the cursor visible
//
// Scrolling behavior:
// - Phase 1 (top): Cursor moves freely, viewport stays at 0
// - Phase 2 (middle): Cursor block stays centred, content scrolls
// - Phase 3 (bottom): Viewport shows end, cursor moves to bottom
func (vm *ViewportManager) CalculateOffset() int {
	if vm.totalRows == 0 || vm.height < 1 {
		return 0
	}

	maxOffset := max(0, vm.totalRows-vm.height)

	// Centre of the block sits on the middle row
	offset := vm.cursorRow + vm.cursorRows/2 - vm.height/2

	// A block taller than the viewport shows its first row
	offset = min(offset, vm.cursorRow)

	return max(0, min(offset, maxOffset))
}

// ScrollPhase returns which scrolling phase the cursor is currently in
type ScrollPhase int

const (
	TopPhase    ScrollPhase = iota // Cursor moves, viewport at top
	MiddlePhase                    // Cursor at middle, content scrolls
	BottomPhase                    // Viewport at bottom, cursor moves
)

// GetPhase returns the current scrolling phase
func (vm *ViewportManager) GetPhase() ScrollPhase {
	offset := vm.CalculateOffset()

	switch {
	case offset == 0:
		return TopPhase
	case offset >= vm.totalRows-vm.height:
		return BottomPhase
	default:
		return MiddlePhase
	}
}
