// ABOUTME: Drop-line positioning for drag reorder feedback
// ABOUTME: Maps a drop target and track geometry to a vertical offset, and back

// Package dropline computes where the insertion indicator is drawn while a track
// or element is dragged over the timeline. Everything here is a pure function of
// its inputs, so it is safe to call on every drag frame.
package dropline

import "timeline-history/timeline"

// Edge says which side of the target track the dragged item lands on
type Edge int

// Drop edges
const (
	EdgeAbove Edge = iota
	EdgeBelow
)

// String returns the edge name for status messages
func (e Edge) String() string {
	if e == EdgeBelow {
		return "below"
	}

	return "above"
}

// DropTarget is the proposed insertion point during a drag
type DropTarget struct {
	TrackID string
	Edge    Edge
}

// HeightFunc returns the rendered height of a track
type HeightFunc func(*timeline.Track) float64

// ComputeOffset returns the vertical offset of the drop line for target.
// Heights of the tracks before the target are summed, the target's own height is
// added when dropping below it, and headerHeight shifts the result for fixed header UI.
// The second result is false when there is no target or the target track is gone.
func ComputeOffset(target *DropTarget, tracks []*timeline.Track, height HeightFunc, headerHeight float64) (float64, bool) {
	return computeOffset(target, tracks, height, 0, headerHeight)
}

func computeOffset(target *DropTarget, tracks []*timeline.Track, height HeightFunc, gap, headerHeight float64) (float64, bool) {
	if target == nil {
		return 0, false
	}

	y := 0.0

	for i, track := range tracks {
		if i > 0 {
			y += gap
		}

		h := height(track)

		if track.ID == target.TrackID {
			if target.Edge == EdgeBelow {
				y += h
			}

			return headerHeight + y, true
		}

		y += h
	}

	return 0, false
}

// DestinationIndex returns the index the moving track ends up at when dropped on
// target, counted after the moving track has been taken out of the list.
func DestinationIndex(tracks []*timeline.Track, movingID string, target DropTarget) (int, bool) {
	from := timeline.TrackIndex(tracks, movingID)
	at := timeline.TrackIndex(tracks, target.TrackID)

	if from < 0 || at < 0 {
		return 0, false
	}

	to := at
	if target.Edge == EdgeBelow {
		to++
	}

	if from < to {
		to--
	}

	return to, true
}
