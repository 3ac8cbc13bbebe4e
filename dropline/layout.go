// ABOUTME: Track geometry for the timeline panel
// ABOUTME: Per-type track heights, header and gaps, with offset and hit-test helpers

package dropline

import "timeline-history/timeline"

// Layout describes how tall each track is drawn
type Layout struct {
	HeaderHeight  float64
	TrackGap      float64
	DefaultHeight float64
	Heights       map[timeline.TrackType]float64
}

// Height returns the rendered height of a track based on its type
func (l Layout) Height(track *timeline.Track) float64 {
	if h, ok := l.Heights[track.Type]; ok && h > 0 {
		return h
	}

	return l.DefaultHeight
}

// Offset returns the drop line position for target in this layout
func (l Layout) Offset(target *DropTarget, tracks []*timeline.Track) (float64, bool) {
	return computeOffset(target, tracks, l.Height, l.TrackGap, l.HeaderHeight)
}

// TrackTop returns the offset of the top edge of tracks[i]
func (l Layout) TrackTop(tracks []*timeline.Track, i int) float64 {
	y := l.HeaderHeight

	for j := 0; j < i && j < len(tracks); j++ {
		y += l.Height(tracks[j]) + l.TrackGap
	}

	return y
}

// TotalHeight returns the height of the header plus every track and the gaps between them
func (l Layout) TotalHeight(tracks []*timeline.Track) float64 {
	if len(tracks) == 0 {
		return l.HeaderHeight
	}

	return l.TrackTop(tracks, len(tracks)-1) + l.Height(tracks[len(tracks)-1])
}

// TargetAt returns the drop target closest to the vertical position y.
// The upper half of a track targets its top edge, the lower half its bottom edge.
func (l Layout) TargetAt(tracks []*timeline.Track, y float64) *DropTarget {
	if len(tracks) == 0 {
		return nil
	}

	top := l.HeaderHeight

	for _, track := range tracks {
		h := l.Height(track)

		if y < top+h/2 {
			return &DropTarget{TrackID: track.ID, Edge: EdgeAbove}
		}

		if y < top+h+l.TrackGap {
			return &DropTarget{TrackID: track.ID, Edge: EdgeBelow}
		}

		top += h + l.TrackGap
	}

	return &DropTarget{TrackID: tracks[len(tracks)-1].ID, Edge: EdgeBelow}
}
