// ABOUTME: Defines tracks and the structural-sharing operations over a track list
// ABOUTME: Every operation returns a new list and reuses untouched tracks and elements

// Package timeline holds the data model of the editor: an ordered list of tracks,
// each holding an ordered list of elements.
//
// Values reachable from a track list are never modified in place. Operations build
// a new list that shares every track and element they did not touch, so snapshots
// are cheap to keep and identity comparison is enough to detect a change.
package timeline

import (
	"errors"
	"fmt"
	"slices"
)

// TrackType decides how a track is drawn and which elements it takes
type TrackType string

// Track kinds
const (
	TrackMedia TrackType = "media"
	TrackAudio TrackType = "audio"
	TrackText  TrackType = "text"
)

// Errors returned by list operations
var (
	ErrTrackNotFound     = errors.New("track not found")
	ErrElementNotFound   = errors.New("element not found")
	ErrIncompatibleTrack = errors.New("element type not accepted by track")
)

// Track is an ordered lane of elements, composited in list order
type Track struct {
	ID       string     `json:"id"       yaml:"id"`
	Name     string     `json:"name"     yaml:"name"`
	Type     TrackType  `json:"type"     yaml:"type"`
	Muted    bool       `json:"muted"    yaml:"muted"`
	Elements []*Element `json:"elements" yaml:"elements"`
}

// TrackIndex returns the position of the track with the given ID, or -1
func TrackIndex(tracks []*Track, trackID string) int {
	return slices.IndexFunc(tracks, func(t *Track) bool { return t.ID == trackID })
}

// FindTrack returns the track with the given ID
func FindTrack(tracks []*Track, trackID string) (*Track, bool) {
	i := TrackIndex(tracks, trackID)
	if i < 0 {
		return nil, false
	}

	return tracks[i], true
}

// Accepts reports whether an element of this variant may live on the track
func (t *Track) Accepts(el *Element) bool {
	switch t.Type {
	case TrackText:
		return el.Type == ElementText
	case TrackAudio:
		return el.Type == ElementAudio
	case TrackMedia:
		return el.Type == ElementMedia
	}

	return false
}

// ElementIndex returns the position of the element within the track, or -1
func (t *Track) ElementIndex(elementID string) int {
	return slices.IndexFunc(t.Elements, func(e *Element) bool { return e.ID == elementID })
}

// FindElement returns the element with the given ID on the given track
func FindElement(tracks []*Track, trackID, elementID string) (*Element, bool) {
	track, ok := FindTrack(tracks, trackID)
	if !ok {
		return nil, false
	}

	i := track.ElementIndex(elementID)
	if i < 0 {
		return nil, false
	}

	return track.Elements[i], true
}

// withElements returns a copy of the track holding a different element list
func (t *Track) withElements(elements []*Element) *Track {
	out := *t
	out.Elements = elements

	return &out
}

// UpdateElement replaces every element matching elementID on track trackID with fn(element).
// When nothing matches, or fn returns each element unchanged, the input list is returned as-is.
func UpdateElement(tracks []*Track, trackID, elementID string, fn func(*Element) *Element) []*Track {
	ti := TrackIndex(tracks, trackID)
	if ti < 0 {
		return tracks
	}

	track := tracks[ti]

	var elements []*Element

	for i, el := range track.Elements {
		if el.ID != elementID {
			continue
		}

		updated := fn(el)
		if updated == el {
			continue
		}

		if elements == nil {
			elements = slices.Clone(track.Elements)
		}

		elements[i] = updated
	}

	if elements == nil {
		return tracks
	}

	out := slices.Clone(tracks)
	out[ti] = track.withElements(elements)

	return out
}

// InsertElement adds el to the track at index (clamped to the track bounds)
func InsertElement(tracks []*Track, trackID string, index int, el *Element) ([]*Track, error) {
	ti := TrackIndex(tracks, trackID)
	if ti < 0 {
		return tracks, fmt.Errorf("insert into %q: %w", trackID, ErrTrackNotFound)
	}

	track := tracks[ti]
	if !track.Accepts(el) {
		return tracks, fmt.Errorf("insert %s into %q: %w", el.Type, trackID, ErrIncompatibleTrack)
	}

	index = clamp(index, 0, len(track.Elements))

	elements := make([]*Element, 0, len(track.Elements)+1)
	elements = append(elements, track.Elements[:index]...)
	elements = append(elements, el)
	elements = append(elements, track.Elements[index:]...)

	out := slices.Clone(tracks)
	out[ti] = track.withElements(elements)

	return out, nil
}

// RemoveElement drops the element from the track and returns it
func RemoveElement(tracks []*Track, trackID, elementID string) ([]*Track, *Element, error) {
	ti := TrackIndex(tracks, trackID)
	if ti < 0 {
		return tracks, nil, fmt.Errorf("remove from %q: %w", trackID, ErrTrackNotFound)
	}

	track := tracks[ti]

	ei := track.ElementIndex(elementID)
	if ei < 0 {
		return tracks, nil, fmt.Errorf("remove %q from %q: %w", elementID, trackID, ErrElementNotFound)
	}

	removed := track.Elements[ei]

	out := slices.Clone(tracks)
	out[ti] = track.withElements(slices.Delete(slices.Clone(track.Elements), ei, ei+1))

	return out, removed, nil
}

// MoveTrack moves the track at index from so it ends up at index to
func MoveTrack(tracks []*Track, from, to int) []*Track {
	if from < 0 || from >= len(tracks) {
		return tracks
	}

	to = clamp(to, 0, len(tracks)-1)
	if from == to {
		return tracks
	}

	moving := tracks[from]
	out := slices.Delete(slices.Clone(tracks), from, from+1)

	return slices.Insert(out, to, moving)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// End returns the end time of the last-ending element on the track
func (t *Track) End() float64 {
	var end float64
	for _, el := range t.Elements {
		end = max(end, el.EndTime())
	}

	return end
}

// NewIDFunc returns a generator of "prefix-N" ids that no track or element in tracks uses
func NewIDFunc(tracks []*Track, prefix string) func() string {
	used := make(map[string]bool)
	for _, track := range tracks {
		used[track.ID] = true
		for _, el := range track.Elements {
			used[el.ID] = true
		}
	}

	n := 0

	return func() string {
		for {
			n++
			id := fmt.Sprintf("%s-%d", prefix, n)
			if !used[id] {
				used[id] = true
				return id
			}
		}
	}
}
