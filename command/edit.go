// ABOUTME: Structural edit commands: add, delete and drag-move elements, reorder tracks
// ABOUTME: Each snapshots on Execute and fails when the drag source or destination is gone

package command

import (
	"fmt"

	"timeline-history/dropline"
	"timeline-history/timeline"
)

// AddElement inserts an element into a track
type AddElement struct {
	snapshot
	trackID string
	index   int
	element *timeline.Element
}

// NewAddElement creates a command inserting el at index on trackID
func NewAddElement(store timeline.TrackStore, trackID string, index int, el *timeline.Element) *AddElement {
	return &AddElement{snapshot: snapshot{store: store}, trackID: trackID, index: index, element: el}
}

// Execute snapshots the track list and inserts the element
func (c *AddElement) Execute() error {
	c.capture()

	return c.apply()
}

// Redo inserts the element again
func (c *AddElement) Redo() error {
	return c.apply()
}

func (c *AddElement) apply() error {
	tracks, err := timeline.InsertElement(c.store.Tracks(), c.trackID, c.index, c.element)
	if err != nil {
		return err
	}

	c.store.SetTracks(tracks)

	return nil
}

func (c *AddElement) String() string {
	return "add " + c.element.ID
}

// DeleteElement removes an element from a track
type DeleteElement struct {
	snapshot
	trackID   string
	elementID string
}

// NewDeleteElement creates a command removing elementID from trackID
func NewDeleteElement(store timeline.TrackStore, trackID, elementID string) *DeleteElement {
	return &DeleteElement{snapshot: snapshot{store: store}, trackID: trackID, elementID: elementID}
}

// Execute snapshots the track list and removes the element
func (c *DeleteElement) Execute() error {
	c.capture()

	return c.apply()
}

// Redo removes the element again
func (c *DeleteElement) Redo() error {
	return c.apply()
}

func (c *DeleteElement) apply() error {
	tracks, _, err := timeline.RemoveElement(c.store.Tracks(), c.trackID, c.elementID)
	if err != nil {
		return err
	}

	c.store.SetTracks(tracks)

	return nil
}

func (c *DeleteElement) String() string {
	return "delete " + c.elementID
}

// MoveElement moves an element to a position on the same or another track.
// The index is counted after the element has been taken off its source track.
type MoveElement struct {
	snapshot
	fromTrackID string
	elementID   string
	toTrackID   string
	index       int
}

// NewMoveElement creates a drag-move of elementID from fromTrackID to index on toTrackID
func NewMoveElement(store timeline.TrackStore, fromTrackID, elementID, toTrackID string, index int) *MoveElement {
	return &MoveElement{
		snapshot:    snapshot{store: store},
		fromTrackID: fromTrackID,
		elementID:   elementID,
		toTrackID:   toTrackID,
		index:       index,
	}
}

// Execute snapshots the track list and moves the element
func (c *MoveElement) Execute() error {
	c.capture()

	return c.apply()
}

// Redo moves the element again
func (c *MoveElement) Redo() error {
	return c.apply()
}

func (c *MoveElement) apply() error {
	tracks, el, err := timeline.RemoveElement(c.store.Tracks(), c.fromTrackID, c.elementID)
	if err != nil {
		return fmt.Errorf("move source: %w", err)
	}

	tracks, err = timeline.InsertElement(tracks, c.toTrackID, c.index, el)
	if err != nil {
		return fmt.Errorf("move destination: %w", err)
	}

	c.store.SetTracks(tracks)

	return nil
}

func (c *MoveElement) String() string {
	return fmt.Sprintf("move %s to %s", c.elementID, c.toTrackID)
}

// ReorderTrack moves a track so it lands on a drop target
type ReorderTrack struct {
	snapshot
	trackID string
	target  dropline.DropTarget
}

// NewReorderTrack creates a drag reorder of trackID onto target
func NewReorderTrack(store timeline.TrackStore, trackID string, target dropline.DropTarget) *ReorderTrack {
	return &ReorderTrack{snapshot: snapshot{store: store}, trackID: trackID, target: target}
}

// Execute snapshots the track list and moves the track
func (c *ReorderTrack) Execute() error {
	c.capture()

	return c.apply()
}

// Redo moves the track again
func (c *ReorderTrack) Redo() error {
	return c.apply()
}

func (c *ReorderTrack) apply() error {
	tracks := c.store.Tracks()

	to, ok := dropline.DestinationIndex(tracks, c.trackID, c.target)
	if !ok {
		return fmt.Errorf("reorder %q %s %q: %w", c.trackID, c.target.Edge, c.target.TrackID, timeline.ErrTrackNotFound)
	}

	c.store.SetTracks(timeline.MoveTrack(tracks, timeline.TrackIndex(tracks, c.trackID), to))

	return nil
}

func (c *ReorderTrack) String() string {
	return fmt.Sprintf("move track %s %s %s", c.trackID, c.target.Edge, c.target.TrackID)
}
