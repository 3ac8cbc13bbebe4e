// ABOUTME: Leaf commands that change fields of a single element
// ABOUTME: Generic field updates and text-only updates, both coalescable

package command

import "timeline-history/timeline"

// UpdateElement merges a partial update into one element of one track.
// If the track or element does not exist the store ends up with an unchanged list.
type UpdateElement struct {
	snapshot
	trackID   string
	elementID string
	updates   timeline.ElementUpdate
}

// NewUpdateElement creates an update for elementID on trackID
func NewUpdateElement(store timeline.TrackStore, trackID, elementID string, updates timeline.ElementUpdate) *UpdateElement {
	return &UpdateElement{
		snapshot:  snapshot{store: store},
		trackID:   trackID,
		elementID: elementID,
		updates:   updates,
	}
}

// Execute snapshots the track list and applies the update
func (c *UpdateElement) Execute() error {
	c.capture()
	c.apply()

	return nil
}

// Redo applies the update again without taking a new snapshot
func (c *UpdateElement) Redo() error {
	c.apply()

	return nil
}

func (c *UpdateElement) apply() {
	c.store.SetTracks(timeline.UpdateElement(c.store.Tracks(), c.trackID, c.elementID, c.updates.Apply))
}

func (c *UpdateElement) String() string {
	return "update " + c.elementID
}

// CoalesceKey identifies edits to the same element
func (c *UpdateElement) CoalesceKey() string {
	return "element:" + c.trackID + "/" + c.elementID
}

// Coalesce folds next into c. The result keeps c's snapshot, so undoing it
// returns to the state before c, and its payload applies both updates.
func (c *UpdateElement) Coalesce(next Command) (Command, bool) {
	n, ok := next.(*UpdateElement)
	if !ok || n.trackID != c.trackID || n.elementID != c.elementID {
		return nil, false
	}

	return &UpdateElement{
		snapshot:  c.snapshot,
		trackID:   c.trackID,
		elementID: c.elementID,
		updates:   c.updates.Merge(n.updates),
	}, true
}

// UpdateTextElement merges text-only fields into one text element.
// Elements whose variant is not text are left alone.
type UpdateTextElement struct {
	snapshot
	trackID   string
	elementID string
	updates   timeline.TextUpdate
}

// NewUpdateTextElement creates a text update for elementID on trackID
func NewUpdateTextElement(store timeline.TrackStore, trackID, elementID string, updates timeline.TextUpdate) *UpdateTextElement {
	return &UpdateTextElement{
		snapshot:  snapshot{store: store},
		trackID:   trackID,
		elementID: elementID,
		updates:   updates,
	}
}

// Execute snapshots the track list and applies the text update
func (c *UpdateTextElement) Execute() error {
	c.capture()
	c.apply()

	return nil
}

// Redo applies the text update again without taking a new snapshot
func (c *UpdateTextElement) Redo() error {
	c.apply()

	return nil
}

func (c *UpdateTextElement) apply() {
	c.store.SetTracks(timeline.UpdateElement(c.store.Tracks(), c.trackID, c.elementID, c.updates.Apply))
}

func (c *UpdateTextElement) String() string {
	return "edit text " + c.elementID
}

// CoalesceKey identifies text edits to the same element
func (c *UpdateTextElement) CoalesceKey() string {
	return "text:" + c.trackID + "/" + c.elementID
}

// Coalesce folds next into c, keeping c's snapshot
func (c *UpdateTextElement) Coalesce(next Command) (Command, bool) {
	n, ok := next.(*UpdateTextElement)
	if !ok || n.trackID != c.trackID || n.elementID != c.elementID {
		return nil, false
	}

	return &UpdateTextElement{
		snapshot:  c.snapshot,
		trackID:   c.trackID,
		elementID: c.elementID,
		updates:   c.updates.Merge(n.updates),
	}, true
}
