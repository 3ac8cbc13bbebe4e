// ABOUTME: In-memory holder of the authoritative track list
// ABOUTME: Atomic replace with change notification for the UI and autosave

package timeline

import "sync"

// TrackStore is the store contract commands work against.
// Tracks returns the current list, which callers must treat as read-only.
type TrackStore interface {
	Tracks() []*Track
	SetTracks(tracks []*Track)
}

// Store holds the current track list.
// Mutations are expected from a single goroutine; the lock only makes
// reads from other goroutines (watchers, autosave) safe.
type Store struct {
	mu        sync.RWMutex
	tracks    []*Track
	listeners []func([]*Track)
}

// NewStore creates a store seeded with tracks
func NewStore(tracks []*Track) *Store {
	return &Store{tracks: tracks}
}

// Tracks returns the current track list
func (s *Store) Tracks() []*Track {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.tracks
}

// SetTracks atomically replaces the track list and notifies listeners
func (s *Store) SetTracks(tracks []*Track) {
	s.mu.Lock()
	s.tracks = tracks
	listeners := s.listeners
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(tracks)
	}
}

// OnChange registers fn to run after every SetTracks
func (s *Store) OnChange(fn func([]*Track)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners = append(s.listeners, fn)
}
