// ABOUTME: Timeline document reading and writing in YAML or JSON
// ABOUTME: Validates on load, keeps a .bak of the previous file on save, optional autosave

// Package document persists track lists to disk.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"timeline-history/timeline"
)

// Version is the document format version written by Save
const Version = 1

var (
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrUnsupportedVersion = errors.New("unsupported document version")
)

// file is the on-disk layout
type file struct {
	Version int               `json:"version" yaml:"version"`
	Tracks  []*timeline.Track `json:"tracks"  yaml:"tracks"`
}

// Format is a serialization format chosen by file extension
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// FormatFor picks the format for path from its extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and validates a timeline document
func Load(path string) ([]*timeline.Track, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	tracks, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return tracks, nil
}

// Decode parses and validates document bytes
func Decode(data []byte, format Format) ([]*timeline.Track, error) {
	var doc file

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	// Files without a version predate versioning and share the v1 layout
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	if err := timeline.Validate(doc.Tracks); err != nil {
		return nil, fmt.Errorf("invalid timeline: %w", err)
	}

	return doc.Tracks, nil
}

// Encode serializes tracks in the given format
func Encode(tracks []*timeline.Track, format Format) ([]byte, error) {
	doc := file{Version: Version, Tracks: tracks}

	if format == FormatJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}

		return append(data, '\n'), nil
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	return buf.Bytes(), nil
}

// Save writes tracks to path.
// Creates a backup (.bak) of the existing file before overwriting
func Save(path string, tracks []*timeline.Track) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(tracks, format)
	if err != nil {
		return err
	}

	// Create backup if file exists
	if _, err := os.Stat(path); err == nil {
		backupPath := path + ".bak"
		if err := os.Rename(path, backupPath); err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	return nil
}

// Autosaver writes the store to disk while it has unsaved changes
type Autosaver struct {
	store   *timeline.Store
	path    string
	onError func(error)
	dirty   atomic.Bool
}

// NewAutosaver starts tracking changes to store
func NewAutosaver(store *timeline.Store, path string, onError func(error)) *Autosaver {
	a := &Autosaver{store: store, path: path, onError: onError}

	store.OnChange(func([]*timeline.Track) {
		a.dirty.Store(true)
	})

	return a
}

// Flush saves the store if it changed since the last save
func (a *Autosaver) Flush() {
	if !a.dirty.Swap(false) {
		return
	}

	if err := Save(a.path, a.store.Tracks()); err != nil {
		// Keep the change pending so the next flush retries
		a.dirty.Store(true)

		if a.onError != nil {
			a.onError(fmt.Errorf("autosave: %w", err))
		}
	}
}

// Run flushes every interval and once more when ctx is done
func (a *Autosaver) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Flush()
			return
		case <-ticker.C:
			a.Flush()
		}
	}
}
