// ABOUTME: Imports audio files as timeline elements using their tag metadata
// ABOUTME: Reads tags concurrently on the worker pool and keeps the input order

// Package media turns files on disk into timeline elements.
package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"timeline-history/pool"
	"timeline-history/timeline"
)

// Info is the metadata an element is built from
type Info struct {
	Path   string
	Title  string
	Artist string
	Album  string
}

// DisplayName returns "Artist - Title", falling back to the title or the file name
func (i Info) DisplayName() string {
	title := strings.TrimSpace(i.Title)
	artist := strings.TrimSpace(i.Artist)

	switch {
	case title != "" && artist != "":
		return artist + " - " + title
	case title != "":
		return title
	default:
		return filepath.Base(i.Path)
	}
}

// ReadInfo reads the tags of an audio file
func ReadInfo(path string) (Info, error) {
	// Open the audio file
	file, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Read metadata tags
	metadata, err := tag.ReadFrom(file)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	return Info{
		Path:   path,
		Title:  metadata.Title(),
		Artist: metadata.Artist(),
		Album:  metadata.Album(),
	}, nil
}

// ImportAudio builds one audio element per path.
// Tags are read in parallel; the result keeps the order of paths and skips files
// that could not be read. Those failures are joined into the returned error, so a
// partial import returns both elements and an error.
func ImportAudio(paths []string, defaultDuration float64, newID func() string) ([]*timeline.Element, error) {
	p := pool.New(0)
	defer p.Close()

	infos, errs := pool.Map(p, paths, ReadInfo)

	elements := make([]*timeline.Element, 0, len(paths))

	var failed []error

	for i, info := range infos {
		if errs[i] != nil {
			failed = append(failed, fmt.Errorf("%s: %w", paths[i], errs[i]))
			continue
		}

		elements = append(elements, NewAudioElement(newID(), info, defaultDuration))
	}

	return elements, errors.Join(failed...)
}

// NewAudioElement builds an audio element for info
func NewAudioElement(id string, info Info, duration float64) *timeline.Element {
	return &timeline.Element{
		ID:        id,
		Type:      timeline.ElementAudio,
		Name:      info.DisplayName(),
		MediaPath: info.Path,
		Duration:  duration,
		Transform: timeline.DefaultTransform(),
		Opacity:   1,
	}
}

// Sequence lays fresh elements end to end starting at start.
// Only call it on elements that are not yet part of a track list.
func Sequence(elements []*timeline.Element, start float64) {
	for _, el := range elements {
		el.StartTime = start
		start = el.EndTime()
	}
}
