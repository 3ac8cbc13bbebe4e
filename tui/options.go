// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters and injected dependencies for running the TUI

package tui

import (
	"log/slog"

	"timeline-history/timeline"
)

// Options contains configuration for running the TUI
type Options struct {
	DocumentPath string       // Path to input timeline
	OutputPath   string       // Path for saving (defaults to DocumentPath)
	ConfigPath   string       // Config file to watch for live layout changes
	DryRun       bool         // If true, don't save changes to disk
	Logger       *slog.Logger // Debug logger handed to the history manager; nil discards
	Autosave     bool         // Periodically save to a sibling .autosave file
}

// Dependencies holds the I/O functions the TUI calls.
// Kept as plain functions so tests can swap them out.
type Dependencies struct {
	Load   func(path string) ([]*timeline.Track, error)
	Save   func(path string, tracks []*timeline.Track) error
	Copy   func(text string) error // clipboard write
	Debugf func(format string, args ...any)
}
