// ABOUTME: Shared initialization code for CLI and TUI modes
// ABOUTME: Provides timeline loading, config setup and the debug logger

package main

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/mattn/go-runewidth"

	"timeline-history/config"
	"timeline-history/document"
	"timeline-history/timeline"
)

const debugLogFile = "timeline-history-debug.log"

// debugLog discards everything until SetupDebugLog installs a file handler
var debugLog = slog.New(slog.DiscardHandler)

// LoadDocument loads and validates a timeline file
func LoadDocument(path string) ([]*timeline.Track, error) {
	tracks, err := document.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load timeline: %w", err)
	}

	debugf("[LOAD] %s: %d tracks", path, len(tracks))

	return tracks, nil
}

// LoadConfig reads the config file, falling back to defaults when it is unusable
func LoadConfig(path string) config.Config {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Printf("Warning: using default config: %v", err)
	}

	return cfg
}

// WriteConfig saves cfg to path so it can be edited by hand
func WriteConfig(path string, cfg config.Config, out io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.SaveConfig(path, cfg); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "Wrote config to: %s\n", path)

	return err
}

// SetupDebugLog routes debug logging to filename and returns a function closing it
func SetupDebugLog(filename string) (func(), error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close debug log: %v", err)
		}
	}, nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...any) {
	debugLog.Debug(fmt.Sprintf(format, args...))
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}

// truncate shortens s to maxLen cells, adding "..." if needed
func truncate(s string, maxLen int) string {
	return runewidth.Truncate(s, maxLen, "...")
}
