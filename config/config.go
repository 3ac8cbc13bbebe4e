// ABOUTME: Configuration management for history depth, timeline layout and editor steps
// ABOUTME: Handles loading/saving TOML config files with fallback to defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned when a config file parses but holds unusable values
var ErrInvalid = errors.New("invalid config")

// Config holds all settings read from the config file
type Config struct {
	History HistoryConfig `toml:"history"`
	Layout  LayoutConfig  `toml:"layout"`
	Editor  EditorConfig  `toml:"editor"`
}

// HistoryConfig controls the undo/redo stacks
type HistoryConfig struct {
	MaxDepth         int `toml:"max_depth"`
	CoalesceWindowMS int `toml:"coalesce_window_ms"` // 0 disables coalescing
}

// CoalesceWindow returns the coalescing window as a duration
func (h HistoryConfig) CoalesceWindow() time.Duration {
	return time.Duration(h.CoalesceWindowMS) * time.Millisecond
}

// LayoutConfig gives track heights in terminal rows
type LayoutConfig struct {
	HeaderHeight  float64            `toml:"header_height"`
	TrackGap      float64            `toml:"track_gap"`
	DefaultHeight float64            `toml:"default_height"`
	TrackHeights  map[string]float64 `toml:"track_heights"` // keyed by track type
}

// EditorConfig holds the step sizes of keyboard edits
type EditorConfig struct {
	NudgeSeconds       float64 `toml:"nudge_seconds"`
	OpacityStep        float64 `toml:"opacity_step"`
	DefaultClipSeconds float64 `toml:"default_clip_seconds"`
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/timeline-history/config.toml
func GetConfigPath() string {
	// First try current directory
	if _, err := os.Stat("./timeline-history.toml"); err == nil {
		return "./timeline-history.toml"
	}

	// Then try ~/.config/timeline-history/config.toml
	home, err := os.UserHomeDir()
	if err != nil {
		return "./timeline-history.toml"
	}

	return filepath.Join(home, ".config", "timeline-history", "config.toml")
}

// LoadConfig loads configuration from a TOML file
// If the file doesn't exist or fails to load, returns default config
func LoadConfig(path string) (Config, error) {
	// Try to read the file
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	// Missing keys keep their defaults
	config := DefaultConfig()
	if err := toml.Unmarshal(data, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	// Encode config as TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		History: HistoryConfig{
			MaxDepth:         50,
			CoalesceWindowMS: 750,
		},
		Layout: LayoutConfig{
			HeaderHeight:  1,
			TrackGap:      0,
			DefaultHeight: 2,
			TrackHeights: map[string]float64{
				"media": 3,
				"text":  1,
				"audio": 2,
			},
		},
		Editor: EditorConfig{
			NudgeSeconds:       0.1,
			OpacityStep:        0.05,
			DefaultClipSeconds: 5.0,
		},
	}
}

// Validate reports values the editor cannot work with
func (c Config) Validate() error {
	var errs []error

	if c.History.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: history.max_depth must be positive, got %d", ErrInvalid, c.History.MaxDepth))
	}
	if c.History.CoalesceWindowMS < 0 {
		errs = append(errs, fmt.Errorf("%w: history.coalesce_window_ms must not be negative", ErrInvalid))
	}
	if c.Layout.HeaderHeight < 0 || c.Layout.TrackGap < 0 {
		errs = append(errs, fmt.Errorf("%w: layout header_height and track_gap must not be negative", ErrInvalid))
	}
	if c.Layout.DefaultHeight <= 0 {
		errs = append(errs, fmt.Errorf("%w: layout.default_height must be positive", ErrInvalid))
	}
	for name, h := range c.Layout.TrackHeights {
		if h <= 0 {
			errs = append(errs, fmt.Errorf("%w: layout.track_heights.%s must be positive", ErrInvalid, name))
		}
	}

	return errors.Join(errs...)
}
