// ABOUTME: Thread-safe config holder and file watcher for live config reloads
// ABOUTME: Watches the config directory with fsnotify and debounces bursts of writes

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceDuration is how long Watch waits after the last write before reloading
const DebounceDuration = 100 * time.Millisecond

// Shared wraps Config with a mutex for thread-safe access between the watcher and TUI
type Shared struct {
	mu     sync.RWMutex
	config Config
}

// NewShared creates a holder with an initial config
func NewShared(config Config) *Shared {
	return &Shared{config: config}
}

// Get returns a copy of the current config (thread-safe read)
func (s *Shared) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Update updates the config (thread-safe write)
func (s *Shared) Update(config Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = config
}

// Watch reloads path whenever it is written and passes the result to onChange.
// The parent directory is watched so editors that save by rename are picked up.
// onChange runs on the watcher goroutine; watching stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config, error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go watchLoop(ctx, watcher, absPath, onChange)

	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func(Config, error)) {
	defer watcher.Close()

	target := filepath.Base(path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)

	reload := func() {
		onChange(LoadConfig(path))
	}

	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only care about events for our specific file
			if filepath.Base(event.Name) != target {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}

			// Debounce: wait for atomic writes to complete
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(DebounceDuration, reload)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			onChange(Config{}, fmt.Errorf("config watcher: %w", err))
		}
	}
}
