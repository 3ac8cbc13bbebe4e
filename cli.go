// ABOUTME: CLI mode implementation for non-interactive timeline edits
// ABOUTME: Imports audio files as one undoable batch, prints the timeline and writes the result

package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"text/tabwriter"

	"timeline-history/command"
	"timeline-history/config"
	"timeline-history/document"
	"timeline-history/history"
	"timeline-history/media"
	"timeline-history/timeline"
)

// ErrNoAudioTrack is returned when an import has nowhere to go
var ErrNoAudioTrack = errors.New("no audio track to import into")

// RunOptions contains command-line options for CLI mode
type RunOptions struct {
	DocumentPath string
	OutputPath   string
	DryRun       bool
	ImportPaths  []string // Audio files to append
	TrackID      string   // Import target; the first audio track when empty
}

// RunCLI loads the timeline, applies any import, prints it and saves it
func RunCLI(opts RunOptions, cfg config.Config, out io.Writer) error {
	tracks, err := LoadDocument(opts.DocumentPath)
	if err != nil {
		return err
	}

	store := timeline.NewStore(tracks)
	hist := history.NewManager(cfg.History.MaxDepth, history.WithLogger(debugLog))

	if len(opts.ImportPaths) > 0 {
		n, err := importAudio(store, hist, opts.TrackID, opts.ImportPaths, cfg.Editor.DefaultClipSeconds)
		if err != nil && n == 0 {
			return err
		}

		if err != nil {
			log.Printf("Warning: some files were skipped: %v", err)
		}

		if _, err := fmt.Fprintf(out, "Imported %d audio clips\n\n", n); err != nil {
			log.Printf("Warning: failed to write summary: %v", err)
		}
	}

	printTimeline(out, store.Tracks())

	if !hist.CanUndo() {
		return nil
	}

	if opts.DryRun {
		fmt.Fprintln(out, "\n--dry-run mode: timeline not modified")

		return nil
	}

	outputPath := opts.DocumentPath
	if opts.OutputPath != "" {
		outputPath = opts.OutputPath
	}

	fmt.Fprintf(out, "\nWriting timeline to: %s\n", outputPath)

	if err := document.Save(outputPath, store.Tracks()); err != nil {
		return fmt.Errorf("failed to write timeline: %w", err)
	}

	fmt.Fprintln(out, "Done!")

	return nil
}

// importAudio appends the readable files to the target track as a single batch.
// It returns how many clips were added; err carries per-file failures.
func importAudio(store *timeline.Store, hist *history.Manager, trackID string, paths []string, clipSeconds float64) (int, error) {
	track, err := importTarget(store.Tracks(), trackID)
	if err != nil {
		return 0, err
	}

	elements, readErr := media.ImportAudio(paths, clipSeconds, timeline.NewIDFunc(store.Tracks(), "audio"))
	if len(elements) == 0 {
		return 0, fmt.Errorf("nothing imported: %w", readErr)
	}

	media.Sequence(elements, track.End())

	cmds := make([]command.Command, len(elements))
	for i, el := range elements {
		cmds[i] = command.NewAddElement(store, track.ID, len(track.Elements)+i, el)
	}

	batch, err := command.NewBatch(cmds...)
	if err != nil {
		return 0, err
	}

	if err := hist.Execute(batch); err != nil {
		if undoErr := batch.Undo(); undoErr != nil {
			debugf("[IMPORT] rollback failed: %v", undoErr)
		}

		return 0, err
	}

	debugf("[IMPORT] %d clips onto %s", batch.Len(), track.ID)

	return len(elements), readErr
}

// importTarget picks the track named by trackID, or the first audio track
func importTarget(tracks []*timeline.Track, trackID string) (*timeline.Track, error) {
	if trackID == "" {
		for _, t := range tracks {
			if t.Type == timeline.TrackAudio {
				return t, nil
			}
		}

		return nil, ErrNoAudioTrack
	}

	track, ok := timeline.FindTrack(tracks, trackID)
	if !ok {
		return nil, fmt.Errorf("%s: %w", trackID, timeline.ErrTrackNotFound)
	}

	if track.Type != timeline.TrackAudio {
		return nil, fmt.Errorf("%s is a %s track: %w", trackID, track.Type, timeline.ErrIncompatibleTrack)
	}

	return track, nil
}

// printTimeline writes one row per element, grouped by track
func printTimeline(out io.Writer, tracks []*timeline.Track) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "#\tTrack\tType\tID\tName\tStart\tEnd"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "---\t-----\t----\t--\t----\t-----\t---"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	for i, track := range tracks {
		name := track.Name
		if name == "" {
			name = track.ID
		}

		if len(track.Elements) == 0 {
			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t-\t(empty)\t\t\n", i+1, truncate(name, 20), track.Type); err != nil {
				log.Printf("Warning: failed to write track %d: %v", i+1, err)
			}

			continue
		}

		for _, el := range track.Elements {
			label := el.Name
			if el.IsText() {
				label = fmt.Sprintf("%q", el.Text.Content)
			}

			if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				truncate(name, 20),
				el.Type,
				truncate(el.ID, 16),
				truncate(label, 30),
				FormatTimecode(el.StartTime),
				FormatTimecode(el.EndTime()),
			); err != nil {
				log.Printf("Warning: failed to write element %s: %v", el.ID, err)
			}
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}
}
