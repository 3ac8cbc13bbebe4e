// ABOUTME: Tests for CLI mode: audio import, target selection and timeline output
// ABOUTME: Builds small tagged MP3 files on disk so imports run through real tag parsing

package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"timeline-history/config"
	"timeline-history/document"
	"timeline-history/history"
	"timeline-history/timeline"
)

// writeTaggedMP3 writes a file holding only an ID3v2.3 tag with title and artist
func writeTaggedMP3(t *testing.T, path, title, artist string) {
	t.Helper()

	var frames []byte

	for _, f := range []struct{ id, text string }{{"TIT2", title}, {"TPE1", artist}} {
		data := append([]byte{0}, f.text...) // ISO-8859-1
		frames = append(frames, f.id...)
		frames = binary.BigEndian.AppendUint32(frames, uint32(len(data)))
		frames = append(frames, 0, 0)
		frames = append(frames, data...)
	}

	frames = append(frames, make([]byte, 64)...) // padding

	size := len(frames)
	header := []byte{'I', 'D', '3', 3, 0, 0,
		byte((size >> 21) & 0x7f), byte((size >> 14) & 0x7f), byte((size >> 7) & 0x7f), byte(size & 0x7f)}

	if err := os.WriteFile(path, append(header, frames...), 0644); err != nil {
		t.Fatal(err)
	}
}

func createTestTimeline() []*timeline.Track {
	return []*timeline.Track{
		{ID: "video", Name: "Video", Type: timeline.TrackMedia, Elements: []*timeline.Element{
			{ID: "clip-1", Type: timeline.ElementMedia, Name: "Opening", Duration: 4, Opacity: 1},
		}},
		{ID: "titles", Name: "Titles", Type: timeline.TrackText},
		{ID: "music", Name: "Music", Type: timeline.TrackAudio, Elements: []*timeline.Element{
			{ID: "audio-1", Type: timeline.ElementAudio, Name: "Bed", Duration: 3, Opacity: 1},
		}},
	}
}

// writeTestTimeline saves the test timeline and returns its path
func writeTestTimeline(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "cut.yaml")
	if err := document.Save(path, createTestTimeline()); err != nil {
		t.Fatal(err)
	}

	return path
}

func TestRunCLI_PrintsWithoutSaving(t *testing.T) {
	dir := t.TempDir()
	path := writeTestTimeline(t, dir)

	var out bytes.Buffer
	if err := RunCLI(RunOptions{DocumentPath: path}, config.DefaultConfig(), &out); err != nil {
		t.Fatalf("RunCLI failed: %v", err)
	}

	for _, want := range []string{"clip-1", "Opening", "audio-1", "(empty)", "0:04.00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("Output missing %q:\n%s", want, out.String())
		}
	}

	if strings.Contains(out.String(), "Writing timeline") {
		t.Error("Unchanged timeline should not be written")
	}

	if _, err := os.Stat(path + ".bak"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("No backup expected without a save, stat err = %v", err)
	}
}

func TestRunCLI_ImportAppendsClips(t *testing.T) {
	dir := t.TempDir()
	path := writeTestTimeline(t, dir)
	output := filepath.Join(dir, "out.json")

	first := filepath.Join(dir, "first.mp3")
	second := filepath.Join(dir, "second.mp3")
	junk := filepath.Join(dir, "junk.mp3")

	writeTaggedMP3(t, first, "Intro", "Band")
	writeTaggedMP3(t, second, "Outro", "Band")

	if err := os.WriteFile(junk, []byte("definitely not audio"), 0644); err != nil {
		t.Fatal(err)
	}

	opts := RunOptions{
		DocumentPath: path,
		OutputPath:   output,
		ImportPaths:  []string{first, junk, second},
		TrackID:      "music",
	}

	var out bytes.Buffer
	if err := RunCLI(opts, config.DefaultConfig(), &out); err != nil {
		t.Fatalf("RunCLI failed: %v", err)
	}

	if !strings.Contains(out.String(), "Imported 2 audio clips") {
		t.Errorf("Expected import summary, got:\n%s", out.String())
	}

	tracks, err := document.Load(output)
	if err != nil {
		t.Fatalf("Failed to reload output: %v", err)
	}

	music, ok := timeline.FindTrack(tracks, "music")
	if !ok {
		t.Fatal("music track missing from output")
	}

	if len(music.Elements) != 3 {
		t.Fatalf("Expected 3 elements on music, got %d", len(music.Elements))
	}

	want := []struct {
		id    string
		name  string
		start float64
	}{
		{"audio-1", "Bed", 0},
		{"audio-2", "Band - Intro", 3},
		{"audio-3", "Band - Outro", 8},
	}

	for i, w := range want {
		el := music.Elements[i]
		if el.ID != w.id || el.Name != w.name || el.StartTime != w.start {
			t.Errorf("Element %d = {%s %q %.1f}, want {%s %q %.1f}", i, el.ID, el.Name, el.StartTime, w.id, w.name, w.start)
		}
	}

	// Input is untouched when writing elsewhere
	original, err := document.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if n := len(original[2].Elements); n != 1 {
		t.Errorf("Input should keep 1 music element, got %d", n)
	}
}

func TestRunCLI_ImportDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeTestTimeline(t, dir)

	clip := filepath.Join(dir, "clip.mp3")
	writeTaggedMP3(t, clip, "Sting", "Band")

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer

	opts := RunOptions{DocumentPath: path, DryRun: true, ImportPaths: []string{clip}}
	if err := RunCLI(opts, config.DefaultConfig(), &out); err != nil {
		t.Fatalf("RunCLI failed: %v", err)
	}

	if !strings.Contains(out.String(), "--dry-run mode") {
		t.Errorf("Expected dry-run notice, got:\n%s", out.String())
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(before, after) {
		t.Error("Dry run should not modify the timeline file")
	}
}

func TestRunCLI_ImportNothingReadable(t *testing.T) {
	dir := t.TempDir()
	path := writeTestTimeline(t, dir)

	opts := RunOptions{DocumentPath: path, ImportPaths: []string{filepath.Join(dir, "missing.mp3")}}

	err := RunCLI(opts, config.DefaultConfig(), &bytes.Buffer{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected wrapped not-exist error, got %v", err)
	}
}

func TestImportTarget(t *testing.T) {
	tracks := createTestTimeline()

	tests := []struct {
		name    string
		tracks  []*timeline.Track
		trackID string
		wantID  string
		wantErr error
	}{
		{"first audio track by default", tracks, "", "music", nil},
		{"named audio track", tracks, "music", "music", nil},
		{"unknown track", tracks, "nope", "", timeline.ErrTrackNotFound},
		{"non-audio track", tracks, "video", "", timeline.ErrIncompatibleTrack},
		{"no audio track", tracks[:2], "", "", ErrNoAudioTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			track, err := importTarget(tt.tracks, tt.trackID)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("importTarget() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr == nil && track.ID != tt.wantID {
				t.Errorf("importTarget() = %s, want %s", track.ID, tt.wantID)
			}
		})
	}
}

func TestImportAudio_IsOneUndoStep(t *testing.T) {
	dir := t.TempDir()

	var paths []string

	for _, name := range []string{"a", "b", "c"} {
		p := filepath.Join(dir, name+".mp3")
		writeTaggedMP3(t, p, name, "Band")
		paths = append(paths, p)
	}

	original := createTestTimeline()
	store := timeline.NewStore(original)
	hist := history.NewManager(history.DefaultMaxSize)

	n, err := importAudio(store, hist, "", paths, 2)
	if err != nil {
		t.Fatalf("importAudio failed: %v", err)
	}

	if n != 3 {
		t.Errorf("Expected 3 clips, got %d", n)
	}

	if hist.UndoSize() != 1 {
		t.Errorf("Import should be one history entry, got %d", hist.UndoSize())
	}

	if ok, err := hist.Undo(); !ok || err != nil {
		t.Fatalf("Undo() = %v, %v", ok, err)
	}

	if !slices.Equal(store.Tracks(), original) {
		t.Error("Undo should restore the original track list")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a.mp3", []string{"a.mp3"}},
		{"a.mp3, b.flac ,,", []string{"a.mp3", "b.flac"}},
	}

	for _, tt := range tests {
		if got := splitList(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := config.DefaultConfig()
	cfg.Editor.NudgeSeconds = 0.25

	var out bytes.Buffer
	if err := WriteConfig(path, cfg, &out); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	if !strings.Contains(out.String(), path) {
		t.Errorf("Expected the path in the output, got %q", out.String())
	}

	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !reflect.DeepEqual(loaded, cfg) {
		t.Errorf("Round-tripped config = %+v, want %+v", loaded, cfg)
	}
}

func TestWriteConfig_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := config.DefaultConfig()
	cfg.History.MaxDepth = 0

	if err := WriteConfig(path, cfg, &bytes.Buffer{}); !errors.Is(err, config.ErrInvalid) {
		t.Errorf("Expected ErrInvalid, got %v", err)
	}

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Invalid config should not be written, stat err = %v", err)
	}
}
