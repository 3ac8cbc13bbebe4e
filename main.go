// ABOUTME: Entry point for timeline-history application
// ABOUTME: Handles command-line parsing, profiling, and routing to CLI or TUI modes

// Package main provides the entry point for timeline-history, a terminal timeline editor with undo history.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"

	"github.com/atotto/clipboard"

	"timeline-history/config"
	"timeline-history/document"
	"timeline-history/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile := flag.String("memprofile", "", "write memory profile to file")
	visual := flag.Bool("visual", true, "edit interactively; -visual=false prints the timeline instead")
	debug := flag.Bool("debug", false, "enable debug logging to "+debugLogFile)
	dryRun := flag.Bool("dry-run", false, "preview edits without writing changes")
	output := flag.String("output", "", "write the timeline to this file (default: overwrite input)")
	configPath := flag.String("config", "", "config file (default: ./timeline-history.toml or ~/.config/timeline-history/config.toml)")
	importFiles := flag.String("import", "", "comma-separated audio files to append without opening the editor")
	trackID := flag.String("track", "", "audio track to import into (default: first audio track)")
	autosave := flag.Bool("autosave", true, "periodically save a sibling .autosave copy while editing")
	writeCfg := flag.Bool("write-config", false, "write the effective config to the config path and exit")
	flag.Parse()

	cfgPath := *configPath
	if cfgPath == "" {
		cfgPath = config.GetConfigPath()
	}

	cfg := LoadConfig(cfgPath)

	if *writeCfg {
		if err := WriteConfig(cfgPath, cfg, os.Stdout); err != nil {
			log.Printf("Config error: %v", err)

			return 1
		}

		return 0
	}

	args := flag.Args()
	if len(args) != 1 {
		fmt.Println("Usage: timeline-history [flags] <timeline.yaml|timeline.json>")
		fmt.Println("Example: timeline-history -import intro.mp3,outro.flac -track music cut.yaml")
		fmt.Println("\nFlags:")
		flag.PrintDefaults()

		return 1
	}

	documentPath := args[0]

	if *cpuprofile != "" {
		stopCPUProfile := setupCPUProfile(*cpuprofile)
		defer stopCPUProfile()
	}

	if *memprofile != "" {
		defer writeMemoryProfile(*memprofile)
	}

	if *debug {
		closeLog, err := SetupDebugLog(debugLogFile)
		if err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}

		defer closeLog()
	}

	if *visual && *importFiles == "" {
		opts := tui.Options{
			DocumentPath: documentPath,
			OutputPath:   *output,
			ConfigPath:   cfgPath,
			DryRun:       *dryRun,
			Logger:       debugLog,
			Autosave:     *autosave,
		}

		deps := tui.Dependencies{
			Load:   LoadDocument,
			Save:   document.Save,
			Copy:   clipboard.WriteAll,
			Debugf: debugf,
		}

		if err := tui.Run(opts, config.NewShared(cfg), deps); err != nil {
			log.Printf("TUI error: %v", err)

			return 1
		}

		return 0
	}

	if err := RunCLI(RunOptions{
		DocumentPath: documentPath,
		OutputPath:   *output,
		DryRun:       *dryRun,
		ImportPaths:  splitList(*importFiles),
		TrackID:      *trackID,
	}, cfg, os.Stdout); err != nil {
		log.Printf("CLI error: %v", err)

		return 1
	}

	return 0
}

// splitList splits a comma-separated flag value, dropping blanks
func splitList(s string) []string {
	var out []string

	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// setupCPUProfile starts CPU profiling, returns cleanup function
func setupCPUProfile(filename string) func() {
	f, err := os.Create(filename)
	if err != nil {
		log.Fatalf("could not create CPU profile: %v", err)
	}

	if err := pprof.StartCPUProfile(f); err != nil {
		_ = f.Close()
		log.Fatalf("could not start CPU profile: %v", err)
	}

	return func() {
		pprof.StopCPUProfile()

		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close CPU profile: %v", err)
		}
	}
}

// writeMemoryProfile writes memory profile to file
func writeMemoryProfile(filename string) {
	f, err := os.Create(filename)
	if err != nil {
		log.Printf("could not create memory profile: %v", err)

		return
	}

	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: failed to close memory profile: %v", err)
		}
	}()

	runtime.GC()

	if err := pprof.WriteHeapProfile(f); err != nil {
		log.Printf("could not write memory profile: %v", err)
	}
}
