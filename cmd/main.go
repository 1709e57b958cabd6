package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"ftanalyzer/classifier"
	"ftanalyzer/config"
	"ftanalyzer/diag"
	"ftanalyzer/logger"
	"ftanalyzer/organizer"
	"ftanalyzer/output"
	"ftanalyzer/scanner"
	"ftanalyzer/signature"
	"ftanalyzer/systeminfo"
	"ftanalyzer/tracing"
	"ftanalyzer/update"
	"ftanalyzer/utils"
	"ftanalyzer/version"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)
	os.Exit(run(cfg))
}

func run(cfg *config.Config) int {
	if err := tracing.Start(""); err != nil {
		logger.Warnf("Failed to start trace: %v", err)
	} else {
		defer tracing.Stop()
	}

	if cfg.TraceFlight {
		if err := tracing.StartFlightRecorder(cfg.TraceFlightMaxBytes, cfg.TraceFlightMinAge); err != nil {
			logger.Warnf("Failed to start flight recorder: %v", err)
		} else {
			defer func() {
				if err := tracing.WriteFlightRecorder(cfg.TraceFlightFile); err != nil {
					logger.Warnf("Failed to write flight recorder: %v", err)
				}
				tracing.StopFlightRecorder()
			}()
		}
	}

	if cfg.CheckUpdates {
		if latest, notes, newer, err := update.CheckForUpdate(version.Version); err == nil && newer {
			if strings.Contains(strings.ToLower(notes), "security") {
				logger.Warnf("Update available: %s -> %s (security fixes included)", version.Version, latest)
			} else {
				logger.Infof("Update available: %s -> %s", version.Version, latest)
			}
		}
	}

	if cfg.Path == "" {
		return boundaryFailure(cfg.JSONOutput, "No directory specified")
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		return boundaryFailure(cfg.JSONOutput, "Path does not exist")
	}

	table := signature.New()
	if cfg.SignaturesFile != "" {
		if rules, err := signature.LoadFile(cfg.SignaturesFile); err != nil {
			logger.Warnf("Could not load custom signatures from %s: %v", cfg.SignaturesFile, err)
		} else {
			table.Append(rules...)
			logger.Infof("Loaded %d custom signatures from %s", len(rules), cfg.SignaturesFile)
		}
	}

	cls := classifier.New(table, classifier.Options{
		ReadMode:     cfg.ContentReadMode,
		MmapMinSize:  cfg.MmapMinSize,
		DetectMime:   cfg.DetectMime,
		ContentHints: cfg.ContentHints,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go cancelOnSignal(cancel, sigCh)

	paths, err := scanner.Enumerate(ctx, cfg.Path, scanner.EnumerateOptions{
		Recursive:   cfg.Recursive,
		MaxFileSize: cfg.MaxFileSize,
		Matcher:     utils.NewPatternMatcher(cfg.IncludePatterns, cfg.ExcludePatterns),
	})
	if err != nil {
		return boundaryFailure(cfg.JSONOutput, fmt.Sprintf("Error reading directory: %v", err))
	}
	if len(paths) == 0 {
		if cfg.JSONOutput {
			_ = output.WriteJSON(os.Stdout, output.EmptyDocument{Error: "No files found", Files: []classifier.Result{}})
		} else {
			fmt.Println("No files found to analyze.")
		}
		return 0
	}

	workers := scanner.Workers(cfg.Sequential, len(paths))

	var sysInfo *systeminfo.SystemInfo
	if cfg.CollectSystemInfo {
		sysInfo = systeminfo.Collect()
	}

	var writer *output.Writer
	if cfg.OutputFileName != "" {
		writer, err = output.NewWriter(cfg, sysInfo)
		if err != nil {
			logger.Errorf("Failed to initialize output file: %v", err)
			return 1
		}
		defer writer.Close()
	}

	pipeline := scanner.NewPipeline(cls, cfg)
	prog := scanner.NewProgress(len(paths))

	if cfg.DiagSlowScanThreshold > 0 || cfg.DiagGoroutineLeak {
		watchdog := diag.NewController(diag.Options{
			StallThreshold: cfg.DiagSlowScanThreshold,
			Dir:            cfg.DiagDir,
			GoroutineLeak:  cfg.DiagGoroutineLeak,
			CompletedFn:    prog.Completed,
			DumpFlightRecorder: func(path string) error {
				if !cfg.TraceFlight {
					return nil
				}
				return tracing.WriteFlightRecorder(path)
			},
		})
		watchdog.Start(ctx)
		defer watchdog.Close()
	}

	startTime := time.Now()
	scan := output.ScanInfo{
		Path:      cfg.Path,
		Recursive: cfg.Recursive,
		StartTime: startTime.UTC().Format(time.RFC3339),
	}

	var results []classifier.Result
	if cfg.JSONOutput {
		results, err = pipeline.Run(ctx, paths, workers, prog)
	} else {
		output.Banner(os.Stdout, cfg.Path, cfg.Recursive, workers, len(paths))
		results, err = pipeline.RunWithProgress(ctx, paths, workers, prog)
	}
	if err != nil {
		logger.Errorf("Scan aborted: %v", err)
		return 1
	}

	elapsed := time.Since(startTime).Seconds()
	scan.EndTime = time.Now().UTC().Format(time.RFC3339)
	summary := scanner.Summarize(results, elapsed, workers)

	var organizedDir string
	if cfg.Organize {
		base := organizeBase(cfg.Path)
		copied := organizer.Organize(results, base)
		organizedDir = organizer.Dir(base)
		logger.Infof("Organized %d files into %s", copied, organizedDir)
	}

	doc := output.BuildDocument(results, summary, scan, sysInfo)
	if writer != nil {
		for i := range results {
			writer.WriteResult(&results[i])
		}
		writer.WriteSummary(doc)
	}

	if cfg.JSONOutput {
		if err := output.WriteJSON(os.Stdout, doc); err != nil {
			logger.Errorf("Failed to render report: %v", err)
			return 1
		}
	} else {
		output.Report(os.Stdout, results, summary, organizedDir)
	}
	return 0
}

// cancelOnSignal cancels the scan context on the first interrupt.
// Workers notice between files, so shutdown is prompt but never tears
// a file read in half.
func cancelOnSignal(cancel context.CancelFunc, sigCh <-chan os.Signal) {
	<-sigCh
	logger.Info("Interrupt signal received. Shutting down...")
	cancel()
}

// organizeBase picks the root the OrganizedFiles tree is created
// under: the scanned directory itself, or the parent when a single
// file was scanned.
func organizeBase(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return filepath.Dir(path)
}

func boundaryFailure(jsonOutput bool, msg string) int {
	if jsonOutput {
		_ = output.WriteJSON(os.Stdout, output.ErrorDocument{Error: msg})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
		fmt.Fprintln(os.Stderr, "Use --help for more information.")
	}
	return 1
}
