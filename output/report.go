package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"ftanalyzer/classifier"
	"ftanalyzer/scanner"
	"ftanalyzer/utils"
	"ftanalyzer/version"
)

// Banner prints the pre-scan header shown in terminal mode.
func Banner(w io.Writer, path string, recursive bool, workers, found int) {
	fmt.Fprintf(w, "\nFileTypeAnalyzer v%s - Magic Number Based File Type Detection\n\n", version.Version)
	mode := "Non-recursive"
	if recursive {
		mode = "Recursive"
	}
	fmt.Fprintf(w, "Directory: %s\n", path)
	fmt.Fprintf(w, "Mode: %s\n", mode)
	fmt.Fprintf(w, "Threads: %d\n", workers)
	fmt.Fprintf(w, "Files found: %d\n\n", found)
}

// Report renders the human-readable results: the per-file table sorted
// by size descending, the type distribution, and the run summary.
// organizedDir is printed when non-empty.
func Report(w io.Writer, results []classifier.Result, s scanner.Summary, organizedDir string) {
	sorted := make([]classifier.Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Size > sorted[j].Size })

	fmt.Fprintf(w, "\n== Detailed Analysis Results ==\n")
	fmt.Fprintf(w, " %-36s| %-15s| %-11s| %-7s | %s\n", "File Name", "Type", "Size", "Entropy", "Status")
	fmt.Fprintf(w, "%s+%s+%s+%s+%s\n",
		strings.Repeat("-", 37), strings.Repeat("-", 16),
		strings.Repeat("-", 12), strings.Repeat("-", 9), strings.Repeat("-", 10))
	for _, r := range sorted {
		fmt.Fprintf(w, " %-36s| %-15s| %-11s| %7.2f | %s\n",
			truncate(r.Name, 35), truncate(r.Type, 14), r.SizeFormatted, r.Entropy, statusOf(r))
	}

	fmt.Fprintf(w, "\n== File Type Distribution ==\n")
	for _, st := range s.TypeStats {
		bar := strings.Repeat("#", min(st.Count*2, 30))
		fmt.Fprintf(w, " %-18s | %s %d files (%s)\n", st.Type, bar, st.Count, st.SizeFormatted)
	}

	fmt.Fprintf(w, "\n== Analysis Summary ==\n")
	fmt.Fprintf(w, " Total files analyzed: %d\n", s.TotalFiles)
	fmt.Fprintf(w, " Total size: %s\n", utils.FormatSize(s.TotalSize))
	fmt.Fprintf(w, " Unique file types: %d\n", len(s.TypeStats))
	fmt.Fprintf(w, " Threads used: %d\n", s.Workers)
	fmt.Fprintf(w, " Analysis time: %.2fs\n", s.TotalTime)
	if s.CorruptFiles > 0 {
		fmt.Fprintf(w, " Corrupt files: %d\n", s.CorruptFiles)
	}
	if s.MismatchedFiles > 0 {
		fmt.Fprintf(w, " Extension mismatches: %d\n", s.MismatchedFiles)
	}
	if s.EncryptedFiles > 0 {
		fmt.Fprintf(w, " Encrypted/Compressed files: %d\n", s.EncryptedFiles)
	}
	if organizedDir != "" {
		fmt.Fprintf(w, " Files organized to: %s\n", organizedDir)
	}
}

// statusOf picks the most severe flag for the status column.
func statusOf(r classifier.Result) string {
	switch {
	case r.IsCorrupt:
		return "CORRUPT"
	case r.ExtensionMismatch:
		return "MISMATCH"
	case r.IsEncrypted:
		return "ENCRYPTED"
	default:
		return "OK"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
