package scanner

import (
	"sort"

	"ftanalyzer/classifier"
	"ftanalyzer/utils"
)

// TypeStat aggregates the count and byte total for one detected type.
type TypeStat struct {
	Type          string `json:"type"`
	Count         int    `json:"count"`
	Size          int64  `json:"size"`
	SizeFormatted string `json:"sizeFormatted"`
}

// Summary holds the aggregate figures the reporters render after a
// scan.
type Summary struct {
	TotalFiles      int
	TotalTime       float64
	Workers         int
	TotalSize       int64
	CorruptFiles    int
	MismatchedFiles int
	EncryptedFiles  int
	TypeStats       []TypeStat
}

// Summarize folds per-file results into the aggregate counters.
// TypeStats is sorted by type name so output is stable across runs.
func Summarize(results []classifier.Result, elapsedSeconds float64, workers int) Summary {
	s := Summary{
		TotalFiles: len(results),
		TotalTime:  elapsedSeconds,
		Workers:    workers,
	}
	counts := make(map[string]int)
	sizes := make(map[string]int64)
	for i := range results {
		r := &results[i]
		counts[r.Type]++
		sizes[r.Type] += r.Size
		s.TotalSize += r.Size
		if r.IsCorrupt {
			s.CorruptFiles++
		}
		if r.ExtensionMismatch {
			s.MismatchedFiles++
		}
		if r.IsEncrypted {
			s.EncryptedFiles++
		}
	}
	types := make([]string, 0, len(counts))
	for t := range counts {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		s.TypeStats = append(s.TypeStats, TypeStat{
			Type:          t,
			Count:         counts[t],
			Size:          sizes[t],
			SizeFormatted: utils.FormatSize(sizes[t]),
		})
	}
	return s
}
