package output

import (
	"fmt"
	"io"
	"math"

	"ftanalyzer/classifier"
	"ftanalyzer/scanner"
	"ftanalyzer/systeminfo"
	"ftanalyzer/utils"
	"ftanalyzer/version"
)

// SchemaVersion identifies the report layout for downstream consumers.
const SchemaVersion = "3.0"

// ToolInfo names the producing binary inside machine-readable output.
type ToolInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ScanInfo records what was scanned and when.
type ScanInfo struct {
	Path      string `json:"path"`
	Recursive bool   `json:"recursive"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
}

// Document is the full machine-readable scan report. Files appear in
// scan order; statistics are sorted by type name.
type Document struct {
	SchemaVersion      string                 `json:"schemaVersion"`
	Tool               ToolInfo               `json:"tool"`
	Scan               ScanInfo               `json:"scan"`
	SystemInfo         *systeminfo.SystemInfo `json:"systemInfo,omitempty"`
	TotalFiles         int                    `json:"totalFiles"`
	TotalTime          float64                `json:"totalTime"`
	ThreadsUsed        int                    `json:"threadsUsed"`
	TotalSize          int64                  `json:"totalSize"`
	TotalSizeFormatted string                 `json:"totalSizeFormatted"`
	CorruptFiles       int                    `json:"corruptFiles"`
	MismatchedFiles    int                    `json:"mismatchedFiles"`
	EncryptedFiles     int                    `json:"encryptedFiles"`
	Statistics         []scanner.TypeStat     `json:"statistics"`
	Files              []classifier.Result    `json:"files"`
}

// ErrorDocument is the minimal body emitted when a scan cannot start.
type ErrorDocument struct {
	Error string `json:"error"`
}

// EmptyDocument is emitted when enumeration found nothing to analyze.
type EmptyDocument struct {
	Error string              `json:"error"`
	Files []classifier.Result `json:"files"`
}

// BuildDocument assembles the report from the ordered results and the
// aggregate summary.
func BuildDocument(results []classifier.Result, s scanner.Summary, scan ScanInfo, sys *systeminfo.SystemInfo) Document {
	if results == nil {
		results = []classifier.Result{}
	}
	stats := s.TypeStats
	if stats == nil {
		stats = []scanner.TypeStat{}
	}
	return Document{
		SchemaVersion:      SchemaVersion,
		Tool:               ToolInfo{Name: "ftanalyzer", Version: version.Version},
		Scan:               scan,
		SystemInfo:         sys,
		TotalFiles:         s.TotalFiles,
		TotalTime:          math.Round(s.TotalTime*100) / 100,
		ThreadsUsed:        s.Workers,
		TotalSize:          s.TotalSize,
		TotalSizeFormatted: utils.FormatSize(s.TotalSize),
		CorruptFiles:       s.CorruptFiles,
		MismatchedFiles:    s.MismatchedFiles,
		EncryptedFiles:     s.EncryptedFiles,
		Statistics:         stats,
		Files:              results,
	}
}

// WriteJSON renders any document as indented JSON followed by a
// newline.
func WriteJSON(w io.Writer, doc interface{}) error {
	data, err := jsonMarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w)
	return err
}
