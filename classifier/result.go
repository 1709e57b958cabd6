package classifier

// Classification labels used as sentinels across the tool. A file that
// fails one of the pre-checks never reaches signature matching and
// carries one of these instead of a format name.
const (
	TypeUnknown      = "Unknown"
	TypeError        = "Error"
	TypeUnreadable   = "Unreadable"
	TypeEmptyCorrupt = "Empty/Corrupt"
	TypeText         = "Text"
)

const (
	descUnknown      = "Unrecognized file type"
	descPathRejected = "Invalid file path (security check failed)"
	descUnreadable   = "Could not open file"
	descTooSmall     = "File too small to identify"
)

// Result is the classification record for a single file. The core
// fields are fixed once Classify returns; the enrichment fields are
// filled in by the scan pipeline's optional collectors before the
// record is deposited into the result set.
type Result struct {
	Name              string  `json:"name"`
	Path              string  `json:"path"`
	Type              string  `json:"type"`
	Category          string  `json:"category"`
	Description       string  `json:"description"`
	Size              int64   `json:"size"`
	SizeFormatted     string  `json:"sizeFormatted"`
	Entropy           float64 `json:"entropy"`
	IsCorrupt         bool    `json:"isCorrupt"`
	ExtensionMismatch bool    `json:"extensionMismatch"`
	IsEncrypted       bool    `json:"isEncrypted"`
	ExpectedExtension string  `json:"expectedExtension,omitempty"`
	ActualExtension   string  `json:"actualExtension"`
	AnalysisTimeMs    float64 `json:"analysisTime"`

	// Enrichment, present only when the corresponding collector ran.
	MimeType     string                 `json:"mimeType,omitempty"`
	ContentHints []string               `json:"contentHints,omitempty"`
	ModTime      string                 `json:"modTime,omitempty"`
	CreationTime string                 `json:"creationTime,omitempty"`
	AccessTime   string                 `json:"accessTime,omitempty"`
	ChangeTime   string                 `json:"changeTime,omitempty"`
	FileID       string                 `json:"fileId,omitempty"`
	Permissions  string                 `json:"permissions,omitempty"`
	Hashes       map[string]string      `json:"hashes,omitempty"`
	FuzzyHashes  map[string]string      `json:"fuzzyHashes,omitempty"`
	Xattrs       map[string]string      `json:"xattrs,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// Organizable reports whether the file may be copied into a type
// folder by the organize step. Unknown and unreadable files stay put.
func (r *Result) Organizable() bool {
	return r.Type != TypeUnknown && r.Type != TypeUnreadable
}
