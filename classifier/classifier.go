package classifier

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ftanalyzer/entropy"
	"ftanalyzer/signature"
	"ftanalyzer/utils"
)

// matchPrefixBytes caps how many sample bytes feed signature matching.
// Longer patterns than this cannot match and should not be registered.
const matchPrefixBytes = 64

// Options tune how a Classifier reads and annotates files. The zero
// value reads via buffered streams and skips the optional annotations.
type Options struct {
	ReadMode     string // stream, mmap or auto
	MmapMinSize  int64  // auto switches to mmap at this size
	DetectMime   bool
	ContentHints bool
}

// Classifier resolves file types against a signature table. Construct
// once and share; Classify is safe for concurrent use.
type Classifier struct {
	table   *signature.Table
	opts    Options
	markers *markerScanner
}

func New(table *signature.Table, opts Options) *Classifier {
	c := &Classifier{table: table, opts: opts}
	if opts.ContentHints {
		c.markers = newMarkerScanner()
	}
	return c
}

// Classify analyzes a single file and always returns a usable Result.
// Failures along the way degrade the record instead of aborting it:
// a rejected path, an unopenable file and a too-short read each map to
// a sentinel type and leave the remaining fields at their zero values.
func (c *Classifier) Classify(path string) Result {
	res := Result{
		Name:        filepath.Base(path),
		Path:        path,
		Type:        TypeUnknown,
		Category:    "Unknown",
		Description: descUnknown,
	}

	// Reject traversal sequences before touching the filesystem. These
	// records carry no size, entropy or timing.
	if strings.Contains(path, "..") {
		res.Type = TypeError
		res.Description = descPathRejected
		return c.finish(res)
	}

	start := time.Now()

	if fi, err := os.Stat(path); err == nil {
		res.Size = fi.Size()
	}

	res.ActualExtension = fileExt(path)

	sample, err := readSample(path, res.Size, c.opts.ReadMode, c.opts.MmapMinSize)
	if err != nil {
		res.Type = TypeUnreadable
		res.Description = descUnreadable
		return c.finish(res)
	}

	if len(sample) < 2 {
		res.IsCorrupt = true
		res.Type = TypeEmptyCorrupt
		res.Description = descTooSmall
		return c.finish(res)
	}

	res.Entropy = entropy.Shannon(sample)

	prefix := sample
	if len(prefix) > matchPrefixBytes {
		prefix = prefix[:matchPrefixBytes]
	}
	if rule, ok := c.table.Match(strings.ToUpper(hex.EncodeToString(prefix))); ok {
		res.Type = rule.Type
		res.Category = rule.Category
		res.Description = rule.Description
	}

	if res.Type == TypeUnknown {
		if fb, ok := extensionFallbacks[res.ActualExtension]; ok {
			res.Type = fb.kind
			res.Category = fb.category
			res.Description = fb.description
		}
	}

	// Extension sanity check. Text is exempt because the fallback that
	// produces it already keyed off the extension.
	if res.Type != TypeUnknown && res.Type != TypeText && res.ActualExtension != "" {
		if valid, ok := expectedExtensions[strings.ToLower(res.Type)]; ok {
			if !containsString(valid, res.ActualExtension) {
				res.ExtensionMismatch = true
				res.ExpectedExtension = valid[0]
			}
		}
	}

	if c.opts.DetectMime {
		res.MimeType = mimeFromSample(sample)
	}
	if c.markers != nil {
		res.ContentHints = c.markers.scan(sample)
	}

	res.AnalysisTimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	return c.finish(res)
}

// finish derives the fields every result carries no matter how far
// classification got.
func (c *Classifier) finish(res Result) Result {
	res.SizeFormatted = utils.FormatSize(res.Size)
	res.IsEncrypted = entropy.LikelyEncrypted(res.Entropy)
	return res
}

// fileExt returns the lowercased extension of the final path element.
// Dotfiles such as .bashrc have no extension.
func fileExt(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return ""
	}
	return strings.ToLower(ext)
}

func containsString(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
