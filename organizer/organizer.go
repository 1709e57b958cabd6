// Package organizer copies classified files into per-type folders
// under an OrganizedFiles root.
package organizer

import (
	"io"
	"os"
	"path/filepath"

	"ftanalyzer/classifier"
	"ftanalyzer/logger"
	"ftanalyzer/utils"
)

const dirName = "OrganizedFiles"

// Dir returns the destination root for a scan of base.
func Dir(base string) string {
	return filepath.Join(base, dirName)
}

// Organize copies every organizable result into
// <base>/OrganizedFiles/<type>/<name>, replacing an existing file of
// the same name. Copies are best effort: failures are logged at debug
// level and skipped. Returns the number of files copied.
func Organize(results []classifier.Result, base string) int {
	outputBase := Dir(base)
	var organized int
	for i := range results {
		res := &results[i]
		if !res.Organizable() {
			continue
		}
		// Type names come from signature rules, which users can
		// extend at runtime; never let one escape the output root.
		typeDir := filepath.Join(outputBase, res.Type)
		if !utils.IsPathWithin(typeDir, []string{outputBase}) {
			logger.Debugf("Skipping %s: type %q resolves outside %s", res.Name, res.Type, outputBase)
			continue
		}
		if err := copyInto(res.Path, typeDir, filepath.Join(typeDir, res.Name)); err != nil {
			logger.Debugf("Could not organize %s: %v", res.Path, err)
			continue
		}
		organized++
	}
	return organized
}

func copyInto(src, typeDir, dest string) error {
	if err := os.MkdirAll(typeDir, 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return err
		}
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
