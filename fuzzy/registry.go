// Package fuzzy provides similarity digests for classified files.
// Implementations self-register; the scan pipeline asks for digests by
// name so new schemes can ship without touching the callers.
package fuzzy

import (
	"sort"
	"strings"

	"ftanalyzer/logger"
)

// Hasher defines a fuzzy hashing implementation.
type Hasher interface {
	Name() string
	HashFile(path string) (string, error)
}

var registry = map[string]Hasher{}

// Register adds a fuzzy hasher to the registry.
func Register(hasher Hasher) {
	if hasher == nil {
		return
	}
	registry[strings.ToLower(hasher.Name())] = hasher
}

// Lookup returns a registered hasher by name.
func Lookup(name string) (Hasher, bool) {
	hasher, ok := registry[strings.ToLower(name)]
	return hasher, ok
}

// Available returns the registered hasher names in sorted order.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute runs the named hashers against the file and returns whatever
// digests succeeded. Unknown names and per-file hashing failures are
// logged and skipped; tiny files routinely fall below a scheme's
// minimum input size and should not fail the record.
func Compute(path string, names []string) map[string]string {
	digests := make(map[string]string, len(names))
	for _, name := range names {
		hasher, ok := Lookup(name)
		if !ok {
			logger.Warnf("Unknown fuzzy hash algorithm: %s", name)
			continue
		}
		digest, err := hasher.HashFile(path)
		if err != nil {
			logger.Debugf("Fuzzy hash %s failed for %s: %v", hasher.Name(), path, err)
			continue
		}
		digests[hasher.Name()] = digest
	}
	if len(digests) == 0 {
		return nil
	}
	return digests
}
