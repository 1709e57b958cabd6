package utils

import (
	"path/filepath"
	"strings"
)

// IsPathWithin reports whether path resolves to a location inside any
// of the given roots. Symlinks are resolved on both sides so a link
// pointing outside a root does not count as contained.
func IsPathWithin(path string, roots []string) bool {
	target, ok := resolveAbs(path)
	if !ok {
		return false
	}
	for _, root := range roots {
		base, ok := resolveAbs(root)
		if !ok {
			continue
		}
		if target == base || strings.HasPrefix(target, base+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func resolveAbs(path string) (string, bool) {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	return abs, true
}
