package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"ftanalyzer/logger"
	"ftanalyzer/utils"
)

// EnumerateOptions control candidate selection during traversal.
type EnumerateOptions struct {
	Recursive   bool
	MaxFileSize int64
	Matcher     *utils.PatternMatcher
}

// walker abstracts directory traversal so tests can substitute a
// deterministic fixture.
type walker interface {
	Walk(ctx context.Context, root string, recursive bool, fn fs.WalkDirFunc) error
}

// fastWalker is an explicit-stack traversal that visits entries in
// lexical order, depth first.
type fastWalker struct{}

func (w fastWalker) Walk(ctx context.Context, root string, recursive bool, fn fs.WalkDirFunc) error {
	info, err := os.Stat(root)
	if err != nil {
		return fn(root, nil, err)
	}
	type item struct {
		path  string
		entry fs.DirEntry
		depth int
	}
	stack := []item{{path: root, entry: fs.FileInfoToDirEntry(info)}}
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := fn(current.path, current.entry, nil); err != nil {
			if err == fs.SkipDir {
				continue
			}
			return err
		}
		if !current.entry.IsDir() {
			continue
		}
		if current.depth > 0 && !recursive {
			continue
		}

		entries, err := os.ReadDir(current.path)
		if err != nil {
			if ferr := fn(current.path, current.entry, err); ferr != nil && ferr != fs.SkipDir {
				return ferr
			}
			continue
		}
		// os.ReadDir sorts entries by name; push them in reverse so
		// the stack pops children in lexical order.
		for i := len(entries) - 1; i >= 0; i-- {
			child := entries[i]
			stack = append(stack, item{
				path:  filepath.Join(current.path, child.Name()),
				entry: child,
				depth: current.depth + 1,
			})
		}
	}
	return nil
}

func selectWalker() walker {
	return fastWalker{}
}

// Enumerate builds the ordered candidate list for a scan. A regular
// file argument yields just that file; a directory yields the regular
// files beneath it, one level deep unless opts.Recursive. The order is
// lexical depth-first, so repeat runs over the same tree hand the
// pipeline the same list.
func Enumerate(ctx context.Context, root string, opts EnumerateOptions) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if info.Mode().IsRegular() {
		return []string{root}, nil
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a regular file or directory", root)
	}

	var paths []string
	err = selectWalker().Walk(ctx, root, opts.Recursive, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warnf("Failed to access %s: %v", path, err)
			return nil
		}
		if d == nil || d.IsDir() {
			return nil
		}
		if !regularOrRegularTarget(path, d) {
			return nil
		}
		if opts.Matcher != nil && !opts.Matcher.ShouldInclude(path) {
			return nil
		}
		if opts.MaxFileSize > 0 {
			if info, err := d.Info(); err == nil && info.Size() > opts.MaxFileSize {
				logger.Debugf("Skipping large file %s", path)
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return paths, nil
}

// regularOrRegularTarget reports whether the entry is a regular file,
// following symlinks to their target. Symlinked directories are never
// descended into.
func regularOrRegularTarget(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
