package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"ftanalyzer/utils"
)

func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := []string{
		"b.txt",
		"a.txt",
		filepath.Join("sub", "z.txt"),
		filepath.Join("sub", "a.txt"),
		filepath.Join("sub", "nested", "deep.txt"),
	}
	for _, rel := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestEnumerateRecursiveLexicalOrder(t *testing.T) {
	root := writeTree(t)

	paths, err := Enumerate(context.Background(), root, EnumerateOptions{Recursive: true})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
		filepath.Join(root, "sub", "a.txt"),
		filepath.Join(root, "sub", "nested", "deep.txt"),
		filepath.Join(root, "sub", "z.txt"),
	}
	if len(paths) != len(want) {
		t.Fatalf("got %d paths: %v", len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("position %d: got %s, want %s", i, paths[i], want[i])
		}
	}
}

func TestEnumerateNonRecursive(t *testing.T) {
	root := writeTree(t)

	paths, err := Enumerate(context.Background(), root, EnumerateOptions{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	want := []string{
		filepath.Join(root, "a.txt"),
		filepath.Join(root, "b.txt"),
	}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestEnumerateSingleFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "only.bin")
	if err := os.WriteFile(file, []byte("data"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	paths, err := Enumerate(context.Background(), file, EnumerateOptions{})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(paths) != 1 || paths[0] != file {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestEnumerateMissingRoot(t *testing.T) {
	if _, err := Enumerate(context.Background(), filepath.Join(t.TempDir(), "absent"), EnumerateOptions{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestEnumerateFilters(t *testing.T) {
	root := t.TempDir()
	small := filepath.Join(root, "keep.txt")
	big := filepath.Join(root, "large.txt")
	excluded := filepath.Join(root, "skip.log")
	if err := os.WriteFile(small, []byte("ok"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(big, make([]byte, 4096), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(excluded, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	paths, err := Enumerate(context.Background(), root, EnumerateOptions{
		MaxFileSize: 1024,
		Matcher:     utils.NewPatternMatcher(nil, []string{"*.log"}),
	})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	if len(paths) != 1 || paths[0] != small {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestEnumerateSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	if err := os.WriteFile(target, []byte("real"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	otherDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(otherDir, "inside.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Symlink(target, filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(otherDir, filepath.Join(root, "linkdir")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "broken.txt")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	paths, err := Enumerate(context.Background(), root, EnumerateOptions{Recursive: true})
	if err != nil {
		t.Fatalf("enumerate: %v", err)
	}
	// The file symlink resolves to a regular file and is kept; the
	// directory symlink is not descended into; the broken one drops.
	want := []string{
		filepath.Join(root, "link.txt"),
		filepath.Join(root, "real.txt"),
	}
	if len(paths) != len(want) || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("unexpected paths: %v", paths)
	}
}

func TestEnumerateCancellation(t *testing.T) {
	root := writeTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Enumerate(ctx, root, EnumerateOptions{Recursive: true}); err == nil {
		t.Fatal("expected context error")
	}
}
