//go:build !windows
// +build !windows

package scanner

import (
	"fmt"
	"os"
	"syscall"
)

// getFileID returns a device/inode pair that stays stable across
// renames, or "" when the platform stat data is unavailable.
func getFileID(path string, info os.FileInfo) string {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok || stat == nil {
		return ""
	}
	return fmt.Sprintf("dev=%d,inode=%d", stat.Dev, stat.Ino)
}
