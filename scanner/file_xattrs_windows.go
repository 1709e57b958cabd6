//go:build windows
// +build windows

package scanner

import (
	"encoding/base64"
	"io"
	"os"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

const maxStreamName = windows.MAX_PATH + 36

type win32FindStreamData struct {
	StreamSize int64
	StreamName [maxStreamName]uint16
}

// getXattrs reports NTFS alternate data streams, the closest Windows
// analogue to extended attributes. Each named stream becomes one entry
// keyed by stream name with a base64 sample of its content.
func getXattrs(path string, maxValueSize int) (map[string]string, error) {
	streams, err := listAlternateStreams(path)
	if err != nil {
		return nil, err
	}
	if len(streams) == 0 {
		return nil, nil
	}
	result := make(map[string]string, len(streams))
	for _, name := range streams {
		value, err := readStreamValue(path, name, maxValueSize)
		if err != nil {
			result[name] = ""
			continue
		}
		result[name] = value
	}
	return result, nil
}

func listAlternateStreams(path string) ([]string, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	k32 := windows.NewLazySystemDLL("kernel32.dll")
	procFindFirst := k32.NewProc("FindFirstStreamW")
	procFindNext := k32.NewProc("FindNextStreamW")
	procFindClose := k32.NewProc("FindClose")

	var data win32FindStreamData
	handle, _, err := procFindFirst.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		uintptr(0),
		uintptr(unsafe.Pointer(&data)),
		uintptr(0),
	)
	if handle == uintptr(windows.InvalidHandle) {
		if err == windows.ERROR_HANDLE_EOF || err == windows.ERROR_FILE_NOT_FOUND {
			return nil, nil
		}
		return nil, err
	}
	defer procFindClose.Call(handle)

	var streams []string
	for {
		name := windows.UTF16ToString(data.StreamName[:])
		if name != "" && name != "::$DATA" {
			streams = append(streams, normalizeStreamName(name))
		}
		r1, _, err := procFindNext.Call(handle, uintptr(unsafe.Pointer(&data)))
		if r1 == 0 {
			if err == windows.ERROR_HANDLE_EOF {
				break
			}
			return streams, err
		}
	}
	return streams, nil
}

func readStreamValue(path, name string, maxValueSize int) (string, error) {
	if maxValueSize == 0 {
		return "", nil
	}
	f, err := os.Open(path + ":" + name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, maxValueSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf[:n]), nil
}

func normalizeStreamName(name string) string {
	name = strings.TrimPrefix(name, ":")
	return strings.TrimSuffix(name, ":$DATA")
}
