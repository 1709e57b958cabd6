package classifier

import (
	"io"
	"os"
	"strings"

	"golang.org/x/exp/mmap"
)

// maxSampleBytes caps how much of a file is read for analysis. Entropy
// runs over the whole sample; signature matching only needs the head.
const maxSampleBytes = 65536

var openMmapReader = mmap.Open

// readSample reads up to min(maxSampleBytes, size) bytes from the
// start of the file. The returned error is non-nil only when the file
// could not be opened; a short or failed read past that point simply
// yields fewer bytes, which the caller maps to its own state.
func readSample(path string, size int64, mode string, mmapMinSize int64) ([]byte, error) {
	want := size
	if want > maxSampleBytes {
		want = maxSampleBytes
	}
	if want < 0 {
		want = 0
	}
	if mmapMinSize <= 0 {
		mmapMinSize = 128 * 1024
	}

	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "mmap":
		return readSampleMmap(path, want)
	case "auto":
		if size >= mmapMinSize {
			if sample, err := readSampleMmap(path, want); err == nil {
				return sample, nil
			}
		}
		return readSampleStream(path, want)
	default:
		return readSampleStream(path, want)
	}
}

func readSampleStream(path string, want int64) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := make([]byte, want)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return buf[:n], nil
	}
	return buf[:n], nil
}

func readSampleMmap(path string, want int64) ([]byte, error) {
	r, err := openMmapReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	if int64(r.Len()) < want {
		want = int64(r.Len())
	}
	if want <= 0 {
		return []byte{}, nil
	}
	buf := make([]byte, want)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return buf[:n], nil
	}
	return buf[:n], nil
}
