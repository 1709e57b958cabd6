package fuzzy

import (
	"bufio"
	"os"

	"github.com/glaslos/tlsh"
)

// TLSHHasher computes Trend Micro locality sensitive hashes. TLSH
// needs a minimum amount of input with some byte variety; HashFile
// surfaces that as an error and the caller skips the digest.
type TLSHHasher struct{}

func (h TLSHHasher) Name() string {
	return "tlsh"
}

func (h TLSHHasher) HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	hash, err := tlsh.HashReader(reader)
	if err != nil {
		return "", err
	}
	return hash.String(), nil
}

func init() {
	Register(TLSHHasher{})
}
