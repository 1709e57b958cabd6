package classifier

import (
	"github.com/h2non/filetype"
)

// mimeHeadBytes is the largest prefix filetype needs to identify any
// of the formats it knows about.
const mimeHeadBytes = 261

func mimeFromSample(sample []byte) string {
	head := sample
	if len(head) > mimeHeadBytes {
		head = head[:mimeHeadBytes]
	}
	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown || kind.MIME.Value == "" {
		return "unknown"
	}
	return kind.MIME.Value
}
