package rdf

import (
	"bufio"
	"bytes"
)

// detectSampleBytes is how much input DetectFormat inspects.
const detectSampleBytes = 512

// DetectFormat guesses the format of buffered input without consuming it.
// JSON-LD is recognized by a leading '{' or '['; N-Quads by a leading IRI,
// blank node or comment. N-Triples input is reported as N-Quads, which
// accepts it unchanged.
func DetectFormat(r *bufio.Reader) (Format, bool) {
	sample, _ := r.Peek(detectSampleBytes)
	sample = bytes.TrimPrefix(sample, []byte("\xef\xbb\xbf"))
	sample = bytes.TrimLeft(sample, " \t\r\n")
	if len(sample) == 0 {
		return "", false
	}
	switch sample[0] {
	case '{', '[':
		return FormatJSONLD, true
	case '<', '#':
		return FormatNQuads, true
	case '_':
		if bytes.HasPrefix(sample, []byte("_:")) {
			return FormatNQuads, true
		}
	}
	return "", false
}
