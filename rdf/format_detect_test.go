package rdf

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Format
		wantOK   bool
	}{
		{"json-ld object", `  {"@id": "http://example.org/s"}`, FormatJSONLD, true},
		{"json-ld array", "\n[{\"@id\": \"_:b0\"}]", FormatJSONLD, true},
		{"json-ld with bom", "\xef\xbb\xbf{}", FormatJSONLD, true},
		{"n-quads iri", "<http://example.org/s> <http://example.org/p> <http://example.org/o> <http://example.org/g> .", FormatNQuads, true},
		{"n-triples blank node", "_:b0 <http://example.org/p> \"o\" .", FormatNQuads, true},
		{"comment first", "# data\n<http://example.org/s> <http://example.org/p> \"o\" .", FormatNQuads, true},
		{"turtle prefix", "@prefix ex: <http://example.org/> .", "", false},
		{"bare underscore", "_x", "", false},
		{"empty", "  \n", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, ok := DetectFormat(bufio.NewReader(strings.NewReader(tt.input)))
			if ok != tt.wantOK {
				t.Errorf("DetectFormat() ok = %v, want %v", ok, tt.wantOK)
			}
			if format != tt.expected {
				t.Errorf("DetectFormat() format = %v, want %v", format, tt.expected)
			}
		})
	}
}

func TestDetectFormatDoesNotConsume(t *testing.T) {
	input := "_:b0 <http://example.org/p> \"o\" .\n"
	r := bufio.NewReader(strings.NewReader(input))
	if _, ok := DetectFormat(r); !ok {
		t.Fatal("expected format to be detected")
	}
	rest, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(rest) != input {
		t.Fatalf("DetectFormat consumed input: %q", rest)
	}
}
