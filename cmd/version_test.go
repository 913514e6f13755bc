package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteVersion(t *testing.T) {
	var buf bytes.Buffer
	writeVersion(&buf)
	out := buf.String()

	for _, want := range []string{
		"Version:     dev",
		"Commit:      n/a",
		"Manifest:    directory_structure.json",
		"Ignore File: .shelfignore",
		"User Agent:  shelf/1.0",
		"JSON Codec:  goccy/go-json",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}
