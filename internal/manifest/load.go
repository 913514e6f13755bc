package manifest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamusis/shelf/internal/jsonx"
)

// rawEntry is the union of every shape an entry has had on the wire. The
// "type" field alone decides how it is interpreted.
type rawEntry struct {
	Path        string            `json:"path"`
	Type        string            `json:"type"`
	Size        uint64            `json:"size"`
	Name        string            `json:"name"`
	Date        string            `json:"date"`
	Images      []ImageRef        `json:"images"`
	Metadata    map[string]string `json:"metadata"`
	Blurhash    string            `json:"blurhash"`
	AspectRatio string            `json:"aspect_ratio"`
}

// Parse decodes a manifest JSON array.
func Parse(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top level is not an array", ErrInvalid)
	}

	var raw []rawEntry
	if err := jsonx.Unmarshal(trimmed, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	out := make([]Entry, 0, len(raw))
	for i, r := range raw {
		e := Entry{
			Path:     r.Path,
			Type:     r.Type,
			Size:     r.Size,
			Name:     r.Name,
			Date:     r.Date,
			Images:   r.Images,
			Metadata: r.Metadata,
		}
		switch r.Type {
		case TypeFile, TypeDirectory:
		case TypeImage:
			// Old layouts listed images as top-level entries carrying their own hash.
			if len(e.Images) == 0 && r.Blurhash != "" {
				e.Images = []ImageRef{{
					Blurhash:    r.Blurhash,
					AspectRatio: r.AspectRatio,
					Name:        r.Name,
					Path:        r.Path,
				}}
			}
		case "":
			return nil, fmt.Errorf("%w: entry %d (%s) has no type", ErrInvalid, i, r.Path)
		default:
			return nil, fmt.Errorf("%w: entry %d (%s) has unknown type %q", ErrInvalid, i, r.Path, r.Type)
		}
		out = append(out, e)
	}
	return out, nil
}

// Load reads the manifest file from dir.
func Load(dir string) ([]Entry, error) {
	return LoadFile(filepath.Join(dir, FileName))
}

// LoadFile reads and parses a manifest at path.
func LoadFile(path string) ([]Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read manifest %s: %w", path, err)
	}
	entries, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return entries, nil
}
