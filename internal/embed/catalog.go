package embed

import (
	"fmt"
	"path"
	"strings"

	"github.com/kamusis/shelf/internal/manifest"
	"golang.org/x/text/unicode/norm"
)

// KeyMode selects how images are keyed in a Catalog.
type KeyMode string

const (
	// KeyByName keys images by base file name. A later image with the same
	// name replaces an earlier one.
	KeyByName KeyMode = "name"
	// KeyByPath keys images by root-relative path with a leading slash.
	KeyByPath KeyMode = "path"
)

// ParseKeyMode maps a config value to a KeyMode. Empty means KeyByName.
func ParseKeyMode(s string) (KeyMode, error) {
	switch KeyMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", KeyByName:
		return KeyByName, nil
	case KeyByPath:
		return KeyByPath, nil
	default:
		return "", fmt.Errorf("unknown catalog key mode %q (want %q or %q)", s, KeyByName, KeyByPath)
	}
}

// Catalog maps embed marker names to indexed images.
type Catalog struct {
	mode   KeyMode
	images map[string]manifest.ImageRef
}

func NewCatalog(mode KeyMode) *Catalog {
	if mode == "" {
		mode = KeyByName
	}
	return &Catalog{mode: mode, images: map[string]manifest.ImageRef{}}
}

func (c *Catalog) Mode() KeyMode { return c.mode }

// Add stores ref under its key and reports whether an earlier image with the
// same key was replaced.
func (c *Catalog) Add(ref manifest.ImageRef) (replaced bool) {
	k := c.key(ref)
	_, replaced = c.images[k]
	c.images[k] = ref
	return replaced
}

// Lookup finds the image a marker name refers to.
func (c *Catalog) Lookup(name string) (manifest.ImageRef, bool) {
	name = normalize(name)
	if c.mode == KeyByPath && !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	ref, ok := c.images[name]
	return ref, ok
}

func (c *Catalog) Len() int { return len(c.images) }

func (c *Catalog) key(ref manifest.ImageRef) string {
	if c.mode == KeyByPath {
		p := normalize(ref.Path)
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		return p
	}
	name := ref.Name
	if name == "" {
		name = path.Base(ref.Path)
	}
	return normalize(name)
}

// normalize folds names to NFC so decomposed file names from macOS match
// markers typed in composed form.
func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
