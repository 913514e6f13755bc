// Package embed finds "![[NAME]]" image markers in document text and resolves
// them against the images of an indexed tree.
package embed

import (
	"regexp"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kamusis/shelf/internal/manifest"
)

var markerRe = regexp.MustCompile(`!\[\[([^\]]+)\]\]`)

// Names returns the distinct marker names in text, in order of first
// appearance.
func Names(text string) []string {
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		name := normalize(m[1])
		if name == "" || !seen.Add(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// Resolve returns the catalog images referenced by markers in text. Unknown
// names are skipped; each name contributes at most one image.
func Resolve(text string, catalog *Catalog) []manifest.ImageRef {
	if catalog == nil {
		return []manifest.ImageRef{}
	}
	out := []manifest.ImageRef{}
	for _, name := range Names(text) {
		if ref, ok := catalog.Lookup(name); ok {
			out = append(out, ref)
		}
	}
	return out
}

// Replace substitutes every marker naming one of images with render(image).
// Markers are matched by image name and by path. Unmatched markers stay as
// they are.
func Replace(text string, images []manifest.ImageRef, render func(manifest.ImageRef) string) string {
	if len(images) == 0 || render == nil {
		return text
	}
	byName := make(map[string]manifest.ImageRef, len(images)*2)
	for _, img := range images {
		if img.Path != "" {
			byName[normalize(strings.TrimPrefix(img.Path, "/"))] = img
			byName[normalize(img.Path)] = img
		}
		if img.Name != "" {
			byName[normalize(img.Name)] = img
		}
	}
	return markerRe.ReplaceAllStringFunc(text, func(marker string) string {
		name := normalize(markerRe.FindStringSubmatch(marker)[1])
		if img, ok := byName[name]; ok {
			return render(img)
		}
		return marker
	})
}
