package indexer

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/shelf/internal/imagehash"
	"github.com/kamusis/shelf/internal/manifest"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var imageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"webp": true,
	"bmp":  true,
	"tiff": true,
	"gif":  true,
}

// IsImage reports whether name has one of the indexed image extensions.
func IsImage(name string) bool {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	return imageExts[strings.ToLower(ext)]
}

// hashImage decodes the image at abs and returns its catalog entry.
func hashImage(abs, entryPath string) (manifest.ImageRef, error) {
	f, err := os.Open(abs)
	if err != nil {
		return manifest.ImageRef{}, err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return manifest.ImageRef{}, fmt.Errorf("cannot decode image: %w", err)
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	hash, err := imagehash.Encode(dst.Pix, w, h, imagehash.DefaultComponentsX, imagehash.DefaultComponentsY)
	if err != nil {
		return manifest.ImageRef{}, err
	}
	ratio, err := imagehash.AspectRatio(w, h)
	if err != nil {
		return manifest.ImageRef{}, err
	}
	return manifest.ImageRef{
		Blurhash:    hash,
		AspectRatio: ratio,
		Name:        filepath.Base(abs),
		Path:        entryPath,
	}, nil
}
