package indexer

import (
	"log/slog"

	"github.com/kamusis/shelf/internal/embed"
)

// IgnoreFileName is the gitignore-style file read from the content root.
const IgnoreFileName = ".shelfignore"

// Options controls a single indexing run.
type Options struct {
	// Root is the content directory, or a single content file.
	Root string

	// Sorted orders the resulting entries by path. Without it entries are
	// emitted in walk order, which is not stable across runs.
	Sorted bool

	// Excludes are doublestar globs matched against root-relative slash paths
	// (no leading slash). Matching directories are not descended.
	Excludes []string

	// CatalogKey selects how embed markers are matched to images.
	CatalogKey embed.KeyMode

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}
