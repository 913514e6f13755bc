// Package indexer walks a content tree and produces its manifest.
package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kamusis/shelf/internal/embed"
	"github.com/kamusis/shelf/internal/frontmatter"
	"github.com/kamusis/shelf/internal/manifest"
)

// Summary describes a finished run.
type Summary struct {
	Path      string
	Entries   int
	Images    int
	TotalSize uint64
}

// Build indexes opts.Root and returns its manifest entries.
//
// Images are hashed first so every document can reference any image in the
// tree. Files that cannot be read and images that cannot be decoded are
// logged and skipped; only an unreadable root is an error.
func Build(ctx context.Context, opts Options) ([]manifest.Entry, error) {
	entries, _, err := build(ctx, opts)
	return entries, err
}

// Run builds the manifest for opts.Root and writes it into outDir.
func Run(ctx context.Context, opts Options, outDir string) (*Summary, error) {
	if outDir == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	entries, catalog, err := build(ctx, opts)
	if err != nil {
		return nil, err
	}
	path, err := manifest.WriteFile(outDir, entries)
	if err != nil {
		return nil, err
	}

	s := &Summary{Path: path, Entries: len(entries), Images: catalog.Len()}
	for _, e := range entries {
		s.TotalSize += e.Size
	}
	return s, nil
}

func build(ctx context.Context, opts Options) ([]manifest.Entry, *embed.Catalog, error) {
	if opts.Root == "" {
		return nil, nil, fmt.Errorf("content root is required")
	}
	log := opts.logger()

	info, err := os.Stat(opts.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read content root %s: %w", opts.Root, err)
	}

	catalog := embed.NewCatalog(opts.CatalogKey)

	if !info.IsDir() {
		entries := buildSingle(opts.Root, info, catalog, log)
		return entries, catalog, nil
	}

	rules, err := loadIgnoreRules(opts.Root, opts.Excludes)
	if err != nil {
		return nil, nil, err
	}

	// Pass 1: image catalog.
	err = walk(ctx, opts.Root, rules, log, func(abs, rel string, _ fs.FileInfo) {
		if !IsImage(rel) {
			return
		}
		ref, err := hashImage(abs, "/"+rel)
		if err != nil {
			log.Debug("skipping image", "path", rel, "error", err)
			return
		}
		if catalog.Add(ref) {
			log.Warn("image name collision, keeping the later one", "name", ref.Name, "path", ref.Path)
		}
	})
	if err != nil {
		return nil, nil, err
	}

	// Pass 2: documents.
	entries := []manifest.Entry{}
	err = walk(ctx, opts.Root, rules, log, func(abs, rel string, fi fs.FileInfo) {
		if IsImage(rel) {
			return
		}
		e, err := documentEntry(abs, "/"+rel, fi, catalog)
		if err != nil {
			log.Warn("skipping unreadable file", "path", rel, "error", err)
			return
		}
		entries = append(entries, e)
	})
	if err != nil {
		return nil, nil, err
	}

	if opts.Sorted {
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	}
	log.Debug("indexed content", "root", opts.Root, "entries", len(entries), "images", catalog.Len())
	return entries, catalog, nil
}

// buildSingle handles a root that is a file rather than a directory.
func buildSingle(root string, info fs.FileInfo, catalog *embed.Catalog, log *slog.Logger) []manifest.Entry {
	entryPath := "./" + filepath.ToSlash(root)
	if IsImage(root) {
		ref, err := hashImage(root, entryPath)
		if err != nil {
			log.Debug("skipping image", "path", root, "error", err)
		} else {
			catalog.Add(ref)
		}
		return []manifest.Entry{}
	}

	e, err := documentEntry(root, entryPath, info, catalog)
	if err != nil {
		log.Warn("skipping unreadable file", "path", root, "error", err)
		return []manifest.Entry{}
	}
	return []manifest.Entry{e}
}

func documentEntry(abs, entryPath string, info fs.FileInfo, catalog *embed.Catalog) (manifest.Entry, error) {
	b, err := os.ReadFile(abs)
	if err != nil {
		return manifest.Entry{}, err
	}
	text := string(b)
	meta := frontmatter.Extract(text)

	name := info.Name()
	if v, ok := meta["name"]; ok {
		name = v
	}
	date := info.ModTime().UTC().Format(time.RFC3339)
	if v, ok := meta["date"]; ok {
		date = v
	}

	return manifest.Entry{
		Path:     entryPath,
		Type:     manifest.TypeFile,
		Size:     uint64(info.Size()),
		Name:     name,
		Date:     date,
		Images:   embed.Resolve(text, catalog),
		Metadata: meta,
	}, nil
}
