// Package publish copies a built manifest, and optionally the content files it
// lists, to a directory or an S3 bucket.
package publish

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/kamusis/shelf/internal/manifest"
)

// Sink stores published objects under slash-separated keys.
type Sink interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
	String() string
}

// Open returns the sink for target: "s3://bucket/prefix" or a local directory.
func Open(ctx context.Context, target string, s3opts S3Options) (Sink, error) {
	if strings.TrimSpace(target) == "" {
		return nil, fmt.Errorf("publish target is required")
	}
	if strings.HasPrefix(target, "s3://") {
		bucket, prefix, err := ParseS3URL(target)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(ctx, bucket, prefix, s3opts)
	}
	return &DirSink{Dir: target}, nil
}

// Result lists what a publish run stored.
type Result struct {
	Locations []string
	Bytes     int64
}

// Manifest validates the manifest in outDir and stores it at the sink root.
func Manifest(ctx context.Context, sink Sink, outDir string) (*Result, []manifest.Entry, error) {
	p := filepath.Join(outDir, manifest.FileName)
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read manifest %s: %w", p, err)
	}
	entries, err := manifest.Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("refusing to publish %s: %w", p, err)
	}
	loc, err := sink.Put(ctx, manifest.FileName, data, "application/json")
	if err != nil {
		return nil, nil, err
	}
	return &Result{Locations: []string{loc}, Bytes: int64(len(data))}, entries, nil
}

// Content stores every document and image referenced by entries, read from
// contentDir, under prefix. Single-file entries ("./name") are skipped.
func Content(ctx context.Context, sink Sink, contentDir, prefix string, entries []manifest.Entry) (*Result, error) {
	res := &Result{}
	seen := map[string]bool{}

	put := func(entryPath string) error {
		if !strings.HasPrefix(entryPath, "/") || seen[entryPath] {
			return nil
		}
		seen[entryPath] = true
		if err := ctx.Err(); err != nil {
			return err
		}
		src := filepath.Join(contentDir, filepath.FromSlash(path.Clean(entryPath)))
		body, err := os.ReadFile(src)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", src, err)
		}
		key := strings.TrimPrefix(path.Join(prefix, entryPath), "/")
		loc, err := sink.Put(ctx, key, body, contentType(entryPath))
		if err != nil {
			return err
		}
		res.Locations = append(res.Locations, loc)
		res.Bytes += int64(len(body))
		return nil
	}

	for _, e := range entries {
		if e.Type == manifest.TypeFile {
			if err := put(e.Path); err != nil {
				return res, err
			}
		}
		for _, img := range e.Images {
			if err := put(img.Path); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

func contentType(p string) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".markdown":
		return "text/markdown; charset=utf-8"
	}
	if t := mime.TypeByExtension(path.Ext(p)); t != "" {
		return t
	}
	return "application/octet-stream"
}
