package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// visitFunc receives every regular file below the root. rel is the
// slash-separated path relative to the root.
type visitFunc func(abs, rel string, info fs.FileInfo)

// walk visits the files under root depth-first with an explicit stack.
// Directories are popped in reverse push order. Only a failure to list root
// itself is returned; deeper listing failures are logged and skipped.
func walk(ctx context.Context, root string, rules *ignoreRules, log *slog.Logger, visit visitFunc) error {
	stack := []string{root}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		items, err := os.ReadDir(dir)
		if err != nil {
			if dir == root {
				return fmt.Errorf("cannot read content root %s: %w", root, err)
			}
			log.Warn("skipping unreadable directory", "dir", dir, "error", err)
			continue
		}

		for _, it := range items {
			abs := filepath.Join(dir, it.Name())
			rel, err := filepath.Rel(root, abs)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			info, err := it.Info()
			if err != nil {
				log.Warn("skipping unreadable entry", "path", abs, "error", err)
				continue
			}
			if rules.match(rel, info.IsDir()) {
				log.Debug("ignored", "path", rel)
				continue
			}

			switch {
			case info.IsDir():
				stack = append(stack, abs)
			case info.Mode().IsRegular():
				visit(abs, rel, info)
			}
		}
	}
	return nil
}
