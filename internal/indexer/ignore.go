package indexer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// ignoreRules decides which root-relative paths are left out of a run.
type ignoreRules struct {
	globs []string
	git   *ignore.GitIgnore
}

func loadIgnoreRules(root string, excludes []string) (*ignoreRules, error) {
	r := &ignoreRules{}
	for _, g := range excludes {
		if g == "" {
			continue
		}
		if !doublestar.ValidatePattern(g) {
			return nil, fmt.Errorf("invalid exclude pattern %q", g)
		}
		r.globs = append(r.globs, g)
	}

	p := filepath.Join(root, IgnoreFileName)
	if _, err := os.Stat(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("cannot stat %s: %w", p, err)
	}
	gi, err := ignore.CompileIgnoreFile(p)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", p, err)
	}
	r.git = gi
	return r, nil
}

// match reports whether rel (slash separated, no leading slash) is ignored.
func (r *ignoreRules) match(rel string, isDir bool) bool {
	if rel == IgnoreFileName {
		return true
	}
	for _, g := range r.globs {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
	}
	if r.git == nil {
		return false
	}
	if r.git.MatchesPath(rel) {
		return true
	}
	return isDir && r.git.MatchesPath(rel+"/")
}
