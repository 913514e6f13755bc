package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/kamusis/shelf/internal/jsonx"
)

const (
	lockFileName = ".directory_structure.lock"
	lockTimeout  = 10 * time.Second
)

// Marshal renders entries as the pretty-printed manifest document.
func Marshal(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	b, err := jsonx.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("cannot encode manifest: %w", err)
	}
	return b, nil
}

// WriteFile writes entries to dir/FileName and returns the written path.
//
// The document is encoded before anything touches the disk, written to a temp
// file and renamed into place, so a failed run never leaves a partial manifest.
// Concurrent writers to the same dir are serialized with a file lock.
func WriteFile(dir string, entries []Entry) (string, error) {
	data, err := Marshal(entries)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create output directory %s: %w", dir, err)
	}

	unlock, err := acquireLock(filepath.Join(dir, lockFileName), lockTimeout)
	if err != nil {
		return "", err
	}
	defer unlock()

	dest := filepath.Join(dir, FileName)
	tmp, err := os.CreateTemp(dir, ".directory_structure-*.json")
	if err != nil {
		return "", fmt.Errorf("cannot create temp manifest in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("cannot write manifest: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", fmt.Errorf("cannot sync manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("cannot close manifest: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return "", fmt.Errorf("cannot chmod manifest: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		cleanup()
		return "", fmt.Errorf("cannot install manifest %s: %w", dest, err)
	}
	return dest, nil
}

// acquireLock polls for an exclusive lock on path until timeout.
func acquireLock(path string, timeout time.Duration) (func(), error) {
	l := flock.New(path)
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire manifest lock: %w", err)
		}
		if locked {
			// The lock file is left in place for the next writer.
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("another index run is writing %s (lock: %s)", filepath.Dir(path), path)
		}
		time.Sleep(200 * time.Millisecond)
	}
}
