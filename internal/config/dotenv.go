package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvPath returns the absolute path to shelf's dotenv file (~/.shelf/.env).
func DotEnvPath() (string, error) {
	dir, err := ShelfDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".env"), nil
}

// LoadDotEnv loads the given dotenv files into the process environment.
// Missing files are skipped and variables already set are left untouched, so
// earlier files win over later ones.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("cannot stat dotenv file %s: %w", p, err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("cannot read dotenv file %s: %w", p, err)
		}
	}
	return nil
}
