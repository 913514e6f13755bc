package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kamusis/shelf/internal/embed"
	"gopkg.in/yaml.v3"
)

// PreviewConfig sizes the decoded blurhash placeholders.
type PreviewConfig struct {
	Width  int     `yaml:"width" mapstructure:"width"`
	Height int     `yaml:"height" mapstructure:"height"`
	Punch  float64 `yaml:"punch" mapstructure:"punch"`
}

// ServeConfig configures `shelf serve`.
type ServeConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Rate string `yaml:"rate,omitempty" mapstructure:"rate"`
}

// S3Config holds the bucket credentials used by `shelf publish`. Empty keys
// fall back to the default AWS credential chain.
type S3Config struct {
	Endpoint  string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	Region    string `yaml:"region,omitempty" mapstructure:"region"`
	AccessKey string `yaml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key,omitempty" mapstructure:"secret_key"`
}

// Config is the in-memory representation of ~/.shelf/shelf.yaml.
type Config struct {
	Content    string   `yaml:"content,omitempty" mapstructure:"content"`
	Out        string   `yaml:"out,omitempty" mapstructure:"out"`
	Sorted     bool     `yaml:"sorted" mapstructure:"sorted"`
	Excludes   []string `yaml:"excludes,omitempty" mapstructure:"excludes"`
	CatalogKey string   `yaml:"catalog_key" mapstructure:"catalog_key"`

	BaseURL       string        `yaml:"base_url" mapstructure:"base_url"`
	ManifestPath  string        `yaml:"manifest_path" mapstructure:"manifest_path"`
	ContentPrefix string        `yaml:"content_prefix" mapstructure:"content_prefix"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheSize     int           `yaml:"cache_size" mapstructure:"cache_size"`
	CacheTTL      time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	Preview PreviewConfig `yaml:"preview" mapstructure:"preview"`
	Serve   ServeConfig   `yaml:"serve" mapstructure:"serve"`
	S3      S3Config      `yaml:"s3" mapstructure:"s3"`
}

// ShelfDir returns the absolute path to ~/.shelf/.
func ShelfDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".shelf"), nil
}

// ConfigPath returns the absolute path to ~/.shelf/shelf.yaml.
func ConfigPath() (string, error) {
	dir, err := ShelfDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "shelf.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(p string) (string, error) {
	if !strings.HasPrefix(p, "~") {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand ~: %w", err)
	}
	return filepath.Join(home, p[1:]), nil
}

func Default() *Config {
	return &Config{
		CatalogKey:    string(embed.KeyByName),
		BaseURL:       "http://localhost:8080",
		ManifestPath:  "/directory_structure.json",
		ContentPrefix: "/content",
		Timeout:       30 * time.Second,
		Preview:       PreviewConfig{Width: 64, Height: 64, Punch: 1},
		Serve:         ServeConfig{Addr: ":8080", Rate: "600-M"},
	}
}

// Load reads the YAML file at path over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	for _, p := range []*string{&cfg.Content, &cfg.Out} {
		if *p, err = ExpandPath(*p); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Map returns cfg as a nested map keyed by the YAML field names.
func (c *Config) Map() (map[string]any, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal config: %w", err)
	}
	out := map[string]any{}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("cannot marshal config: %w", err)
	}
	return out, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := embed.ParseKeyMode(c.CatalogKey); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative")
	}
	if c.Preview.Width <= 0 || c.Preview.Height <= 0 {
		return fmt.Errorf("preview size must be positive, got %dx%d", c.Preview.Width, c.Preview.Height)
	}
	if c.Preview.Punch <= 0 {
		return fmt.Errorf("preview punch must be positive")
	}
	return nil
}
