package content

import (
	"log/slog"
	"time"

	"github.com/kamusis/shelf/internal/manifest"
)

const (
	DefaultManifestPath  = "/" + manifest.FileName
	DefaultContentPrefix = "/content"
	DefaultTimeout       = 30 * time.Second
	DefaultUserAgent     = "shelf/1.0"
	DefaultPreviewSize   = 64
)

// Options configures a Client. Zero values select the defaults above.
type Options struct {
	// BaseURL is the origin relative paths are resolved against.
	BaseURL string

	ManifestPath  string
	ContentPrefix string

	UserAgent string
	Timeout   time.Duration

	// CacheSize bounds the document cache; 0 keeps every document.
	CacheSize int
	// CacheTTL expires cached documents; 0 keeps them for the client lifetime.
	CacheTTL time.Duration

	PreviewWidth  int
	PreviewHeight int
	PreviewPunch  float64

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.ManifestPath == "" {
		o.ManifestPath = DefaultManifestPath
	}
	if o.ContentPrefix == "" {
		o.ContentPrefix = DefaultContentPrefix
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.CacheSize < 0 {
		o.CacheSize = 0
	}
	if o.PreviewWidth <= 0 {
		o.PreviewWidth = DefaultPreviewSize
	}
	if o.PreviewHeight <= 0 {
		o.PreviewHeight = DefaultPreviewSize
	}
	if o.PreviewPunch <= 0 {
		o.PreviewPunch = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
