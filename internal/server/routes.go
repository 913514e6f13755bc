package server

import (
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/kamusis/shelf/internal/manifest"
	slogGin "github.com/samber/slog-gin"
)

// SetupRoutes builds the handler serving the manifest and the content files
// it describes.
func SetupRoutes(cfg Config, logger *slog.Logger) (http.Handler, error) {
	r := gin.New()

	r.Use(slogGin.NewWithConfig(logger.WithGroup("http"), slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithRequestID:    true,
	}))
	r.Use(gin.Recovery())
	if cfg.Rate != "" {
		rl, err := RateLimiter(cfg.Rate)
		if err != nil {
			return nil, err
		}
		r.Use(rl)
	}
	r.Use(gzip.Gzip(gzip.BestSpeed))
	r.Use(cors.Default())

	h := &handlers{contentDir: cfg.ContentDir, outDir: cfg.OutDir}

	r.GET("/healthz", HealthHandler)
	r.GET("/"+manifest.FileName, h.manifestFile)
	r.GET(contentRoute(cfg.ContentPrefix), h.contentFile)

	return r, nil
}

func HealthHandler(ctx *gin.Context) {
	ctx.PureJSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// DefaultContentPrefix is where content files are served when none is set.
const DefaultContentPrefix = "/content"

func contentRoute(prefix string) string {
	p := path.Clean("/" + prefix)
	if p == "/" {
		p = DefaultContentPrefix
	}
	return p + "/*path"
}

type handlers struct {
	contentDir string
	outDir     string
}

func (h *handlers) manifestFile(ctx *gin.Context) {
	p := filepath.Join(h.outDir, manifest.FileName)
	if _, err := os.Stat(p); err != nil {
		ctx.PureJSON(http.StatusNotFound, gin.H{"error": "manifest not built"})
		return
	}
	ctx.Header("Cache-Control", "no-cache")
	ctx.File(p)
}

func (h *handlers) contentFile(ctx *gin.Context) {
	rel := path.Clean("/" + ctx.Param("path"))

	// http.Dir confines rel to contentDir.
	f, err := http.Dir(h.contentDir).Open(rel)
	if err != nil {
		ctx.PureJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	st, err := f.Stat()
	_ = f.Close()
	if err != nil || st.IsDir() {
		ctx.PureJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	ctx.File(filepath.Join(h.contentDir, filepath.FromSlash(rel)))
}

func init() {
	gin.SetMode(gin.ReleaseMode)
}
