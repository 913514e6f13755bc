// Package content fetches a published manifest and answers listing, document
// and preview queries against it.
package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/imroc/req/v3"
	"github.com/kamusis/shelf/internal/imagehash"
	"github.com/kamusis/shelf/internal/jsonx"
	"github.com/kamusis/shelf/internal/manifest"
	"golang.org/x/sync/singleflight"
)

const manifestKey = "manifest"

// Client is safe for concurrent use. The manifest is fetched at most once per
// Client unless a fetch fails; documents are cached by resolved URL.
type Client struct {
	opts Options
	base string
	http *req.Client
	log  *slog.Logger

	mu       sync.Mutex
	entries  []manifest.Entry
	loaded   bool
	inflight singleflight.Group

	docs *expirable.LRU[string, string]
}

func New(opts Options) *Client {
	opts = opts.withDefaults()
	hc := req.C().
		SetUserAgent(opts.UserAgent).
		SetCommonHeader("Accept", "application/json, text/plain, */*").
		SetTimeout(opts.Timeout).
		SetJsonMarshal(jsonx.Marshal).
		SetJsonUnmarshal(jsonx.Unmarshal)

	return &Client{
		opts: opts,
		base: strings.TrimRight(opts.BaseURL, "/"),
		http: hc,
		log:  opts.Logger,
		docs: expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL),
	}
}

func (c *Client) BaseURL() string { return c.base }

// FetchManifest returns the manifest, fetching it on first use. The returned
// slice is shared and must not be modified.
func (c *Client) FetchManifest(ctx context.Context) ([]manifest.Entry, error) {
	if entries, ok := c.cachedManifest(); ok {
		return entries, nil
	}

	v, err := c.shared(ctx, manifestKey, func(ctx context.Context) (any, error) {
		if entries, ok := c.cachedManifest(); ok {
			return entries, nil
		}
		url := c.resolve(c.opts.ManifestPath)
		body, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		entries, err := manifest.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, url, err)
		}

		c.mu.Lock()
		c.entries, c.loaded = entries, true
		c.mu.Unlock()
		c.log.Debug("manifest loaded", "url", url, "entries", len(entries))
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]manifest.Entry), nil
}

func (c *Client) cachedManifest() ([]manifest.Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries, c.loaded
}

// GetDocument returns the body at path, which is either an absolute http(s)
// URL or a path relative to the base URL.
func (c *Client) GetDocument(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: document path cannot be empty", ErrInvalidInput)
	}
	url := c.resolve(path)
	if body, ok := c.docs.Get(url); ok {
		return body, nil
	}

	v, err := c.shared(ctx, "doc:"+url, func(ctx context.Context) (any, error) {
		if body, ok := c.docs.Get(url); ok {
			return body, nil
		}
		b, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}
		body := string(b)
		c.docs.Add(url, body)
		return body, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// DocumentURL is the path at which the file behind entryPath is served.
func (c *Client) DocumentURL(entryPath string) string {
	p := strings.TrimPrefix(entryPath, ".")
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimRight(c.opts.ContentPrefix, "/") + p
}

func (c *Client) GetEntryDocument(ctx context.Context, e manifest.Entry) (string, error) {
	if strings.TrimSpace(e.Path) == "" {
		return "", fmt.Errorf("%w: entry has no path", ErrInvalidInput)
	}
	return c.GetDocument(ctx, c.DocumentURL(e.Path))
}

// ImagePreview renders the blurred placeholder of img as a bitmap data URI.
func (c *Client) ImagePreview(img manifest.ImageRef) (string, error) {
	uri, err := imagehash.PreviewDataURI(img.Blurhash, c.opts.PreviewWidth, c.opts.PreviewHeight, c.opts.PreviewPunch)
	if err != nil {
		return "", fmt.Errorf("%w: preview for %s: %w", ErrParse, img.Path, err)
	}
	return uri, nil
}

// shared runs fn once per key among concurrent callers. fn runs detached from
// the caller's cancellation and is bounded by the transport timeout; each
// caller stops waiting when its own ctx is done.
func (c *Client) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	detached := context.WithoutCancel(ctx)
	ch := c.inflight.DoChan(key, func() (any, error) { return fn(detached) })
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrNetwork, ctx.Err())
	}
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, url, err)
	}
	if !resp.IsSuccessState() {
		return nil, statusError(resp.GetStatusCode(), url)
	}
	body, err := resp.ToBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrNetwork, url, err)
	}
	return body, nil
}
