package content

import (
	"context"
	"regexp"
	"slices"
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kamusis/shelf/internal/jsonx"
	"github.com/kamusis/shelf/internal/manifest"
)

// TagsKey is the metadata key holding an entry's tags.
const TagsKey = "tags"

// QueryContent lists entries whose path starts with prefix, sorted newest
// first. An empty typeFilter matches every type.
func (c *Client) QueryContent(ctx context.Context, prefix, typeFilter string) ([]manifest.Entry, error) {
	all, err := c.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	out := []manifest.Entry{}
	for _, e := range all {
		if !strings.HasPrefix(e.Path, prefix) {
			continue
		}
		if typeFilter != "" && e.Type != typeFilter {
			continue
		}
		out = append(out, e)
	}
	SortEntries(out)
	return out, nil
}

// QueryTagged is QueryContent restricted to entries carrying every tag in
// tags.
func (c *Client) QueryTagged(ctx context.Context, prefix, typeFilter string, tags []string) ([]manifest.Entry, error) {
	entries, err := c.QueryContent(ctx, prefix, typeFilter)
	if err != nil {
		return nil, err
	}
	want := mapset.NewThreadUnsafeSet[string]()
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			want.Add(t)
		}
	}
	if want.Cardinality() == 0 {
		return entries, nil
	}

	out := []manifest.Entry{}
	for _, e := range entries {
		have := mapset.NewThreadUnsafeSet(EntryTags(e)...)
		if have.IsSuperset(want) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Tags returns the sorted distinct tags of entries under prefix.
func (c *Client) Tags(ctx context.Context, prefix string) ([]string, error) {
	all, err := c.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	set := mapset.NewThreadUnsafeSet[string]()
	for _, e := range all {
		if strings.HasPrefix(e.Path, prefix) {
			set.Append(EntryTags(e)...)
		}
	}
	out := set.ToSlice()
	sort.Strings(out)
	return out, nil
}

// ResolveImagesFor returns a copy of the images of the entry at exactly
// entryPath.
func (c *Client) ResolveImagesFor(ctx context.Context, entryPath string) ([]manifest.ImageRef, error) {
	all, err := c.FetchManifest(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range all {
		if e.Path == entryPath {
			if e.Images == nil {
				return []manifest.ImageRef{}, nil
			}
			return slices.Clone(e.Images), nil
		}
	}
	return []manifest.ImageRef{}, nil
}

// EntryByPath finds an entry by path, ignoring case.
func (c *Client) EntryByPath(ctx context.Context, path string) (manifest.Entry, bool, error) {
	all, err := c.FetchManifest(ctx)
	if err != nil {
		return manifest.Entry{}, false, err
	}
	for _, e := range all {
		if strings.EqualFold(e.Path, path) {
			return e, true, nil
		}
	}
	return manifest.Entry{}, false, nil
}

// debugStringRe matches items in tag lists written by older indexers, which
// rendered sequences as Sequence([String("a"), ...]).
var debugStringRe = regexp.MustCompile(`String\("([^"]*)"\)`)

// EntryTags parses the tags metadata of e. Tags may be a JSON array or a
// comma separated list.
func EntryTags(e manifest.Entry) []string {
	raw := strings.TrimSpace(e.Metadata[TagsKey])
	if raw == "" || raw == "null" {
		return nil
	}

	var items []string
	switch {
	case strings.HasPrefix(raw, "["):
		var arr []any
		if err := jsonx.Unmarshal([]byte(raw), &arr); err == nil {
			for _, v := range arr {
				if s, ok := v.(string); ok {
					items = append(items, s)
				} else if v != nil {
					b, _ := jsonx.Marshal(v)
					items = append(items, string(b))
				}
			}
			break
		}
		items = strings.Split(strings.Trim(raw, "[]"), ",")
	case strings.Contains(raw, `String("`):
		for _, m := range debugStringRe.FindAllStringSubmatch(raw, -1) {
			items = append(items, m[1])
		}
	default:
		items = strings.Split(raw, ",")
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" || !seen.Add(it) {
			continue
		}
		out = append(out, it)
	}
	return out
}
