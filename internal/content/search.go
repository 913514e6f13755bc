package content

import (
	"context"
	"strings"

	"github.com/kamusis/shelf/internal/manifest"
)

// Search returns entries under prefix whose path, name or metadata values
// contain every whitespace separated token of query, case-insensitively.
// Results keep the listing order; limit <= 0 means no limit.
func (c *Client) Search(ctx context.Context, prefix, query string, limit int) ([]manifest.Entry, error) {
	entries, err := c.QueryContent(ctx, prefix, "")
	if err != nil {
		return nil, err
	}
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return []manifest.Entry{}, nil
	}

	out := []manifest.Entry{}
	for _, e := range entries {
		blob := searchText(e)
		ok := true
		for _, tok := range tokens {
			if !strings.Contains(blob, tok) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func searchText(e manifest.Entry) string {
	parts := []string{e.Path, e.Name}
	for _, v := range e.Metadata {
		parts = append(parts, v)
	}
	return strings.ToLower(strings.Join(parts, "\n"))
}

func tokenize(q string) []string {
	fields := strings.Fields(strings.ToLower(q))
	if len(fields) == 0 {
		return nil
	}
	return fields
}
