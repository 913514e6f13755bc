package content

import (
	"slices"
	"strings"
	"time"

	"github.com/kamusis/shelf/internal/manifest"
)

// dateLayouts are tried in order; the first that parses wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/1/2",
	"2-1-2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// ParseDate reads an entry date in any of the accepted layouts. Layouts
// without a zone are taken as UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

type dated struct {
	entry manifest.Entry
	at    time.Time
	ok    bool
}

type comparator func(a, b *dated) int

// then chains comparators; later ones only break ties of earlier ones.
func then(cmps ...comparator) comparator {
	return func(a, b *dated) int {
		for _, cmp := range cmps {
			if r := cmp(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

func datedFirst(a, b *dated) int {
	switch {
	case a.ok == b.ok:
		return 0
	case a.ok:
		return -1
	default:
		return 1
	}
}

func newestFirst(a, b *dated) int {
	if !a.ok || !b.ok {
		return 0
	}
	return b.at.Compare(a.at)
}

func byName(a, b *dated) int {
	return strings.Compare(a.entry.Name, b.entry.Name)
}

var listingOrder = then(datedFirst, newestFirst, byName)

// SortEntries orders entries newest first; undated entries follow by name.
func SortEntries(entries []manifest.Entry) {
	keyed := make([]*dated, len(entries))
	for i, e := range entries {
		at, ok := ParseDate(e.Date)
		keyed[i] = &dated{entry: e, at: at, ok: ok}
	}
	slices.SortStableFunc(keyed, listingOrder)
	for i, d := range keyed {
		entries[i] = d.entry
	}
}
