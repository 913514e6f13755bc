package embed

import (
	"testing"

	"github.com/kamusis/shelf/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	photo = manifest.ImageRef{Blurhash: "000000", AspectRatio: "4/3", Name: "photo.png", Path: "/blog/photo.png"}
	other = manifest.ImageRef{Blurhash: "000000", AspectRatio: "1/1", Name: "photo.png", Path: "/other/photo.png"}
	chart = manifest.ImageRef{Blurhash: "000000", AspectRatio: "16/9", Name: "chart.jpg", Path: "/chart.jpg"}
)

func TestNames_OrderAndDedupe(t *testing.T) {
	text := "a ![[b.png]] c ![[a.png]] ![[b.png]] ![[]] ![[ a.png ]] ![[x]"
	assert.Equal(t, []string{"b.png", "a.png"}, Names(text))
	assert.Empty(t, Names("no markers"))
}

func TestResolve_ByName(t *testing.T) {
	c := NewCatalog(KeyByName)
	assert.False(t, c.Add(chart))
	assert.False(t, c.Add(photo))

	got := Resolve("![[photo.png]] ![[missing.png]] ![[chart.jpg]] ![[photo.png]]", c)
	assert.Equal(t, []manifest.ImageRef{photo, chart}, got)
}

func TestResolve_NoMarkersIsEmptyNotNil(t *testing.T) {
	got := Resolve("plain text", NewCatalog(KeyByName))
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, Resolve("![[photo.png]]", nil))
}

func TestCatalog_NameCollisionLastWins(t *testing.T) {
	c := NewCatalog(KeyByName)
	c.Add(photo)
	assert.True(t, c.Add(other))
	assert.Equal(t, 1, c.Len())

	got, ok := c.Lookup("photo.png")
	require.True(t, ok)
	assert.Equal(t, other, got)
}

func TestCatalog_PathMode(t *testing.T) {
	c := NewCatalog(KeyByPath)
	c.Add(photo)
	c.Add(other)
	assert.Equal(t, 2, c.Len())

	got, ok := c.Lookup("blog/photo.png")
	require.True(t, ok)
	assert.Equal(t, photo, got)

	got, ok = c.Lookup("/other/photo.png")
	require.True(t, ok)
	assert.Equal(t, other, got)

	_, ok = c.Lookup("photo.png")
	assert.False(t, ok)
}

func TestCatalog_UnicodeNormalization(t *testing.T) {
	c := NewCatalog(KeyByName)
	// Decomposed form, as written by macOS file systems.
	c.Add(manifest.ImageRef{Name: "cafe\u0301.png", Path: "/cafe\u0301.png", AspectRatio: "1/1"})

	_, ok := c.Lookup("caf\u00e9.png")
	assert.True(t, ok)
	assert.Len(t, Resolve("![[caf\u00e9.png]]", c), 1)
}

func TestParseKeyMode(t *testing.T) {
	m, err := ParseKeyMode("")
	require.NoError(t, err)
	assert.Equal(t, KeyByName, m)

	m, err = ParseKeyMode(" Path ")
	require.NoError(t, err)
	assert.Equal(t, KeyByPath, m)

	_, err = ParseKeyMode("hash")
	assert.Error(t, err)
}

func TestReplace(t *testing.T) {
	text := "intro ![[photo.png]] mid ![[unknown.png]] ![[chart.jpg]] end ![[photo.png]]"
	out := Replace(text, []manifest.ImageRef{photo, chart}, func(img manifest.ImageRef) string {
		return "<img src=\"" + img.Path + "\">"
	})
	assert.Equal(t, `intro <img src="/blog/photo.png"> mid ![[unknown.png]] <img src="/chart.jpg"> end <img src="/blog/photo.png">`, out)

	assert.Equal(t, text, Replace(text, nil, func(manifest.ImageRef) string { return "x" }))
}

func TestReplace_ByPath(t *testing.T) {
	out := Replace("![[blog/photo.png]]", []manifest.ImageRef{photo}, func(img manifest.ImageRef) string { return img.AspectRatio })
	assert.Equal(t, "4/3", out)
}
