package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_LoadHappyPath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	entries := []Entry{
		{
			Path: "/blog/readme.md",
			Type: TypeFile,
			Size: 42,
			Name: "Readme",
			Date: "2025-09-09",
			Images: []ImageRef{
				{Blurhash: "LEHV6nWB2yk8pyo0adR*.7kCMdnj", AspectRatio: "4/3", Name: "photo.png", Path: "/blog/photo.png"},
			},
			Metadata: map[string]string{"date": "2025-09-09", "name": "Readme"},
		},
		{Path: "/notes.txt", Type: TypeFile, Size: 3, Name: "notes.txt"},
	}

	path, err := WriteFile(dir, entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, entries, got)

	// No temp files are left behind; the lock file stays for the next run.
	names, err := os.ReadDir(dir)
	require.NoError(t, err)
	var files []string
	for _, n := range names {
		files = append(files, n.Name())
	}
	assert.ElementsMatch(t, []string{FileName, lockFileName}, files)
}

func TestAcquireLock_ExcludesSecondWriter(t *testing.T) {
	p := filepath.Join(t.TempDir(), lockFileName)

	unlock, err := acquireLock(p, time.Second)
	require.NoError(t, err)

	_, err = acquireLock(p, 10*time.Millisecond)
	require.Error(t, err)

	unlock()
	_, err = os.Stat(p)
	require.NoError(t, err, "lock file must survive unlock")

	unlock2, err := acquireLock(p, time.Second)
	require.NoError(t, err)
	unlock2()
}

func TestMarshal_PrettyAndOmitsEmptyFields(t *testing.T) {
	b, err := Marshal([]Entry{{Path: "/a.md", Type: TypeFile, Size: 1, Name: "a.md"}})
	require.NoError(t, err)

	s := string(b)
	assert.True(t, strings.HasPrefix(s, "[\n  {\n    \"path\": \"/a.md\""), s)
	assert.NotContains(t, s, "date")
	assert.NotContains(t, s, "images")
	assert.NotContains(t, s, "metadata")
}

func TestMarshal_NilIsEmptyArray(t *testing.T) {
	b, err := Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(b))
}

func TestWriteFile_UnwritableDestination(t *testing.T) {
	tmp := t.TempDir()
	blocker := filepath.Join(tmp, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := WriteFile(filepath.Join(blocker, "out"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot create output directory")
}

func TestWriteFile_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	_, err := WriteFile(dir, []Entry{{Path: "/old.md", Type: TypeFile, Name: "old.md"}})
	require.NoError(t, err)
	_, err = WriteFile(dir, []Entry{{Path: "/new.md", Type: TypeFile, Name: "new.md"}})
	require.NoError(t, err)

	got, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "/new.md", got[0].Path)
}

func TestParse_DiscriminatesByType(t *testing.T) {
	data := []byte(`[
		{"path": "/a.md", "type": "file", "size": 1, "name": "a.md"},
		{"path": "/dir", "type": "directory", "size": 0, "name": "dir"},
		{"path": "/p.png", "type": "image", "size": 9, "name": "p.png", "blurhash": "000000", "aspect_ratio": "1/1"}
	]`)
	got, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, TypeFile, got[0].Type)
	assert.Empty(t, got[0].Images)
	assert.Equal(t, TypeDirectory, got[1].Type)
	assert.Equal(t, TypeImage, got[2].Type)
	assert.Equal(t, []ImageRef{{Blurhash: "000000", AspectRatio: "1/1", Name: "p.png", Path: "/p.png"}}, got[2].Images)
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":      `{{`,
		"object":        `{"path": "/a"}`,
		"missing type":  `[{"path": "/a.md", "size": 1, "name": "a"}]`,
		"unknown type":  `[{"path": "/a.md", "type": "blob", "size": 1, "name": "a"}]`,
		"bad size type": `[{"path": "/a.md", "type": "file", "size": "big", "name": "a"}]`,
		"empty":         ``,
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		assert.ErrorIs(t, err, ErrInvalid, name)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
