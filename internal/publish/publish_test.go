package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/kamusis/shelf/internal/manifest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[key] = body
	f.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func buildSite(t *testing.T) (contentDir, outDir string) {
	t.Helper()
	contentDir = t.TempDir()
	outDir = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(contentDir, "blog"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "post.md"), []byte("post"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "blog", "p.png"), []byte("png"), 0o644))

	_, err := manifest.WriteFile(outDir, []manifest.Entry{
		{Path: "/blog/post.md", Type: manifest.TypeFile, Size: 4, Name: "post.md", Images: []manifest.ImageRef{
			{Blurhash: "000000", AspectRatio: "1/1", Name: "p.png", Path: "/blog/p.png"},
		}},
		{Path: "/blog", Type: manifest.TypeDirectory, Name: "blog"},
	})
	require.NoError(t, err)
	return contentDir, outDir
}

func TestParseS3URL(t *testing.T) {
	b, p, err := ParseS3URL("s3://site-bucket/public/v1/")
	require.NoError(t, err)
	assert.Equal(t, "site-bucket", b)
	assert.Equal(t, "public/v1", p)

	b, p, err = ParseS3URL("s3://only-bucket")
	require.NoError(t, err)
	assert.Equal(t, "only-bucket", b)
	assert.Equal(t, "", p)

	for _, bad := range []string{"s3://", "http://bucket/x", "s3:///nohost"} {
		_, _, err := ParseS3URL(bad)
		assert.Error(t, err, bad)
	}
}

func TestOpen_Dir(t *testing.T) {
	dir := t.TempDir()
	sink, err := Open(context.Background(), dir, S3Options{})
	require.NoError(t, err)
	assert.Equal(t, dir, sink.String())

	_, err = Open(context.Background(), " ", S3Options{})
	assert.Error(t, err)

	_, err = Open(context.Background(), "s3://", S3Options{})
	assert.Error(t, err)
}

func TestManifestAndContent_ToDir(t *testing.T) {
	contentDir, outDir := buildSite(t)
	dest := filepath.Join(t.TempDir(), "public")
	sink := &DirSink{Dir: dest}
	ctx := context.Background()

	res, entries, err := Manifest(ctx, sink, outDir)
	require.NoError(t, err)
	require.Len(t, res.Locations, 1)
	assert.Equal(t, filepath.Join(dest, manifest.FileName), res.Locations[0])
	assert.Len(t, entries, 2)

	got, err := manifest.Load(dest)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	cres, err := Content(ctx, sink, contentDir, "content", entries)
	require.NoError(t, err)
	assert.Len(t, cres.Locations, 2)
	assert.Equal(t, int64(len("post")+len("png")), cres.Bytes)

	b, err := os.ReadFile(filepath.Join(dest, "content", "blog", "post.md"))
	require.NoError(t, err)
	assert.Equal(t, "post", string(b))
	_, err = os.Stat(filepath.Join(dest, "content", "blog", "p.png"))
	assert.NoError(t, err)
}

func TestManifest_RejectsInvalid(t *testing.T) {
	out := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(out, manifest.FileName), []byte(`{"not":"array"}`), 0o644))

	_, _, err := Manifest(context.Background(), &DirSink{Dir: t.TempDir()}, out)
	assert.ErrorIs(t, err, manifest.ErrInvalid)

	_, _, err = Manifest(context.Background(), &DirSink{Dir: t.TempDir()}, t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestContent_MissingFile(t *testing.T) {
	_, err := Content(context.Background(), &DirSink{Dir: t.TempDir()}, t.TempDir(), "", []manifest.Entry{
		{Path: "/gone.md", Type: manifest.TypeFile},
	})
	assert.Error(t, err)
}

func TestDirSink_RejectsEscapes(t *testing.T) {
	sink := &DirSink{Dir: t.TempDir()}
	for _, key := range []string{"", "/", "../x", "a/../../x"} {
		_, err := sink.Put(context.Background(), key, []byte("x"), "")
		assert.Error(t, err, key)
	}
}

func TestS3Sink_Put(t *testing.T) {
	contentDir, outDir := buildSite(t)
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	sink := newS3Sink(fake, "bucket", "/site/")
	assert.Equal(t, "s3://bucket/site", sink.String())
	ctx := context.Background()

	res, entries, err := Manifest(ctx, sink, outDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"s3://bucket/site/" + manifest.FileName}, res.Locations)
	assert.Equal(t, "application/json", fake.types["bucket/site/"+manifest.FileName])

	_, err = Content(ctx, sink, contentDir, "content", entries)
	require.NoError(t, err)
	assert.Equal(t, []byte("post"), fake.objects["bucket/site/content/blog/post.md"])
	assert.Equal(t, "image/png", fake.types["bucket/site/content/blog/p.png"])
}

func TestS3Sink_Error(t *testing.T) {
	fake := &fakeS3{err: errors.New("denied")}
	_, err := newS3Sink(fake, "bucket", "").Put(context.Background(), "k", []byte("x"), "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://bucket/k")
}
