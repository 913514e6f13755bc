package imagehash

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func solid(w, h int, r, g, b byte) []byte {
	pix := make([]byte, w*h*4)
	for i := 0; i < w*h; i++ {
		pix[i*4], pix[i*4+1], pix[i*4+2], pix[i*4+3] = r, g, b, 255
	}
	return pix
}

func gradient(w, h int) []byte {
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := (y*w + x) * 4
			pix[p] = byte(x * 255 / (w - 1))
			pix[p+1] = byte(y * 255 / (h - 1))
			pix[p+2] = 128
			pix[p+3] = 255
		}
	}
	return pix
}

func TestEncode_LengthMatchesComponents(t *testing.T) {
	hash, err := Encode(gradient(32, 24), 32, 24, 4, 3)
	require.NoError(t, err)
	assert.Len(t, hash, 4+2*4*3)

	x, y, err := Components(hash)
	require.NoError(t, err)
	assert.Equal(t, 4, x)
	assert.Equal(t, 3, y)
}

func TestEncode_KnownGradient(t *testing.T) {
	hash, err := Encode(gradient(32, 24), 32, 24, DefaultComponentsX, DefaultComponentsY)
	require.NoError(t, err)
	assert.Equal(t, "L$HewF2swxX8l}WDjte;gJfjfQfj", hash)
}

func TestEncode_SolidColorRoundTrips(t *testing.T) {
	// With a single component the decoded image is exactly the DC (average) color.
	hash, err := Encode(solid(8, 8, 200, 40, 90), 8, 8, 1, 1)
	require.NoError(t, err)

	pix, err := Decode(hash, 4, 4, 1.0)
	require.NoError(t, err)
	require.Len(t, pix, 4*4*4)
	for i := 0; i < 16; i++ {
		assert.InDelta(t, 200, int(pix[i*4]), 1)
		assert.InDelta(t, 40, int(pix[i*4+1]), 1)
		assert.InDelta(t, 90, int(pix[i*4+2]), 1)
		assert.Equal(t, byte(255), pix[i*4+3])
	}
}

func TestEncode_KnownSolidBlack(t *testing.T) {
	hash, err := Encode(solid(4, 4, 0, 0, 0), 4, 4, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "000000", hash)
}

func TestEncode_Errors(t *testing.T) {
	_, err := Encode(nil, 4, 0, 4, 3)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = Encode(make([]byte, 10), 2, 2, 4, 3)
	assert.ErrorIs(t, err, ErrBufferSize)

	_, err = Encode(solid(2, 2, 1, 2, 3), 2, 2, 0, 3)
	assert.ErrorIs(t, err, ErrComponents)

	_, err = Encode(solid(2, 2, 1, 2, 3), 2, 2, 4, 10)
	assert.ErrorIs(t, err, ErrComponents)
}

func TestDecode_InvalidHashes(t *testing.T) {
	for _, h := range []string{"", "LEHV6", "LEHV6nWB2yk8pyo0adR*.7kCMdnj!", "LEHV6nWB2yk8pyo0adR*.7kCMdn\"", strings.Repeat("0", 7)} {
		_, err := Decode(h, 8, 8, 1)
		assert.ErrorIs(t, err, ErrInvalidHash, "hash %q", h)
	}
}

func TestDecode_WellKnownHash(t *testing.T) {
	pix, err := Decode("LEHV6nWB2yk8pyo0adR*.7kCMdnj", 32, 32, 1)
	require.NoError(t, err)
	assert.Len(t, pix, 32*32*4)
}

func TestAspectRatio(t *testing.T) {
	ar, err := AspectRatio(1920, 1080)
	require.NoError(t, err)
	assert.Equal(t, "1920/1080", ar)

	_, err = AspectRatio(10, 0)
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestEncodeBMP_HeaderLayout(t *testing.T) {
	w, h := 3, 2
	rgb := []byte{
		1, 2, 3, 4, 5, 6, 7, 8, 9,
		10, 11, 12, 13, 14, 15, 16, 17, 18,
	}
	out := EncodeBMP(rgb, w, h)

	rowSize := 12 // 9 bytes of pixels padded to 12
	require.Len(t, out, 54+rowSize*h)

	le := binary.LittleEndian
	assert.Equal(t, "BM", string(out[:2]))
	assert.Equal(t, uint32(len(out)), le.Uint32(out[2:]))
	assert.Equal(t, []byte{0, 0, 0, 0}, out[6:10])
	assert.Equal(t, uint32(54), le.Uint32(out[10:]))
	assert.Equal(t, uint32(40), le.Uint32(out[14:]))
	assert.Equal(t, int32(w), int32(le.Uint32(out[18:])))
	assert.Equal(t, int32(-h), int32(le.Uint32(out[22:])))
	assert.Equal(t, uint16(1), le.Uint16(out[26:]))
	assert.Equal(t, uint16(24), le.Uint16(out[28:]))
	assert.Equal(t, uint32(0), le.Uint32(out[30:]))
	assert.Equal(t, uint32(rowSize*h), le.Uint32(out[34:]))
	assert.Equal(t, make([]byte, 16), out[38:54])

	// First row, BGR order, then three bytes of padding.
	assert.Equal(t, []byte{3, 2, 1, 6, 5, 4, 9, 8, 7, 0, 0, 0}, out[54:66])
	assert.Equal(t, []byte{12, 11, 10, 15, 14, 13, 18, 17, 16, 0, 0, 0}, out[66:78])
}

func TestEncodeBMP_RGBADropsAlpha(t *testing.T) {
	rgba := []byte{10, 20, 30, 99, 40, 50, 60, 0}
	rgb := []byte{10, 20, 30, 40, 50, 60}
	assert.Equal(t, EncodeBMP(rgb, 2, 1), EncodeBMP(rgba, 2, 1))
}

func TestEncodeBMP_WrongLengthIsEmpty(t *testing.T) {
	assert.Empty(t, EncodeBMP(make([]byte, 5), 2, 1))
	assert.Empty(t, EncodeBMP(make([]byte, 2*2*3+1), 2, 2))
	assert.Empty(t, EncodeBMP(nil, 0, 0))
}

func TestEncodeBMP_ReadableByStandardDecoder(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {3, 2}, {5, 7}, {64, 64}} {
		w, h := size[0], size[1]
		pix := make([]byte, w*h*4)
		for i := range pix {
			pix[i] = byte(i * 7)
		}

		img, err := bmp.Decode(bytes.NewReader(EncodeBMP(pix, w, h)))
		require.NoError(t, err, "size %dx%d", w, h)
		require.Equal(t, image.Rect(0, 0, w, h), img.Bounds())

		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, b, _ := img.At(x, y).RGBA()
				p := (y*w + x) * 4
				assert.Equal(t, pix[p], byte(r>>8))
				assert.Equal(t, pix[p+1], byte(g>>8))
				assert.Equal(t, pix[p+2], byte(b>>8))
			}
		}
	}
}

func TestPreviewDataURI(t *testing.T) {
	uri, err := PreviewDataURI("LEHV6nWB2yk8pyo0adR*.7kCMdnj", 64, 64, 1)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/bmp;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/bmp;base64,"))
	require.NoError(t, err)
	assert.Len(t, raw, 54+64*64*3)

	_, err = PreviewDataURI("nope", 64, 64, 1)
	assert.ErrorIs(t, err, ErrInvalidHash)
}
