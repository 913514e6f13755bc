package imagehash

import (
	"encoding/base64"
	"encoding/binary"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpPixelOffset    = bmpFileHeaderSize + bmpInfoHeaderSize
)

// EncodeBMP renders an RGB24 (w*h*3) or RGBA32 (w*h*4) buffer as a top-down
// 24-bit Windows bitmap. Alpha is dropped. Any other buffer length yields nil.
func EncodeBMP(pix []byte, w, h int) []byte {
	if w <= 0 || h <= 0 {
		return nil
	}
	var stride int
	switch len(pix) {
	case w * h * 3:
		stride = 3
	case w * h * 4:
		stride = 4
	default:
		return nil
	}

	rowSize := (w*3 + 3) &^ 3
	padding := rowSize - w*3
	dataSize := rowSize * h
	fileSize := bmpPixelOffset + dataSize

	out := make([]byte, bmpPixelOffset, fileSize)
	le := binary.LittleEndian

	// BITMAPFILEHEADER; bytes 6..9 are reserved and stay zero.
	out[0], out[1] = 'B', 'M'
	le.PutUint32(out[2:], uint32(fileSize))
	le.PutUint32(out[10:], bmpPixelOffset)

	// BITMAPINFOHEADER; resolution and palette fields stay zero.
	info := out[bmpFileHeaderSize:]
	le.PutUint32(info[0:], bmpInfoHeaderSize)
	le.PutUint32(info[4:], uint32(int32(w)))
	le.PutUint32(info[8:], uint32(-int32(h))) // negative height: rows are top-down
	le.PutUint16(info[12:], 1)
	le.PutUint16(info[14:], 24)
	le.PutUint32(info[16:], 0)
	le.PutUint32(info[20:], uint32(dataSize))

	var pad [3]byte
	for y := 0; y < h; y++ {
		row := pix[y*w*stride : (y+1)*w*stride]
		for x := 0; x < w; x++ {
			p := row[x*stride:]
			out = append(out, p[2], p[1], p[0])
		}
		out = append(out, pad[:padding]...)
	}
	return out
}

// PreviewDataURI decodes hash into a w*h image and returns it as an inline
// base64 bitmap data URI.
func PreviewDataURI(hash string, w, h int, punch float64) (string, error) {
	pix, err := Decode(hash, w, h, punch)
	if err != nil {
		return "", err
	}
	return "data:image/bmp;base64," + base64.StdEncoding.EncodeToString(EncodeBMP(pix, w, h)), nil
}
