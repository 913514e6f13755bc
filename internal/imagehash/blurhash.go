// Package imagehash turns decoded images into short blurhash strings and back,
// and renders small pixel buffers as uncompressed 24-bit bitmaps for inline previews.
package imagehash

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	ErrEmptyImage  = errors.New("imagehash: image has zero width or height")
	ErrBufferSize  = errors.New("imagehash: pixel buffer size does not match dimensions")
	ErrComponents  = errors.New("imagehash: component counts must be between 1 and 9")
	ErrInvalidHash = errors.New("imagehash: invalid blurhash")
)

// Default component counts used by the indexer.
const (
	DefaultComponentsX = 4
	DefaultComponentsY = 3
)

// Encode summarizes an RGBA8 buffer (len = w*h*4, alpha ignored) into a blurhash
// string with compX*compY cosine components.
func Encode(pix []byte, w, h, compX, compY int) (string, error) {
	if w <= 0 || h <= 0 {
		return "", ErrEmptyImage
	}
	if compX < 1 || compX > 9 || compY < 1 || compY > 9 {
		return "", ErrComponents
	}
	if len(pix) != w*h*4 {
		return "", fmt.Errorf("%w: got %d bytes for %dx%d", ErrBufferSize, len(pix), w, h)
	}

	// Per-axis cosine tables keep the inner loop to multiply-adds.
	cosX := cosineTable(w, compX)
	cosY := cosineTable(h, compY)

	// Linearize once; the component loop visits every pixel compX*compY times.
	lin := make([]float64, w*h*3)
	for p := 0; p < w*h; p++ {
		lin[p*3] = sRGBToLinear(pix[p*4])
		lin[p*3+1] = sRGBToLinear(pix[p*4+1])
		lin[p*3+2] = sRGBToLinear(pix[p*4+2])
	}

	factors := make([][3]float64, 0, compX*compY)
	for j := 0; j < compY; j++ {
		for i := 0; i < compX; i++ {
			norm := 2.0
			if i == 0 && j == 0 {
				norm = 1.0
			}
			var r, g, b float64
			for y := 0; y < h; y++ {
				cy := cosY[j*h+y]
				row := y * w
				for x := 0; x < w; x++ {
					basis := cosX[i*w+x] * cy
					p := (row + x) * 3
					r += basis * lin[p]
					g += basis * lin[p+1]
					b += basis * lin[p+2]
				}
			}
			scale := norm / float64(w*h)
			factors = append(factors, [3]float64{r * scale, g * scale, b * scale})
		}
	}

	var sb strings.Builder
	sb.WriteString(encode83((compX-1)+(compY-1)*9, 1))

	dc, ac := factors[0], factors[1:]
	maxValue := 1.0
	if len(ac) > 0 {
		actualMax := 0.0
		for _, f := range ac {
			actualMax = math.Max(actualMax, math.Max(math.Abs(f[0]), math.Max(math.Abs(f[1]), math.Abs(f[2]))))
		}
		quantisedMax := int(math.Max(0, math.Min(82, math.Floor(actualMax*166-0.5))))
		maxValue = float64(quantisedMax+1) / 166
		sb.WriteString(encode83(quantisedMax, 1))
	} else {
		sb.WriteString(encode83(0, 1))
	}

	sb.WriteString(encode83(encodeDC(dc), 4))
	for _, f := range ac {
		sb.WriteString(encode83(encodeAC(f, maxValue), 2))
	}
	return sb.String(), nil
}

// Components reports the component counts encoded in hash.
func Components(hash string) (compX, compY int, err error) {
	if len(hash) < 6 {
		return 0, 0, ErrInvalidHash
	}
	flag, err := decode83(hash[:1])
	if err != nil {
		return 0, 0, err
	}
	compX = flag%9 + 1
	compY = flag/9 + 1
	if len(hash) != 4+2*compX*compY {
		return 0, 0, fmt.Errorf("%w: length %d does not match %dx%d components", ErrInvalidHash, len(hash), compX, compY)
	}
	return compX, compY, nil
}

// Decode reconstructs a w*h RGBA8 approximation (alpha 255) of the image summarized
// by hash. punch scales the AC components; 1.0 is neutral.
func Decode(hash string, w, h int, punch float64) ([]byte, error) {
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyImage
	}
	compX, compY, err := Components(hash)
	if err != nil {
		return nil, err
	}
	if punch <= 0 {
		punch = 1
	}

	quantisedMax, err := decode83(hash[1:2])
	if err != nil {
		return nil, err
	}
	maxValue := float64(quantisedMax+1) / 166 * punch

	colors := make([][3]float64, compX*compY)
	dc, err := decode83(hash[2:6])
	if err != nil {
		return nil, err
	}
	colors[0] = decodeDC(dc)
	for i := 1; i < len(colors); i++ {
		v, err := decode83(hash[4+i*2 : 6+i*2])
		if err != nil {
			return nil, err
		}
		colors[i] = decodeAC(v, maxValue)
	}

	cosX := cosineTable(w, compX)
	cosY := cosineTable(h, compY)

	out := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, b float64
			for j := 0; j < compY; j++ {
				cy := cosY[j*h+y]
				for i := 0; i < compX; i++ {
					basis := cosX[i*w+x] * cy
					c := colors[i+j*compX]
					r += c[0] * basis
					g += c[1] * basis
					b += c[2] * basis
				}
			}
			p := (y*w + x) * 4
			out[p] = linearToSRGB(r)
			out[p+1] = linearToSRGB(g)
			out[p+2] = linearToSRGB(b)
			out[p+3] = 255
		}
	}
	return out, nil
}

// AspectRatio renders w/h the way manifests store it.
func AspectRatio(w, h int) (string, error) {
	if h <= 0 || w < 0 {
		return "", ErrEmptyImage
	}
	return fmt.Sprintf("%d/%d", w, h), nil
}

// cosineTable returns cos(pi*k*n/size) laid out as [k*size+n].
func cosineTable(size, comps int) []float64 {
	t := make([]float64, comps*size)
	for k := 0; k < comps; k++ {
		for n := 0; n < size; n++ {
			t[k*size+n] = math.Cos(math.Pi * float64(k) * float64(n) / float64(size))
		}
	}
	return t
}

func encodeDC(c [3]float64) int {
	return int(linearToSRGB(c[0]))<<16 + int(linearToSRGB(c[1]))<<8 + int(linearToSRGB(c[2]))
}

func encodeAC(c [3]float64, maxValue float64) int {
	quant := func(v float64) int {
		return int(math.Max(0, math.Min(18, math.Floor(signPow(v/maxValue, 0.5)*9+9.5))))
	}
	return quant(c[0])*19*19 + quant(c[1])*19 + quant(c[2])
}

func decodeDC(v int) [3]float64 {
	return [3]float64{
		sRGBToLinear(byte(v >> 16)),
		sRGBToLinear(byte(v >> 8)),
		sRGBToLinear(byte(v)),
	}
}

func decodeAC(v int, maxValue float64) [3]float64 {
	qr := v / (19 * 19)
	qg := (v / 19) % 19
	qb := v % 19
	return [3]float64{
		signPow((float64(qr)-9)/9, 2) * maxValue,
		signPow((float64(qg)-9)/9, 2) * maxValue,
		signPow((float64(qb)-9)/9, 2) * maxValue,
	}
}

func sRGBToLinear(c byte) float64 {
	v := float64(c) / 255
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func linearToSRGB(v float64) byte {
	v = math.Max(0, math.Min(1, v))
	if v <= 0.0031308 {
		return byte(v*12.92*255 + 0.5)
	}
	return byte((1.055*math.Pow(v, 1/2.4)-0.055)*255 + 0.5)
}

func signPow(v, exp float64) float64 {
	return math.Copysign(math.Pow(math.Abs(v), exp), v)
}
