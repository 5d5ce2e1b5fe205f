// Package lossless decodes a VP8L entropy-coded image plane and applies the
// reversible transform stack VP8L layers on top of it.
package lossless

import (
	"bitrotio/lossless/errs"
	"bitrotio/lossless/webp/internal/bitstream"
	"bitrotio/lossless/webp/internal/huffman"
	"bitrotio/lossless/webp/internal/lz77"
)

// Image is a decoded ARGB pixel plane, row-major, one uint32 per pixel
// packed A<<24 | R<<16 | G<<8 | B.
type Image struct {
	Width, Height int
	Pixels        []uint32
}

func (img *Image) at(x, y int) uint32 { return img.Pixels[y*img.Width+x] }

// prefixGroup is the five canonical codes (G+length, R, B, A, distance)
// selected per pixel.
type prefixGroup struct {
	green, red, blue, alpha, distance *huffman.Table
}

const (
	numLiteralCodes = 256
	numLengthCodes  = 24
	numDistCodes    = 40
)

// DecodeImageStream decodes one entropy-coded plane of the given size.
// isMain selects whether a meta-prefix image and color cache may be present
// (only the top-level image plane carries them); cacheBits is the color
// cache size in bits, or 0 if none.
func DecodeImageStream(r *bitstream.Reader, width, height int, isMain bool, cacheBits int) (*Image, error) {
	var metaImage *Image
	metaBits := 0
	prefixGroupCount := 1

	if isMain {
		if r.ReadBit() == 1 {
			metaBits = int(r.ReadBits(3))
			metaWidth := ceilDiv(width, 1<<uint(metaBits))
			metaHeight := ceilDiv(height, 1<<uint(metaBits))
			var err error
			metaImage, err = DecodeImageStream(r, metaWidth, metaHeight, false, 0)
			if err != nil {
				return nil, err
			}
			maxGroup := 0
			for _, px := range metaImage.Pixels {
				g := int((px >> 8) & 0xffff)
				if g > maxGroup {
					maxGroup = g
				}
			}
			prefixGroupCount = maxGroup + 1
		}
	}

	groups := make([]prefixGroup, prefixGroupCount)
	for i := range groups {
		g, err := readPrefixGroup(r, cacheBits)
		if err != nil {
			return nil, err
		}
		groups[i] = g
	}

	var cache *ColorCache
	if cacheBits > 0 {
		cache = NewColorCache(cacheBits)
	}

	img := &Image{Width: width, Height: height, Pixels: make([]uint32, width*height)}
	groupFor := func(x, y int) *prefixGroup {
		if prefixGroupCount == 1 {
			return &groups[0]
		}
		mx, my := x>>uint(metaBits), y>>uint(metaBits)
		id := int((metaImage.at(mx, my) >> 8) & 0xffff)
		return &groups[id]
	}

	total := width * height
	for p := 0; p < total; {
		x, y := p%width, p/width
		grp := groupFor(x, y)

		g, err := grp.green.Decode(r)
		if err != nil {
			return nil, err
		}
		switch {
		case g < numLiteralCodes:
			red, err := grp.red.Decode(r)
			if err != nil {
				return nil, err
			}
			blue, err := grp.blue.Decode(r)
			if err != nil {
				return nil, err
			}
			alpha, err := grp.alpha.Decode(r)
			if err != nil {
				return nil, err
			}
			px := uint32(alpha)<<24 | uint32(red)<<16 | uint32(g)<<8 | uint32(blue)
			img.Pixels[p] = px
			if cache != nil {
				cache.Insert(px)
			}
			p++

		case g < numLiteralCodes+numLengthCodes:
			length := lz77.DecodeCode(r, g-numLiteralCodes) + 1

			distPrefix, err := grp.distance.Decode(r)
			if err != nil {
				return nil, err
			}
			distCode := lz77.DecodeCode(r, distPrefix)
			distance := lz77.PlanarDistance(distCode, width)

			if distance > p {
				return nil, errs.New(errs.InvalidBitstream, "lossless: back-reference distance %d exceeds position %d", distance, p)
			}
			if p+length > total {
				return nil, errs.New(errs.InvalidBitstream, "lossless: back-reference length %d overruns image", length)
			}
			for i := 0; i < length; i++ {
				px := img.Pixels[p-distance]
				img.Pixels[p] = px
				if cache != nil {
					cache.Insert(px)
				}
				p++
			}

		case g < numLiteralCodes+numLengthCodes+(1<<uint(cacheBits)):
			if cache == nil {
				return nil, errs.New(errs.InvalidBitstream, "lossless: color cache symbol %d without a cache", g)
			}
			idx := g - numLiteralCodes - numLengthCodes
			img.Pixels[p] = cache.Lookup(idx)
			p++

		default:
			return nil, errs.New(errs.InvalidCode, "lossless: green symbol %d out of range", g)
		}
	}
	return img, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

func readPrefixGroup(r *bitstream.Reader, cacheBits int) (prefixGroup, error) {
	greenAlphabet := numLiteralCodes + numLengthCodes
	if cacheBits > 0 {
		greenAlphabet += 1 << uint(cacheBits)
	}
	var g prefixGroup
	var err error
	if g.green, err = readTable(r, greenAlphabet); err != nil {
		return g, err
	}
	if g.red, err = readTable(r, numLiteralCodes); err != nil {
		return g, err
	}
	if g.blue, err = readTable(r, numLiteralCodes); err != nil {
		return g, err
	}
	if g.alpha, err = readTable(r, numLiteralCodes); err != nil {
		return g, err
	}
	if g.distance, err = readTable(r, numDistCodes); err != nil {
		return g, err
	}
	return g, nil
}

func readTable(r *bitstream.Reader, alphabetSize int) (*huffman.Table, error) {
	lengths, err := huffman.ReadCodeLengths(r, alphabetSize)
	if err != nil {
		return nil, err
	}
	return huffman.Build(lengths)
}
