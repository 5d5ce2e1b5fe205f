// Package webp decodes a lossless (VP8L) WebP image into an ARGB pixel
// buffer suitable for PPM output.
package webp

import (
	"bitrotio/lossless/errs"
	"bitrotio/lossless/webp/container"
	"bitrotio/lossless/webp/internal/bitstream"
	"bitrotio/lossless/webp/internal/lossless"
)

const signatureByte = 0x2f

// Image is a decoded lossless WebP image: width, height, and one packed
// ARGB uint32 per pixel in row-major order, after all transforms have been
// undone.
type Image struct {
	Width, Height int
	Pixels        []uint32
}

// Decode parses and fully decodes a lossless WebP file held entirely in
// memory.
func Decode(data []byte) (*Image, error) {
	payload, err := container.VP8LPayload(data)
	if err != nil {
		return nil, err
	}
	if len(payload) < 5 {
		return nil, errs.New(errs.MalformedHeader, "webp: VP8L payload too short")
	}
	if payload[0] != signatureByte {
		return nil, errs.New(errs.MalformedHeader, "webp: bad VP8L signature byte 0x%02x", payload[0])
	}

	r := bitstream.NewReader(payload[1:])
	width := int(r.ReadBits(14)) + 1
	height := int(r.ReadBits(14)) + 1
	_ = r.ReadBits(1) // alpha flag: informational only, every pixel still carries an alpha byte
	version := r.ReadBits(3)
	if version != 0 {
		return nil, errs.New(errs.Unsupported, "webp: VP8L version %d not supported", version)
	}

	var transforms []*lossless.Transform
	for r.ReadBit() == 1 {
		t, err := readTransform(r, width, height)
		if err != nil {
			return nil, err
		}
		transforms = append(transforms, t)
	}

	cacheBits := 0
	if r.ReadBit() == 1 {
		cacheBits = int(r.ReadBits(4))
		if cacheBits < 1 || cacheBits > 11 {
			return nil, errs.New(errs.InvalidBitstream, "webp: color cache bits %d out of range", cacheBits)
		}
	}

	img, err := lossless.DecodeImageStream(r, width, height, true, cacheBits)
	if err != nil {
		return nil, err
	}

	// Transforms are undone in the reverse of their serialized order.
	for i := len(transforms) - 1; i >= 0; i-- {
		if err := transforms[i].ApplyInverse(img); err != nil {
			return nil, err
		}
	}

	return &Image{Width: width, Height: height, Pixels: img.Pixels}, nil
}

func readTransform(r *bitstream.Reader, width, height int) (*lossless.Transform, error) {
	typ := lossless.TransformType(r.ReadBits(2))
	t := &lossless.Transform{Type: typ, Width: width}

	switch typ {
	case lossless.TransformSubtractGreen:
		return t, nil

	case lossless.TransformPredictor, lossless.TransformColor:
		t.BlockBits = int(r.ReadBits(3))
		blockSide := 1 << uint(t.BlockBits+2)
		subW := ceilDiv(width, blockSide)
		subH := ceilDiv(height, blockSide)
		sub, err := lossless.DecodeImageStream(r, subW, subH, false, 0)
		if err != nil {
			return nil, err
		}
		t.Sub = sub
		return t, nil

	case lossless.TransformColorIndexing:
		return nil, errs.New(errs.Unsupported, "webp: color-indexing transform is not supported")

	default:
		return nil, errs.New(errs.InvalidBitstream, "webp: unknown transform type %d", typ)
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
