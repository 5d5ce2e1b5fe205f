package lossless

import "bitrotio/lossless/errs"

// TransformType identifies one of VP8L's reversible preprocessing passes.
// Transforms are serialized in forward order and undone here in reverse.
type TransformType int

const (
	TransformPredictor TransformType = iota
	TransformColor
	TransformSubtractGreen
	TransformColorIndexing
)

// Transform is one decoded transform header plus the subimage (if any) that
// parameterizes it.
type Transform struct {
	Type       TransformType
	BlockBits  int // block side = 1 << (BlockBits+2), predictor/color transforms only
	Sub        *Image
	Width      int // original image width, needed to index Sub by block
}

// ApplyInverse undoes t on img in place. Transforms are applied to the
// decoded image in the reverse of their serialized order (the caller is
// responsible for that ordering).
func (t *Transform) ApplyInverse(img *Image) error {
	switch t.Type {
	case TransformSubtractGreen:
		inverseSubtractGreen(img)
		return nil
	case TransformPredictor:
		inversePredictor(img, t)
		return nil
	case TransformColor:
		inverseColor(img, t)
		return nil
	case TransformColorIndexing:
		return errs.New(errs.Unsupported, "webp: color-indexing transform is not supported")
	default:
		return errs.New(errs.InvalidBitstream, "webp: unknown transform type %d", t.Type)
	}
}

func inverseSubtractGreen(img *Image) {
	for i, px := range img.Pixels {
		a, r, g, b := unpack(px)
		r = byte(r + g)
		b = byte(b + g)
		img.Pixels[i] = pack(a, r, g, b)
	}
}

func unpack(px uint32) (a, r, g, b byte) {
	return byte(px >> 24), byte(px >> 16), byte(px >> 8), byte(px)
}

func pack(a, r, g, b byte) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// --- predictor transform ---

func inversePredictor(img *Image, t *Transform) {
	blockSide := 1 << uint(t.BlockBits+2)
	predAt := func(x, y int) int {
		return int((t.Sub.at(x/blockSide, y/blockSide) >> 8) & 0xff)
	}

	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			var predicted uint32
			switch {
			case x == 0 && y == 0:
				predicted = 0xff000000
			case x == 0:
				predicted = img.at(0, y-1)
			case y == 0:
				predicted = img.at(x-1, 0)
			default:
				mode := predAt(x, y)
				predicted = predict(mode, img, x, y)
			}
			idx := y*img.Width + x
			img.Pixels[idx] = addPixels(predicted, img.Pixels[idx])
		}
	}
}

// addPixels adds two packed ARGB pixels channel-wise, modulo 256 per byte
// (residual + predicted, wrapping).
func addPixels(a, b uint32) uint32 {
	aa, ar, ag, ab := unpack(a)
	ba, br, bg, bb := unpack(b)
	return pack(aa+ba, ar+br, ag+bg, ab+bb)
}

func avg2(a, b byte) byte { return byte((int(a) + int(b)) >> 1) }

func avg2Pixel(a, b uint32) uint32 {
	aa, ar, ag, ab := unpack(a)
	ba, br, bg, bb := unpack(b)
	return pack(avg2(aa, ba), avg2(ar, br), avg2(ag, bg), avg2(ab, bb))
}

// predict returns the predicted pixel at (x, y) for predictor mode, using
// the left (L), top (T), top-left (TL) and top-right (TR) neighbours
// (modes 0-13; the edge rules are handled by the caller).
func predict(mode int, img *Image, x, y int) uint32 {
	l := img.at(x-1, y)
	t := img.at(x, y-1)
	tl := img.at(x-1, y-1)
	var tr uint32
	if x+1 < img.Width {
		tr = img.at(x+1, y-1)
	} else {
		tr = img.at(0, y) // wraps to the next row's first pixel, per libwebp
	}

	switch mode {
	case 0:
		return 0xff000000
	case 1:
		return l
	case 2:
		return t
	case 3:
		return tr
	case 4:
		return tl
	case 5:
		return avg2Pixel(avg2Pixel(l, tr), t)
	case 6:
		return avg2Pixel(l, tl)
	case 7:
		return avg2Pixel(l, t)
	case 8:
		return avg2Pixel(tl, t)
	case 9:
		return avg2Pixel(t, tr)
	case 10:
		return avg2Pixel(avg2Pixel(l, tl), avg2Pixel(t, tr))
	case 11:
		return paethSelect(l, t, tl)
	case 12:
		return clampAddSubtractFullPixel(l, t, tl)
	case 13:
		return clampAddSubtractHalfPixel(avg2Pixel(l, t), tl)
	default:
		return 0
	}
}

func paethSelect(l, t, tl uint32) uint32 {
	la, lr, lg, lb := unpack(l)
	ta, tr2, tg, tb := unpack(t)
	tla, tlr, tlg, tlb := unpack(tl)

	pl := absDiff4(int(la), int(lr), int(lg), int(lb), int(la)+int(ta)-int(tla), int(lr)+int(tr2)-int(tlr), int(lg)+int(tg)-int(tlg), int(lb)+int(tb)-int(tlb))
	pt := absDiff4(int(ta), int(tr2), int(tg), int(tb), int(la)+int(ta)-int(tla), int(lr)+int(tr2)-int(tlr), int(lg)+int(tg)-int(tlg), int(lb)+int(tb)-int(tlb))
	if pl < pt {
		return l
	}
	return t
}

func absDiff4(a0, a1, a2, a3, b0, b1, b2, b3 int) int {
	return abs(a0-b0) + abs(a1-b1) + abs(a2-b2) + abs(a3-b3)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampAddSubtractFullPixel(l, t, tl uint32) uint32 {
	la, lr, lg, lb := unpack(l)
	ta, tr, tg, tb := unpack(t)
	tla, tlr, tlg, tlb := unpack(tl)
	return pack(
		clampByte(int(la)+int(ta)-int(tla)),
		clampByte(int(lr)+int(tr)-int(tlr)),
		clampByte(int(lg)+int(tg)-int(tlg)),
		clampByte(int(lb)+int(tb)-int(tlb)),
	)
}

func clampAddSubtractHalfPixel(avg, tl uint32) uint32 {
	aa, ar, ag, ab := unpack(avg)
	tla, tlr, tlg, tlb := unpack(tl)
	return pack(
		clampByte(int(aa)+(int(aa)-int(tla))/2),
		clampByte(int(ar)+(int(ar)-int(tlr))/2),
		clampByte(int(ag)+(int(ag)-int(tlg))/2),
		clampByte(int(ab)+(int(ab)-int(tlb))/2),
	)
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

// --- color transform ---

func inverseColor(img *Image, t *Transform) {
	blockSide := 1 << uint(t.BlockBits+2)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			code := t.Sub.at(x/blockSide, y/blockSide)
			_, redToBlue, greenToBlue, greenToRed := unpack(code)

			idx := y*img.Width + x
			a, r, g, b := unpack(img.Pixels[idx])
			r = byte(int(r) + colorDelta(greenToRed, g))
			b = byte(int(b) + colorDelta(greenToBlue, g))
			b = byte(int(b) + colorDelta(redToBlue, r))
			img.Pixels[idx] = pack(a, r, g, b)
		}
	}
}

// colorDelta applies the cross-color transform's signed 3.5 fixed-point
// multiply: sign_extend8(t) * sign_extend8(c), arithmetic-shifted right 5.
func colorDelta(t, c byte) int {
	return (signExtend8(t) * signExtend8(c)) >> 5
}

func signExtend8(v byte) int {
	return int(int8(v))
}
