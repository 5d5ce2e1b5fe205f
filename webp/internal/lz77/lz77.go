// Package lz77 implements VP8L's length/distance prefix decoding and its
// 120-entry pixel-neighbourhood table for short back-reference distances.
//
// The neighbourhood table maps each short-distance code to a fixed
// (dx, dy) pixel offset: code 0 is one row up (distance = image width),
// code 1 is the immediately preceding pixel, and code 119 is the farthest
// entry, (dx=8, dy=7).
package lz77

import "bitrotio/lossless/webp/internal/bitstream"

// DecodeCode reads the extra bits for a length or distance prefix symbol
// and returns its value.
//
//	code < 4:  value = code
//	else:      extra = (code-2)>>1; offset = (2 + (code&1)) << extra
//	           value = offset + read_bits(extra)
func DecodeCode(r *bitstream.Reader, code int) int {
	if code < 4 {
		return code
	}
	extra := (code - 2) >> 1
	offset := (2 + (code & 1)) << uint(extra)
	return offset + int(r.ReadBits(extra))
}

// codeToPlane holds, for each short-distance code 0..119, the
// (dx, dy) neighbourhood offset, kept as literal pairs for clarity rather
// than libwebp's packed dx+dy*17+120 encoding.
var codeToPlane = [120][2]int{
	{0, 1}, {1, 0}, {1, 1}, {-1, 1}, {0, 2}, {2, 0}, {1, 2}, {-1, 2},
	{2, 1}, {-2, 1}, {2, 2}, {-2, 2}, {0, 3}, {3, 0}, {1, 3}, {-1, 3},
	{3, 1}, {-3, 1}, {2, 3}, {-2, 3}, {3, 2}, {-3, 2}, {0, 4}, {4, 0},
	{1, 4}, {-1, 4}, {4, 1}, {-4, 1}, {3, 3}, {-3, 3}, {2, 4}, {-2, 4},
	{4, 2}, {-4, 2}, {0, 5}, {3, 4}, {-3, 4}, {4, 3}, {-4, 3}, {5, 0},
	{1, 5}, {-1, 5}, {5, 1}, {-5, 1}, {2, 5}, {-2, 5}, {5, 2}, {-5, 2},
	{4, 4}, {-4, 4}, {3, 5}, {-3, 5}, {5, 3}, {-5, 3}, {0, 6}, {6, 0},
	{1, 6}, {-1, 6}, {6, 1}, {-6, 1}, {2, 6}, {-2, 6}, {6, 2}, {-6, 2},
	{4, 5}, {-4, 5}, {5, 4}, {-5, 4}, {3, 6}, {-3, 6}, {6, 3}, {-6, 3},
	{0, 7}, {7, 0}, {1, 7}, {-1, 7}, {5, 5}, {-5, 5}, {7, 1}, {-7, 1},
	{4, 6}, {-4, 6}, {6, 4}, {-6, 4}, {2, 7}, {-2, 7}, {7, 2}, {-7, 2},
	{3, 7}, {-3, 7}, {7, 3}, {-7, 3}, {5, 6}, {-5, 6}, {6, 5}, {-6, 5},
	{8, 0}, {4, 7}, {-4, 7}, {7, 4}, {-7, 4}, {8, 1}, {8, 2}, {6, 6},
	{-6, 6}, {8, 3}, {5, 7}, {-5, 7}, {7, 5}, {-7, 5}, {8, 4}, {6, 7},
	{-6, 7}, {7, 6}, {-7, 6}, {8, 5}, {7, 7}, {-7, 7}, {8, 6}, {8, 7},
}

// Neighbour returns the (dx, dy) pixel offset for a short-distance code
// (0-based, 0..119), i.e. a distance_code value produced by DecodeCode for
// the distance-prefix symbol when that value is < 120. code=0 is the
// nearest neighbour, one row up; code=119 is the farthest, (8, 7).
func Neighbour(code int) (dx, dy int) {
	p := codeToPlane[code]
	return p[0], p[1]
}

// PlanarDistance converts a decoded distance_code into a linear pixel
// distance for an image of the given width. Codes at or above 120 use
// distance_code - 119, not the off-by-one distance_code - 120 some WebP
// decoders mistakenly use.
func PlanarDistance(distanceCode, width int) int {
	if distanceCode < 120 {
		dx, dy := Neighbour(distanceCode)
		d := dx + dy*width
		if d < 1 {
			return 1
		}
		return d
	}
	d := distanceCode - 119
	if d < 1 {
		return 1
	}
	return d
}
