package lz77

import (
	"testing"

	"bitrotio/lossless/webp/internal/bitstream"
)

func TestPlanarDistanceNeighbourhood(t *testing.T) {
	const width = 100
	golden := []struct {
		code int
		want int
	}{
		{code: 0, want: width},       // one row up
		{code: 1, want: 1},           // immediately preceding pixel
		{code: 119, want: 8 + 7*width}, // farthest neighbourhood entry
	}
	for _, g := range golden {
		got := PlanarDistance(g.code, width)
		if got != g.want {
			t.Errorf("PlanarDistance(%d, %d) = %d, want %d", g.code, width, got, g.want)
		}
	}
}

func TestPlanarDistanceShortDistanceFix(t *testing.T) {
	// distance_code >= 120 maps to distance_code - 119, not - 120.
	got := PlanarDistance(120, 100)
	if got != 1 {
		t.Errorf("PlanarDistance(120, 100) = %d, want 1", got)
	}
	got = PlanarDistance(219, 100)
	if got != 100 {
		t.Errorf("PlanarDistance(219, 100) = %d, want 100", got)
	}
}

func TestDecodeCode(t *testing.T) {
	golden := []struct {
		code int
		bits uint32
		nbit int
		want int
	}{
		{code: 0, want: 0},
		{code: 3, want: 3},
		{code: 4, bits: 0, nbit: 1, want: 4}, // extra=1, offset=4, +0
		{code: 4, bits: 1, nbit: 1, want: 5},
	}
	for _, g := range golden {
		buf := []byte{byte(g.bits)}
		r := bitstream.NewReader(buf)
		got := DecodeCode(r, g.code)
		if got != g.want {
			t.Errorf("DecodeCode(code=%d) = %d, want %d", g.code, got, g.want)
		}
	}
}
