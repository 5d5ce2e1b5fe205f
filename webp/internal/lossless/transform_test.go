package lossless

import "testing"

func TestInverseSubtractGreen(t *testing.T) {
	// A pixel with green=10 stores R and B as (true - green) mod 256; the
	// inverse should add green back.
	img := &Image{Width: 1, Height: 1, Pixels: []uint32{pack(0xff, 5, 10, 250)}}
	tr := &Transform{Type: TransformSubtractGreen}
	if err := tr.ApplyInverse(img); err != nil {
		t.Fatalf("ApplyInverse: %v", err)
	}
	a, r, g, b := unpack(img.Pixels[0])
	if a != 0xff || r != 15 || g != 10 || b != 4 {
		t.Errorf("got a=%d r=%d g=%d b=%d, want a=255 r=15 g=10 b=4", a, r, g, b)
	}
}

func TestAvg2(t *testing.T) {
	if got := avg2(10, 20); got != 15 {
		t.Errorf("avg2(10,20) = %d, want 15", got)
	}
	if got := avg2(255, 0); got != 127 {
		t.Errorf("avg2(255,0) = %d, want 127", got)
	}
}

func TestClampByte(t *testing.T) {
	golden := []struct {
		in   int
		want byte
	}{
		{in: -5, want: 0},
		{in: 300, want: 255},
		{in: 42, want: 42},
	}
	for _, g := range golden {
		if got := clampByte(g.in); got != g.want {
			t.Errorf("clampByte(%d) = %d, want %d", g.in, got, g.want)
		}
	}
}
