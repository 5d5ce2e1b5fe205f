package huffman

import (
	"testing"

	"bitrotio/lossless/webp/internal/bitstream"
)

func TestBuildSingleSymbol(t *testing.T) {
	lengths := make([]int, 4)
	lengths[2] = 1
	tbl, err := Build(lengths)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	r := bitstream.NewReader([]byte{0x00})
	sym, err := tbl.Decode(r)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if sym != 2 {
		t.Errorf("Decode() = %d, want 2", sym)
	}
}

func TestBuildRejectsOverlongCode(t *testing.T) {
	lengths := []int{16, 16}
	if _, err := Build(lengths); err == nil {
		t.Fatal("Build with a 16-bit code length did not fail")
	}
}

// TestBuildTwoEqualLengthSymbols builds a minimal two-symbol code (lengths
// 1,1) and checks each codeword decodes to its own symbol.
func TestBuildTwoEqualLengthSymbols(t *testing.T) {
	lengths := []int{1, 1}
	tbl, err := Build(lengths)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	golden := []struct {
		bit  byte
		want int
	}{
		{bit: 0x00, want: 0},
		{bit: 0x01, want: 1},
	}
	for _, g := range golden {
		r := bitstream.NewReader([]byte{g.bit})
		sym, err := tbl.Decode(r)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if sym != g.want {
			t.Errorf("Decode(bit=%#x) = %d, want %d", g.bit, sym, g.want)
		}
	}
}
