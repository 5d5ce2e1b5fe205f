package bits_test

import (
	"bytes"
	"testing"

	"bitrotio/lossless/flac/internal/bits"
)

// packUnary builds the bit pattern of n zero bits followed by a one bit, as
// whole bytes padded with trailing zero bits.
func packUnary(n uint64) []byte {
	totalBits := n + 1
	buf := make([]byte, (totalBits+7)/8)
	buf[n/8] |= 1 << (7 - n%8)
	return buf
}

func TestReadUnary(t *testing.T) {
	for want := uint64(0); want < 1000; want++ {
		r := bits.NewReader(bytes.NewReader(packUnary(want)))
		got, err := r.ReadUnary()
		if err != nil {
			t.Fatalf("ReadUnary(%d): unexpected error: %v", want, err)
		}
		if got != want {
			t.Fatalf("ReadUnary(%d): got %d", want, got)
		}
	}
}
