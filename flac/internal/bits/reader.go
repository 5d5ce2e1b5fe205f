// Package bits implements the MSB-first bit-level primitives used to decode
// FLAC frame headers and subframes: raw bit reads, two's-complement signed
// reads, and unary codes, layered on top of github.com/icza/bitio's
// MSB-first Reader.
package bits

import (
	"io"

	"github.com/icza/bitio"
)

// Reader reads MSB-first bits from an underlying byte stream. Bit i of byte
// B is (B >> (7-i)) & 1; Read(n) accumulates bits most-significant-first.
// BitsCount tracks the total number of bits consumed so far, which the frame
// decoder needs to locate the byte-aligned CRC-16 footer that follows the
// last subframe.
type Reader struct {
	*bitio.CountReader
}

// NewReader returns a new MSB-first bit Reader reading from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{CountReader: bitio.NewCountReader(r)}
}

// Read reads n bits (0 <= n <= 64) and returns them as an unsigned integer in
// most-significant-bit-first order. Read(0) consumes nothing and returns 0.
func (r *Reader) Read(n uint) (uint64, error) {
	if n == 0 {
		return 0, nil
	}
	return r.ReadBits(uint8(n))
}

// ReadSigned reads n bits and interprets the result as an n-bit two's
// complement signed integer.
func (r *Reader) ReadSigned(n uint) (int64, error) {
	x, err := r.Read(n)
	if err != nil {
		return 0, err
	}
	return IntN(x, n), nil
}
