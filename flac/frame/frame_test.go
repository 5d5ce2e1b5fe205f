package frame

import (
	"bytes"
	"testing"

	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
	"bitrotio/lossless/flac/internal/crc16"
	"bitrotio/lossless/flac/internal/crc8"
	"bitrotio/lossless/flac/meta"
)

func testBitReader(data []byte) *bits.Reader {
	return bits.NewReader(bytes.NewReader(data))
}

// bitBuilder accumulates MSB-first bits into a byte slice, for constructing
// test frames without a bit writer package (the module deliberately has no
// encoder).
type bitBuilder struct {
	buf  []byte
	bit  uint8 // number of bits already used in the last byte of buf
}

func (b *bitBuilder) writeBits(v uint64, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		bitVal := byte((v >> uint(i)) & 1)
		if b.bit == 0 {
			b.buf = append(b.buf, 0)
		}
		b.buf[len(b.buf)-1] |= bitVal << (7 - b.bit)
		b.bit = (b.bit + 1) % 8
	}
}

func (b *bitBuilder) writeUnary(q uint64) {
	for i := uint64(0); i < q; i++ {
		b.writeBits(0, 1)
	}
	b.writeBits(1, 1)
}

func (b *bitBuilder) alignByte() {
	if b.bit != 0 {
		b.writeBits(0, uint(8-b.bit))
	}
}

// streamInfoFor builds a minimal StreamInfo for frame-level tests.
func streamInfoFor(sampleRate uint32, channels, bps uint8, blockSize uint16) *meta.StreamInfo {
	return &meta.StreamInfo{
		MinBlockSize:  blockSize,
		MaxBlockSize:  blockSize,
		SampleRate:    sampleRate,
		ChannelCount:  channels,
		BitsPerSample: bps,
	}
}

// buildHeaderBytes constructs a fixed-blocksize frame header (without CRC)
// for blockSizeSel=8 (256 samples), sampleRateSel=0 (use stream info), the
// given layout selector, bit-depth selector 0 (use stream info), frame
// number 0.
func buildHeaderBytes(layoutSel uint8) []byte {
	b := &bitBuilder{}
	b.writeBits(0xFF, 8)
	b.writeBits(0xF8, 8) // fixed blocking strategy
	b.writeBits(8, 4)    // block size selector 8 -> 256
	b.writeBits(0, 4)    // sample rate selector 0 -> use stream info
	b.writeBits(uint64(layoutSel), 4)
	b.writeBits(0, 3) // bit depth selector 0 -> use stream info
	b.writeBits(0, 1) // reserved
	b.writeBits(0, 8) // frame number 0 (single byte UTF-8 coded form)
	crc := crc8.Checksum(b.buf)
	b.writeBits(uint64(crc), 8)
	return b.buf
}

func TestDecodeHeaderConstant(t *testing.T) {
	si := streamInfoFor(48000, 1, 16, 256)
	hdrBytes := buildHeaderBytes(0)
	br := testBitReader(hdrBytes)
	h, err := DecodeHeader(br, si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.BlockSize != 256 || h.SampleRate != 48000 || h.BitDepth != 16 {
		t.Fatalf("got %+v", h)
	}
}

func TestDecodeHeaderCRCMismatch(t *testing.T) {
	si := streamInfoFor(48000, 1, 16, 256)
	hdrBytes := buildHeaderBytes(0)
	hdrBytes[len(hdrBytes)-1] ^= 0xFF
	br := testBitReader(hdrBytes)
	if _, err := DecodeHeader(br, si); !errs.Is(err, errs.CrcFailure) {
		t.Fatalf("expected CrcFailure, got %v", err)
	}
}

func TestDecodeFrameConstant(t *testing.T) {
	// Minimal FLAC constant frame: 48 kHz, 1 ch, 16-bit, 1024 samples,
	// layout 0, constant subframe value 0x0ABC.
	si := streamInfoFor(48000, 1, 16, 1024)

	b := &bitBuilder{}
	b.writeBits(0xFF, 8)
	b.writeBits(0xF8, 8)
	b.writeBits(10, 4) // block size selector 10 -> 1024
	b.writeBits(0, 4)
	b.writeBits(0, 4) // layout 0: mono
	b.writeBits(0, 3)
	b.writeBits(0, 1)
	b.writeBits(0, 8) // frame number 0
	headerCRC := crc8.Checksum(b.buf)
	b.writeBits(uint64(headerCRC), 8)

	// Subframe: constant.
	b.writeBits(0, 1)    // subframe sync
	b.writeBits(0, 6)    // prediction mode 0: constant
	b.writeBits(0, 1)    // no wasted bits
	b.writeBits(0x0ABC, 16)
	b.alignByte()

	footerCRC := crc16.Checksum(b.buf)
	b.buf = append(b.buf, byte(footerCRC>>8), byte(footerCRC))

	fr, next, err := Decode(b.buf, 0, si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next != len(b.buf) {
		t.Fatalf("consumed %d bytes, want %d", next, len(b.buf))
	}
	if len(fr.Channels) != 1 || len(fr.Channels[0]) != 1024 {
		t.Fatalf("got %d channels, %d samples", len(fr.Channels), len(fr.Channels[0]))
	}
	for i, s := range fr.Channels[0] {
		if s != 0x0ABC {
			t.Fatalf("sample %d: got %d, want 0x0ABC", i, s)
		}
	}
}

func TestDecodeFrameFixedOrder2(t *testing.T) {
	// Fixed order 2: warmup [100, 200], all-zero residuals for 8 more
	// samples. s[i] = 2*s[i-1] - s[i-2].
	si := streamInfoFor(48000, 1, 16, 10)

	b := &bitBuilder{}
	b.writeBits(0xFF, 8)
	b.writeBits(0xF8, 8)
	b.writeBits(6, 4) // block size selector 6: 1-byte explicit size
	b.writeBits(0, 4)
	b.writeBits(0, 4)
	b.writeBits(0, 3)
	b.writeBits(0, 1)
	b.writeBits(0, 8)  // frame number
	b.writeBits(9, 8) // explicit block size byte: blockSize-1 = 9 -> 10
	headerCRC := crc8.Checksum(b.buf)
	b.writeBits(uint64(headerCRC), 8)

	b.writeBits(0, 1) // subframe sync
	b.writeBits(10, 6) // prediction mode 10: fixed order 2
	b.writeBits(0, 1)
	// warmup samples, signed 16-bit.
	b.writeBits(uint64(uint16(100)), 16)
	b.writeBits(uint64(uint16(200)), 16)
	// residual header: reserved=0, param width selector=0 (4-bit params),
	// partition order=0 -> a single partition covering all 10 samples,
	// with 8 residuals after the 2 warmup samples.
	b.writeBits(0, 1)
	b.writeBits(0, 1)
	b.writeBits(0, 4)
	b.writeBits(0, 4) // rice parameter 0
	for i := 0; i < 8; i++ {
		b.writeUnary(0) // folded 0 -> residual 0
	}
	b.alignByte()

	footerCRC := crc16.Checksum(b.buf)
	b.buf = append(b.buf, byte(footerCRC>>8), byte(footerCRC))

	fr, _, err := Decode(b.buf, 0, si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{100, 200, 300, 400, 500, 600, 700, 800, 900, 1000}
	got := fr.Channels[0]
	if len(got) != len(want) {
		t.Fatalf("got %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sample %d: got %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDecorrelateMidSide(t *testing.T) {
	mid := []int64{10, 20, 30}
	side := []int64{2, 4, 6}
	decorrelate(LayoutMidSide, [][]int64{mid, side})
	wantL := []int64{11, 22, 33}
	wantR := []int64{9, 18, 27}
	for i := range wantL {
		if mid[i] != wantL[i] {
			t.Errorf("L[%d]: got %d, want %d", i, mid[i], wantL[i])
		}
		if side[i] != wantR[i] {
			t.Errorf("R[%d]: got %d, want %d", i, side[i], wantR[i])
		}
	}
}
