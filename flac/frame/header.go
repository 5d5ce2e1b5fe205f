// Package frame decodes FLAC audio frames: header synchronization and CRC,
// subframe dispatch, and inter-channel decorrelation.
package frame

import (
	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
	"bitrotio/lossless/flac/internal/crc8"
	"bitrotio/lossless/flac/meta"
)

// Layout identifies how a frame's subframes map to output channels.
type Layout uint8

// The 11 channel layouts a FLAC frame header can select.
const (
	Layout1 Layout = iota // mono
	Layout2
	Layout3
	Layout4
	Layout5
	Layout6
	Layout7
	Layout8
	LayoutLeftSide  // 8: subframe 0 is left, subframe 1 is side (left-right)
	LayoutRightSide // 9: subframe 0 is side (left-right), subframe 1 is right
	LayoutMidSide   // 10: subframe 0 is mid, subframe 1 is side
)

func (l Layout) String() string {
	switch l {
	case LayoutLeftSide:
		return "left/side"
	case LayoutRightSide:
		return "right/side"
	case LayoutMidSide:
		return "mid/side"
	default:
		return "independent"
	}
}

// ChannelCount returns the number of subframes (and output channels) implied
// by l.
func (l Layout) ChannelCount() int {
	if l >= LayoutLeftSide {
		return 2
	}
	return int(l) + 1
}

// Header describes one FLAC frame: its block size, sample rate, channel
// layout, bit depth and block/sample index, all validated against the
// stream's STREAMINFO.
type Header struct {
	// BlockSize is the number of inter-channel samples in the frame.
	BlockSize uint32
	// SampleRate in Hz.
	SampleRate uint32
	// Layout selects the channel decorrelation scheme, if any.
	Layout Layout
	// BitDepth is bits per sample, before any side-channel widening.
	BitDepth uint8
	// Num is a frame index (fixed blocking strategy) or starting sample
	// index (variable blocking strategy).
	Num uint64
	// HasFixedBlockSize is true when blocking_strategy bit is 0.
	HasFixedBlockSize bool
}

var blockSizeTable = [16]uint32{
	0, 192, 576, 1152, 2304, 4608,
	0, 0, // 6, 7: read from extra bytes.
	256, 512, 1024, 2048, 4096, 8192, 16384, 32768,
}

var sampleRateTable = [12]uint32{
	0, 88200, 176400, 192000, 8000, 16000, 22050, 24000, 32000, 44100, 48000, 96000,
}

var bitDepthTable = [8]uint8{
	0, 8, 12, 0, 16, 20, 24, 32,
}

// headerReader records header bytes as they're consumed from br for the
// CRC-8 check. The frame header is fully byte-aligned, but it's read through
// the same bit reader the subframes use so that BitsCount stays accurate
// across the whole frame.
type headerReader struct {
	br  *bits.Reader
	buf []byte
}

func (hr *headerReader) readByte() (byte, error) {
	v, err := hr.br.Read(8)
	if err != nil {
		return 0, errs.IO("frame: read header byte", err)
	}
	b := byte(v)
	hr.buf = append(hr.buf, b)
	return b, nil
}

// DecodeHeader reads and validates one frame header, starting at the sync
// code, against si.
//
// Frame sync: 0xFF, then 0b1111100 | blocking_strategy. The remainder is a
// block-size selector (4 bits), sample-rate selector (4 bits), a
// channel-layout selector (4 bits), a bit-depth selector (3 bits) and one
// reserved bit; a UTF-8-style variable-length integer gives the block or
// sample index; selectors 6/7 (12/13/14 for rate) read 1-2 extra bytes; the
// header ends with a CRC-8 over every preceding header byte.
func DecodeHeader(br *bits.Reader, si *meta.StreamInfo) (Header, error) {
	hr := &headerReader{br: br}

	sync, err := hr.readByte()
	if err != nil {
		return Header{}, err
	}
	if sync != 0xFF {
		return Header{}, errs.New(errs.MalformedHeader, "frame: lost sync, want 0xFF got 0x%02X", sync)
	}
	flags, err := hr.readByte()
	if err != nil {
		return Header{}, err
	}
	if flags&0xFE != 0xF8 {
		return Header{}, errs.New(errs.MalformedHeader, "frame: invalid sync code byte 0x%02X", flags)
	}
	var h Header
	h.HasFixedBlockSize = flags&0x01 == 0

	selectors, err := hr.readByte()
	if err != nil {
		return Header{}, err
	}
	blockSizeSel := selectors >> 4
	sampleRateSel := selectors & 0x0F

	chDepth, err := hr.readByte()
	if err != nil {
		return Header{}, err
	}
	layoutSel := chDepth >> 4
	bitDepthSel := (chDepth & 0x0F) >> 1
	if chDepth&0x01 != 0 {
		return Header{}, errs.New(errs.MalformedHeader, "frame: reserved header bit set")
	}

	num, err := readUTF8Coded(hr)
	if err != nil {
		return Header{}, err
	}
	h.Num = num

	switch blockSizeSel {
	case 0:
		return Header{}, errs.New(errs.MalformedHeader, "frame: reserved block size selector 0")
	case 6:
		b, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		h.BlockSize = uint32(b) + 1
	case 7:
		hi, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		lo, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		h.BlockSize = (uint32(hi)<<8 | uint32(lo)) + 1
	default:
		h.BlockSize = blockSizeTable[blockSizeSel]
	}

	switch sampleRateSel {
	case 0:
		h.SampleRate = si.SampleRate
	case 12:
		b, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		h.SampleRate = 1000 * uint32(b)
	case 13:
		hi, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		lo, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		h.SampleRate = uint32(hi)<<8 | uint32(lo)
	case 14:
		hi, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		lo, err := hr.readByte()
		if err != nil {
			return Header{}, err
		}
		h.SampleRate = 10 * (uint32(hi)<<8 | uint32(lo))
	case 15:
		return Header{}, errs.New(errs.MalformedHeader, "frame: forbidden sample rate selector 15")
	default:
		h.SampleRate = sampleRateTable[sampleRateSel]
	}

	if layoutSel > 10 {
		return Header{}, errs.New(errs.MalformedHeader, "frame: invalid channel layout selector %d", layoutSel)
	}
	h.Layout = Layout(layoutSel)

	if bitDepthSel == 3 {
		return Header{}, errs.New(errs.MalformedHeader, "frame: forbidden bit depth selector 3")
	}
	if bitDepthSel == 0 {
		h.BitDepth = si.BitsPerSample
	} else {
		h.BitDepth = bitDepthTable[bitDepthSel]
	}

	wantCRC, err := hr.readByte()
	if err != nil {
		return Header{}, err
	}
	gotCRC := crc8.Checksum(hr.buf[:len(hr.buf)-1])
	if gotCRC != wantCRC {
		return Header{}, errs.New(errs.CrcFailure, "frame: header CRC-8 mismatch: want 0x%02X, got 0x%02X", wantCRC, gotCRC)
	}

	if h.BitDepth != si.BitsPerSample {
		return Header{}, errs.New(errs.Mismatch, "frame: bit depth %d disagrees with stream info %d", h.BitDepth, si.BitsPerSample)
	}
	if h.SampleRate != si.SampleRate {
		return Header{}, errs.New(errs.Mismatch, "frame: sample rate %d disagrees with stream info %d", h.SampleRate, si.SampleRate)
	}
	if h.Layout.ChannelCount() != int(si.ChannelCount) {
		return Header{}, errs.New(errs.Mismatch, "frame: channel count %d disagrees with stream info %d", h.Layout.ChannelCount(), si.ChannelCount)
	}
	if h.BlockSize > uint32(si.MaxBlockSize) || h.BlockSize < uint32(si.MinBlockSize) {
		return Header{}, errs.New(errs.Mismatch, "frame: block size %d outside stream info bounds [%d, %d]", h.BlockSize, si.MinBlockSize, si.MaxBlockSize)
	}

	return h, nil
}

// readUTF8Coded reads a UTF-8-like variable-length unsigned integer: the
// leading byte's high-bit run selects how many continuation bytes follow
// (each contributing 6 low bits), mirroring the byte layout of UTF-8 without
// being actual UTF-8.
func readUTF8Coded(hr *headerReader) (uint64, error) {
	lead, err := hr.readByte()
	if err != nil {
		return 0, err
	}
	var n uint64
	var extra int
	switch {
	case lead&0x80 == 0:
		return uint64(lead), nil
	case lead&0xE0 == 0xC0:
		extra = 1
		n = uint64(lead & 0x1F)
	case lead&0xF0 == 0xE0:
		extra = 2
		n = uint64(lead & 0x0F)
	case lead&0xF8 == 0xF0:
		extra = 3
		n = uint64(lead & 0x07)
	case lead&0xFC == 0xF8:
		extra = 4
		n = uint64(lead & 0x03)
	case lead&0xFE == 0xFC:
		extra = 5
		n = uint64(lead & 0x01)
	case lead == 0xFE:
		extra = 6
		n = 0
	default:
		return 0, errs.New(errs.InvalidBitstream, "frame: invalid UTF-8-coded number leading byte 0x%02X", lead)
	}
	for i := 0; i < extra; i++ {
		b, err := hr.readByte()
		if err != nil {
			return 0, err
		}
		if b&0xC0 != 0x80 {
			return 0, errs.New(errs.InvalidBitstream, "frame: invalid UTF-8-coded number continuation byte 0x%02X", b)
		}
		n = n<<6 | uint64(b&0x3F)
	}
	return n, nil
}
