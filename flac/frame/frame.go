package frame

import (
	"bytes"
	"io"
	"time"

	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
	"bitrotio/lossless/flac/internal/crc16"
	"bitrotio/lossless/flac/meta"
)

// A Frame is one decoded audio frame: its header plus one reconstructed,
// decorrelated sample slice per output channel.
type Frame struct {
	Header Header
	// Channels holds one []int64 per output channel, each Header.BlockSize
	// samples long, after any inter-channel decorrelation has been undone.
	Channels [][]int64
}

// Timestamp returns the stream position of the frame's first sample.
// Header.Num is a frame index under a fixed blocking strategy and a sample
// index otherwise.
func (f *Frame) Timestamp() time.Duration {
	if f.Header.SampleRate == 0 {
		return 0
	}
	var sample uint64
	if f.Header.HasFixedBlockSize {
		sample = f.Header.Num * uint64(f.Header.BlockSize)
	} else {
		sample = f.Header.Num
	}
	return time.Duration(sample) * time.Second / time.Duration(f.Header.SampleRate)
}

// Decode reads one frame starting at data[pos], validates it against si, and
// returns the frame along with the offset of the byte following it.
//
//	header    FRAME_HEADER
//	subframes []SUBFRAME        // one per channel, layout-dependent widths
//	_         uint0 to uint7    // zero padding to the next byte boundary
//	footer    uint16            // CRC-16 of the frame, header through padding
func Decode(data []byte, pos int, si *meta.StreamInfo) (*Frame, int, error) {
	start := pos
	br := bits.NewReader(bytes.NewReader(data[pos:]))

	h, err := DecodeHeader(br, si)
	if err != nil {
		return nil, 0, err
	}

	channelCount := h.Layout.ChannelCount()
	rawChannels := make([][]int64, channelCount)
	for ch := 0; ch < channelCount; ch++ {
		sampleBits := uint(h.BitDepth)
		if widenedChannel(h.Layout) == ch {
			sampleBits++
		}
		samples, err := decodeSubframe(br, h.BlockSize, sampleBits)
		if err != nil {
			return nil, 0, err
		}
		rawChannels[ch] = samples
	}

	if padBits := br.BitsCount % 8; padBits != 0 {
		pad, err := br.Read(uint(8 - padBits))
		if err != nil {
			return nil, 0, errs.IO("frame: padding", err)
		}
		if pad != 0 {
			return nil, 0, errs.New(errs.InvalidBitstream, "frame: non-zero padding before footer")
		}
	}

	frameByteLen := int(br.BitsCount / 8)
	end := start + frameByteLen
	if end+2 > len(data) {
		return nil, 0, errs.IO("frame: footer", io.ErrUnexpectedEOF)
	}
	wantCRC := uint16(data[end])<<8 | uint16(data[end+1])
	gotCRC := crc16.Checksum(data[start:end])
	if wantCRC != gotCRC {
		return nil, 0, errs.New(errs.CrcFailure, "frame: footer CRC-16 mismatch: want 0x%04X, got 0x%04X", wantCRC, gotCRC)
	}

	decorrelate(h.Layout, rawChannels)

	return &Frame{Header: h, Channels: rawChannels}, end + 2, nil
}

// widenedChannel returns the subframe index that carries one extra bit of
// sample depth for the given layout (the "side" channel), or -1 if none.
func widenedChannel(l Layout) int {
	switch l {
	case LayoutLeftSide, LayoutMidSide:
		return 1
	case LayoutRightSide:
		return 0
	default:
		return -1
	}
}

// decorrelate undoes the inter-channel decorrelation selected by layout,
// rewriting ch in place.
//
//	left/side:  R = L - S
//	right/side: L = R + S
//	mid/side:   mid' = (M<<1)|(S&1); L = (mid'+S)>>1; R = (mid'-S)>>1
func decorrelate(l Layout, ch [][]int64) {
	switch l {
	case LayoutLeftSide:
		left, side := ch[0], ch[1]
		for i := range left {
			side[i] = left[i] - side[i]
		}
	case LayoutRightSide:
		right, side := ch[1], ch[0]
		for i := range right {
			ch[0][i] = right[i] + side[i]
		}
	case LayoutMidSide:
		mid, side := ch[0], ch[1]
		for i := range mid {
			m := mid[i]<<1 | (side[i] & 1)
			mid[i] = (m + side[i]) >> 1
			side[i] = (m - side[i]) >> 1
		}
	}
}
