package meta

import (
	"io"

	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
)

// StreamInfo contains information about the FLAC audio stream. It must be
// present as the first metadata block of a FLAC stream, and every frame in
// the stream must agree with it (see frame.Header validation).
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_streaminfo
type StreamInfo struct {
	// MinBlockSize and MaxBlockSize are the minimum and maximum block sizes
	// (in samples) used anywhere in the stream. Equal values imply a
	// fixed-blocksize stream.
	MinBlockSize uint16
	MaxBlockSize uint16
	// MinFrameSize and MaxFrameSize are the minimum and maximum frame sizes
	// (in bytes) used in the stream. Zero means "unknown".
	MinFrameSize uint32
	MaxFrameSize uint32
	// SampleRate is in Hz; frame headers cap it at 655350 Hz.
	SampleRate uint32
	// ChannelCount is the number of interleaved channels, 1 to 8.
	ChannelCount uint8
	// BitsPerSample is 4 to 32.
	BitsPerSample uint8
	// SampleCount is the total number of inter-channel samples in the
	// stream, or 0 if unknown.
	SampleCount uint64
	// MD5sum is the MD5 signature of the unencoded interchannel samples,
	// used to detect (but not correct) stream corruption.
	MD5sum [16]byte
}

// decodeStreamInfo parses a STREAMINFO block body.
//
//	min_block_size  uint16
//	max_block_size  uint16
//	min_frame_size  uint24
//	max_frame_size  uint24
//	sample_rate     uint20
//	channel_count   uint3  // stored as (channels - 1)
//	bits_per_sample uint5  // stored as (bits - 1)
//	sample_count    uint36
//	md5sum          [16]byte
func decodeStreamInfo(r io.Reader) (*StreamInfo, error) {
	br := bits.NewReader(r)
	si := new(StreamInfo)

	minBlock, err := br.Read(16)
	if err != nil {
		return nil, errs.IO("meta: streaminfo min block size", err)
	}
	si.MinBlockSize = uint16(minBlock)
	if si.MinBlockSize < 16 {
		return nil, errs.New(errs.MalformedHeader, "meta: min block size %d below 16", si.MinBlockSize)
	}

	maxBlock, err := br.Read(16)
	if err != nil {
		return nil, errs.IO("meta: streaminfo max block size", err)
	}
	si.MaxBlockSize = uint16(maxBlock)
	if si.MaxBlockSize < 16 {
		return nil, errs.New(errs.MalformedHeader, "meta: max block size %d below 16", si.MaxBlockSize)
	}

	minFrame, err := br.Read(24)
	if err != nil {
		return nil, errs.IO("meta: streaminfo min frame size", err)
	}
	si.MinFrameSize = uint32(minFrame)

	maxFrame, err := br.Read(24)
	if err != nil {
		return nil, errs.IO("meta: streaminfo max frame size", err)
	}
	si.MaxFrameSize = uint32(maxFrame)

	sampleRate, err := br.Read(20)
	if err != nil {
		return nil, errs.IO("meta: streaminfo sample rate", err)
	}
	si.SampleRate = uint32(sampleRate)
	if si.SampleRate == 0 || si.SampleRate > 655350 {
		return nil, errs.New(errs.MalformedHeader, "meta: sample rate %d out of range", si.SampleRate)
	}

	// channel_count is stored as (channel count - 1) in 3 bits: mask the
	// 3-bit field first, then add 1. A raw "1 + byte>>1 & 0x7" reads the
	// same but is easy to mis-group as (1+byte>>1)&0x7, which would only
	// ever mask an already-wrong value.
	channelCount, err := br.Read(3)
	if err != nil {
		return nil, errs.IO("meta: streaminfo channel count", err)
	}
	si.ChannelCount = uint8(channelCount) + 1

	bitsPerSample, err := br.Read(5)
	if err != nil {
		return nil, errs.IO("meta: streaminfo bits per sample", err)
	}
	si.BitsPerSample = uint8(bitsPerSample) + 1
	if si.BitsPerSample < 4 {
		return nil, errs.New(errs.MalformedHeader, "meta: bits per sample %d below 4", si.BitsPerSample)
	}

	// sample_count is a single 36-bit field and must be read as one
	// contiguous read; reading the same byte twice under two narrower
	// reads would silently misalign every bit that follows.
	sampleCount, err := br.Read(36)
	if err != nil {
		return nil, errs.IO("meta: streaminfo sample count", err)
	}
	si.SampleCount = sampleCount

	// The fields above total 144 bits, so the stream is byte-aligned here;
	// the MD5 signature is still read through br rather than through r
	// directly, since br, not r, holds the current read position.
	for i := range si.MD5sum {
		b, err := br.Read(8)
		if err != nil {
			return nil, errs.IO("meta: streaminfo md5sum", err)
		}
		si.MD5sum[i] = byte(b)
	}

	return si, nil
}
