// Package container parses the RIFF/WEBP/VP8L chunk wrapper around a
// lossless WebP bitstream and hands back the VP8L payload.
package container

import (
	"encoding/binary"

	"bitrotio/lossless/errs"
)

var (
	fourCCRIFF = [4]byte{'R', 'I', 'F', 'F'}
	fourCCWEBP = [4]byte{'W', 'E', 'B', 'P'}
	fourCCVP8L = [4]byte{'V', 'P', '8', 'L'}
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
)

// PaddedSize rounds size up to an even number of bytes, as RIFF chunks
// always occupy an even byte count.
func PaddedSize(size uint32) uint32 {
	return size + (size & 1)
}

// VP8LPayload validates the RIFF/WEBP/VP8L wrapper around data and returns
// the VP8L chunk payload (signature byte through the entropy-coded stream).
//
//	0  "RIFF"   4  file_length-8   8  "WEBP"
//	12 "VP8L"   16 chunk_length (= file_length-20, padded to even)   20.. payload
func VP8LPayload(data []byte) ([]byte, error) {
	if len(data) < riffHeaderSize+chunkHeaderSize {
		return nil, errs.New(errs.MalformedHeader, "webp: file too short for RIFF/VP8L headers")
	}
	if [4]byte(data[0:4]) != fourCCRIFF {
		return nil, errs.New(errs.MalformedHeader, "webp: missing RIFF signature")
	}
	riffLen := binary.LittleEndian.Uint32(data[4:8])
	if riffLen != uint32(len(data))-8 {
		return nil, errs.New(errs.MalformedHeader, "webp: RIFF length %d disagrees with file size %d", riffLen, len(data)-8)
	}
	if [4]byte(data[8:12]) != fourCCWEBP {
		return nil, errs.New(errs.MalformedHeader, "webp: missing WEBP signature")
	}
	if [4]byte(data[12:16]) != fourCCVP8L {
		return nil, errs.New(errs.Unsupported, "webp: not a lossless (VP8L) stream")
	}
	chunkLen := binary.LittleEndian.Uint32(data[16:20])
	wantLen := PaddedSize(uint32(len(data)) - 20)
	if chunkLen != wantLen {
		return nil, errs.New(errs.MalformedHeader, "webp: VP8L chunk length %d, want %d", chunkLen, wantLen)
	}
	payload := data[20:]
	if uint32(len(payload)) < chunkLen {
		return nil, errs.New(errs.IoError, "webp: truncated VP8L chunk")
	}
	return payload[:chunkLen], nil
}
