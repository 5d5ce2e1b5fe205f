// Package meta parses FLAC metadata blocks: STREAMINFO, PADDING, APPLICATION,
// SEEKTABLE, VORBIS_COMMENT, CUESHEET and PICTURE.
package meta

import (
	"encoding/binary"
	"fmt"
	"io"
	"io/ioutil"

	"bitrotio/lossless/errs"
)

// Type identifies the metadata block type.
type Type uint8

// Metadata block types.
const (
	TypeStreamInfo Type = iota
	TypePadding
	TypeApplication
	TypeSeekTable
	TypeVorbisComment
	TypeCueSheet
	TypePicture
	typeReservedLo Type = 7
	typeReservedHi Type = 126
	TypeInvalid    Type = 127
)

func (t Type) String() string {
	switch t {
	case TypeStreamInfo:
		return "stream info"
	case TypePadding:
		return "padding"
	case TypeApplication:
		return "application"
	case TypeSeekTable:
		return "seek table"
	case TypeVorbisComment:
		return "vorbis comment"
	case TypeCueSheet:
		return "cue sheet"
	case TypePicture:
		return "picture"
	default:
		return fmt.Sprintf("reserved(%d)", uint8(t))
	}
}

// Header precedes every metadata block and records its type, length and
// whether it is the last metadata block before the audio frames begin.
type Header struct {
	// IsLast is true if this is the last metadata block before the first
	// audio frame.
	IsLast bool
	// Type identifies the block body that follows.
	Type Type
	// Length is the size in bytes of the block body, not counting the
	// header itself.
	Length int
}

// DecodeHeader reads and validates a 4-byte metadata block header.
//
//	is_last    bool:1
//	block_type uint:7
//	length     uint:24
func DecodeHeader(r io.Reader) (Header, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return Header{}, errs.IO("meta: read block header", err)
	}
	var h Header
	h.IsLast = buf[0]&0x80 != 0
	h.Type = Type(buf[0] &^ 0x80)
	if h.Type >= typeReservedLo && h.Type <= typeReservedHi {
		return Header{}, errs.New(errs.MalformedHeader, "meta: reserved block type %d", uint8(h.Type))
	}
	if h.Type == TypeInvalid {
		return Header{}, errs.New(errs.MalformedHeader, "meta: invalid block type 127")
	}
	h.Length = int(buf[1])<<16 | int(buf[2])<<8 | int(buf[3])
	return h, nil
}

// Block pairs a decoded Header with its parsed body. Body holds one of
// *StreamInfo, *Application, *SeekTable, *VorbisComment, *CueSheet or
// *Picture, or nil for a PADDING or reserved block.
type Block struct {
	Header Header
	Body   interface{}
}

// Decode reads a single metadata block: its header followed by a body whose
// size is exactly Header.Length bytes.
func Decode(r io.Reader) (*Block, error) {
	h, err := DecodeHeader(r)
	if err != nil {
		return nil, err
	}
	lr := io.LimitReader(r, int64(h.Length))
	blk := &Block{Header: h}
	switch h.Type {
	case TypeStreamInfo:
		blk.Body, err = decodeStreamInfo(lr)
	case TypeApplication:
		blk.Body, err = decodeApplication(lr, h.Length)
	case TypeSeekTable:
		blk.Body, err = decodeSeekTable(lr, h.Length)
	case TypeVorbisComment:
		blk.Body, err = decodeVorbisComment(lr)
	case TypeCueSheet:
		blk.Body, err = decodeCueSheet(lr)
	case TypePicture:
		blk.Body, err = decodePicture(lr)
	case TypePadding:
		_, err = io.Copy(ioutil.Discard, lr)
	default:
		// Reserved block type: skip the body, preserve forward
		// compatibility with future block types.
		_, err = io.Copy(ioutil.Discard, lr)
	}
	if err != nil {
		return nil, err
	}
	return blk, nil
}

func readUint32BE(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.BigEndian, &v); err != nil {
		return 0, errs.IO("meta: read uint32", err)
	}
	return v, nil
}

func readUint32LE(r io.Reader) (uint32, error) {
	var v uint32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return 0, errs.IO("meta: read uint32", err)
	}
	return v, nil
}

// readStringSZ reads exactly n bytes and truncates the result at the first
// NUL byte, mirroring the C string convention used by CUESHEET fields.
func readStringSZ(r io.Reader, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errs.IO("meta: read fixed string", err)
	}
	for i, b := range buf {
		if b == 0 {
			buf = buf[:i]
			break
		}
	}
	return string(buf), nil
}

func isAllZero(buf []byte) bool {
	for _, b := range buf {
		if b != 0 {
			return false
		}
	}
	return true
}
