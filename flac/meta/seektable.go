package meta

import (
	"encoding/binary"
	"io"

	"bitrotio/lossless/errs"
)

// SeekTable contains one or more precalculated audio frame seek points.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_seektable
type SeekTable struct {
	// Points is sorted by SampleNum in ascending order, with any
	// placeholder points trailing at the end.
	Points []SeekPoint
}

// PlaceholderSampleNum is the SampleNum value used by placeholder seek
// points, reserving table space for future insertion.
const PlaceholderSampleNum = 0xFFFFFFFFFFFFFFFF

// A SeekPoint specifies the byte offset and initial sample number of a given
// target frame.
//
// ref: https://www.xiph.org/flac/format.html#seekpoint
type SeekPoint struct {
	// SampleNum is the sample number of the first sample in the target
	// frame, or PlaceholderSampleNum for a placeholder point.
	SampleNum uint64
	// Offset is in bytes, from the first byte of the first frame header to
	// the first byte of the target frame's header.
	Offset uint64
	// NSamples is the number of samples in the target frame.
	NSamples uint16
}

const seekPointSize = 8 + 8 + 2

// decodeSeekTable parses a SEEKTABLE block body: length/18 fixed-size seek
// points, with no trailing length field of their own.
func decodeSeekTable(r io.Reader, length int) (*SeekTable, error) {
	if length%seekPointSize != 0 {
		return nil, errs.New(errs.MalformedHeader, "meta: seek table length %d not a multiple of %d", length, seekPointSize)
	}
	st := &SeekTable{Points: make([]SeekPoint, 0, length/seekPointSize)}
	var prev uint64
	var hasPrev bool
	var buf [seekPointSize]byte
	for i := 0; i < length/seekPointSize; i++ {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, errs.IO("meta: seek point", err)
		}
		pt := SeekPoint{
			SampleNum: binary.BigEndian.Uint64(buf[0:8]),
			Offset:    binary.BigEndian.Uint64(buf[8:16]),
			NSamples:  binary.BigEndian.Uint16(buf[16:18]),
		}
		if hasPrev && prev >= pt.SampleNum && pt.SampleNum != PlaceholderSampleNum {
			return nil, errs.New(errs.InvalidBitstream, "meta: seek points out of ascending order at index %d", i)
		}
		prev, hasPrev = pt.SampleNum, true
		st.Points = append(st.Points, pt)
	}
	return st, nil
}
