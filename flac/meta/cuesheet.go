package meta

import (
	"encoding/binary"
	"io"

	"bitrotio/lossless/errs"
)

// A CueSheet describes how tracks are laid out within a FLAC stream.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_cuesheet
type CueSheet struct {
	// Media catalog number.
	MCN string
	// Number of lead-in samples. This field only has meaning for CD-DA cue
	// sheets; for other uses it should be 0. Refer to the spec for additional
	// information.
	NLeadInSamples uint64
	// Specifies if the cue sheet corresponds to a Compact Disc.
	IsCompactDisc bool
	// One or more tracks. The last track of a cue sheet is always the lead-out
	// track.
	Tracks []CueSheetTrack
}

// CueSheetTrack contains the start offset of a track and other track specific
// metadata.
type CueSheetTrack struct {
	// Track offset in samples, relative to the beginning of the FLAC audio
	// stream.
	Offset uint64
	// Track number; never 0, always unique.
	Num uint8
	// International Standard Recording Code; empty string if not present.
	//
	// ref: http://isrc.ifpi.org/
	ISRC string
	// Specifies if the track contains audio or data.
	IsAudio bool
	// Specifies if the track has been recorded with pre-emphasis.
	HasPreEmphasis bool
	// Every track has one or more track index points, except for the lead-out
	// track which has zero. Each index point specifies a position within the
	// track.
	Indicies []CueSheetTrackIndex
}

// A CueSheetTrackIndex specifies a position within a track.
type CueSheetTrackIndex struct {
	// Index point offset in samples, relative to the track offset.
	Offset uint64
	// Index point number; subsequently incrementing by 1 and always unique
	// within a track.
	Num uint8
}

var errCueSheetReserved = errs.New(errs.MalformedHeader, "meta: cue sheet reserved bits must be 0")

// decodeCueSheet parses a CUESHEET block body.
//
//	mcn                  [128]byte
//	lead_in_sample_count  uint64
//	is_compact_disc       bool:1
//	_                     uint:7 + [258]byte
//	track_count           uint8
//	tracks                [track_count]track
//
//	track struct {
//	   offset            uint64
//	   track_num         uint8
//	   isrc              [12]byte
//	   is_audio          bool:1
//	   has_pre_emphasis  bool:1
//	   _                 uint:6 + [13]byte
//	   track_index_count uint8
//	   track_indexes     [track_index_count]track_index
//	}
//
//	track_index struct {
//	   offset          uint64
//	   index_point_num uint8
//	   _               [3]byte
//	}
func decodeCueSheet(r io.Reader) (*CueSheet, error) {
	cs := new(CueSheet)

	mcn, err := readStringSZ(r, 128)
	if err != nil {
		return nil, err
	}
	cs.MCN = mcn
	for _, c := range cs.MCN {
		if c < 0x20 || c > 0x7E {
			return nil, errs.New(errs.MalformedHeader, "meta: invalid character in media catalog number 0x%02X", c)
		}
	}

	var leadIn [8]byte
	if _, err := io.ReadFull(r, leadIn[:]); err != nil {
		return nil, errs.IO("meta: cue sheet lead-in sample count", err)
	}
	cs.NLeadInSamples = binary.BigEndian.Uint64(leadIn[:])

	var flagByte [1]byte
	if _, err := io.ReadFull(r, flagByte[:]); err != nil {
		return nil, errs.IO("meta: cue sheet flags", err)
	}
	cs.IsCompactDisc = flagByte[0]&0x80 != 0
	if flagByte[0]&0x7F != 0 {
		return nil, errCueSheetReserved
	}

	var reserved [258]byte
	if _, err := io.ReadFull(r, reserved[:]); err != nil {
		return nil, errs.IO("meta: cue sheet reserved bytes", err)
	}
	if !isAllZero(reserved[:]) {
		return nil, errCueSheetReserved
	}
	if !cs.IsCompactDisc && cs.NLeadInSamples != 0 {
		return nil, errs.New(errs.InvalidBitstream, "meta: lead-in sample count must be 0 for non CD-DA cue sheets")
	}

	var trackCount [1]byte
	if _, err := io.ReadFull(r, trackCount[:]); err != nil {
		return nil, errs.IO("meta: cue sheet track count", err)
	}
	if trackCount[0] < 1 {
		return nil, errs.New(errs.InvalidBitstream, "meta: cue sheet requires at least a lead-out track")
	}
	if cs.IsCompactDisc && trackCount[0] > 100 {
		return nil, errs.New(errs.InvalidBitstream, "meta: too many tracks (%d) for CD-DA cue sheet", trackCount[0])
	}

	cs.Tracks = make([]CueSheetTrack, trackCount[0])
	for i := range cs.Tracks {
		track := &cs.Tracks[i]
		isLast := i == len(cs.Tracks)-1

		var off [8]byte
		if _, err := io.ReadFull(r, off[:]); err != nil {
			return nil, errs.IO("meta: cue sheet track offset", err)
		}
		track.Offset = binary.BigEndian.Uint64(off[:])
		if cs.IsCompactDisc && track.Offset%588 != 0 {
			return nil, errs.New(errs.InvalidBitstream, "meta: CD-DA track offset %d not a multiple of 588", track.Offset)
		}

		var numBuf [1]byte
		if _, err := io.ReadFull(r, numBuf[:]); err != nil {
			return nil, errs.IO("meta: cue sheet track number", err)
		}
		track.Num = numBuf[0]
		if track.Num == 0 {
			return nil, errs.New(errs.InvalidBitstream, "meta: cue sheet track number 0 reserved for lead-in")
		}
		if cs.IsCompactDisc {
			if isLast && track.Num != 170 {
				return nil, errs.New(errs.InvalidBitstream, "meta: CD-DA lead-out track number must be 170, got %d", track.Num)
			}
			if !isLast && track.Num > 99 {
				return nil, errs.New(errs.InvalidBitstream, "meta: CD-DA track number %d out of range", track.Num)
			}
		} else if isLast && track.Num != 255 {
			return nil, errs.New(errs.InvalidBitstream, "meta: non CD-DA lead-out track number must be 255, got %d", track.Num)
		}

		isrc, err := readStringSZ(r, 12)
		if err != nil {
			return nil, err
		}
		track.ISRC = isrc

		var trackFlag [1]byte
		if _, err := io.ReadFull(r, trackFlag[:]); err != nil {
			return nil, errs.IO("meta: cue sheet track flags", err)
		}
		track.IsAudio = trackFlag[0]&0x80 == 0
		track.HasPreEmphasis = trackFlag[0]&0x40 != 0
		if trackFlag[0]&0x3F != 0 {
			return nil, errCueSheetReserved
		}

		var trackReserved [13]byte
		if _, err := io.ReadFull(r, trackReserved[:]); err != nil {
			return nil, errs.IO("meta: cue sheet track reserved bytes", err)
		}
		if !isAllZero(trackReserved[:]) {
			return nil, errCueSheetReserved
		}

		var idxCount [1]byte
		if _, err := io.ReadFull(r, idxCount[:]); err != nil {
			return nil, errs.IO("meta: cue sheet track index count", err)
		}
		track.Indicies = make([]CueSheetTrackIndex, idxCount[0])
		if isLast {
			if idxCount[0] != 0 {
				return nil, errs.New(errs.InvalidBitstream, "meta: lead-out track must have 0 index points, got %d", idxCount[0])
			}
		} else {
			if idxCount[0] < 1 {
				return nil, errs.New(errs.InvalidBitstream, "meta: track requires at least one index point")
			}
			if cs.IsCompactDisc && idxCount[0] > 100 {
				return nil, errs.New(errs.InvalidBitstream, "meta: too many index points (%d) for CD-DA track", idxCount[0])
			}
		}

		for j := range track.Indicies {
			idx := &track.Indicies[j]
			var idxOff [8]byte
			if _, err := io.ReadFull(r, idxOff[:]); err != nil {
				return nil, errs.IO("meta: cue sheet index offset", err)
			}
			idx.Offset = binary.BigEndian.Uint64(idxOff[:])

			var idxNum [1]byte
			if _, err := io.ReadFull(r, idxNum[:]); err != nil {
				return nil, errs.IO("meta: cue sheet index number", err)
			}
			idx.Num = idxNum[0]

			var idxReserved [3]byte
			if _, err := io.ReadFull(r, idxReserved[:]); err != nil {
				return nil, errs.IO("meta: cue sheet index reserved bytes", err)
			}
			if !isAllZero(idxReserved[:]) {
				return nil, errCueSheetReserved
			}
		}
	}

	return cs, nil
}
