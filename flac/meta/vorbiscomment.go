package meta

import (
	"io"
	"strings"

	"bitrotio/lossless/errs"
)

// VorbisComment holds a vendor string and a list of human-readable
// name/value pairs (the "FLAC tags"), following the Vorbis comment
// specification without the framing bit.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_vorbis_comment
type VorbisComment struct {
	// Vendor identifies the encoder that produced the stream.
	Vendor string
	// Tags holds one [name, value] pair per entry, in on-disk order.
	Tags [][2]string
}

// decodeVorbisComment parses a VORBIS_COMMENT block body. Every length-prefixed
// string is little-endian, unlike the rest of the FLAC format.
//
//	vendor_length uint32le
//	vendor_string [vendor_length]byte
//	comment_count uint32le
//	comments      [comment_count]comment
//
//	comment struct {
//	   vector_length uint32le
//	   vector_string [vector_length]byte  // "name=value"
//	}
func decodeVorbisComment(r io.Reader) (*VorbisComment, error) {
	vc := new(VorbisComment)

	vendorLen, err := readUint32LE(r)
	if err != nil {
		return nil, err
	}
	vendor := make([]byte, vendorLen)
	if _, err := io.ReadFull(r, vendor); err != nil {
		return nil, errs.IO("meta: vorbis comment vendor string", err)
	}
	vc.Vendor = string(vendor)

	tagCount, err := readUint32LE(r)
	if err != nil {
		return nil, err
	}
	vc.Tags = make([][2]string, tagCount)
	for i := range vc.Tags {
		vecLen, err := readUint32LE(r)
		if err != nil {
			return nil, err
		}
		vec := make([]byte, vecLen)
		if _, err := io.ReadFull(r, vec); err != nil {
			return nil, errs.IO("meta: vorbis comment entry", err)
		}
		entry := string(vec)
		pos := strings.IndexByte(entry, '=')
		if pos == -1 {
			return nil, errs.New(errs.MalformedHeader, "meta: vorbis comment entry %q missing '='", entry)
		}
		vc.Tags[i] = [2]string{entry[:pos], entry[pos+1:]}
	}
	return vc, nil
}

// Get returns the value of the first tag whose name matches (case
// insensitively), and whether it was found.
func (vc *VorbisComment) Get(name string) (string, bool) {
	for _, tag := range vc.Tags {
		if strings.EqualFold(tag[0], name) {
			return tag[1], true
		}
	}
	return "", false
}
