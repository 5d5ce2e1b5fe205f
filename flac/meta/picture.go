package meta

import (
	"io"

	"bitrotio/lossless/errs"
)

// Picture holds a single embedded image, most commonly cover art.
//
// ref: https://www.xiph.org/flac/format.html#metadata_block_picture
type Picture struct {
	// Type is the ID3v2 APIC picture type. See TypeName.
	Type uint32
	// MIME is the picture's MIME type, in ASCII 0x20-0x7e, or "-->" to mean
	// Data holds a URL rather than the picture itself.
	MIME string
	// Desc is a UTF-8 description of the picture.
	Desc string
	Width, Height, ColorDepth uint32
	// ColorCount is the palette size for indexed-color pictures, or 0.
	ColorCount uint32
	// Data holds the picture bytes, or (if MIME == "-->") a URL.
	Data []byte
}

// pictureTypeNames mirrors the ID3v2 APIC picture type table.
var pictureTypeNames = [...]string{
	"Other",
	"32x32 pixels 'file icon'",
	"Other file icon",
	"Cover (front)",
	"Cover (back)",
	"Leaflet page",
	"Media",
	"Lead artist/lead performer/soloist",
	"Artist/performer",
	"Conductor",
	"Band/Orchestra",
	"Composer",
	"Lyricist/text writer",
	"Recording Location",
	"During recording",
	"During performance",
	"Movie/video screen capture",
	"A bright coloured fish",
	"Illustration",
	"Band/artist logotype",
	"Publisher/Studio logotype",
}

// TypeName returns the human-readable name of p.Type, or "reserved" if it
// falls outside the known ID3v2 APIC range.
func (p *Picture) TypeName() string {
	if int(p.Type) < len(pictureTypeNames) {
		return pictureTypeNames[p.Type]
	}
	return "reserved"
}

// decodePicture parses a PICTURE block body.
//
//	type        uint32
//	mime_length uint32
//	mime_string [mime_length]byte
//	desc_length uint32
//	desc_string [desc_length]byte
//	width       uint32
//	height      uint32
//	color_depth uint32
//	color_count uint32
//	data_length uint32
//	data        [data_length]byte
func decodePicture(r io.Reader) (*Picture, error) {
	pic := new(Picture)

	typ, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	pic.Type = typ
	if pic.Type > 20 {
		return nil, errs.New(errs.MalformedHeader, "meta: reserved picture type %d", pic.Type)
	}

	mimeLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	mime, err := readStringSZ(r, int(mimeLen))
	if err != nil {
		return nil, err
	}
	pic.MIME = mime
	for _, c := range pic.MIME {
		if c < 0x20 || c > 0x7E {
			return nil, errs.New(errs.MalformedHeader, "meta: invalid MIME character 0x%02X", c)
		}
	}

	descLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	desc, err := readStringSZ(r, int(descLen))
	if err != nil {
		return nil, err
	}
	pic.Desc = desc

	if pic.Width, err = readUint32BE(r); err != nil {
		return nil, err
	}
	if pic.Height, err = readUint32BE(r); err != nil {
		return nil, err
	}
	if pic.ColorDepth, err = readUint32BE(r); err != nil {
		return nil, err
	}
	if pic.ColorCount, err = readUint32BE(r); err != nil {
		return nil, err
	}

	dataLen, err := readUint32BE(r)
	if err != nil {
		return nil, err
	}
	data := make([]byte, dataLen)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, errs.IO("meta: picture data", err)
	}
	pic.Data = data

	return pic, nil
}
