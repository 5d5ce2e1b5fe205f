package webp

import (
	"fmt"
	"io"

	"bitrotio/lossless/errs"
)

// WritePPM serializes img as a binary (P6) PPM file: a plain-text header
// followed by row-major RGB triples with the alpha channel dropped.
func WritePPM(w io.Writer, img *Image) error {
	header := fmt.Sprintf("P6\n%d %d\n255\n", img.Width, img.Height)
	if _, err := io.WriteString(w, header); err != nil {
		return errs.IO("ppm: header", err)
	}

	row := make([]byte, img.Width*3)
	for y := 0; y < img.Height; y++ {
		for x := 0; x < img.Width; x++ {
			px := img.Pixels[y*img.Width+x]
			row[x*3+0] = byte(px >> 16)
			row[x*3+1] = byte(px >> 8)
			row[x*3+2] = byte(px)
		}
		if _, err := w.Write(row); err != nil {
			return errs.IO("ppm: row", err)
		}
	}
	return nil
}
