package flac

import (
	"encoding/binary"
	"io"

	"github.com/go-audio/audio"

	"bitrotio/lossless/errs"
)

// WriteWAV serializes buf as a canonical little-endian RIFF/WAVE file: a
// 44-byte PCM header followed by interleaved samples, each packed into
// ceil(bitDepth/8) bytes and left-shifted to occupy the full width of that
// byte count.
//
//	0  "RIFF"   4  riffSize   8  "WAVE"
//	12 "fmt "   16 16         20 audioFormat(1)   22 numChannels ... (little-endian fields)
//	36 "data"   40 dataSize   44 samples...
func WriteWAV(w io.Writer, buf *audio.IntBuffer, bitDepth int) error {
	numChannels := buf.Format.NumChannels
	sampleRate := buf.Format.SampleRate
	bytesPerSample := (bitDepth + 7) / 8
	blockAlign := bytesPerSample * numChannels
	byteRate := sampleRate * blockAlign
	dataSize := len(buf.Data) * bytesPerSample

	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(dataSize+36))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(header[22:24], uint16(numChannels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], uint16(bitDepth))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(dataSize))

	if _, err := w.Write(header); err != nil {
		return errs.IO("wav: header", err)
	}

	shift := uint(bytesPerSample*8 - bitDepth)
	sample := make([]byte, bytesPerSample)
	for _, v := range buf.Data {
		packed := uint64(int64(v) << shift)
		for i := 0; i < bytesPerSample; i++ {
			sample[i] = byte(packed >> (8 * uint(i)))
		}
		if _, err := w.Write(sample); err != nil {
			return errs.IO("wav: sample", err)
		}
	}
	return nil
}
