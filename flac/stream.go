// Package flac decodes FLAC streams: metadata blocks followed by one or
// more audio frames, reconstructed into interleaved PCM samples.
package flac

import (
	"bytes"

	"github.com/go-audio/audio"

	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/frame"
	"bitrotio/lossless/flac/meta"
)

// Magic is the 4-byte signature every FLAC stream begins with.
var Magic = [4]byte{'f', 'L', 'a', 'C'}

// A Stream is a fully parsed FLAC file: its metadata blocks and the raw byte
// range holding the audio frames that follow them.
type Stream struct {
	// Info is the mandatory STREAMINFO block, always the first metadata
	// block in a conforming stream.
	Info *meta.StreamInfo
	// Blocks holds every metadata block in stream order, Info included.
	Blocks []*meta.Block

	data      []byte
	framesOff int
}

// Decode parses a complete FLAC stream held in data: the "fLaC" marker,
// every metadata block up to and including the last one, leaving the
// remainder addressable as audio frames.
func Decode(data []byte) (*Stream, error) {
	if len(data) < 4 || !bytes.Equal(data[:4], Magic[:]) {
		return nil, errs.New(errs.MalformedHeader, "flac: missing 'fLaC' marker")
	}
	s := &Stream{data: data}
	r := bytes.NewReader(data[4:])
	for {
		blk, err := meta.Decode(r)
		if err != nil {
			return nil, err
		}
		s.Blocks = append(s.Blocks, blk)
		if blk.Header.Type == meta.TypeStreamInfo {
			si, ok := blk.Body.(*meta.StreamInfo)
			if !ok {
				return nil, errs.New(errs.MalformedHeader, "flac: stream info block missing body")
			}
			if s.Info != nil {
				return nil, errs.New(errs.InvalidBitstream, "flac: duplicate stream info block")
			}
			s.Info = si
		}
		if blk.Header.IsLast {
			break
		}
	}
	if s.Info == nil {
		return nil, errs.New(errs.MalformedHeader, "flac: missing stream info block")
	}
	s.framesOff = len(data) - r.Len()
	return s, nil
}

// Frames decodes and returns every audio frame in the stream, in order.
func (s *Stream) Frames() ([]*frame.Frame, error) {
	var frames []*frame.Frame
	pos := s.framesOff
	for pos < len(s.data) {
		fr, next, err := frame.Decode(s.data, pos, s.Info)
		if err != nil {
			return nil, err
		}
		frames = append(frames, fr)
		pos = next
	}
	return frames, nil
}

// Audio decodes every frame and concatenates them into a single interleaved
// PCM buffer spanning the whole stream.
func (s *Stream) Audio() (*audio.IntBuffer, error) {
	frames, err := s.Frames()
	if err != nil {
		return nil, err
	}
	channelCount := int(s.Info.ChannelCount)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channelCount,
			SampleRate:  int(s.Info.SampleRate),
		},
		Data:           make([]int, 0, int(s.Info.SampleCount)*channelCount),
		SourceBitDepth: int(s.Info.BitsPerSample),
	}
	for _, fr := range frames {
		n := len(fr.Channels[0])
		for i := 0; i < n; i++ {
			for ch := 0; ch < channelCount; ch++ {
				buf.Data = append(buf.Data, int(fr.Channels[ch][i]))
			}
		}
	}
	return buf, nil
}
