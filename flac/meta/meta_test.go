package meta

import (
	"bytes"
	"encoding/binary"
	"testing"

	"bitrotio/lossless/errs"
)

func TestDecodeHeader(t *testing.T) {
	// is_last=1, type=0 (STREAMINFO), length=34
	buf := []byte{0x80, 0x00, 0x00, 0x22}
	h, err := DecodeHeader(bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.IsLast || h.Type != TypeStreamInfo || h.Length != 34 {
		t.Fatalf("got %+v", h)
	}
}

func TestDecodeHeaderReservedType(t *testing.T) {
	buf := []byte{0x0A, 0x00, 0x00, 0x00}
	if _, err := DecodeHeader(bytes.NewReader(buf)); !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("expected MalformedHeader, got %v", err)
	}
}

func TestDecodeHeaderInvalidType(t *testing.T) {
	buf := []byte{0x7F, 0x00, 0x00, 0x00}
	if _, err := DecodeHeader(bytes.NewReader(buf)); !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("expected MalformedHeader, got %v", err)
	}
}

// streamInfoBytes builds a minimal 34-byte STREAMINFO body for tests.
func streamInfoBytes(minBlock, maxBlock uint16, sampleRate uint32, channels, bps uint8, sampleCount uint64) []byte {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, minBlock)
	binary.Write(buf, binary.BigEndian, maxBlock)
	// min/max frame size: 3 bytes each, zero.
	buf.Write([]byte{0, 0, 0, 0, 0, 0})
	// sample_rate(20) channel_count(3) bits_per_sample(5) sample_count(36) packed MSB-first.
	var bits uint64
	bits |= uint64(sampleRate&0xFFFFF) << 44
	bits |= uint64((channels-1)&0x7) << 41
	bits |= uint64((bps-1)&0x1F) << 36
	bits |= sampleCount & 0xFFFFFFFFF
	var packed [8]byte
	binary.BigEndian.PutUint64(packed[:], bits)
	buf.Write(packed[:])
	buf.Write(make([]byte, 16)) // md5sum
	return buf.Bytes()
}

func TestDecodeStreamInfo(t *testing.T) {
	data := streamInfoBytes(4096, 4096, 44100, 2, 16, 123456)
	si, err := decodeStreamInfo(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if si.MinBlockSize != 4096 || si.MaxBlockSize != 4096 {
		t.Errorf("block size: got %d/%d", si.MinBlockSize, si.MaxBlockSize)
	}
	if si.SampleRate != 44100 {
		t.Errorf("sample rate: got %d", si.SampleRate)
	}
	if si.ChannelCount != 2 {
		t.Errorf("channel count: got %d", si.ChannelCount)
	}
	if si.BitsPerSample != 16 {
		t.Errorf("bits per sample: got %d", si.BitsPerSample)
	}
	if si.SampleCount != 123456 {
		t.Errorf("sample count: got %d", si.SampleCount)
	}
}

func TestDecodeStreamInfoEightChannels(t *testing.T) {
	// Regression: channel count is ((raw>>1)&0x7)+1 applied to the whole
	// 3-bit field, not a truncated/mis-precedenced variant; verify the
	// full range up to 8 channels decodes correctly.
	data := streamInfoBytes(4096, 4096, 44100, 8, 24, 0)
	si, err := decodeStreamInfo(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if si.ChannelCount != 8 {
		t.Errorf("channel count: got %d, want 8", si.ChannelCount)
	}
}

func TestDecodeVorbisComment(t *testing.T) {
	buf := new(bytes.Buffer)
	writeLE32String := func(s string) {
		binary.Write(buf, binary.LittleEndian, uint32(len(s)))
		buf.WriteString(s)
	}
	writeLE32String("reference libFLAC 1.3.2")
	binary.Write(buf, binary.LittleEndian, uint32(2))
	writeLE32String("ARTIST=Test Artist")
	writeLE32String("TITLE=Test Title")

	vc, err := decodeVorbisComment(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vc.Vendor != "reference libFLAC 1.3.2" {
		t.Errorf("vendor: got %q", vc.Vendor)
	}
	if len(vc.Tags) != 2 {
		t.Fatalf("tag count: got %d", len(vc.Tags))
	}
	if v, ok := vc.Get("artist"); !ok || v != "Test Artist" {
		t.Errorf("Get(artist): got %q, %v", v, ok)
	}
}

func TestDecodeVorbisCommentMissingEquals(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.LittleEndian, uint32(0))
	binary.Write(buf, binary.LittleEndian, uint32(1))
	binary.Write(buf, binary.LittleEndian, uint32(len("BROKEN")))
	buf.WriteString("BROKEN")

	if _, err := decodeVorbisComment(bytes.NewReader(buf.Bytes())); !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("expected MalformedHeader, got %v", err)
	}
}

func TestDecodeSeekTable(t *testing.T) {
	buf := new(bytes.Buffer)
	writePoint := func(sampleNum, offset uint64, n uint16) {
		binary.Write(buf, binary.BigEndian, sampleNum)
		binary.Write(buf, binary.BigEndian, offset)
		binary.Write(buf, binary.BigEndian, n)
	}
	writePoint(0, 0, 4096)
	writePoint(4096, 8192, 4096)
	writePoint(PlaceholderSampleNum, 0, 0)

	st, err := decodeSeekTable(bytes.NewReader(buf.Bytes()), buf.Len())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(st.Points) != 3 {
		t.Fatalf("point count: got %d", len(st.Points))
	}
	if st.Points[1].Offset != 8192 {
		t.Errorf("offset: got %d", st.Points[1].Offset)
	}
}

func TestDecodeSeekTableOutOfOrder(t *testing.T) {
	buf := new(bytes.Buffer)
	binary.Write(buf, binary.BigEndian, uint64(100))
	binary.Write(buf, binary.BigEndian, uint64(0))
	binary.Write(buf, binary.BigEndian, uint16(0))
	binary.Write(buf, binary.BigEndian, uint64(50))
	binary.Write(buf, binary.BigEndian, uint64(0))
	binary.Write(buf, binary.BigEndian, uint16(0))

	if _, err := decodeSeekTable(bytes.NewReader(buf.Bytes()), buf.Len()); !errs.Is(err, errs.InvalidBitstream) {
		t.Fatalf("expected InvalidBitstream, got %v", err)
	}
}

func TestDecodeApplication(t *testing.T) {
	buf := append([]byte("imag"), []byte{1, 2, 3}...)
	app, err := decodeApplication(bytes.NewReader(buf), len(buf))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if app.ID != "imag" {
		t.Errorf("id: got %q", app.ID)
	}
	if !bytes.Equal(app.Data, []byte{1, 2, 3}) {
		t.Errorf("data: got %v", app.Data)
	}
}
