package container

import (
	"encoding/binary"
	"testing"

	"bitrotio/lossless/errs"
)

func buildFile(payload []byte, odd bool) []byte {
	if odd && len(payload)%2 == 1 {
		payload = append(payload, 0)
	}
	buf := make([]byte, 20+len(payload))
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(buf)-8))
	copy(buf[8:12], "WEBP")
	copy(buf[12:16], "VP8L")
	binary.LittleEndian.PutUint32(buf[16:20], PaddedSize(uint32(len(payload))))
	copy(buf[20:], payload)
	return buf
}

func TestVP8LPayloadValid(t *testing.T) {
	want := []byte{0x2f, 0x01, 0x02, 0x03}
	buf := buildFile(want, false)
	got, err := VP8LPayload(buf)
	if err != nil {
		t.Fatalf("VP8LPayload: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("VP8LPayload() = %v, want %v", got, want)
	}
}

func TestVP8LPayloadOddLengthPadded(t *testing.T) {
	payload := []byte{0x2f, 0x01, 0x02}
	buf := buildFile(append([]byte(nil), payload...), true)
	got, err := VP8LPayload(buf)
	if err != nil {
		t.Fatalf("VP8LPayload: %v", err)
	}
	if len(got) != 4 {
		t.Errorf("VP8LPayload() length = %d, want 4 (padded)", len(got))
	}
}

func TestVP8LPayloadRejectsBadChunkLength(t *testing.T) {
	buf := buildFile([]byte{0x2f, 0x01, 0x02, 0x03}, false)
	binary.LittleEndian.PutUint32(buf[16:20], 1) // wrong on purpose
	_, err := VP8LPayload(buf)
	if !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("VP8LPayload with wrong chunk length: got %v, want MalformedHeader", err)
	}
}

func TestVP8LPayloadRejectsMissingSignature(t *testing.T) {
	buf := buildFile([]byte{0x2f, 0x01, 0x02, 0x03}, false)
	buf[0] = 'X'
	_, err := VP8LPayload(buf)
	if !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("VP8LPayload with bad RIFF signature: got %v, want MalformedHeader", err)
	}
}
