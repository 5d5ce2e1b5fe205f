package flac

import (
	"testing"

	"bitrotio/lossless/errs"
)

func TestDecodeRejectsMissingMagic(t *testing.T) {
	_, err := Decode([]byte("not a flac file"))
	if !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("Decode(bad magic) = %v, want MalformedHeader", err)
	}
}

func TestDecodeRejectsTruncatedHeader(t *testing.T) {
	_, err := Decode([]byte("fLa"))
	if !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("Decode(truncated) = %v, want MalformedHeader", err)
	}
}

func TestDecodeRejectsMissingStreamInfo(t *testing.T) {
	// A single, immediately-last PADDING block with no STREAMINFO first.
	data := append([]byte("fLaC"), 0x81, 0x00, 0x00, 0x00) // last=1, type=1 (padding), len=0
	_, err := Decode(data)
	if !errs.Is(err, errs.MalformedHeader) {
		t.Fatalf("Decode(no streaminfo) = %v, want MalformedHeader", err)
	}
}
