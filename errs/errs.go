// Package errs defines the error kinds shared by the flac and webp decoders.
//
// Both decoders abort at the first detected error and report one of a small,
// closed set of kinds alongside a byte (or pixel) offset hint, so that a
// caller can distinguish "this stream is not FLAC/WebP at all" from "this
// stream hit a feature this decoder does not implement" without string
// matching on the error text.
package errs

import "fmt"

// Kind classifies why decoding stopped.
type Kind int

// The exhaustive set of error kinds a decoder can report.
const (
	// MalformedHeader indicates a bad magic/signature, an unsupported
	// version, or a reserved header bit with an illegal value.
	MalformedHeader Kind = iota
	// InvalidBitstream indicates a reserved bit with an illegal value deeper
	// in the stream, an impossible partition layout, or a doubly-escaped
	// Rice parameter.
	InvalidBitstream
	// InvalidCode indicates a canonical prefix code whose maximum length is
	// at least 16 bits, or an alphabet overflow while building one.
	InvalidCode
	// Mismatch indicates a frame's parameters disagree with STREAMINFO.
	Mismatch
	// CrcFailure indicates a FLAC frame CRC did not match its computed
	// value.
	CrcFailure
	// Unsupported indicates a recognized but unimplemented feature, such as
	// wasted-bits-per-sample, the color-indexing transform, or a
	// meta-prefix image nested inside a non-main entropy image.
	Unsupported
	// IoError indicates a read/open failure at the boundary of the decoder.
	IoError
)

func (k Kind) String() string {
	switch k {
	case MalformedHeader:
		return "malformed header"
	case InvalidBitstream:
		return "invalid bitstream"
	case InvalidCode:
		return "invalid code"
	case Mismatch:
		return "mismatch"
	case CrcFailure:
		return "crc failure"
	case Unsupported:
		return "unsupported"
	case IoError:
		return "io error"
	default:
		return "unknown error kind"
	}
}

// Error is a fatal decode error: a kind, a human-readable message, and an
// optional location hint (byte offset for FLAC, pixel index for WebP; -1
// means "not applicable").
type Error struct {
	Kind   Kind
	Msg    string
	Offset int64
}

func (e *Error) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s: %s (at offset %d)", e.Kind, e.Msg, e.Offset)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// New returns a new *Error of the given kind with no location hint.
func New(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: -1}
}

// At returns a new *Error of the given kind with a location hint.
func At(kind Kind, offset int64, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: offset}
}

// IO wraps an underlying read/write failure as an IoError, unless err is
// already one of our own *Error values, in which case it is returned as is.
func IO(context string, err error) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Kind: IoError, Msg: fmt.Sprintf("%s: %v", context, err), Offset: -1}
}

// Is reports whether the first *Error found in err's Unwrap chain has the
// given kind, e.g. errs.Is(err, errs.Mismatch).
func Is(err error, kind Kind) bool {
	type kinder interface{ ErrKind() Kind }
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// ErrKind returns e's kind.
func (e *Error) ErrKind() Kind { return e.Kind }
