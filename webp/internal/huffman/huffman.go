// Package huffman builds and decodes the canonical prefix codes VP8L uses
// for every entropy-coded plane (green+length, red, blue, alpha, distance).
//
// Grounded on deepteams-webp's internal/lossless/huffman.go, but simplified:
// that decoder builds a two-level root+subtable lookup for speed, while this
// one builds the single flat table of size 1<<maxLength that the format's
// own canonical-code construction describes directly.
package huffman

import (
	"sort"

	"bitrotio/lossless/errs"
	"bitrotio/lossless/webp/internal/bitstream"
)

// MaxCodeLength is the largest codeword length VP8L allows; a stream that
// calls for a longer code is malformed.
const MaxCodeLength = 15

// codeLengthCodeOrder is the fixed order in which the 19 code-length-code
// lengths are transmitted in the complex serialization form.
var codeLengthCodeOrder = [19]int{17, 18, 0, 1, 2, 3, 4, 5, 16, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}

// Table is a canonical prefix code, flattened into a single lookup table of
// size 1<<maxLength. Decoding peeks maxLength bits, indexes the table, and
// rewinds by maxLength-length once the codeword's true length is known.
type Table struct {
	maxLength int
	entries   []tableEntry
}

type tableEntry struct {
	symbol int
	length int // 0 means "unused slot"; only reachable for a malformed stream
}

// symLen pairs a symbol with the codeword length assigned to it, for sorting
// into canonical order.
type symLen struct {
	symbol int
	length int
}

// Build constructs a canonical Huffman table from a length-per-symbol array
// (codeLengths[sym] == 0 means symbol sym is unused).
func Build(codeLengths []int) (*Table, error) {
	maxLength := 0
	numCodes := 0
	var syms []symLen
	for sym, l := range codeLengths {
		if l == 0 {
			continue
		}
		if l > MaxCodeLength {
			return nil, errs.New(errs.InvalidCode, "huffman: code length %d exceeds maximum %d", l, MaxCodeLength)
		}
		syms = append(syms, symLen{symbol: sym, length: l})
		numCodes++
		if l > maxLength {
			maxLength = l
		}
	}
	if numCodes == 0 {
		return nil, errs.New(errs.InvalidCode, "huffman: empty code")
	}
	if numCodes == 1 {
		// A single symbol needs zero bits to select unambiguously, but the
		// format still reserves one: that symbol occupies every slot of a
		// 1-bit table.
		t := &Table{maxLength: 1, entries: make([]tableEntry, 2)}
		t.entries[0] = tableEntry{symbol: syms[0].symbol, length: 1}
		t.entries[1] = t.entries[0]
		return t, nil
	}

	sort.Slice(syms, func(i, j int) bool {
		if syms[i].length != syms[j].length {
			return syms[i].length < syms[j].length
		}
		return syms[i].symbol < syms[j].symbol
	})

	t := &Table{maxLength: maxLength, entries: make([]tableEntry, 1<<uint(maxLength))}

	code := 0
	prevLength := syms[0].length
	for _, s := range syms {
		code <<= uint(s.length - prevLength)
		prevLength = s.length
		// VP8L transmits codewords LSB-first: bit 0 of the codeword is the
		// first bit read from the stream. Reverse the canonical MSB-first
		// code into bit-reversed order across s.length bits before
		// replicating it across the table.
		rev := reverseBits(code, s.length)
		fill(t.entries, rev, s.length, maxLength, tableEntry{symbol: s.symbol, length: s.length})
		code++
	}
	return t, nil
}

// fill replicates entry across every maxLength-bit table slot whose low
// `length` bits equal code, i.e. every possible setting of the remaining
// maxLength-length suffix bits.
func fill(entries []tableEntry, code, length, maxLength int, entry tableEntry) {
	step := 1 << uint(length)
	for i := code; i < len(entries); i += step {
		entries[i] = entry
	}
}

func reverseBits(v, n int) int {
	r := 0
	for i := 0; i < n; i++ {
		r = r<<1 | (v & 1)
		v >>= 1
	}
	return r
}

// Decode reads one symbol from r using t.
func (t *Table) Decode(r *bitstream.Reader) (int, error) {
	idx := r.PeekBits(t.maxLength)
	e := t.entries[idx]
	if e.length == 0 {
		return 0, errs.New(errs.InvalidCode, "huffman: no codeword matches bit pattern")
	}
	r.SkipBits(e.length)
	return e.symbol, nil
}

// ReadCodeLengths decodes a code-length array for an alphabet of the given
// size, using either the simple or complex serialization form.
func ReadCodeLengths(r *bitstream.Reader, alphabetSize int) ([]int, error) {
	simple := r.ReadBit()
	if simple == 1 {
		return readSimple(r, alphabetSize)
	}
	return readComplex(r, alphabetSize)
}

func readSimple(r *bitstream.Reader, alphabetSize int) ([]int, error) {
	numSymbols := r.ReadBit() + 1
	lengths := make([]int, alphabetSize)
	firstIsLen1 := r.ReadBit()
	var sym0 uint32
	if firstIsLen1 == 1 {
		sym0 = r.ReadBits(1)
	} else {
		sym0 = r.ReadBits(8)
	}
	if int(sym0) >= alphabetSize {
		return nil, errs.New(errs.InvalidCode, "huffman: simple code symbol %d out of range", sym0)
	}
	lengths[sym0] = 1
	if numSymbols == 2 {
		sym1 := r.ReadBits(8)
		if int(sym1) >= alphabetSize {
			return nil, errs.New(errs.InvalidCode, "huffman: simple code symbol %d out of range", sym1)
		}
		lengths[sym1] = 1
	}
	return lengths, nil
}

func readComplex(r *bitstream.Reader, alphabetSize int) ([]int, error) {
	numCodeLengths := r.ReadBits(4) + 4
	clLengths := make([]int, 19)
	for i := uint32(0); i < numCodeLengths; i++ {
		clLengths[codeLengthCodeOrder[i]] = int(r.ReadBits(3))
	}
	clTable, err := Build(clLengths)
	if err != nil {
		return nil, err
	}

	maxEntries := alphabetSize
	if r.ReadBit() == 1 {
		extraBits := int(r.ReadBits(3))*2 + 2
		maxEntries = int(r.ReadBits(extraBits)) + 2
	}

	lengths := make([]int, alphabetSize)
	symbol := 0
	prev := 8
	read := 0
	for symbol < alphabetSize && read < maxEntries {
		code, err := clTable.Decode(r)
		if err != nil {
			return nil, err
		}
		switch {
		case code < 16:
			lengths[symbol] = code
			symbol++
			if code != 0 {
				prev = code
			}
			read++
		case code == 16:
			repeat := int(r.ReadBits(2)) + 3
			if symbol+repeat > alphabetSize {
				return nil, errs.New(errs.InvalidCode, "huffman: repeat overruns alphabet")
			}
			for i := 0; i < repeat; i++ {
				lengths[symbol] = prev
				symbol++
			}
			read++
		case code == 17:
			repeat := int(r.ReadBits(3)) + 3
			symbol += repeat
			read++
		case code == 18:
			repeat := int(r.ReadBits(7)) + 11
			symbol += repeat
			read++
		default:
			return nil, errs.New(errs.InvalidCode, "huffman: code-length symbol %d out of range", code)
		}
	}
	if symbol > alphabetSize {
		return nil, errs.New(errs.InvalidBitstream, "huffman: code lengths overran alphabet size %d", alphabetSize)
	}
	return lengths, nil
}
