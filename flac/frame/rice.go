package frame

import (
	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
)

// decodeResiduals reads the Rice/partitioned-Rice residual block following a
// subframe's warmup samples and writes decoded residuals into dst[order:].
//
//	reserved          uint:1  // must be 0
//	param_width_sel   uint:1  // 0 -> 4-bit params, 1 -> 5-bit params
//	partition_order   uint:4
//
// Each of the 2^partition_order partitions carries its own Rice parameter
// (param_width bits); a parameter of all-ones escapes to a raw bit width
// (5 bits) used to read each residual as a signed value directly, instead of
// Rice/unary coding.
func decodeResiduals(br *bits.Reader, dst []int64, blockSize uint32, order int) error {
	reserved, err := br.Read(1)
	if err != nil {
		return errs.IO("frame: residual reserved bit", err)
	}
	if reserved != 0 {
		return errs.New(errs.InvalidBitstream, "frame: residual reserved bit set")
	}

	paramSel, err := br.Read(1)
	if err != nil {
		return errs.IO("frame: residual parameter width selector", err)
	}
	paramWidth := uint(4)
	if paramSel == 1 {
		paramWidth = 5
	}

	partOrderBits, err := br.Read(4)
	if err != nil {
		return errs.IO("frame: residual partition order", err)
	}
	partitionOrder := uint(partOrderBits)
	partitionCount := uint32(1) << partitionOrder
	if blockSize%partitionCount != 0 {
		return errs.New(errs.InvalidBitstream, "frame: block size %d not divisible by %d partitions", blockSize, partitionCount)
	}
	partitionLen := blockSize / partitionCount
	if partitionLen <= uint32(order) {
		return errs.New(errs.InvalidBitstream, "frame: partition length %d too small for predictor order %d", partitionLen, order)
	}

	escapeParam := uint64(1)<<paramWidth - 1
	i := uint32(order)
	for p := uint32(0); p < partitionCount; p++ {
		n := partitionLen
		if p == 0 {
			n -= uint32(order)
		}

		param, err := br.Read(paramWidth)
		if err != nil {
			return errs.IO("frame: rice parameter", err)
		}
		if param == escapeParam {
			rawBits, err := br.Read(5)
			if err != nil {
				return errs.IO("frame: escaped residual bit width", err)
			}
			for j := uint32(0); j < n; j++ {
				v, err := br.ReadSigned(uint(rawBits))
				if err != nil {
					return errs.IO("frame: escaped residual", err)
				}
				dst[i] = v
				i++
			}
			continue
		}

		for j := uint32(0); j < n; j++ {
			quotient, err := br.ReadUnary()
			if err != nil {
				return errs.IO("frame: rice quotient", err)
			}
			remainder, err := br.Read(uint(param))
			if err != nil {
				return errs.IO("frame: rice remainder", err)
			}
			folded := quotient<<param | remainder
			dst[i] = bits.DecodeZigZag(folded)
			i++
		}
	}
	return nil
}
