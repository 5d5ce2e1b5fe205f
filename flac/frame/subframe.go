package frame

import (
	"bitrotio/lossless/errs"
	"bitrotio/lossless/flac/internal/bits"
)

// fixedPredictorCoeffs holds the coefficient rows for fixed predictor orders
// 0 through 4, applied as s[i] = residual[i] + sum(c[j] * s[i-1-j]).
var fixedPredictorCoeffs = [5][]int64{
	{},
	{1},
	{2, -1},
	{3, -3, 1},
	{4, -6, 4, -1},
}

// decodeSubframe reads one subframe (one channel's worth of a frame) into a
// freshly allocated slice of blockSize samples, sampleBits wide.
//
//	zero_bit         bool:1  // subframe sync, must be 0
//	prediction_mode  uint:6
//	wasted_bits_flag bool:1
func decodeSubframe(br *bits.Reader, blockSize uint32, sampleBits uint) ([]int64, error) {
	zeroBit, err := br.Read(1)
	if err != nil {
		return nil, errs.IO("frame: subframe sync bit", err)
	}
	if zeroBit != 0 {
		return nil, errs.New(errs.InvalidBitstream, "frame: lost subframe sync")
	}

	mode, err := br.Read(6)
	if err != nil {
		return nil, errs.IO("frame: prediction mode", err)
	}

	wasted, err := br.Read(1)
	if err != nil {
		return nil, errs.IO("frame: wasted bits flag", err)
	}
	if wasted != 0 {
		return nil, errs.New(errs.Unsupported, "frame: wasted-bits-per-sample is not supported")
	}

	samples := make([]int64, blockSize)

	switch {
	case mode == 0:
		// Constant subframe: one value repeated blockSize times.
		v, err := br.ReadSigned(sampleBits)
		if err != nil {
			return nil, errs.IO("frame: constant subframe value", err)
		}
		for i := range samples {
			samples[i] = v
		}
		return samples, nil

	case mode >= 8 && mode <= 12:
		order := int(mode - 8)
		if err := readWarmup(br, samples, order, sampleBits); err != nil {
			return nil, err
		}
		if err := decodeResiduals(br, samples, blockSize, order); err != nil {
			return nil, err
		}
		applyFixedPrediction(samples, order)
		return samples, nil

	case mode >= 32:
		order := int(mode - 31)
		if err := readWarmup(br, samples, order, sampleBits); err != nil {
			return nil, err
		}
		precisionBits, err := br.Read(4)
		if err != nil {
			return nil, errs.IO("frame: qlp precision", err)
		}
		precision := uint(precisionBits) + 1
		shiftBits, err := br.Read(5)
		if err != nil {
			return nil, errs.IO("frame: qlp right shift", err)
		}
		shift := uint(shiftBits)
		coeffs := make([]int64, order)
		for i := range coeffs {
			c, err := br.ReadSigned(precision)
			if err != nil {
				return nil, errs.IO("frame: qlp coefficient", err)
			}
			coeffs[i] = c
		}
		if err := decodeResiduals(br, samples, blockSize, order); err != nil {
			return nil, err
		}
		applyLPCPrediction(samples, order, coeffs, shift)
		return samples, nil

	default:
		return nil, errs.New(errs.Unsupported, "frame: unsupported prediction mode %d", mode)
	}
}

func readWarmup(br *bits.Reader, samples []int64, order int, sampleBits uint) error {
	for i := 0; i < order; i++ {
		v, err := br.ReadSigned(sampleBits)
		if err != nil {
			return errs.IO("frame: warmup sample", err)
		}
		samples[i] = v
	}
	return nil
}

// applyFixedPrediction reconstructs samples[order:] in place using one of
// the five hard-coded fixed predictor coefficient rows.
func applyFixedPrediction(samples []int64, order int) {
	coeffs := fixedPredictorCoeffs[order]
	for i := order; i < len(samples); i++ {
		var pred int64
		for j, c := range coeffs {
			pred += c * samples[i-1-j]
		}
		samples[i] += pred
	}
}

// applyLPCPrediction reconstructs samples[order:] in place using quantized
// linear-predictive coefficients and a right shift, with 64-bit
// accumulation.
func applyLPCPrediction(samples []int64, order int, coeffs []int64, shift uint) {
	for i := order; i < len(samples); i++ {
		var pred int64
		for j, c := range coeffs {
			pred += c * samples[i-1-j]
		}
		samples[i] += pred >> shift
	}
}
