package bits

// DecodeZigZag folds a Rice-coded non-negative integer back to its signed
// residual value: even values map to x/2, odd values map to -(x/2)-1. This
// is the same fold protocol buffers call ZigZag encoding.
//
// Examples of folded values on the left and decoded values on the right:
//
//	0 =>  0
//	1 => -1
//	2 =>  1
//	3 => -2
//	4 =>  2
//	5 => -3
//	6 =>  3
func DecodeZigZag(x uint64) int64 {
	return int64(x>>1) ^ -int64(x&1)
}
