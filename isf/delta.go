package isf

// deltaDeltaEncode applies second-order differencing: the first element is
// kept, the second becomes a first difference, and every element after that
// becomes the difference of consecutive first differences.
func deltaDeltaEncode(vals []int64) []int64 {
	out := make([]int64, len(vals))
	if len(vals) == 0 {
		return out
	}
	out[0] = vals[0]
	if len(vals) == 1 {
		return out
	}
	out[1] = vals[1] - vals[0]
	for i := 2; i < len(vals); i++ {
		out[i] = (vals[i] - vals[i-1]) - (vals[i-1] - vals[i-2])
	}
	return out
}

// deltaDeltaDecode inverts deltaDeltaEncode by re-accumulating the running
// delta and the running value.
func deltaDeltaDecode(deltas []int64) []int64 {
	out := make([]int64, len(deltas))
	if len(deltas) == 0 {
		return out
	}
	out[0] = deltas[0]
	if len(deltas) == 1 {
		return out
	}
	delta := deltas[1]
	out[1] = out[0] + delta
	for i := 2; i < len(deltas); i++ {
		delta += deltas[i]
		out[i] = out[i-1] + delta
	}
	return out
}
