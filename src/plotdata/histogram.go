package plotdata

// DefaultBins is the bin count used when a request does not set one.
const DefaultBins = 20

// Bin is one histogram bucket: values in [Lo, Hi) except the last bin, which
// also includes Hi so the maximum is never dropped.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram computes equal-width bins spanning [min(y), max(y)].
// bins <= 0 falls back to DefaultBins.
func Histogram(y []float64, bins int) []Bin {
	if len(y) == 0 {
		return nil
	}
	lo, hi := y[0], y[0]
	for _, v := range y {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return HistogramWithBounds(y, bins, lo, hi)
}

// HistogramWithBounds computes equal-width bins over an explicit [lo, hi]
// range, so multiple series in one subplot can share bin edges. Values outside
// the range are clamped into the edge bins. A degenerate zero-width range
// (all values equal) yields a single bin padded half a unit to each side,
// holding every sample.
func HistogramWithBounds(y []float64, bins int, lo, hi float64) []Bin {
	if len(y) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = DefaultBins
	}
	if lo >= hi {
		return []Bin{{Lo: lo - 0.5, Hi: hi + 0.5, Count: len(y)}}
	}
	out := make([]Bin, bins)
	width := (hi - lo) / float64(bins)
	for i := range out {
		out[i].Lo = lo + float64(i)*width
		out[i].Hi = lo + float64(i+1)*width
	}
	out[bins-1].Hi = hi
	for _, v := range y {
		idx := int((v - lo) / width)
		if idx < 0 {
			idx = 0
		}
		if idx >= bins {
			idx = bins - 1
		}
		out[idx].Count++
	}
	return out
}

// MaxCount returns the largest bin count, used for scaling bar lengths.
func MaxCount(bins []Bin) int {
	max := 0
	for _, b := range bins {
		if b.Count > max {
			max = b.Count
		}
	}
	return max
}
