package analysis

import "math"

// Extrema scans values with a symmetric half-width window and returns the
// indices of strict local maxima and minima, each strictly increasing.
// A position i qualifies as a peak only if values[i] is strictly greater
// than every neighbour within ±window; valleys are mirrored. Ties are never
// extrema, which avoids flat-region false positives. A NaN anywhere in the
// comparison window disqualifies the candidate, so undefined oscillator
// warm-up values can never produce an extremum.
//
// Pure function of the input; empty results are valid, not an error.
func Extrema(values []float64, window int) (peaks, valleys []int) {
	if window < 1 || len(values) < 2*window+1 {
		return nil, nil
	}
	for i := window; i < len(values)-window; i++ {
		v := values[i]
		if math.IsNaN(v) {
			continue
		}
		isPeak, isValley := true, true
		for j := i - window; j <= i+window; j++ {
			if j == i {
				continue
			}
			n := values[j]
			if math.IsNaN(n) {
				isPeak, isValley = false, false
				break
			}
			if v <= n {
				isPeak = false
			}
			if v >= n {
				isValley = false
			}
			if !isPeak && !isValley {
				break
			}
		}
		if isPeak {
			peaks = append(peaks, i)
		}
		if isValley {
			valleys = append(valleys, i)
		}
	}
	return peaks, valleys
}
