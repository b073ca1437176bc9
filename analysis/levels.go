package analysis

// Levels are support/resistance estimates derived from recent extrema.
type Levels struct {
	Support    float64
	Resistance float64
	Price      float64
}

// SupportResistance averages up to the last three peak closes (resistance)
// and valley closes (support). When the series has no extrema it falls back
// to the series minimum and maximum.
func (d *Detector) SupportResistance(closes []float64) Levels {
	if len(closes) == 0 {
		return Levels{}
	}
	lv := Levels{Price: closes[len(closes)-1]}

	peaks, valleys := Extrema(closes, d.window)
	if len(peaks) > 0 && len(valleys) > 0 {
		lv.Resistance = meanAt(closes, lastN(peaks, 3))
		lv.Support = meanAt(closes, lastN(valleys, 3))
		return lv
	}

	lv.Support, lv.Resistance = closes[0], closes[0]
	for _, v := range closes {
		if v < lv.Support {
			lv.Support = v
		}
		if v > lv.Resistance {
			lv.Resistance = v
		}
	}
	return lv
}

func lastN(idx []int, n int) []int {
	if len(idx) <= n {
		return idx
	}
	return idx[len(idx)-n:]
}

func meanAt(values []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += values[i]
	}
	return sum / float64(len(idx))
}
