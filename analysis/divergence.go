package analysis

import (
	"fmt"
	"math"
)

// Divergence is the result of comparing the two most recent extrema of the
// price and oscillator series. Strength is only meaningful when Detected is
// true; it is reported as 0 otherwise.
type Divergence struct {
	Detected   bool
	Strength   float64
	Oscillator float64 // oscillator value at the second extremum
	Price      float64 // close at the second extremum
	Reason     string
}

// Bullish compares the last two valleys of price and oscillator. A bullish
// divergence is a lower low in price against a higher low in the oscillator.
func (d *Detector) Bullish(closes, osc []float64) Divergence {
	_, priceValleys := Extrema(closes, d.window)
	_, oscValleys := Extrema(osc, d.window)
	return d.diverge(closes, osc, priceValleys, oscValleys, false)
}

// Bearish compares the last two peaks of price and oscillator. A bearish
// divergence is a higher high in price against a lower high in the
// oscillator.
func (d *Detector) Bearish(closes, osc []float64) Divergence {
	pricePeaks, _ := Extrema(closes, d.window)
	oscPeaks, _ := Extrema(osc, d.window)
	return d.diverge(closes, osc, pricePeaks, oscPeaks, true)
}

// diverge applies the directional condition and the strength gate to the
// two most recent extrema of each list. The price and oscillator extrema
// are taken independently, not matched pairwise by timestamp; see the
// Detector doc comment.
func (d *Detector) diverge(closes, osc []float64, priceIdx, oscIdx []int, bearish bool) Divergence {
	if len(priceIdx) < 2 || len(oscIdx) < 2 {
		return Divergence{Reason: "insufficient data"}
	}

	p0 := closes[priceIdx[len(priceIdx)-2]]
	p1 := closes[priceIdx[len(priceIdx)-1]]
	o0 := osc[oscIdx[len(oscIdx)-2]]
	o1 := osc[oscIdx[len(oscIdx)-1]]

	priceDiff := p1 - p0
	oscDiff := o1 - o0

	var directional bool
	if bearish {
		directional = priceDiff > 0 && oscDiff < 0
	} else {
		directional = priceDiff < 0 && oscDiff > 0
	}
	if !directional {
		return Divergence{Reason: "no divergence"}
	}

	// The +1 guards against division by zero and dampens strength for
	// near-zero price moves. A normalization choice, not a probability.
	strength := math.Abs(oscDiff) / (math.Abs(priceDiff) + 1)
	if strength < d.minStrength {
		return Divergence{Reason: fmt.Sprintf("strength %.2f below threshold %.2f", strength, d.minStrength)}
	}

	kind := "bullish"
	if bearish {
		kind = "bearish"
	}
	return Divergence{
		Detected:   true,
		Strength:   strength,
		Oscillator: o1,
		Price:      p1,
		Reason:     fmt.Sprintf("%s divergence detected (strength: %.2f)", kind, strength),
	}
}
