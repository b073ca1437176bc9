package analysis

import (
	"math"

	"github.com/evdnx/rsidiv/config"
	"github.com/evdnx/rsidiv/types"
)

// Detector runs the full detection pipeline: oscillator, extrema,
// divergence, classification. It is configured once at construction and
// carries no per-call state.
//
// Known approximation, kept for behavioral parity with the strategy this
// implements: the last two price extrema and the last two oscillator
// extrema are selected independently from their own lists, without
// matching them by timestamp. A stricter design would pair extrema within
// a time tolerance.
type Detector struct {
	period      int
	window      int
	oversold    float64
	overbought  float64
	minStrength float64
}

// NewDetector builds a detector from the trading configuration.
func NewDetector(cfg config.Trading) *Detector {
	return &Detector{
		period:      cfg.RSIPeriod,
		window:      cfg.ExtremaWindow,
		oversold:    cfg.RSIOversold,
		overbought:  cfg.RSIOverbought,
		minStrength: cfg.MinDivergenceStrength,
	}
}

// Closes extracts the close-price series from candles.
func Closes(candles []types.Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Evaluate classifies the most recent bar of the candle series. Oscillator
// failure never escapes this method: it downgrades to a NONE signal.
func (d *Detector) Evaluate(candles []types.Candle) Signal {
	closes := Closes(candles)

	osc, err := RSI(closes, d.period)
	if err != nil {
		return Signal{Type: SignalNone, Reason: "computation failed"}
	}
	current := osc[len(osc)-1]
	if math.IsNaN(current) {
		// Still inside the warm-up period.
		return Signal{Type: SignalNone, Reason: "insufficient data"}
	}
	price := closes[len(closes)-1]

	bull := d.Bullish(closes, osc)
	bear := d.Bearish(closes, osc)

	return d.classify(current, price, bull, bear)
}
