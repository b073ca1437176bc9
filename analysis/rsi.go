// Package analysis implements the signal-detection pipeline: oscillator
// computation, extrema detection, divergence scoring, and signal
// classification.
package analysis

import (
	"errors"
	"fmt"
	"math"
)

// ErrInsufficientData marks a computation that could not run because the
// input series was too short. Callers treat it as "no signal available",
// never as fatal.
var ErrInsufficientData = errors.New("insufficient data")

// RSI computes a Wilder-smoothed relative strength index over closes.
// The result is index-aligned with the input: the value at i belongs to
// closes[i], and the first period values are NaN until enough history has
// accumulated. Downstream consumers must skip NaN entries.
//
// A series with no losses yields exactly 100; a series with no gains
// yields 0.
func RSI(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, fmt.Errorf("rsi period must be positive, got %d", period)
	}
	if len(closes) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 closes, got %d", ErrInsufficientData, len(closes))
	}

	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= period {
		return out, nil
	}

	// Seed averages over the first period deltas.
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Recursive smoothing for the remainder of the series.
	for i := period + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		var gain, loss float64
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
