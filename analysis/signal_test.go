package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/rsidiv/config"
	"github.com/evdnx/rsidiv/types"
)

func candlesFromCloses(closes ...float64) []types.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]types.Candle, len(closes))
	for i, c := range closes {
		out[i] = types.Candle{Time: start.Add(time.Duration(i) * time.Hour), Close: c}
	}
	return out
}

func detected(strength float64) Divergence {
	return Divergence{Detected: true, Strength: strength}
}

// Oversold plus bullish divergence must always win over the weaker rules:
// never BUY, never WEAK_BUY.
func TestClassify_PriorityStrongBuy(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	sig := d.classify(25, 100, detected(1.0), Divergence{})

	assert.Equal(t, SignalStrongBuy, sig.Type)
	assert.InDelta(t, 0.9, sig.Confidence, 1e-9) // capped at 0.9
}

func TestClassify_StrongSell(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	sig := d.classify(75, 100, Divergence{}, detected(0.2))

	assert.Equal(t, SignalStrongSell, sig.Type)
	assert.InDelta(t, 0.7, sig.Confidence, 1e-9) // 0.5 + 0.2, under the cap
}

func TestClassify_ThresholdOnly(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)

	buy := d.classify(25, 100, Divergence{}, Divergence{})
	assert.Equal(t, SignalBuy, buy.Type)
	assert.Equal(t, 0.6, buy.Confidence)

	sell := d.classify(75, 100, Divergence{}, Divergence{})
	assert.Equal(t, SignalSell, sell.Type)
	assert.Equal(t, 0.6, sell.Confidence)
}

func TestClassify_DivergenceOnly(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)

	weakBuy := d.classify(50, 100, detected(0.9), Divergence{})
	assert.Equal(t, SignalWeakBuy, weakBuy.Type)
	assert.Equal(t, 0.4, weakBuy.Confidence)

	weakSell := d.classify(50, 100, Divergence{}, detected(0.9))
	assert.Equal(t, SignalWeakSell, weakSell.Type)
	assert.Equal(t, 0.4, weakSell.Confidence)
}

func TestClassify_NoSignal(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	sig := d.classify(50, 100, Divergence{}, Divergence{})

	assert.Equal(t, SignalNone, sig.Type)
	assert.Zero(t, sig.Confidence)
}

func TestSignalType_Direction(t *testing.T) {
	t.Parallel()

	for _, s := range []SignalType{SignalWeakBuy, SignalBuy, SignalStrongBuy} {
		assert.True(t, s.IsBuy(), "%s", s)
		assert.False(t, s.IsSell(), "%s", s)
	}
	for _, s := range []SignalType{SignalWeakSell, SignalSell, SignalStrongSell} {
		assert.True(t, s.IsSell(), "%s", s)
		assert.False(t, s.IsBuy(), "%s", s)
	}
	assert.False(t, SignalNone.IsBuy())
	assert.False(t, SignalNone.IsSell())
}

// Oscillator failure never escapes Evaluate: it downgrades to NONE.
func TestEvaluate_ComputationFailure(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	sig := d.Evaluate(candlesFromCloses(100))

	assert.Equal(t, SignalNone, sig.Type)
	assert.Equal(t, "computation failed", sig.Reason)
}

func TestEvaluate_WarmupIncomplete(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	sig := d.Evaluate(candlesFromCloses(1, 2, 3, 4, 5))

	assert.Equal(t, SignalNone, sig.Type)
	assert.Equal(t, "insufficient data", sig.Reason)
}

// A constant series pins the oscillator at 100 (overbought) with no
// extrema, so the full pipeline lands on a plain SELL.
func TestEvaluate_ConstantSeriesSells(t *testing.T) {
	t.Parallel()

	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 50
	}
	d := newTestDetector(0.7)
	sig := d.Evaluate(candlesFromCloses(closes...))

	require.Equal(t, SignalSell, sig.Type)
	assert.Equal(t, 100.0, sig.RSI)
	assert.Equal(t, 50.0, sig.Price)
	assert.Equal(t, 0.6, sig.Confidence)
}

// Full scenario: a lower low in price with a recovering oscillator valley
// classifies as STRONG_BUY when the current oscillator is oversold.
func TestScenario_BullishDivergenceStrongBuy(t *testing.T) {
	t.Parallel()

	d := newTestDetector(0.7)
	bull := d.Bullish(bullishFixture.closes, bullishFixture.osc)
	require.True(t, bull.Detected)
	require.GreaterOrEqual(t, bull.Strength, 0.7)

	sig := d.classify(25, bull.Price, bull, Divergence{})
	assert.Equal(t, SignalStrongBuy, sig.Type)
	assert.InDelta(t, 0.9, sig.Confidence, 1e-9)
}

func TestNewDetectorUsesTradingConfig(t *testing.T) {
	t.Parallel()

	d := NewDetector(config.Trading{
		RSIPeriod:             5,
		RSIOversold:           20,
		RSIOverbought:         80,
		ExtremaWindow:         3,
		MinDivergenceStrength: 0.5,
	})
	// 25 is not oversold at a 20 threshold.
	sig := d.classify(25, 100, Divergence{}, Divergence{})
	assert.Equal(t, SignalNone, sig.Type)
}
