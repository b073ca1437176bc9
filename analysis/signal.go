package analysis

import "fmt"

// SignalType is the ranked outcome of signal classification.
type SignalType string

const (
	SignalNone       SignalType = "NONE"
	SignalWeakBuy    SignalType = "WEAK_BUY"
	SignalBuy        SignalType = "BUY"
	SignalStrongBuy  SignalType = "STRONG_BUY"
	SignalWeakSell   SignalType = "WEAK_SELL"
	SignalSell       SignalType = "SELL"
	SignalStrongSell SignalType = "STRONG_SELL"
	SignalError      SignalType = "ERROR"
)

// IsBuy reports whether the signal points long.
func (s SignalType) IsBuy() bool {
	return s == SignalWeakBuy || s == SignalBuy || s == SignalStrongBuy
}

// IsSell reports whether the signal points short.
func (s SignalType) IsSell() bool {
	return s == SignalWeakSell || s == SignalSell || s == SignalStrongSell
}

// Signal is a classified trading signal with its supporting evidence.
type Signal struct {
	Type       SignalType
	Reason     string
	RSI        float64
	Price      float64
	Confidence float64 // in [0,1]
	Bullish    Divergence
	Bearish    Divergence
}

// classify applies the decision ladder. The order is the designed priority:
// combined threshold+divergence outranks threshold alone, which outranks
// divergence alone. First match wins.
func (d *Detector) classify(rsi, price float64, bull, bear Divergence) Signal {
	sig := Signal{
		Type:    SignalNone,
		Reason:  "no clear signal",
		RSI:     rsi,
		Price:   price,
		Bullish: bull,
		Bearish: bear,
	}

	switch {
	case rsi <= d.oversold && bull.Detected:
		sig.Type = SignalStrongBuy
		sig.Reason = fmt.Sprintf("RSI oversold (%.2f) + bullish divergence (%.2f)", rsi, bull.Strength)
		sig.Confidence = clampConfidence(0.5 + bull.Strength)

	case rsi >= d.overbought && bear.Detected:
		sig.Type = SignalStrongSell
		sig.Reason = fmt.Sprintf("RSI overbought (%.2f) + bearish divergence (%.2f)", rsi, bear.Strength)
		sig.Confidence = clampConfidence(0.5 + bear.Strength)

	case rsi <= d.oversold:
		sig.Type = SignalBuy
		sig.Reason = fmt.Sprintf("RSI oversold (%.2f)", rsi)
		sig.Confidence = 0.6

	case rsi >= d.overbought:
		sig.Type = SignalSell
		sig.Reason = fmt.Sprintf("RSI overbought (%.2f)", rsi)
		sig.Confidence = 0.6

	case bull.Detected:
		sig.Type = SignalWeakBuy
		sig.Reason = fmt.Sprintf("bullish divergence (%.2f)", bull.Strength)
		sig.Confidence = 0.4

	case bear.Detected:
		sig.Type = SignalWeakSell
		sig.Reason = fmt.Sprintf("bearish divergence (%.2f)", bear.Strength)
		sig.Confidence = 0.4
	}
	return sig
}

func clampConfidence(c float64) float64 {
	if c > 0.9 {
		return 0.9
	}
	return c
}
