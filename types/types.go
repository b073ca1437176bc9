package types

import "time"

// Side is the direction of an order as the exchange sees it.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Candle is a single closed OHLCV bar. The analysis pipeline only consumes
// Time and Close; the remaining fields are kept so exchange adapters can
// hand over full bars without reshaping.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Order is a market-order request handed to the exchange.
type Order struct {
	Symbol string
	Side   Side
	Qty    float64
}

// Fill is the confirmation an exchange returns for an executed order.
type Fill struct {
	ID     string
	Symbol string
	Side   Side
	Qty    float64
	Price  float64
	Time   time.Time
}
