// Package strategy contains the position/risk engine: position lifecycle,
// sizing, stop/take evaluation, and the per-cycle orchestration that turns
// signals into orders.
package strategy

import "time"

// PositionSide is the direction of an open exposure.
type PositionSide string

const (
	Long  PositionSide = "long"
	Short PositionSide = "short"
)

// CloseReason explains why a position was (or should be) closed.
type CloseReason string

const (
	CloseNone       CloseReason = ""
	CloseStopLoss   CloseReason = "stop_loss"
	CloseTakeProfit CloseReason = "take_profit"
	CloseShutdown   CloseReason = "shutdown"
)

// Position is a single open exposure with derived risk bounds. It is owned
// exclusively by the Engine, transitions OPEN to CLOSED exactly once, and
// is never reopened; a new exposure gets a new instance.
type Position struct {
	Symbol        string
	Side          PositionSide
	Size          float64
	EntryPrice    float64
	StopLoss      float64
	TakeProfit    float64
	EntryTime     time.Time
	UnrealizedPnL float64
	RealizedPnL   float64

	open bool
}

// NewPosition creates an open position with stop/take levels derived from
// the entry price: long stops below and takes above, short mirrored.
func NewPosition(symbol string, side PositionSide, size, entry, stopPct, takePct float64) *Position {
	p := &Position{
		Symbol:     symbol,
		Side:       side,
		Size:       size,
		EntryPrice: entry,
		EntryTime:  time.Now().UTC(),
		open:       true,
	}
	if side == Long {
		p.StopLoss = entry * (1 - stopPct)
		p.TakeProfit = entry * (1 + takePct)
	} else {
		p.StopLoss = entry * (1 + stopPct)
		p.TakeProfit = entry * (1 - takePct)
	}
	return p
}

// Open reports whether the position is still open.
func (p *Position) Open() bool { return p.open }

// UpdatePnL recomputes the unrealized PnL at the given price. Callable any
// number of times while open.
func (p *Position) UpdatePnL(price float64) {
	if !p.open {
		return
	}
	p.UnrealizedPnL = p.pnlAt(price)
}

// EvaluateClose returns the close trigger hit at price, if any. Pure query,
// no state change. A price exactly at entry triggers neither bound.
func (p *Position) EvaluateClose(price float64) CloseReason {
	if !p.open {
		return CloseNone
	}
	if p.Side == Long {
		if price <= p.StopLoss {
			return CloseStopLoss
		}
		if price >= p.TakeProfit {
			return CloseTakeProfit
		}
	} else {
		if price >= p.StopLoss {
			return CloseStopLoss
		}
		if price <= p.TakeProfit {
			return CloseTakeProfit
		}
	}
	return CloseNone
}

// close realizes the PnL at price and flips the position to CLOSED.
// Irreversible; a second call is a no-op returning the realized value.
func (p *Position) close(price float64) float64 {
	if !p.open {
		return p.RealizedPnL
	}
	p.RealizedPnL = p.pnlAt(price)
	p.UnrealizedPnL = 0
	p.open = false
	return p.RealizedPnL
}

func (p *Position) pnlAt(price float64) float64 {
	if p.Side == Long {
		return (price - p.EntryPrice) * p.Size
	}
	return (p.EntryPrice - price) * p.Size
}
