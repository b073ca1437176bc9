package strategy

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/evdnx/rsidiv/analysis"
	"github.com/evdnx/rsidiv/config"
	"github.com/evdnx/rsidiv/exchange"
	"github.com/evdnx/rsidiv/logger"
	"github.com/evdnx/rsidiv/metrics"
	"github.com/evdnx/rsidiv/types"
)

// Engine orchestrates one strategy cycle at a time: it health-checks open
// positions, analyzes each configured instrument, and opens or closes
// positions accordingly. It holds at most one position per instrument.
//
// The engine is the error boundary for everything per-instrument and
// per-position: failures are logged with context and the cycle moves on.
type Engine struct {
	mu        sync.Mutex
	cfg       config.Config
	ex        exchange.Exchange
	det       *analysis.Detector
	log       logger.Logger
	positions map[string]*Position
	stats     Stats
}

// NewEngine validates cfg and wires the detection pipeline.
func NewEngine(cfg config.Config, ex exchange.Exchange, log logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{
		cfg:       cfg,
		ex:        ex,
		det:       analysis.NewDetector(cfg.Trading),
		log:       log,
		positions: make(map[string]*Position),
	}, nil
}

// RunCycle executes one full strategy pass. Cycles are serialized: the
// one-position-per-instrument invariant does not survive concurrent
// passes, so overlapping schedule ticks simply queue up here.
func (e *Engine) RunCycle(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.checkPositions(ctx)

	for _, symbol := range e.cfg.Trading.Pairs {
		symbol = strings.TrimSpace(symbol)
		if _, held := e.positions[symbol]; held {
			e.log.Info("skip_symbol_open_position", zap.String("symbol", symbol))
			continue
		}

		sig := e.analyze(ctx, symbol)
		metrics.SignalsEmitted.WithLabelValues(string(sig.Type)).Inc()
		if sig.Type == analysis.SignalNone || sig.Type == analysis.SignalError {
			continue
		}
		e.log.Info("signal",
			zap.String("symbol", symbol),
			zap.String("signal", string(sig.Type)),
			zap.Float64("price", sig.Price),
			zap.Float64("rsi", sig.RSI),
			zap.Float64("confidence", sig.Confidence),
		)

		switch sig.Type {
		case analysis.SignalStrongBuy, analysis.SignalStrongSell:
			e.openPosition(ctx, symbol, sig)
		case analysis.SignalBuy, analysis.SignalSell:
			if sig.Confidence >= e.cfg.Risk.MinConfidence {
				e.openPosition(ctx, symbol, sig)
			}
		}
	}

	e.logSummary(ctx)
}

// checkPositions refreshes PnL for every open position and closes those
// whose stop or take level is hit. Runs before new signals every cycle.
func (e *Engine) checkPositions(ctx context.Context) {
	for _, symbol := range e.openSymbols() {
		pos, ok := e.positions[symbol]
		if !ok {
			continue
		}
		price, err := e.ex.Price(ctx, symbol)
		if err != nil {
			e.log.Warn("price_fetch_failed", zap.String("symbol", symbol), zap.Error(err))
			continue
		}
		if price <= 0 {
			e.log.Warn("non_positive_price", zap.String("symbol", symbol), zap.Float64("price", price))
			continue
		}
		pos.UpdatePnL(price)
		if reason := pos.EvaluateClose(price); reason != CloseNone {
			if err := e.closePosition(ctx, symbol, reason); err != nil {
				e.log.Error("position_close_failed",
					zap.String("symbol", symbol),
					zap.String("reason", string(reason)),
					zap.Error(err),
				)
			}
		}
	}
}

// analyze fetches candles and runs the detection pipeline. Any failure
// downgrades to a NONE signal for this instrument.
func (e *Engine) analyze(ctx context.Context, symbol string) analysis.Signal {
	candles, err := e.ex.Candles(ctx, symbol, e.cfg.Trading.Timeframe, e.cfg.Trading.CandleLimit)
	if err != nil {
		e.log.Warn("candle_fetch_failed", zap.String("symbol", symbol), zap.Error(err))
		return analysis.Signal{Type: analysis.SignalNone, Reason: "no data available"}
	}
	if len(candles) == 0 {
		return analysis.Signal{Type: analysis.SignalNone, Reason: "no data available"}
	}
	return e.det.Evaluate(candles)
}

// positionSize converts the available balance into an order quantity:
// balance x fraction / price, rounded to the configured precision. Returns
// 0 when the result is below the minimum tradable quantity.
func (e *Engine) positionSize(ctx context.Context, price float64) (float64, error) {
	balance, err := e.ex.Balance(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch balance: %w", err)
	}
	size := balance * e.cfg.Risk.MaxPositionSize / price
	size = roundTo(size, e.cfg.Risk.QuantityPrecision)
	if size < e.cfg.Risk.MinQty {
		return 0, nil
	}
	return size, nil
}

// openPosition sizes, places the entry order, and registers the position.
// Any failure aborts without side effects.
func (e *Engine) openPosition(ctx context.Context, symbol string, sig analysis.Signal) {
	if _, held := e.positions[symbol]; held {
		return
	}
	price := sig.Price
	if price <= 0 {
		e.log.Warn("non_positive_price", zap.String("symbol", symbol), zap.Float64("price", price))
		return
	}

	side, orderSide := Long, types.Buy
	if sig.Type.IsSell() {
		side, orderSide = Short, types.Sell
	}

	size, err := e.positionSize(ctx, price)
	if err != nil {
		e.log.Error("position_size_failed", zap.String("symbol", symbol), zap.Error(err))
		return
	}
	if size <= 0 {
		e.log.Warn("position_size_below_minimum",
			zap.String("symbol", symbol),
			zap.Float64("min_qty", e.cfg.Risk.MinQty),
		)
		return
	}

	fill, err := e.ex.PlaceMarketOrder(ctx, types.Order{Symbol: symbol, Side: orderSide, Qty: size})
	if err != nil {
		e.log.Error("order_failed",
			zap.String("symbol", symbol),
			zap.String("side", string(orderSide)),
			zap.Float64("qty", size),
			zap.Error(err),
		)
		return
	}
	metrics.OrdersSubmitted.WithLabelValues(string(orderSide)).Inc()

	pos := NewPosition(symbol, side, size, price, e.cfg.Risk.StopLossPct, e.cfg.Risk.TakeProfitPct)
	e.positions[symbol] = pos
	metrics.PositionsOpen.Set(float64(len(e.positions)))

	e.log.Info("position_opened",
		zap.String("symbol", symbol),
		zap.String("side", string(side)),
		zap.Float64("size", size),
		zap.Float64("entry", price),
		zap.Float64("stop_loss", pos.StopLoss),
		zap.Float64("take_profit", pos.TakeProfit),
		zap.String("order_id", fill.ID),
	)
}

// closePosition places the opposite-side order, realizes the PnL, updates
// the statistics, and removes the position from the active set. An order
// failure leaves the position untouched.
func (e *Engine) closePosition(ctx context.Context, symbol string, reason CloseReason) error {
	pos, ok := e.positions[symbol]
	if !ok {
		return nil
	}
	price, err := e.ex.Price(ctx, symbol)
	if err != nil {
		return fmt.Errorf("fetch price: %w", err)
	}
	if price <= 0 {
		return fmt.Errorf("non-positive price %f for %s", price, symbol)
	}

	orderSide := types.Sell
	if pos.Side == Short {
		orderSide = types.Buy
	}
	fill, err := e.ex.PlaceMarketOrder(ctx, types.Order{Symbol: symbol, Side: orderSide, Qty: pos.Size})
	if err != nil {
		return fmt.Errorf("close order: %w", err)
	}
	metrics.OrdersSubmitted.WithLabelValues(string(orderSide)).Inc()

	realized := pos.close(price)
	e.stats.record(realized)
	delete(e.positions, symbol)

	outcome := "loss"
	if realized > 0 {
		outcome = "win"
	}
	metrics.TradesClosed.WithLabelValues(outcome).Inc()
	metrics.PositionsOpen.Set(float64(len(e.positions)))
	metrics.RealizedPnL.Set(e.stats.TotalPnL)

	e.log.Info("position_closed",
		zap.String("symbol", symbol),
		zap.String("side", string(pos.Side)),
		zap.String("reason", string(reason)),
		zap.String("outcome", outcome),
		zap.Float64("exit", price),
		zap.Float64("realized_pnl", realized),
		zap.String("order_id", fill.ID),
	)
	return nil
}

// Shutdown closes every open position with reason "shutdown" and logs the
// final summary. Safe to call with an empty active set, and safe to call
// more than once.
func (e *Engine) Shutdown(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, symbol := range e.openSymbols() {
		if err := e.closePosition(ctx, symbol, CloseShutdown); err != nil {
			e.log.Error("shutdown_close_failed", zap.String("symbol", symbol), zap.Error(err))
		}
	}
	e.logSummary(ctx)
}

// Stats returns a copy of the lifetime counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// OpenPositions returns the number of currently open positions.
func (e *Engine) OpenPositions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.positions)
}

// openSymbols returns the symbols with open positions in a stable order so
// cycles are deterministic.
func (e *Engine) openSymbols() []string {
	out := make([]string, 0, len(e.positions))
	for s := range e.positions {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// logSummary emits the periodic snapshot: balance, open positions, and the
// lifetime counters.
func (e *Engine) logSummary(ctx context.Context) {
	balance, err := e.ex.Balance(ctx)
	if err != nil {
		e.log.Warn("balance_fetch_failed", zap.Error(err))
	} else {
		metrics.Balance.Set(balance)
	}

	e.log.Info("cycle_summary",
		zap.Float64("balance", balance),
		zap.Int("open_positions", len(e.positions)),
		zap.Int("trades", e.stats.Trades),
		zap.Int("wins", e.stats.Wins),
		zap.Int("losses", e.stats.Losses),
		zap.Float64("total_pnl", e.stats.TotalPnL),
		zap.Float64("win_rate", e.stats.WinRate()),
	)

	for _, symbol := range e.openSymbols() {
		pos := e.positions[symbol]
		if price, err := e.ex.Price(ctx, symbol); err == nil && price > 0 {
			pos.UpdatePnL(price)
		}
		e.log.Info("position",
			zap.String("symbol", symbol),
			zap.String("side", string(pos.Side)),
			zap.Float64("size", pos.Size),
			zap.Float64("unrealized_pnl", pos.UnrealizedPnL),
		)
	}
}

func roundTo(v float64, places int) float64 {
	f := math.Pow(10, float64(places))
	return math.Round(v*f) / f
}
