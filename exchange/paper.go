package exchange

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evdnx/rsidiv/logger"
	"github.com/evdnx/rsidiv/types"
)

// Paper is an in-memory exchange: perfect fills at the injected ticker
// price, no slippage, no fees. Candle series and prices are seeded by the
// caller (a data feed, a backtest driver, or a test).
type Paper struct {
	mu      sync.RWMutex
	balance float64
	prices  map[string]float64
	candles map[string][]types.Candle
	fills   []types.Fill
	log     logger.Logger
}

// NewPaper creates a paper exchange with the given starting balance.
func NewPaper(balance float64, log logger.Logger) *Paper {
	return &Paper{
		balance: balance,
		prices:  make(map[string]float64),
		candles: make(map[string][]types.Candle),
		log:     log,
	}
}

// SetPrice seeds the current ticker price for symbol.
func (p *Paper) SetPrice(symbol string, price float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.prices[symbol] = price
}

// SetCandles seeds the historical bars returned for symbol.
func (p *Paper) SetCandles(symbol string, candles []types.Candle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.candles[symbol] = append([]types.Candle(nil), candles...)
}

func (p *Paper) Candles(_ context.Context, symbol, _ string, limit int) ([]types.Candle, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	series := p.candles[symbol]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return append([]types.Candle(nil), series...), nil
}

func (p *Paper) Price(_ context.Context, symbol string) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	price, ok := p.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	return price, nil
}

func (p *Paper) Balance(_ context.Context) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.balance, nil
}

// PlaceMarketOrder fills o at the seeded ticker price, debiting or
// crediting the balance accordingly.
func (p *Paper) PlaceMarketOrder(_ context.Context, o types.Order) (types.Fill, error) {
	if o.Qty <= 0 {
		return types.Fill{}, fmt.Errorf("quantity must be positive, got %f", o.Qty)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	price, ok := p.prices[o.Symbol]
	if !ok || price <= 0 {
		return types.Fill{}, fmt.Errorf("no price for %s", o.Symbol)
	}
	cost := o.Qty * price
	if o.Side == types.Buy {
		if cost > p.balance {
			return types.Fill{}, fmt.Errorf("insufficient balance: need %.2f, have %.2f", cost, p.balance)
		}
		p.balance -= cost
	} else {
		p.balance += cost
	}

	fill := types.Fill{
		ID:     newFillID(),
		Symbol: o.Symbol,
		Side:   o.Side,
		Qty:    o.Qty,
		Price:  price,
		Time:   time.Now().UTC(),
	}
	p.fills = append(p.fills, fill)

	if p.log != nil {
		p.log.Info("paper_fill",
			zap.String("id", fill.ID),
			zap.String("symbol", fill.Symbol),
			zap.String("side", string(fill.Side)),
			zap.Float64("qty", fill.Qty),
			zap.Float64("price", fill.Price),
			zap.Float64("balance", p.balance),
		)
	}
	return fill, nil
}

// Fills returns a copy of every fill executed so far.
func (p *Paper) Fills() []types.Fill {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Fill(nil), p.fills...)
}
