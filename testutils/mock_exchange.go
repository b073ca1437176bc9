package testutils

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/evdnx/rsidiv/types"
)

// MockExchange implements exchange.Exchange in memory. Tests seed prices,
// candle series, and the balance, and can force order placement to fail;
// every submitted order is recorded for assertions.
type MockExchange struct {
	mu         sync.Mutex
	balance    float64
	prices     map[string]float64
	candles    map[string][]types.Candle
	orders     []types.Order
	FailOrders bool
}

// NewMockExchange creates a mock with the supplied starting balance.
func NewMockExchange(balance float64) *MockExchange {
	return &MockExchange{
		balance: balance,
		prices:  make(map[string]float64),
		candles: make(map[string][]types.Candle),
	}
}

// SetPrice seeds the ticker price for symbol.
func (m *MockExchange) SetPrice(symbol string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[symbol] = price
}

// SetCandles seeds the candle series for symbol.
func (m *MockExchange) SetCandles(symbol string, candles []types.Candle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.candles[symbol] = append([]types.Candle(nil), candles...)
}

func (m *MockExchange) Candles(_ context.Context, symbol, _ string, limit int) ([]types.Candle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	series := m.candles[symbol]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return append([]types.Candle(nil), series...), nil
}

func (m *MockExchange) Price(_ context.Context, symbol string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	price, ok := m.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("no price for %s", symbol)
	}
	return price, nil
}

func (m *MockExchange) Balance(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.balance, nil
}

func (m *MockExchange) PlaceMarketOrder(_ context.Context, o types.Order) (types.Fill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailOrders {
		return types.Fill{}, errors.New("order rejected")
	}
	m.orders = append(m.orders, o)
	return types.Fill{
		ID:     fmt.Sprintf("mock-%d", len(m.orders)),
		Symbol: o.Symbol,
		Side:   o.Side,
		Qty:    o.Qty,
		Price:  m.prices[o.Symbol],
		Time:   time.Now().UTC(),
	}, nil
}

// Orders returns every order submitted so far.
func (m *MockExchange) Orders() []types.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.Order(nil), m.orders...)
}
