package exchange

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdnx/rsidiv/types"
)

func TestPaper_BalanceFollowsFills(t *testing.T) {
	t.Parallel()

	p := NewPaper(1000, nil)
	p.SetPrice("BTC/USDT", 10)
	ctx := context.Background()

	fill, err := p.PlaceMarketOrder(ctx, types.Order{Symbol: "BTC/USDT", Side: types.Buy, Qty: 5})
	require.NoError(t, err)
	assert.NotEmpty(t, fill.ID)
	assert.Equal(t, 10.0, fill.Price)

	balance, err := p.Balance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 950.0, balance, 1e-9)

	_, err = p.PlaceMarketOrder(ctx, types.Order{Symbol: "BTC/USDT", Side: types.Sell, Qty: 5})
	require.NoError(t, err)

	balance, err = p.Balance(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, balance, 1e-9)
	assert.Len(t, p.Fills(), 2)
}

func TestPaper_RejectsBadOrders(t *testing.T) {
	t.Parallel()

	p := NewPaper(100, nil)
	p.SetPrice("BTC/USDT", 10)
	ctx := context.Background()

	_, err := p.PlaceMarketOrder(ctx, types.Order{Symbol: "BTC/USDT", Side: types.Buy, Qty: 0})
	assert.Error(t, err, "non-positive quantity")

	_, err = p.PlaceMarketOrder(ctx, types.Order{Symbol: "ETH/USDT", Side: types.Buy, Qty: 1})
	assert.Error(t, err, "unknown symbol")

	_, err = p.PlaceMarketOrder(ctx, types.Order{Symbol: "BTC/USDT", Side: types.Buy, Qty: 100})
	assert.Error(t, err, "insufficient balance")

	balance, err := p.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100.0, balance, "failed orders leave the balance untouched")
	assert.Empty(t, p.Fills())
}

func TestPaper_PriceUnknownSymbol(t *testing.T) {
	t.Parallel()

	p := NewPaper(100, nil)
	_, err := p.Price(context.Background(), "BTC/USDT")
	assert.Error(t, err)
}

func TestPaper_CandlesRespectLimit(t *testing.T) {
	t.Parallel()

	p := NewPaper(100, nil)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]types.Candle, 5)
	for i := range series {
		series[i] = types.Candle{Time: start.Add(time.Duration(i) * time.Hour), Close: float64(i)}
	}
	p.SetCandles("BTC/USDT", series)

	got, err := p.Candles(context.Background(), "BTC/USDT", "1h", 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, 2.0, got[0].Close, "limit keeps the most recent bars")

	empty, err := p.Candles(context.Background(), "ETH/USDT", "1h", 3)
	require.NoError(t, err)
	assert.Empty(t, empty, "missing data is empty, not an error")
}

func TestPaper_FillIDsAreUnique(t *testing.T) {
	t.Parallel()

	p := NewPaper(1000, nil)
	p.SetPrice("BTC/USDT", 1)
	ctx := context.Background()

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		fill, err := p.PlaceMarketOrder(ctx, types.Order{Symbol: "BTC/USDT", Side: types.Buy, Qty: 1})
		require.NoError(t, err)
		require.False(t, seen[fill.ID], "duplicate fill id %s", fill.ID)
		seen[fill.ID] = true
	}
}
