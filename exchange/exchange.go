// Package exchange defines the collaborator boundary between the trading
// core and a venue, plus an in-memory paper implementation for simulation.
package exchange

import (
	"context"

	"github.com/evdnx/rsidiv/types"
)

// Exchange is everything the strategy engine asks of a venue.
// Implementations own their own timeout and retry policy; the core treats
// calls as blocking and every error as non-fatal for the current
// instrument.
type Exchange interface {
	// Candles returns up to limit most recent closed bars, oldest first.
	// An empty slice means "no data", not an error.
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]types.Candle, error)

	// Price returns the current ticker price. Callers must guard against
	// non-positive values.
	Price(ctx context.Context, symbol string) (float64, error)

	// Balance returns the available quote balance.
	Balance(ctx context.Context) (float64, error)

	// PlaceMarketOrder executes o and returns the fill confirmation.
	PlaceMarketOrder(ctx context.Context, o types.Order) (types.Fill, error)
}
