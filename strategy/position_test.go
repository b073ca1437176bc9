package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition_LongRiskBounds(t *testing.T) {
	t.Parallel()

	p := NewPosition("BTC/USDT", Long, 1, 100, 0.02, 0.04)

	require.True(t, p.Open())
	assert.InDelta(t, 98.0, p.StopLoss, 1e-9)
	assert.InDelta(t, 104.0, p.TakeProfit, 1e-9)
}

func TestNewPosition_ShortRiskBounds(t *testing.T) {
	t.Parallel()

	p := NewPosition("BTC/USDT", Short, 1, 100, 0.02, 0.04)

	assert.InDelta(t, 102.0, p.StopLoss, 1e-9)
	assert.InDelta(t, 96.0, p.TakeProfit, 1e-9)
}

func TestEvaluateClose_Long(t *testing.T) {
	t.Parallel()

	p := NewPosition("BTC/USDT", Long, 1, 100, 0.02, 0.04)

	assert.Equal(t, CloseStopLoss, p.EvaluateClose(97))
	assert.Equal(t, CloseStopLoss, p.EvaluateClose(98))
	assert.Equal(t, CloseTakeProfit, p.EvaluateClose(105))
	assert.Equal(t, CloseTakeProfit, p.EvaluateClose(104))
	assert.Equal(t, CloseNone, p.EvaluateClose(101))
}

func TestEvaluateClose_Short(t *testing.T) {
	t.Parallel()

	p := NewPosition("BTC/USDT", Short, 1, 100, 0.02, 0.04)

	assert.Equal(t, CloseStopLoss, p.EvaluateClose(103))
	assert.Equal(t, CloseTakeProfit, p.EvaluateClose(95))
	assert.Equal(t, CloseNone, p.EvaluateClose(99))
}

// A price exactly at entry triggers neither bound.
func TestEvaluateClose_AtEntryIsNoTrigger(t *testing.T) {
	t.Parallel()

	long := NewPosition("BTC/USDT", Long, 1, 100, 0.02, 0.04)
	assert.Equal(t, CloseNone, long.EvaluateClose(100))

	short := NewPosition("BTC/USDT", Short, 1, 100, 0.02, 0.04)
	assert.Equal(t, CloseNone, short.EvaluateClose(100))
}

func TestUpdatePnL(t *testing.T) {
	t.Parallel()

	long := NewPosition("BTC/USDT", Long, 2, 100, 0.02, 0.04)
	long.UpdatePnL(103)
	assert.InDelta(t, 6.0, long.UnrealizedPnL, 1e-9)

	short := NewPosition("BTC/USDT", Short, 2, 100, 0.02, 0.04)
	short.UpdatePnL(103)
	assert.InDelta(t, -6.0, short.UnrealizedPnL, 1e-9)
}

func TestClose_IsIrreversible(t *testing.T) {
	t.Parallel()

	p := NewPosition("BTC/USDT", Long, 3, 100, 0.02, 0.04)

	realized := p.close(97)
	assert.InDelta(t, -9.0, realized, 1e-9)
	assert.False(t, p.Open())
	assert.Zero(t, p.UnrealizedPnL)

	// A second close is a no-op, as is a PnL update.
	assert.InDelta(t, -9.0, p.close(200), 1e-9)
	p.UpdatePnL(200)
	assert.Zero(t, p.UnrealizedPnL)
	assert.Equal(t, CloseNone, p.EvaluateClose(1))
}
