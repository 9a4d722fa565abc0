package cpamm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

func TestAddLiquidity(t *testing.T) {
	engine, rec := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}
	poolLiquidityBefore := pool.Liquidity.BigInt()

	delta := new(big.Int).Lsh(big.NewInt(1_000_000), shared.ScaleOffset)
	amountA, amountB, err := engine.AddLiquidity(pool, position, AddLiquidityParams{
		Pool:                  testKey(10),
		Position:              testKey(11),
		LiquidityDelta:        delta,
		TokenAAmountThreshold: ^uint64(0),
		TokenBAmountThreshold: ^uint64(0),
	}, Clock{Slot: 2000, Timestamp: 100})
	require.NoError(t, err)

	// Full range at price 1 needs both tokens.
	require.Positive(t, amountA)
	require.Positive(t, amountB)
	require.Zero(t, position.UnlockedLiquidity.BigInt().Cmp(delta))
	require.Zero(t, pool.Liquidity.BigInt().Cmp(new(big.Int).Add(poolLiquidityBefore, delta)))

	evt, ok := rec.last().(EvtAddLiquidity)
	require.True(t, ok)
	require.Equal(t, amountA, evt.TokenAAmount)
	require.Equal(t, amountB, evt.TokenBAmount)
}

func TestAddLiquidityRejectsBadDelta(t *testing.T) {
	engine, _ := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}

	_, _, err := engine.AddLiquidity(pool, position, AddLiquidityParams{}, Clock{})
	require.ErrorIs(t, err, ErrInvalidParameters)

	_, _, err = engine.AddLiquidity(pool, position, AddLiquidityParams{LiquidityDelta: big.NewInt(0)}, Clock{})
	require.ErrorIs(t, err, ErrInvalidParameters)
}

func TestAddLiquidityThreshold(t *testing.T) {
	engine, _ := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}

	_, _, err := engine.AddLiquidity(pool, position, AddLiquidityParams{
		LiquidityDelta: new(big.Int).Lsh(big.NewInt(1_000_000), shared.ScaleOffset),
	}, Clock{Slot: 2000, Timestamp: 100})
	require.ErrorIs(t, err, ErrExceededSlippage)
}

func TestRemoveLiquidity(t *testing.T) {
	engine, rec := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}
	clock := Clock{Slot: 2000, Timestamp: 100}

	delta := new(big.Int).Lsh(big.NewInt(1_000_000), shared.ScaleOffset)
	_, _, err := engine.AddLiquidity(pool, position, AddLiquidityParams{
		LiquidityDelta:        delta,
		TokenAAmountThreshold: ^uint64(0),
		TokenBAmountThreshold: ^uint64(0),
	}, clock)
	require.NoError(t, err)

	half := new(big.Int).Rsh(delta, 1)
	amountA, amountB, err := engine.RemoveLiquidity(pool, position, RemoveLiquidityParams{
		Pool:           testKey(10),
		Position:       testKey(11),
		LiquidityDelta: half,
	}, clock)
	require.NoError(t, err)
	require.Positive(t, amountA)
	require.Positive(t, amountB)
	require.Zero(t, position.UnlockedLiquidity.BigInt().Cmp(half))

	evt, ok := rec.last().(EvtRemoveLiquidity)
	require.True(t, ok)
	require.Zero(t, evt.LiquidityDelta.Cmp(half))
}

func TestRemoveLiquidityBeyondUnlocked(t *testing.T) {
	engine, _ := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}
	clock := Clock{Slot: 2000, Timestamp: 100}

	delta := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	_, _, err := engine.AddLiquidity(pool, position, AddLiquidityParams{
		LiquidityDelta:        delta,
		TokenAAmountThreshold: ^uint64(0),
		TokenBAmountThreshold: ^uint64(0),
	}, clock)
	require.NoError(t, err)

	_, _, err = engine.RemoveLiquidity(pool, position, RemoveLiquidityParams{
		LiquidityDelta: new(big.Int).Add(delta, big.NewInt(1)),
	}, clock)
	require.ErrorIs(t, err, ErrInsufficientLiquidity)
}

func TestRemoveAllLiquidity(t *testing.T) {
	engine, _ := newTestEngine(t)
	pool := newTestPool(t)
	position := &state.Position{}
	clock := Clock{Slot: 2000, Timestamp: 100}

	_, _, err := engine.RemoveAllLiquidity(pool, position, RemoveLiquidityParams{}, clock)
	require.ErrorIs(t, err, ErrAmountIsZero)

	delta := new(big.Int).Lsh(big.NewInt(1_000_000), shared.ScaleOffset)
	_, _, err = engine.AddLiquidity(pool, position, AddLiquidityParams{
		LiquidityDelta:        delta,
		TokenAAmountThreshold: ^uint64(0),
		TokenBAmountThreshold: ^uint64(0),
	}, clock)
	require.NoError(t, err)

	amountA, amountB, err := engine.RemoveAllLiquidity(pool, position, RemoveLiquidityParams{}, clock)
	require.NoError(t, err)
	require.Positive(t, amountA+amountB)
	require.Zero(t, position.UnlockedLiquidity.BigInt().Sign())
}
