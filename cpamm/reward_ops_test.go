package cpamm

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

var (
	rewardMint   = testKey(0x40)
	rewardVault  = testKey(0x41)
	rewardFunder = testKey(0x42)
)

func initRewardParams() InitializeRewardParams {
	return InitializeRewardParams{
		Pool:           testKey(10),
		Authority:      testKey(3), // pool creator
		RewardIndex:    0,
		RewardDuration: 3600,
		RewardMint:     rewardMint,
		RewardVault:    rewardVault,
		Funder:         rewardFunder,
	}
}

// newRewardPool is a pool with slot 0 initialized and funded with 3_600_000
// over one hour starting at timestamp 1000: a rate of 1000 per second.
func newRewardPool(t *testing.T, engine *Engine, liquidity *big.Int) *state.Pool {
	t.Helper()
	pool := newTestPool(t)
	pool.Liquidity = u128(t, liquidity)
	require.NoError(t, engine.InitializeReward(pool, initRewardParams()))
	require.NoError(t, engine.FundReward(pool, FundRewardParams{
		Pool:        testKey(10),
		Funder:      rewardFunder,
		RewardIndex: 0,
		Amount:      3_600_000,
	}, Clock{Timestamp: 1000}))
	return pool
}

func TestInitializeRewardAuthorization(t *testing.T) {
	engine, rec := newTestEngine(t)

	// Pool creator and admin may initialize, others may not.
	require.NoError(t, engine.InitializeReward(newTestPool(t), initRewardParams()))
	evt, ok := rec.last().(EvtInitializeReward)
	require.True(t, ok)
	require.Equal(t, uint64(3600), evt.RewardDuration)

	adminParams := initRewardParams()
	adminParams.Authority = testAdmin
	require.NoError(t, engine.InitializeReward(newTestPool(t), adminParams))

	strangerParams := initRewardParams()
	strangerParams.Authority = testKey(9)
	err := engine.InitializeReward(newTestPool(t), strangerParams)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestInitializeRewardValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	params := initRewardParams()
	params.RewardIndex = uint8(shared.NumRewards)
	require.ErrorIs(t, engine.InitializeReward(newTestPool(t), params), ErrInvalidRewardIndex)

	params = initRewardParams()
	params.RewardDuration = shared.MinRewardDuration - 1
	require.ErrorIs(t, engine.InitializeReward(newTestPool(t), params), ErrInvalidRewardDuration)

	params = initRewardParams()
	params.RewardDuration = shared.MaxRewardDuration + 1
	require.ErrorIs(t, engine.InitializeReward(newTestPool(t), params), ErrInvalidRewardDuration)

	params = initRewardParams()
	params.RewardVault = testKey(0)
	require.ErrorIs(t, engine.InitializeReward(newTestPool(t), params), ErrInvalidRewardVault)

	pool := newTestPool(t)
	require.NoError(t, engine.InitializeReward(pool, initRewardParams()))
	require.ErrorIs(t, engine.InitializeReward(pool, initRewardParams()), ErrRewardInitialized)
}

func TestFundReward(t *testing.T) {
	engine, rec := newTestEngine(t)
	liquidity := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	pool := newRewardPool(t, engine, liquidity)

	rewardInfo := &pool.RewardInfos[0]
	expectedRate := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	require.Zero(t, rewardInfo.RewardRate.BigInt().Cmp(expectedRate))
	require.Equal(t, uint64(4600), rewardInfo.RewardDurationEnd)

	evt, ok := rec.last().(EvtFundReward)
	require.True(t, ok)
	require.Equal(t, uint64(3_600_000), evt.Amount)

	err := engine.FundReward(pool, FundRewardParams{Funder: testKey(9), RewardIndex: 0, Amount: 1}, Clock{Timestamp: 1000})
	require.ErrorIs(t, err, ErrInvalidFunder)

	err = engine.FundReward(pool, FundRewardParams{Funder: rewardFunder, RewardIndex: 0}, Clock{Timestamp: 1000})
	require.ErrorIs(t, err, ErrAmountIsZero)

	err = engine.FundReward(pool, FundRewardParams{Funder: rewardFunder, RewardIndex: 1, Amount: 1}, Clock{Timestamp: 1000})
	require.ErrorIs(t, err, ErrRewardUninitialized)
}

func TestFundRewardEmptyLiquidityCarryForward(t *testing.T) {
	engine, _ := newTestEngine(t)
	pool := newRewardPool(t, engine, big.NewInt(0))

	// 500 seconds pass with nobody staked: the reward banks instead of accruing.
	fund := FundRewardParams{Funder: rewardFunder, RewardIndex: 0, Amount: 1_000_000}
	err := engine.FundReward(pool, fund, Clock{Timestamp: 1500})
	require.ErrorIs(t, err, ErrMustWithdrawnIneligibleReward)

	fund.CarryForward = true
	require.NoError(t, engine.FundReward(pool, fund, Clock{Timestamp: 1500}))
	require.Zero(t, pool.RewardInfos[0].CumulativeSecondsWithEmptyLiquidityReward)
}

func TestClaimReward(t *testing.T) {
	engine, rec := newTestEngine(t)
	liquidity := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	pool := newRewardPool(t, engine, liquidity)
	position := &state.Position{UnlockedLiquidity: u128(t, liquidity)}

	_, err := engine.ClaimReward(pool, position, ClaimRewardParams{RewardIndex: uint8(shared.NumRewards)}, Clock{Timestamp: 1500})
	require.ErrorIs(t, err, ErrInvalidRewardIndex)
	_, err = engine.ClaimReward(pool, position, ClaimRewardParams{RewardIndex: 1}, Clock{Timestamp: 1500})
	require.ErrorIs(t, err, ErrRewardUninitialized)

	amount, err := engine.ClaimReward(pool, position, ClaimRewardParams{
		Pool:        testKey(10),
		Position:    testKey(11),
		RewardIndex: 0,
	}, Clock{Timestamp: 1500})
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), amount)
	require.Zero(t, position.RewardInfos[0].RewardPendings)

	evt, ok := rec.last().(EvtClaimReward)
	require.True(t, ok)
	require.Equal(t, uint64(500_000), evt.TotalReward)
	require.False(t, evt.Skipped)
}

func TestClaimRewardFrozenVault(t *testing.T) {
	engine, rec := newTestEngine(t)
	liquidity := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	pool := newRewardPool(t, engine, liquidity)
	position := &state.Position{UnlockedLiquidity: u128(t, liquidity)}
	clock := Clock{Timestamp: 1500}

	// A frozen vault without the skip flag is an error and keeps pendings.
	_, err := engine.ClaimReward(pool, position, ClaimRewardParams{
		RewardIndex: 0,
		VaultFrozen: true,
	}, clock)
	require.ErrorIs(t, err, ErrRewardVaultFrozenSkipRequired)
	require.Equal(t, uint64(500_000), position.RewardInfos[0].RewardPendings)

	// With the skip flag the claim is a zero-payout no-op.
	amount, err := engine.ClaimReward(pool, position, ClaimRewardParams{
		RewardIndex:  0,
		VaultFrozen:  true,
		SkipIfFrozen: true,
	}, clock)
	require.NoError(t, err)
	require.Zero(t, amount)
	require.Equal(t, uint64(500_000), position.RewardInfos[0].RewardPendings)
	evt, ok := rec.last().(EvtClaimReward)
	require.True(t, ok)
	require.True(t, evt.Skipped)

	// Once the vault thaws the full pending amount pays out.
	amount, err = engine.ClaimReward(pool, position, ClaimRewardParams{RewardIndex: 0}, clock)
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), amount)
}

func TestWithdrawIneligibleReward(t *testing.T) {
	engine, rec := newTestEngine(t)
	pool := newRewardPool(t, engine, big.NewInt(0))

	_, err := engine.WithdrawIneligibleReward(pool, WithdrawIneligibleRewardParams{
		Funder:      testKey(9),
		RewardIndex: 0,
	}, Clock{Timestamp: 1500})
	require.ErrorIs(t, err, ErrInvalidFunder)

	amount, err := engine.WithdrawIneligibleReward(pool, WithdrawIneligibleRewardParams{
		Pool:        testKey(10),
		Funder:      rewardFunder,
		RewardIndex: 0,
	}, Clock{Timestamp: 1500})
	require.NoError(t, err)
	require.Equal(t, uint64(500_000), amount)
	evt, ok := rec.last().(EvtWithdrawIneligibleReward)
	require.True(t, ok)
	require.Equal(t, rewardMint, evt.RewardMint)

	// Nothing banked after the reset.
	_, err = engine.WithdrawIneligibleReward(pool, WithdrawIneligibleRewardParams{
		Funder:      rewardFunder,
		RewardIndex: 0,
	}, Clock{Timestamp: 1500})
	require.ErrorIs(t, err, ErrIneligibleReward)
}

func TestUpdateRewardDuration(t *testing.T) {
	engine, _ := newTestEngine(t)
	liquidity := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	pool := newRewardPool(t, engine, liquidity)
	poolKey := testKey(10)

	err := engine.UpdateRewardDuration(pool, poolKey, testKey(9), 0, 7200, Clock{Timestamp: 5000})
	require.ErrorIs(t, err, ErrUnauthorized)

	err = engine.UpdateRewardDuration(pool, poolKey, testAdmin, 0, 3600, Clock{Timestamp: 5000})
	require.ErrorIs(t, err, ErrIdenticalRewardDuration)

	// The running campaign ends at 4600.
	err = engine.UpdateRewardDuration(pool, poolKey, testAdmin, 0, 7200, Clock{Timestamp: 4600})
	require.ErrorIs(t, err, ErrRewardNotEnded)

	require.NoError(t, engine.UpdateRewardDuration(pool, poolKey, testAdmin, 0, 7200, Clock{Timestamp: 5000}))
	require.Equal(t, uint64(7200), pool.RewardInfos[0].RewardDuration)
}

func TestUpdateRewardFunder(t *testing.T) {
	engine, rec := newTestEngine(t)
	liquidity := new(big.Int).Lsh(big.NewInt(1000), shared.ScaleOffset)
	pool := newRewardPool(t, engine, liquidity)
	poolKey := testKey(10)
	newFunder := testKey(0x43)

	err := engine.UpdateRewardFunder(pool, poolKey, testKey(9), 0, newFunder)
	require.ErrorIs(t, err, ErrUnauthorized)

	err = engine.UpdateRewardFunder(pool, poolKey, testAdmin, 0, rewardFunder)
	require.ErrorIs(t, err, ErrIdenticalFunder)

	require.NoError(t, engine.UpdateRewardFunder(pool, poolKey, testAdmin, 0, newFunder))
	require.Equal(t, newFunder, pool.RewardInfos[0].Funder)

	evt, ok := rec.last().(EvtUpdateRewardFunder)
	require.True(t, ok)
	require.Equal(t, rewardFunder, evt.OldFunder)
	require.Equal(t, newFunder, evt.NewFunder)
}
