package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func uptr(v uint64) *uint64 { return &v }

func TestVestingParametersValidate(t *testing.T) {
	valid := VestingParameters{
		CliffPoint:           uptr(1100),
		PeriodFrequency:      10,
		CliffUnlockLiquidity: big.NewInt(400),
		LiquidityPerPeriod:   big.NewInt(100),
		NumberOfPeriod:       6,
	}
	require.NoError(t, valid.Validate(1000, 10_000))
	require.Equal(t, big.NewInt(1000), valid.GetTotalLockAmount())

	// Cliff in the past.
	bad := valid
	bad.CliffPoint = uptr(900)
	require.ErrorIs(t, bad.Validate(1000, 10_000), ErrInvalidVestingInfo)

	// Periods without a frequency.
	bad = valid
	bad.PeriodFrequency = 0
	require.ErrorIs(t, bad.Validate(1000, 10_000), ErrInvalidVestingInfo)

	// Periods without per-period liquidity.
	bad = valid
	bad.LiquidityPerPeriod = big.NewInt(0)
	require.ErrorIs(t, bad.Validate(1000, 10_000), ErrInvalidVestingInfo)

	// Schedule longer than the allowed horizon.
	bad = valid
	bad.PeriodFrequency = 2000
	require.ErrorIs(t, bad.Validate(1000, 10_000), ErrInvalidVestingInfo)

	// Nothing to lock.
	bad = valid
	bad.CliffUnlockLiquidity = big.NewInt(0)
	bad.LiquidityPerPeriod = big.NewInt(0)
	bad.NumberOfPeriod = 0
	bad.PeriodFrequency = 0
	require.ErrorIs(t, bad.Validate(1000, 10_000), ErrInvalidVestingInfo)

	// Nil cliff point means the schedule starts now.
	noCliff := valid
	noCliff.CliffPoint = nil
	require.Equal(t, uint64(1000), noCliff.GetCliffPoint(1000))
	require.NoError(t, noCliff.Validate(1000, 10_000))
}

func newVesting(t *testing.T) *Vesting {
	t.Helper()
	vesting := &Vesting{}
	require.NoError(t, vesting.Initialize(
		newKey(t, 9), 1100, 10, big.NewInt(400), big.NewInt(100), 6,
	))
	return vesting
}

func TestVestingSchedule(t *testing.T) {
	vesting := newVesting(t)
	require.Equal(t, big.NewInt(1000), vesting.TotalLockedLiquidity())

	// Nothing matures before the cliff.
	require.Zero(t, vesting.GetMaxUnlockedLiquidity(1099).Sign())

	// At the cliff the cliff amount matures.
	require.Equal(t, big.NewInt(400), vesting.GetMaxUnlockedLiquidity(1100))

	// One slice per elapsed period after it.
	require.Equal(t, big.NewInt(400), vesting.GetMaxUnlockedLiquidity(1109))
	require.Equal(t, big.NewInt(500), vesting.GetMaxUnlockedLiquidity(1110))
	require.Equal(t, big.NewInt(700), vesting.GetMaxUnlockedLiquidity(1135))

	// Capped at the schedule total regardless of how late it is.
	require.Equal(t, big.NewInt(1000), vesting.GetMaxUnlockedLiquidity(1160))
	require.Equal(t, big.NewInt(1000), vesting.GetMaxUnlockedLiquidity(1_000_000))
}

func TestVestingRelease(t *testing.T) {
	vesting := newVesting(t)

	release := vesting.GetNewReleaseLiquidity(1120)
	require.Equal(t, big.NewInt(600), release)
	require.NoError(t, vesting.AccumulateReleasedLiquidity(release))
	require.False(t, vesting.Done())

	// Refreshing at the same point releases nothing further.
	require.Zero(t, vesting.GetNewReleaseLiquidity(1120).Sign())

	release = vesting.GetNewReleaseLiquidity(1160)
	require.Equal(t, big.NewInt(400), release)
	require.NoError(t, vesting.AccumulateReleasedLiquidity(release))
	require.True(t, vesting.Done())
	require.Zero(t, vesting.GetNewReleaseLiquidity(1_000_000).Sign())
}
