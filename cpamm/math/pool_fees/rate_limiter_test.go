package pool_fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

const (
	rlReferenceAmount = 1_000_000_000 // 1 SOL
	rlCliffNumerator  = 10_000_000    // 100 bps
	rlMaxFeeBps       = 5000
	rlFeeIncrementBps = 100
)

func rateLimiterFeeBps(t *testing.T, inputAmount uint64) int64 {
	t.Helper()
	numerator, err := GetFeeNumeratorFromIncludedFeeAmount(
		new(big.Int).SetUint64(inputAmount),
		big.NewInt(rlReferenceAmount),
		big.NewInt(rlCliffNumerator),
		rlMaxFeeBps,
		rlFeeIncrementBps,
	)
	require.NoError(t, err)
	bps := new(big.Int).Mul(numerator, big.NewInt(shared.BasisPointMax))
	return bps.Div(bps, big.NewInt(shared.FeeDenominator)).Int64()
}

func TestRateLimiterFeeNumerator(t *testing.T) {
	// Up to the reference amount the cliff fee applies unchanged.
	require.Equal(t, int64(100), rateLimiterFeeBps(t, rlReferenceAmount))
	require.Equal(t, int64(100), rateLimiterFeeBps(t, 1))

	// Each full reference chunk past the first pays one increment more,
	// so the blended fee creeps up with size.
	require.Equal(t, int64(133), rateLimiterFeeBps(t, rlReferenceAmount*3/2))
	require.Equal(t, int64(150), rateLimiterFeeBps(t, rlReferenceAmount*2))
	require.Equal(t, int64(200), rateLimiterFeeBps(t, rlReferenceAmount*3))
	require.Equal(t, int64(250), rateLimiterFeeBps(t, rlReferenceAmount*4))

	// Arbitrarily large trades cap at the max fee.
	require.Equal(t, int64(rlMaxFeeBps), rateLimiterFeeBps(t, ^uint64(0)))
}

// Larger inputs must never produce a smaller output, otherwise routers
// would split one trade into many to dodge the limiter.
func TestRateLimiterRoutingFriendly(t *testing.T) {
	output := func(inputAmount *big.Int) *big.Int {
		numerator, err := GetFeeNumeratorFromIncludedFeeAmount(
			inputAmount, big.NewInt(rlReferenceAmount), big.NewInt(rlCliffNumerator), rlMaxFeeBps, rlFeeIncrementBps)
		require.NoError(t, err)
		fee := mulDiv(inputAmount, numerator, big.NewInt(shared.FeeDenominator), shared.RoundingUp)
		return new(big.Int).Sub(inputAmount, fee)
	}

	input := big.NewInt(rlReferenceAmount - 10)
	prev := output(input)
	for i := 0; i < 500; i++ {
		input = new(big.Int).Add(input, big.NewInt(rlReferenceAmount/2))
		cur := output(input)
		require.Greater(t, cur.Cmp(prev), 0)
		prev = cur
	}
}

func TestRateLimiterExcludedFeeAmountMonotone(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		excluded := rapid.Uint64Range(1, 1<<60).Draw(t, "excludedFeeAmount")
		numerator, err := GetFeeNumeratorFromExcludedFeeAmount(
			new(big.Int).SetUint64(excluded),
			big.NewInt(rlReferenceAmount),
			big.NewInt(rlCliffNumerator),
			rlMaxFeeBps,
			rlFeeIncrementBps,
		)
		require.NoError(t, err)
		require.GreaterOrEqual(t, numerator.Cmp(big.NewInt(rlCliffNumerator)), 0)
		require.LessOrEqual(t, numerator.Cmp(toNumerator(big.NewInt(rlMaxFeeBps))), 0)
	})
}

func TestIsRateLimiterApplied(t *testing.T) {
	ref := big.NewInt(rlReferenceAmount)
	activation := big.NewInt(1000)

	applied := func(currentPoint int64, dir shared.TradeDirection) bool {
		return IsRateLimiterApplied(ref, 60, rlMaxFeeBps, rlFeeIncrementBps, big.NewInt(currentPoint), activation, dir)
	}

	require.True(t, applied(1000, shared.TradeDirectionBtoA))
	require.True(t, applied(1060, shared.TradeDirectionBtoA))
	require.False(t, applied(1061, shared.TradeDirectionBtoA))
	require.False(t, applied(999, shared.TradeDirectionBtoA))
	require.False(t, applied(1000, shared.TradeDirectionAtoB))

	// A fully zeroed limiter never applies.
	require.False(t, IsRateLimiterApplied(big.NewInt(0), 0, 0, 0, big.NewInt(1000), activation, shared.TradeDirectionBtoA))
}

func TestGetMaxIndex(t *testing.T) {
	maxIndex, err := GetMaxIndex(rlMaxFeeBps, big.NewInt(rlCliffNumerator), rlFeeIncrementBps)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(49), maxIndex)

	_, err = GetMaxIndex(100, big.NewInt(500_000_000), rlFeeIncrementBps)
	require.Error(t, err)

	_, err = GetMaxIndex(rlMaxFeeBps, big.NewInt(rlCliffNumerator), 0)
	require.Error(t, err)
}
