package pool_fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestGetDynamicFeeNumerator(t *testing.T) {
	// No volatility, no surcharge.
	require.Zero(t, GetDynamicFeeNumerator(big.NewInt(0), big.NewInt(1), big.NewInt(10_000)).Sign())

	// (10_000 * 1)^2 * 10_000 = 1e12; scaled down by 1e11 with round-up.
	require.Equal(t, big.NewInt(10),
		GetDynamicFeeNumerator(big.NewInt(10_000), big.NewInt(1), big.NewInt(10_000)))

	// Any non-zero product rounds up to at least one.
	require.Equal(t, big.NewInt(1),
		GetDynamicFeeNumerator(big.NewInt(1), big.NewInt(1), big.NewInt(1)))
}

func TestGetDynamicFeeNumeratorGrowsWithVolatility(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		vfa := rapid.Uint32Range(0, 10_000_000).Draw(t, "volatilityAccumulator")
		binStep := rapid.Uint16Range(1, 400).Draw(t, "binStep")
		control := rapid.Uint32Range(1, 5_000_000).Draw(t, "variableFeeControl")

		cur := GetDynamicFeeNumerator(big.NewInt(int64(vfa)), big.NewInt(int64(binStep)), big.NewInt(int64(control)))
		next := GetDynamicFeeNumerator(big.NewInt(int64(vfa)+1), big.NewInt(int64(binStep)), big.NewInt(int64(control)))
		require.GreaterOrEqual(t, next.Cmp(cur), 0)
	})
}
