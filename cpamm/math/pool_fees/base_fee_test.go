package pool_fees

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/helpers"
	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

func TestGetBaseFeeHandlerDispatch(t *testing.T) {
	blob, err := helpers.EncodeFeeTimeScheduler(helpers.PodAlignedFeeTimeScheduler{
		CliffFeeNumerator: 10_000_000,
		BaseFeeMode:       uint8(shared.BaseFeeModeFeeTimeSchedulerLinear),
		NumberOfPeriod:    10,
		PeriodFrequency:   10,
		ReductionFactor:   500_000,
	})
	require.NoError(t, err)

	handler, err := GetBaseFeeHandler(blob[:])
	require.NoError(t, err)
	scheduler, ok := handler.(FeeTimeScheduler)
	require.True(t, ok)
	require.Equal(t, big.NewInt(10_000_000), scheduler.CliffFeeNumerator)
	require.Equal(t, uint16(10), scheduler.NumberOfPeriod)
	require.Equal(t, big.NewInt(5_000_000), scheduler.GetMinFeeNumerator())

	blob, err = helpers.EncodeFeeRateLimiter(helpers.PodAlignedFeeRateLimiter{
		CliffFeeNumerator:  10_000_000,
		BaseFeeMode:        uint8(shared.BaseFeeModeRateLimiter),
		FeeIncrementBps:    100,
		MaxLimiterDuration: 60,
		ReferenceAmount:    1_000_000_000,
		MaxFeeBps:          5000,
	})
	require.NoError(t, err)

	handler, err = GetBaseFeeHandler(blob[:])
	require.NoError(t, err)
	limiter, ok := handler.(FeeRateLimiter)
	require.True(t, ok)
	require.Equal(t, big.NewInt(1_000_000_000), limiter.ReferenceAmount)
	require.Equal(t, uint32(60), limiter.MaxLimiterDuration)
	require.Equal(t, uint16(5000), limiter.MaxFeeBps)

	_, err = GetBaseFeeHandler([]byte{0, 1, 2})
	require.Error(t, err)

	bad := blob
	bad[8] = 99
	_, err = GetBaseFeeHandler(bad[:])
	require.Error(t, err)
}

func TestFeeRateLimiterHandlerFallsBackToCliff(t *testing.T) {
	limiter := FeeRateLimiter{
		CliffFeeNumerator:  big.NewInt(10_000_000),
		FeeIncrementBps:    100,
		MaxFeeBps:          5000,
		MaxLimiterDuration: 60,
		ReferenceAmount:    big.NewInt(1_000_000_000),
	}

	// Base-to-quote trades bypass the limiter entirely.
	numerator, err := limiter.GetBaseFeeNumeratorFromIncludedFeeAmount(
		big.NewInt(0), big.NewInt(0), shared.TradeDirectionAtoB, big.NewInt(2_000_000_000), nil, nil)
	require.NoError(t, err)
	require.Equal(t, limiter.CliffFeeNumerator, numerator)

	// So do trades past the last effective point.
	numerator, err = limiter.GetBaseFeeNumeratorFromIncludedFeeAmount(
		big.NewInt(61), big.NewInt(0), shared.TradeDirectionBtoA, big.NewInt(2_000_000_000), nil, nil)
	require.NoError(t, err)
	require.Equal(t, limiter.CliffFeeNumerator, numerator)

	// Inside the window the size-scaled fee applies.
	numerator, err = limiter.GetBaseFeeNumeratorFromIncludedFeeAmount(
		big.NewInt(30), big.NewInt(0), shared.TradeDirectionBtoA, big.NewInt(2_000_000_000), nil, nil)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(15_000_000), numerator)
}

func TestValidateFeeRateLimiter(t *testing.T) {
	valid := func(mutate func(*FeeRateLimiter)) bool {
		limiter := FeeRateLimiter{
			CliffFeeNumerator:  big.NewInt(100_000),
			FeeIncrementBps:    10,
			MaxFeeBps:          5000,
			MaxLimiterDuration: 60,
			ReferenceAmount:    big.NewInt(1_000_000_000),
		}
		if mutate != nil {
			mutate(&limiter)
		}
		return limiter.Validate(shared.CollectFeeModeOnlyB, shared.ActivationTypeSlot, shared.PoolVersionV1)
	}

	require.True(t, valid(nil))

	limiter := FeeRateLimiter{
		CliffFeeNumerator:  big.NewInt(100_000),
		FeeIncrementBps:    10,
		MaxFeeBps:          5000,
		MaxLimiterDuration: 60,
		ReferenceAmount:    big.NewInt(1_000_000_000),
	}
	require.False(t, limiter.Validate(shared.CollectFeeModeBothToken, shared.ActivationTypeSlot, shared.PoolVersionV1))

	// Partially zeroed limiters are rejected; fully zeroed ones degrade to
	// a flat fee and pass.
	require.False(t, valid(func(f *FeeRateLimiter) { f.MaxLimiterDuration = 0 }))
	require.False(t, valid(func(f *FeeRateLimiter) { f.ReferenceAmount = big.NewInt(0) }))
	require.True(t, valid(func(f *FeeRateLimiter) {
		f.ReferenceAmount = big.NewInt(0)
		f.MaxLimiterDuration = 0
		f.MaxFeeBps = 0
		f.FeeIncrementBps = 0
	}))

	require.False(t, valid(func(f *FeeRateLimiter) { f.CliffFeeNumerator = big.NewInt(shared.MinFeeNumerator - 1) }))
	require.False(t, valid(func(f *FeeRateLimiter) { f.CliffFeeNumerator = big.NewInt(shared.MaxFeeNumeratorV1 + 1) }))
}

func TestValidateFeeTimeScheduler(t *testing.T) {
	require.True(t, ValidateFeeTimeScheduler(
		10, big.NewInt(10), big.NewInt(500_000), big.NewInt(10_000_000),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV1))

	// Flat fee: all decay parameters zero.
	require.True(t, ValidateFeeTimeScheduler(
		0, big.NewInt(0), big.NewInt(0), big.NewInt(10_000_000),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV1))

	// Partially parameterized schedulers are rejected.
	require.False(t, ValidateFeeTimeScheduler(
		10, big.NewInt(0), big.NewInt(500_000), big.NewInt(10_000_000),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV1))
	require.False(t, ValidateFeeTimeScheduler(
		0, big.NewInt(10), big.NewInt(500_000), big.NewInt(10_000_000),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV1))

	// A schedule decaying below the min fee is rejected.
	require.False(t, ValidateFeeTimeScheduler(
		20, big.NewInt(10), big.NewInt(500_000), big.NewInt(10_000_000),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV1))

	// A cliff above the version cap is rejected.
	require.False(t, ValidateFeeTimeScheduler(
		0, big.NewInt(0), big.NewInt(0), big.NewInt(shared.MaxFeeNumeratorV0+1),
		shared.BaseFeeModeFeeTimeSchedulerLinear, shared.PoolVersionV0))
}
