package helpers

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

func TestEncodeFeeTimeSchedulerBlobLayout(t *testing.T) {
	blob, err := EncodeFeeTimeScheduler(PodAlignedFeeTimeScheduler{
		CliffFeeNumerator: 10_000_000,
		BaseFeeMode:       uint8(shared.BaseFeeModeFeeTimeSchedulerExponential),
		NumberOfPeriod:    144,
		PeriodFrequency:   3600,
		ReductionFactor:   1000,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(10_000_000), binary.LittleEndian.Uint64(blob[0:8]))
	require.Equal(t, uint8(shared.BaseFeeModeFeeTimeSchedulerExponential), blob[8])
	require.Equal(t, uint16(144), binary.LittleEndian.Uint16(blob[14:16]))
	require.Equal(t, uint64(3600), binary.LittleEndian.Uint64(blob[16:24]))
	require.Equal(t, uint64(1000), binary.LittleEndian.Uint64(blob[24:32]))

	decoded, err := DecodeFeeTimeScheduler(blob[:])
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000), decoded.CliffFeeNumerator)
	require.Equal(t, uint16(144), decoded.NumberOfPeriod)
	require.Equal(t, uint64(3600), decoded.PeriodFrequency)
	require.Equal(t, uint64(1000), decoded.ReductionFactor)
}

func TestEncodeFeeRateLimiterBlobLayout(t *testing.T) {
	blob, err := EncodeFeeRateLimiter(PodAlignedFeeRateLimiter{
		CliffFeeNumerator:  10_000_000,
		BaseFeeMode:        uint8(shared.BaseFeeModeRateLimiter),
		FeeIncrementBps:    100,
		MaxLimiterDuration: 600,
		ReferenceAmount:    1_000_000_000,
		MaxFeeBps:          5000,
	})
	require.NoError(t, err)

	require.Equal(t, uint64(10_000_000), binary.LittleEndian.Uint64(blob[0:8]))
	require.Equal(t, uint8(shared.BaseFeeModeRateLimiter), blob[8])
	require.Equal(t, uint16(100), binary.LittleEndian.Uint16(blob[10:12]))
	require.Equal(t, uint32(600), binary.LittleEndian.Uint32(blob[12:16]))
	require.Equal(t, uint64(1_000_000_000), binary.LittleEndian.Uint64(blob[16:24]))
	require.Equal(t, uint64(5000), binary.LittleEndian.Uint64(blob[24:32]))

	decoded, err := DecodeFeeRateLimiter(blob[:])
	require.NoError(t, err)
	require.Equal(t, uint64(1_000_000_000), decoded.ReferenceAmount)
	require.Equal(t, uint64(5000), decoded.MaxFeeBps)
	require.Equal(t, uint32(600), decoded.MaxLimiterDuration)
}

func TestFeeSchedulerParamsRoundTrip(t *testing.T) {
	params := BorshFeeTimeScheduler{
		CliffFeeNumerator: 50_000_000,
		NumberOfPeriod:    30,
		PeriodFrequency:   60,
		ReductionFactor:   500,
		BaseFeeMode:       uint8(shared.BaseFeeModeFeeTimeSchedulerLinear),
	}
	data, err := EncodeFeeTimeSchedulerParams(params)
	require.NoError(t, err)
	decoded, err := DecodeFeeTimeSchedulerParams(data)
	require.NoError(t, err)
	require.Equal(t, params, decoded)

	limiter := BorshFeeRateLimiter{
		CliffFeeNumerator:  10_000_000,
		FeeIncrementBps:    100,
		MaxLimiterDuration: 600,
		ReferenceAmount:    1_000_000_000,
		MaxFeeBps:          5000,
		BaseFeeMode:        uint8(shared.BaseFeeModeRateLimiter),
	}
	limiterData, err := EncodeFeeRateLimiterParams(limiter)
	require.NoError(t, err)
	limiterDecoded, err := DecodeFeeRateLimiterParams(limiterData)
	require.NoError(t, err)
	require.Equal(t, limiter, limiterDecoded)
}

func TestEncodeFeeMarketCapScheduler(t *testing.T) {
	blob, err := EncodeFeeMarketCapScheduler(PodAlignedFeeMarketCapScheduler{
		CliffFeeNumerator:           20_000_000,
		BaseFeeMode:                 uint8(shared.BaseFeeModeFeeMarketCapSchedulerLinear),
		NumberOfPeriod:              10,
		SqrtPriceStepBps:            250,
		SchedulerExpirationDuration: 7200,
		ReductionFactor:             1_000_000,
	})
	require.NoError(t, err)
	require.Equal(t, uint8(shared.BaseFeeModeFeeMarketCapSchedulerLinear), blob[8])

	decoded, err := DecodeFeeMarketCapScheduler(blob[:])
	require.NoError(t, err)
	require.Equal(t, uint32(250), decoded.SqrtPriceStepBps)
	require.Equal(t, uint32(7200), decoded.SchedulerExpirationDuration)
	require.Equal(t, uint64(1_000_000), decoded.ReductionFactor)
}
