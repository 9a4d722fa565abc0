package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		ActivationType: shared.ActivationTypeSlot,
		CollectFeeMode: shared.CollectFeeModeBothToken,
		Version:        uint8(shared.PoolVersionV1),
		SqrtMinPrice:   u128(t, shared.MinSqrtPrice),
		SqrtMaxPrice:   u128(t, shared.MaxSqrtPrice),
		PoolFees: PoolFeesConfig{
			ProtocolFeePercent: 20,
			PartnerFeePercent:  50,
			ReferralFeePercent: 20,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())
	require.Equal(t, shared.PoolVersionV1, cfg.PoolVersion())

	cfg = validConfig(t)
	cfg.ActivationType = 7
	require.ErrorIs(t, cfg.Validate(), ErrInvalidActivationType)

	cfg = validConfig(t)
	cfg.CollectFeeMode = 3
	require.ErrorIs(t, cfg.Validate(), ErrInvalidCollectFeeMode)

	cfg = validConfig(t)
	cfg.PoolFees.ProtocolFeePercent = 101
	require.ErrorIs(t, cfg.Validate(), ErrInvalidFeePercent)

	cfg = validConfig(t)
	cfg.SqrtMinPrice = u128(t, new(big.Int).Sub(shared.MinSqrtPrice, big.NewInt(1)))
	require.ErrorIs(t, cfg.Validate(), ErrInvalidPriceRange)
}

func TestValidatePriceRange(t *testing.T) {
	require.NoError(t, ValidatePriceRange(u128(t, shared.MinSqrtPrice), u128(t, shared.MaxSqrtPrice)))

	// Above the global maximum.
	over := new(big.Int).Add(shared.MaxSqrtPrice, big.NewInt(1))
	require.ErrorIs(t, ValidatePriceRange(u128(t, shared.MinSqrtPrice), u128(t, over)), ErrInvalidPriceRange)

	// Inverted and degenerate ranges.
	mid := new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset)
	require.ErrorIs(t, ValidatePriceRange(u128(t, mid), u128(t, mid)), ErrInvalidPriceRange)
	require.ErrorIs(t, ValidatePriceRange(u128(t, new(big.Int).Add(mid, big.NewInt(1))), u128(t, mid)), ErrInvalidPriceRange)
}

func TestPoolFeesConfigToPoolFeesStruct(t *testing.T) {
	initPrice := u128(t, new(big.Int).Lsh(big.NewInt(2), shared.ScaleOffset))
	cfg := PoolFeesConfig{
		ProtocolFeePercent: 20,
		PartnerFeePercent:  50,
		ReferralFeePercent: 20,
		DynamicFee: DynamicFeeConfig{
			Initialized:              1,
			MaxVolatilityAccumulator: 14_460_000,
			VariableFeeControl:       10_000,
			BinStep:                  1,
			FilterPeriod:             10,
			DecayPeriod:              120,
			ReductionFactor:          5000,
			BinStepU128:              u128FromUint64(t, 1_844_674_407_370_955),
		},
	}
	require.NoError(t, cfg.Validate())

	fees := cfg.ToPoolFeesStruct(initPrice)
	require.Equal(t, uint8(20), fees.ProtocolFeePercent)
	require.Equal(t, uint8(50), fees.PartnerFeePercent)
	require.Equal(t, uint8(20), fees.ReferralFeePercent)
	require.Equal(t, initPrice, fees.InitSqrtPrice)

	// Volatility tracking starts fresh at the initial price.
	require.Equal(t, uint8(1), fees.DynamicFee.Initialized)
	require.Equal(t, initPrice, fees.DynamicFee.SqrtPriceReference)
	require.Zero(t, fees.DynamicFee.VolatilityAccumulator.BigInt().Sign())
	require.Zero(t, fees.DynamicFee.VolatilityReference.BigInt().Sign())
	require.Equal(t, uint16(1), fees.DynamicFee.BinStep)
	require.Equal(t, uint32(10_000), fees.DynamicFee.VariableFeeControl)
}
