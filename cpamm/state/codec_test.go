package state

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

func TestU256Codec(t *testing.T) {
	// Accumulators carry values above 2^128, so the full 32-byte word matters.
	value := new(big.Int).Lsh(big.NewInt(12345), shared.LiquidityScale)
	encoded, err := BigToU256(value)
	require.NoError(t, err)
	require.Zero(t, U256ToBig(encoded).Cmp(value))

	// Little-endian layout: low limb first.
	small, err := BigToU256(big.NewInt(0x0102))
	require.NoError(t, err)
	require.Equal(t, uint8(0x02), small[0])
	require.Equal(t, uint8(0x01), small[1])

	_, err = BigToU256(big.NewInt(-1))
	require.Error(t, err)
	_, err = BigToU256(new(big.Int).Lsh(big.NewInt(1), 256))
	require.Error(t, err)
}

func TestU128FromBig(t *testing.T) {
	v, err := U128FromBig(shared.MaxU128)
	require.NoError(t, err)
	require.Zero(t, v.BigInt().Cmp(shared.MaxU128))

	_, err = U128FromBig(new(big.Int).Add(shared.MaxU128, big.NewInt(1)))
	require.Error(t, err)
	_, err = U128FromBig(big.NewInt(-1))
	require.Error(t, err)

	v, err = U128FromBig(nil)
	require.NoError(t, err)
	require.Zero(t, v.BigInt().Sign())
}

func TestPoolCodecRoundTrip(t *testing.T) {
	pool := &Pool{
		Liquidity:       u128(t, new(big.Int).Lsh(big.NewInt(1_000_000), shared.ScaleOffset)),
		SqrtPrice:       u128(t, new(big.Int).Lsh(big.NewInt(3), shared.ScaleOffset)),
		SqrtMinPrice:    u128(t, shared.MinSqrtPrice),
		SqrtMaxPrice:    u128(t, shared.MaxSqrtPrice),
		TokenAMint:      newKey(t, 1),
		TokenBMint:      newKey(t, 2),
		Creator:         newKey(t, 3),
		ActivationPoint: 5000,
		ActivationType:  shared.ActivationTypeSlot,
		PoolStatus:      uint8(shared.PoolStatusEnable),
		CollectFeeMode:  shared.CollectFeeModeOnlyB,
		Version:         uint8(shared.PoolVersionV1),
	}
	acc, err := BigToU256(new(big.Int).Lsh(big.NewInt(7), shared.LiquidityScale))
	require.NoError(t, err)
	pool.FeeAPerLiquidity = acc
	pool.Metrics.TotalLpAFee = u128FromUint64(t, 42)

	data, err := EncodePool(pool)
	require.NoError(t, err)
	decoded, err := DecodePool(data)
	require.NoError(t, err)

	require.Zero(t, decoded.Liquidity.BigInt().Cmp(pool.Liquidity.BigInt()))
	require.Zero(t, decoded.SqrtPrice.BigInt().Cmp(pool.SqrtPrice.BigInt()))
	require.Zero(t, decoded.SqrtMinPrice.BigInt().Cmp(shared.MinSqrtPrice))
	require.Zero(t, decoded.SqrtMaxPrice.BigInt().Cmp(shared.MaxSqrtPrice))
	require.Equal(t, pool.TokenAMint, decoded.TokenAMint)
	require.Equal(t, pool.TokenBMint, decoded.TokenBMint)
	require.Equal(t, pool.Creator, decoded.Creator)
	require.Equal(t, uint64(5000), decoded.ActivationPoint)
	require.Equal(t, pool.PoolStatus, decoded.PoolStatus)
	require.Equal(t, pool.CollectFeeMode, decoded.CollectFeeMode)
	require.Equal(t, pool.Version, decoded.Version)
	require.Equal(t, pool.FeeAPerLiquidity, decoded.FeeAPerLiquidity)
	require.Zero(t, decoded.Metrics.TotalLpAFee.BigInt().Cmp(big.NewInt(42)))
}

func TestPositionCodecRoundTrip(t *testing.T) {
	position := &Position{
		Pool:                     newKey(t, 4),
		NftMint:                  newKey(t, 5),
		UnlockedLiquidity:        u128FromUint64(t, 9999),
		PermanentLockedLiquidity: u128FromUint64(t, 1),
		FeeAPending:              77,
	}
	position.RewardInfos[1].RewardPendings = 88

	data, err := EncodePosition(position)
	require.NoError(t, err)
	decoded, err := DecodePosition(data)
	require.NoError(t, err)

	require.Equal(t, position.Pool, decoded.Pool)
	require.Equal(t, position.NftMint, decoded.NftMint)
	require.Zero(t, decoded.UnlockedLiquidity.BigInt().Cmp(big.NewInt(9999)))
	require.Zero(t, decoded.PermanentLockedLiquidity.BigInt().Cmp(big.NewInt(1)))
	require.Equal(t, uint64(77), decoded.FeeAPending)
	require.Equal(t, uint64(88), decoded.RewardInfos[1].RewardPendings)
}

func TestVestingAndConfigCodecRoundTrip(t *testing.T) {
	vesting := &Vesting{
		Position:             newKey(t, 6),
		CliffPoint:           1100,
		PeriodFrequency:      10,
		CliffUnlockLiquidity: u128FromUint64(t, 400),
		LiquidityPerPeriod:   u128FromUint64(t, 100),
		NumberOfPeriod:       6,
	}
	data, err := EncodeVesting(vesting)
	require.NoError(t, err)
	decodedVesting, err := DecodeVesting(data)
	require.NoError(t, err)
	require.Equal(t, vesting.Position, decodedVesting.Position)
	require.Equal(t, uint64(1100), decodedVesting.CliffPoint)
	require.Equal(t, uint64(10), decodedVesting.PeriodFrequency)
	require.Zero(t, decodedVesting.CliffUnlockLiquidity.BigInt().Cmp(big.NewInt(400)))
	require.Zero(t, decodedVesting.LiquidityPerPeriod.BigInt().Cmp(big.NewInt(100)))
	require.Equal(t, uint16(6), decodedVesting.NumberOfPeriod)

	config := validConfig(t)
	config.Index = 12
	configData, err := EncodeConfig(config)
	require.NoError(t, err)
	decodedConfig, err := DecodeConfig(configData)
	require.NoError(t, err)
	require.Equal(t, config.ActivationType, decodedConfig.ActivationType)
	require.Equal(t, config.CollectFeeMode, decodedConfig.CollectFeeMode)
	require.Equal(t, uint64(12), decodedConfig.Index)
	require.Zero(t, decodedConfig.SqrtMinPrice.BigInt().Cmp(shared.MinSqrtPrice))
	require.NoError(t, decodedConfig.Validate())
}
