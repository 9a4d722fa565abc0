package state

import (
	"errors"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var (
	ErrInvalidPriceRange      = errors.New("invalid price range")
	ErrInvalidActivationType  = errors.New("invalid activation type")
	ErrInvalidCollectFeeMode  = errors.New("invalid collect fee mode")
	ErrInvalidFeePercent      = errors.New("invalid fee percent")
	ErrInvalidPoolFeesSetting = errors.New("invalid pool fees setting")
)

// DynamicFeeConfig is the immutable volatility fee parameter set stored on a
// config. Pool creation copies it into a DynamicFeeStruct with fresh state.
type DynamicFeeConfig struct {
	Initialized              uint8
	Padding                  [7]uint8
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
	BinStep                  uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	BinStepU128              binary.Uint128
}

// PoolFeesConfig is the fee template a config hands to every pool created
// from it.
type PoolFeesConfig struct {
	BaseFee            BaseFeeStruct
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	Padding0           [5]uint8
	DynamicFee         DynamicFeeConfig
	Padding1           [5]uint64
}

func (c *PoolFeesConfig) Validate() error {
	if c.ProtocolFeePercent > 100 || c.PartnerFeePercent > 100 || c.ReferralFeePercent > 100 {
		return ErrInvalidFeePercent
	}
	return nil
}

// ToPoolFeesStruct copies the template into live pool fee state. Volatility
// tracking starts from zero at the pool's initial price.
func (c *PoolFeesConfig) ToPoolFeesStruct(initSqrtPrice binary.Uint128) PoolFeesStruct {
	return PoolFeesStruct{
		BaseFee:            c.BaseFee,
		ProtocolFeePercent: c.ProtocolFeePercent,
		PartnerFeePercent:  c.PartnerFeePercent,
		ReferralFeePercent: c.ReferralFeePercent,
		DynamicFee: DynamicFeeStruct{
			Initialized:              c.DynamicFee.Initialized,
			MaxVolatilityAccumulator: c.DynamicFee.MaxVolatilityAccumulator,
			VariableFeeControl:       c.DynamicFee.VariableFeeControl,
			BinStep:                  c.DynamicFee.BinStep,
			FilterPeriod:             c.DynamicFee.FilterPeriod,
			DecayPeriod:              c.DynamicFee.DecayPeriod,
			ReductionFactor:          c.DynamicFee.ReductionFactor,
			BinStepU128:              c.DynamicFee.BinStepU128,
			SqrtPriceReference:       initSqrtPrice,
		},
		InitSqrtPrice: initSqrtPrice,
	}
}

// Config is an admin-controlled template for creating pools. A pool stores
// its own copy of the fee parameters, so later config edits never change
// live pool behavior.
type Config struct {
	VaultConfigKey       solana.PublicKey
	PoolCreatorAuthority solana.PublicKey
	PoolFees             PoolFeesConfig
	ActivationType       uint8
	CollectFeeMode       uint8
	Version              uint8
	Padding0             [5]uint8
	SqrtMinPrice         binary.Uint128
	SqrtMaxPrice         binary.Uint128
	Index                uint64
	Padding1             [9]uint64
}

func (c *Config) PoolVersion() shared.PoolVersion {
	return shared.PoolVersion(c.Version)
}

// ValidatePriceRange enforces the global sqrt price bounds and ordering for
// a configurable range.
func ValidatePriceRange(sqrtMinPrice, sqrtMaxPrice binary.Uint128) error {
	minPrice := sqrtMinPrice.BigInt()
	maxPrice := sqrtMaxPrice.BigInt()
	if minPrice.Cmp(shared.MinSqrtPrice) < 0 || maxPrice.Cmp(shared.MaxSqrtPrice) > 0 {
		return ErrInvalidPriceRange
	}
	if minPrice.Cmp(maxPrice) >= 0 {
		return ErrInvalidPriceRange
	}
	return nil
}

// Validate checks the structural parts of a config. Base fee schedule
// validation runs through the fee handlers at creation time.
func (c *Config) Validate() error {
	if c.ActivationType != shared.ActivationTypeSlot && c.ActivationType != shared.ActivationTypeTimestamp {
		return ErrInvalidActivationType
	}
	switch c.CollectFeeMode {
	case shared.CollectFeeModeBothToken, shared.CollectFeeModeOnlyB:
	default:
		return ErrInvalidCollectFeeMode
	}
	if err := c.PoolFees.Validate(); err != nil {
		return err
	}
	return ValidatePriceRange(c.SqrtMinPrice, c.SqrtMaxPrice)
}
