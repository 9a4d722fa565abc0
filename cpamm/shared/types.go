package shared

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// Enums and common types shared by math/pool_fees, state and the engine.
type Rounding uint8

const (
	RoundingUp   Rounding = 0
	RoundingDown Rounding = 1
)

type BaseFeeMode uint8

const (
	BaseFeeModeFeeTimeSchedulerLinear      BaseFeeMode = 0
	BaseFeeModeFeeTimeSchedulerExponential BaseFeeMode = 1
	BaseFeeModeRateLimiter                 BaseFeeMode = 2
	BaseFeeModeFeeMarketCapSchedulerLinear BaseFeeMode = 3
	BaseFeeModeFeeMarketCapSchedulerExp    BaseFeeMode = 4
)

type CollectFeeMode = uint8

const (
	CollectFeeModeBothToken CollectFeeMode = 0
	CollectFeeModeOnlyA     CollectFeeMode = 1
	CollectFeeModeOnlyB     CollectFeeMode = 2
)

type TradeDirection uint8

const (
	TradeDirectionAtoB TradeDirection = 0
	TradeDirectionBtoA TradeDirection = 1
)

type ActivationType = uint8

const (
	ActivationTypeSlot      ActivationType = 0
	ActivationTypeTimestamp ActivationType = 1
)

type PoolVersion uint8

const (
	PoolVersionV0 PoolVersion = 0
	PoolVersionV1 PoolVersion = 1
)

type PoolStatus uint8

const (
	PoolStatusEnable  PoolStatus = 0
	PoolStatusDisable PoolStatus = 1
)

type PoolType uint8

const (
	PoolTypePermissionless PoolType = 0
	PoolTypeCustomizable   PoolType = 1
)

type SwapMode uint8

const (
	SwapModeExactIn     SwapMode = 0
	SwapModePartialFill SwapMode = 1
	SwapModeExactOut    SwapMode = 2
)

// FeeMode describes which token leg carries the trading fee for a swap.
type FeeMode struct {
	FeesOnInput  bool
	FeesOnTokenA bool
	HasReferral  bool
}

type FeeOnAmountResult struct {
	FeeNumerator   *big.Int
	FeeAmount      *big.Int
	AmountAfterFee *big.Int
	TradingFee     *big.Int
	ProtocolFee    *big.Int
	PartnerFee     *big.Int
	ReferralFee    *big.Int
}

// SplitFees is the four-way cut of a trading fee. TradingFee is the LP share.
type SplitFees struct {
	TradingFee  *big.Int
	ProtocolFee *big.Int
	ReferralFee *big.Int
	PartnerFee  *big.Int
}

type SwapResult2 struct {
	IncludedFeeInputAmount *big.Int
	ExcludedFeeInputAmount *big.Int
	AmountLeft             *big.Int
	OutputAmount           *big.Int
	NextSqrtPrice          *big.Int
	TradingFee             *big.Int
	ProtocolFee            *big.Int
	PartnerFee             *big.Int
	ReferralFee            *big.Int
}

type Quote2Result struct {
	SwapResult2
	MinimumAmountOut *big.Int
	MaximumAmountIn  *big.Int
	PriceImpact      decimal.Decimal
}

// BaseFeeHandler is the single dispatch point over the base fee variants:
// time scheduler (linear/exponential), market-cap scheduler and rate limiter.
type BaseFeeHandler interface {
	Validate(collectFeeMode CollectFeeMode, activationType ActivationType, poolVersion PoolVersion) bool
	GetBaseFeeNumeratorFromIncludedFeeAmount(currentPoint, activationPoint *big.Int, tradeDirection TradeDirection, includedFeeAmount *big.Int, initSqrtPrice, currentSqrtPrice *big.Int) (*big.Int, error)
	GetBaseFeeNumeratorFromExcludedFeeAmount(currentPoint, activationPoint *big.Int, tradeDirection TradeDirection, excludedFeeAmount *big.Int, initSqrtPrice, currentSqrtPrice *big.Int) (*big.Int, error)
	ValidateBaseFeeIsStatic(currentPoint, activationPoint *big.Int) bool
	GetMinFeeNumerator() *big.Int
	GetMaxFeeNumerator() (*big.Int, error)
}

const (
	BasisPointMax  = 10_000
	FeeDenominator = 1_000_000_000

	MinFeeNumerator = 100_000

	MaxFeeBpsV0       = 5000
	MaxFeeNumeratorV0 = 500_000_000

	MaxFeeBpsV1       = 9900
	MaxFeeNumeratorV1 = 990_000_000

	ScaleOffset    = 64
	LiquidityScale = 128

	U16Max = 65535
	U24Max = 0xFFFFFF

	NumRewards = 2

	MinRewardDuration = 3600
	MaxRewardDuration = 31536000

	MaxRateLimiterDurationInSeconds = 43_200
	MaxRateLimiterDurationInSlots   = 108_000

	SplitPositionDenominator = 1_000_000_000

	// Activation scheduling buffers, in the unit of the activation type.
	SlotBuffer = 9000
	TimeBuffer = 3600

	MaxActivationSlotDuration = SlotBuffer * 31
	MaxActivationTimeDuration = TimeBuffer * 24 * 31

	DynamicFeeFilterPeriodDefault    = 10
	DynamicFeeDecayPeriodDefault     = 120
	DynamicFeeReductionFactorDefault = 5000
	BinStepBpsDefault                = 1
	MaxPriceChangeBpsDefault         = 1500
)

var (
	OneQ64         = new(big.Int).Lsh(big.NewInt(1), ScaleOffset)
	MaxExponential = big.NewInt(0x80000)
	MaxU128        = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	U64Max         = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))

	MinSqrtPrice = mustBig("4295048016")
	MaxSqrtPrice = mustBig("79226673521066979257578248091")

	// Hard cap on aggregate pool liquidity, u128::MAX / 10^10.
	LiquidityMax = mustBig("34028236692093846346337460743")

	DynamicFeeScalingFactor  = big.NewInt(100_000_000_000)
	DynamicFeeRoundingOffset = big.NewInt(99_999_999_999)

	BinStepBpsU128Default = mustBig("1844674407370955")
)

func mustBig(v string) *big.Int {
	out, ok := new(big.Int).SetString(v, 10)
	if !ok {
		panic("invalid big integer literal")
	}
	return out
}
