package cpamm

import (
	"errors"

	"github.com/cpammlabs/cpamm-go/cpamm/math"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

// Sentinel errors for every failure the engine can report. Math and state
// level failures surface through the re-exported values below so callers only
// ever match against this package.
var (
	ErrExceededSlippage = errors.New("exceeded slippage tolerance")
	ErrPoolDisabled     = errors.New("pool disabled")

	ErrInvalidFeeMode                = errors.New("invalid fee mode")
	ErrInvalidParameters             = errors.New("invalid parameters")
	ErrInvalidFeeScheduler           = errors.New("invalid fee scheduler parameters")
	ErrInvalidFeeRateLimiter         = errors.New("invalid fee rate limiter parameters")
	ErrInvalidFeeMarketCapScheduler  = errors.New("invalid fee market cap scheduler parameters")
	ErrInvalidActivationPoint        = errors.New("invalid activation point")
	ErrInvalidActivationDuration     = errors.New("invalid activation duration")
	ErrUnableToModifyActivationPoint = errors.New("unable to modify activation point")

	ErrRewardInitialized             = errors.New("reward already initialized")
	ErrInvalidRewardDuration         = errors.New("invalid reward duration")
	ErrIdenticalRewardDuration       = errors.New("new reward duration is identical to current one")
	ErrIdenticalFunder               = errors.New("new funder is identical to current one")
	ErrInvalidRewardVault            = errors.New("invalid reward vault")
	ErrIneligibleReward              = errors.New("reward is not eligible")
	ErrMustWithdrawnIneligibleReward = errors.New("must withdraw ineligible reward before funding")
	ErrRewardNotEnded                = errors.New("reward duration is not ended")
	ErrInvalidFunder                 = errors.New("invalid funder")
	ErrRewardVaultFrozenSkipRequired = errors.New("reward vault frozen, claim must set the skip flag")

	ErrPositionIsNotEmpty              = errors.New("position is not empty")
	ErrInvalidAuthorityToCreateThePool = errors.New("invalid authority to create the pool")
	ErrUnauthorized                    = errors.New("unauthorized")
	ErrInvalidMinimumLiquidity         = errors.New("invalid minimum liquidity")
	ErrUnsupportedVestingSchedule      = errors.New("unsupported vesting schedule")
	ErrInvalidSwapMode                 = errors.New("invalid swap mode")
	ErrSamePosition                    = errors.New("cannot split to the same position")

	// A rate-limited pool admits at most one swap per atomic batch.
	ErrInvalidRateLimiterDuplicatedSwapInstruction = errors.New("rate limiter rejects duplicated swap in one batch")
)

// Failures raised below the engine, aliased so callers can match them here.
var (
	ErrMathOverflow        = math.ErrMathOverflow
	ErrTypeCastFailed      = math.ErrTypeCastFailed
	ErrPriceRangeViolation = math.ErrPriceRangeViolation
	ErrAmountIsZero        = math.ErrAmountIsZero
	ErrSwapDisabled        = math.ErrSwapDisabled
	ErrInvalidFeeNumerator = math.ErrInvalidFeeNumerator

	ErrInvalidVestingInfo             = state.ErrInvalidVestingInfo
	ErrInvalidSplitPositionParameters = state.ErrInvalidSplitPositionParameters
	ErrInsufficientLiquidity          = state.ErrInsufficientUnlockedLiquidity
	ErrInvalidRewardIndex             = state.ErrInvalidRewardIndex
	ErrRewardUninitialized            = state.ErrRewardUninitialized
	ErrInvalidPriceRange              = state.ErrInvalidPriceRange
	ErrInvalidActivationType          = state.ErrInvalidActivationType
	ErrInvalidCollectFeeMode          = state.ErrInvalidCollectFeeMode
	ErrInvalidFeePercent              = state.ErrInvalidFeePercent
	ErrInvalidPoolFeesSetting         = state.ErrInvalidPoolFeesSetting
)
