package cpamm

import (
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/helpers"
	"github.com/cpammlabs/cpamm-go/cpamm/math"
	"github.com/cpammlabs/cpamm-go/cpamm/math/pool_fees"
	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

// validateBaseFee runs the mode-specific parameter validation for a base fee
// blob and maps a rejection to the matching sentinel.
func validateBaseFee(baseFee state.BaseFeeStruct, collectFeeMode shared.CollectFeeMode, activationType shared.ActivationType, poolVersion shared.PoolVersion) error {
	handler, err := pool_fees.GetBaseFeeHandler(baseFee.Data[:])
	if err != nil {
		return err
	}
	if !handler.Validate(collectFeeMode, activationType, poolVersion) {
		switch baseFee.Mode() {
		case shared.BaseFeeModeRateLimiter:
			return ErrInvalidFeeRateLimiter
		case shared.BaseFeeModeFeeMarketCapSchedulerLinear, shared.BaseFeeModeFeeMarketCapSchedulerExp:
			return ErrInvalidFeeMarketCapScheduler
		default:
			return ErrInvalidFeeScheduler
		}
	}
	return nil
}

// CreateConfig validates and registers a pool creation template. Admin only.
func (e *Engine) CreateConfig(cfg *state.Config, admin solanago.PublicKey) (solanago.PublicKey, error) {
	if !e.auth.IsAdmin(admin) {
		return solanago.PublicKey{}, ErrUnauthorized
	}
	if err := cfg.Validate(); err != nil {
		return solanago.PublicKey{}, err
	}
	if err := validateBaseFee(cfg.PoolFees.BaseFee, cfg.CollectFeeMode, cfg.ActivationType, cfg.PoolVersion()); err != nil {
		return solanago.PublicKey{}, err
	}

	configAddress := helpers.DeriveConfigAddress(cfg.Index)
	e.logger.Debug("create config",
		zap.Stringer("config", configAddress),
		zap.Uint64("index", cfg.Index),
	)
	e.emit(EvtCreateConfig{
		Config:               configAddress,
		VaultConfigKey:       cfg.VaultConfigKey,
		PoolCreatorAuthority: cfg.PoolCreatorAuthority,
		ActivationType:       cfg.ActivationType,
		CollectFeeMode:       cfg.CollectFeeMode,
		Index:                cfg.Index,
	})
	return configAddress, nil
}

type CreatePoolParams struct {
	Creator         solanago.PublicKey
	Payer           solanago.PublicKey
	TokenAMint      solanago.PublicKey
	TokenBMint      solanago.PublicKey
	PositionNftMint solanago.PublicKey
	Liquidity       *big.Int
	SqrtPrice       *big.Int
	// ActivationPoint is optional; nil activates at the current point.
	ActivationPoint *uint64
	TokenAFlag      uint8
	TokenBFlag      uint8
}

type CreatePoolResult struct {
	Pool            *state.Pool
	Position        *state.Position
	PoolAddress     solanago.PublicKey
	PositionAddress solanago.PublicKey
	TokenAAmount    uint64
	TokenBAmount    uint64
}

// CreatePool creates a permissionless pool from a config template, along
// with the creator's initial full-range position.
func (e *Engine) CreatePool(cfg *state.Config, configKey solanago.PublicKey, params CreatePoolParams, clock Clock) (CreatePoolResult, error) {
	if params.Liquidity == nil || params.Liquidity.Sign() <= 0 {
		return CreatePoolResult{}, ErrInvalidMinimumLiquidity
	}
	if params.TokenAMint.Equals(params.TokenBMint) {
		return CreatePoolResult{}, ErrInvalidParameters
	}
	if !cfg.PoolCreatorAuthority.IsZero() && !cfg.PoolCreatorAuthority.Equals(params.Payer) {
		return CreatePoolResult{}, ErrInvalidAuthorityToCreateThePool
	}

	currentPoint, err := clock.CurrentPoint(cfg.ActivationType)
	if err != nil {
		return CreatePoolResult{}, err
	}
	activationPoint := currentPoint
	if params.ActivationPoint != nil {
		if err := validateActivationPoint(*params.ActivationPoint, currentPoint, cfg.ActivationType); err != nil {
			return CreatePoolResult{}, err
		}
		activationPoint = *params.ActivationPoint
	}

	sqrtMinPrice := cfg.SqrtMinPrice.BigInt()
	sqrtMaxPrice := cfg.SqrtMaxPrice.BigInt()
	if params.SqrtPrice.Cmp(sqrtMinPrice) < 0 || params.SqrtPrice.Cmp(sqrtMaxPrice) > 0 {
		return CreatePoolResult{}, ErrInvalidPriceRange
	}

	return e.initializePool(initializePoolArgs{
		poolFees:         cfg.PoolFees,
		configKey:        configKey,
		whitelistedVault: cfg.VaultConfigKey,
		partner:          solanago.PublicKey{},
		sqrtMinPrice:     sqrtMinPrice,
		sqrtMaxPrice:     sqrtMaxPrice,
		activationPoint:  activationPoint,
		activationType:   cfg.ActivationType,
		collectFeeMode:   cfg.CollectFeeMode,
		version:          cfg.Version,
		poolType:         shared.PoolTypePermissionless,
		customizable:     false,
		params:           params,
	})
}

type CustomizablePoolParams struct {
	CreatePoolParams
	PoolFees         state.PoolFeesConfig
	SqrtMinPrice     *big.Int
	SqrtMaxPrice     *big.Int
	ActivationType   shared.ActivationType
	CollectFeeMode   shared.CollectFeeMode
	WhitelistedVault solanago.PublicKey
	Partner          solanago.PublicKey
	Version          uint8
}

// CreateCustomizablePool creates a pool carrying its own fee and activation
// parameters instead of a config template's.
func (e *Engine) CreateCustomizablePool(params CustomizablePoolParams, clock Clock) (CreatePoolResult, error) {
	if params.Liquidity == nil || params.Liquidity.Sign() <= 0 {
		return CreatePoolResult{}, ErrInvalidMinimumLiquidity
	}
	if params.TokenAMint.Equals(params.TokenBMint) {
		return CreatePoolResult{}, ErrInvalidParameters
	}
	switch params.CollectFeeMode {
	case shared.CollectFeeModeBothToken, shared.CollectFeeModeOnlyB:
	default:
		return CreatePoolResult{}, ErrInvalidCollectFeeMode
	}
	if err := params.PoolFees.Validate(); err != nil {
		return CreatePoolResult{}, err
	}
	if err := validateBaseFee(params.PoolFees.BaseFee, params.CollectFeeMode, params.ActivationType, shared.PoolVersion(params.Version)); err != nil {
		return CreatePoolResult{}, err
	}

	sqrtMinPrice, err := state.U128FromBig(params.SqrtMinPrice)
	if err != nil {
		return CreatePoolResult{}, err
	}
	sqrtMaxPrice, err := state.U128FromBig(params.SqrtMaxPrice)
	if err != nil {
		return CreatePoolResult{}, err
	}
	if err := state.ValidatePriceRange(sqrtMinPrice, sqrtMaxPrice); err != nil {
		return CreatePoolResult{}, err
	}

	currentPoint, err := clock.CurrentPoint(params.ActivationType)
	if err != nil {
		return CreatePoolResult{}, err
	}
	activationPoint := currentPoint
	if params.ActivationPoint != nil {
		if err := validateActivationPoint(*params.ActivationPoint, currentPoint, params.ActivationType); err != nil {
			return CreatePoolResult{}, err
		}
		activationPoint = *params.ActivationPoint
	}

	if params.SqrtPrice.Cmp(params.SqrtMinPrice) < 0 || params.SqrtPrice.Cmp(params.SqrtMaxPrice) > 0 {
		return CreatePoolResult{}, ErrInvalidPriceRange
	}

	return e.initializePool(initializePoolArgs{
		poolFees:         params.PoolFees,
		whitelistedVault: params.WhitelistedVault,
		partner:          params.Partner,
		sqrtMinPrice:     params.SqrtMinPrice,
		sqrtMaxPrice:     params.SqrtMaxPrice,
		activationPoint:  activationPoint,
		activationType:   params.ActivationType,
		collectFeeMode:   params.CollectFeeMode,
		version:          params.Version,
		poolType:         shared.PoolTypeCustomizable,
		customizable:     true,
		params:           params.CreatePoolParams,
	})
}

type initializePoolArgs struct {
	poolFees         state.PoolFeesConfig
	configKey        solanago.PublicKey
	whitelistedVault solanago.PublicKey
	partner          solanago.PublicKey
	sqrtMinPrice     *big.Int
	sqrtMaxPrice     *big.Int
	activationPoint  uint64
	activationType   shared.ActivationType
	collectFeeMode   shared.CollectFeeMode
	version          uint8
	poolType         shared.PoolType
	customizable     bool
	params           CreatePoolParams
}

func (e *Engine) initializePool(args initializePoolArgs) (CreatePoolResult, error) {
	amountA, amountB := math.GetInitializeAmounts(args.sqrtMinPrice, args.sqrtMaxPrice, args.params.SqrtPrice, args.params.Liquidity)
	if amountA.Sign() == 0 && amountB.Sign() == 0 {
		return CreatePoolResult{}, ErrAmountIsZero
	}
	tokenAAmount, err := math.ToU64(amountA)
	if err != nil {
		return CreatePoolResult{}, err
	}
	tokenBAmount, err := math.ToU64(amountB)
	if err != nil {
		return CreatePoolResult{}, err
	}

	sqrtMinPrice, err := state.U128FromBig(args.sqrtMinPrice)
	if err != nil {
		return CreatePoolResult{}, err
	}
	sqrtMaxPrice, err := state.U128FromBig(args.sqrtMaxPrice)
	if err != nil {
		return CreatePoolResult{}, err
	}
	sqrtPrice, err := state.U128FromBig(args.params.SqrtPrice)
	if err != nil {
		return CreatePoolResult{}, err
	}
	liquidity, err := state.U128FromBig(args.params.Liquidity)
	if err != nil {
		return CreatePoolResult{}, err
	}

	var poolAddress solanago.PublicKey
	if args.customizable {
		poolAddress = helpers.DeriveCustomizablePoolAddress(args.params.TokenAMint, args.params.TokenBMint)
	} else {
		poolAddress = helpers.DerivePoolAddress(args.configKey, args.params.TokenAMint, args.params.TokenBMint)
	}

	pool := new(state.Pool)
	pool.Initialize(state.InitPoolParams{
		PoolFees:         args.poolFees.ToPoolFeesStruct(sqrtPrice),
		TokenAMint:       args.params.TokenAMint,
		TokenBMint:       args.params.TokenBMint,
		TokenAVault:      helpers.DeriveTokenVaultAddress(args.params.TokenAMint, poolAddress),
		TokenBVault:      helpers.DeriveTokenVaultAddress(args.params.TokenBMint, poolAddress),
		WhitelistedVault: args.whitelistedVault,
		Partner:          args.partner,
		Creator:          args.params.Creator,
		SqrtMinPrice:     sqrtMinPrice,
		SqrtMaxPrice:     sqrtMaxPrice,
		SqrtPrice:        sqrtPrice,
		ActivationPoint:  args.activationPoint,
		ActivationType:   args.activationType,
		TokenAFlag:       args.params.TokenAFlag,
		TokenBFlag:       args.params.TokenBFlag,
		Liquidity:        liquidity,
		CollectFeeMode:   args.collectFeeMode,
		PoolType:         uint8(args.poolType),
		Version:          args.version,
	})

	position := new(state.Position)
	position.InitPosition(poolAddress, args.params.PositionNftMint)
	if err := position.AddLiquidity(args.params.Liquidity); err != nil {
		return CreatePoolResult{}, fmt.Errorf("seed initial position: %w", err)
	}
	pool.Metrics.IncPosition()
	positionAddress := helpers.DerivePositionAddress(args.params.PositionNftMint)

	e.logger.Debug("initialize pool",
		zap.Stringer("pool", poolAddress),
		zap.Stringer("token_a_mint", args.params.TokenAMint),
		zap.Stringer("token_b_mint", args.params.TokenBMint),
		zap.Uint64("activation_point", args.activationPoint),
		zap.Uint64("token_a_amount", tokenAAmount),
		zap.Uint64("token_b_amount", tokenBAmount),
	)
	e.emit(EvtInitializePool{
		Pool:            poolAddress,
		TokenAMint:      args.params.TokenAMint,
		TokenBMint:      args.params.TokenBMint,
		Creator:         args.params.Creator,
		Payer:           args.params.Payer,
		ActivationPoint: args.activationPoint,
		ActivationType:  args.activationType,
		CollectFeeMode:  args.collectFeeMode,
		PoolType:        args.poolType,
		SqrtPrice:       new(big.Int).Set(args.params.SqrtPrice),
		Liquidity:       new(big.Int).Set(args.params.Liquidity),
		TokenAAmount:    tokenAAmount,
		TokenBAmount:    tokenBAmount,
	})
	e.emit(EvtCreatePosition{
		Pool:            poolAddress,
		Position:        positionAddress,
		Owner:           args.params.Creator,
		PositionNftMint: args.params.PositionNftMint,
	})

	return CreatePoolResult{
		Pool:            pool,
		Position:        position,
		PoolAddress:     poolAddress,
		PositionAddress: positionAddress,
		TokenAAmount:    tokenAAmount,
		TokenBAmount:    tokenBAmount,
	}, nil
}
