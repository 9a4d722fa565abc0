package cpamm

import (
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/math"
	"github.com/cpammlabs/cpamm-go/cpamm/math/pool_fees"
	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

// SwapBatch tracks how many swap instructions in one atomic batch touch each
// pool. Rate-limited pools admit at most one.
type SwapBatch struct {
	swaps map[solanago.PublicKey]int
}

func NewSwapBatch() *SwapBatch {
	return &SwapBatch{swaps: make(map[solanago.PublicKey]int)}
}

func (b *SwapBatch) register(pool solanago.PublicKey) int {
	b.swaps[pool]++
	return b.swaps[pool]
}

type SwapParams struct {
	Pool           solanago.PublicKey
	Sender         solanago.PublicKey
	TradeDirection shared.TradeDirection
	SwapMode       shared.SwapMode
	// Amount is the included-fee input for ExactIn and PartialFill, the
	// requested output for ExactOut.
	Amount uint64
	// MinimumAmountOut bounds ExactIn and PartialFill swaps.
	MinimumAmountOut uint64
	// MaximumAmountIn bounds ExactOut swaps.
	MaximumAmountIn uint64
	HasReferral     bool
	// Batch is optional. When set, the swap takes part in single-swap
	// admission for rate-limited pools.
	Batch *SwapBatch
}

// Swap prices and commits a trade against the pool.
func (e *Engine) Swap(pool *state.Pool, params SwapParams, clock Clock) (shared.SwapResult2, error) {
	if params.Amount == 0 {
		return shared.SwapResult2{}, ErrAmountIsZero
	}
	if !pool.IsEnabled() {
		return shared.SwapResult2{}, ErrPoolDisabled
	}
	currentPoint, err := clock.CurrentPoint(pool.ActivationType)
	if err != nil {
		return shared.SwapResult2{}, err
	}
	buffer, err := bufferDuration(pool.ActivationType)
	if err != nil {
		return shared.SwapResult2{}, err
	}
	handler := activationHandler{
		currentPoint:     currentPoint,
		activationPoint:  pool.ActivationPoint,
		bufferDuration:   buffer,
		whitelistedVault: pool.WhitelistedVault,
	}
	if err := handler.validateSwap(params.Sender); err != nil {
		return shared.SwapResult2{}, err
	}

	if params.Batch != nil && rateLimiterApplied(pool, currentPoint, params.TradeDirection) {
		if params.Batch.register(params.Pool) > 1 {
			return shared.SwapResult2{}, ErrInvalidRateLimiterDuplicatedSwapInstruction
		}
	}

	if err := pool.UpdatePreSwap(clock.Timestamp); err != nil {
		return shared.SwapResult2{}, fmt.Errorf("update pre swap: %w", err)
	}

	feeMode := math.GetFeeMode(pool.CollectFeeMode, params.TradeDirection, params.HasReferral)
	amount := new(big.Int).SetUint64(params.Amount)
	point := new(big.Int).SetUint64(currentPoint)

	var result shared.SwapResult2
	switch params.SwapMode {
	case shared.SwapModeExactIn:
		result, err = math.GetSwapResultFromExactInput(pool, amount, feeMode, params.TradeDirection, point)
	case shared.SwapModePartialFill:
		result, err = math.GetSwapResultFromPartialInput(pool, amount, feeMode, params.TradeDirection, point)
	case shared.SwapModeExactOut:
		result, err = math.GetSwapResultFromExactOutput(pool, amount, feeMode, params.TradeDirection, point)
	default:
		return shared.SwapResult2{}, ErrInvalidSwapMode
	}
	if err != nil {
		return shared.SwapResult2{}, err
	}

	switch params.SwapMode {
	case shared.SwapModeExactIn, shared.SwapModePartialFill:
		if result.OutputAmount.Cmp(new(big.Int).SetUint64(params.MinimumAmountOut)) < 0 {
			return shared.SwapResult2{}, ErrExceededSlippage
		}
	case shared.SwapModeExactOut:
		if result.IncludedFeeInputAmount.Cmp(new(big.Int).SetUint64(params.MaximumAmountIn)) > 0 {
			return shared.SwapResult2{}, ErrExceededSlippage
		}
	}

	if err := pool.ApplySwapResult(&result, feeMode, clock.Timestamp); err != nil {
		return shared.SwapResult2{}, fmt.Errorf("apply swap result: %w", err)
	}

	e.logger.Debug("swap",
		zap.Stringer("pool", params.Pool),
		zap.Uint8("trade_direction", uint8(params.TradeDirection)),
		zap.Uint8("swap_mode", uint8(params.SwapMode)),
		zap.Uint64("amount", params.Amount),
		zap.String("output_amount", result.OutputAmount.String()),
	)
	e.emit(EvtSwap2{
		Pool:           params.Pool,
		TradeDirection: params.TradeDirection,
		SwapMode:       params.SwapMode,
		HasReferral:    params.HasReferral,
		CurrentPoint:   currentPoint,
		SwapResult:     result,
	})
	return result, nil
}

// rateLimiterApplied reports whether the pool's base fee is a rate limiter
// currently inside its active window for this trade direction.
func rateLimiterApplied(pool *state.Pool, currentPoint uint64, tradeDirection shared.TradeDirection) bool {
	if pool.PoolFees.BaseFee.Mode() != shared.BaseFeeModeRateLimiter {
		return false
	}
	handler, err := pool_fees.GetBaseFeeHandler(pool.PoolFees.BaseFee.Data[:])
	if err != nil {
		return false
	}
	limiter, ok := handler.(pool_fees.FeeRateLimiter)
	if !ok {
		return false
	}
	return pool_fees.IsRateLimiterApplied(
		limiter.ReferenceAmount,
		limiter.MaxLimiterDuration,
		limiter.MaxFeeBps,
		limiter.FeeIncrementBps,
		new(big.Int).SetUint64(currentPoint),
		new(big.Int).SetUint64(pool.ActivationPoint),
		tradeDirection,
	)
}
