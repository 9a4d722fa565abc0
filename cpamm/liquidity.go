package cpamm

import (
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/math"
	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

type AddLiquidityParams struct {
	Pool                  solanago.PublicKey
	Position              solanago.PublicKey
	Owner                 solanago.PublicKey
	LiquidityDelta        *big.Int
	TokenAAmountThreshold uint64
	TokenBAmountThreshold uint64
}

// AddLiquidity settles the position's reward and fee checkpoints at the
// current accumulators, then credits the liquidity delta. Deposit amounts
// round up and are capped by the caller's thresholds.
func (e *Engine) AddLiquidity(pool *state.Pool, position *state.Position, params AddLiquidityParams, clock Clock) (tokenAAmount, tokenBAmount uint64, err error) {
	if params.LiquidityDelta == nil || params.LiquidityDelta.Sign() <= 0 {
		return 0, 0, ErrInvalidParameters
	}
	if err := position.UpdateRewards(pool, clock.Timestamp); err != nil {
		return 0, 0, fmt.Errorf("update rewards: %w", err)
	}

	amountA, amountB := math.GetAmountsForModifyLiquidity(pool, params.LiquidityDelta, shared.RoundingUp)
	if amountA.Sign() == 0 && amountB.Sign() == 0 {
		return 0, 0, ErrAmountIsZero
	}
	tokenAAmount, err = math.ToU64(amountA)
	if err != nil {
		return 0, 0, err
	}
	tokenBAmount, err = math.ToU64(amountB)
	if err != nil {
		return 0, 0, err
	}

	if err := pool.ApplyAddLiquidity(position, params.LiquidityDelta); err != nil {
		return 0, 0, fmt.Errorf("apply add liquidity: %w", err)
	}

	if tokenAAmount > params.TokenAAmountThreshold || tokenBAmount > params.TokenBAmountThreshold {
		return 0, 0, ErrExceededSlippage
	}

	e.logger.Debug("add liquidity",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.String("liquidity_delta", params.LiquidityDelta.String()),
		zap.Uint64("token_a_amount", tokenAAmount),
		zap.Uint64("token_b_amount", tokenBAmount),
	)
	e.emit(EvtAddLiquidity{
		Pool:           params.Pool,
		Position:       params.Position,
		Owner:          params.Owner,
		LiquidityDelta: new(big.Int).Set(params.LiquidityDelta),
		TokenAAmount:   tokenAAmount,
		TokenBAmount:   tokenBAmount,
	})
	return tokenAAmount, tokenBAmount, nil
}

type RemoveLiquidityParams struct {
	Pool                  solanago.PublicKey
	Position              solanago.PublicKey
	Owner                 solanago.PublicKey
	LiquidityDelta        *big.Int
	TokenAAmountThreshold uint64
	TokenBAmountThreshold uint64
}

// RemoveLiquidity withdraws unlocked liquidity. Payout amounts round down and
// must reach the caller's thresholds.
func (e *Engine) RemoveLiquidity(pool *state.Pool, position *state.Position, params RemoveLiquidityParams, clock Clock) (tokenAAmount, tokenBAmount uint64, err error) {
	if params.LiquidityDelta == nil || params.LiquidityDelta.Sign() <= 0 {
		return 0, 0, ErrInvalidParameters
	}
	if err := position.UpdateRewards(pool, clock.Timestamp); err != nil {
		return 0, 0, fmt.Errorf("update rewards: %w", err)
	}

	amountA, amountB := math.GetAmountsForModifyLiquidity(pool, params.LiquidityDelta, shared.RoundingDown)
	tokenAAmount, err = math.ToU64(amountA)
	if err != nil {
		return 0, 0, err
	}
	tokenBAmount, err = math.ToU64(amountB)
	if err != nil {
		return 0, 0, err
	}

	if err := pool.ApplyRemoveLiquidity(position, params.LiquidityDelta); err != nil {
		return 0, 0, fmt.Errorf("apply remove liquidity: %w", err)
	}

	if tokenAAmount < params.TokenAAmountThreshold || tokenBAmount < params.TokenBAmountThreshold {
		return 0, 0, ErrExceededSlippage
	}

	e.logger.Debug("remove liquidity",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.String("liquidity_delta", params.LiquidityDelta.String()),
		zap.Uint64("token_a_amount", tokenAAmount),
		zap.Uint64("token_b_amount", tokenBAmount),
	)
	e.emit(EvtRemoveLiquidity{
		Pool:           params.Pool,
		Position:       params.Position,
		Owner:          params.Owner,
		LiquidityDelta: new(big.Int).Set(params.LiquidityDelta),
		TokenAAmount:   tokenAAmount,
		TokenBAmount:   tokenBAmount,
	})
	return tokenAAmount, tokenBAmount, nil
}

// RemoveAllLiquidity drains the position's unlocked liquidity in one call.
func (e *Engine) RemoveAllLiquidity(pool *state.Pool, position *state.Position, params RemoveLiquidityParams, clock Clock) (tokenAAmount, tokenBAmount uint64, err error) {
	unlocked := position.UnlockedLiquidity.BigInt()
	if unlocked.Sign() == 0 {
		return 0, 0, ErrAmountIsZero
	}
	params.LiquidityDelta = unlocked
	return e.RemoveLiquidity(pool, position, params, clock)
}
