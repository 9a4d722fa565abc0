package cpamm

import (
	"fmt"
	"math/big"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/helpers"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

type CreatePositionParams struct {
	Pool            solanago.PublicKey
	Owner           solanago.PublicKey
	PositionNftMint solanago.PublicKey
}

// CreatePosition opens an empty position bound to the pool.
func (e *Engine) CreatePosition(pool *state.Pool, params CreatePositionParams) (*state.Position, solanago.PublicKey, error) {
	if params.PositionNftMint.IsZero() {
		return nil, solanago.PublicKey{}, ErrInvalidParameters
	}
	position := new(state.Position)
	position.InitPosition(params.Pool, params.PositionNftMint)
	pool.Metrics.IncPosition()

	positionAddress := helpers.DerivePositionAddress(params.PositionNftMint)
	e.logger.Debug("create position",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", positionAddress),
		zap.Stringer("owner", params.Owner),
	)
	e.emit(EvtCreatePosition{
		Pool:            params.Pool,
		Position:        positionAddress,
		Owner:           params.Owner,
		PositionNftMint: params.PositionNftMint,
	})
	return position, positionAddress, nil
}

type ClosePositionParams struct {
	Pool     solanago.PublicKey
	Position solanago.PublicKey
	Owner    solanago.PublicKey
}

// ClosePosition retires a position. Liquidity and pending claims must all be
// zero.
func (e *Engine) ClosePosition(pool *state.Pool, position *state.Position, params ClosePositionParams) error {
	if !position.IsEmpty() {
		return ErrPositionIsNotEmpty
	}
	if err := pool.Metrics.DecPosition(); err != nil {
		return fmt.Errorf("dec position metric: %w", err)
	}
	e.logger.Debug("close position",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
	)
	e.emit(EvtClosePosition{
		Pool:            params.Pool,
		Position:        params.Position,
		Owner:           params.Owner,
		PositionNftMint: position.NftMint,
	})
	return nil
}

type ClaimPositionFeeParams struct {
	Pool     solanago.PublicKey
	Position solanago.PublicKey
	Owner    solanago.PublicKey
}

// ClaimPositionFee settles the position against the pool fee accumulators and
// drains both pending fee balances.
func (e *Engine) ClaimPositionFee(pool *state.Pool, position *state.Position, params ClaimPositionFeeParams) (feeA, feeB uint64, err error) {
	if err := position.UpdateFee(state.U256ToBig(pool.FeeAPerLiquidity), state.U256ToBig(pool.FeeBPerLiquidity)); err != nil {
		return 0, 0, fmt.Errorf("update fee: %w", err)
	}
	feeA, feeB = position.ClaimFee()

	e.logger.Debug("claim position fee",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.Uint64("fee_a", feeA),
		zap.Uint64("fee_b", feeB),
	)
	e.emit(EvtClaimPositionFee{
		Pool:        params.Pool,
		Position:    params.Position,
		Owner:       params.Owner,
		FeeAClaimed: feeA,
		FeeBClaimed: feeB,
	})
	return feeA, feeB, nil
}

type PermanentLockParams struct {
	Pool                   solanago.PublicKey
	Position               solanago.PublicKey
	PermanentLockLiquidity *big.Int
}

// PermanentLockPosition moves unlocked liquidity into the permanent lock,
// both on the position and in the pool aggregate.
func (e *Engine) PermanentLockPosition(pool *state.Pool, position *state.Position, params PermanentLockParams) error {
	if params.PermanentLockLiquidity == nil || params.PermanentLockLiquidity.Sign() <= 0 {
		return ErrInvalidParameters
	}
	if err := position.PermanentLock(params.PermanentLockLiquidity); err != nil {
		return err
	}
	if err := pool.AccumulatePermanentLockedLiquidity(params.PermanentLockLiquidity); err != nil {
		return fmt.Errorf("accumulate permanent locked liquidity: %w", err)
	}
	e.logger.Debug("permanent lock position",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.String("liquidity", params.PermanentLockLiquidity.String()),
	)
	e.emit(EvtPermanentLockPosition{
		Pool:                        params.Pool,
		Position:                    params.Position,
		LockLiquidityAmount:         new(big.Int).Set(params.PermanentLockLiquidity),
		TotalPermanentLockLiquidity: position.PermanentLockedLiquidity.BigInt(),
	})
	return nil
}
