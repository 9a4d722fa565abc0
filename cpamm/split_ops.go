package cpamm

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

type SplitPositionParams struct {
	Pool           solanago.PublicKey
	FirstPosition  solanago.PublicKey
	SecondPosition solanago.PublicKey
	FirstOwner     solanago.PublicKey
	SecondOwner    solanago.PublicKey
	Parameters     state.SplitPositionParameters2
}

// SplitPosition moves fractions of the first position's liquidity, pending
// fees and pending rewards into the second position. Fractions are numerators
// over the split denominator. Vested liquidity cannot be split.
func (e *Engine) SplitPosition(pool *state.Pool, first, second *state.Position, params SplitPositionParams, clock Clock) (state.SplitAmountInfo, error) {
	if params.FirstPosition == params.SecondPosition {
		return state.SplitAmountInfo{}, ErrSamePosition
	}
	if err := params.Parameters.Validate(); err != nil {
		return state.SplitAmountInfo{}, err
	}
	if first.VestedLiquidity.BigInt().Sign() != 0 {
		return state.SplitAmountInfo{}, ErrUnsupportedVestingSchedule
	}

	// Settle both positions at the current accumulators so the split moves
	// fully realized pendings.
	if err := pool.UpdateRewards(clock.Timestamp); err != nil {
		return state.SplitAmountInfo{}, fmt.Errorf("update pool rewards: %w", err)
	}
	for _, position := range []*state.Position{first, second} {
		if err := position.UpdatePositionReward(pool); err != nil {
			return state.SplitAmountInfo{}, fmt.Errorf("update position reward: %w", err)
		}
		if err := position.UpdateFee(state.U256ToBig(pool.FeeAPerLiquidity), state.U256ToBig(pool.FeeBPerLiquidity)); err != nil {
			return state.SplitAmountInfo{}, fmt.Errorf("update position fee: %w", err)
		}
	}

	amounts, err := pool.ApplySplitPosition(first, second, params.Parameters)
	if err != nil {
		return state.SplitAmountInfo{}, err
	}

	e.logger.Debug("split position",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("first_position", params.FirstPosition),
		zap.Stringer("second_position", params.SecondPosition),
		zap.String("unlocked_liquidity", amounts.UnlockedLiquidity.String()),
	)
	e.emit(EvtSplitPosition{
		Pool:             params.Pool,
		FirstOwner:       params.FirstOwner,
		SecondOwner:      params.SecondOwner,
		FirstPosition:    params.FirstPosition,
		SecondPosition:   params.SecondPosition,
		Amounts:          amounts,
		CurrentSqrtPrice: pool.SqrtPrice.BigInt(),
		Parameters:       params.Parameters,
	})
	return amounts, nil
}

// SplitPositionByPercentage is the whole-percentage form. Percentages are
// lowered onto the numerator form before applying.
func (e *Engine) SplitPositionByPercentage(pool *state.Pool, first, second *state.Position, params SplitPositionParams, percentages state.SplitPositionParameters, clock Clock) (state.SplitAmountInfo, error) {
	if err := percentages.Validate(); err != nil {
		return state.SplitAmountInfo{}, err
	}
	params.Parameters = percentages.ToNumerators()
	return e.SplitPosition(pool, first, second, params, clock)
}
