package cpamm

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

type LockPositionParams struct {
	Pool     solanago.PublicKey
	Position solanago.PublicKey
	Owner    solanago.PublicKey
	Vesting  solanago.PublicKey
	Schedule state.VestingParameters
}

// LockPosition moves unlocked liquidity into a vesting schedule. The schedule
// releases a cliff amount at the cliff point and a fixed amount per period
// after it.
func (e *Engine) LockPosition(pool *state.Pool, position *state.Position, params LockPositionParams, clock Clock) (*state.Vesting, error) {
	currentPoint, err := clock.CurrentPoint(pool.ActivationType)
	if err != nil {
		return nil, err
	}
	maxDuration, err := MaxVestingDuration(pool.ActivationType)
	if err != nil {
		return nil, err
	}
	if err := params.Schedule.Validate(currentPoint, maxDuration); err != nil {
		return nil, err
	}

	totalLock := params.Schedule.GetTotalLockAmount()
	if err := position.Lock(totalLock); err != nil {
		return nil, err
	}

	cliffPoint := params.Schedule.GetCliffPoint(currentPoint)
	vesting := new(state.Vesting)
	if err := vesting.Initialize(
		params.Position,
		cliffPoint,
		params.Schedule.PeriodFrequency,
		params.Schedule.CliffUnlockLiquidity,
		params.Schedule.LiquidityPerPeriod,
		params.Schedule.NumberOfPeriod,
	); err != nil {
		return nil, fmt.Errorf("initialize vesting: %w", err)
	}

	e.logger.Debug("lock position",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.String("total_lock_liquidity", totalLock.String()),
		zap.Uint64("cliff_point", cliffPoint),
	)
	e.emit(EvtLockPosition{
		Pool:                 params.Pool,
		Position:             params.Position,
		Owner:                params.Owner,
		Vesting:              params.Vesting,
		CliffPoint:           cliffPoint,
		PeriodFrequency:      params.Schedule.PeriodFrequency,
		CliffUnlockLiquidity: params.Schedule.CliffUnlockLiquidity,
		LiquidityPerPeriod:   params.Schedule.LiquidityPerPeriod,
		NumberOfPeriod:       params.Schedule.NumberOfPeriod,
	})
	return vesting, nil
}

// RefreshVesting releases whatever the schedule has unlocked since the last
// refresh back into the position's unlocked liquidity. It is permissionless.
// The returned done flag tells the caller the vesting account can be closed.
func (e *Engine) RefreshVesting(pool *state.Pool, position *state.Position, vesting *state.Vesting, clock Clock) (done bool, err error) {
	currentPoint, err := clock.CurrentPoint(pool.ActivationType)
	if err != nil {
		return false, err
	}
	release := vesting.GetNewReleaseLiquidity(currentPoint)
	if release.Sign() > 0 {
		if err := position.ReleaseVestedLiquidity(release); err != nil {
			return false, fmt.Errorf("release vested liquidity: %w", err)
		}
		if err := vesting.AccumulateReleasedLiquidity(release); err != nil {
			return false, fmt.Errorf("accumulate released liquidity: %w", err)
		}
	}
	return vesting.Done(), nil
}
