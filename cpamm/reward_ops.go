package cpamm

import (
	"fmt"

	solanago "github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

type InitializeRewardParams struct {
	Pool            solanago.PublicKey
	Authority       solanago.PublicKey
	RewardIndex     uint8
	RewardDuration  uint64
	RewardMint      solanago.PublicKey
	RewardVault     solanago.PublicKey
	Funder          solanago.PublicKey
	RewardTokenFlag uint8
}

// InitializeReward sets up one of the pool's reward slots. Only an admin or
// the pool creator may do so, and a slot is initialized at most once.
func (e *Engine) InitializeReward(pool *state.Pool, params InitializeRewardParams) error {
	if !e.auth.IsAdmin(params.Authority) && params.Authority != pool.Creator {
		return ErrUnauthorized
	}
	if int(params.RewardIndex) >= shared.NumRewards {
		return ErrInvalidRewardIndex
	}
	if params.RewardDuration < shared.MinRewardDuration || params.RewardDuration > shared.MaxRewardDuration {
		return ErrInvalidRewardDuration
	}
	if params.RewardVault.IsZero() {
		return ErrInvalidRewardVault
	}
	rewardInfo := &pool.RewardInfos[params.RewardIndex]
	if rewardInfo.IsInitialized() {
		return ErrRewardInitialized
	}
	rewardInfo.InitReward(params.RewardMint, params.RewardVault, params.Funder, params.RewardDuration, params.RewardTokenFlag)

	e.logger.Debug("initialize reward",
		zap.Stringer("pool", params.Pool),
		zap.Uint8("reward_index", params.RewardIndex),
		zap.Uint64("reward_duration", params.RewardDuration),
	)
	e.emit(EvtInitializeReward{
		Pool:           params.Pool,
		RewardMint:     params.RewardMint,
		Funder:         params.Funder,
		RewardIndex:    params.RewardIndex,
		RewardDuration: params.RewardDuration,
	})
	return nil
}

type FundRewardParams struct {
	Pool        solanago.PublicKey
	Funder      solanago.PublicKey
	RewardIndex uint8
	Amount      uint64
	// CarryForward folds reward banked during empty-liquidity stretches into
	// this funding instead of requiring a prior withdraw.
	CarryForward bool
}

// FundReward starts a new reward window. The rate is recomputed from the
// funded amount plus any undistributed leftover of the previous window.
func (e *Engine) FundReward(pool *state.Pool, params FundRewardParams, clock Clock) error {
	if int(params.RewardIndex) >= shared.NumRewards {
		return ErrInvalidRewardIndex
	}
	rewardInfo := &pool.RewardInfos[params.RewardIndex]
	if !rewardInfo.IsInitialized() {
		return ErrRewardUninitialized
	}
	if !rewardInfo.IsValidFunder(params.Funder) {
		return ErrInvalidFunder
	}
	if params.Amount == 0 {
		return ErrAmountIsZero
	}

	if err := pool.UpdateRewards(clock.Timestamp); err != nil {
		return fmt.Errorf("update rewards: %w", err)
	}

	totalAmount := params.Amount
	if params.CarryForward {
		ineligible, err := pool.ClaimIneligibleReward(int(params.RewardIndex))
		if err != nil {
			return fmt.Errorf("carry forward ineligible reward: %w", err)
		}
		totalAmount += ineligible
	} else if rewardInfo.CumulativeSecondsWithEmptyLiquidityReward != 0 {
		return ErrMustWithdrawnIneligibleReward
	}

	if err := rewardInfo.UpdateRateAfterFunding(clock.Timestamp, totalAmount); err != nil {
		return fmt.Errorf("update rate after funding: %w", err)
	}

	e.logger.Debug("fund reward",
		zap.Stringer("pool", params.Pool),
		zap.Uint8("reward_index", params.RewardIndex),
		zap.Uint64("amount", params.Amount),
		zap.Bool("carry_forward", params.CarryForward),
	)
	e.emit(EvtFundReward{
		Pool:         params.Pool,
		Funder:       params.Funder,
		RewardIndex:  params.RewardIndex,
		Amount:       params.Amount,
		CarryForward: params.CarryForward,
	})
	return nil
}

type ClaimRewardParams struct {
	Pool        solanago.PublicKey
	Position    solanago.PublicKey
	Owner       solanago.PublicKey
	RewardIndex uint8
	// VaultFrozen reports the reward vault's token account state as observed
	// by the host.
	VaultFrozen bool
	// SkipIfFrozen requests a zero payout instead of an error when the vault
	// is frozen. Pendings stay on the position either way.
	SkipIfFrozen bool
}

// ClaimReward settles the position's reward accrual, then pays out pending
// rewards. A frozen vault either skips the payout (pendings preserved) or
// fails, depending on the skip flag.
func (e *Engine) ClaimReward(pool *state.Pool, position *state.Position, params ClaimRewardParams, clock Clock) (uint64, error) {
	if int(params.RewardIndex) >= shared.NumRewards {
		return 0, ErrInvalidRewardIndex
	}
	if !pool.RewardInfos[params.RewardIndex].IsInitialized() {
		return 0, ErrRewardUninitialized
	}
	if err := position.UpdateRewards(pool, clock.Timestamp); err != nil {
		return 0, fmt.Errorf("update rewards: %w", err)
	}

	if params.VaultFrozen {
		if !params.SkipIfFrozen {
			return 0, ErrRewardVaultFrozenSkipRequired
		}
		e.logger.Debug("claim reward skipped, vault frozen",
			zap.Stringer("pool", params.Pool),
			zap.Stringer("position", params.Position),
			zap.Uint8("reward_index", params.RewardIndex),
		)
		e.emit(EvtClaimReward{
			Pool:        params.Pool,
			Position:    params.Position,
			Owner:       params.Owner,
			RewardIndex: params.RewardIndex,
			TotalReward: 0,
			Skipped:     true,
		})
		return 0, nil
	}

	totalReward, err := position.ClaimReward(int(params.RewardIndex))
	if err != nil {
		return 0, err
	}
	e.logger.Debug("claim reward",
		zap.Stringer("pool", params.Pool),
		zap.Stringer("position", params.Position),
		zap.Uint8("reward_index", params.RewardIndex),
		zap.Uint64("total_reward", totalReward),
	)
	e.emit(EvtClaimReward{
		Pool:        params.Pool,
		Position:    params.Position,
		Owner:       params.Owner,
		RewardIndex: params.RewardIndex,
		TotalReward: totalReward,
	})
	return totalReward, nil
}

type WithdrawIneligibleRewardParams struct {
	Pool        solanago.PublicKey
	Funder      solanago.PublicKey
	RewardIndex uint8
}

// WithdrawIneligibleReward returns the reward banked while the pool had no
// liquidity to the funder and resets the counter.
func (e *Engine) WithdrawIneligibleReward(pool *state.Pool, params WithdrawIneligibleRewardParams, clock Clock) (uint64, error) {
	if int(params.RewardIndex) >= shared.NumRewards {
		return 0, ErrInvalidRewardIndex
	}
	rewardInfo := &pool.RewardInfos[params.RewardIndex]
	if !rewardInfo.IsInitialized() {
		return 0, ErrRewardUninitialized
	}
	if !rewardInfo.IsValidFunder(params.Funder) {
		return 0, ErrInvalidFunder
	}
	if err := pool.UpdateRewards(clock.Timestamp); err != nil {
		return 0, fmt.Errorf("update rewards: %w", err)
	}
	amount, err := pool.ClaimIneligibleReward(int(params.RewardIndex))
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		return 0, ErrIneligibleReward
	}
	e.logger.Debug("withdraw ineligible reward",
		zap.Stringer("pool", params.Pool),
		zap.Uint8("reward_index", params.RewardIndex),
		zap.Uint64("amount", amount),
	)
	e.emit(EvtWithdrawIneligibleReward{
		Pool:       params.Pool,
		RewardMint: rewardInfo.Mint,
		Amount:     amount,
	})
	return amount, nil
}

// UpdateRewardDuration changes a slot's campaign length. Admin only, and only
// between campaigns.
func (e *Engine) UpdateRewardDuration(pool *state.Pool, poolKey solanago.PublicKey, admin solanago.PublicKey, rewardIndex uint8, newDuration uint64, clock Clock) error {
	if !e.auth.IsAdmin(admin) {
		return ErrUnauthorized
	}
	if int(rewardIndex) >= shared.NumRewards {
		return ErrInvalidRewardIndex
	}
	if newDuration < shared.MinRewardDuration || newDuration > shared.MaxRewardDuration {
		return ErrInvalidRewardDuration
	}
	rewardInfo := &pool.RewardInfos[rewardIndex]
	if !rewardInfo.IsInitialized() {
		return ErrRewardUninitialized
	}
	if rewardInfo.RewardDuration == newDuration {
		return ErrIdenticalRewardDuration
	}
	if rewardInfo.RewardDurationEnd >= clock.Timestamp {
		return ErrRewardNotEnded
	}
	oldDuration := rewardInfo.RewardDuration
	rewardInfo.RewardDuration = newDuration
	e.emit(EvtUpdateRewardDuration{
		Pool:              poolKey,
		RewardIndex:       rewardIndex,
		OldRewardDuration: oldDuration,
		NewRewardDuration: newDuration,
	})
	return nil
}

// UpdateRewardFunder reassigns who may fund a slot. Admin only.
func (e *Engine) UpdateRewardFunder(pool *state.Pool, poolKey solanago.PublicKey, admin solanago.PublicKey, rewardIndex uint8, newFunder solanago.PublicKey) error {
	if !e.auth.IsAdmin(admin) {
		return ErrUnauthorized
	}
	if int(rewardIndex) >= shared.NumRewards {
		return ErrInvalidRewardIndex
	}
	rewardInfo := &pool.RewardInfos[rewardIndex]
	if !rewardInfo.IsInitialized() {
		return ErrRewardUninitialized
	}
	if rewardInfo.Funder.Equals(newFunder) {
		return ErrIdenticalFunder
	}
	oldFunder := rewardInfo.Funder
	rewardInfo.Funder = newFunder
	e.emit(EvtUpdateRewardFunder{
		Pool:        poolKey,
		RewardIndex: rewardIndex,
		OldFunder:   oldFunder,
		NewFunder:   newFunder,
	})
	return nil
}
