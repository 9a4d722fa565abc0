package state

import (
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var ErrInsufficientUnlockedLiquidity = errors.New("insufficient unlocked liquidity")

// totalRewardScale is the combined shift of the reward rate (Q64.64) and the
// per-liquidity accumulator.
const totalRewardScale = shared.ScaleOffset + shared.LiquidityScale

// Position is a single LP stake in a pool, addressed by its NFT mint.
type Position struct {
	Pool                     solana.PublicKey
	NftMint                  solana.PublicKey
	FeeAPerTokenCheckpoint   [32]uint8
	FeeBPerTokenCheckpoint   [32]uint8
	FeeAPending              uint64
	FeeBPending              uint64
	UnlockedLiquidity        binary.Uint128
	VestedLiquidity          binary.Uint128
	PermanentLockedLiquidity binary.Uint128
	Metrics                  PositionMetrics
	RewardInfos              [shared.NumRewards]UserRewardInfo
	Padding                  [6]uint64
}

type PositionMetrics struct {
	TotalClaimedAFee uint64
	TotalClaimedBFee uint64
}

// UserRewardInfo mirrors one pool reward slot at position granularity.
type UserRewardInfo struct {
	RewardPerTokenCheckpoint [32]uint8
	RewardPendings           uint64
	TotalClaimedRewards      uint64
}

func (p *Position) InitPosition(pool, nftMint solana.PublicKey) {
	p.Pool = pool
	p.NftMint = nftMint
}

// TotalLiquidity is the sum of the unlocked, vested and permanently locked
// components. Fee and reward settlement always uses this total.
func (p *Position) TotalLiquidity() *big.Int {
	total := new(big.Int).Add(p.UnlockedLiquidity.BigInt(), p.VestedLiquidity.BigInt())
	return total.Add(total, p.PermanentLockedLiquidity.BigInt())
}

func (p *Position) HasSufficientLiquidity(liquidityDelta *big.Int) bool {
	return p.UnlockedLiquidity.BigInt().Cmp(liquidityDelta) >= 0
}

// IsEmpty reports whether the position can be closed: no liquidity in any
// component and nothing pending.
func (p *Position) IsEmpty() bool {
	if p.TotalLiquidity().Sign() != 0 {
		return false
	}
	if p.FeeAPending != 0 || p.FeeBPending != 0 {
		return false
	}
	for i := range p.RewardInfos {
		if p.RewardInfos[i].RewardPendings != 0 {
			return false
		}
	}
	return true
}

// UpdateFee settles the checkpoint delta against the pool accumulators into
// the pending buckets, then advances the checkpoints. Must run before any
// liquidity mutation.
func (p *Position) UpdateFee(feeAPerTokenStored, feeBPerTokenStored *big.Int) error {
	liquidity := p.TotalLiquidity()
	if liquidity.Sign() > 0 {
		deltaA := new(big.Int).Sub(feeAPerTokenStored, U256ToBig(p.FeeAPerTokenCheckpoint))
		if deltaA.Sign() < 0 {
			return errMathOverflow
		}
		newFeeA, err := toU64(mulShr(liquidity, deltaA, shared.LiquidityScale))
		if err != nil {
			return err
		}
		p.FeeAPending += newFeeA

		deltaB := new(big.Int).Sub(feeBPerTokenStored, U256ToBig(p.FeeBPerTokenCheckpoint))
		if deltaB.Sign() < 0 {
			return errMathOverflow
		}
		newFeeB, err := toU64(mulShr(liquidity, deltaB, shared.LiquidityScale))
		if err != nil {
			return err
		}
		p.FeeBPending += newFeeB
	}
	checkpointA, err := BigToU256(feeAPerTokenStored)
	if err != nil {
		return err
	}
	checkpointB, err := BigToU256(feeBPerTokenStored)
	if err != nil {
		return err
	}
	p.FeeAPerTokenCheckpoint = checkpointA
	p.FeeBPerTokenCheckpoint = checkpointB
	return nil
}

// UpdateRewards accrues the pool reward slots to currentTime, then settles
// this position's share.
func (p *Position) UpdateRewards(pool *Pool, currentTime uint64) error {
	if err := pool.UpdateRewards(currentTime); err != nil {
		return err
	}
	return p.UpdatePositionReward(pool)
}

// UpdatePositionReward settles each initialized reward slot's checkpoint
// delta into the position's pendings. The pool accumulators must already be
// current.
func (p *Position) UpdatePositionReward(pool *Pool) error {
	liquidity := p.TotalLiquidity()
	for i := range pool.RewardInfos {
		poolReward := &pool.RewardInfos[i]
		if !poolReward.IsInitialized() {
			continue
		}
		userReward := &p.RewardInfos[i]
		stored := U256ToBig(poolReward.RewardPerTokenStored)
		delta := new(big.Int).Sub(stored, U256ToBig(userReward.RewardPerTokenCheckpoint))
		if delta.Sign() < 0 {
			return errMathOverflow
		}
		if liquidity.Sign() > 0 {
			newReward, err := toU64(mulShr(liquidity, delta, totalRewardScale))
			if err != nil {
				return err
			}
			userReward.RewardPendings += newReward
		}
		checkpoint, err := BigToU256(stored)
		if err != nil {
			return err
		}
		userReward.RewardPerTokenCheckpoint = checkpoint
	}
	return nil
}

// ClaimReward drains one reward slot's pendings. Settlement must have run
// first.
func (p *Position) ClaimReward(rewardIndex int) (uint64, error) {
	if rewardIndex < 0 || rewardIndex >= shared.NumRewards {
		return 0, ErrInvalidRewardIndex
	}
	userReward := &p.RewardInfos[rewardIndex]
	totalReward := userReward.RewardPendings
	userReward.TotalClaimedRewards += totalReward
	userReward.RewardPendings = 0
	return totalReward, nil
}

// ClaimFee drains both pending fee buckets.
func (p *Position) ClaimFee() (feeA, feeB uint64) {
	feeA = p.FeeAPending
	feeB = p.FeeBPending
	p.Metrics.TotalClaimedAFee += feeA
	p.Metrics.TotalClaimedBFee += feeB
	p.FeeAPending = 0
	p.FeeBPending = 0
	return feeA, feeB
}

func (p *Position) AddLiquidity(liquidityDelta *big.Int) error {
	total, err := U128FromBig(new(big.Int).Add(p.UnlockedLiquidity.BigInt(), liquidityDelta))
	if err != nil {
		return err
	}
	p.UnlockedLiquidity = total
	return nil
}

func (p *Position) RemoveUnlockedLiquidity(liquidityDelta *big.Int) error {
	remaining := new(big.Int).Sub(p.UnlockedLiquidity.BigInt(), liquidityDelta)
	if remaining.Sign() < 0 {
		return ErrInsufficientUnlockedLiquidity
	}
	unlocked, err := U128FromBig(remaining)
	if err != nil {
		return err
	}
	p.UnlockedLiquidity = unlocked
	return nil
}

// Lock moves liquidity from the unlocked to the vested component when a
// vesting schedule is attached.
func (p *Position) Lock(totalLockLiquidity *big.Int) error {
	remaining := new(big.Int).Sub(p.UnlockedLiquidity.BigInt(), totalLockLiquidity)
	if remaining.Sign() < 0 {
		return ErrInsufficientUnlockedLiquidity
	}
	unlocked, err := U128FromBig(remaining)
	if err != nil {
		return err
	}
	vested, err := U128FromBig(new(big.Int).Add(p.VestedLiquidity.BigInt(), totalLockLiquidity))
	if err != nil {
		return err
	}
	p.UnlockedLiquidity = unlocked
	p.VestedLiquidity = vested
	return nil
}

// ReleaseVestedLiquidity returns matured vested liquidity to the unlocked
// component.
func (p *Position) ReleaseVestedLiquidity(releasedLiquidity *big.Int) error {
	remaining := new(big.Int).Sub(p.VestedLiquidity.BigInt(), releasedLiquidity)
	if remaining.Sign() < 0 {
		return errMathOverflow
	}
	vested, err := U128FromBig(remaining)
	if err != nil {
		return err
	}
	unlocked, err := U128FromBig(new(big.Int).Add(p.UnlockedLiquidity.BigInt(), releasedLiquidity))
	if err != nil {
		return err
	}
	p.VestedLiquidity = vested
	p.UnlockedLiquidity = unlocked
	return nil
}

// PermanentLock irreversibly moves unlocked liquidity into the permanently
// locked component.
func (p *Position) PermanentLock(permanentLockLiquidity *big.Int) error {
	remaining := new(big.Int).Sub(p.UnlockedLiquidity.BigInt(), permanentLockLiquidity)
	if remaining.Sign() < 0 {
		return ErrInsufficientUnlockedLiquidity
	}
	unlocked, err := U128FromBig(remaining)
	if err != nil {
		return err
	}
	locked, err := U128FromBig(new(big.Int).Add(p.PermanentLockedLiquidity.BigInt(), permanentLockLiquidity))
	if err != nil {
		return err
	}
	p.UnlockedLiquidity = unlocked
	p.PermanentLockedLiquidity = locked
	return nil
}
