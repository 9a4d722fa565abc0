package state

import (
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var ErrInvalidVestingInfo = errors.New("invalid vesting info")

// Vesting is one schedule locking a position's liquidity behind a cliff plus
// linear per-period releases. A position can carry several schedules.
type Vesting struct {
	Position               solana.PublicKey
	CliffPoint             uint64
	PeriodFrequency        uint64
	CliffUnlockLiquidity   binary.Uint128
	LiquidityPerPeriod     binary.Uint128
	TotalReleasedLiquidity binary.Uint128
	NumberOfPeriod         uint16
	Padding                [14]uint8
	Padding2               [4]uint64
}

// VestingParameters describes a requested lock. CliffPoint nil starts the
// schedule at the current point.
type VestingParameters struct {
	CliffPoint           *uint64
	PeriodFrequency      uint64
	CliffUnlockLiquidity *big.Int
	LiquidityPerPeriod   *big.Int
	NumberOfPeriod       uint16
}

func (vp *VestingParameters) GetCliffPoint(currentPoint uint64) uint64 {
	if vp.CliffPoint != nil {
		return *vp.CliffPoint
	}
	return currentPoint
}

func (vp *VestingParameters) GetTotalLockAmount() *big.Int {
	perPeriod := vp.LiquidityPerPeriod
	if perPeriod == nil {
		perPeriod = big.NewInt(0)
	}
	cliff := vp.CliffUnlockLiquidity
	if cliff == nil {
		cliff = big.NewInt(0)
	}
	total := new(big.Int).Mul(perPeriod, new(big.Int).SetUint64(uint64(vp.NumberOfPeriod)))
	return total.Add(total, cliff)
}

func (vp *VestingParameters) Validate(currentPoint, maxVestingDuration uint64) error {
	cliffPoint := vp.GetCliffPoint(currentPoint)
	if cliffPoint < currentPoint {
		return ErrInvalidVestingInfo
	}
	if vp.NumberOfPeriod > 0 {
		if vp.PeriodFrequency == 0 || vp.LiquidityPerPeriod == nil || vp.LiquidityPerPeriod.Sign() == 0 {
			return ErrInvalidVestingInfo
		}
	}
	vestingDuration := cliffPoint - currentPoint + vp.PeriodFrequency*uint64(vp.NumberOfPeriod)
	if vestingDuration > maxVestingDuration {
		return ErrInvalidVestingInfo
	}
	if vp.GetTotalLockAmount().Sign() == 0 {
		return ErrInvalidVestingInfo
	}
	return nil
}

func (v *Vesting) Initialize(position solana.PublicKey, cliffPoint, periodFrequency uint64, cliffUnlockLiquidity, liquidityPerPeriod *big.Int, numberOfPeriod uint16) error {
	cliff, err := U128FromBig(cliffUnlockLiquidity)
	if err != nil {
		return err
	}
	perPeriod, err := U128FromBig(liquidityPerPeriod)
	if err != nil {
		return err
	}
	v.Position = position
	v.CliffPoint = cliffPoint
	v.PeriodFrequency = periodFrequency
	v.CliffUnlockLiquidity = cliff
	v.LiquidityPerPeriod = perPeriod
	v.NumberOfPeriod = numberOfPeriod
	return nil
}

func (v *Vesting) TotalLockedLiquidity() *big.Int {
	total := new(big.Int).Mul(v.LiquidityPerPeriod.BigInt(), new(big.Int).SetUint64(uint64(v.NumberOfPeriod)))
	return total.Add(total, v.CliffUnlockLiquidity.BigInt())
}

// GetMaxUnlockedLiquidity is the cumulative amount matured by currentPoint:
// zero before the cliff, the cliff amount plus one slice per elapsed period
// after, capped at the schedule total.
func (v *Vesting) GetMaxUnlockedLiquidity(currentPoint uint64) *big.Int {
	if currentPoint < v.CliffPoint {
		return big.NewInt(0)
	}
	var periods uint64
	if v.PeriodFrequency > 0 {
		periods = (currentPoint - v.CliffPoint) / v.PeriodFrequency
		if periods > uint64(v.NumberOfPeriod) {
			periods = uint64(v.NumberOfPeriod)
		}
	}
	unlocked := new(big.Int).Mul(v.LiquidityPerPeriod.BigInt(), new(big.Int).SetUint64(periods))
	return unlocked.Add(unlocked, v.CliffUnlockLiquidity.BigInt())
}

// GetNewReleaseLiquidity is the matured amount not yet handed back to the
// position.
func (v *Vesting) GetNewReleaseLiquidity(currentPoint uint64) *big.Int {
	release := new(big.Int).Sub(v.GetMaxUnlockedLiquidity(currentPoint), v.TotalReleasedLiquidity.BigInt())
	if release.Sign() < 0 {
		return big.NewInt(0)
	}
	return release
}

func (v *Vesting) AccumulateReleasedLiquidity(releasedLiquidity *big.Int) error {
	total, err := U128FromBig(new(big.Int).Add(v.TotalReleasedLiquidity.BigInt(), releasedLiquidity))
	if err != nil {
		return err
	}
	v.TotalReleasedLiquidity = total
	return nil
}

// Done reports whether every scheduled slice has been released, at which
// point the schedule can be closed.
func (v *Vesting) Done() bool {
	return v.TotalReleasedLiquidity.BigInt().Cmp(v.TotalLockedLiquidity()) >= 0
}
