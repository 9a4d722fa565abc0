package state

import (
	"errors"
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var ErrInvalidSplitPositionParameters = errors.New("invalid split position parameters")

// SplitPositionParameters2 expresses each split fraction as a numerator over
// SplitPositionDenominator.
type SplitPositionParameters2 struct {
	UnlockedLiquidityNumerator        uint32
	PermanentLockedLiquidityNumerator uint32
	FeeANumerator                     uint32
	FeeBNumerator                     uint32
	Reward0Numerator                  uint32
	Reward1Numerator                  uint32
}

func (p *SplitPositionParameters2) Validate() error {
	numerators := []uint32{
		p.UnlockedLiquidityNumerator,
		p.PermanentLockedLiquidityNumerator,
		p.FeeANumerator,
		p.FeeBNumerator,
		p.Reward0Numerator,
		p.Reward1Numerator,
	}
	anyPositive := false
	for _, n := range numerators {
		if n > shared.SplitPositionDenominator {
			return ErrInvalidSplitPositionParameters
		}
		if n > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return ErrInvalidSplitPositionParameters
	}
	return nil
}

// SplitPositionParameters is the whole-percentage form. It lowers onto the
// numerator form before application.
type SplitPositionParameters struct {
	UnlockedLiquidityPercentage        uint8
	PermanentLockedLiquidityPercentage uint8
	FeeAPercentage                     uint8
	FeeBPercentage                     uint8
	Reward0Percentage                  uint8
	Reward1Percentage                  uint8
}

func (p *SplitPositionParameters) Validate() error {
	percentages := []uint8{
		p.UnlockedLiquidityPercentage,
		p.PermanentLockedLiquidityPercentage,
		p.FeeAPercentage,
		p.FeeBPercentage,
		p.Reward0Percentage,
		p.Reward1Percentage,
	}
	anyPositive := false
	for _, pct := range percentages {
		if pct > 100 {
			return ErrInvalidSplitPositionParameters
		}
		if pct > 0 {
			anyPositive = true
		}
	}
	if !anyPositive {
		return ErrInvalidSplitPositionParameters
	}
	return nil
}

func (p *SplitPositionParameters) ToNumerators() SplitPositionParameters2 {
	const numeratorFactor = shared.SplitPositionDenominator / 100
	return SplitPositionParameters2{
		UnlockedLiquidityNumerator:        numeratorFactor * uint32(p.UnlockedLiquidityPercentage),
		PermanentLockedLiquidityNumerator: numeratorFactor * uint32(p.PermanentLockedLiquidityPercentage),
		FeeANumerator:                     numeratorFactor * uint32(p.FeeAPercentage),
		FeeBNumerator:                     numeratorFactor * uint32(p.FeeBPercentage),
		Reward0Numerator:                  numeratorFactor * uint32(p.Reward0Percentage),
		Reward1Numerator:                  numeratorFactor * uint32(p.Reward1Percentage),
	}
}

// SplitAmountInfo records what moved from the first to the second position.
type SplitAmountInfo struct {
	UnlockedLiquidity        *big.Int
	PermanentLockedLiquidity *big.Int
	FeeA                     uint64
	FeeB                     uint64
	Reward0                  uint64
	Reward1                  uint64
}

func splitFraction(value *big.Int, numerator uint32) *big.Int {
	return mulDiv(
		value,
		new(big.Int).SetUint64(uint64(numerator)),
		big.NewInt(shared.SplitPositionDenominator),
		shared.RoundingDown,
	)
}

func splitFractionU64(value uint64, numerator uint32) uint64 {
	return new(big.Int).Div(
		new(big.Int).Mul(new(big.Int).SetUint64(value), new(big.Int).SetUint64(uint64(numerator))),
		big.NewInt(shared.SplitPositionDenominator),
	).Uint64()
}

// ApplySplitPosition moves the requested fractions of liquidity, pending
// fees and pending rewards from first to second. Both positions' checkpoints
// must have been settled against the pool immediately before. Aggregate pool
// liquidity is unchanged.
func (p *Pool) ApplySplitPosition(first, second *Position, params SplitPositionParameters2) (SplitAmountInfo, error) {
	var info SplitAmountInfo

	info.UnlockedLiquidity = splitFraction(first.UnlockedLiquidity.BigInt(), params.UnlockedLiquidityNumerator)
	info.PermanentLockedLiquidity = splitFraction(first.PermanentLockedLiquidity.BigInt(), params.PermanentLockedLiquidityNumerator)
	info.FeeA = splitFractionU64(first.FeeAPending, params.FeeANumerator)
	info.FeeB = splitFractionU64(first.FeeBPending, params.FeeBNumerator)
	info.Reward0 = splitFractionU64(first.RewardInfos[0].RewardPendings, params.Reward0Numerator)
	info.Reward1 = splitFractionU64(first.RewardInfos[1].RewardPendings, params.Reward1Numerator)

	if info.UnlockedLiquidity.Sign() > 0 {
		if err := first.RemoveUnlockedLiquidity(info.UnlockedLiquidity); err != nil {
			return info, err
		}
		if err := second.AddLiquidity(info.UnlockedLiquidity); err != nil {
			return info, err
		}
	}
	if info.PermanentLockedLiquidity.Sign() > 0 {
		remaining := new(big.Int).Sub(first.PermanentLockedLiquidity.BigInt(), info.PermanentLockedLiquidity)
		firstLocked, err := U128FromBig(remaining)
		if err != nil {
			return info, err
		}
		secondLocked, err := U128FromBig(new(big.Int).Add(second.PermanentLockedLiquidity.BigInt(), info.PermanentLockedLiquidity))
		if err != nil {
			return info, err
		}
		first.PermanentLockedLiquidity = firstLocked
		second.PermanentLockedLiquidity = secondLocked
	}

	first.FeeAPending -= info.FeeA
	second.FeeAPending += info.FeeA
	first.FeeBPending -= info.FeeB
	second.FeeBPending += info.FeeB

	first.RewardInfos[0].RewardPendings -= info.Reward0
	second.RewardInfos[0].RewardPendings += info.Reward0
	first.RewardInfos[1].RewardPendings -= info.Reward1
	second.RewardInfos[1].RewardPendings += info.Reward1

	return info, nil
}
