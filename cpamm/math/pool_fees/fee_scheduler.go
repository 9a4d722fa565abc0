package pool_fees

import (
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// Linear decay: cliff - period * reduction.
func GetFeeNumeratorOnLinearFeeScheduler(cliffFeeNumerator, reductionFactor *big.Int, period uint16) *big.Int {
	reduction := new(big.Int).Mul(big.NewInt(int64(period)), reductionFactor)
	out := new(big.Int).Sub(cliffFeeNumerator, reduction)
	if out.Sign() < 0 {
		return big.NewInt(0)
	}
	return out
}

// Exponential decay: cliff * (1 - reduction/10000)^period in Q64.64.
func GetFeeNumeratorOnExponentialFeeScheduler(cliffFeeNumerator, reductionFactor *big.Int, period uint16) *big.Int {
	if period == 0 {
		return new(big.Int).Set(cliffFeeNumerator)
	}
	bps := new(big.Int).Lsh(reductionFactor, shared.ScaleOffset)
	bps.Div(bps, big.NewInt(shared.BasisPointMax))
	base := new(big.Int).Sub(shared.OneQ64, bps)
	result := pow(base, big.NewInt(int64(period)))
	return new(big.Int).Div(new(big.Int).Mul(cliffFeeNumerator, result), shared.OneQ64)
}

func GetMaxBaseFeeNumerator(cliffFeeNumerator *big.Int) *big.Int {
	return new(big.Int).Set(cliffFeeNumerator)
}
