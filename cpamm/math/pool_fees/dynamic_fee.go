package pool_fees

import (
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// GetDynamicFeeNumerator computes the volatility surcharge:
// (volatility_accumulator * bin_step)^2 * variable_fee_control, scaled down
// by 1e11 with the offset forcing a round-up on any residue.
func GetDynamicFeeNumerator(volatilityAccumulator, binStep, variableFeeControl *big.Int) *big.Int {
	squareVfaBin := new(big.Int).Mul(volatilityAccumulator, binStep)
	squareVfaBin.Mul(squareVfaBin, squareVfaBin)
	vFee := new(big.Int).Mul(variableFeeControl, squareVfaBin)
	vFee.Add(vFee, shared.DynamicFeeRoundingOffset)
	return vFee.Div(vFee, shared.DynamicFeeScalingFactor)
}
