package state

import (
	"errors"
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var errMathOverflow = errors.New("math overflow")

func mulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
	if denominator.Sign() == 0 {
		return big.NewInt(0)
	}
	mul := new(big.Int).Mul(x, y)
	div, mod := new(big.Int).QuoRem(mul, denominator, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		return div.Add(div, big.NewInt(1))
	}
	return div
}

func mulShr(x, y *big.Int, offset uint) *big.Int {
	prod := new(big.Int).Mul(x, y)
	return prod.Rsh(prod, offset)
}

func shlDiv(x, y *big.Int, offset uint, rounding shared.Rounding) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, errMathOverflow
	}
	numerator := new(big.Int).Lsh(x, offset)
	div, mod := new(big.Int).QuoRem(numerator, y, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		div.Add(div, big.NewInt(1))
	}
	return div, nil
}

func toU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(shared.U64Max) > 0 {
		return 0, errors.New("type cast failed")
	}
	return v.Uint64(), nil
}

func minU64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
