package math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var (
	ErrMathOverflow   = errors.New("math overflow")
	ErrTypeCastFailed = errors.New("type cast failed")
)

func MulDiv(x, y, denominator *big.Int, rounding shared.Rounding) *big.Int {
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

// MulShr computes (x * y) >> offset.
func MulShr(x, y *big.Int, offset uint, rounding shared.Rounding) *big.Int {
	prod := new(big.Int).Mul(x, y)
	if rounding == shared.RoundingUp {
		denominator := new(big.Int).Lsh(big.NewInt(1), offset)
		prod.Add(prod, new(big.Int).Sub(denominator, big.NewInt(1)))
		return prod.Div(prod, denominator)
	}
	return prod.Rsh(prod, offset)
}

// ShlDiv computes (x << offset) / y.
func ShlDiv(x, y *big.Int, offset uint, rounding shared.Rounding) (*big.Int, error) {
	if y.Sign() == 0 {
		return nil, ErrMathOverflow
	}
	numerator := new(big.Int).Lsh(x, offset)
	div, mod := new(big.Int).QuoRem(numerator, y, new(big.Int))
	if rounding == shared.RoundingUp && mod.Sign() != 0 {
		div.Add(div, big.NewInt(1))
	}
	return div, nil
}

// ToU64 rejects values outside the u64 range.
func ToU64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(shared.U64Max) > 0 {
		return 0, ErrTypeCastFailed
	}
	return v.Uint64(), nil
}

// ToU128 rejects values outside the u128 range.
func ToU128(v *big.Int) (*big.Int, error) {
	if v.Sign() < 0 || v.Cmp(shared.MaxU128) > 0 {
		return nil, ErrTypeCastFailed
	}
	return v, nil
}

func Q64ToDecimal(num *big.Int, decimalPlaces int32) decimal.Decimal {
	if num == nil {
		return decimal.Zero
	}
	out := decimal.NewFromBigInt(num, 0).Div(decimal.NewFromBigInt(
		new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset), 0,
	))
	if decimalPlaces >= 0 {
		return out.Round(decimalPlaces)
	}
	return out
}

func DecimalToQ64(num decimal.Decimal) *big.Int {
	v := num.Mul(decimal.NewFromBigInt(
		new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset), 0,
	)).Floor()
	return v.BigInt()
}

// Sqrt is the integer square root by Newton iteration.
func Sqrt(value *big.Int) *big.Int {
	if value == nil || value.Sign() == 0 {
		return big.NewInt(0)
	}
	if value.Cmp(big.NewInt(1)) == 0 {
		return big.NewInt(1)
	}

	x := new(big.Int).Set(value)
	y := new(big.Int).Add(value, big.NewInt(1))
	y.Div(y, big.NewInt(2))

	for y.Cmp(x) < 0 {
		x.Set(y)
		y = new(big.Int).Add(x, new(big.Int).Div(value, x))
		y.Div(y, big.NewInt(2))
	}

	return x
}

// Pow raises a Q64.64 base to an integer exponent by binary exponentiation.
// Exponents are bounded by MaxExponential; bases >= 1 are inverted through
// u128::MAX to keep every intermediate below one.
func Pow(base, exp *big.Int) *big.Int {
	if exp == nil || exp.Sign() == 0 {
		return new(big.Int).Set(shared.OneQ64)
	}
	invert := exp.Sign() < 0
	absExp := new(big.Int).Abs(exp)
	if absExp.Cmp(shared.MaxExponential) > 0 {
		return big.NewInt(0)
	}

	squaredBase := new(big.Int).Set(base)
	result := new(big.Int).Set(shared.OneQ64)
	if squaredBase.Cmp(result) >= 0 {
		squaredBase = new(big.Int).Div(shared.MaxU128, squaredBase)
		invert = !invert
	}

	for bit := uint(0); bit <= 18; bit++ {
		if absExp.Bit(int(bit)) == 1 {
			result.Mul(result, squaredBase)
			result.Rsh(result, shared.ScaleOffset)
		}
		squaredBase.Mul(squaredBase, squaredBase)
		squaredBase.Rsh(squaredBase, shared.ScaleOffset)
	}

	if result.Sign() == 0 {
		return big.NewInt(0)
	}
	if invert {
		result = new(big.Int).Div(shared.MaxU128, result)
	}
	return result
}
