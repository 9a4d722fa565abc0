package math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// GetPriceFromSqrtPrice converts a Q64.64 sqrt price into a human price of
// token B per token A, adjusting for mint decimals.
func GetPriceFromSqrtPrice(sqrtPrice *big.Int, tokenADecimal, tokenBDecimal uint8) decimal.Decimal {
	sqrt := decimal.NewFromBigInt(sqrtPrice, 0).Div(decimal.NewFromBigInt(
		new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset), 0,
	))
	price := sqrt.Mul(sqrt)
	scale := decimal.New(1, int32(tokenADecimal)-int32(tokenBDecimal))
	return price.Mul(scale)
}

// GetSqrtPriceFromPrice is the inverse of GetPriceFromSqrtPrice.
func GetSqrtPriceFromPrice(price decimal.Decimal, tokenADecimal, tokenBDecimal uint8) *big.Int {
	scale := decimal.New(1, int32(tokenBDecimal)-int32(tokenADecimal))
	adjusted := price.Mul(scale)
	root := Sqrt(DecimalToQ64(adjusted.Mul(decimal.NewFromBigInt(
		new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset), 0,
	))))
	return root
}

// CalculateInitSqrtPrice solves the bootstrap price for a two-sided deposit
// over [minSqrtPrice, maxSqrtPrice] so both token amounts are fully consumed.
func CalculateInitSqrtPrice(tokenAAmount, tokenBAmount, minSqrtPrice, maxSqrtPrice *big.Int) (*big.Int, error) {
	if tokenAAmount.Sign() == 0 || tokenBAmount.Sign() == 0 {
		return nil, errors.New("amount cannot be zero")
	}
	one := decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), shared.ScaleOffset), 0)
	amountA := decimal.NewFromBigInt(tokenAAmount, 0)
	amountB := decimal.NewFromBigInt(tokenBAmount, 0)
	minSqrt := decimal.NewFromBigInt(minSqrtPrice, 0).Div(one)
	maxSqrt := decimal.NewFromBigInt(maxSqrtPrice, 0).Div(one)

	x := decimal.NewFromInt(1).Div(maxSqrt)
	y := amountB.Div(amountA)
	xy := x.Mul(y)

	paMinusXY := minSqrt.Sub(xy)
	xyMinusPa := xy.Sub(minSqrt)
	fourY := decimal.NewFromInt(4).Mul(y)
	discriminant := xyMinusPa.Mul(xyMinusPa).Add(fourY)
	discFloat, _ := new(big.Float).SetPrec(256).SetString(discriminant.String())
	if discFloat == nil {
		return nil, errors.New("invalid discriminant")
	}
	sqrtDiscFloat := new(big.Float).SetPrec(256).Sqrt(discFloat)
	sqrtDisc, err := decimal.NewFromString(sqrtDiscFloat.Text('f', 40))
	if err != nil {
		return nil, err
	}
	result := paMinusXY.Add(sqrtDisc).Div(decimal.NewFromInt(2)).Mul(one)
	return result.Floor().BigInt(), nil
}
