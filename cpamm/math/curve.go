package math

import (
	"errors"
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

var (
	ErrNegativeSqrtPrice     = errors.New("sqrt price cannot be negative")
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for requested output")
)

// New sqrt price when token B is deposited: sqrt_price + (amount << 128) / liquidity.
func GetNextSqrtPriceFromAmountInBRoundingDown(sqrtPrice, liquidity, amount *big.Int) *big.Int {
	quotient := new(big.Int).Lsh(amount, shared.ScaleOffset*2)
	quotient.Div(quotient, liquidity)
	return new(big.Int).Add(sqrtPrice, quotient)
}

// New sqrt price when token B is withdrawn; the quotient rounds up so the pool
// never hands out more B than the price move covers.
func GetNextSqrtPriceFromAmountOutBRoundingDown(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	numerator := new(big.Int).Lsh(amount, shared.ScaleOffset*2)
	quotient := new(big.Int).Add(numerator, liquidity)
	quotient.Sub(quotient, big.NewInt(1))
	quotient.Div(quotient, liquidity)
	result := new(big.Int).Sub(sqrtPrice, quotient)
	if result.Sign() < 0 {
		return nil, ErrNegativeSqrtPrice
	}
	return result, nil
}

// New sqrt price when token A is deposited:
// liquidity * sqrt_price / (liquidity + amount * sqrt_price), rounding up.
func GetNextSqrtPriceFromAmountInARoundingUp(sqrtPrice, liquidity, amount *big.Int) *big.Int {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice)
	}
	product := new(big.Int).Mul(amount, sqrtPrice)
	denominator := new(big.Int).Add(liquidity, product)
	return MulDiv(liquidity, sqrtPrice, denominator, shared.RoundingUp)
}

// New sqrt price when token A is withdrawn. The denominator
// liquidity - amount * sqrt_price must stay positive.
func GetNextSqrtPriceFromAmountOutARoundingUp(sqrtPrice, liquidity, amount *big.Int) (*big.Int, error) {
	if amount.Sign() == 0 {
		return new(big.Int).Set(sqrtPrice), nil
	}
	product := new(big.Int).Mul(amount, sqrtPrice)
	denominator := new(big.Int).Sub(liquidity, product)
	if denominator.Sign() <= 0 {
		return nil, ErrInsufficientLiquidity
	}
	return MulDiv(liquidity, sqrtPrice, denominator, shared.RoundingUp), nil
}

func GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut *big.Int, aForB bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 {
		return nil, errors.New("sqrtPrice must be greater than 0")
	}
	if liquidity.Sign() <= 0 {
		return nil, errors.New("liquidity must be greater than 0")
	}
	if aForB {
		return GetNextSqrtPriceFromAmountOutBRoundingDown(sqrtPrice, liquidity, amountOut)
	}
	return GetNextSqrtPriceFromAmountOutARoundingUp(sqrtPrice, liquidity, amountOut)
}

func GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn *big.Int, aForB bool) (*big.Int, error) {
	if sqrtPrice.Sign() <= 0 {
		return nil, errors.New("sqrtPrice must be greater than 0")
	}
	if liquidity.Sign() <= 0 {
		return nil, errors.New("liquidity must be greater than 0")
	}
	if aForB {
		return GetNextSqrtPriceFromAmountInARoundingUp(sqrtPrice, liquidity, amountIn), nil
	}
	return GetNextSqrtPriceFromAmountInBRoundingDown(sqrtPrice, liquidity, amountIn), nil
}

// Token B amount for a liquidity tranche between two prices:
// liquidity * (upper - lower) >> 128.
func GetAmountBFromLiquidityDelta(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, rounding shared.Rounding) *big.Int {
	deltaSqrtPrice := new(big.Int).Sub(upperSqrtPrice, lowerSqrtPrice)
	prod := new(big.Int).Mul(liquidity, deltaSqrtPrice)
	shift := uint(shared.ScaleOffset * 2)
	if rounding == shared.RoundingUp {
		denominator := new(big.Int).Lsh(big.NewInt(1), shift)
		result := new(big.Int).Add(prod, new(big.Int).Sub(denominator, big.NewInt(1)))
		return result.Div(result, denominator)
	}
	return prod.Rsh(prod, shift)
}

// Token A amount for a liquidity tranche between two prices:
// liquidity * (upper - lower) / (lower * upper).
func GetAmountAFromLiquidityDelta(lowerSqrtPrice, upperSqrtPrice, liquidity *big.Int, rounding shared.Rounding) *big.Int {
	numerator := new(big.Int).Sub(upperSqrtPrice, lowerSqrtPrice)
	denominator := new(big.Int).Mul(lowerSqrtPrice, upperSqrtPrice)
	if denominator.Sign() <= 0 {
		panic("denominator must be greater than zero")
	}
	return MulDiv(liquidity, numerator, denominator, rounding)
}

func GetLiquidityDeltaFromAmountA(amountA, lowerSqrtPrice, upperSqrtPrice *big.Int) *big.Int {
	product := new(big.Int).Mul(amountA, lowerSqrtPrice)
	product.Mul(product, upperSqrtPrice)
	denominator := new(big.Int).Sub(upperSqrtPrice, lowerSqrtPrice)
	return product.Div(product, denominator)
}

func GetLiquidityDeltaFromAmountB(amountB, lowerSqrtPrice, upperSqrtPrice *big.Int) *big.Int {
	denominator := new(big.Int).Sub(upperSqrtPrice, lowerSqrtPrice)
	product := new(big.Int).Lsh(amountB, shared.LiquidityScale)
	return product.Div(product, denominator)
}
