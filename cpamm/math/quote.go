package math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

var (
	ErrPriceRangeViolation = errors.New("price range is violated")
	ErrAmountIsZero        = errors.New("amount is zero")
	ErrSwapDisabled        = errors.New("swap is disabled")
)

func getPoolBig(pool *state.Pool) (sqrtPrice, sqrtMin, sqrtMax, liquidity *big.Int) {
	sqrtPrice = pool.SqrtPrice.BigInt()
	sqrtMin = pool.SqrtMinPrice.BigInt()
	sqrtMax = pool.SqrtMaxPrice.BigInt()
	liquidity = pool.Liquidity.BigInt()
	return
}

// GetSwapResultFromExactInput prices a fixed-input swap. The price must stay
// inside the pool's bounds; a breach rejects the whole trade.
func GetSwapResultFromExactInput(pool *state.Pool, amountIn *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult2, error) {
	actualProtocolFee := big.NewInt(0)
	actualTradingFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)
	actualPartnerFee := big.NewInt(0)

	tradeFeeNumerator, err := GetTotalTradingFeeFromIncludedFeeAmount(pool, currentPoint, amountIn, tradeDirection)
	if err != nil {
		return shared.SwapResult2{}, err
	}

	actualAmountIn := new(big.Int).Set(amountIn)
	if feeMode.FeesOnInput {
		feeResult := GetFeeOnAmount(&pool.PoolFees, amountIn, tradeFeeNumerator, feeMode.HasReferral, pool.HasPartner())
		actualProtocolFee = feeResult.ProtocolFee
		actualTradingFee = feeResult.TradingFee
		actualReferralFee = feeResult.ReferralFee
		actualPartnerFee = feeResult.PartnerFee
		actualAmountIn = feeResult.AmountAfterFee
	}

	var outputAmount, nextSqrtPrice *big.Int
	if tradeDirection == shared.TradeDirectionAtoB {
		outputAmount, nextSqrtPrice, err = calculateAtoBFromAmountIn(pool, actualAmountIn)
	} else {
		outputAmount, nextSqrtPrice, err = calculateBtoAFromAmountIn(pool, actualAmountIn)
	}
	if err != nil {
		return shared.SwapResult2{}, err
	}

	actualAmountOut := new(big.Int).Set(outputAmount)
	if !feeMode.FeesOnInput {
		feeResult := GetFeeOnAmount(&pool.PoolFees, outputAmount, tradeFeeNumerator, feeMode.HasReferral, pool.HasPartner())
		actualProtocolFee = feeResult.ProtocolFee
		actualTradingFee = feeResult.TradingFee
		actualReferralFee = feeResult.ReferralFee
		actualPartnerFee = feeResult.PartnerFee
		actualAmountOut = feeResult.AmountAfterFee
	}

	return shared.SwapResult2{
		IncludedFeeInputAmount: new(big.Int).Set(amountIn),
		ExcludedFeeInputAmount: actualAmountIn,
		AmountLeft:             big.NewInt(0),
		OutputAmount:           actualAmountOut,
		NextSqrtPrice:          nextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		PartnerFee:             actualPartnerFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

func calculateAtoBFromAmountIn(pool *state.Pool, amountIn *big.Int) (*big.Int, *big.Int, error) {
	sqrtPrice, sqrtMin, _, liquidity := getPoolBig(pool)
	nextSqrtPrice, err := GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn, true)
	if err != nil {
		return nil, nil, err
	}
	if nextSqrtPrice.Cmp(sqrtMin) < 0 {
		return nil, nil, ErrPriceRangeViolation
	}
	outputAmount := GetAmountBFromLiquidityDelta(nextSqrtPrice, sqrtPrice, liquidity, shared.RoundingDown)
	return outputAmount, nextSqrtPrice, nil
}

func calculateBtoAFromAmountIn(pool *state.Pool, amountIn *big.Int) (*big.Int, *big.Int, error) {
	sqrtPrice, _, sqrtMax, liquidity := getPoolBig(pool)
	nextSqrtPrice, err := GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn, false)
	if err != nil {
		return nil, nil, err
	}
	if nextSqrtPrice.Cmp(sqrtMax) > 0 {
		return nil, nil, ErrPriceRangeViolation
	}
	outputAmount := GetAmountAFromLiquidityDelta(sqrtPrice, nextSqrtPrice, liquidity, shared.RoundingDown)
	return outputAmount, nextSqrtPrice, nil
}

// GetSwapResultFromPartialInput prices a fixed-input swap that clamps at the
// pool's price bound instead of failing. When the clamp binds, the consumed
// input and its fee are re-derived from the curve-limited amount, and
// AmountLeft reports the unconsumed remainder.
func GetSwapResultFromPartialInput(pool *state.Pool, amountIn *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult2, error) {
	actualProtocolFee := big.NewInt(0)
	actualTradingFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)
	actualPartnerFee := big.NewInt(0)

	tradeFeeNumerator, err := GetTotalTradingFeeFromIncludedFeeAmount(pool, currentPoint, amountIn, tradeDirection)
	if err != nil {
		return shared.SwapResult2{}, err
	}

	actualAmountIn := new(big.Int).Set(amountIn)
	if feeMode.FeesOnInput {
		feeResult := GetFeeOnAmount(&pool.PoolFees, amountIn, tradeFeeNumerator, feeMode.HasReferral, pool.HasPartner())
		actualProtocolFee = feeResult.ProtocolFee
		actualTradingFee = feeResult.TradingFee
		actualReferralFee = feeResult.ReferralFee
		actualPartnerFee = feeResult.PartnerFee
		actualAmountIn = feeResult.AmountAfterFee
	}

	var outputAmount, nextSqrtPrice, amountLeft *big.Int
	if tradeDirection == shared.TradeDirectionAtoB {
		outputAmount, nextSqrtPrice, amountLeft, err = calculateAtoBFromPartialAmountIn(pool, actualAmountIn)
	} else {
		outputAmount, nextSqrtPrice, amountLeft, err = calculateBtoAFromPartialAmountIn(pool, actualAmountIn)
	}
	if err != nil {
		return shared.SwapResult2{}, err
	}

	includedFeeInputAmount := new(big.Int).Set(amountIn)
	if amountLeft.Sign() > 0 {
		actualAmountIn = new(big.Int).Sub(actualAmountIn, amountLeft)
		if feeMode.FeesOnInput {
			tradeFeeNumerator, err := GetTotalTradingFeeFromExcludedFeeAmount(pool, currentPoint, actualAmountIn, tradeDirection)
			if err != nil {
				return shared.SwapResult2{}, err
			}
			includedFeeAmount, feeAmount, err := GetIncludedFeeAmount(tradeFeeNumerator, actualAmountIn)
			if err != nil {
				return shared.SwapResult2{}, err
			}
			split := SplitFees(&pool.PoolFees, feeAmount, feeMode.HasReferral, pool.HasPartner())
			actualProtocolFee = split.ProtocolFee
			actualTradingFee = split.TradingFee
			actualReferralFee = split.ReferralFee
			actualPartnerFee = split.PartnerFee
			includedFeeInputAmount = includedFeeAmount
		} else {
			includedFeeInputAmount = actualAmountIn
		}
	}

	actualAmountOut := new(big.Int).Set(outputAmount)
	if !feeMode.FeesOnInput {
		feeResult := GetFeeOnAmount(&pool.PoolFees, outputAmount, tradeFeeNumerator, feeMode.HasReferral, pool.HasPartner())
		actualProtocolFee = feeResult.ProtocolFee
		actualTradingFee = feeResult.TradingFee
		actualReferralFee = feeResult.ReferralFee
		actualPartnerFee = feeResult.PartnerFee
		actualAmountOut = feeResult.AmountAfterFee
	}

	return shared.SwapResult2{
		IncludedFeeInputAmount: includedFeeInputAmount,
		ExcludedFeeInputAmount: actualAmountIn,
		AmountLeft:             amountLeft,
		OutputAmount:           actualAmountOut,
		NextSqrtPrice:          nextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		PartnerFee:             actualPartnerFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

func calculateAtoBFromPartialAmountIn(pool *state.Pool, amountIn *big.Int) (*big.Int, *big.Int, *big.Int, error) {
	sqrtPrice, sqrtMin, _, liquidity := getPoolBig(pool)
	maxAmountIn := GetAmountAFromLiquidityDelta(sqrtMin, sqrtPrice, liquidity, shared.RoundingUp)
	consumedIn := new(big.Int)
	nextSqrtPrice := new(big.Int)
	if amountIn.Cmp(maxAmountIn) >= 0 {
		consumedIn.Set(maxAmountIn)
		nextSqrtPrice.Set(sqrtMin)
	} else {
		next, err := GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn, true)
		if err != nil {
			return nil, nil, nil, err
		}
		nextSqrtPrice.Set(next)
		consumedIn.Set(amountIn)
	}
	outputAmount := GetAmountBFromLiquidityDelta(nextSqrtPrice, sqrtPrice, liquidity, shared.RoundingDown)
	amountLeft := new(big.Int).Sub(amountIn, consumedIn)
	return outputAmount, nextSqrtPrice, amountLeft, nil
}

func calculateBtoAFromPartialAmountIn(pool *state.Pool, amountIn *big.Int) (*big.Int, *big.Int, *big.Int, error) {
	sqrtPrice, _, sqrtMax, liquidity := getPoolBig(pool)
	maxAmountIn := GetAmountBFromLiquidityDelta(sqrtPrice, sqrtMax, liquidity, shared.RoundingUp)
	consumedIn := new(big.Int)
	nextSqrtPrice := new(big.Int)
	if amountIn.Cmp(maxAmountIn) >= 0 {
		consumedIn.Set(maxAmountIn)
		nextSqrtPrice.Set(sqrtMax)
	} else {
		next, err := GetNextSqrtPriceFromInput(sqrtPrice, liquidity, amountIn, false)
		if err != nil {
			return nil, nil, nil, err
		}
		nextSqrtPrice.Set(next)
		consumedIn.Set(amountIn)
	}
	outputAmount := GetAmountAFromLiquidityDelta(sqrtPrice, nextSqrtPrice, liquidity, shared.RoundingDown)
	amountLeft := new(big.Int).Sub(amountIn, consumedIn)
	return outputAmount, nextSqrtPrice, amountLeft, nil
}

// GetSwapResultFromExactOutput prices a fixed-output swap: the fee formula
// is inverted to find the gross amounts on whichever side carries the fee.
// OutputAmount always equals the requested amount exactly.
func GetSwapResultFromExactOutput(pool *state.Pool, amountOut *big.Int, feeMode shared.FeeMode, tradeDirection shared.TradeDirection, currentPoint *big.Int) (shared.SwapResult2, error) {
	actualProtocolFee := big.NewInt(0)
	actualTradingFee := big.NewInt(0)
	actualReferralFee := big.NewInt(0)
	actualPartnerFee := big.NewInt(0)

	includedFeeAmountOut := new(big.Int).Set(amountOut)
	if !feeMode.FeesOnInput {
		tradeFeeNumerator, err := GetTotalTradingFeeFromExcludedFeeAmount(pool, currentPoint, amountOut, tradeDirection)
		if err != nil {
			return shared.SwapResult2{}, err
		}
		includedFeeAmount, feeAmount, err := GetIncludedFeeAmount(tradeFeeNumerator, amountOut)
		if err != nil {
			return shared.SwapResult2{}, err
		}
		split := SplitFees(&pool.PoolFees, feeAmount, feeMode.HasReferral, pool.HasPartner())
		actualTradingFee = split.TradingFee
		actualProtocolFee = split.ProtocolFee
		actualReferralFee = split.ReferralFee
		actualPartnerFee = split.PartnerFee
		includedFeeAmountOut = includedFeeAmount
	}

	var inputAmount, nextSqrtPrice *big.Int
	var err error
	if tradeDirection == shared.TradeDirectionAtoB {
		inputAmount, nextSqrtPrice, err = calculateAtoBFromAmountOut(pool, includedFeeAmountOut)
	} else {
		inputAmount, nextSqrtPrice, err = calculateBtoAFromAmountOut(pool, includedFeeAmountOut)
	}
	if err != nil {
		return shared.SwapResult2{}, err
	}

	includedFeeInputAmount := new(big.Int).Set(inputAmount)
	if feeMode.FeesOnInput {
		tradeFeeNumerator, err := GetTotalTradingFeeFromExcludedFeeAmount(pool, currentPoint, inputAmount, tradeDirection)
		if err != nil {
			return shared.SwapResult2{}, err
		}
		includedFeeAmount, feeAmount, err := GetIncludedFeeAmount(tradeFeeNumerator, inputAmount)
		if err != nil {
			return shared.SwapResult2{}, err
		}
		split := SplitFees(&pool.PoolFees, feeAmount, feeMode.HasReferral, pool.HasPartner())
		actualTradingFee = split.TradingFee
		actualProtocolFee = split.ProtocolFee
		actualReferralFee = split.ReferralFee
		actualPartnerFee = split.PartnerFee
		includedFeeInputAmount = includedFeeAmount
	}

	return shared.SwapResult2{
		IncludedFeeInputAmount: includedFeeInputAmount,
		ExcludedFeeInputAmount: inputAmount,
		AmountLeft:             big.NewInt(0),
		OutputAmount:           amountOut,
		NextSqrtPrice:          nextSqrtPrice,
		TradingFee:             actualTradingFee,
		ProtocolFee:            actualProtocolFee,
		PartnerFee:             actualPartnerFee,
		ReferralFee:            actualReferralFee,
	}, nil
}

func calculateAtoBFromAmountOut(pool *state.Pool, amountOut *big.Int) (*big.Int, *big.Int, error) {
	sqrtPrice, sqrtMin, _, liquidity := getPoolBig(pool)
	nextSqrtPrice, err := GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut, true)
	if err != nil {
		return nil, nil, err
	}
	if nextSqrtPrice.Cmp(sqrtMin) < 0 {
		return nil, nil, ErrPriceRangeViolation
	}
	inputAmount := GetAmountAFromLiquidityDelta(nextSqrtPrice, sqrtPrice, liquidity, shared.RoundingUp)
	return inputAmount, nextSqrtPrice, nil
}

func calculateBtoAFromAmountOut(pool *state.Pool, amountOut *big.Int) (*big.Int, *big.Int, error) {
	sqrtPrice, _, sqrtMax, liquidity := getPoolBig(pool)
	nextSqrtPrice, err := GetNextSqrtPriceFromOutput(sqrtPrice, liquidity, amountOut, false)
	if err != nil {
		return nil, nil, err
	}
	if nextSqrtPrice.Cmp(sqrtMax) > 0 {
		return nil, nil, ErrPriceRangeViolation
	}
	inputAmount := GetAmountBFromLiquidityDelta(sqrtPrice, nextSqrtPrice, liquidity, shared.RoundingUp)
	return inputAmount, nextSqrtPrice, nil
}

// GetAmountsForModifyLiquidity converts a liquidity delta into the token
// amounts it represents at the pool's current price. Deposits round Up,
// withdrawals round Down.
func GetAmountsForModifyLiquidity(pool *state.Pool, liquidityDelta *big.Int, rounding shared.Rounding) (amountA, amountB *big.Int) {
	sqrtPrice, sqrtMin, sqrtMax, _ := getPoolBig(pool)
	amountA = GetAmountAFromLiquidityDelta(sqrtPrice, sqrtMax, liquidityDelta, rounding)
	amountB = GetAmountBFromLiquidityDelta(sqrtMin, sqrtPrice, liquidityDelta, rounding)
	return amountA, amountB
}

// GetInitializeAmounts is the one-time deposit needed to bootstrap a pool at
// a given price with a given liquidity.
func GetInitializeAmounts(sqrtMinPrice, sqrtMaxPrice, sqrtPrice, liquidity *big.Int) (amountA, amountB *big.Int) {
	amountA = GetAmountAFromLiquidityDelta(sqrtPrice, sqrtMaxPrice, liquidity, shared.RoundingUp)
	amountB = GetAmountBFromLiquidityDelta(sqrtMinPrice, sqrtPrice, liquidity, shared.RoundingUp)
	return amountA, amountB
}

// SwapQuoteExactInput is the client-side quoting wrapper for ExactIn.
func SwapQuoteExactInput(pool *state.Pool, currentPoint, amountIn *big.Int, slippageBps uint16, aToB, hasReferral bool, tokenADecimal, tokenBDecimal uint8) (shared.Quote2Result, error) {
	if amountIn.Sign() <= 0 {
		return shared.Quote2Result{}, ErrAmountIsZero
	}
	if !IsSwapEnabled(pool, currentPoint) {
		return shared.Quote2Result{}, ErrSwapDisabled
	}
	tradeDirection := shared.TradeDirectionAtoB
	if !aToB {
		tradeDirection = shared.TradeDirectionBtoA
	}
	feeMode := GetFeeMode(pool.CollectFeeMode, tradeDirection, hasReferral)
	swapResult, err := GetSwapResultFromExactInput(pool, amountIn, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.Quote2Result{}, err
	}
	minimumAmountOut := getAmountWithSlippage(swapResult.OutputAmount, slippageBps, shared.SwapModeExactIn)
	priceImpact, _ := getPriceImpact(amountIn, swapResult.OutputAmount, pool.SqrtPrice.BigInt(), aToB, tokenADecimal, tokenBDecimal)
	return shared.Quote2Result{SwapResult2: swapResult, MinimumAmountOut: minimumAmountOut, PriceImpact: priceImpact}, nil
}

// SwapQuoteExactOutput is the client-side quoting wrapper for ExactOut.
func SwapQuoteExactOutput(pool *state.Pool, currentPoint, amountOut *big.Int, slippageBps uint16, aToB, hasReferral bool, tokenADecimal, tokenBDecimal uint8) (shared.Quote2Result, error) {
	if amountOut.Sign() <= 0 {
		return shared.Quote2Result{}, ErrAmountIsZero
	}
	if !IsSwapEnabled(pool, currentPoint) {
		return shared.Quote2Result{}, ErrSwapDisabled
	}
	tradeDirection := shared.TradeDirectionAtoB
	if !aToB {
		tradeDirection = shared.TradeDirectionBtoA
	}
	feeMode := GetFeeMode(pool.CollectFeeMode, tradeDirection, hasReferral)
	swapResult, err := GetSwapResultFromExactOutput(pool, amountOut, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.Quote2Result{}, err
	}
	maximumAmountIn := getAmountWithSlippage(swapResult.IncludedFeeInputAmount, slippageBps, shared.SwapModeExactOut)
	priceImpact, _ := getPriceImpact(swapResult.IncludedFeeInputAmount, amountOut, pool.SqrtPrice.BigInt(), aToB, tokenADecimal, tokenBDecimal)
	return shared.Quote2Result{SwapResult2: swapResult, MaximumAmountIn: maximumAmountIn, PriceImpact: priceImpact}, nil
}

// SwapQuotePartialInput is the client-side quoting wrapper for PartialFill.
func SwapQuotePartialInput(pool *state.Pool, currentPoint, amountIn *big.Int, slippageBps uint16, aToB, hasReferral bool, tokenADecimal, tokenBDecimal uint8) (shared.Quote2Result, error) {
	if amountIn.Sign() <= 0 {
		return shared.Quote2Result{}, ErrAmountIsZero
	}
	if !IsSwapEnabled(pool, currentPoint) {
		return shared.Quote2Result{}, ErrSwapDisabled
	}
	tradeDirection := shared.TradeDirectionAtoB
	if !aToB {
		tradeDirection = shared.TradeDirectionBtoA
	}
	feeMode := GetFeeMode(pool.CollectFeeMode, tradeDirection, hasReferral)
	swapResult, err := GetSwapResultFromPartialInput(pool, amountIn, feeMode, tradeDirection, currentPoint)
	if err != nil {
		return shared.Quote2Result{}, err
	}
	minimumAmountOut := getAmountWithSlippage(swapResult.OutputAmount, slippageBps, shared.SwapModePartialFill)
	priceImpact, _ := getPriceImpact(amountIn, swapResult.OutputAmount, pool.SqrtPrice.BigInt(), aToB, tokenADecimal, tokenBDecimal)
	return shared.Quote2Result{SwapResult2: swapResult, MinimumAmountOut: minimumAmountOut, PriceImpact: priceImpact}, nil
}

// IsSwapEnabled reports whether regular (non-whitelisted) swaps are allowed
// at currentPoint.
func IsSwapEnabled(pool *state.Pool, currentPoint *big.Int) bool {
	return pool.IsEnabled() && currentPoint.Cmp(new(big.Int).SetUint64(pool.ActivationPoint)) >= 0
}

func getAmountWithSlippage(amount *big.Int, slippageBps uint16, swapMode shared.SwapMode) *big.Int {
	if slippageBps == 0 {
		return new(big.Int).Set(amount)
	}
	if swapMode == shared.SwapModeExactOut {
		factor := big.NewInt(shared.BasisPointMax + int64(slippageBps))
		return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.BasisPointMax))
	}
	factor := big.NewInt(shared.BasisPointMax - int64(slippageBps))
	return new(big.Int).Div(new(big.Int).Mul(amount, factor), big.NewInt(shared.BasisPointMax))
}

func getPriceImpact(amountIn, amountOut, currentSqrtPrice *big.Int, aToB bool, tokenADecimal, tokenBDecimal uint8) (decimal.Decimal, error) {
	if amountIn.Sign() == 0 {
		return decimal.Zero, nil
	}
	if amountOut.Sign() == 0 {
		return decimal.Zero, ErrAmountIsZero
	}
	spotPrice := GetPriceFromSqrtPrice(currentSqrtPrice, tokenADecimal, tokenBDecimal)
	executionPrice := decimal.NewFromBigInt(amountIn, 0).Div(decimal.NewFromBigInt(amountOut, 0))
	if aToB {
		executionPrice = decimal.NewFromInt(1).Div(executionPrice)
	}
	priceImpact := executionPrice.Sub(spotPrice).Abs().Div(spotPrice).Mul(decimal.NewFromInt(100))
	return priceImpact, nil
}
