package math

import (
	"errors"
	"math/big"

	"github.com/cpammlabs/cpamm-go/cpamm/math/pool_fees"
	"github.com/cpammlabs/cpamm-go/cpamm/shared"
	"github.com/cpammlabs/cpamm-go/cpamm/state"
)

var ErrInvalidFeeNumerator = errors.New("invalid fee numerator")

// GetFeeMode decides which token the trading fee is charged in and whether
// it comes off the input or the output. BothToken charges the output token
// of the trade; OnlyB always denominates fees in token B, which for a B-to-A
// trade means deducting from the input before the curve is applied.
func GetFeeMode(collectFeeMode shared.CollectFeeMode, tradeDirection shared.TradeDirection, hasReferral bool) shared.FeeMode {
	feesOnInput := false
	feesOnTokenA := false
	switch collectFeeMode {
	case shared.CollectFeeModeBothToken:
		if tradeDirection == shared.TradeDirectionBtoA {
			feesOnTokenA = true
		}
	default:
		if tradeDirection == shared.TradeDirectionBtoA {
			feesOnInput = true
		}
	}
	return shared.FeeMode{FeesOnInput: feesOnInput, FeesOnTokenA: feesOnTokenA, HasReferral: hasReferral}
}

// GetTotalFeeNumerator adds the volatility surcharge to the base fee
// numerator, capped at the pool version's maximum.
func GetTotalFeeNumerator(poolFees *state.PoolFeesStruct, baseFeeNumerator, maxFeeNumerator *big.Int) *big.Int {
	dynamicFeeNumerator := big.NewInt(0)
	if poolFees.DynamicFee.IsInitialized() {
		dynamicFeeNumerator = pool_fees.GetDynamicFeeNumerator(
			poolFees.DynamicFee.VolatilityAccumulator.BigInt(),
			big.NewInt(int64(poolFees.DynamicFee.BinStep)),
			big.NewInt(int64(poolFees.DynamicFee.VariableFeeControl)),
		)
	}
	totalFee := new(big.Int).Add(dynamicFeeNumerator, baseFeeNumerator)
	if totalFee.Cmp(maxFeeNumerator) > 0 {
		return new(big.Int).Set(maxFeeNumerator)
	}
	return totalFee
}

func GetTotalTradingFeeFromIncludedFeeAmount(pool *state.Pool, currentPoint, includedFeeAmount *big.Int, tradeDirection shared.TradeDirection) (*big.Int, error) {
	baseFeeHandler, err := pool_fees.GetBaseFeeHandler(pool.PoolFees.BaseFee.Data[:])
	if err != nil {
		return nil, err
	}
	baseFeeNumerator, err := baseFeeHandler.GetBaseFeeNumeratorFromIncludedFeeAmount(
		currentPoint,
		new(big.Int).SetUint64(pool.ActivationPoint),
		tradeDirection,
		includedFeeAmount,
		pool.PoolFees.InitSqrtPrice.BigInt(),
		pool.SqrtPrice.BigInt(),
	)
	if err != nil {
		return nil, err
	}
	return GetTotalFeeNumerator(&pool.PoolFees, baseFeeNumerator, GetMaxFeeNumerator(pool.PoolVersion())), nil
}

func GetTotalTradingFeeFromExcludedFeeAmount(pool *state.Pool, currentPoint, excludedFeeAmount *big.Int, tradeDirection shared.TradeDirection) (*big.Int, error) {
	baseFeeHandler, err := pool_fees.GetBaseFeeHandler(pool.PoolFees.BaseFee.Data[:])
	if err != nil {
		return nil, err
	}
	baseFeeNumerator, err := baseFeeHandler.GetBaseFeeNumeratorFromExcludedFeeAmount(
		currentPoint,
		new(big.Int).SetUint64(pool.ActivationPoint),
		tradeDirection,
		excludedFeeAmount,
		pool.PoolFees.InitSqrtPrice.BigInt(),
		pool.SqrtPrice.BigInt(),
	)
	if err != nil {
		return nil, err
	}
	return GetTotalFeeNumerator(&pool.PoolFees, baseFeeNumerator, GetMaxFeeNumerator(pool.PoolVersion())), nil
}

// SplitFees carves the protocol, referral and partner cuts out of a trading
// fee. Referral is taken from the protocol share before partner, so rounding
// residue always lands with the protocol.
func SplitFees(poolFees *state.PoolFeesStruct, feeAmount *big.Int, hasReferral, hasPartner bool) shared.SplitFees {
	protocolFee := new(big.Int).Mul(feeAmount, big.NewInt(int64(poolFees.ProtocolFeePercent)))
	protocolFee.Div(protocolFee, big.NewInt(100))
	tradingFee := new(big.Int).Sub(feeAmount, protocolFee)
	referralFee := big.NewInt(0)
	if hasReferral {
		referralFee = new(big.Int).Mul(protocolFee, big.NewInt(int64(poolFees.ReferralFeePercent)))
		referralFee.Div(referralFee, big.NewInt(100))
	}
	protocolFeeAfterReferral := new(big.Int).Sub(protocolFee, referralFee)
	partnerFee := big.NewInt(0)
	if hasPartner && poolFees.PartnerFeePercent > 0 {
		partnerFee = new(big.Int).Mul(protocolFeeAfterReferral, big.NewInt(int64(poolFees.PartnerFeePercent)))
		partnerFee.Div(partnerFee, big.NewInt(100))
	}
	finalProtocolFee := new(big.Int).Sub(protocolFeeAfterReferral, partnerFee)
	return shared.SplitFees{
		TradingFee:  tradingFee,
		ProtocolFee: finalProtocolFee,
		ReferralFee: referralFee,
		PartnerFee:  partnerFee,
	}
}

// GetFeeOnAmount prices the trading fee on an included-fee amount and splits
// it.
func GetFeeOnAmount(poolFees *state.PoolFeesStruct, amount, tradeFeeNumerator *big.Int, hasReferral, hasPartner bool) shared.FeeOnAmountResult {
	excludedFeeAmount, tradingFee := GetExcludedFeeAmount(tradeFeeNumerator, amount)
	split := SplitFees(poolFees, tradingFee, hasReferral, hasPartner)
	return shared.FeeOnAmountResult{
		FeeNumerator:   tradeFeeNumerator,
		FeeAmount:      tradingFee,
		AmountAfterFee: excludedFeeAmount,
		TradingFee:     split.TradingFee,
		ProtocolFee:    split.ProtocolFee,
		ReferralFee:    split.ReferralFee,
		PartnerFee:     split.PartnerFee,
	}
}

// GetExcludedFeeAmount deducts the trading fee, rounding the fee up.
func GetExcludedFeeAmount(tradeFeeNumerator, includedFeeAmount *big.Int) (excludedFeeAmount, tradingFee *big.Int) {
	tradingFee = MulDiv(includedFeeAmount, tradeFeeNumerator, big.NewInt(shared.FeeDenominator), shared.RoundingUp)
	excludedFeeAmount = new(big.Int).Sub(includedFeeAmount, tradingFee)
	return excludedFeeAmount, tradingFee
}

// GetIncludedFeeAmount inverts the fee deduction: the smallest gross amount
// whose net is at least excludedFeeAmount.
func GetIncludedFeeAmount(tradeFeeNumerator, excludedFeeAmount *big.Int) (includedFeeAmount, feeAmount *big.Int, err error) {
	denominator := new(big.Int).Sub(big.NewInt(shared.FeeDenominator), tradeFeeNumerator)
	if denominator.Sign() <= 0 {
		return nil, nil, ErrInvalidFeeNumerator
	}
	includedFeeAmount = MulDiv(excludedFeeAmount, big.NewInt(shared.FeeDenominator), denominator, shared.RoundingUp)
	feeAmount = new(big.Int).Sub(includedFeeAmount, excludedFeeAmount)
	return includedFeeAmount, feeAmount, nil
}

func GetMaxFeeNumerator(poolVersion shared.PoolVersion) *big.Int {
	switch poolVersion {
	case shared.PoolVersionV0:
		return big.NewInt(shared.MaxFeeNumeratorV0)
	default:
		return big.NewInt(shared.MaxFeeNumeratorV1)
	}
}

func GetMaxFeeBps(poolVersion shared.PoolVersion) uint16 {
	switch poolVersion {
	case shared.PoolVersionV0:
		return shared.MaxFeeBpsV0
	default:
		return shared.MaxFeeBpsV1
	}
}
