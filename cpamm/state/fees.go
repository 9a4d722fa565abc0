package state

import (
	"math/big"

	binary "github.com/gagliardetto/binary"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// BaseFeeStruct is the pod-aligned base fee blob embedded in the pool
// account. Byte 8 tags the base fee mode; the layout of the rest depends on
// the mode and is decoded through the pool_fees handlers.
type BaseFeeStruct struct {
	Data [32]uint8
}

func (b BaseFeeStruct) CliffFeeNumerator() uint64 {
	var out uint64
	for i := 7; i >= 0; i-- {
		out = out<<8 | uint64(b.Data[i])
	}
	return out
}

func (b BaseFeeStruct) Mode() shared.BaseFeeMode {
	return shared.BaseFeeMode(b.Data[8])
}

// DynamicFeeStruct tracks price volatility between swaps and prices the
// variable fee surcharge from it.
type DynamicFeeStruct struct {
	Initialized              uint8
	Padding                  [7]uint8
	MaxVolatilityAccumulator uint32
	VariableFeeControl       uint32
	BinStep                  uint16
	FilterPeriod             uint16
	DecayPeriod              uint16
	ReductionFactor          uint16
	LastUpdateTimestamp      uint64
	BinStepU128              binary.Uint128
	SqrtPriceReference       binary.Uint128
	VolatilityAccumulator    binary.Uint128
	VolatilityReference      binary.Uint128
}

func (d *DynamicFeeStruct) IsInitialized() bool {
	return d.Initialized != 0
}

// UpdateReferences snaps the reference price when the quiet period has
// elapsed and decays (or zeroes) the volatility reference.
func (d *DynamicFeeStruct) UpdateReferences(sqrtPrice *big.Int, currentTimestamp uint64) error {
	if !d.IsInitialized() {
		return nil
	}
	if currentTimestamp < d.LastUpdateTimestamp {
		return nil
	}
	elapsed := currentTimestamp - d.LastUpdateTimestamp
	if elapsed >= uint64(d.FilterPeriod) {
		ref, err := U128FromBig(sqrtPrice)
		if err != nil {
			return err
		}
		d.SqrtPriceReference = ref
		if elapsed < uint64(d.DecayPeriod) {
			decayed := new(big.Int).Mul(d.VolatilityAccumulator.BigInt(), big.NewInt(int64(d.ReductionFactor)))
			decayed.Div(decayed, big.NewInt(shared.BasisPointMax))
			vr, err := U128FromBig(decayed)
			if err != nil {
				return err
			}
			d.VolatilityReference = vr
		} else {
			d.VolatilityReference = binary.Uint128{}
		}
	}
	return nil
}

// UpdateVolatilityAccumulator folds the latest price excursion from the
// reference into the accumulator, capped by the configured maximum.
func (d *DynamicFeeStruct) UpdateVolatilityAccumulator(sqrtPrice *big.Int) error {
	if !d.IsInitialized() {
		return nil
	}
	deltaBinID := d.GetDeltaBinID(sqrtPrice)
	accumulator := new(big.Int).Add(
		d.VolatilityReference.BigInt(),
		new(big.Int).Mul(deltaBinID, big.NewInt(shared.BasisPointMax)),
	)
	maxAccumulator := new(big.Int).SetUint64(uint64(d.MaxVolatilityAccumulator))
	if accumulator.Cmp(maxAccumulator) > 0 {
		accumulator = maxAccumulator
	}
	va, err := U128FromBig(accumulator)
	if err != nil {
		return err
	}
	d.VolatilityAccumulator = va
	return nil
}

// GetDeltaBinID measures the price excursion as a count of half bin steps.
func (d *DynamicFeeStruct) GetDeltaBinID(sqrtPrice *big.Int) *big.Int {
	reference := d.SqrtPriceReference.BigInt()
	delta := new(big.Int).Sub(sqrtPrice, reference)
	delta.Abs(delta)
	binStep := d.BinStepU128.BigInt()
	if binStep.Sign() == 0 {
		return big.NewInt(0)
	}
	delta.Div(delta, binStep)
	return delta.Mul(delta, big.NewInt(2))
}

// PoolFeesStruct bundles the base fee blob, the protocol/partner/referral
// percentage cuts and the dynamic fee state.
type PoolFeesStruct struct {
	BaseFee            BaseFeeStruct
	ProtocolFeePercent uint8
	PartnerFeePercent  uint8
	ReferralFeePercent uint8
	Padding0           [5]uint8
	DynamicFee         DynamicFeeStruct
	InitSqrtPrice      binary.Uint128
	Padding1           [2]uint64
}
