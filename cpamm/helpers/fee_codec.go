package helpers

import (
	"bytes"
	"errors"

	binary "github.com/gagliardetto/binary"
)

// Base fee parameters travel in two borsh layouts: the compact parameter form
// used when configuring a pool, and the 32-byte pod-aligned form embedded in
// the pool account. Byte 8 of the pod form is the base fee mode tag.

type BorshFeeTimeScheduler struct {
	CliffFeeNumerator uint64
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
	BaseFeeMode       uint8
	Padding           [3]uint8
}

type BorshFeeRateLimiter struct {
	CliffFeeNumerator  uint64
	FeeIncrementBps    uint16
	MaxLimiterDuration uint32
	ReferenceAmount    uint64
	MaxFeeBps          uint16
	BaseFeeMode        uint8
	Padding            [3]uint8
}

type BorshFeeMarketCapScheduler struct {
	CliffFeeNumerator           uint64
	NumberOfPeriod              uint16
	SqrtPriceStepBps            uint32
	SchedulerExpirationDuration uint32
	ReductionFactor             uint64
	BaseFeeMode                 uint8
	Padding                     [3]uint8
}

type PodAlignedFeeTimeScheduler struct {
	CliffFeeNumerator uint64
	BaseFeeMode       uint8
	Padding           [5]uint8
	NumberOfPeriod    uint16
	PeriodFrequency   uint64
	ReductionFactor   uint64
}

type PodAlignedFeeRateLimiter struct {
	CliffFeeNumerator  uint64
	BaseFeeMode        uint8
	Padding            [1]uint8
	FeeIncrementBps    uint16
	MaxLimiterDuration uint32
	ReferenceAmount    uint64
	MaxFeeBps          uint64
}

type PodAlignedFeeMarketCapScheduler struct {
	CliffFeeNumerator           uint64
	BaseFeeMode                 uint8
	Padding                     [1]uint8
	NumberOfPeriod              uint16
	SqrtPriceStepBps            uint32
	SchedulerExpirationDuration uint32
	ReductionFactor             uint64
	Padding1                    [4]uint8
}

// BaseFeeBlobSize is the pod-aligned account representation size.
const BaseFeeBlobSize = 32

func marshalBorsh(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toBlob(data []byte) ([BaseFeeBlobSize]uint8, error) {
	var blob [BaseFeeBlobSize]uint8
	if len(data) != BaseFeeBlobSize {
		return blob, errors.New("base fee blob must be 32 bytes")
	}
	copy(blob[:], data)
	return blob, nil
}

func EncodeFeeTimeScheduler(s PodAlignedFeeTimeScheduler) ([BaseFeeBlobSize]uint8, error) {
	data, err := marshalBorsh(&s)
	if err != nil {
		return [BaseFeeBlobSize]uint8{}, err
	}
	return toBlob(data)
}

func EncodeFeeRateLimiter(s PodAlignedFeeRateLimiter) ([BaseFeeBlobSize]uint8, error) {
	data, err := marshalBorsh(&s)
	if err != nil {
		return [BaseFeeBlobSize]uint8{}, err
	}
	return toBlob(data)
}

func EncodeFeeMarketCapScheduler(s PodAlignedFeeMarketCapScheduler) ([BaseFeeBlobSize]uint8, error) {
	data, err := marshalBorsh(&s)
	if err != nil {
		return [BaseFeeBlobSize]uint8{}, err
	}
	return toBlob(data)
}

func DecodeFeeTimeScheduler(data []byte) (PodAlignedFeeTimeScheduler, error) {
	var out PodAlignedFeeTimeScheduler
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return PodAlignedFeeTimeScheduler{}, err
	}
	return out, nil
}

func DecodeFeeRateLimiter(data []byte) (PodAlignedFeeRateLimiter, error) {
	var out PodAlignedFeeRateLimiter
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return PodAlignedFeeRateLimiter{}, err
	}
	return out, nil
}

func DecodeFeeMarketCapScheduler(data []byte) (PodAlignedFeeMarketCapScheduler, error) {
	var out PodAlignedFeeMarketCapScheduler
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return PodAlignedFeeMarketCapScheduler{}, err
	}
	return out, nil
}

func EncodeFeeTimeSchedulerParams(p BorshFeeTimeScheduler) ([]byte, error) {
	return marshalBorsh(&p)
}

func DecodeFeeTimeSchedulerParams(data []byte) (BorshFeeTimeScheduler, error) {
	var out BorshFeeTimeScheduler
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return BorshFeeTimeScheduler{}, err
	}
	return out, nil
}

func EncodeFeeRateLimiterParams(p BorshFeeRateLimiter) ([]byte, error) {
	return marshalBorsh(&p)
}

func DecodeFeeRateLimiterParams(data []byte) (BorshFeeRateLimiter, error) {
	var out BorshFeeRateLimiter
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return BorshFeeRateLimiter{}, err
	}
	return out, nil
}

func EncodeFeeMarketCapSchedulerParams(p BorshFeeMarketCapScheduler) ([]byte, error) {
	return marshalBorsh(&p)
}

func DecodeFeeMarketCapSchedulerParams(data []byte) (BorshFeeMarketCapScheduler, error) {
	var out BorshFeeMarketCapScheduler
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return BorshFeeMarketCapScheduler{}, err
	}
	return out, nil
}
