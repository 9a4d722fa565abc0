package state

import (
	"bytes"
	"errors"
	"math/big"

	binary "github.com/gagliardetto/binary"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

// Accumulator values (fee-per-liquidity, reward-per-token) are stored as
// 32-byte little-endian u256 words so they never saturate over a pool's life.

func U256ToBig(b [32]uint8) *big.Int {
	be := make([]byte, 32)
	for i := 0; i < 32; i++ {
		be[31-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}

func BigToU256(v *big.Int) ([32]uint8, error) {
	var out [32]uint8
	if v.Sign() < 0 || v.BitLen() > 256 {
		return out, errors.New("value out of u256 range")
	}
	be := v.FillBytes(make([]byte, 32))
	for i := 0; i < 32; i++ {
		out[i] = be[31-i]
	}
	return out, nil
}

func U128FromBig(v *big.Int) (binary.Uint128, error) {
	if v == nil {
		return binary.Uint128{}, nil
	}
	if v.Sign() < 0 || v.Cmp(shared.MaxU128) > 0 {
		return binary.Uint128{}, errors.New("value out of u128 range")
	}
	lo := new(big.Int).And(v, new(big.Int).SetUint64(^uint64(0))).Uint64()
	hi := new(big.Int).Rsh(v, 64).Uint64()
	return binary.Uint128{Lo: lo, Hi: hi}, nil
}

func mustU128(v *big.Int) binary.Uint128 {
	out, err := U128FromBig(v)
	if err != nil {
		panic(err)
	}
	return out
}

// DecodePool deserializes a borsh-encoded pool account.
func DecodePool(data []byte) (*Pool, error) {
	var out Pool
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func EncodePool(pool *Pool) ([]byte, error) {
	return marshalBorsh(pool)
}

func DecodePosition(data []byte) (*Position, error) {
	var out Position
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func EncodePosition(position *Position) ([]byte, error) {
	return marshalBorsh(position)
}

func DecodeVesting(data []byte) (*Vesting, error) {
	var out Vesting
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func EncodeVesting(vesting *Vesting) ([]byte, error) {
	return marshalBorsh(vesting)
}

func DecodeConfig(data []byte) (*Config, error) {
	var out Config
	if err := binary.NewBorshDecoder(data).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func EncodeConfig(config *Config) ([]byte, error) {
	return marshalBorsh(config)
}

func marshalBorsh(v interface{}) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := binary.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
