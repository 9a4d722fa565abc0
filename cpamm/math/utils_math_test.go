package math

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cpammlabs/cpamm-go/cpamm/shared"
)

func TestMulDiv(t *testing.T) {
	require.Equal(t, big.NewInt(3), MulDiv(big.NewInt(10), big.NewInt(1), big.NewInt(3), shared.RoundingDown))
	require.Equal(t, big.NewInt(4), MulDiv(big.NewInt(10), big.NewInt(1), big.NewInt(3), shared.RoundingUp))
	require.Equal(t, big.NewInt(5), MulDiv(big.NewInt(10), big.NewInt(1), big.NewInt(2), shared.RoundingUp))
	require.Equal(t, big.NewInt(0), MulDiv(big.NewInt(10), big.NewInt(1), big.NewInt(0), shared.RoundingUp))
}

func TestMulDivRoundingGap(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "x"))
		y := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "y"))
		d := new(big.Int).SetUint64(rapid.Uint64Range(1, ^uint64(0)).Draw(t, "d"))

		down := MulDiv(x, y, d, shared.RoundingDown)
		up := MulDiv(x, y, d, shared.RoundingUp)
		gap := new(big.Int).Sub(up, down)
		require.LessOrEqual(t, gap.Cmp(big.NewInt(1)), 0)
		require.GreaterOrEqual(t, gap.Sign(), 0)
	})
}

func TestMulShr(t *testing.T) {
	require.Equal(t, big.NewInt(2), MulShr(big.NewInt(8), big.NewInt(1), 2, shared.RoundingDown))
	require.Equal(t, big.NewInt(2), MulShr(big.NewInt(9), big.NewInt(1), 2, shared.RoundingDown))
	require.Equal(t, big.NewInt(3), MulShr(big.NewInt(9), big.NewInt(1), 2, shared.RoundingUp))
}

func TestShlDiv(t *testing.T) {
	got, err := ShlDiv(big.NewInt(3), big.NewInt(2), 1, shared.RoundingDown)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(3), got)

	got, err = ShlDiv(big.NewInt(3), big.NewInt(4), 1, shared.RoundingUp)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(2), got)

	_, err = ShlDiv(big.NewInt(3), big.NewInt(0), 1, shared.RoundingDown)
	require.ErrorIs(t, err, ErrMathOverflow)
}

func TestToU64(t *testing.T) {
	v, err := ToU64(new(big.Int).Set(shared.U64Max))
	require.NoError(t, err)
	require.Equal(t, ^uint64(0), v)

	_, err = ToU64(new(big.Int).Add(shared.U64Max, big.NewInt(1)))
	require.ErrorIs(t, err, ErrTypeCastFailed)

	_, err = ToU64(big.NewInt(-1))
	require.ErrorIs(t, err, ErrTypeCastFailed)
}

func TestSqrt(t *testing.T) {
	require.Equal(t, big.NewInt(0), Sqrt(big.NewInt(0)))
	require.Equal(t, big.NewInt(1), Sqrt(big.NewInt(1)))
	require.Equal(t, big.NewInt(4), Sqrt(big.NewInt(16)))
	require.Equal(t, big.NewInt(4), Sqrt(big.NewInt(24)))
	require.Equal(t, big.NewInt(5), Sqrt(big.NewInt(25)))

	rapid.Check(t, func(t *rapid.T) {
		v := new(big.Int).SetUint64(rapid.Uint64().Draw(t, "v"))
		root := Sqrt(v)
		square := new(big.Int).Mul(root, root)
		require.LessOrEqual(t, square.Cmp(v), 0)
		next := new(big.Int).Add(root, big.NewInt(1))
		next.Mul(next, next)
		require.Greater(t, next.Cmp(v), 0)
	})
}

func TestPow(t *testing.T) {
	require.Equal(t, shared.OneQ64, Pow(big.NewInt(12345), big.NewInt(0)))

	half := new(big.Int).Rsh(shared.OneQ64, 1)
	require.Equal(t, half, Pow(half, big.NewInt(1)))
	require.Equal(t, new(big.Int).Rsh(shared.OneQ64, 2), Pow(half, big.NewInt(2)))

	// Exponents past the supported range collapse to zero.
	tooBig := new(big.Int).Add(shared.MaxExponential, big.NewInt(1))
	require.Equal(t, big.NewInt(0), Pow(half, tooBig))
}

func TestQ64DecimalRoundTrip(t *testing.T) {
	price := decimal.RequireFromString("1.5")
	q := DecimalToQ64(price)
	require.Equal(t, new(big.Int).Add(shared.OneQ64, new(big.Int).Rsh(shared.OneQ64, 1)), q)
	require.True(t, Q64ToDecimal(q, -1).Equal(price))
}
