package field

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseValueBases(t *testing.T) {
	engine := &Engine{}

	testcases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"10", 16},
		{"ff", 255},
		{"0x10", 16},
		{"0xff", 255},
		{"0b101", 5},
	}
	for _, tc := range testcases {
		got, err := engine.ParseValue(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, big.NewInt(tc.want), engine.ToBigInt(got), tc.in)
	}

	_, err := engine.ParseValue("zz")
	require.Error(t, err)
	_, err = engine.ParseValue("")
	require.Error(t, err)
}

func TestFromDecimalAndHex(t *testing.T) {
	engine := &Engine{}

	d, err := engine.FromDecimalString("255")
	require.NoError(t, err)
	h, err := engine.FromHexString("ff")
	require.NoError(t, err)
	require.True(t, engine.Equal(d, h))

	_, err = engine.FromDecimalString("ff")
	require.Error(t, err)
	_, err = engine.FromHexString("0xff")
	require.Error(t, err, "hex constants carry no prefix")
}

func TestParseValueReduction(t *testing.T) {
	engine := &Engine{}
	got, err := engine.ParseValue("0x" + ScalarField.Text(16))
	require.NoError(t, err)
	require.True(t, got.IsZero(), "modulus reduces to zero")
}

func TestInverseZero(t *testing.T) {
	engine := &Engine{}

	zero, ok := engine.Inverse(engine.FromInterface(0))
	require.False(t, ok)
	require.True(t, zero.IsZero())

	inv, ok := engine.Inverse(engine.FromInterface(7))
	require.True(t, ok)
	require.True(t, engine.IsOne(engine.Mul(inv, engine.FromInterface(7))))
}

func TestBit(t *testing.T) {
	engine := &Engine{}
	v := engine.FromInterface(0b1011)
	require.EqualValues(t, 1, engine.Bit(v, 0))
	require.EqualValues(t, 1, engine.Bit(v, 1))
	require.EqualValues(t, 0, engine.Bit(v, 2))
	require.EqualValues(t, 1, engine.Bit(v, 3))
	require.EqualValues(t, 0, engine.Bit(v, 4))
}

func TestIsBoolean(t *testing.T) {
	engine := &Engine{}
	require.True(t, engine.IsBoolean(engine.FromInterface(0)))
	require.True(t, engine.IsBoolean(engine.FromInterface(1)))
	require.False(t, engine.IsBoolean(engine.FromInterface(2)))
	require.False(t, engine.IsBoolean(engine.Neg(engine.One())))
}
