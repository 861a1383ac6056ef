package wideint

import (
	"math/big"
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"
)

func TestMulDiv(t *testing.T) {
	maxU256 := math.NewIntFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)))

	tests := []struct {
		name    string
		x, y, d math.Int
		want    math.Int
		wantErr error
	}{
		{"exact", math.NewInt(1000), math.NewInt(3000), math.NewInt(2000), math.NewInt(1500), nil},
		{"floors", math.NewInt(10), math.NewInt(1), math.NewInt(3), math.NewInt(3), nil},
		{"zero numerator", math.ZeroInt(), math.NewInt(7), math.NewInt(3), math.ZeroInt(), nil},
		{"wide intermediate", maxU256, maxU256, maxU256, maxU256, nil},
		{"division by zero", math.NewInt(1), math.NewInt(1), math.ZeroInt(), math.ZeroInt(), ErrDivisionByZero},
		{"negative", math.NewInt(-1), math.NewInt(1), math.NewInt(1), math.ZeroInt(), ErrNegative},
		{"result overflow", maxU256, maxU256, math.NewInt(1), math.ZeroInt(), ErrOverflow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MulDiv(tc.x, tc.y, tc.d)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, tc.want.Equal(got), "want %s got %s", tc.want, got)
		})
	}
}

func TestMulDivUp(t *testing.T) {
	got, err := MulDivUp(math.NewInt(10), math.NewInt(1), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "4", got.String())

	got, err = MulDivUp(math.NewInt(9), math.NewInt(1), math.NewInt(3))
	require.NoError(t, err)
	require.Equal(t, "3", got.String())
}

func TestMulBps(t *testing.T) {
	got, err := MulBps(math.NewInt(1000), 7000)
	require.NoError(t, err)
	require.Equal(t, "700", got.String())

	got, err = MulBps(math.NewInt(1), 3333)
	require.NoError(t, err)
	require.True(t, got.IsZero())
}
