// Package wideint provides multiply-then-divide on non-negative integers
// with a 512-bit intermediate product, so share and value conversions never
// lose precision to an intermediate overflow.
package wideint

import (
	"errors"
	"math/big"

	"cosmossdk.io/math"
	"github.com/holiman/uint256"
)

var (
	ErrDivisionByZero = errors.New("wideint: division by zero")
	ErrNegative       = errors.New("wideint: negative operand")
	ErrOverflow       = errors.New("wideint: operand or result exceeds 256 bits")
)

// MulDiv returns floor(x * y / d).
func MulDiv(x, y, d math.Int) (math.Int, error) {
	if d.IsZero() {
		return math.ZeroInt(), ErrDivisionByZero
	}
	if x.IsNegative() || y.IsNegative() || d.IsNegative() {
		return math.ZeroInt(), ErrNegative
	}
	ux, overflow := uint256.FromBig(x.BigInt())
	if overflow {
		return math.ZeroInt(), ErrOverflow
	}
	uy, overflow := uint256.FromBig(y.BigInt())
	if overflow {
		return math.ZeroInt(), ErrOverflow
	}
	ud, overflow := uint256.FromBig(d.BigInt())
	if overflow {
		return math.ZeroInt(), ErrOverflow
	}

	z, overflow := new(uint256.Int).MulDivOverflow(ux, uy, ud)
	if overflow {
		return math.ZeroInt(), ErrOverflow
	}
	return math.NewIntFromBigInt(z.ToBig()), nil
}

// MulDivUp returns ceil(x * y / d).
func MulDivUp(x, y, d math.Int) (math.Int, error) {
	q, err := MulDiv(x, y, d)
	if err != nil {
		return q, err
	}
	rem := new(big.Int).Mul(x.BigInt(), y.BigInt())
	if rem.Mod(rem, d.BigInt()).Sign() != 0 {
		q = q.AddRaw(1)
	}
	return q, nil
}

// MulBps returns floor(amount * bps / 10000).
func MulBps(amount math.Int, bps uint32) (math.Int, error) {
	return MulDiv(amount, math.NewIntFromUint64(uint64(bps)), math.NewInt(BpsDenominator))
}

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10_000
