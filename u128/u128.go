package u128

import (
	"errors"
	"fmt"
	"math/big"

	binary "github.com/gagliardetto/binary"
	"lukechampine.com/uint128"
)

var ErrOverflow = errors.New("value overflows u128")

// Parse reads a base-10 unsigned 128-bit integer.
func Parse(s string) (binary.Uint128, error) {
	v, err := uint128.FromString(s)
	if err != nil {
		return binary.Uint128{}, fmt.Errorf("parse u128 %q: %w", s, err)
	}
	return binary.Uint128{Lo: v.Lo, Hi: v.Hi, Endianness: binary.LE}, nil
}

// FromBig converts a non-negative big.Int that fits in 128 bits.
func FromBig(v *big.Int) (binary.Uint128, error) {
	if v == nil {
		return binary.Uint128{Endianness: binary.LE}, nil
	}
	if v.Sign() < 0 || v.BitLen() > 128 {
		return binary.Uint128{}, fmt.Errorf("%s: %w", v, ErrOverflow)
	}
	u := uint128.FromBig(new(big.Int).Set(v))
	return binary.Uint128{Lo: u.Lo, Hi: u.Hi, Endianness: binary.LE}, nil
}

func ToBig(v binary.Uint128) *big.Int {
	return uint128.New(v.Lo, v.Hi).Big()
}

func IsZero(v binary.Uint128) bool {
	return v.Lo == 0 && v.Hi == 0
}
