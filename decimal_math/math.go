package decimal_math

import (
	"math/big"

	"github.com/shopspring/decimal"
)

var q64 = decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), 64), 0)

// ToX64 scales x by 2^64 and truncates to an integer.
func ToX64(x decimal.Decimal) *big.Int {
	return x.Mul(q64).Floor().BigInt()
}

// FromX64 divides a Q64.64 fixed point value by 2^64.
func FromX64(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, 0).DivRound(q64, 40)
}
