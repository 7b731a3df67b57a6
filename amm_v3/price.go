package amm_v3

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/clmm-cli/decimal_math"
	"github.com/shopspring/decimal"
)

const sqrtPrecision = 256

// PriceToSqrtPriceX64 converts a human price of token 0 in token 1 into the
// pool's Q64.64 sqrt price, adjusting for mint decimals.
func PriceToSqrtPriceX64(price decimal.Decimal, decimals0, decimals1 uint8) (*big.Int, error) {
	if !price.IsPositive() {
		return nil, fmt.Errorf("%s: %w", price, ErrInvalidPrice)
	}
	scaled := price.Shift(int32(decimals1) - int32(decimals0))
	root, err := decimal_math.Sqrt(scaled, sqrtPrecision)
	if err != nil {
		return nil, err
	}
	return decimal_math.ToX64(root), nil
}

// SqrtPriceX64ToPrice is the inverse of PriceToSqrtPriceX64.
func SqrtPriceX64ToPrice(sqrtPriceX64 *big.Int, decimals0, decimals1 uint8) decimal.Decimal {
	root := decimal_math.FromX64(sqrtPriceX64)
	return root.Mul(root).Shift(int32(decimals0) - int32(decimals1))
}

// TickAtPrice maps a price to the nearest usable tick at or below it.
func TickAtPrice(price decimal.Decimal, decimals0, decimals1 uint8, spacing uint16) (int32, error) {
	if spacing == 0 {
		return 0, ErrInvalidTickSpacing
	}
	sqrtPriceX64, err := PriceToSqrtPriceX64(price, decimals0, decimals1)
	if err != nil {
		return 0, err
	}
	tick, err := TickAtSqrtPriceX64(sqrtPriceX64)
	if err != nil {
		return 0, err
	}
	return TickWithSpacing(tick, spacing), nil
}

// AmountWithSlippage widens amount by slippage: rounded up when up is set,
// otherwise shrunk and rounded down.
func AmountWithSlippage(amount uint64, slippage float64, up bool) (uint64, error) {
	s := decimal.NewFromFloat(slippage)
	a := decimal.NewFromBigInt(new(big.Int).SetUint64(amount), 0)
	var v decimal.Decimal
	if up {
		v = a.Mul(decimal.NewFromInt(1).Add(s)).Ceil()
	} else {
		v = a.Mul(decimal.NewFromInt(1).Sub(s)).Floor()
	}
	if v.IsNegative() {
		return 0, nil
	}
	return toUint64(v.BigInt())
}
