package amm_v3

import (
	"fmt"
	"math"
	"math/big"
)

func mulDivFloor(a, b, denominator *big.Int) *big.Int {
	n := new(big.Int).Mul(a, b)
	return n.Quo(n, denominator)
}

func mulDivCeil(a, b, denominator *big.Int) *big.Int {
	n := new(big.Int).Mul(a, b)
	q, r := new(big.Int).QuoRem(n, denominator, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	return q
}

func ordered(a, b *big.Int) (*big.Int, *big.Int) {
	if a.Cmp(b) > 0 {
		return b, a
	}
	return a, b
}

// DeltaAmount0 returns liquidity * (sqrtB - sqrtA) / (sqrtA * sqrtB) in Q64.64.
func DeltaAmount0(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	if sqrtA.Sign() <= 0 {
		return new(big.Int)
	}
	numerator := new(big.Int).Lsh(liquidity, 64)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return mulDivCeil(mulDivCeil(numerator, diff, sqrtB), big.NewInt(1), sqrtA)
	}
	v := mulDivFloor(numerator, diff, sqrtB)
	return v.Quo(v, sqrtA)
}

// DeltaAmount1 returns liquidity * (sqrtB - sqrtA) in Q64.64.
func DeltaAmount1(sqrtA, sqrtB, liquidity *big.Int, roundUp bool) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if roundUp {
		return mulDivCeil(liquidity, diff, Q64)
	}
	return mulDivFloor(liquidity, diff, Q64)
}

// LiquidityFromAmount0 is the liquidity provided by amount of token 0 over [sqrtA, sqrtB].
func LiquidityFromAmount0(sqrtA, sqrtB *big.Int, amount uint64) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if diff.Sign() == 0 {
		return new(big.Int)
	}
	intermediate := mulDivFloor(sqrtA, sqrtB, Q64)
	return mulDivFloor(new(big.Int).SetUint64(amount), intermediate, diff)
}

// LiquidityFromAmount1 is the liquidity provided by amount of token 1 over [sqrtA, sqrtB].
func LiquidityFromAmount1(sqrtA, sqrtB *big.Int, amount uint64) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	diff := new(big.Int).Sub(sqrtB, sqrtA)
	if diff.Sign() == 0 {
		return new(big.Int)
	}
	return mulDivFloor(new(big.Int).SetUint64(amount), Q64, diff)
}

// LiquidityFromSingleAmount0 computes liquidity when token 0 is the base
// amount. Above the range no token 0 is needed and the result is zero.
func LiquidityFromSingleAmount0(sqrtCurrent, sqrtA, sqrtB *big.Int, amount uint64) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	switch {
	case sqrtCurrent.Cmp(sqrtA) <= 0:
		return LiquidityFromAmount0(sqrtA, sqrtB, amount)
	case sqrtCurrent.Cmp(sqrtB) < 0:
		return LiquidityFromAmount0(sqrtCurrent, sqrtB, amount)
	default:
		return new(big.Int)
	}
}

// LiquidityFromSingleAmount1 computes liquidity when token 1 is the base
// amount. Below the range no token 1 is needed and the result is zero.
func LiquidityFromSingleAmount1(sqrtCurrent, sqrtA, sqrtB *big.Int, amount uint64) *big.Int {
	sqrtA, sqrtB = ordered(sqrtA, sqrtB)
	switch {
	case sqrtCurrent.Cmp(sqrtA) <= 0:
		return new(big.Int)
	case sqrtCurrent.Cmp(sqrtB) < 0:
		return LiquidityFromAmount1(sqrtA, sqrtCurrent, amount)
	default:
		return LiquidityFromAmount1(sqrtA, sqrtB, amount)
	}
}

// DeltaAmounts returns the token amounts moved when liquidityDelta is added
// to (positive, rounded up) or removed from (negative, rounded down) the
// range [tickLower, tickUpper].
func DeltaAmounts(tickCurrent int32, sqrtCurrent *big.Int, tickLower, tickUpper int32, liquidityDelta *big.Int) (amount0, amount1 uint64, err error) {
	if tickLower >= tickUpper {
		return 0, 0, fmt.Errorf("[%d, %d]: %w", tickLower, tickUpper, ErrInvalidTickRange)
	}
	sqrtLower, err := SqrtPriceX64AtTick(tickLower)
	if err != nil {
		return 0, 0, err
	}
	sqrtUpper, err := SqrtPriceX64AtTick(tickUpper)
	if err != nil {
		return 0, 0, err
	}

	roundUp := liquidityDelta.Sign() > 0
	liquidity := new(big.Int).Abs(liquidityDelta)

	a0, a1 := new(big.Int), new(big.Int)
	switch {
	case tickCurrent < tickLower:
		a0 = DeltaAmount0(sqrtLower, sqrtUpper, liquidity, roundUp)
	case tickCurrent < tickUpper:
		a0 = DeltaAmount0(sqrtCurrent, sqrtUpper, liquidity, roundUp)
		a1 = DeltaAmount1(sqrtLower, sqrtCurrent, liquidity, roundUp)
	default:
		a1 = DeltaAmount1(sqrtLower, sqrtUpper, liquidity, roundUp)
	}

	if amount0, err = toUint64(a0); err != nil {
		return 0, 0, err
	}
	if amount1, err = toUint64(a1); err != nil {
		return 0, 0, err
	}
	return amount0, amount1, nil
}

func toUint64(v *big.Int) (uint64, error) {
	if v.Sign() < 0 || v.Cmp(new(big.Int).SetUint64(math.MaxUint64)) > 0 {
		return 0, fmt.Errorf("%s: %w", v, ErrAmountOverflow)
	}
	return v.Uint64(), nil
}
