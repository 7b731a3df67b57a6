package amm_v3

import (
	"fmt"
	"math/big"

	cosmath "cosmossdk.io/math"
)

// ratios[i] is sqrt(1.0001^-(2^i)) as a Q64.64 value.
var ratios = [19]uint64{
	0xfffcb933bd6fb800, 0xfff97272373d4000, 0xfff2e50f5f657000, 0xffe5caca7e10f000,
	0xffcb9843d60f7000, 0xff973b41fa98e800, 0xff2ea16466c9b000, 0xfe5dee046a9a3800,
	0xfcbe86c7900bb000, 0xf987a7253ac65800, 0xf3392b0822bb6000, 0xe7159475a2caf000,
	0xd097f3bdfd2f2000, 0xa9f746462d9f8000, 0x70d869a156f31c00, 0x31be135f97ed3200,
	0x09aa508b5b85a500, 0x005d6af8dedc582c, 0x00002216e584f5fa,
}

var (
	q64Int        = cosmath.NewIntFromBigInt(Q64)
	maxUint128Int = cosmath.NewIntFromBigInt(MaxUint128)
)

// log2(sqrt(1.0001)) in Q32.64 and the error bounds used to bracket a tick.
var (
	log2Sqrt10001   = big.NewInt(59543866431248)
	tickLowBound    = big.NewInt(184467440737095516)
	tickHighBound   = mustBig("15793534762490258745")
	log2Precision   = 16
	log2FirstBitX64 = new(big.Int).Lsh(big.NewInt(1), 63)
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid integer " + s)
	}
	return v
}

func mulShift64(val cosmath.Int, by uint64) cosmath.Int {
	return val.Mul(cosmath.NewIntFromUint64(by)).Quo(q64Int)
}

// SqrtPriceX64AtTick returns sqrt(1.0001^tick) as a Q64.64 value.
func SqrtPriceX64AtTick(tick int32) (*big.Int, error) {
	if tick < MinTick || tick > MaxTick {
		return nil, fmt.Errorf("tick %d: %w", tick, ErrTickOutOfRange)
	}
	abs := uint32(tick)
	if tick < 0 {
		abs = uint32(-tick)
	}

	ratio := q64Int
	if abs&1 != 0 {
		ratio = cosmath.NewIntFromUint64(ratios[0])
	}
	for i := 1; i < len(ratios); i++ {
		if abs&(1<<i) != 0 {
			ratio = mulShift64(ratio, ratios[i])
		}
	}
	if tick > 0 {
		ratio = maxUint128Int.Quo(ratio)
	}
	return ratio.BigInt(), nil
}

// TickAtSqrtPriceX64 returns the greatest tick whose sqrt price is not above sqrtPriceX64.
func TickAtSqrtPriceX64(sqrtPriceX64 *big.Int) (int32, error) {
	if sqrtPriceX64 == nil || sqrtPriceX64.Cmp(MinSqrtPriceX64) < 0 || sqrtPriceX64.Cmp(MaxSqrtPriceX64) >= 0 {
		return 0, fmt.Errorf("sqrt price %v: %w", sqrtPriceX64, ErrSqrtPriceOutOfRange)
	}

	msb := sqrtPriceX64.BitLen() - 1
	log2 := big.NewInt(int64(msb - 64))
	log2.Lsh(log2, 32)

	r := new(big.Int)
	if msb >= 64 {
		r.Rsh(sqrtPriceX64, uint(msb-63))
	} else {
		r.Lsh(sqrtPriceX64, uint(63-msb))
	}

	fraction := new(big.Int)
	bit := new(big.Int).Set(log2FirstBitX64)
	for i := 0; i < log2Precision && bit.Sign() > 0; i++ {
		r.Mul(r, r)
		top := r.Bit(127)
		r.Rsh(r, uint(63+top))
		if top == 1 {
			fraction.Add(fraction, bit)
		}
		bit.Rsh(bit, 1)
	}
	log2.Add(log2, fraction.Rsh(fraction, 32))

	logSqrt10001 := new(big.Int).Mul(log2, log2Sqrt10001)
	low := new(big.Int).Sub(logSqrt10001, tickLowBound)
	low.Rsh(low, 64)
	high := new(big.Int).Add(logSqrt10001, tickHighBound)
	high.Rsh(high, 64)

	tickLow, tickHigh := int32(low.Int64()), int32(high.Int64())
	if tickLow == tickHigh {
		return tickLow, nil
	}
	sqrtHigh, err := SqrtPriceX64AtTick(tickHigh)
	if err != nil {
		return tickLow, nil
	}
	if sqrtHigh.Cmp(sqrtPriceX64) <= 0 {
		return tickHigh, nil
	}
	return tickLow, nil
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// TickWithSpacing rounds tick down to a multiple of spacing.
func TickWithSpacing(tick int32, spacing uint16) int32 {
	s := int32(spacing)
	return floorDiv(tick, s) * s
}

// TickArrayStartIndex returns the start tick of the array holding tick.
func TickArrayStartIndex(tick int32, spacing uint16) int32 {
	width := int32(spacing) * TickArraySize
	return floorDiv(tick, width) * width
}

// CheckTickRange validates a position's tick bounds.
func CheckTickRange(lower, upper int32, spacing uint16) error {
	if spacing == 0 {
		return ErrInvalidTickSpacing
	}
	if lower >= upper {
		return fmt.Errorf("[%d, %d]: %w", lower, upper, ErrInvalidTickRange)
	}
	if lower < MinTick || upper > MaxTick {
		return fmt.Errorf("[%d, %d]: %w", lower, upper, ErrTickOutOfRange)
	}
	return nil
}
