package clmm

import (
	"fmt"
	"math/big"

	"github.com/krazyTry/clmm-cli/amm_v3"
	"github.com/krazyTry/clmm-cli/solana/token2022"
	"github.com/krazyTry/clmm-cli/u128"

	"github.com/shopspring/decimal"
)

// LiquidityQuote is the outcome of pricing a liquidity change locally.
// Amount0/Amount1 are the raw deltas; the limits include slippage and the
// Token-2022 transfer fee (maximums when adding, minimums when removing).
type LiquidityQuote struct {
	TickLower    int32
	TickUpper    int32
	Liquidity    *big.Int
	Amount0      uint64
	Amount1      uint64
	Amount0Limit uint64
	Amount1Limit uint64
}

// PositionTicks converts a price range into usable ticks of pool.
func PositionTicks(pool *amm_v3.PoolState, lowerPrice, upperPrice decimal.Decimal) (int32, int32, error) {
	tickLower, err := amm_v3.TickAtPrice(lowerPrice, pool.MintDecimals0, pool.MintDecimals1, pool.TickSpacing)
	if err != nil {
		return 0, 0, fmt.Errorf("lower price %s: %w", lowerPrice, err)
	}
	tickUpper, err := amm_v3.TickAtPrice(upperPrice, pool.MintDecimals0, pool.MintDecimals1, pool.TickSpacing)
	if err != nil {
		return 0, 0, fmt.Errorf("upper price %s: %w", upperPrice, err)
	}
	if err = amm_v3.CheckTickRange(tickLower, tickUpper, pool.TickSpacing); err != nil {
		return 0, 0, fmt.Errorf("ticks: %w", err)
	}
	return tickLower, tickUpper, nil
}

// QuoteIncrease prices adding amount0 of token 0 to [tickLower, tickUpper].
func QuoteIncrease(
	pool *amm_v3.PoolState,
	tickLower, tickUpper int32,
	amount0 uint64,
	slippage float64,
	mint0, mint1 *token2022.MintInfo,
) (*LiquidityQuote, error) {
	sqrtLower, err := amm_v3.SqrtPriceX64AtTick(tickLower)
	if err != nil {
		return nil, err
	}
	sqrtUpper, err := amm_v3.SqrtPriceX64AtTick(tickUpper)
	if err != nil {
		return nil, err
	}
	sqrtCurrent := u128.ToBig(pool.SqrtPriceX64)

	liquidity := amm_v3.LiquidityFromSingleAmount0(sqrtCurrent, sqrtLower, sqrtUpper, amount0)
	if liquidity.Sign() == 0 {
		return nil, fmt.Errorf("token 0 amount %d in [%d, %d]: %w", amount0, tickLower, tickUpper, ErrZeroLiquidity)
	}

	q := &LiquidityQuote{TickLower: tickLower, TickUpper: tickUpper, Liquidity: liquidity}
	if q.Amount0, q.Amount1, err = amm_v3.DeltaAmounts(pool.TickCurrent, sqrtCurrent, tickLower, tickUpper, liquidity); err != nil {
		return nil, err
	}
	if q.Amount0Limit, err = maxWithFee(q.Amount0, slippage, mint0); err != nil {
		return nil, err
	}
	if q.Amount1Limit, err = maxWithFee(q.Amount1, slippage, mint1); err != nil {
		return nil, err
	}
	return q, nil
}

// QuoteDecrease prices removing liquidity from [tickLower, tickUpper]. Zero
// liquidity is allowed: it collects fees or empties a position for closing.
func QuoteDecrease(
	pool *amm_v3.PoolState,
	tickLower, tickUpper int32,
	liquidity *big.Int,
	slippage float64,
	mint0, mint1 *token2022.MintInfo,
) (*LiquidityQuote, error) {
	if liquidity == nil || liquidity.Sign() < 0 {
		return nil, fmt.Errorf("%v: %w", liquidity, ErrInvalidLiquidity)
	}
	q := &LiquidityQuote{TickLower: tickLower, TickUpper: tickUpper, Liquidity: liquidity}

	var err error
	sqrtCurrent := u128.ToBig(pool.SqrtPriceX64)
	if q.Amount0, q.Amount1, err = amm_v3.DeltaAmounts(pool.TickCurrent, sqrtCurrent, tickLower, tickUpper, new(big.Int).Neg(liquidity)); err != nil {
		return nil, err
	}
	if q.Amount0Limit, err = minWithFee(q.Amount0, slippage, mint0); err != nil {
		return nil, err
	}
	if q.Amount1Limit, err = minWithFee(q.Amount1, slippage, mint1); err != nil {
		return nil, err
	}
	return q, nil
}

// maxWithFee is the amount to authorize so that amount still arrives after
// the transfer fee.
func maxWithFee(amount uint64, slippage float64, mint *token2022.MintInfo) (uint64, error) {
	v, err := amm_v3.AmountWithSlippage(amount, slippage, true)
	if err != nil {
		return 0, err
	}
	fee := mint.InverseFeeFor(v)
	if v+fee < v {
		return 0, fmt.Errorf("amount %d plus fee %d: %w", v, fee, amm_v3.ErrAmountOverflow)
	}
	return v + fee, nil
}

// minWithFee is the amount that must arrive after slippage and transfer fee.
func minWithFee(amount uint64, slippage float64, mint *token2022.MintInfo) (uint64, error) {
	v, err := amm_v3.AmountWithSlippage(amount, slippage, false)
	if err != nil {
		return 0, err
	}
	fee := mint.FeeFor(v)
	if fee > v {
		return 0, nil
	}
	return v - fee, nil
}
