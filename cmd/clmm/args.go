package main

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/krazyTry/clmm-cli/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

func parsePubkey(name, s string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(s)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return key, nil
}

func parseUint(name, s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return v, nil
}

// parsePrice accepts any positive decimal, exponent notation included.
func parsePrice(name, s string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid %s %q: must be positive", name, s)
	}
	return v, nil
}

func parseSlippage(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid slippage %q: %w", s, err)
	}
	if v < 0 || v >= 1 {
		return 0, fmt.Errorf("invalid slippage %q: must be in [0, 1)", s)
	}
	return v, nil
}

func parseLiquidity(s string) (*big.Int, error) {
	v, err := u128.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("invalid liquidity: %w", err)
	}
	return u128.ToBig(v), nil
}
