package decimal_math

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
)

var ErrNegativeSqrt = errors.New("sqrt of negative decimal")

// Sqrt evaluates the square root with prec bits of mantissa.
func Sqrt(x decimal.Decimal, prec uint) (decimal.Decimal, error) {
	if x.Sign() < 0 {
		return decimal.Zero, ErrNegativeSqrt
	}
	if x.IsZero() {
		return decimal.Zero, nil
	}
	root := new(big.Float).SetPrec(prec).Sqrt(x.BigFloat().SetPrec(prec))
	return decimal.NewFromString(root.Text('f', -1))
}
