package decimal_math

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSqrt(t *testing.T) {
	got, err := Sqrt(decimal.NewFromInt(144), 128)
	if err != nil {
		t.Fatal("Sqrt() fail", err)
	}
	if !got.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("sqrt(144) = %s", got)
	}

	got, err = Sqrt(decimal.RequireFromString("0.25"), 128)
	if err != nil {
		t.Fatal("Sqrt() fail", err)
	}
	if !got.Equal(decimal.RequireFromString("0.5")) {
		t.Fatalf("sqrt(0.25) = %s", got)
	}

	if _, err = Sqrt(decimal.NewFromInt(-1), 64); err == nil {
		t.Fatal("Sqrt(-1) should fail")
	}
}

func TestX64(t *testing.T) {
	one := new(big.Int).Lsh(big.NewInt(1), 64)
	if got := ToX64(decimal.NewFromInt(1)); got.Cmp(one) != 0 {
		t.Fatalf("ToX64(1) = %s", got)
	}
	if got := ToX64(decimal.RequireFromString("1.5")); got.Cmp(new(big.Int).Add(one, new(big.Int).Rsh(one, 1))) != 0 {
		t.Fatalf("ToX64(1.5) = %s", got)
	}
	if got := FromX64(new(big.Int).Lsh(big.NewInt(3), 63)); !got.Equal(decimal.RequireFromString("1.5")) {
		t.Fatalf("FromX64(1.5<<64) = %s", got)
	}
}
