package u128

import (
	"errors"
	"math/big"
	"testing"
)

func TestParse(t *testing.T) {
	v, err := Parse("340282366920938463463374607431768211455")
	if err != nil {
		t.Fatal("Parse() fail", err)
	}
	if v.Lo != ^uint64(0) || v.Hi != ^uint64(0) {
		t.Fatalf("max u128 parsed as lo=%d hi=%d", v.Lo, v.Hi)
	}

	v, err = Parse("18446744073709551617")
	if err != nil {
		t.Fatal("Parse() fail", err)
	}
	if v.Lo != 1 || v.Hi != 1 {
		t.Fatalf("2^64+1 parsed as lo=%d hi=%d", v.Lo, v.Hi)
	}

	for _, bad := range []string{"-1", "340282366920938463463374607431768211456", "abc", ""} {
		if _, err := Parse(bad); err == nil {
			t.Fatalf("Parse(%q) should fail", bad)
		}
	}
}

func TestFromBig(t *testing.T) {
	want := new(big.Int).Lsh(big.NewInt(3), 70)
	v, err := FromBig(want)
	if err != nil {
		t.Fatal("FromBig() fail", err)
	}
	if got := ToBig(v); got.Cmp(want) != 0 {
		t.Fatalf("round trip %s != %s", got, want)
	}

	arg := new(big.Int).Lsh(big.NewInt(1), 64)
	if _, err = FromBig(arg); err != nil {
		t.Fatal("FromBig() fail", err)
	}
	if arg.Cmp(new(big.Int).Lsh(big.NewInt(1), 64)) != 0 {
		t.Fatalf("FromBig() changed its argument to %s", arg)
	}

	if _, err := FromBig(big.NewInt(-5)); !errors.Is(err, ErrOverflow) {
		t.Fatal("FromBig(-5) should overflow", err)
	}
	if _, err := FromBig(new(big.Int).Lsh(big.NewInt(1), 128)); !errors.Is(err, ErrOverflow) {
		t.Fatal("FromBig(2^128) should overflow", err)
	}
	zero, err := FromBig(big.NewInt(0))
	if err != nil || !IsZero(zero) {
		t.Fatal("FromBig(0) fail", err)
	}
}
