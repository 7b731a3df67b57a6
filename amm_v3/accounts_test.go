package amm_v3

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

func poolStateFixture(mint0, mint1, rewardMint solana.PublicKey) []byte {
	data := make([]byte, PoolStateSize)
	copy(data, PoolStateDiscriminator[:])
	copy(data[73:], mint0[:])
	copy(data[105:], mint1[:])
	data[233] = 6
	data[234] = 9
	binary.LittleEndian.PutUint16(data[235:], 60)
	binary.LittleEndian.PutUint64(data[237:], 5000)
	binary.LittleEndian.PutUint64(data[261:], 1) // sqrt price hi word
	binary.LittleEndian.PutUint32(data[269:], uint32(0))
	copy(data[454:], rewardMint[:])
	binary.LittleEndian.PutUint64(data[PoolStateSize-8*58:], 42) // open time
	return data
}

func TestDecodePoolState(t *testing.T) {
	mint0 := solana.NewWallet().PublicKey()
	mint1 := solana.NewWallet().PublicKey()
	rewardMint := solana.NewWallet().PublicKey()

	pool, err := DecodePoolState(poolStateFixture(mint0, mint1, rewardMint))
	if err != nil {
		t.Fatal("DecodePoolState() fail", err)
	}
	if !pool.TokenMint0.Equals(mint0) || !pool.TokenMint1.Equals(mint1) {
		t.Fatal("mints misdecoded")
	}
	if pool.MintDecimals0 != 6 || pool.MintDecimals1 != 9 || pool.TickSpacing != 60 {
		t.Fatalf("decimals/spacing %d %d %d", pool.MintDecimals0, pool.MintDecimals1, pool.TickSpacing)
	}
	if pool.Liquidity.Lo != 5000 || pool.SqrtPriceX64.Hi != 1 || pool.SqrtPriceX64.Lo != 0 {
		t.Fatal("liquidity/sqrt price misdecoded")
	}
	if !pool.RewardInfos[0].Initialized() || !pool.RewardInfos[0].TokenMint.Equals(rewardMint) {
		t.Fatal("reward 0 misdecoded")
	}
	if pool.RewardInfos[1].Initialized() || pool.RewardInfos[2].Initialized() {
		t.Fatal("unused reward slots must be uninitialized")
	}
	if pool.OpenTime != 42 {
		t.Fatalf("open time %d", pool.OpenTime)
	}
}

func TestDecodeAccountDiscriminator(t *testing.T) {
	data := poolStateFixture(solana.PublicKey{}, solana.PublicKey{}, solana.PublicKey{})
	if _, err := DecodePersonalPositionState(data); !errors.Is(err, ErrDiscriminator) {
		t.Fatal("pool data decoded as a position", err)
	}
	if _, err := DecodePoolState(data[:4]); !errors.Is(err, ErrDiscriminator) {
		t.Fatal("short data should fail", err)
	}
	if _, err := DecodePoolState(data[:100]); err == nil {
		t.Fatal("truncated pool should fail")
	}
}

func TestDecodePersonalPositionState(t *testing.T) {
	nftMint := solana.NewWallet().PublicKey()
	pool := solana.NewWallet().PublicKey()

	buf := new(bytes.Buffer)
	w := &fieldWriter{enc: bin.NewBorshEncoder(buf)}
	w.bytes(PersonalPositionStateDiscriminator[:])
	w.u8(254)
	w.pubkey(nftMint)
	w.pubkey(pool)
	w.i32(-600)
	w.i32(600)
	w.u128(bin.Uint128{Lo: 77, Endianness: bin.LE})
	w.bytes(make([]byte, PersonalPositionStateSize-buf.Len()))
	if w.err != nil {
		t.Fatal("encode fail", w.err)
	}
	if buf.Len() != PersonalPositionStateSize {
		t.Fatalf("fixture length %d", buf.Len())
	}

	position, err := DecodePersonalPositionState(buf.Bytes())
	if err != nil {
		t.Fatal("DecodePersonalPositionState() fail", err)
	}
	if !position.NftMint.Equals(nftMint) || !position.PoolID.Equals(pool) {
		t.Fatal("keys misdecoded")
	}
	if position.TickLowerIndex != -600 || position.TickUpperIndex != 600 || position.Liquidity.Lo != 77 {
		t.Fatalf("position %d %d %d", position.TickLowerIndex, position.TickUpperIndex, position.Liquidity.Lo)
	}
}

func TestDecodeAmmConfig(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	buf := new(bytes.Buffer)
	w := &fieldWriter{enc: bin.NewBorshEncoder(buf)}
	w.bytes(AmmConfigDiscriminator[:])
	w.u8(255)
	w.u16(4)
	w.pubkey(owner)
	w.u32(120000)
	w.u32(2500)
	w.u16(60)
	w.u32(40000)
	w.bytes(make([]byte, AmmConfigSize-buf.Len()))

	config, err := DecodeAmmConfig(buf.Bytes())
	if err != nil {
		t.Fatal("DecodeAmmConfig() fail", err)
	}
	if config.Index != 4 || !config.Owner.Equals(owner) || config.TradeFeeRate != 2500 || config.TickSpacing != 60 || config.FundFeeRate != 40000 {
		t.Fatalf("config misdecoded: %+v", config)
	}
}

func TestEncodeAccounts(t *testing.T) {
	mint0 := solana.NewWallet().PublicKey()
	mint1 := solana.NewWallet().PublicKey()
	rewardMint := solana.NewWallet().PublicKey()

	pool := &PoolState{
		TokenMint0:    mint0,
		TokenMint1:    mint1,
		MintDecimals0: 6,
		MintDecimals1: 9,
		TickSpacing:   60,
		Liquidity:     bin.Uint128{Lo: 5000, Endianness: bin.LE},
		SqrtPriceX64:  bin.Uint128{Hi: 1, Endianness: bin.LE},
		OpenTime:      42,
	}
	pool.RewardInfos[0].TokenMint = rewardMint
	data, err := EncodePoolState(pool)
	if err != nil {
		t.Fatal("EncodePoolState() fail", err)
	}
	if !bytes.Equal(data, poolStateFixture(mint0, mint1, rewardMint)) {
		t.Fatal("EncodePoolState() does not match the on-chain layout")
	}

	position := &PersonalPositionState{
		NftMint:        solana.NewWallet().PublicKey(),
		PoolID:         solana.NewWallet().PublicKey(),
		TickLowerIndex: -600,
		TickUpperIndex: 600,
		Liquidity:      bin.Uint128{Lo: 77, Hi: 3, Endianness: bin.LE},
	}
	data, err = EncodePersonalPositionState(position)
	if err != nil {
		t.Fatal("EncodePersonalPositionState() fail", err)
	}
	if len(data) != PersonalPositionStateSize {
		t.Fatalf("position length %d", len(data))
	}
	decoded, err := DecodePersonalPositionState(data)
	if err != nil {
		t.Fatal("DecodePersonalPositionState() fail", err)
	}
	if !decoded.NftMint.Equals(position.NftMint) || decoded.TickLowerIndex != -600 || decoded.Liquidity.Hi != 3 {
		t.Fatalf("position %+v", decoded)
	}

	data, err = EncodeAmmConfig(&AmmConfig{Index: 4, TickSpacing: 10, TradeFeeRate: 2500})
	if err != nil {
		t.Fatal("EncodeAmmConfig() fail", err)
	}
	if len(data) != AmmConfigSize {
		t.Fatalf("amm config length %d", len(data))
	}
}
