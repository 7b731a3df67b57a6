package amm_v3

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestI32BE(t *testing.T) {
	if got := i32BE(-600); !bytes.Equal(got, []byte{0xff, 0xff, 0xfd, 0xa8}) {
		t.Fatalf("i32BE(-600) = %x", got)
	}
	if got := i32BE(600); !bytes.Equal(got, []byte{0x00, 0x00, 0x02, 0x58}) {
		t.Fatalf("i32BE(600) = %x", got)
	}
	if got := u16BE(1); !bytes.Equal(got, []byte{0x00, 0x01}) {
		t.Fatalf("u16BE(1) = %x", got)
	}
}

func TestSortMints(t *testing.T) {
	low := solana.PublicKey{1}
	high := solana.PublicKey{2}

	mint0, mint1, swapped := SortMints(high, low)
	if !swapped || !mint0.Equals(low) || !mint1.Equals(high) {
		t.Fatal("SortMints() did not swap")
	}
	mint0, mint1, swapped = SortMints(low, high)
	if swapped || !mint0.Equals(low) || !mint1.Equals(high) {
		t.Fatal("SortMints() swapped sorted mints")
	}
}

func TestDerivePoolAddresses(t *testing.T) {
	programID := DevnetProgramID
	mint0, mint1, _ := SortMints(solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey())

	addrs, err := DerivePoolAddresses(programID, 3, mint0, mint1)
	if err != nil {
		t.Fatal("DerivePoolAddresses() fail", err)
	}

	ammConfig, _, err := solana.FindProgramAddress([][]byte{[]byte("amm_config"), {0x00, 0x03}}, programID)
	if err != nil {
		t.Fatal("FindProgramAddress() fail", err)
	}
	if !addrs.AmmConfig.Equals(ammConfig) {
		t.Fatalf("amm config %s != %s", addrs.AmmConfig, ammConfig)
	}

	pool, _, _ := solana.FindProgramAddress([][]byte{[]byte("pool"), ammConfig[:], mint0[:], mint1[:]}, programID)
	if !addrs.Pool.Equals(pool) {
		t.Fatalf("pool %s != %s", addrs.Pool, pool)
	}
	vault0, _, _ := solana.FindProgramAddress([][]byte{[]byte("pool_vault"), pool[:], mint0[:]}, programID)
	if !addrs.TokenVault0.Equals(vault0) {
		t.Fatalf("vault0 %s != %s", addrs.TokenVault0, vault0)
	}
	observation, _, _ := solana.FindProgramAddress([][]byte{[]byte("observation"), pool[:]}, programID)
	if !addrs.Observation.Equals(observation) {
		t.Fatalf("observation %s != %s", addrs.Observation, observation)
	}
	bitmap, _, _ := solana.FindProgramAddress([][]byte{[]byte("pool_tick_array_bitmap_extension"), pool[:]}, programID)
	if !addrs.TickArrayBitmapExt.Equals(bitmap) {
		t.Fatalf("bitmap extension %s != %s", addrs.TickArrayBitmapExt, bitmap)
	}
	if addrs.TokenVault0.Equals(addrs.TokenVault1) {
		t.Fatal("vaults must differ")
	}

	other, err := DerivePoolAddresses(MainnetProgramID, 3, mint0, mint1)
	if err != nil {
		t.Fatal("DerivePoolAddresses() fail", err)
	}
	if other.Pool.Equals(addrs.Pool) {
		t.Fatal("pool address must depend on the program id")
	}
}

func TestDerivePositionPDAs(t *testing.T) {
	pool := solana.NewWallet().PublicKey()
	nftMint := solana.NewWallet().PublicKey()

	tickArray, err := DeriveTickArrayPDA(DevnetProgramID, pool, -600)
	if err != nil {
		t.Fatal("DeriveTickArrayPDA() fail", err)
	}
	want, _, _ := solana.FindProgramAddress([][]byte{[]byte("tick_array"), pool[:], {0xff, 0xff, 0xfd, 0xa8}}, DevnetProgramID)
	if !tickArray.Equals(want) {
		t.Fatalf("tick array %s != %s", tickArray, want)
	}

	protocol, err := DeriveProtocolPositionPDA(DevnetProgramID, pool, -600, 600)
	if err != nil {
		t.Fatal("DeriveProtocolPositionPDA() fail", err)
	}
	want, _, _ = solana.FindProgramAddress([][]byte{[]byte("position"), pool[:], i32BE(-600), i32BE(600)}, DevnetProgramID)
	if !protocol.Equals(want) {
		t.Fatalf("protocol position %s != %s", protocol, want)
	}

	personal, err := DerivePersonalPositionPDA(DevnetProgramID, nftMint)
	if err != nil {
		t.Fatal("DerivePersonalPositionPDA() fail", err)
	}
	want, _, _ = solana.FindProgramAddress([][]byte{[]byte("position"), nftMint[:]}, DevnetProgramID)
	if !personal.Equals(want) {
		t.Fatalf("personal position %s != %s", personal, want)
	}
}
