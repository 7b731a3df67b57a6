package solana

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	computebudget "github.com/gagliardetto/solana-go/programs/compute-budget"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

func TestNewSigner(t *testing.T) {
	payer := solana.NewWallet()
	mint := solana.NewWallet()
	sign := NewSigner(payer, nil, mint)

	if got := sign(mint.PublicKey()); got == nil || !got.PublicKey().Equals(mint.PublicKey()) {
		t.Fatal("NewSigner() did not return the mint key")
	}
	if got := sign(solana.NewWallet().PublicKey()); got != nil {
		t.Fatal("NewSigner() returned a key for an unknown signer")
	}
}

func TestFindAssociatedTokenAddress(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatal("solana.FindAssociatedTokenAddress() fail", err)
	}
	got, err := FindAssociatedTokenAddress(owner, mint, solana.TokenProgramID)
	if err != nil {
		t.Fatal("FindAssociatedTokenAddress() fail", err)
	}
	if !got.Equals(want) {
		t.Fatalf("ata %s != %s", got, want)
	}

	ata2022, err := FindAssociatedTokenAddress(owner, mint, solana.Token2022ProgramID)
	if err != nil {
		t.Fatal("FindAssociatedTokenAddress() fail", err)
	}
	if ata2022.Equals(want) {
		t.Fatal("token-2022 ata must differ from spl ata")
	}
}

func TestMergeInstructions(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	ata, _ := FindAssociatedTokenAddress(owner, mint, solana.Token2022ProgramID)

	create := CreateAssociatedTokenAccountInstruction(payer, ata, owner, mint, solana.Token2022ProgramID)
	transfer := system.NewTransferInstruction(1, payer, owner).Build()
	limit := computebudget.NewSetComputeUnitLimitInstructionBuilder().SetUnits(200_000).Build()

	merged := MergeInstructions([]solana.Instruction{transfer, create, limit, create})
	if len(merged) != 3 {
		t.Fatalf("merged %d instructions, want 3", len(merged))
	}
	if !merged[0].ProgramID().Equals(computebudget.ProgramID) {
		t.Fatal("compute budget must come first")
	}
	if !merged[1].ProgramID().Equals(solana.SPLAssociatedTokenAccountProgramID) {
		t.Fatal("ata creation must precede the body")
	}
	if !merged[2].ProgramID().Equals(system.ProgramID) {
		t.Fatal("body instruction lost")
	}
}

func TestWithProgram(t *testing.T) {
	mint := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	spl := token.NewMintToInstruction(100, mint, dest, authority, nil).Build()
	ix, err := WithProgram(spl, solana.Token2022ProgramID)
	if err != nil {
		t.Fatal("WithProgram() fail", err)
	}
	if !ix.ProgramID().Equals(solana.Token2022ProgramID) {
		t.Fatalf("program = %s", ix.ProgramID())
	}
	want, _ := spl.Data()
	got, _ := ix.Data()
	if !bytes.Equal(got, want) || len(ix.Accounts()) != len(spl.Accounts()) {
		t.Fatal("WithProgram() changed data or accounts")
	}
	// MintTo tag followed by the little endian amount.
	if got[0] != token.Instruction_MintTo || got[1] != 100 {
		t.Fatalf("unexpected mint_to data %v", got)
	}
}

func TestUnitsWithBuffer(t *testing.T) {
	cases := []struct {
		estimated uint64
		buffer    float64
		want      uint32
	}{
		{100_000, 0.1, 150_000},
		{1_000_000, 0.1, 1_100_000},
		{1_000_000, 0.5, 1_200_000},
		{1_300_000, 0.5, DefaultSimulationUnits},
		{10_000, -1, 60_000},
	}
	for _, c := range cases {
		if got := UnitsWithBuffer(c.estimated, c.buffer); got != c.want {
			t.Fatalf("UnitsWithBuffer(%d, %v) = %d, want %d", c.estimated, c.buffer, got, c.want)
		}
	}
}
