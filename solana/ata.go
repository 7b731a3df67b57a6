package solana

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"
)

// FindAssociatedTokenAddress derives the ATA for any token program.
func FindAssociatedTokenAddress(wallet, mint, tokenProgram solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindProgramAddress(
		[][]byte{wallet.Bytes(), tokenProgram.Bytes(), mint.Bytes()},
		solana.SPLAssociatedTokenAccountProgramID,
	)
	return ata, err
}

// CreateAssociatedTokenAccountInstruction builds an ATA Create instruction
// with an explicit token program.
func CreateAssociatedTokenAccountInstruction(payer, ata, owner, mint, tokenProgram solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(ata, true, false),
		solana.NewAccountMeta(owner, false, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(system.ProgramID, false, false),
		solana.NewAccountMeta(tokenProgram, false, false),
	}
	return solana.NewInstruction(solana.SPLAssociatedTokenAccountProgramID, accounts, []byte{})
}

// GetOrCreateATAInstruction returns the ATA and a create instruction when the
// account does not exist yet.
func GetOrCreateATAInstruction(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, mint, owner, payer, tokenProgram solana.PublicKey) (solana.PublicKey, solana.Instruction, error) {
	ata, err := FindAssociatedTokenAddress(owner, mint, tokenProgram)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	if _, err = GetAccountInfo(ctx, rpcClient, commitment, ata); err == nil {
		return ata, nil, nil
	} else if !errors.Is(err, ErrAccountNotFound) {
		return solana.PublicKey{}, nil, err
	}
	return ata, CreateAssociatedTokenAccountInstruction(payer, ata, owner, mint, tokenProgram), nil
}
