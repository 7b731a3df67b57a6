package solana

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// Token is a decoded mint together with the program that owns it.
type Token struct {
	token.Mint
	Address solana.PublicKey
	// Program is the token program owning the mint (SPL Token or Token-2022).
	Program solana.PublicKey
	// Data is the raw account data, extensions included.
	Data []byte
}

// DecodeToken decodes the 82-byte base mint layout. Token-2022 extensions
// after it are left in Data.
func DecodeToken(address solana.PublicKey, account *rpc.Account) (*Token, error) {
	if account == nil {
		return nil, fmt.Errorf("mint %s: %w", address, ErrAccountNotFound)
	}
	data := account.Data.GetBinary()
	mint := token.Mint{}
	if err := mint.Decode(data); err != nil {
		return nil, fmt.Errorf("decode mint %s: %w", address, err)
	}
	return &Token{Mint: mint, Address: address, Program: account.Owner, Data: data}, nil
}

// GetMultipleToken fetches and decodes mints in one round trip.
func GetMultipleToken(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, mints ...solana.PublicKey) ([]*Token, error) {
	accounts, err := GetMultipleAccountInfo(ctx, rpcClient, commitment, mints)
	if err != nil {
		return nil, err
	}
	list := make([]*Token, len(mints))
	for i, acc := range accounts {
		if list[i], err = DecodeToken(mints[i], acc); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// WithProgram re-targets an instruction built by the SPL token builders at
// another token program with the same instruction layout (Token-2022).
func WithProgram(ix solana.Instruction, programID solana.PublicKey) (solana.Instruction, error) {
	data, err := ix.Data()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, ix.Accounts(), data), nil
}
