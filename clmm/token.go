package clmm

import (
	"context"
	"fmt"

	solanago "github.com/krazyTry/clmm-cli/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"go.uber.org/zap"
)

// CreateMintInstruction allocates mint as a Token-2022 mint with zero
// decimals and the payer as mint authority.
func (c *Clmm) CreateMintInstruction(ctx context.Context, mint solana.PublicKey) ([]solana.Instruction, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, token.MINT_SIZE, c.commitment)
	if err != nil {
		return nil, fmt.Errorf("get rent exemption: %w", err)
	}

	payer := c.payer.PublicKey()
	createIx := system.NewCreateAccountInstruction(
		lamports,
		token.MINT_SIZE,
		solana.Token2022ProgramID,
		payer,
		mint,
	).Build()

	initIx, err := solanago.WithProgram(
		token.NewInitializeMint2InstructionBuilder().
			SetDecimals(0).
			SetMintAuthority(payer).
			SetMintAccount(mint).
			Build(),
		solana.Token2022ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{createIx, initIx}, nil
}

func (c *Clmm) CreateMint(ctx context.Context) (solana.PublicKey, solana.Signature, error) {
	mint := solana.NewWallet()
	instructions, err := c.CreateMintInstruction(ctx, mint.PublicKey())
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	sig, err := c.send(ctx, instructions, mint)
	if err != nil {
		return solana.PublicKey{}, sig, err
	}
	c.log.Info("mint created", zap.Stringer("mint", mint.PublicKey()))
	return mint.PublicKey(), sig, nil
}

// CreateTokenAccountInstruction creates the payer's Token-2022 associated
// token account for mint.
func (c *Clmm) CreateTokenAccountInstruction(mint solana.PublicKey) (solana.PublicKey, []solana.Instruction, error) {
	payer := c.payer.PublicKey()
	ata, err := solanago.FindAssociatedTokenAddress(payer, mint, solana.Token2022ProgramID)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	ix := solanago.CreateAssociatedTokenAccountInstruction(payer, ata, payer, mint, solana.Token2022ProgramID)
	return ata, []solana.Instruction{ix}, nil
}

func (c *Clmm) CreateTokenAccount(ctx context.Context, mint solana.PublicKey) (solana.PublicKey, solana.Signature, error) {
	ata, instructions, err := c.CreateTokenAccountInstruction(mint)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	sig, err := c.send(ctx, instructions)
	if err != nil {
		return solana.PublicKey{}, sig, err
	}
	c.log.Info("token account created", zap.Stringer("mint", mint), zap.Stringer("account", ata))
	return ata, sig, nil
}

// MintToInstruction mints amount of a Token-2022 mint into account with the
// payer as authority.
func (c *Clmm) MintToInstruction(mint, account solana.PublicKey, amount uint64) ([]solana.Instruction, error) {
	ix, err := solanago.WithProgram(
		token.NewMintToInstruction(amount, mint, account, c.payer.PublicKey(), nil).Build(),
		solana.Token2022ProgramID,
	)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{ix}, nil
}

func (c *Clmm) MintTo(ctx context.Context, mint, account solana.PublicKey, amount uint64) (solana.Signature, error) {
	instructions, err := c.MintToInstruction(mint, account, amount)
	if err != nil {
		return solana.Signature{}, err
	}
	sig, err := c.send(ctx, instructions)
	if err != nil {
		return sig, err
	}
	c.log.Info("minted", zap.Stringer("mint", mint), zap.Stringer("account", account), zap.Uint64("amount", amount))
	return sig, nil
}
