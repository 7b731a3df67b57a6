package clmm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/krazyTry/clmm-cli/amm_v3"
	solanago "github.com/krazyTry/clmm-cli/solana"
	"github.com/krazyTry/clmm-cli/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// positionAccounts are the PDAs shared by the liquidity instructions.
type positionAccounts struct {
	protocolPosition   solana.PublicKey
	tickArrayLower     solana.PublicKey
	tickArrayUpper     solana.PublicKey
	tickArrayBitmapExt solana.PublicKey
	lowerStart         int32
	upperStart         int32
}

func (c *Clmm) derivePositionAccounts(poolKey solana.PublicKey, pool *amm_v3.PoolState, tickLower, tickUpper int32) (*positionAccounts, error) {
	out := &positionAccounts{
		lowerStart: amm_v3.TickArrayStartIndex(tickLower, pool.TickSpacing),
		upperStart: amm_v3.TickArrayStartIndex(tickUpper, pool.TickSpacing),
	}
	var err error
	if out.protocolPosition, err = amm_v3.DeriveProtocolPositionPDA(c.programID, poolKey, tickLower, tickUpper); err != nil {
		return nil, err
	}
	if out.tickArrayLower, err = amm_v3.DeriveTickArrayPDA(c.programID, poolKey, out.lowerStart); err != nil {
		return nil, err
	}
	if out.tickArrayUpper, err = amm_v3.DeriveTickArrayPDA(c.programID, poolKey, out.upperStart); err != nil {
		return nil, err
	}
	if out.tickArrayBitmapExt, err = amm_v3.DeriveTickArrayBitmapExtensionPDA(c.programID, poolKey); err != nil {
		return nil, err
	}
	return out, nil
}

// IncreaseLiquidityInstruction adds liquidity worth amount0 of token 0 in
// the price range. The matching position is topped up, otherwise a new one
// is opened with a Token-2022 NFT; the NFT mint wallet is returned as an
// extra signer in that case.
func (c *Clmm) IncreaseLiquidityInstruction(
	ctx context.Context,
	poolKey solana.PublicKey,
	lowerPrice decimal.Decimal,
	upperPrice decimal.Decimal,
	amount0 uint64,
	slippage float64,
) ([]solana.Instruction, []*solana.Wallet, error) {
	pool, err := c.GetPool(ctx, poolKey)
	if err != nil {
		return nil, nil, err
	}
	tickLower, tickUpper, err := PositionTicks(pool, lowerPrice, upperPrice)
	if err != nil {
		return nil, nil, err
	}

	mints, err := c.getMintInfos(ctx, pool.TokenMint0, pool.TokenMint1)
	if err != nil {
		return nil, nil, err
	}
	quote, err := QuoteIncrease(pool, tickLower, tickUpper, amount0, slippage, mints[0], mints[1])
	if err != nil {
		return nil, nil, err
	}
	liquidity, err := u128.FromBig(quote.Liquidity)
	if err != nil {
		return nil, nil, err
	}
	c.log.Info("increase liquidity",
		zap.Stringer("pool", poolKey),
		zap.Int32("tick_lower", tickLower),
		zap.Int32("tick_upper", tickUpper),
		zap.Stringer("liquidity", quote.Liquidity),
		zap.Uint64("amount_0_max", quote.Amount0Limit),
		zap.Uint64("amount_1_max", quote.Amount1Limit),
	)

	payer := c.payer.PublicKey()
	var instructions []solana.Instruction
	ata0, createIx0, err := solanago.GetOrCreateATAInstruction(ctx, c.rpcClient, c.commitment, pool.TokenMint0, payer, payer, mints[0].Program)
	if err != nil {
		return nil, nil, err
	}
	ata1, createIx1, err := solanago.GetOrCreateATAInstruction(ctx, c.rpcClient, c.commitment, pool.TokenMint1, payer, payer, mints[1].Program)
	if err != nil {
		return nil, nil, err
	}
	for _, ix := range []solana.Instruction{createIx0, createIx1} {
		if ix != nil {
			instructions = append(instructions, ix)
		}
	}

	accounts, err := c.derivePositionAccounts(poolKey, pool, tickLower, tickUpper)
	if err != nil {
		return nil, nil, err
	}

	positions, err := c.GetPositionsByOwner(ctx, payer, &poolKey)
	if err != nil {
		return nil, nil, err
	}
	if position := findPosition(positions, poolKey, tickLower, tickUpper); position != nil {
		ix, err := amm_v3.NewIncreaseLiquidityV2Instruction(
			amm_v3.IncreaseLiquidityParams{
				Liquidity:  liquidity,
				Amount0Max: quote.Amount0Limit,
				Amount1Max: quote.Amount1Limit,
			},
			amm_v3.IncreaseLiquidityAccounts{
				NftOwner:           payer,
				NftAccount:         position.Account,
				PoolState:          poolKey,
				ProtocolPosition:   accounts.protocolPosition,
				PersonalPosition:   position.Position,
				TickArrayLower:     accounts.tickArrayLower,
				TickArrayUpper:     accounts.tickArrayUpper,
				TokenAccount0:      ata0,
				TokenAccount1:      ata1,
				TokenVault0:        pool.TokenVault0,
				TokenVault1:        pool.TokenVault1,
				Vault0Mint:         pool.TokenMint0,
				Vault1Mint:         pool.TokenMint1,
				TickArrayBitmapExt: accounts.tickArrayBitmapExt,
			},
			c.programID,
		)
		if err != nil {
			return nil, nil, err
		}
		c.log.Debug("increase existing position", zap.Stringer("nft_mint", position.Mint))
		return append(instructions, ix), nil, nil
	}

	nftMint := solana.NewWallet()
	nftAccount, err := solanago.FindAssociatedTokenAddress(payer, nftMint.PublicKey(), solana.Token2022ProgramID)
	if err != nil {
		return nil, nil, err
	}
	personalPosition, err := amm_v3.DerivePersonalPositionPDA(c.programID, nftMint.PublicKey())
	if err != nil {
		return nil, nil, err
	}
	ix, err := amm_v3.NewOpenPositionWithToken22NftInstruction(
		amm_v3.OpenPositionParams{
			TickLowerIndex:           tickLower,
			TickUpperIndex:           tickUpper,
			TickArrayLowerStartIndex: accounts.lowerStart,
			TickArrayUpperStartIndex: accounts.upperStart,
			Liquidity:                liquidity,
			Amount0Max:               quote.Amount0Limit,
			Amount1Max:               quote.Amount1Limit,
			WithMetadata:             false,
		},
		amm_v3.OpenPositionAccounts{
			Payer:              payer,
			PositionNftOwner:   payer,
			PositionNftMint:    nftMint.PublicKey(),
			PositionNftAccount: nftAccount,
			PoolState:          poolKey,
			ProtocolPosition:   accounts.protocolPosition,
			TickArrayLower:     accounts.tickArrayLower,
			TickArrayUpper:     accounts.tickArrayUpper,
			PersonalPosition:   personalPosition,
			TokenAccount0:      ata0,
			TokenAccount1:      ata1,
			TokenVault0:        pool.TokenVault0,
			TokenVault1:        pool.TokenVault1,
			Vault0Mint:         pool.TokenMint0,
			Vault1Mint:         pool.TokenMint1,
			TickArrayBitmapExt: accounts.tickArrayBitmapExt,
		},
		c.programID,
	)
	if err != nil {
		return nil, nil, err
	}
	c.log.Debug("open position", zap.Stringer("nft_mint", nftMint.PublicKey()))
	return append(instructions, ix), []*solana.Wallet{nftMint}, nil
}

func (c *Clmm) IncreaseLiquidity(
	ctx context.Context,
	poolKey solana.PublicKey,
	lowerPrice decimal.Decimal,
	upperPrice decimal.Decimal,
	amount0 uint64,
	slippage float64,
) (solana.Signature, error) {
	instructions, signers, err := c.IncreaseLiquidityInstruction(ctx, poolKey, lowerPrice, upperPrice, amount0, slippage)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.send(ctx, instructions, signers...)
}

// DecreaseLiquidityInstruction removes liquidity (all of it when nil) from
// the payer's position spanning the price range, closing the position when
// it ends up empty. It fails with ErrPositionNotFound when no position
// matches.
func (c *Clmm) DecreaseLiquidityInstruction(
	ctx context.Context,
	poolKey solana.PublicKey,
	lowerPrice decimal.Decimal,
	upperPrice decimal.Decimal,
	slippage float64,
	liquidity *big.Int,
) ([]solana.Instruction, error) {
	pool, err := c.GetPool(ctx, poolKey)
	if err != nil {
		return nil, err
	}
	tickLower, tickUpper, err := PositionTicks(pool, lowerPrice, upperPrice)
	if err != nil {
		return nil, err
	}

	payer := c.payer.PublicKey()
	positions, err := c.GetPositionsByOwner(ctx, payer, &poolKey)
	if err != nil {
		return nil, err
	}
	position := findPosition(positions, poolKey, tickLower, tickUpper)
	if position == nil {
		return nil, fmt.Errorf("pool %s ticks [%d, %d]: %w", poolKey, tickLower, tickUpper, ErrPositionNotFound)
	}

	held := u128.ToBig(position.State.Liquidity)
	if liquidity == nil {
		liquidity = held
	}
	if liquidity.Cmp(held) > 0 {
		return nil, fmt.Errorf("liquidity %s exceeds position liquidity %s: %w", liquidity, held, ErrInvalidLiquidity)
	}
	closing := liquidity.Cmp(held) == 0

	mintKeys := []solana.PublicKey{pool.TokenMint0, pool.TokenMint1}
	var rewards []amm_v3.RewardInfo
	for _, reward := range pool.RewardInfos {
		if reward.Initialized() {
			rewards = append(rewards, reward)
			mintKeys = append(mintKeys, reward.TokenMint)
		}
	}
	mints, err := c.getMintInfos(ctx, mintKeys...)
	if err != nil {
		return nil, err
	}

	quote, err := QuoteDecrease(pool, tickLower, tickUpper, liquidity, slippage, mints[0], mints[1])
	if err != nil {
		return nil, err
	}
	liquidityArg, err := u128.FromBig(liquidity)
	if err != nil {
		return nil, err
	}
	c.log.Info("decrease liquidity",
		zap.Stringer("pool", poolKey),
		zap.Stringer("nft_mint", position.Mint),
		zap.Stringer("liquidity", liquidity),
		zap.Uint64("amount_0_min", quote.Amount0Limit),
		zap.Uint64("amount_1_min", quote.Amount1Limit),
		zap.Bool("close", closing),
	)

	var instructions []solana.Instruction
	recipients := make([]solana.PublicKey, len(mints))
	for i, mint := range mints {
		ata, createIx, err := solanago.GetOrCreateATAInstruction(ctx, c.rpcClient, c.commitment, mint.Mint, payer, payer, mint.Program)
		if err != nil {
			return nil, err
		}
		if createIx != nil {
			instructions = append(instructions, createIx)
		}
		recipients[i] = ata
	}

	rewardAccounts := make([]amm_v3.RewardAccounts, len(rewards))
	for i, reward := range rewards {
		rewardAccounts[i] = amm_v3.RewardAccounts{
			RewardVault:        reward.TokenVault,
			RecipientRewardATA: recipients[2+i],
			RewardMint:         reward.TokenMint,
		}
	}

	accounts, err := c.derivePositionAccounts(poolKey, pool, tickLower, tickUpper)
	if err != nil {
		return nil, err
	}
	ix, err := amm_v3.NewDecreaseLiquidityV2Instruction(
		amm_v3.DecreaseLiquidityParams{
			Liquidity:  liquidityArg,
			Amount0Min: quote.Amount0Limit,
			Amount1Min: quote.Amount1Limit,
		},
		amm_v3.DecreaseLiquidityAccounts{
			NftOwner:               payer,
			NftAccount:             position.Account,
			PersonalPosition:       position.Position,
			PoolState:              poolKey,
			ProtocolPosition:       accounts.protocolPosition,
			TokenVault0:            pool.TokenVault0,
			TokenVault1:            pool.TokenVault1,
			TickArrayLower:         accounts.tickArrayLower,
			TickArrayUpper:         accounts.tickArrayUpper,
			RecipientTokenAccount0: recipients[0],
			RecipientTokenAccount1: recipients[1],
			Vault0Mint:             pool.TokenMint0,
			Vault1Mint:             pool.TokenMint1,
			TickArrayBitmapExt:     accounts.tickArrayBitmapExt,
			Rewards:                rewardAccounts,
		},
		c.programID,
	)
	if err != nil {
		return nil, err
	}
	instructions = append(instructions, ix)

	if closing {
		closeIx, err := amm_v3.NewClosePositionInstruction(amm_v3.ClosePositionAccounts{
			NftOwner:           payer,
			PositionNftMint:    position.Mint,
			PositionNftAccount: position.Account,
			PersonalPosition:   position.Position,
			TokenProgram:       position.Program,
		}, c.programID)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, closeIx)
	}
	return instructions, nil
}

func (c *Clmm) DecreaseLiquidity(
	ctx context.Context,
	poolKey solana.PublicKey,
	lowerPrice decimal.Decimal,
	upperPrice decimal.Decimal,
	slippage float64,
	liquidity *big.Int,
) (solana.Signature, error) {
	instructions, err := c.DecreaseLiquidityInstruction(ctx, poolKey, lowerPrice, upperPrice, slippage, liquidity)
	if err != nil {
		return solana.Signature{}, err
	}
	return c.send(ctx, instructions)
}
