package clmm

import (
	"context"
	"fmt"

	"github.com/krazyTry/clmm-cli/amm_v3"
	solanago "github.com/krazyTry/clmm-cli/solana"
	"github.com/krazyTry/clmm-cli/solana/token2022"
	"github.com/krazyTry/clmm-cli/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const invertPrecision = 36

// CreateAmmConfigInstruction builds create_amm_config signed by the admin.
func (c *Clmm) CreateAmmConfigInstruction(params amm_v3.CreateAmmConfigParams) (solana.PublicKey, []solana.Instruction, error) {
	ammConfig, err := amm_v3.DeriveAmmConfigPDA(c.programID, params.Index)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	ix, err := amm_v3.NewCreateAmmConfigInstruction(params, c.admin.PublicKey(), ammConfig, c.programID)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	return ammConfig, []solana.Instruction{ix}, nil
}

func (c *Clmm) CreateAmmConfig(ctx context.Context, params amm_v3.CreateAmmConfigParams) (solana.PublicKey, solana.Signature, error) {
	ammConfig, instructions, err := c.CreateAmmConfigInstruction(params)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	sig, err := c.send(ctx, instructions, c.admin)
	if err != nil {
		return solana.PublicKey{}, sig, err
	}
	c.log.Info("amm config created",
		zap.Stringer("amm_config", ammConfig),
		zap.Uint16("index", params.Index),
		zap.Uint16("tick_spacing", params.TickSpacing),
	)
	return ammConfig, sig, nil
}

func (c *Clmm) GetAmmConfig(ctx context.Context, ammConfig solana.PublicKey) (*amm_v3.AmmConfig, error) {
	data, err := c.programAccount(ctx, ammConfig)
	if err != nil {
		return nil, err
	}
	return amm_v3.DecodeAmmConfig(data)
}

// GetPool fetches and decodes a pool state account.
func (c *Clmm) GetPool(ctx context.Context, pool solana.PublicKey) (*amm_v3.PoolState, error) {
	data, err := c.programAccount(ctx, pool)
	if err != nil {
		return nil, err
	}
	return amm_v3.DecodePoolState(data)
}

func (c *Clmm) programAccount(ctx context.Context, key solana.PublicKey) ([]byte, error) {
	account, err := solanago.GetAccountInfo(ctx, c.rpcClient, c.commitment, key)
	if err != nil {
		return nil, err
	}
	if !account.Owner.Equals(c.programID) {
		return nil, fmt.Errorf("%s owned by %s: %w", key, account.Owner, ErrNotPoolAccount)
	}
	return account.Data.GetBinary(), nil
}

// getMintInfos fetches mints in one call and resolves their transfer fee at
// the current epoch.
func (c *Clmm) getMintInfos(ctx context.Context, mints ...solana.PublicKey) ([]*token2022.MintInfo, error) {
	tokens, err := solanago.GetMultipleToken(ctx, c.rpcClient, c.commitment, mints...)
	if err != nil {
		return nil, err
	}
	epoch, err := solanago.GetCurrentEpoch(ctx, c.rpcClient)
	if err != nil {
		return nil, err
	}
	infos := make([]*token2022.MintInfo, len(tokens))
	for i, t := range tokens {
		if infos[i], err = token2022.NewMintInfo(t.Address, t.Program, t.Decimals, t.Data, epoch); err != nil {
			return nil, err
		}
		if infos[i].HasTransferHook {
			c.log.Warn("mint has a transfer hook", zap.Stringer("mint", t.Address))
		}
	}
	return infos, nil
}

// PoolPrice orders mintA/mintB the way the pool stores them and expresses
// price (mintA in mintB) as token 0 in token 1.
func PoolPrice(price decimal.Decimal, mintA, mintB solana.PublicKey) (mint0, mint1 solana.PublicKey, poolPrice decimal.Decimal, err error) {
	if !price.IsPositive() {
		return mint0, mint1, price, fmt.Errorf("%s: %w", price, amm_v3.ErrInvalidPrice)
	}
	mint0, mint1, swapped := amm_v3.SortMints(mintA, mintB)
	if swapped {
		price = decimal.NewFromInt(1).DivRound(price, invertPrecision)
	}
	return mint0, mint1, price, nil
}

// CreatePoolInstruction builds create_pool for the amm config at configIndex.
func (c *Clmm) CreatePoolInstruction(
	ctx context.Context,
	configIndex uint16,
	price decimal.Decimal,
	mintA solana.PublicKey,
	mintB solana.PublicKey,
	openTime uint64,
) (solana.PublicKey, []solana.Instruction, error) {
	mint0, mint1, price, err := PoolPrice(price, mintA, mintB)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}

	mints, err := solanago.GetMultipleToken(ctx, c.rpcClient, c.commitment, mint0, mint1)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}

	sqrtPriceX64, err := amm_v3.PriceToSqrtPriceX64(price, mints[0].Decimals, mints[1].Decimals)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	tick, err := amm_v3.TickAtSqrtPriceX64(sqrtPriceX64)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	sqrtPrice, err := u128.FromBig(sqrtPriceX64)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}

	addrs, err := amm_v3.DerivePoolAddresses(c.programID, configIndex, mint0, mint1)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}

	c.log.Info("create pool",
		zap.Int32("tick", tick),
		zap.Stringer("price", price),
		zap.Stringer("sqrt_price_x64", sqrtPriceX64),
		zap.Stringer("amm_config", addrs.AmmConfig),
	)

	ix, err := amm_v3.NewCreatePoolInstruction(
		amm_v3.CreatePoolParams{SqrtPriceX64: sqrtPrice, OpenTime: openTime},
		amm_v3.CreatePoolAccounts{
			PoolCreator:      c.payer.PublicKey(),
			AmmConfig:        addrs.AmmConfig,
			PoolState:        addrs.Pool,
			TokenMint0:       mint0,
			TokenMint1:       mint1,
			TokenVault0:      addrs.TokenVault0,
			TokenVault1:      addrs.TokenVault1,
			ObservationState: addrs.Observation,
			TickArrayBitmap:  addrs.TickArrayBitmapExt,
			TokenProgram0:    mints[0].Program,
			TokenProgram1:    mints[1].Program,
		},
		c.programID,
	)
	if err != nil {
		return solana.PublicKey{}, nil, err
	}
	return addrs.Pool, []solana.Instruction{ix}, nil
}

func (c *Clmm) CreatePool(
	ctx context.Context,
	configIndex uint16,
	price decimal.Decimal,
	mintA solana.PublicKey,
	mintB solana.PublicKey,
	openTime uint64,
) (solana.PublicKey, solana.Signature, error) {
	pool, instructions, err := c.CreatePoolInstruction(ctx, configIndex, price, mintA, mintB, openTime)
	if err != nil {
		return solana.PublicKey{}, solana.Signature{}, err
	}
	sig, err := c.send(ctx, instructions)
	if err != nil {
		return solana.PublicKey{}, sig, err
	}
	return pool, sig, nil
}
