package clmm

import (
	"context"
	"fmt"

	"github.com/krazyTry/clmm-cli/amm_v3"
	solanago "github.com/krazyTry/clmm-cli/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// PositionNft is a token account holding a position NFT.
type PositionNft struct {
	Mint    solana.PublicKey
	Account solana.PublicKey
	// Program owns the NFT mint (SPL Token or Token-2022).
	Program solana.PublicKey
	// Position is the personal position PDA of the NFT.
	Position solana.PublicKey
}

type Position struct {
	PositionNft
	State *amm_v3.PersonalPositionState
}

// parsePositionNft reads a jsonParsed token account and reports whether it
// holds exactly one indivisible token.
func parsePositionNft(raw []byte) (solana.PublicKey, bool) {
	info := gjson.GetBytes(raw, "parsed.info")
	if info.Get("tokenAmount.amount").String() != "1" || info.Get("tokenAmount.decimals").Int() != 0 {
		return solana.PublicKey{}, false
	}
	mint, err := solana.PublicKeyFromBase58(info.Get("mint").String())
	if err != nil {
		return solana.PublicKey{}, false
	}
	return mint, true
}

// GetPositionNfts lists owner's NFT-like token accounts under both token
// programs together with their personal position PDAs.
func (c *Clmm) GetPositionNfts(ctx context.Context, owner solana.PublicKey) ([]*PositionNft, error) {
	var list []*PositionNft
	for _, program := range []solana.PublicKey{solana.TokenProgramID, solana.Token2022ProgramID} {
		resp, err := c.rpcClient.GetTokenAccountsByOwner(ctx, owner, &rpc.GetTokenAccountsConfig{
			ProgramId: &program,
		}, &rpc.GetTokenAccountsOpts{
			Encoding:   solana.EncodingJSONParsed,
			Commitment: c.commitment,
		})
		if err != nil {
			return nil, fmt.Errorf("get token accounts of %s: %w", owner, err)
		}
		for _, v := range resp.Value {
			if v.Account.Data == nil {
				continue
			}
			mint, ok := parsePositionNft(v.Account.Data.GetRawJSON())
			if !ok {
				continue
			}
			position, err := amm_v3.DerivePersonalPositionPDA(c.programID, mint)
			if err != nil {
				return nil, err
			}
			list = append(list, &PositionNft{
				Mint:     mint,
				Account:  v.Pubkey,
				Program:  program,
				Position: position,
			})
		}
	}
	return list, nil
}

// GetPositionsByOwner returns owner's positions, restricted to pool when it
// is not nil. NFTs without a personal position account are skipped.
func (c *Clmm) GetPositionsByOwner(ctx context.Context, owner solana.PublicKey, pool *solana.PublicKey) ([]*Position, error) {
	nfts, err := c.GetPositionNfts(ctx, owner)
	if err != nil {
		return nil, err
	}
	keys := make([]solana.PublicKey, len(nfts))
	for i, nft := range nfts {
		keys[i] = nft.Position
	}
	accounts, err := solanago.GetMultipleAccountInfo(ctx, c.rpcClient, c.commitment, keys)
	if err != nil {
		return nil, err
	}

	var positions []*Position
	for i, account := range accounts {
		if account == nil || !account.Owner.Equals(c.programID) {
			continue
		}
		state, err := amm_v3.DecodePersonalPositionState(account.Data.GetBinary())
		if err != nil {
			c.log.Debug("skip position", zap.Stringer("position", keys[i]), zap.Error(err))
			continue
		}
		if pool != nil && !state.PoolID.Equals(*pool) {
			continue
		}
		positions = append(positions, &Position{PositionNft: *nfts[i], State: state})
	}
	return positions, nil
}

// findPosition picks the position of pool spanning exactly [tickLower, tickUpper].
// When several match, the last one listed wins.
func findPosition(positions []*Position, pool solana.PublicKey, tickLower, tickUpper int32) *Position {
	var found *Position
	for _, p := range positions {
		if p.State.PoolID.Equals(pool) && p.State.TickLowerIndex == tickLower && p.State.TickUpperIndex == tickUpper {
			found = p
		}
	}
	return found
}
