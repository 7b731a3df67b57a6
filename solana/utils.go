package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrAccountNotFound = errors.New("account not found")

// maxMultipleAccounts is the getMultipleAccounts key limit.
const maxMultipleAccounts = 100

func GetLatestBlockhash(ctx context.Context, rpcClient *rpc.Client) (solana.Hash, error) {
	recent, err := rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("get latest blockhash: %w", err)
	}
	return recent.Value.Blockhash, nil
}

// GetAccountInfo returns the account or ErrAccountNotFound.
func GetAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, account solana.PublicKey) (*rpc.Account, error) {
	out, err := rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{
		Commitment: commitment,
		Encoding:   solana.EncodingBase64,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", account, ErrAccountNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", account, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("%s: %w", account, ErrAccountNotFound)
	}
	return out.Value, nil
}

// GetMultipleAccountInfo fetches accounts in batches. Missing accounts are nil
// in the result, which keeps the order of the request.
func GetMultipleAccountInfo(ctx context.Context, rpcClient *rpc.Client, commitment rpc.CommitmentType, accounts []solana.PublicKey) ([]*rpc.Account, error) {
	out := make([]*rpc.Account, 0, len(accounts))
	for start := 0; start < len(accounts); start += maxMultipleAccounts {
		end := min(start+maxMultipleAccounts, len(accounts))
		resp, err := rpcClient.GetMultipleAccountsWithOpts(ctx, accounts[start:end], &rpc.GetMultipleAccountsOpts{
			Commitment: commitment,
			Encoding:   solana.EncodingBase64,
		})
		if err != nil {
			return nil, fmt.Errorf("get multiple accounts: %w", err)
		}
		out = append(out, resp.Value...)
	}
	return out, nil
}

func GetCurrentEpoch(ctx context.Context, rpcClient *rpc.Client) (uint64, error) {
	epochInfo, err := rpcClient.GetEpochInfo(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("get epoch info: %w", err)
	}
	return epochInfo.Epoch, nil
}
