package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	sendandconfirmtransaction "github.com/gagliardetto/solana-go/rpc/sendAndConfirmTransaction"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

const defaultPollInterval = 2 * time.Second

// Sender signs, submits and confirms transactions.
type Sender struct {
	RPC *rpc.Client
	// WS is optional. Without it confirmation polls signature statuses.
	WS *ws.Client

	// Simulate runs the transaction through simulateTransaction only.
	Simulate bool
	// ComputeBudget prepends a SetComputeUnitLimit estimated by simulation.
	ComputeBudget bool
	// ComputeBuffer is the fraction added on top of the estimate.
	ComputeBuffer float64

	PollInterval time.Duration
	Logger       *zap.Logger
}

func NewSender(rpcClient *rpc.Client, wsClient *ws.Client) *Sender {
	return &Sender{
		RPC:           rpcClient,
		WS:            wsClient,
		ComputeBuffer: 0.1,
		PollInterval:  defaultPollInterval,
		Logger:        zap.NewNop(),
	}
}

// SendInstruction builds a transaction from instructions, signs it and waits
// for finalization. In simulate mode it returns a zero signature.
func (s *Sender) SendInstruction(
	ctx context.Context,
	instructions []solana.Instruction,
	payer solana.PublicKey,
	sign Signer,
) (solana.Signature, error) {
	log := s.logger()
	instructions = MergeInstructions(instructions)

	if s.ComputeBudget {
		limitIx, err := GetEstimatedComputeUnitIxWithBuffer(ctx, s.RPC, instructions, payer, s.ComputeBuffer)
		if err != nil {
			log.Warn("compute unit estimate failed, using default limit", zap.Error(err))
		}
		instructions = MergeInstructions(append([]solana.Instruction{limitIx}, instructions...))
	}

	latestBlockhash, err := GetLatestBlockhash(ctx, s.RPC)
	if err != nil {
		return solana.Signature{}, err
	}

	tx, err := solana.NewTransaction(instructions, latestBlockhash, solana.TransactionPayer(payer))
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build transaction: %w", err)
	}
	if _, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey { return sign(key) }); err != nil {
		return solana.Signature{}, fmt.Errorf("sign transaction: %w", err)
	}

	if s.Simulate {
		resp, err := s.RPC.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
			SigVerify:  false,
			Commitment: rpc.CommitmentFinalized,
		})
		if err != nil {
			return solana.Signature{}, fmt.Errorf("simulate transaction: %w", err)
		}
		if resp.Value != nil && resp.Value.Err != nil {
			return solana.Signature{}, simulationError(resp.Value.Err, resp.Value.Logs)
		}
		log.Info("simulation ok", zap.Int("instructions", len(instructions)))
		return solana.Signature{}, nil
	}

	sig, err := s.RPC.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: rpc.CommitmentFinalized,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("send transaction: %w", err)
	}
	log.Debug("transaction sent", zap.Stringer("signature", sig))

	if err = s.confirm(ctx, sig); err != nil {
		return sig, err
	}
	log.Debug("transaction confirmed", zap.Stringer("signature", sig))
	return sig, nil
}

func (s *Sender) confirm(ctx context.Context, sig solana.Signature) error {
	if s.WS != nil {
		confirmed, err := sendandconfirmtransaction.WaitForConfirmation(ctx, s.WS, sig, nil)
		if confirmed {
			if err != nil {
				return fmt.Errorf("transaction %s confirmed but failed: %w", sig, err)
			}
			return nil
		}
		s.logger().Debug("websocket confirmation incomplete, polling status", zap.Error(err))
	}
	return s.pollStatus(ctx, sig)
}

var errPending = errors.New("transaction pending")

func (s *Sender) checkStatus(ctx context.Context, sig solana.Signature) error {
	statusResp, err := s.RPC.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return fmt.Errorf("get signature statuses: %w", err)
	}
	if len(statusResp.Value) == 0 || statusResp.Value[0] == nil {
		return errPending
	}
	status := statusResp.Value[0]
	if status.Err != nil {
		return fmt.Errorf("transaction %s confirmed but failed: %v", sig, status.Err)
	}
	if status.ConfirmationStatus != rpc.ConfirmationStatusFinalized &&
		status.ConfirmationStatus != rpc.ConfirmationStatusConfirmed {
		return errPending
	}

	txResp, err := s.RPC.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{Commitment: rpc.CommitmentConfirmed})
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}
	if txResp != nil && txResp.Meta != nil && txResp.Meta.Err != nil {
		return fmt.Errorf("transaction %s failed: %v", sig, txResp.Meta.Err)
	}
	return nil
}

func (s *Sender) pollStatus(ctx context.Context, sig solana.Signature) error {
	interval := s.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if err := s.checkStatus(ctx, sig); !errors.Is(err, errPending) {
			return err
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("transaction %s not confirmed (maybe dropped): %w", sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (s *Sender) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
