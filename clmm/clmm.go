package clmm

import (
	"context"
	"errors"

	solanago "github.com/krazyTry/clmm-cli/solana"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"
)

var (
	ErrPositionNotFound = errors.New("position not found")
	ErrZeroLiquidity    = errors.New("amount provides no liquidity in range")
	ErrInvalidLiquidity = errors.New("invalid liquidity")
	ErrNotPoolAccount   = errors.New("account is not owned by the clmm program")
)

// Clmm drives a concentrated liquidity program on behalf of a payer wallet.
type Clmm struct {
	rpcClient  *rpc.Client
	sender     *solanago.Sender
	programID  solana.PublicKey
	payer      *solana.Wallet
	admin      *solana.Wallet
	commitment rpc.CommitmentType
	log        *zap.Logger
}

func NewClmm(
	rpcClient *rpc.Client,
	programID solana.PublicKey,
	payer *solana.Wallet,
	opts ...Option,
) *Clmm {
	c := &Clmm{
		rpcClient:  rpcClient,
		sender:     solanago.NewSender(rpcClient, nil),
		programID:  programID,
		payer:      payer,
		admin:      payer,
		commitment: rpc.CommitmentFinalized,
		log:        zap.NewNop(),
	}
	for _, fn := range opts {
		fn(c)
	}
	return c
}

type Option func(*Clmm)

// WithWS confirms transactions over a websocket subscription.
func WithWS(wsClient *ws.Client) Option {
	return func(c *Clmm) {
		c.sender.WS = wsClient
	}
}

// WithAdmin sets the wallet that owns amm configs.
func WithAdmin(admin *solana.Wallet) Option {
	return func(c *Clmm) {
		if admin != nil {
			c.admin = admin
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Clmm) {
		c.log = log.Named("clmm")
		c.sender.Logger = log.Named("sender")
	}
}

// WithCommitment sets the commitment used for account reads.
func WithCommitment(commitment rpc.CommitmentType) Option {
	return func(c *Clmm) {
		c.commitment = commitment
	}
}

// WithSimulate makes every send a simulateTransaction call.
func WithSimulate(simulate bool) Option {
	return func(c *Clmm) {
		c.sender.Simulate = simulate
	}
}

// WithComputeBudget prepends a simulated SetComputeUnitLimit to every send.
func WithComputeBudget(enabled bool) Option {
	return func(c *Clmm) {
		c.sender.ComputeBudget = enabled
	}
}

func (c *Clmm) ProgramID() solana.PublicKey { return c.programID }

func (c *Clmm) Payer() solana.PublicKey { return c.payer.PublicKey() }

// send signs with the payer plus signers and waits for finalization.
func (c *Clmm) send(ctx context.Context, instructions []solana.Instruction, signers ...*solana.Wallet) (solana.Signature, error) {
	wallets := append([]*solana.Wallet{c.payer}, signers...)
	sig, err := c.sender.SendInstruction(ctx, instructions, c.payer.PublicKey(), solanago.NewSigner(wallets...))
	if err != nil {
		return sig, err
	}
	c.log.Debug("sent", zap.Stringer("signature", sig), zap.Int("instructions", len(instructions)))
	return sig, nil
}
