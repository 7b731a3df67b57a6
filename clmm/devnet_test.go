package clmm

import (
	"context"
	"math/big"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/krazyTry/clmm-cli/config"
	solanago "github.com/krazyTry/clmm-cli/solana"
	"github.com/krazyTry/clmm-cli/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/shopspring/decimal"
	"go.uber.org/zap/zaptest"
)

const (
	envTestConfig      = "CLMM_TEST_CONFIG"
	envTestConfigIndex = "CLMM_TEST_CONFIG_INDEX"
)

func newDevnetClmm(t *testing.T, ctx context.Context) (*Clmm, *config.Config) {
	t.Helper()
	path := os.Getenv(envTestConfig)
	if path == "" {
		t.Skipf("%s not set", envTestConfig)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal("config.Load() fail", err)
	}
	payer, err := cfg.Payer()
	if err != nil {
		t.Fatal("cfg.Payer() fail", err)
	}
	wsClient, err := ws.Connect(ctx, cfg.Global.WsURL)
	if err != nil {
		t.Fatal("ws.Connect() fail", err)
	}
	t.Cleanup(wsClient.Close)

	c := NewClmm(
		rpc.New(cfg.Global.HTTPURL),
		cfg.ProgramID,
		payer,
		WithWS(wsClient),
		WithLogger(zaptest.NewLogger(t)),
		WithComputeBudget(true),
	)
	return c, cfg
}

func TestDevnetLiquidityFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	c, cfg := newDevnetClmm(t, ctx)

	configIndex := uint64(0)
	if v := os.Getenv(envTestConfigIndex); v != "" {
		var err error
		if configIndex, err = strconv.ParseUint(v, 10, 16); err != nil {
			t.Fatal("strconv.ParseUint() fail", err)
		}
	}

	var mints [2]solana.PublicKey
	for i := range mints {
		mint, _, err := c.CreateMint(ctx)
		if err != nil {
			t.Fatal("CreateMint() fail", err)
		}
		account, _, err := c.CreateTokenAccount(ctx, mint)
		if err != nil {
			t.Fatal("CreateTokenAccount() fail", err)
		}
		if _, err = c.MintTo(ctx, mint, account, 100_000); err != nil {
			t.Fatal("MintTo() fail", err)
		}
		mints[i] = mint
	}

	pool, _, err := c.CreatePool(ctx, uint16(configIndex), decimal.NewFromInt(1), mints[0], mints[1], 0)
	if err != nil {
		t.Fatal("CreatePool() fail", err)
	}
	state, err := c.GetPool(ctx, pool)
	if err != nil {
		t.Fatal("GetPool() fail", err)
	}
	t.Logf("pool %s tick %d spacing %d", pool, state.TickCurrent, state.TickSpacing)

	lower, upper := decimal.RequireFromString("0.5"), decimal.NewFromInt(2)
	slippage := cfg.Global.Slippage

	// the second call tops up the position opened by the first
	for i := 0; i < 2; i++ {
		if _, err = c.IncreaseLiquidity(ctx, pool, lower, upper, 1_000, slippage); err != nil {
			t.Fatal("IncreaseLiquidity() fail", err)
		}
	}
	positions, err := c.GetPositionsByOwner(ctx, c.Payer(), &pool)
	if err != nil {
		t.Fatal("GetPositionsByOwner() fail", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected one position, got %d", len(positions))
	}
	held := u128.ToBig(positions[0].State.Liquidity)

	half := new(big.Int).Rsh(held, 1)
	if _, err = c.DecreaseLiquidity(ctx, pool, lower, upper, slippage, half); err != nil {
		t.Fatal("DecreaseLiquidity() fail", err)
	}
	if _, err = c.DecreaseLiquidity(ctx, pool, lower, upper, slippage, nil); err != nil {
		t.Fatal("DecreaseLiquidity() fail", err)
	}

	positions, err = c.GetPositionsByOwner(ctx, c.Payer(), &pool)
	if err != nil {
		t.Fatal("GetPositionsByOwner() fail", err)
	}
	if len(positions) != 0 {
		t.Fatalf("position should be closed, %d left", len(positions))
	}

	if _, err = solanago.GetAccountInfo(ctx, c.rpcClient, rpc.CommitmentFinalized, pool); err != nil {
		t.Fatal("pool account missing", err)
	}
}
