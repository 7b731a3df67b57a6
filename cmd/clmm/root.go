package main

import (
	"context"
	"fmt"
	"io"

	"github.com/krazyTry/clmm-cli/clmm"
	"github.com/krazyTry/clmm-cli/config"
	"github.com/krazyTry/clmm-cli/logger"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the global flags and the lazily built client.
type app struct {
	configPath    string
	verbose       bool
	simulate      bool
	computeBudget bool

	log *zap.Logger
	cfg *config.Config
	out io.Writer

	closers []func()
}

func newApp() *app {
	return &app{log: zap.NewNop()}
}

// execute runs the command line and releases the clients afterwards, on
// error paths too. Nil args means os.Args.
func execute(ctx context.Context, a *app, args []string) error {
	defer a.close()
	root := newRootCmd(a)
	if args != nil {
		root.SetArgs(args)
	}
	return root.ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "clmm",
		Short:         "CLI for managing Raydium and Soland operations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			if err := config.LoadDotEnv(); err != nil {
				return err
			}
			log, err := logger.New(a.verbose)
			if err != nil {
				return err
			}
			a.log = log
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath, "global configuration file")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&a.simulate, "simulate", false, "simulate transactions instead of sending them")
	flags.BoolVar(&a.computeBudget, "compute-budget", true, "set a compute unit limit estimated by simulation")

	root.AddCommand(newRaydiumCmd(a), newSolandCmd(a))
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg
	a.log.Debug("config loaded",
		zap.String("path", a.configPath),
		zap.String("http_url", cfg.Global.HTTPURL),
		zap.Stringer("program", cfg.ProgramID),
	)
	return cfg, nil
}

// client builds the clmm client. withAdmin also loads the admin keypair.
func (a *app) client(ctx context.Context, withAdmin bool) (*clmm.Clmm, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	payer, err := cfg.Payer()
	if err != nil {
		return nil, err
	}

	opts := []clmm.Option{
		clmm.WithLogger(a.log),
		clmm.WithSimulate(a.simulate),
		clmm.WithComputeBudget(a.computeBudget),
	}
	if withAdmin {
		admin, err := cfg.Admin()
		if err != nil {
			return nil, err
		}
		opts = append(opts, clmm.WithAdmin(admin))
	}

	wsClient, err := ws.Connect(ctx, cfg.Global.WsURL)
	if err != nil {
		a.log.Warn("websocket unavailable, polling for confirmation", zap.String("ws_url", cfg.Global.WsURL), zap.Error(err))
	} else {
		a.closers = append(a.closers, wsClient.Close)
		opts = append(opts, clmm.WithWS(wsClient))
	}

	rpcClient := rpc.New(cfg.Global.HTTPURL)
	a.closers = append(a.closers, func() { _ = rpcClient.Close() })
	return clmm.NewClmm(rpcClient, cfg.ProgramID, payer, opts...), nil
}

func (a *app) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.log.Sync()
}
