package main

import (
	"errors"
	"math/big"
	"strings"

	"github.com/krazyTry/clmm-cli/amm_v3"
	"github.com/krazyTry/clmm-cli/clmm"
	"github.com/krazyTry/clmm-cli/u128"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
)

const testMintAmount = 100_000

func newRaydiumCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "raydium",
		Short: "Raydium-related operations",
	}
	cmd.AddCommand(
		newMintTokenCmd(a),
		newCreateTokenAccountCmd(a),
		newMintToTokenAccountCmd(a),
		newCreatePoolCmd(a),
		newIncreaseLiquidityCmd(a),
		newDecreaseLiquidityCmd(a),
		newRaydiumTestCmd(a),
		newCreateConfigCmd(a),
		newPoolCmd(a),
		newPositionsCmd(a),
	)
	return cmd
}

func newMintTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mint-token",
		Short: "Mint a new token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			mint, _, err := c.CreateMint(cmd.Context())
			if err != nil {
				return err
			}
			a.printf("Mint: %s\n", mint)
			return nil
		},
	}
}

func newCreateTokenAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-token-account <mint>",
		Short: "Create a token account for the specified mint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePubkey("mint", args[0])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			account, _, err := c.CreateTokenAccount(cmd.Context(), mint)
			if err != nil {
				return err
			}
			a.printf("Token Account: %s\n", account)
			return nil
		},
	}
}

func newMintToTokenAccountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mint-to-token-account <mint> <token_account> <amount>",
		Short: "Mint tokens to an existing token account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mint, err := parsePubkey("mint", args[0])
			if err != nil {
				return err
			}
			account, err := parsePubkey("token account", args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint("amount", args[2], 64)
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			if _, err = c.MintTo(cmd.Context(), mint, account, amount); err != nil {
				return err
			}
			a.printf("Minted %d tokens to account: %s\n", amount, account)
			return nil
		},
	}
}

func newCreatePoolCmd(a *app) *cobra.Command {
	var openTime uint64
	cmd := &cobra.Command{
		Use:   "create-pool <config_index> <price> <mint0> <mint1>",
		Short: "Create a new pool using the provided parameters",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseUint("config index", args[0], 16)
			if err != nil {
				return err
			}
			price, err := parsePrice("price", args[1])
			if err != nil {
				return err
			}
			mint0, err := parsePubkey("mint0", args[2])
			if err != nil {
				return err
			}
			mint1, err := parsePubkey("mint1", args[3])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			pool, _, err := c.CreatePool(cmd.Context(), uint16(index), price, mint0, mint1, openTime)
			if err != nil {
				return err
			}
			a.printf("Pool created: %s\n", pool)
			return nil
		},
	}
	cmd.Flags().Uint64VarP(&openTime, "open-time", "o", 0, "open time for the pool")
	return cmd
}

func newIncreaseLiquidityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "increase-liquidity <tick_lower_price> <tick_upper_price> <input_amount> <pool_pubkey> <slippage>",
		Short: "Increase liquidity in a pool by specifying the price range and input amount",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			lower, err := parsePrice("tick lower price", args[0])
			if err != nil {
				return err
			}
			upper, err := parsePrice("tick upper price", args[1])
			if err != nil {
				return err
			}
			amount, err := parseUint("input amount", args[2], 64)
			if err != nil {
				return err
			}
			pool, err := parsePubkey("pool", args[3])
			if err != nil {
				return err
			}
			slippage, err := parseSlippage(args[4])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			if _, err = c.IncreaseLiquidity(cmd.Context(), pool, lower, upper, amount, slippage); err != nil {
				return err
			}
			a.printf("Increased liquidity in pool: %s\n", pool)
			return nil
		},
	}
}

func newDecreaseLiquidityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decrease-liquidity <tick_lower_price> <tick_upper_price> <pool_pubkey> <slippage> [liquidity]",
		Short: "Decrease liquidity from a pool by specifying the price range and liquidity",
		Long:  "Decrease liquidity from a pool. Without liquidity the whole position is removed and closed.",
		Args:  cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			lower, err := parsePrice("tick lower price", args[0])
			if err != nil {
				return err
			}
			upper, err := parsePrice("tick upper price", args[1])
			if err != nil {
				return err
			}
			pool, err := parsePubkey("pool", args[2])
			if err != nil {
				return err
			}
			slippage, err := parseSlippage(args[3])
			if err != nil {
				return err
			}
			var liquidity *big.Int
			if len(args) == 5 {
				if liquidity, err = parseLiquidity(args[4]); err != nil {
					return err
				}
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			_, err = c.DecreaseLiquidity(cmd.Context(), pool, lower, upper, slippage, liquidity)
			if errors.Is(err, clmm.ErrPositionNotFound) {
				a.println("Position doesn't exist")
				return nil
			}
			if err != nil {
				return err
			}
			a.printf("Decreased liquidity in pool: %s\n", pool)
			return nil
		},
	}
}

func newRaydiumTestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "A test command for Raydium operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, err := a.client(ctx, false)
			if err != nil {
				return err
			}

			var mints, accounts [2]solana.PublicKey
			for i := range mints {
				if mints[i], _, err = c.CreateMint(ctx); err != nil {
					return err
				}
				if accounts[i], _, err = c.CreateTokenAccount(ctx, mints[i]); err != nil {
					return err
				}
			}
			for i := range mints {
				a.printf("Mint%d: %s\n", i+1, mints[i])
				a.printf("Token Account%d: %s\n", i+1, accounts[i])
			}
			for i := range mints {
				if _, err = c.MintTo(ctx, mints[i], accounts[i], testMintAmount); err != nil {
					return err
				}
				a.printf("Minted %d tokens to account: %s\n", testMintAmount, accounts[i])
			}
			return nil
		},
	}
}

func newCreateConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "create-config <index> <tick_spacing> <trade_fee_rate> <protocol_fee_rate> <fund_fee_rate>",
		Short: "Create an amm config signed by the admin keypair",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			var values [5]uint64
			names := [5]string{"index", "tick spacing", "trade fee rate", "protocol fee rate", "fund fee rate"}
			bits := [5]int{16, 16, 32, 32, 32}
			for i := range values {
				v, err := parseUint(names[i], args[i], bits[i])
				if err != nil {
					return err
				}
				values[i] = v
			}
			if values[1] == 0 {
				return amm_v3.ErrInvalidTickSpacing
			}
			c, err := a.client(cmd.Context(), true)
			if err != nil {
				return err
			}
			ammConfig, _, err := c.CreateAmmConfig(cmd.Context(), amm_v3.CreateAmmConfigParams{
				Index:           uint16(values[0]),
				TickSpacing:     uint16(values[1]),
				TradeFeeRate:    uint32(values[2]),
				ProtocolFeeRate: uint32(values[3]),
				FundFeeRate:     uint32(values[4]),
			})
			if err != nil {
				return err
			}
			a.printf("Amm config created: %s\n", ammConfig)
			return nil
		},
	}
}

func newPoolCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "pool <pool_pubkey>",
		Short: "Show a pool's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parsePubkey("pool", args[0])
			if err != nil {
				return err
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			pool, err := c.GetPool(cmd.Context(), key)
			if err != nil {
				return err
			}
			ammConfig, err := c.GetAmmConfig(cmd.Context(), pool.AmmConfig)
			if err != nil {
				return err
			}
			sqrtPrice := u128.ToBig(pool.SqrtPriceX64)

			a.printf("Pool: %s\n", key)
			a.printf("Amm config: %s (index %d, trade fee rate %d)\n", pool.AmmConfig, ammConfig.Index, ammConfig.TradeFeeRate)
			a.printf("Mint0: %s (decimals %d)\n", pool.TokenMint0, pool.MintDecimals0)
			a.printf("Mint1: %s (decimals %d)\n", pool.TokenMint1, pool.MintDecimals1)
			a.printf("Tick spacing: %d\n", pool.TickSpacing)
			a.printf("Tick current: %d\n", pool.TickCurrent)
			a.printf("Sqrt price x64: %s\n", sqrtPrice)
			a.printf("Price: %s\n", amm_v3.SqrtPriceX64ToPrice(sqrtPrice, pool.MintDecimals0, pool.MintDecimals1))
			if u128.IsZero(pool.Liquidity) {
				a.println("Liquidity: 0 (no liquidity at the current tick)")
			} else {
				a.printf("Liquidity: %s\n", u128.ToBig(pool.Liquidity))
			}
			var rewards []string
			for _, reward := range pool.RewardInfos {
				if reward.Initialized() {
					rewards = append(rewards, reward.TokenMint.String())
				}
			}
			if len(rewards) > 0 {
				a.printf("Rewards: %s\n", strings.Join(rewards, ", "))
			}
			return nil
		},
	}
}

func newPositionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "positions [pool_pubkey]",
		Short: "List the payer's positions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pool *solana.PublicKey
			if len(args) == 1 {
				key, err := parsePubkey("pool", args[0])
				if err != nil {
					return err
				}
				pool = &key
			}
			c, err := a.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			positions, err := c.GetPositionsByOwner(cmd.Context(), c.Payer(), pool)
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				a.println("No positions")
				return nil
			}
			for _, p := range positions {
				a.printf("Position: %s nft: %s pool: %s ticks: [%d, %d] liquidity: %s\n",
					p.Position, p.Mint, p.State.PoolID, p.State.TickLowerIndex, p.State.TickUpperIndex, u128.ToBig(p.State.Liquidity))
			}
			return nil
		},
	}
}
