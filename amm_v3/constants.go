package amm_v3

import (
	"errors"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

var (
	MainnetProgramID = solana.MustPublicKeyFromBase58("CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK")
	DevnetProgramID  = solana.MustPublicKeyFromBase58("DRayAUgENGQBKVaX8owNhgzkEDyoHTGVEGHVJT1E9pfH")

	MemoProgramID = solana.MustPublicKeyFromBase58("MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr")
)

const (
	AmmConfigSeed          = "amm_config"
	PoolSeed               = "pool"
	PoolVaultSeed          = "pool_vault"
	PoolRewardVaultSeed    = "pool_reward_vault"
	ObservationSeed        = "observation"
	PositionSeed           = "position"
	TickArraySeed          = "tick_array"
	TickArrayBitmapExtSeed = "pool_tick_array_bitmap_extension"
)

const (
	TickArraySize = 60
	RewardNum     = 3

	MinTick int32 = -443636
	MaxTick int32 = 443636

	FeeRateDenominator = 1_000_000
)

var (
	MinSqrtPriceX64, _ = new(big.Int).SetString("4295048016", 10)
	MaxSqrtPriceX64, _ = new(big.Int).SetString("79226673521066979257578248091", 10)

	Q64        = new(big.Int).Lsh(big.NewInt(1), 64)
	MaxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
)

var (
	ErrTickOutOfRange      = errors.New("tick out of range")
	ErrSqrtPriceOutOfRange = errors.New("sqrt price x64 out of range")
	ErrInvalidTickRange    = errors.New("tick lower must be less than tick upper")
	ErrInvalidTickSpacing  = errors.New("tick spacing must be positive")
	ErrInvalidPrice        = errors.New("price must be positive")
	ErrDiscriminator       = errors.New("account discriminator mismatch")
	ErrAmountOverflow      = errors.New("token amount overflows u64")
)
