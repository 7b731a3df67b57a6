package amm_v3

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const (
	InstructionCreateAmmConfig            = "create_amm_config"
	InstructionCreatePool                 = "create_pool"
	InstructionOpenPositionWithToken22Nft = "open_position_with_token22_nft"
	InstructionIncreaseLiquidityV2        = "increase_liquidity_v2"
	InstructionDecreaseLiquidityV2        = "decrease_liquidity_v2"
	InstructionClosePosition              = "close_position"
)

func newInstruction(programID solana.PublicKey, name string, accounts solana.AccountMetaSlice, args func(w *fieldWriter)) (solana.Instruction, error) {
	buf := new(bytes.Buffer)
	w := &fieldWriter{enc: bin.NewBorshEncoder(buf)}
	disc := InstructionDiscriminator(name)
	w.bytes(disc[:])
	if args != nil {
		args(w)
	}
	if w.err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, w.err)
	}
	return solana.NewInstruction(programID, accounts, buf.Bytes()), nil
}

func readonly(key solana.PublicKey) *solana.AccountMeta {
	return solana.NewAccountMeta(key, false, false)
}
func writable(key solana.PublicKey) *solana.AccountMeta {
	return solana.NewAccountMeta(key, true, false)
}
func signer(key solana.PublicKey) *solana.AccountMeta { return solana.NewAccountMeta(key, false, true) }
func payer(key solana.PublicKey) *solana.AccountMeta  { return solana.NewAccountMeta(key, true, true) }

type CreateAmmConfigParams struct {
	Index           uint16
	TickSpacing     uint16
	TradeFeeRate    uint32
	ProtocolFeeRate uint32
	FundFeeRate     uint32
}

func NewCreateAmmConfigInstruction(params CreateAmmConfigParams, owner, ammConfig, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		payer(owner),
		writable(ammConfig),
		readonly(solana.SystemProgramID),
	}
	return newInstruction(programID, InstructionCreateAmmConfig, accounts, func(w *fieldWriter) {
		w.u16(params.Index)
		w.u16(params.TickSpacing)
		w.u32(params.TradeFeeRate)
		w.u32(params.ProtocolFeeRate)
		w.u32(params.FundFeeRate)
	})
}

type CreatePoolParams struct {
	SqrtPriceX64 bin.Uint128
	OpenTime     uint64
}

type CreatePoolAccounts struct {
	PoolCreator      solana.PublicKey
	AmmConfig        solana.PublicKey
	PoolState        solana.PublicKey
	TokenMint0       solana.PublicKey
	TokenMint1       solana.PublicKey
	TokenVault0      solana.PublicKey
	TokenVault1      solana.PublicKey
	ObservationState solana.PublicKey
	TickArrayBitmap  solana.PublicKey
	TokenProgram0    solana.PublicKey
	TokenProgram1    solana.PublicKey
}

func NewCreatePoolInstruction(params CreatePoolParams, a CreatePoolAccounts, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		payer(a.PoolCreator),
		readonly(a.AmmConfig),
		writable(a.PoolState),
		readonly(a.TokenMint0),
		readonly(a.TokenMint1),
		writable(a.TokenVault0),
		writable(a.TokenVault1),
		writable(a.ObservationState),
		writable(a.TickArrayBitmap),
		readonly(a.TokenProgram0),
		readonly(a.TokenProgram1),
		readonly(solana.SystemProgramID),
		readonly(solana.SysVarRentPubkey),
	}
	return newInstruction(programID, InstructionCreatePool, accounts, func(w *fieldWriter) {
		w.u128(params.SqrtPriceX64)
		w.u64(params.OpenTime)
	})
}

type OpenPositionParams struct {
	TickLowerIndex           int32
	TickUpperIndex           int32
	TickArrayLowerStartIndex int32
	TickArrayUpperStartIndex int32
	Liquidity                bin.Uint128
	Amount0Max               uint64
	Amount1Max               uint64
	WithMetadata             bool
	BaseFlag                 *bool
}

type OpenPositionAccounts struct {
	Payer              solana.PublicKey
	PositionNftOwner   solana.PublicKey
	PositionNftMint    solana.PublicKey
	PositionNftAccount solana.PublicKey
	PoolState          solana.PublicKey
	ProtocolPosition   solana.PublicKey
	TickArrayLower     solana.PublicKey
	TickArrayUpper     solana.PublicKey
	PersonalPosition   solana.PublicKey
	TokenAccount0      solana.PublicKey
	TokenAccount1      solana.PublicKey
	TokenVault0        solana.PublicKey
	TokenVault1        solana.PublicKey
	Vault0Mint         solana.PublicKey
	Vault1Mint         solana.PublicKey
	TickArrayBitmapExt solana.PublicKey
}

// NewOpenPositionWithToken22NftInstruction opens a position whose NFT is a
// Token-2022 mint. The NFT mint must sign.
func NewOpenPositionWithToken22NftInstruction(params OpenPositionParams, a OpenPositionAccounts, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		payer(a.Payer),
		readonly(a.PositionNftOwner),
		payer(a.PositionNftMint),
		writable(a.PositionNftAccount),
		writable(a.PoolState),
		writable(a.ProtocolPosition),
		writable(a.TickArrayLower),
		writable(a.TickArrayUpper),
		writable(a.PersonalPosition),
		writable(a.TokenAccount0),
		writable(a.TokenAccount1),
		writable(a.TokenVault0),
		writable(a.TokenVault1),
		readonly(solana.SysVarRentPubkey),
		readonly(solana.SystemProgramID),
		readonly(solana.TokenProgramID),
		readonly(solana.SPLAssociatedTokenAccountProgramID),
		readonly(solana.Token2022ProgramID),
		readonly(a.Vault0Mint),
		readonly(a.Vault1Mint),
		writable(a.TickArrayBitmapExt),
	}
	return newInstruction(programID, InstructionOpenPositionWithToken22Nft, accounts, func(w *fieldWriter) {
		w.i32(params.TickLowerIndex)
		w.i32(params.TickUpperIndex)
		w.i32(params.TickArrayLowerStartIndex)
		w.i32(params.TickArrayUpperStartIndex)
		w.u128(params.Liquidity)
		w.u64(params.Amount0Max)
		w.u64(params.Amount1Max)
		w.bool(params.WithMetadata)
		w.optionBool(params.BaseFlag)
	})
}

type IncreaseLiquidityParams struct {
	Liquidity  bin.Uint128
	Amount0Max uint64
	Amount1Max uint64
	BaseFlag   *bool
}

type IncreaseLiquidityAccounts struct {
	NftOwner           solana.PublicKey
	NftAccount         solana.PublicKey
	PoolState          solana.PublicKey
	ProtocolPosition   solana.PublicKey
	PersonalPosition   solana.PublicKey
	TickArrayLower     solana.PublicKey
	TickArrayUpper     solana.PublicKey
	TokenAccount0      solana.PublicKey
	TokenAccount1      solana.PublicKey
	TokenVault0        solana.PublicKey
	TokenVault1        solana.PublicKey
	Vault0Mint         solana.PublicKey
	Vault1Mint         solana.PublicKey
	TickArrayBitmapExt solana.PublicKey
}

func NewIncreaseLiquidityV2Instruction(params IncreaseLiquidityParams, a IncreaseLiquidityAccounts, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		signer(a.NftOwner),
		readonly(a.NftAccount),
		writable(a.PoolState),
		writable(a.ProtocolPosition),
		writable(a.PersonalPosition),
		writable(a.TickArrayLower),
		writable(a.TickArrayUpper),
		writable(a.TokenAccount0),
		writable(a.TokenAccount1),
		writable(a.TokenVault0),
		writable(a.TokenVault1),
		readonly(solana.TokenProgramID),
		readonly(solana.Token2022ProgramID),
		readonly(a.Vault0Mint),
		readonly(a.Vault1Mint),
		writable(a.TickArrayBitmapExt),
	}
	return newInstruction(programID, InstructionIncreaseLiquidityV2, accounts, func(w *fieldWriter) {
		w.u128(params.Liquidity)
		w.u64(params.Amount0Max)
		w.u64(params.Amount1Max)
		w.optionBool(params.BaseFlag)
	})
}

type DecreaseLiquidityParams struct {
	Liquidity  bin.Uint128
	Amount0Min uint64
	Amount1Min uint64
}

// RewardAccounts are the remaining accounts for one initialized pool reward.
type RewardAccounts struct {
	RewardVault        solana.PublicKey
	RecipientRewardATA solana.PublicKey
	RewardMint         solana.PublicKey
}

type DecreaseLiquidityAccounts struct {
	NftOwner               solana.PublicKey
	NftAccount             solana.PublicKey
	PersonalPosition       solana.PublicKey
	PoolState              solana.PublicKey
	ProtocolPosition       solana.PublicKey
	TokenVault0            solana.PublicKey
	TokenVault1            solana.PublicKey
	TickArrayLower         solana.PublicKey
	TickArrayUpper         solana.PublicKey
	RecipientTokenAccount0 solana.PublicKey
	RecipientTokenAccount1 solana.PublicKey
	Vault0Mint             solana.PublicKey
	Vault1Mint             solana.PublicKey
	TickArrayBitmapExt     solana.PublicKey
	Rewards                []RewardAccounts
}

func NewDecreaseLiquidityV2Instruction(params DecreaseLiquidityParams, a DecreaseLiquidityAccounts, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		signer(a.NftOwner),
		readonly(a.NftAccount),
		writable(a.PersonalPosition),
		writable(a.PoolState),
		writable(a.ProtocolPosition),
		writable(a.TokenVault0),
		writable(a.TokenVault1),
		writable(a.TickArrayLower),
		writable(a.TickArrayUpper),
		writable(a.RecipientTokenAccount0),
		writable(a.RecipientTokenAccount1),
		readonly(solana.TokenProgramID),
		readonly(solana.Token2022ProgramID),
		readonly(MemoProgramID),
		readonly(a.Vault0Mint),
		readonly(a.Vault1Mint),
		writable(a.TickArrayBitmapExt),
	}
	for _, reward := range a.Rewards {
		accounts = append(accounts,
			writable(reward.RewardVault),
			writable(reward.RecipientRewardATA),
			readonly(reward.RewardMint),
		)
	}
	return newInstruction(programID, InstructionDecreaseLiquidityV2, accounts, func(w *fieldWriter) {
		w.u128(params.Liquidity)
		w.u64(params.Amount0Min)
		w.u64(params.Amount1Min)
	})
}

type ClosePositionAccounts struct {
	NftOwner           solana.PublicKey
	PositionNftMint    solana.PublicKey
	PositionNftAccount solana.PublicKey
	PersonalPosition   solana.PublicKey
	// TokenProgram owns the position NFT mint.
	TokenProgram solana.PublicKey
}

func NewClosePositionInstruction(a ClosePositionAccounts, programID solana.PublicKey) (solana.Instruction, error) {
	accounts := solana.AccountMetaSlice{
		payer(a.NftOwner),
		writable(a.PositionNftMint),
		writable(a.PositionNftAccount),
		writable(a.PersonalPosition),
		readonly(solana.SystemProgramID),
		readonly(a.TokenProgram),
	}
	return newInstruction(programID, InstructionClosePosition, accounts, nil)
}
