package amm_v3

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	AmmConfigDiscriminator             = accountDiscriminator("AmmConfig")
	PoolStateDiscriminator             = accountDiscriminator("PoolState")
	PersonalPositionStateDiscriminator = accountDiscriminator("PersonalPositionState")
)

const (
	AmmConfigSize             = 117
	PoolStateSize             = 1544
	PersonalPositionStateSize = 281
)

type AmmConfig struct {
	Bump            uint8
	Index           uint16
	Owner           solana.PublicKey
	ProtocolFeeRate uint32
	TradeFeeRate    uint32
	TickSpacing     uint16
	FundFeeRate     uint32
	FundOwner       solana.PublicKey
}

func (obj *AmmConfig) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	obj.Bump = r.u8()
	obj.Index = r.u16()
	obj.Owner = r.pubkey()
	obj.ProtocolFeeRate = r.u32()
	obj.TradeFeeRate = r.u32()
	obj.TickSpacing = r.u16()
	obj.FundFeeRate = r.u32()
	r.skip(4)
	obj.FundOwner = r.pubkey()
	r.skip(8 * 3)
	return r.err
}

func (obj AmmConfig) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(obj.Bump)
	w.u16(obj.Index)
	w.pubkey(obj.Owner)
	w.u32(obj.ProtocolFeeRate)
	w.u32(obj.TradeFeeRate)
	w.u16(obj.TickSpacing)
	w.u32(obj.FundFeeRate)
	w.zero(4)
	w.pubkey(obj.FundOwner)
	w.zero(8 * 3)
	return w.err
}

type RewardInfo struct {
	RewardState           uint8
	OpenTime              uint64
	EndTime               uint64
	LastUpdateTime        uint64
	EmissionsPerSecondX64 bin.Uint128
	RewardTotalEmissioned uint64
	RewardClaimed         uint64
	TokenMint             solana.PublicKey
	TokenVault            solana.PublicKey
	Authority             solana.PublicKey
	RewardGrowthGlobalX64 bin.Uint128
}

// Initialized reports whether the reward slot is in use.
func (ri RewardInfo) Initialized() bool {
	return !ri.TokenMint.Equals(solana.PublicKey{})
}

func (ri *RewardInfo) read(r *fieldReader) {
	ri.RewardState = r.u8()
	ri.OpenTime = r.u64()
	ri.EndTime = r.u64()
	ri.LastUpdateTime = r.u64()
	ri.EmissionsPerSecondX64 = r.u128()
	ri.RewardTotalEmissioned = r.u64()
	ri.RewardClaimed = r.u64()
	ri.TokenMint = r.pubkey()
	ri.TokenVault = r.pubkey()
	ri.Authority = r.pubkey()
	ri.RewardGrowthGlobalX64 = r.u128()
}

func (ri RewardInfo) write(w *fieldWriter) {
	w.u8(ri.RewardState)
	w.u64(ri.OpenTime)
	w.u64(ri.EndTime)
	w.u64(ri.LastUpdateTime)
	w.u128(ri.EmissionsPerSecondX64)
	w.u64(ri.RewardTotalEmissioned)
	w.u64(ri.RewardClaimed)
	w.pubkey(ri.TokenMint)
	w.pubkey(ri.TokenVault)
	w.pubkey(ri.Authority)
	w.u128(ri.RewardGrowthGlobalX64)
}

type PoolState struct {
	Bump          uint8
	AmmConfig     solana.PublicKey
	Owner         solana.PublicKey
	TokenMint0    solana.PublicKey
	TokenMint1    solana.PublicKey
	TokenVault0   solana.PublicKey
	TokenVault1   solana.PublicKey
	ObservationID solana.PublicKey
	MintDecimals0 uint8
	MintDecimals1 uint8
	TickSpacing   uint16
	Liquidity     bin.Uint128
	SqrtPriceX64  bin.Uint128
	TickCurrent   int32

	FeeGrowthGlobal0X64 bin.Uint128
	FeeGrowthGlobal1X64 bin.Uint128
	ProtocolFeesToken0  uint64
	ProtocolFeesToken1  uint64

	SwapInAmountToken0  bin.Uint128
	SwapOutAmountToken1 bin.Uint128
	SwapInAmountToken1  bin.Uint128
	SwapOutAmountToken0 bin.Uint128

	Status      uint8
	RewardInfos [RewardNum]RewardInfo

	TickArrayBitmap [16]uint64

	TotalFeesToken0        uint64
	TotalFeesClaimedToken0 uint64
	TotalFeesToken1        uint64
	TotalFeesClaimedToken1 uint64
	FundFeesToken0         uint64
	FundFeesToken1         uint64

	OpenTime    uint64
	RecentEpoch uint64
}

func (obj *PoolState) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	obj.Bump = r.u8()
	obj.AmmConfig = r.pubkey()
	obj.Owner = r.pubkey()
	obj.TokenMint0 = r.pubkey()
	obj.TokenMint1 = r.pubkey()
	obj.TokenVault0 = r.pubkey()
	obj.TokenVault1 = r.pubkey()
	obj.ObservationID = r.pubkey()
	obj.MintDecimals0 = r.u8()
	obj.MintDecimals1 = r.u8()
	obj.TickSpacing = r.u16()
	obj.Liquidity = r.u128()
	obj.SqrtPriceX64 = r.u128()
	obj.TickCurrent = r.i32()
	r.skip(2 + 2)
	obj.FeeGrowthGlobal0X64 = r.u128()
	obj.FeeGrowthGlobal1X64 = r.u128()
	obj.ProtocolFeesToken0 = r.u64()
	obj.ProtocolFeesToken1 = r.u64()
	obj.SwapInAmountToken0 = r.u128()
	obj.SwapOutAmountToken1 = r.u128()
	obj.SwapInAmountToken1 = r.u128()
	obj.SwapOutAmountToken0 = r.u128()
	obj.Status = r.u8()
	r.skip(7)
	for i := range obj.RewardInfos {
		obj.RewardInfos[i].read(r)
	}
	for i := range obj.TickArrayBitmap {
		obj.TickArrayBitmap[i] = r.u64()
	}
	obj.TotalFeesToken0 = r.u64()
	obj.TotalFeesClaimedToken0 = r.u64()
	obj.TotalFeesToken1 = r.u64()
	obj.TotalFeesClaimedToken1 = r.u64()
	obj.FundFeesToken0 = r.u64()
	obj.FundFeesToken1 = r.u64()
	obj.OpenTime = r.u64()
	obj.RecentEpoch = r.u64()
	r.skip(8 * (24 + 32))
	return r.err
}

func (obj PoolState) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(obj.Bump)
	w.pubkey(obj.AmmConfig)
	w.pubkey(obj.Owner)
	w.pubkey(obj.TokenMint0)
	w.pubkey(obj.TokenMint1)
	w.pubkey(obj.TokenVault0)
	w.pubkey(obj.TokenVault1)
	w.pubkey(obj.ObservationID)
	w.u8(obj.MintDecimals0)
	w.u8(obj.MintDecimals1)
	w.u16(obj.TickSpacing)
	w.u128(obj.Liquidity)
	w.u128(obj.SqrtPriceX64)
	w.i32(obj.TickCurrent)
	w.zero(2 + 2)
	w.u128(obj.FeeGrowthGlobal0X64)
	w.u128(obj.FeeGrowthGlobal1X64)
	w.u64(obj.ProtocolFeesToken0)
	w.u64(obj.ProtocolFeesToken1)
	w.u128(obj.SwapInAmountToken0)
	w.u128(obj.SwapOutAmountToken1)
	w.u128(obj.SwapInAmountToken1)
	w.u128(obj.SwapOutAmountToken0)
	w.u8(obj.Status)
	w.zero(7)
	for _, reward := range obj.RewardInfos {
		reward.write(w)
	}
	for _, word := range obj.TickArrayBitmap {
		w.u64(word)
	}
	w.u64(obj.TotalFeesToken0)
	w.u64(obj.TotalFeesClaimedToken0)
	w.u64(obj.TotalFeesToken1)
	w.u64(obj.TotalFeesClaimedToken1)
	w.u64(obj.FundFeesToken0)
	w.u64(obj.FundFeesToken1)
	w.u64(obj.OpenTime)
	w.u64(obj.RecentEpoch)
	w.zero(8 * (24 + 32))
	return w.err
}

type PositionRewardInfo struct {
	GrowthInsideLastX64 bin.Uint128
	RewardAmountOwed    uint64
}

type PersonalPositionState struct {
	Bump                    uint8
	NftMint                 solana.PublicKey
	PoolID                  solana.PublicKey
	TickLowerIndex          int32
	TickUpperIndex          int32
	Liquidity               bin.Uint128
	FeeGrowthInside0LastX64 bin.Uint128
	FeeGrowthInside1LastX64 bin.Uint128
	TokenFeesOwed0          uint64
	TokenFeesOwed1          uint64
	RewardInfos             [RewardNum]PositionRewardInfo
	RecentEpoch             uint64
}

func (obj *PersonalPositionState) UnmarshalWithDecoder(dec *bin.Decoder) error {
	r := &fieldReader{dec: dec}
	obj.Bump = r.u8()
	obj.NftMint = r.pubkey()
	obj.PoolID = r.pubkey()
	obj.TickLowerIndex = r.i32()
	obj.TickUpperIndex = r.i32()
	obj.Liquidity = r.u128()
	obj.FeeGrowthInside0LastX64 = r.u128()
	obj.FeeGrowthInside1LastX64 = r.u128()
	obj.TokenFeesOwed0 = r.u64()
	obj.TokenFeesOwed1 = r.u64()
	for i := range obj.RewardInfos {
		obj.RewardInfos[i].GrowthInsideLastX64 = r.u128()
		obj.RewardInfos[i].RewardAmountOwed = r.u64()
	}
	obj.RecentEpoch = r.u64()
	r.skip(8 * 7)
	return r.err
}

func (obj PersonalPositionState) MarshalWithEncoder(enc *bin.Encoder) error {
	w := &fieldWriter{enc: enc}
	w.u8(obj.Bump)
	w.pubkey(obj.NftMint)
	w.pubkey(obj.PoolID)
	w.i32(obj.TickLowerIndex)
	w.i32(obj.TickUpperIndex)
	w.u128(obj.Liquidity)
	w.u128(obj.FeeGrowthInside0LastX64)
	w.u128(obj.FeeGrowthInside1LastX64)
	w.u64(obj.TokenFeesOwed0)
	w.u64(obj.TokenFeesOwed1)
	for _, reward := range obj.RewardInfos {
		w.u128(reward.GrowthInsideLastX64)
		w.u64(reward.RewardAmountOwed)
	}
	w.u64(obj.RecentEpoch)
	w.zero(8 * 7)
	return w.err
}

func decodeAccount(name string, want [discriminatorLength]byte, data []byte, obj bin.BinaryUnmarshaler) error {
	if len(data) < discriminatorLength || !bytes.Equal(data[:discriminatorLength], want[:]) {
		return fmt.Errorf("%s: %w", name, ErrDiscriminator)
	}
	if err := obj.UnmarshalWithDecoder(bin.NewBorshDecoder(data[discriminatorLength:])); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// encodeAccount prefixes the Borsh encoding of obj with its discriminator.
func encodeAccount(name string, disc [discriminatorLength]byte, obj bin.BinaryMarshaler) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, err
	}
	if err := obj.MarshalWithEncoder(enc); err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func EncodeAmmConfig(obj *AmmConfig) ([]byte, error) {
	return encodeAccount("AmmConfig", AmmConfigDiscriminator, obj)
}

func EncodePoolState(obj *PoolState) ([]byte, error) {
	return encodeAccount("PoolState", PoolStateDiscriminator, obj)
}

func EncodePersonalPositionState(obj *PersonalPositionState) ([]byte, error) {
	return encodeAccount("PersonalPositionState", PersonalPositionStateDiscriminator, obj)
}

func DecodeAmmConfig(data []byte) (*AmmConfig, error) {
	out := new(AmmConfig)
	if err := decodeAccount("AmmConfig", AmmConfigDiscriminator, data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func DecodePoolState(data []byte) (*PoolState, error) {
	out := new(PoolState)
	if err := decodeAccount("PoolState", PoolStateDiscriminator, data, out); err != nil {
		return nil, err
	}
	return out, nil
}

func DecodePersonalPositionState(data []byte) (*PersonalPositionState, error) {
	out := new(PersonalPositionState)
	if err := decodeAccount("PersonalPositionState", PersonalPositionStateDiscriminator, data, out); err != nil {
		return nil, err
	}
	return out, nil
}
