package amm_v3

import (
	"bytes"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

func u16BE(v uint16) []byte {
	out := make([]byte, 2)
	binary.BigEndian.PutUint16(out, v)
	return out
}

func i32BE(v int32) []byte {
	out := make([]byte, 4)
	binary.BigEndian.PutUint32(out, uint32(v))
	return out
}

// SortMints orders two mints the way the program requires (mint0 < mint1).
// swapped reports whether the inputs were reversed.
func SortMints(mintA, mintB solana.PublicKey) (mint0, mint1 solana.PublicKey, swapped bool) {
	if bytes.Compare(mintA.Bytes(), mintB.Bytes()) > 0 {
		return mintB, mintA, true
	}
	return mintA, mintB, false
}

func DeriveAmmConfigPDA(programID solana.PublicKey, index uint16) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(AmmConfigSeed), u16BE(index)}, programID)
	return pda, err
}

// DerivePoolPDA expects mint0 < mint1, see SortMints.
func DerivePoolPDA(programID, ammConfig, mint0, mint1 solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(PoolSeed), ammConfig.Bytes(), mint0.Bytes(), mint1.Bytes()},
		programID,
	)
	return pda, err
}

func DerivePoolVaultPDA(programID, pool, mint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(PoolVaultSeed), pool.Bytes(), mint.Bytes()}, programID)
	return pda, err
}

func DerivePoolRewardVaultPDA(programID, pool, rewardMint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(PoolRewardVaultSeed), pool.Bytes(), rewardMint.Bytes()}, programID)
	return pda, err
}

func DeriveObservationPDA(programID, pool solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(ObservationSeed), pool.Bytes()}, programID)
	return pda, err
}

func DeriveTickArrayBitmapExtensionPDA(programID, pool solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(TickArrayBitmapExtSeed), pool.Bytes()}, programID)
	return pda, err
}

func DeriveTickArrayPDA(programID, pool solana.PublicKey, startIndex int32) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(TickArraySeed), pool.Bytes(), i32BE(startIndex)}, programID)
	return pda, err
}

func DeriveProtocolPositionPDA(programID, pool solana.PublicKey, tickLower, tickUpper int32) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress(
		[][]byte{[]byte(PositionSeed), pool.Bytes(), i32BE(tickLower), i32BE(tickUpper)},
		programID,
	)
	return pda, err
}

func DerivePersonalPositionPDA(programID, nftMint solana.PublicKey) (solana.PublicKey, error) {
	pda, _, err := solana.FindProgramAddress([][]byte{[]byte(PositionSeed), nftMint.Bytes()}, programID)
	return pda, err
}

// PoolAddresses are the PDAs of a pool that every instruction touches.
type PoolAddresses struct {
	AmmConfig          solana.PublicKey
	Pool               solana.PublicKey
	TokenVault0        solana.PublicKey
	TokenVault1        solana.PublicKey
	Observation        solana.PublicKey
	TickArrayBitmapExt solana.PublicKey
}

// DerivePoolAddresses derives the pool and its companion accounts from the
// config index and the (sorted) mints.
func DerivePoolAddresses(programID solana.PublicKey, configIndex uint16, mint0, mint1 solana.PublicKey) (*PoolAddresses, error) {
	ammConfig, err := DeriveAmmConfigPDA(programID, configIndex)
	if err != nil {
		return nil, err
	}
	pool, err := DerivePoolPDA(programID, ammConfig, mint0, mint1)
	if err != nil {
		return nil, err
	}
	out := &PoolAddresses{AmmConfig: ammConfig, Pool: pool}
	if out.TokenVault0, err = DerivePoolVaultPDA(programID, pool, mint0); err != nil {
		return nil, err
	}
	if out.TokenVault1, err = DerivePoolVaultPDA(programID, pool, mint1); err != nil {
		return nil, err
	}
	if out.Observation, err = DeriveObservationPDA(programID, pool); err != nil {
		return nil, err
	}
	if out.TickArrayBitmapExt, err = DeriveTickArrayBitmapExtensionPDA(programID, pool); err != nil {
		return nil, err
	}
	return out, nil
}
