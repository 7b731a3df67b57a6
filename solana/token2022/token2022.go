package token2022

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"
)

const (
	// Extensions follow the padded base account and one account-type byte.
	baseAccountLength = 165
	tlvStart          = baseAccountLength + 1

	ExtensionTransferFeeConfig uint16 = 1
	ExtensionTransferHook      uint16 = 14

	transferFeeConfigLength = 108
	MaxFeeBasisPoints       = 10_000
)

var ErrMalformedExtension = errors.New("malformed token-2022 extension")

// TransferFee is the fee schedule that applies from Epoch onwards.
type TransferFee struct {
	Epoch       uint64
	MaximumFee  uint64
	BasisPoints uint16
}

type TransferFeeConfig struct {
	TransferFeeConfigAuthority *solana.PublicKey
	WithdrawWithheldAuthority  *solana.PublicKey
	WithheldAmount             uint64
	OlderTransferFee           TransferFee
	NewerTransferFee           TransferFee
}

// Extensions lists the mint extensions the client cares about.
type Extensions struct {
	TransferFeeConfig *TransferFeeConfig
	HasTransferHook   bool
}

// ParseExtensions walks the TLV area of a mint account. Plain SPL mints and
// Token-2022 mints without extensions yield an empty result.
func ParseExtensions(data []byte) (*Extensions, error) {
	ext := &Extensions{}
	if len(data) <= tlvStart {
		return ext, nil
	}
	buf := data[tlvStart:]
	for len(buf) >= 4 {
		typ := binary.LittleEndian.Uint16(buf[0:2])
		length := int(binary.LittleEndian.Uint16(buf[2:4]))
		if typ == 0 && length == 0 {
			break
		}
		if len(buf) < 4+length {
			return nil, fmt.Errorf("extension %d length %d: %w", typ, length, ErrMalformedExtension)
		}
		value := buf[4 : 4+length]
		switch typ {
		case ExtensionTransferFeeConfig:
			cfg, err := parseTransferFeeConfig(value)
			if err != nil {
				return nil, err
			}
			ext.TransferFeeConfig = cfg
		case ExtensionTransferHook:
			ext.HasTransferHook = true
		}
		buf = buf[4+length:]
	}
	return ext, nil
}

func parseTransferFeeConfig(data []byte) (*TransferFeeConfig, error) {
	if len(data) < transferFeeConfigLength {
		return nil, fmt.Errorf("transfer fee config length %d: %w", len(data), ErrMalformedExtension)
	}
	return &TransferFeeConfig{
		TransferFeeConfigAuthority: optionalPubkey(data[0:32]),
		WithdrawWithheldAuthority:  optionalPubkey(data[32:64]),
		WithheldAmount:             binary.LittleEndian.Uint64(data[64:72]),
		OlderTransferFee:           parseTransferFee(data[72:90]),
		NewerTransferFee:           parseTransferFee(data[90:108]),
	}, nil
}

func parseTransferFee(data []byte) TransferFee {
	return TransferFee{
		Epoch:       binary.LittleEndian.Uint64(data[0:8]),
		MaximumFee:  binary.LittleEndian.Uint64(data[8:16]),
		BasisPoints: binary.LittleEndian.Uint16(data[16:18]),
	}
}

// optionalPubkey decodes a nullable pubkey: all zero bytes mean none.
func optionalPubkey(data []byte) *solana.PublicKey {
	key := solana.PublicKeyFromBytes(data)
	if key.Equals(solana.PublicKey{}) {
		return nil
	}
	return &key
}

// EpochFee picks the schedule active at epoch.
func (c *TransferFeeConfig) EpochFee(epoch uint64) TransferFee {
	if c == nil {
		return TransferFee{}
	}
	if epoch >= c.NewerTransferFee.Epoch {
		return c.NewerTransferFee
	}
	return c.OlderTransferFee
}

// Fee is the fee withheld when transferring amount: ceil(amount*bps/10000)
// capped at MaximumFee.
func (f TransferFee) Fee(amount uint64) uint64 {
	if f.BasisPoints == 0 || amount == 0 {
		return 0
	}
	fee := new(big.Int).Mul(new(big.Int).SetUint64(amount), big.NewInt(int64(f.BasisPoints)))
	fee.Add(fee, big.NewInt(MaxFeeBasisPoints-1))
	fee.Quo(fee, big.NewInt(MaxFeeBasisPoints))
	if !fee.IsUint64() || fee.Uint64() > f.MaximumFee {
		return f.MaximumFee
	}
	return fee.Uint64()
}

// preFeeAmount is the smallest amount that still delivers postFeeAmount.
func (f TransferFee) preFeeAmount(postFeeAmount uint64) *big.Int {
	post := new(big.Int).SetUint64(postFeeAmount)
	maxFee := new(big.Int).SetUint64(f.MaximumFee)
	switch {
	case postFeeAmount == 0:
		return big.NewInt(0)
	case f.BasisPoints == 0:
		return post
	case f.BasisPoints == MaxFeeBasisPoints:
		return post.Add(post, maxFee)
	}
	numerator := new(big.Int).Mul(post, big.NewInt(MaxFeeBasisPoints))
	denominator := big.NewInt(int64(MaxFeeBasisPoints - f.BasisPoints))
	rawPreFee := numerator.Add(numerator, denominator)
	rawPreFee.Sub(rawPreFee, big.NewInt(1))
	rawPreFee.Quo(rawPreFee, denominator)
	if new(big.Int).Sub(rawPreFee, post).Cmp(maxFee) >= 0 {
		return post.Add(post, maxFee)
	}
	return rawPreFee
}

// InverseFee is the fee to add on top of postFeeAmount so that the receiver
// gets postFeeAmount after the transfer.
func (f TransferFee) InverseFee(postFeeAmount uint64) uint64 {
	if f.BasisPoints == MaxFeeBasisPoints {
		return f.MaximumFee
	}
	pre := f.preFeeAmount(postFeeAmount)
	if !pre.IsUint64() {
		return f.MaximumFee
	}
	return f.Fee(pre.Uint64())
}

// MintInfo carries the fee state of a mint at one epoch.
type MintInfo struct {
	Mint            solana.PublicKey
	Program         solana.PublicKey
	Decimals        uint8
	Epoch           uint64
	Fee             TransferFee
	HasTransferFee  bool
	HasTransferHook bool
}

// NewMintInfo parses extensions out of raw mint data owned by program.
func NewMintInfo(mint, program solana.PublicKey, decimals uint8, data []byte, epoch uint64) (*MintInfo, error) {
	info := &MintInfo{Mint: mint, Program: program, Decimals: decimals, Epoch: epoch}
	if !program.Equals(solana.Token2022ProgramID) {
		return info, nil
	}
	ext, err := ParseExtensions(data)
	if err != nil {
		return nil, fmt.Errorf("mint %s: %w", mint, err)
	}
	info.HasTransferHook = ext.HasTransferHook
	if ext.TransferFeeConfig != nil {
		info.HasTransferFee = true
		info.Fee = ext.TransferFeeConfig.EpochFee(epoch)
	}
	return info, nil
}

// FeeFor is the fee on a pre-fee amount; zero for mints without the extension.
func (m *MintInfo) FeeFor(amount uint64) uint64 {
	if m == nil || !m.HasTransferFee {
		return 0
	}
	return m.Fee.Fee(amount)
}

// InverseFeeFor is the fee to add to a post-fee amount; zero for mints
// without the extension.
func (m *MintInfo) InverseFeeFor(amount uint64) uint64 {
	if m == nil || !m.HasTransferFee {
		return 0
	}
	return m.Fee.InverseFee(amount)
}
