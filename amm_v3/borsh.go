package amm_v3

import (
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

const discriminatorLength = 8

func accountDiscriminator(name string) [discriminatorLength]byte {
	return sighash("account:" + name)
}

// InstructionDiscriminator is the 8-byte data prefix of the named instruction.
func InstructionDiscriminator(name string) [discriminatorLength]byte {
	return sighash("global:" + name)
}

func sighash(preimage string) (out [discriminatorLength]byte) {
	hash := sha256.Sum256([]byte(preimage))
	copy(out[:], hash[:discriminatorLength])
	return out
}

// fieldReader reads little endian fields and keeps the first error.
type fieldReader struct {
	dec *bin.Decoder
	err error
}

func (r *fieldReader) pubkey() solana.PublicKey {
	if r.err != nil {
		return solana.PublicKey{}
	}
	var b []byte
	if b, r.err = r.dec.ReadNBytes(solana.PublicKeyLength); r.err != nil {
		return solana.PublicKey{}
	}
	return solana.PublicKeyFromBytes(b)
}

func (r *fieldReader) u8() (v uint8) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint8()
	}
	return v
}

func (r *fieldReader) u16() (v uint16) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint16(bin.LE)
	}
	return v
}

func (r *fieldReader) u32() (v uint32) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint32(bin.LE)
	}
	return v
}

func (r *fieldReader) i32() (v int32) {
	if r.err == nil {
		v, r.err = r.dec.ReadInt32(bin.LE)
	}
	return v
}

func (r *fieldReader) u64() (v uint64) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint64(bin.LE)
	}
	return v
}

func (r *fieldReader) u128() (v bin.Uint128) {
	if r.err == nil {
		v, r.err = r.dec.ReadUint128(bin.LE)
	}
	return v
}

func (r *fieldReader) skip(n uint) {
	if r.err == nil {
		r.err = r.dec.SkipBytes(n)
	}
}

// fieldWriter is the encoding counterpart of fieldReader.
type fieldWriter struct {
	enc *bin.Encoder
	err error
}

func (w *fieldWriter) bytes(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *fieldWriter) pubkey(k solana.PublicKey) { w.bytes(k[:]) }

// zero writes n bytes of padding.
func (w *fieldWriter) zero(n int) { w.bytes(make([]byte, n)) }

func (w *fieldWriter) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *fieldWriter) bool(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *fieldWriter) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, bin.LE)
	}
}

func (w *fieldWriter) u32(v uint32) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(v, bin.LE)
	}
}

func (w *fieldWriter) i32(v int32) {
	if w.err == nil {
		w.err = w.enc.WriteInt32(v, bin.LE)
	}
}

func (w *fieldWriter) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, bin.LE)
	}
}

func (w *fieldWriter) u128(v bin.Uint128) {
	if w.err == nil {
		w.err = w.enc.WriteUint128(v, bin.LE)
	}
}

// optionBool writes a Borsh Option<bool>.
func (w *fieldWriter) optionBool(v *bool) {
	if v == nil {
		w.u8(0)
		return
	}
	w.u8(1)
	w.bool(*v)
}
