package solana

import "github.com/gagliardetto/solana-go"

// Signer returns the private key for a required signer, or nil.
type Signer func(key solana.PublicKey) *solana.PrivateKey

// NewSigner signs with whichever of the wallets matches the requested key.
func NewSigner(wallets ...*solana.Wallet) Signer {
	return func(key solana.PublicKey) *solana.PrivateKey {
		for _, w := range wallets {
			if w != nil && key.Equals(w.PublicKey()) {
				return &w.PrivateKey
			}
		}
		return nil
	}
}
