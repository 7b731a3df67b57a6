package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// ReadKeypair loads a solana-keygen JSON keypair file. A leading "~" is
// replaced by $HOME.
func ReadKeypair(path string) (*solana.Wallet, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return nil, err
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(expanded)
	if err != nil {
		return nil, fmt.Errorf("read keypair %s: %w", expanded, err)
	}
	return &solana.Wallet{PrivateKey: key}, nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", errors.New("HOME is not set, cannot expand " + path)
	}
	return home + strings.TrimPrefix(path, "~"), nil
}

// Payer loads the wallet at global.payer_path.
func (c *Config) Payer() (*solana.Wallet, error) {
	return ReadKeypair(c.Global.PayerPath)
}

// Admin loads the wallet at global.admin_path.
func (c *Config) Admin() (*solana.Wallet, error) {
	return ReadKeypair(c.Global.AdminPath)
}
