package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
)

const devnetProgram = "DRayAUgENGQBKVaX8owNhgzkEDyoHTGVEGHVJT1E9pfH"

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[global]
http_url = "https://api.devnet.solana.com"
ws_url = "wss://example.invalid"
payer_path = "/keys/payer.json"
admin_path = "/keys/admin.json"
raydium_v3_program = "`+devnetProgram+`"
slippage = 0.05
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Global.WsURL != "wss://example.invalid" || cfg.Global.AdminPath != "/keys/admin.json" {
		t.Fatalf("unexpected global: %+v", cfg.Global)
	}
	if cfg.Global.Slippage != 0.05 {
		t.Fatalf("slippage = %v", cfg.Global.Slippage)
	}
	if !cfg.ProgramID.Equals(solana.MustPublicKeyFromBase58(devnetProgram)) {
		t.Fatalf("program id = %s", cfg.ProgramID)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
[global]
http_url = "http://127.0.0.1:8899"
payer_path = "/keys/payer.json"
raydium_v3_program = "`+devnetProgram+`"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Global.WsURL != "ws://127.0.0.1:8899" {
		t.Fatalf("ws_url = %q", cfg.Global.WsURL)
	}
	if cfg.Global.AdminPath != "/keys/payer.json" {
		t.Fatalf("admin_path = %q", cfg.Global.AdminPath)
	}
	if cfg.Global.Slippage != DefaultSlippage {
		t.Fatalf("slippage = %v", cfg.Global.Slippage)
	}
}

func TestLoadExplicitZeroSlippage(t *testing.T) {
	path := writeConfig(t, `
[global]
http_url = "http://127.0.0.1:8899"
payer_path = "/keys/payer.json"
raydium_v3_program = "`+devnetProgram+`"
slippage = 0.0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Global.Slippage != 0 {
		t.Fatalf("slippage = %v", cfg.Global.Slippage)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"missing http_url": `
[global]
payer_path = "/keys/payer.json"
raydium_v3_program = "` + devnetProgram + `"`,
		"missing payer": `
[global]
http_url = "http://127.0.0.1:8899"
raydium_v3_program = "` + devnetProgram + `"`,
		"bad program": `
[global]
http_url = "http://127.0.0.1:8899"
payer_path = "/keys/payer.json"
raydium_v3_program = "not-a-key"`,
		"bad slippage": `
[global]
http_url = "http://127.0.0.1:8899"
payer_path = "/keys/payer.json"
raydium_v3_program = "` + devnetProgram + `"
slippage = 1.5`,
		"bad toml": `[global`,
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("missing file: expected error")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, `
[global]
http_url = "http://127.0.0.1:8899"
payer_path = "/keys/payer.json"
raydium_v3_program = "`+devnetProgram+`"
`)
	t.Setenv(EnvHTTPURL, "https://rpc.example.invalid")
	t.Setenv(EnvPayerPath, "/other/payer.json")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Global.HTTPURL != "https://rpc.example.invalid" || cfg.Global.WsURL != "wss://rpc.example.invalid" {
		t.Fatalf("env override not applied: %+v", cfg.Global)
	}
	if cfg.Global.PayerPath != "/other/payer.json" || cfg.Global.AdminPath != "/other/payer.json" {
		t.Fatalf("payer override not applied: %+v", cfg.Global)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte(EnvWsURL+"=wss://dotenv.invalid\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv(EnvWsURL, "")
	os.Unsetenv(EnvWsURL)

	if err := LoadDotEnv(envPath, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatal("LoadDotEnv() fail", err)
	}
	if got := os.Getenv(EnvWsURL); got != "wss://dotenv.invalid" {
		t.Fatalf("%s = %q", EnvWsURL, got)
	}
}

func writeKeypair(t *testing.T, path string) *solana.Wallet {
	t.Helper()
	wallet := solana.NewWallet()
	raw := make([]int, len(wallet.PrivateKey))
	for i, b := range wallet.PrivateKey {
		raw[i] = int(b)
	}
	body, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("marshal keypair: %v", err)
	}
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write keypair: %v", err)
	}
	return wallet
}

func TestReadKeypair(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	want := writeKeypair(t, filepath.Join(home, "id.json"))

	got, err := ReadKeypair("~/id.json")
	if err != nil {
		t.Fatal("ReadKeypair() fail", err)
	}
	if !got.PublicKey().Equals(want.PublicKey()) {
		t.Fatalf("pubkey %s != %s", got.PublicKey(), want.PublicKey())
	}

	t.Setenv("HOME", "")
	if _, err := ReadKeypair("~/id.json"); err == nil || !strings.Contains(err.Error(), "HOME") {
		t.Fatal("ReadKeypair() without HOME should fail", err)
	}

	if _, err := ReadKeypair(filepath.Join(home, "missing.json")); err == nil {
		t.Fatal("ReadKeypair() on missing file should fail")
	}
}
