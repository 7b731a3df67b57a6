package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
)

const (
	DefaultPath     = "config.toml"
	DefaultSlippage = 0.01

	EnvHTTPURL   = "CLMM_HTTP_URL"
	EnvWsURL     = "CLMM_WS_URL"
	EnvPayerPath = "CLMM_PAYER_PATH"
)

type Global struct {
	HTTPURL          string  `toml:"http_url"`
	WsURL            string  `toml:"ws_url"`
	PayerPath        string  `toml:"payer_path"`
	AdminPath        string  `toml:"admin_path"`
	RaydiumV3Program string  `toml:"raydium_v3_program"`
	Slippage         float64 `toml:"slippage"`
}

type Config struct {
	Global Global `toml:"global"`

	// ProgramID is RaydiumV3Program parsed.
	ProgramID solana.PublicKey `toml:"-"`
}

// LoadDotEnv loads .env files into the process environment. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the TOML config at path, applies env overrides and defaults and
// validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	applyEnv(&cfg.Global)

	if !meta.IsDefined("global", "slippage") {
		cfg.Global.Slippage = DefaultSlippage
	}
	if cfg.Global.AdminPath == "" {
		cfg.Global.AdminPath = cfg.Global.PayerPath
	}
	if cfg.Global.WsURL == "" {
		cfg.Global.WsURL = wsFromHTTP(cfg.Global.HTTPURL)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	g := c.Global
	switch {
	case g.HTTPURL == "":
		return errors.New("global.http_url is required")
	case g.PayerPath == "":
		return errors.New("global.payer_path is required")
	case g.RaydiumV3Program == "":
		return errors.New("global.raydium_v3_program is required")
	case g.Slippage < 0 || g.Slippage >= 1:
		return fmt.Errorf("global.slippage %v out of range [0, 1)", g.Slippage)
	}
	programID, err := solana.PublicKeyFromBase58(g.RaydiumV3Program)
	if err != nil {
		return fmt.Errorf("global.raydium_v3_program: %w", err)
	}
	c.ProgramID = programID
	return nil
}

func applyEnv(g *Global) {
	if v, ok := os.LookupEnv(EnvHTTPURL); ok && v != "" {
		g.HTTPURL = v
	}
	if v, ok := os.LookupEnv(EnvWsURL); ok && v != "" {
		g.WsURL = v
	}
	if v, ok := os.LookupEnv(EnvPayerPath); ok && v != "" {
		g.PayerPath = v
	}
}

func wsFromHTTP(u string) string {
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return ""
}
