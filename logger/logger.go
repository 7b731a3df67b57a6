package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvLevel  = "CLMM_LOG_LEVEL"
	EnvFormat = "CLMM_LOG_FORMAT"
)

// New builds the process logger. Output goes to stderr so command results on
// stdout stay machine readable.
func New(verbose bool) (*zap.Logger, error) {
	level, err := parseLevel(os.Getenv(EnvLevel))
	if err != nil {
		return nil, err
	}
	if verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = parseFormat(os.Getenv(EnvFormat))
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	if cfg.Encoding == "json" {
		cfg.EncoderConfig = zap.NewProductionEncoderConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	return cfg.Build()
}

func parseLevel(s string) (zapcore.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return zapcore.InfoLevel, fmt.Errorf("%s=%q: %w", EnvLevel, s, err)
	}
	return level, nil
}

func parseFormat(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "json") {
		return "json"
	}
	return "console"
}
