// Package logging builds the zap loggers used by the CLI and the engine.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a logger writing to stderr. format is "console" or "json";
// level is any zap level name.
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	var config zap.Config
	switch format {
	case "json":
		config = zap.NewProductionConfig()
	case "console", "":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.DisableStacktrace = true
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	return config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
}

// MustNew is New for flag defaults that cannot fail. On error it falls back
// to a console logger at warn level.
func MustNew(level, format string) *zap.Logger {
	l, err := New(level, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		l, _ = New("warn", "console")
	}
	return l
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }
