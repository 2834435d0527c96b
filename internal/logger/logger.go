// Package logger holds the process-wide zap logger. Init must be called once
// at startup before any other package logs; Sync flushes buffered entries on
// shutdown.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the shared application logger. It is a no-op logger until Init
// succeeds, so packages may log safely even in tests that skip Init.
var Logger = zap.NewNop()

// Init builds the production logger at the given level ("debug", "info",
// "warn", "error"). An empty level defaults to info.
func Init(level string) error {
	lvl := zapcore.InfoLevel
	if level != "" {
		parsed, err := zapcore.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("parse log level %q: %w", level, err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// Sync flushes any buffered log entries. Errors from syncing stderr are
// expected on some platforms and ignored.
func Sync() {
	_ = Logger.Sync()
}
