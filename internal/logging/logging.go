package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger: JSON in production, console otherwise.
// An unparsable level falls back to info.
func New(production bool, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.Set(strings.ToLower(strings.TrimSpace(level))); err != nil {
			lvl = zapcore.InfoLevel
		}
	} else if !production {
		lvl = zapcore.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

// Install builds the logger and makes it the zap global so packages can log
// through zap.L(). The returned func restores the previous global and flushes.
func Install(production bool, level string) (*zap.Logger, func(), error) {
	lg, err := New(production, level)
	if err != nil {
		return nil, nil, err
	}
	undo := zap.ReplaceGlobals(lg)
	return lg, func() {
		_ = lg.Sync()
		undo()
	}, nil
}
