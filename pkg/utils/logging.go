package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"winescore/internal/config"
)

// NewLogger writes JSON to stderr, and also to a rotating file when cfg.File is
// set. Stdout is left to the prediction output.
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := lvl.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleCore := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl)
	if cfg.File == "" {
		return zap.New(consoleCore), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, err
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     28,
	}
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(rotator), lvl)
	return zap.New(zapcore.NewTee(fileCore, consoleCore)), nil
}
