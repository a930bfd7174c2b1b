// Package logging builds the zap logger used by the depotsim host.
package logging

import (
	"errors"
	"os"

	"github.com/TheBitDrifter/depot/internal/config"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New builds a logger from cfg. An unknown level falls back to info. When
// cfg.File is set, output goes to a size-rotated file instead of stderr and
// the returned cleanup closes it.
func New(cfg config.LoggingConfig) (*zap.Logger, func() error, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
		if cfg.File == "" {
			zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	if cfg.File == "" {
		logger, err := zapCfg.Build()
		if err != nil {
			return nil, nil, eris.Wrap(err, "build logger")
		}
		return logger, func() error { return ignoreSyncError(logger.Sync()) }, nil
	}

	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	}
	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(zapCfg.EncoderConfig)
	} else {
		encoder = zapcore.NewConsoleEncoder(zapCfg.EncoderConfig)
	}
	logger := zap.New(zapcore.NewCore(encoder, zapcore.AddSync(file), zapCfg.Level))
	cleanup := func() error {
		if err := logger.Sync(); err != nil {
			return eris.Wrap(err, "sync log file")
		}
		return file.Close()
	}
	return logger, cleanup, nil
}

// ignoreSyncError drops the error Sync reports for terminals, which do not
// support fsync.
func ignoreSyncError(err error) error {
	if err == nil {
		return nil
	}
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return nil
	}
	return err
}
