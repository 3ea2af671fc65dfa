package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 3
)

// InitLogger builds a zap logger for the configured level and format,
// installs it as the global logger and returns it.
// Logs go to stderr, or to a rotating file when one is configured, so they
// never interleave with session output on stdout.
func InitLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel())
	if err != nil {
		return nil, fmt.Errorf("config: parse log level: %w", err)
	}

	if cfg.LogFile() != "" {
		logger, err := newFileLogger(cfg, level)
		if err != nil {
			return nil, err
		}
		zap.ReplaceGlobals(logger)
		return logger, nil
	}

	logger, err := newStderrConfig(cfg, level).Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return logger, nil
}

// newStderrConfig leaves stack traces out; recoverable failures are logged
// at warn and error level during normal use.
func newStderrConfig(cfg Config, level zapcore.Level) zap.Config {
	var zapCfg zap.Config
	if cfg.LogFormat() == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level.SetLevel(level)
	zapCfg.DisableStacktrace = true
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.ErrorOutputPaths = []string{"stderr"}
	return zapCfg
}

func newFileLogger(cfg Config, level zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile()), 0o755); err != nil {
		return nil, fmt.Errorf("config: create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile(),
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
		LocalTime:  true,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	var encoder zapcore.Encoder
	if cfg.LogFormat() == "console" {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(rotator), level)
	return zap.New(core, zap.AddCaller()), nil
}
