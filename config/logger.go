package config

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// InitLogger builds the process logger. Release mode gets the JSON production
// encoder on stdout, every other gin mode gets the colored development encoder.
func InitLogger(cfg *Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}

	var zc zap.Config
	if gin.Mode() == gin.ReleaseMode || cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.OutputPaths = []string{"stdout"}
		zc.ErrorOutputPaths = []string{"stderr"}
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	built, err := zc.Build(zap.AddStacktrace(zap.DPanicLevel))
	if err != nil {
		return nil, err
	}

	logger = built
	return built, nil
}

// GetLogger returns the process logger, or a no-op logger before InitLogger has run
func GetLogger() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// SetLogger replaces the process logger (primarily for testing)
func SetLogger(l *zap.Logger) {
	logger = l
}
