package logger

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level       string
	Environment string
	ServiceName string
}

// New builds a JSON logger for production and a console logger otherwise,
// and installs it as the zap global.
func New(cfg Config) (*zap.Logger, error) {
	level := parseLevel(cfg.Level)

	var zc zap.Config
	if cfg.Environment == "production" {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "timestamp"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	log, err := zc.Build(zap.Fields(
		zap.String("service", cfg.ServiceName),
		zap.String("environment", cfg.Environment),
	))
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(log)
	return log, nil
}

func parseLevel(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

type contextKey string

const loggerKey contextKey = "logger"

func WithContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext falls back to the zap global when ctx carries no logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return l
	}
	return zap.L()
}
