package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	log, err := New(Config{Level: "warn", Environment: "production", ServiceName: "pos"})
	require.NoError(t, err)
	require.False(t, log.Core().Enabled(zapcore.InfoLevel))
	require.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = New(Config{Level: "debug", Environment: "development", ServiceName: "pos"})
	require.NoError(t, err)
	require.True(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContext(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
	require.NotNil(t, FromContext(context.Background()))
}

func TestOrNop(t *testing.T) {
	require.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	require.Same(t, l, OrNop(l))
}
