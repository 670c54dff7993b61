package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/styleselector/core/internal/infrastructure/config"
)

func observed(level zapcore.Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestNew(t *testing.T) {
	l, err := New(config.LoggerConfig{Level: "debug", Format: "json", Output: "stdout"})
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = New(config.LoggerConfig{Level: "loud", Format: "console"})
	require.Error(t, err)
}

func TestLogger_LogStoreWrite(t *testing.T) {
	l, logs := observed(zapcore.DebugLevel)
	doc := l.WithDocument("/store/sdxl_styles.json")

	doc.LogStoreWrite("/store/sdxl_styles.json", 3, 1.5, nil)
	doc.LogStoreWrite("/store/sdxl_styles.json", 3, 0.2, errors.New("disk full"))

	entries := logs.All()
	require.Len(t, entries, 2)

	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, int64(3), entries[0].ContextMap()["entries"])

	require.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	require.Equal(t, "disk full", entries[1].ContextMap()["error"])
	require.Equal(t, "/store/sdxl_styles.json", entries[1].ContextMap()["document"])
}

func TestLogger_LogStyleAction(t *testing.T) {
	l, logs := observed(zapcore.InfoLevel)

	l.WithComponent("style_service").LogStyleAction("add_style", "Cinematic", map[string]interface{}{
		"category": "Film",
	})

	entries := logs.FilterMessage("Style action").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, "add_style", fields["action"])
	require.Equal(t, "Cinematic", fields["subject"])
	require.Equal(t, "Film", fields["category"])
	require.Equal(t, "style_service", fields["component"])
}
