package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/styleselector/core/internal/infrastructure/config"
)

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New builds a zap logger from config. Console output goes to stderr by default so
// CLI results on stdout stay parseable.
func New(cfg config.LoggerConfig) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.Format != "json" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.DisableStacktrace = true
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	sink := "stderr"
	switch {
	case cfg.Output == "file" && cfg.Filename != "":
		sink = cfg.Filename
	case cfg.Output == "stdout":
		sink = "stdout"
	}
	zapConfig.OutputPaths = []string{sink}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return &Logger{SugaredLogger: zapLogger.Sugar()}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(fields...),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// WithDocument adds the document path field to the logger
func (l *Logger) WithDocument(path string) *Logger {
	return l.WithFields("document", path)
}

// LogStoreWrite records a full-document write
func (l *Logger) LogStoreWrite(path string, entries int, duration float64, err error) {
	fields := []interface{}{
		"document", path,
		"entries", entries,
		"duration_ms", duration,
	}

	if err != nil {
		fields = append(fields, "error", err.Error())
		l.Errorw("Document write failed", fields...)
	} else {
		l.Debugw("Document written", fields...)
	}
}

// LogStyleAction records a user-driven catalog or category mutation
func (l *Logger) LogStyleAction(action, subject string, metadata map[string]interface{}) {
	fields := []interface{}{
		"action", action,
		"subject", subject,
	}

	for k, v := range metadata {
		fields = append(fields, k, v)
	}

	l.Infow("Style action", fields...)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
