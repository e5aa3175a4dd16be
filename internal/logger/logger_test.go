package logger

import (
	"testing"

	"github.com/deppfellow/phonebook/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "error", want: zerolog.ErrorLevel},
		{level: "verbose", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(tt.level, false)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNewLoggerServiceWithoutLicense(t *testing.T) {
	service := NewLoggerService(config.DefaultObservabilityConfig())
	assert.Nil(t, service.GetApplication())

	// Shutdown without an application is a no-op.
	service.Shutdown()

	logger := NewLoggerWithService(config.DefaultObservabilityConfig(), service)
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}

func TestWithTraceContextWithoutTransaction(t *testing.T) {
	logger := zerolog.Nop()
	assert.Equal(t, logger, WithTraceContext(logger, nil))
}

func TestGetPgxTraceLogLevel(t *testing.T) {
	assert.Equal(t, 6, GetPgxTraceLogLevel(zerolog.TraceLevel))
	assert.Equal(t, 4, GetPgxTraceLogLevel(zerolog.InfoLevel))
	assert.Equal(t, 2, GetPgxTraceLogLevel(zerolog.ErrorLevel))
	assert.Equal(t, 1, GetPgxTraceLogLevel(zerolog.Disabled))
}
