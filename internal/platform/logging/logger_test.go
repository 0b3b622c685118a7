package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLoggerFields(t *testing.T) {
	logger, logs := observed(LevelDebug)

	logger.With("service", "hockey-analytics").Info("stat query", "stat", "goals", "names", []string{"Matthews"}, "error", errors.New("boom"), "dangling")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "hockey-analytics", fields["service"])
	assert.Equal(t, "goals", fields["stat"])
	assert.Equal(t, []any{"Matthews"}, fields["names"])
	assert.Equal(t, "boom", fields["error"])
	assert.Contains(t, fields, "dangling")
}

func TestLoggerLevelFilter(t *testing.T) {
	logger, logs := observed(LevelWarn)

	logger.Debug("skipped")
	logger.Info("skipped")
	logger.Warn("kept")

	assert.Equal(t, 1, logs.Len())
	assert.False(t, logger.Enabled(LevelInfo))
	assert.True(t, logger.Enabled(LevelError))
}

func TestLoggerContextFields(t *testing.T) {
	logger, logs := observed(LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID,
		SpanID:  spanID,
	}))
	ctx = ContextWith(ctx, "request_id", "abc")
	ctx = ContextWith(ctx, "season", 2022)

	logger.InfoContext(ctx, "resolved window")

	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 2022, fields["season"])
	assert.Equal(t, traceID.String(), fields["trace_id"])
	assert.Equal(t, spanID.String(), fields["span_id"])
}

func TestNewConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: LevelInfo, Format: FormatConsole, Output: &buf})

	logger.Info("event store ready", "backend", "memory")
	require.NoError(t, logger.Sync())
	require.NoError(t, logger.Sync())

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "event store ready")
	assert.False(t, strings.HasPrefix(line, "{"))
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	logger, logs := observed(LevelInfo)
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(nil) })

	var nilLogger *Logger
	nilLogger.Info("via default")
	assert.Equal(t, 1, logs.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		" WARN ":  LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseLevel(raw), raw)
	}
}
