package logging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func newTestLogger(t *testing.T) (Logger, *zaptest.Buffer) {
	t.Helper()
	buf := &zaptest.Buffer{}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), buf, zapcore.DebugLevel)
	return &zapLogger{z: zap.New(core)}, buf
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: LevelInfo, Format: format, OutputPaths: []string{"stdout"}})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_NilOutputDefaultsToStdout(t *testing.T) {
	l, err := NewLogger(LogConfig{ServiceName: "juris-test"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_EmptyOutputRejected(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		" warn ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("msg")
		l.Info("msg")
		l.Warn("msg")
		l.Error("msg")
		l.Fatal("msg")
	})
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.WithContext(context.Background()))
	assert.Equal(t, l, l.Named("x"))
	assert.NoError(t, l.Sync())
}

func TestZapLogger_Levels(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Debug("debug msg")
	l.Info("info msg")
	l.Warn("warn msg")
	l.Error("error msg")

	out := buf.String()
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		assert.Contains(t, out, lvl+" msg")
		assert.Contains(t, out, `"level":"`+lvl+`"`)
	}
}

func TestZapLogger_FieldTypes(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Info("fields",
		String("topic", "comparative_negligence"),
		Strings("jurisdictions", []string{"US-CA", "US-NY"}),
		Int("count", 2),
		Int64("generation", 7),
		Uint64("hits", 3),
		Float64("confidence", 0.5),
		Bool("cached", true),
		Duration("elapsed", 1500*time.Millisecond),
		Err(errors.New("boom")),
		Any("meta", map[string]int{"a": 1}),
	)

	out := buf.String()
	assert.Contains(t, out, `"topic":"comparative_negligence"`)
	assert.Contains(t, out, `"jurisdictions":["US-CA","US-NY"]`)
	assert.Contains(t, out, `"count":2`)
	assert.Contains(t, out, `"generation":7`)
	assert.Contains(t, out, `"confidence":0.5`)
	assert.Contains(t, out, `"cached":true`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, buf := newTestLogger(t)
	l.Named("engine").With(String("component", "search")).Info("msg")
	assert.Contains(t, buf.String(), `"component":"search"`)
	assert.Contains(t, buf.String(), `"logger":"engine"`)
}

func TestZapLogger_WithContext(t *testing.T) {
	l, buf := newTestLogger(t)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	l.WithContext(ctx).Info("with id")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)

	assert.Same(t, l, l.WithContext(context.Background()))
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Empty(t, RequestIDFromContext(context.Background()))
	//nolint:staticcheck
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Equal(t, "abc", RequestIDFromContext(ContextWithRequestID(context.Background(), "abc")))
}

func TestNewLoggerFromCore_Observed(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := NewLoggerFromCore(core)
	l.Debug("dropped")
	l.Info("kept", String("k", "v"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "v", entry.ContextMap()["k"])
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
