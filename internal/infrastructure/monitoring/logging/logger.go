// Package logging provides the structured logging interface used across
// JurisCompare and its zap-backed implementation.  Components depend on the
// Logger interface only; go.uber.org/zap is not imported outside this package.
//
// Initialisation order in cmd/*/main.go:
//
//  1. Load configuration.
//  2. Call NewLogger(cfg.Log) and pass the result to SetDefault.
//  3. Construct the remaining components, injecting the Logger.
package logging

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted by LogConfig.Level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// Field
// ─────────────────────────────────────────────────────────────────────────────

// Field is a typed key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// String constructs a Field with a string value.
func String(key, val string) Field { return Field{Key: key, Value: val} }

// Strings constructs a Field with a string slice value.
func Strings(key string, val []string) Field { return Field{Key: key, Value: val} }

// Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{Key: key, Value: val} }

// Int64 constructs a Field with an int64 value.
func Int64(key string, val int64) Field { return Field{Key: key, Value: val} }

// Uint64 constructs a Field with a uint64 value.
func Uint64(key string, val uint64) Field { return Field{Key: key, Value: val} }

// Float64 constructs a Field with a float64 value.
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }

// Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

// Err captures an error under the key "error".  A nil error is logged as "<nil>".
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: "<nil>"}
	}
	return Field{Key: "error", Value: err}
}

// Any constructs a Field with an arbitrary value.
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }

// Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

// ─────────────────────────────────────────────────────────────────────────────
// Logger
// ─────────────────────────────────────────────────────────────────────────────

// Logger is the structured logging contract.  Implementations must be safe for
// concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs and then calls os.Exit(1).  Startup paths only.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger carrying fields on every entry.
	With(fields ...Field) Logger

	// WithContext returns a child Logger carrying the request id found in ctx.
	WithContext(ctx context.Context) Logger

	// Named appends name to the logger name ("engine" → "engine.search").
	Named(name string) Logger

	// Sync flushes buffered entries.
	Sync() error
}

// ─────────────────────────────────────────────────────────────────────────────
// Request-scoped context
// ─────────────────────────────────────────────────────────────────────────────

type ctxKey struct{}

// ContextWithRequestID stores a request id for WithContext to pick up.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxKey{}).(string); ok {
		return v
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// LogConfig
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig carries the parameters used to construct a Logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.  Unrecognised values mean info.
	Level string `mapstructure:"level" yaml:"level" json:"level"`

	// Format is "json" or "console".  Unrecognised values mean json.
	Format string `mapstructure:"format" yaml:"format" json:"format"`

	// OutputPaths defaults to ["stdout"] when nil.  An explicit empty slice is rejected.
	OutputPaths []string `mapstructure:"output_paths" yaml:"output_paths" json:"output_paths"`

	// ErrorOutputPaths defaults to ["stderr"] when empty.
	ErrorOutputPaths []string `mapstructure:"error_output_paths" yaml:"error_output_paths" json:"error_output_paths"`

	// ServiceName is attached to every entry as "service".
	ServiceName string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`
}

// ─────────────────────────────────────────────────────────────────────────────
// zapLogger
// ─────────────────────────────────────────────────────────────────────────────

type zapLogger struct {
	z *zap.Logger
}

func toZapFields(fields []Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			out = append(out, zap.String(f.Key, v))
		case []string:
			out = append(out, zap.Strings(f.Key, v))
		case int:
			out = append(out, zap.Int(f.Key, v))
		case int64:
			out = append(out, zap.Int64(f.Key, v))
		case uint64:
			out = append(out, zap.Uint64(f.Key, v))
		case float64:
			out = append(out, zap.Float64(f.Key, v))
		case bool:
			out = append(out, zap.Bool(f.Key, v))
		case time.Duration:
			out = append(out, zap.Duration(f.Key, v))
		case error:
			out = append(out, zap.NamedError(f.Key, v))
		default:
			out = append(out, zap.Any(f.Key, v))
		}
	}
	return out
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, toZapFields(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, toZapFields(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, toZapFields(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, toZapFields(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, toZapFields(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(toZapFields(fields)...)}
}

func (l *zapLogger) WithContext(ctx context.Context) Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return &zapLogger{z: l.z.With(zap.String("request_id", id))}
	}
	return l
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func (l *zapLogger) Sync() error {
	err := l.z.Sync()
	// stdout/stderr cannot be fsynced on most platforms.
	if err != nil && (strings.Contains(err.Error(), "invalid argument") || strings.Contains(err.Error(), "inappropriate ioctl")) {
		return nil
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// NewLogger builds a zap-backed Logger from cfg.
func NewLogger(cfg LogConfig) (Logger, error) {
	if cfg.OutputPaths == nil {
		cfg.OutputPaths = []string{"stdout"}
	}
	if len(cfg.OutputPaths) == 0 {
		return nil, fmt.Errorf("logging: at least one output path is required")
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	encoding := "json"
	encCfg := zap.NewProductionEncoderConfig()
	if cfg.Format == "console" {
		encoding = "console"
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: failed to build zap logger: %w", err)
	}
	if cfg.ServiceName != "" {
		z = z.With(zap.String("service", cfg.ServiceName))
	}
	return &zapLogger{z: z}, nil
}

// NewLoggerFromCore wraps an existing zapcore.Core, mainly for tests using
// zaptest/observer.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// ─────────────────────────────────────────────────────────────────────────────
// nopLogger
// ─────────────────────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(_ string, _ ...Field)                {}
func (nopLogger) Info(_ string, _ ...Field)                 {}
func (nopLogger) Warn(_ string, _ ...Field)                 {}
func (nopLogger) Error(_ string, _ ...Field)                {}
func (nopLogger) Fatal(_ string, _ ...Field)                {}
func (n nopLogger) With(_ ...Field) Logger                  { return n }
func (n nopLogger) WithContext(_ context.Context) Logger    { return n }
func (n nopLogger) Named(_ string) Logger                   { return n }
func (nopLogger) Sync() error                               { return nil }

// NewNopLogger returns a Logger that discards everything.
func NewNopLogger() Logger { return nopLogger{} }

// ─────────────────────────────────────────────────────────────────────────────
// Process default
// ─────────────────────────────────────────────────────────────────────────────

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault replaces the process-wide default Logger.  nil is ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default Logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

//Personal.AI order the ending
