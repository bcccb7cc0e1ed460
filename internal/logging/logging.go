// Package logging builds the zap logger and adapts it to the middleware
// Logger interface. Output always goes to stderr because stdout carries the
// stdio binding.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inferenco/inferenco-mcp/middleware"
)

// New builds a logger writing to stderr at level ("debug", "info", "warn",
// "error") in format ("json" or "console").
func New(level, format string) (*zap.Logger, error) {
	return NewWithWriter(level, format, os.Stderr)
}

// NewWithWriter is New with a custom destination.
func NewWithWriter(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeDuration = zapcore.StringDurationEncoder

	var enc zapcore.Encoder
	switch format {
	case "json", "":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("log format: unknown format %q", format)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), lvl)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))), nil
}

// Adapter lets middleware and transports log through zap.
type Adapter struct {
	l *zap.Logger
}

var _ middleware.Logger = (*Adapter)(nil)

// Adapt wraps l. The caller frame is skipped so entries point at the code
// that logged, not at the adapter.
func Adapt(l *zap.Logger) *Adapter {
	return &Adapter{l: l.WithOptions(zap.AddCallerSkip(1))}
}

func (a *Adapter) Info(msg string, fields ...middleware.Field) {
	a.l.Info(msg, toZap(fields)...)
}

func (a *Adapter) Error(msg string, fields ...middleware.Field) {
	a.l.Error(msg, toZap(fields)...)
}

func (a *Adapter) Debug(msg string, fields ...middleware.Field) {
	a.l.Debug(msg, toZap(fields)...)
}

func (a *Adapter) Warn(msg string, fields ...middleware.Field) {
	a.l.Warn(msg, toZap(fields)...)
}

func toZap(fields []middleware.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
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
