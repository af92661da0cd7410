// Package log provides construction of the zap loggers used by solve3 components.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ConsoleEncoder represents logging with plain text.
	ConsoleEncoder = "console"
	// JSONEncoder represents logging with JSON.
	JSONEncoder = "json"
)

// where logs go by default.
var logWriter io.Writer = os.Stdout

// NewEncoder returns zap encoder for the named kind.
func NewEncoder(kind string) (zapcore.Encoder, error) {
	switch strings.ToLower(kind) {
	case "", ConsoleEncoder:
		return zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), nil
	case JSONEncoder:
		return zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), nil
	default:
		return nil, fmt.Errorf("unknown log encoder %q", kind)
	}
}

// NewWithLevel creates a logger with a fixed level and with a set of (optional) hooks.
func NewWithLevel(module string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	return newWithWriter(module, level, encoder, zapcore.AddSync(logWriter), hooks...)
}

func newWithWriter(module string,
	level zap.AtomicLevel,
	encoder zapcore.Encoder,
	ws zapcore.WriteSyncer,
	hooks ...func(zapcore.Entry) error,
) *zap.Logger {
	core := zapcore.NewCore(encoder, ws, level)
	return zap.New(zapcore.RegisterHooks(core, hooks...)).Named(module)
}

// New parses level and encoder kind and returns a configured logger.
func New(module, level, encoder string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	enc, err := NewEncoder(encoder)
	if err != nil {
		return nil, err
	}
	return NewWithLevel(module, lvl, enc), nil
}
