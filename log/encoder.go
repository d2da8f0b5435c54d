package log

import (
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"strings"
)

type Level int8

const (
	DebugLevel = Level(zapcore.DebugLevel)
	InfoLevel  = Level(zapcore.InfoLevel)
	WarnLevel  = Level(zapcore.WarnLevel)
	ErrorLevel = Level(zapcore.ErrorLevel)
	FatalLevel = Level(zapcore.FatalLevel)
)

// ParseLevel accepts the usual names: debug, info, warn, error, fatal.
func ParseLevel(text string) (Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(text))); err != nil {
		return InfoLevel, errors.WithMessagef(err, "invalid log level %q", text)
	}
	return Level(l), nil
}

type OutputEncoder func(zapcore.EncoderConfig) zapcore.Encoder

var (
	JsonOutputEncoder    OutputEncoder = zapcore.NewJSONEncoder
	ConsoleOutputEncoder OutputEncoder = zapcore.NewConsoleEncoder
)

// ParseOutputEncoder maps "json" and "console"; anything else falls back to json.
func ParseOutputEncoder(text string) OutputEncoder {
	if strings.ToLower(text) == "console" {
		return ConsoleOutputEncoder
	}
	return JsonOutputEncoder
}

type LevelEncoder func(zapcore.Level, zapcore.PrimitiveArrayEncoder)

var (
	CapitalLevelEncoder LevelEncoder = zapcore.CapitalLevelEncoder
	BracketLevelEncoder LevelEncoder = func(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString("[" + level.CapitalString() + "]")
	}
)

type CallerEncoder func(zapcore.EntryCaller, zapcore.PrimitiveArrayEncoder)

var ShortCallerEncoder CallerEncoder = zapcore.ShortCallerEncoder
