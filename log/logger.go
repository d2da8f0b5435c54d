package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"sync"
)

var (
	rootLogger Logger
	mutex      = &sync.Mutex{}
)

// Logger is the diagnostics channel shared by the store, the backends and the cli.
type Logger interface {
	Debugw(msg string, keysAndValues ...interface{})
	Infow(msg string, keysAndValues ...interface{})
	Warnw(msg string, keysAndValues ...interface{})
	Errorw(msg string, keysAndValues ...interface{})
	Fatalw(msg string, keysAndValues ...interface{})
	Warn(args ...interface{})
	Named(name string) Logger
	Sync() error
}

type logger struct {
	*zap.SugaredLogger
}

func (l *logger) Named(name string) Logger {
	return &logger{l.SugaredLogger.Named(name)}
}

// New wraps an existing zap logger, mostly useful for tests with zaptest/observer.
func New(zapLogger *zap.Logger) Logger {
	return &logger{zapLogger.Sugar()}
}

// Nop discards everything.
func Nop() Logger {
	return &logger{zap.NewNop().Sugar()}
}

// Global returns the root logger, or a nop logger if Setup was never called.
func Global() Logger {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger == nil {
		return Nop()
	}
	return rootLogger
}

func Setup(options *Options) {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger != nil {
		rootLogger.Warn("can't re setup root logger")
		return
	}
	rootLogger = &logger{build(options, zapcore.AddSync(os.Stdout), zapcore.AddSync(os.Stderr)).Sugar()}
}

// build splits output by level: everything below warn goes to infoSyncer, the rest to errSyncer.
func build(options *Options, infoSyncer, errSyncer zapcore.WriteSyncer) *zap.Logger {
	var (
		cores         []zapcore.Core
		opts          []zap.Option
		encoderConfig = zap.NewProductionEncoderConfig()
	)

	if options.callerEncoder != nil {
		opts = append(opts, zap.AddCaller())
		encoderConfig.EncodeCaller = zapcore.CallerEncoder(options.callerEncoder)
	}

	encoderConfig.EncodeLevel = zapcore.LevelEncoder(options.levelEncoder)
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(options.timeLayout)
	encoderConfig.ConsoleSeparator = " "
	cores = []zapcore.Core{zapcore.NewCore(
		options.outPutEncoder(encoderConfig),
		infoSyncer,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.Level(options.level) && lvl < zapcore.WarnLevel
		}),
	), zapcore.NewCore(
		options.outPutEncoder(encoderConfig),
		errSyncer,
		zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
			return lvl >= zapcore.Level(options.level) && lvl >= zapcore.WarnLevel
		}),
	)}

	if options.stacktrace {
		opts = append(opts, zap.AddStacktrace(zapcore.WarnLevel))
	}
	zapLogger := zap.New(zapcore.NewTee(cores...), opts...)
	if options.name != "" {
		zapLogger = zapLogger.Named(options.name)
	}
	return zapLogger
}
