package logger

import (
	"pushreg/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a thin wrapper over a zap sugared logger. The zero value
// discards everything, so tests can pass logger.Logger{}.
type Logger struct {
	sugar *zap.SugaredLogger
}

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	level, ok := levels[cfg.LoggerMode.Level]
	if !ok {
		level = zapcore.InfoLevel
	}

	var zc zap.Config
	if cfg.LoggerMode.Development {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
		zc.EncoderConfig.TimeKey = "time"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	z, err := zc.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// New wraps an existing zap logger.
func New(z *zap.Logger) Logger {
	return Logger{sugar: z.Sugar()}
}

func (l Logger) s() *zap.SugaredLogger {
	if l.sugar == nil {
		return zap.NewNop().Sugar()
	}
	return l.sugar
}

func (l Logger) With(kv ...any) Logger {
	return Logger{sugar: l.s().With(kv...)}
}

func (l Logger) Debug(msg string, kv ...any) { l.s().Debugw(msg, kv...) }
func (l Logger) Info(msg string, kv ...any)  { l.s().Infow(msg, kv...) }
func (l Logger) Warn(msg string, kv ...any)  { l.s().Warnw(msg, kv...) }
func (l Logger) Error(msg string, kv ...any) { l.s().Errorw(msg, kv...) }

func (l Logger) Infof(format string, args ...any)  { l.s().Infof(format, args...) }
func (l Logger) Errorf(format string, args ...any) { l.s().Errorf(format, args...) }

func (l Logger) Sync() error {
	if l.sugar == nil {
		return nil
	}
	return l.sugar.Sync()
}
