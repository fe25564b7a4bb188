// -----------------------------------------------------------------------------
// Logger Package
// -----------------------------------------------------------------------------
// Structured logging on top of zap. Every component of the service logs
// through *Logger so that purchase stages, HTTP access logs and event
// dispatching end up in the same sink with the same key/value format.
//
// Modes:
//   - "development": human readable console output, debug level
//   - "production":  JSON output, info level
// -----------------------------------------------------------------------------

package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.SugaredLogger and exposes the key/value API used across
// the service.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a Logger for the given mode.
//
// Example:
//
//	log, err := logger.New("production")
//	if err != nil {
//	    panic(err)
//	}
//	defer log.Sync()
func New(mode string) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(mode) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	z, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// NewFromCore builds a Logger writing to an arbitrary zapcore.Core.
// Tests pair it with zaptest/observer.
func NewFromCore(core zapcore.Core) *Logger {
	return &Logger{sugar: zap.New(core).Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Fatal(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, keysAndValues...)
}

// With returns a child Logger that always carries the given fields.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

// Sync flushes buffered entries. Errors are ignored because stdout/stderr
// sync fails on some platforms.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}
