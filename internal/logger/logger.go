package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

var (
	mu    sync.RWMutex
	sugar = newDefault()
)

func newDefault() *zap.SugaredLogger {
	l, err := zap.NewProduction()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// Init replaces the package logger. Debug selects zap's development
// configuration on stdout, otherwise the production JSON logger is used.
func Init(debug bool) error {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		z := zap.NewDevelopmentConfig()
		z.OutputPaths = []string{"stdout"}
		l, err = z.Build()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	Set(l)
	return nil
}

// Set installs l as the package logger, e.g. zap.NewNop() in tests.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
	zap.ReplaceGlobals(l)
}

// Sync flushes buffered entries. Call it before exiting.
func Sync() {
	_ = current().Sync()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Fatal logs at fatal level and exits.
// Arguments are handled in the manner of [fmt.Printf].
func Fatal(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}

// Error logs at error level.
// Arguments are handled in the manner of [fmt.Printf].
func Error(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Warn logs at warn level.
func Warn(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Info logs at info level.
func Info(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Debug logs at debug level; dropped unless Init(true) was called.
func Debug(format string, args ...interface{}) {
	current().Debugf(format, args...)
}
