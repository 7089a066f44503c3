package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls which messages reach the console sink.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARNING
	ERROR
	FATAL
)

var (
	logLevel  = INFO
	debugFile *os.File
)

func init() {
	zap.ReplaceGlobals(newLogger(nil))
}

func newLogger(extra zapcore.Core) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)
	if extra != nil {
		core = zapcore.NewTee(core, extra)
	}
	return zap.New(core)
}

// SetLevel sets the minimum level emitted to the console sink.
func SetLevel(level Level) {
	logLevel = level
}

// SetLevelName sets the level from its CLI spelling. Unknown names
// leave the level untouched.
func SetLevelName(name string) {
	switch name {
	case "debug":
		logLevel = DEBUG
	case "info":
		logLevel = INFO
	case "warning":
		logLevel = WARNING
	case "error":
		logLevel = ERROR
	}
}

// OpenDebugFile tees every message, regardless of the console level,
// into the given file. Used by the --debug-logfile flag.
func OpenDebugFile(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open debug logfile: %w", err)
	}
	debugFile = f
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(f),
		zapcore.DebugLevel,
	)
	zap.ReplaceGlobals(newLogger(fileCore))
	return nil
}

// CloseDebugFile flushes and closes the debug sink, if any.
func CloseDebugFile() {
	_ = zap.L().Sync()
	if debugFile != nil {
		_ = debugFile.Close()
		debugFile = nil
	}
}

func Debug(format string, args ...interface{}) {
	if logLevel <= DEBUG || debugFile != nil {
		zap.S().Debugf(format, args...)
	}
}

func Info(format string, args ...interface{}) {
	if logLevel <= INFO || debugFile != nil {
		zap.S().Infof(format, args...)
	}
}

func Warn(format string, args ...interface{}) {
	if logLevel <= WARNING || debugFile != nil {
		zap.S().Warnf(format, args...)
	}
}

func Error(format string, args ...interface{}) {
	if logLevel <= ERROR || debugFile != nil {
		zap.S().Errorf(format, args...)
	}
}

func Fatal(format string, args ...interface{}) {
	zap.S().Fatalf(format, args...)
}
