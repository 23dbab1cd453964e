// Package logger provides the levelled, printf-style logger used across fhirmodel.
// It is a thin layer over zap so callers can hand in their own *zap.Logger.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the logging level.
type Level int

// Log levels.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return ""
	}
}

// zapLevel maps a Level onto zap. LevelNone sits above every zap level so
// nothing is enabled.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelInfo:
		return zapcore.InfoLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel + 1
	}
}

// Logger provides logging functionality.
type Logger struct {
	mu    sync.RWMutex
	level zap.AtomicLevel
	sugar *zap.SugaredLogger
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(os.Stderr, LevelInfo)
)

// Default returns the default logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l *Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// New creates a logger writing console-encoded lines to output.
func New(output io.Writer, level Level) *Logger {
	l := &Logger{level: zap.NewAtomicLevelAt(level.zapLevel())}
	l.sugar = zap.New(newCore(output, l.level)).Named("fhirmodel").Sugar()
	return l
}

// FromZap wraps an existing zap logger. The level of the wrapper only filters
// on top of whatever the zap core already enables.
func FromZap(z *zap.Logger, level Level) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	l := &Logger{level: zap.NewAtomicLevelAt(level.zapLevel())}
	l.sugar = z.WithOptions(zap.IncreaseLevel(l.level)).Sugar()
	return l
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return FromZap(zap.NewNop(), LevelNone)
}

func newCore(output io.Writer, level zap.AtomicLevel) zapcore.Core {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = ""
	return zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(output), level)
}

// SetLevel sets the logging level.
func (l *Logger) SetLevel(level Level) {
	l.level.SetLevel(level.zapLevel())
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return level != LevelNone && l.level.Enabled(level.zapLevel())
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sugar = zap.New(newCore(w, l.level)).Named("fhirmodel").Sugar()
}

// Zap exposes the underlying zap logger for structured fields.
func (l *Logger) Zap() *zap.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sugar.Desugar()
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sugar.Sync()
}

func (l *Logger) logger() *zap.SugaredLogger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sugar
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.logger().Debugf(format, args...)
}

// Info logs an info message.
func (l *Logger) Info(format string, args ...any) {
	l.logger().Infof(format, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...any) {
	l.logger().Warnf(format, args...)
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	l.logger().Errorf(format, args...)
}

// Package-level convenience functions.

// Debug logs a debug message using the default logger.
func Debug(format string, args ...any) {
	Default().Debug(format, args...)
}

// Info logs an info message using the default logger.
func Info(format string, args ...any) {
	Default().Info(format, args...)
}

// Warn logs a warning message using the default logger.
func Warn(format string, args ...any) {
	Default().Warn(format, args...)
}

// Error logs an error message using the default logger.
func Error(format string, args ...any) {
	Default().Error(format, args...)
}

// SetLevel sets the level of the default logger.
func SetLevel(level Level) {
	Default().SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	Default().SetOutput(w)
}

// Disable disables all logging.
func Disable() {
	Default().SetLevel(LevelNone)
}
