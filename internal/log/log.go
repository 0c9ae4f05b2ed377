// Package log provides context-aware leveled logging for shelf.
//
// Diagnostics go to stderr (or a rotated log file) so that stdout stays
// reserved for the selected path. The verbosity count maps onto levels:
//
//	0   warn
//	1   info
//	2   debug
//	3+  debug, plus every external command that is executed
package log

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey struct{}

// Logger is a leveled logger with external command tracing.
type Logger struct {
	z     *zap.SugaredLogger
	level zapcore.Level
	trace bool
}

// levelFor maps a -v count to a zap level.
func levelFor(verbosity int) zapcore.Level {
	switch {
	case verbosity <= 0:
		return zapcore.WarnLevel
	case verbosity == 1:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.CallerKey = zapcore.OmitKey
	cfg.StacktraceKey = zapcore.OmitKey
	return cfg
}

// New creates a logger writing console-formatted entries to out.
func New(out io.Writer, verbosity int) *Logger {
	level := levelFor(verbosity)
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig()),
		zapcore.AddSync(out),
		level,
	)
	return &Logger{
		z:     zap.New(core).Named("shelf").Sugar(),
		level: level,
		trace: verbosity >= 3,
	}
}

// NewFile creates a logger writing to a size-rotated file at path.
// The returned closer flushes and closes the file.
func NewFile(path string, verbosity int) (*Logger, io.Closer) {
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
	}
	return New(w, verbosity), w
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{z: zap.NewNop().Sugar(), level: zapcore.FatalLevel}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a no-op logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return Nop()
}

// Named returns a child logger whose entries are tagged with name.
func (l *Logger) Named(name string) *Logger {
	return &Logger{z: l.z.Named(name), level: l.level, trace: l.trace}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.z.Debugf(format, args...) }

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) { l.z.Infof(format, args...) }

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.z.Warnf(format, args...) }

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) { l.z.Errorf(format, args...) }

// Debug logs a message with structured key/value pairs at debug level.
func (l *Logger) Debug(msg string, keysAndValues ...any) { l.z.Debugw(msg, keysAndValues...) }

// Command logs an external command execution.
// Only emitted at verbosity 3 and above.
func (l *Logger) Command(name string, args ...string) {
	if l.trace {
		l.z.Debugf("$ %s %s", name, strings.Join(args, " "))
	}
}

// Enabled reports whether entries at the debug level are written.
func (l *Logger) Enabled() bool {
	return l.level.Enabled(zapcore.DebugLevel)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() {
	_ = l.z.Sync()
}
