// Package log provides structured logging for energycv on top of zerolog.
//
// The validator and the submission builder report progress (per-fold scores,
// elapsed times, frame shapes) through named loggers obtained from
// GetLoggerWithName, so diagnostic output stays structured instead of being
// printed to stdout.
package log

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the minimal structured logging interface used across energycv.
// Fields are alternating key/value pairs, slog style.
type Logger interface {
	// Debug logs detailed diagnostic information (frame shapes, head rows).
	Debug(msg string, fields ...any)

	// Info logs operational progress (fold scores, elapsed times).
	Info(msg string, fields ...any)

	// Warn logs conditions worth investigating that do not abort the call.
	Warn(msg string, fields ...any)

	// Error logs failures. An error value passed as a field is attached with
	// its structured representation when it implements LogObjectMarshaler.
	Error(msg string, fields ...any)

	// With returns a Logger with the given fields pre-populated.
	With(fields ...any) Logger
}

var (
	mu   sync.RWMutex
	root = newZerolog(os.Stderr, zerolog.InfoLevel)
)

// SetOutput redirects all loggers obtained from this package to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	root = newZerolog(w, root.zl.GetLevel())
}

// SetLevel sets the minimum level for all loggers obtained from this package.
// Accepted levels: "debug", "info", "warn", "error".
func SetLevel(level string) {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil {
		panic(fmt.Sprintf("invalid log level: %s", level))
	}
	mu.Lock()
	defer mu.Unlock()
	root = &zeroLogger{zl: root.zl.Level(parsed)}
}

// GetLogger returns the package default logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// GetLoggerWithName returns a logger tagged with a component name, for
// example "crossval.validator" or "submission.builder".
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &zeroLogger{zl: root.zl.With().Str("component", name).Logger()}
}

// NewTestLogger returns a debug-level logger writing JSON lines into the
// returned buffer. Intended for assertions on log output in tests.
func NewTestLogger() (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	zl := zerolog.New(buf).Level(zerolog.DebugLevel)
	return &zeroLogger{zl: zl}, buf
}

func newZerolog(w io.Writer, level zerolog.Level) *zeroLogger {
	zl := zerolog.New(w).With().Timestamp().Logger().Level(level)
	return &zeroLogger{zl: zl}
}

type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Debug(msg string, fields ...any) { emit(l.zl.Debug(), msg, fields) }
func (l *zeroLogger) Info(msg string, fields ...any)  { emit(l.zl.Info(), msg, fields) }
func (l *zeroLogger) Warn(msg string, fields ...any)  { emit(l.zl.Warn(), msg, fields) }
func (l *zeroLogger) Error(msg string, fields ...any) { emit(l.zl.Error(), msg, fields) }

func (l *zeroLogger) With(fields ...any) Logger {
	ctx := l.zl.With()
	for key, value := range pairs(fields) {
		ctx = ctx.Interface(key, value)
	}
	return &zeroLogger{zl: ctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []any) {
	for key, value := range pairs(fields) {
		switch v := value.(type) {
		case zerolog.LogObjectMarshaler:
			ev = ev.Object(key, v)
		case error:
			ev = ev.AnErr(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

// pairs iterates fields as key/value pairs. A trailing odd value is dropped;
// non-string keys are stringified.
func pairs(fields []any) func(yield func(string, any) bool) {
	return func(yield func(string, any) bool) {
		for i := 0; i+1 < len(fields); i += 2 {
			key, ok := fields[i].(string)
			if !ok {
				key = fmt.Sprint(fields[i])
			}
			if !yield(key, fields[i+1]) {
				return
			}
		}
	}
}
