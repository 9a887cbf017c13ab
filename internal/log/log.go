package log

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the debug verbosity selected with --debug.
type Level int

const (
	Off Level = iota
	Basic
	Detailed
	Trace
	Wire
)

func (l Level) String() string {
	switch l {
	case Off:
		return "off"
	case Basic:
		return "basic"
	case Detailed:
		return "detailed"
	case Trace:
		return "trace"
	default:
		return "wire"
	}
}

// LevelFromInt clamps an integer flag value to a Level.
func LevelFromInt(i int) Level {
	switch {
	case i <= 0:
		return Off
	case i == 1:
		return Basic
	case i == 2:
		return Detailed
	case i == 3:
		return Trace
	default:
		return Wire
	}
}

var (
	mu     sync.RWMutex
	level  = Off
	logger = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *zap.SugaredLogger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core).Sugar()
}

// SetLevel sets the global debug level.
func SetLevel(l Level) {
	mu.Lock()
	level = l
	mu.Unlock()
}

// GetLevel returns the current debug level.
func GetLevel() Level {
	mu.RLock()
	defer mu.RUnlock()
	return level
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	logger = newLogger(w)
	mu.Unlock()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug writes the message when the current level is at least l.
func Debug(l Level, format string, a ...any) {
	if GetLevel() < l || l == Off {
		return
	}
	current().Debugf("[%s] %s", l, fmt.Sprintf(format, a...))
}

// Log writes an informational message regardless of the debug level.
func Log(format string, a ...any) {
	current().Infof(format, a...)
}

// Warn writes a warning regardless of the debug level.
func Warn(format string, a ...any) {
	current().Warnf(format, a...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = current().Sync()
}
