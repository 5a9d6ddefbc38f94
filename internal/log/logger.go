// Package log is the application's leveled logger. It keeps a small printf
// style API and writes through charmbracelet/log.
package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	charm "github.com/charmbracelet/log"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var (
	current atomic.Int32
	logger  atomic.Pointer[charm.Logger]
)

func init() {
	logger.Store(newLogger(os.Stderr))
	SetLevel(Info)
}

func newLogger(w io.Writer) *charm.Logger {
	return charm.NewWithOptions(w, charm.Options{
		ReportTimestamp: true,
		TimeFormat:      "2006-01-02 15:04:05",
		Formatter:       charm.TextFormatter,
		Prefix:          "task-web",
	})
}

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info", "":
		return Info
	case "warn", "warning":
		return Warn
	case "err", "error":
		return Error
	default:
		return Info
	}
}

func (l Level) String() string {
	switch l {
	case Debug:
		return "debug"
	case Warn:
		return "warn"
	case Error:
		return "error"
	default:
		return "info"
	}
}

func (l Level) charm() charm.Level {
	switch l {
	case Debug:
		return charm.DebugLevel
	case Warn:
		return charm.WarnLevel
	case Error:
		return charm.ErrorLevel
	default:
		return charm.InfoLevel
	}
}

func SetLevel(l Level) {
	current.Store(int32(l))
	logger.Load().SetLevel(l.charm())
}

func CurrentLevel() Level { return Level(current.Load()) }

// SetOutput redirects all log output, keeping the current level. Safe to
// call while other goroutines are logging.
func SetOutput(w io.Writer) {
	l := newLogger(w)
	l.SetLevel(CurrentLevel().charm())
	logger.Store(l)
}

func Debugf(format string, v ...any) { logger.Load().Debugf(format, v...) }
func Infof(format string, v ...any)  { logger.Load().Infof(format, v...) }
func Warnf(format string, v ...any)  { logger.Load().Warnf(format, v...) }
func Errorf(format string, v ...any) { logger.Load().Errorf(format, v...) }

// With returns a logger carrying the given key/value pairs.
func With(keyvals ...any) *charm.Logger { return logger.Load().With(keyvals...) }

func InitFromEnvFallback(level string) {
	// ENV gewinnt gegenüber der Konfiguration
	if env := os.Getenv("TASKWEB_LOG_LEVEL"); env != "" {
		level = env
	}
	SetLevel(ParseLevel(level))
}
