package islet

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

func getLogger() *log.Logger {
	loggerOnce.Do(func() {
		if logger != nil {
			return
		}
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "islet",
			Level:           log.InfoLevel,
		})
	})
	return logger
}

// SetLogger replaces the package logger. Passing nil restores the default
// stderr logger.
func SetLogger(l *log.Logger) {
	getLogger()
	if l == nil {
		l = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.TimeOnly,
			Prefix:          "islet",
		})
	}
	logger = l
}

// Logger returns the package logger.
func Logger() *log.Logger {
	return getLogger()
}

// FileLogConfig holds rotated file logging settings.
type FileLogConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	Level      string
	// Console mirrors records to stderr as well.
	Console bool
}

// DefaultFileLogConfig returns default file logging settings.
func DefaultFileLogConfig(path string) FileLogConfig {
	return FileLogConfig{
		Path:       path,
		MaxSizeMB:  20,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Compress:   true,
		Level:      "info",
		Console:    true,
	}
}

// NewFileLogger builds a charm logger writing to a size-rotated file.
// The returned closer flushes and closes the file.
func NewFileLogger(cfg FileLogConfig) (*log.Logger, io.Closer) {
	rot := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	var w io.Writer = rot
	if cfg.Console {
		w = io.MultiWriter(os.Stderr, rot)
	}
	lvl, err := log.ParseLevel(cfg.Level)
	if err != nil {
		lvl = log.InfoLevel
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "islet",
		Level:           lvl,
	})
	return l, rot
}

func logDebug(msg string, keyvals ...any) { getLogger().Debug(msg, keyvals...) }
func logInfo(msg string, keyvals ...any)  { getLogger().Info(msg, keyvals...) }
func logWarn(msg string, keyvals ...any)  { getLogger().Warn(msg, keyvals...) }
func logError(msg string, keyvals ...any) { getLogger().Error(msg, keyvals...) }
