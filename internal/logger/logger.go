package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	hooks     []*AsyncHook
	loggersMu sync.Mutex

	config *LogConfig
)

// Init sets up the logging system. A nil cfg means DefaultConfig().
func Init(cfg *LogConfig) error {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	return initLocked(cfg)
}

func initLocked(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	if config.Output == "file" || config.Output == "both" {
		if err := os.MkdirAll(config.LogPath, 0o755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
	}
	return nil
}

// GetLogger returns the named logger (app, audit, error, ...), creating it on first use
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		if err := initLocked(nil); err != nil {
			panic(fmt.Sprintf("Failed to initialize logger: %v", err))
		}
	}

	if l, ok := loggers[name]; ok {
		return l
	}

	l := createLogger(name)
	loggers[name] = l
	return l
}

// createLogger builds a logger writing through the filter hook and an async hook
func createLogger(name string) *logrus.Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if config.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				s := strings.Split(f.Function, ".")
				return s[len(s)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	// Writers are driven by the async hook so slow disks never block a request
	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   getLogFilePath(name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	// filter must run before the entry is queued
	l.AddHook(NewFilterHook(config))

	if len(writers) > 0 {
		asyncHook := NewAsyncHookWithWriters(writers, 1000)
		l.AddHook(asyncHook)
		hooks = append(hooks, asyncHook)
		l.SetOutput(io.Discard)
	}

	l.SetReportCaller(true)

	l.WithFields(logrus.Fields{
		"logger": name,
		"level":  l.GetLevel().String(),
		"format": config.Format,
		"output": config.Output,
	}).Debug("Logger initialized")

	return l
}

// getLogFilePath returns the file used by the named logger
func getLogFilePath(name string) string {
	var filename string
	switch name {
	case "app":
		filename = config.AppFile
	case "audit":
		filename = config.AuditFile
	case "error":
		filename = config.ErrorFile
	default:
		filename = fmt.Sprintf("%s.log", name)
	}
	return filepath.Join(config.LogPath, filename)
}

// Shutdown flushes every async hook. Call once before exit.
func Shutdown() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, h := range hooks {
		_ = h.Close()
	}
	hooks = nil
	loggers = make(map[string]*logrus.Logger)
}

// GetAppLogger returns the main application logger
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger returns the audit trail logger
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}

// GetErrorLogger returns the logger dedicated to errors
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}
