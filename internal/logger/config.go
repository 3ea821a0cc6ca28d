package logger

import (
	"os"
	"strconv"
	"strings"
)

// LogConfig configures the logging system
type LogConfig struct {
	Level  string // trace, debug, info, warn, error, fatal
	Format string // json, text
	Output string // file, stdout, both

	// Rotation
	MaxSize    int  // MB
	MaxBackups int  // rotated files kept
	MaxAge     int  // days
	Compress   bool // gzip rotated files

	// Paths
	LogPath   string
	AppFile   string
	AuditFile string
	ErrorFile string

	// Filters, comma separated, empty or "*" = everything
	FilterModules string
	FilterMethods string
	FilterLevels  string
}

// DefaultConfig builds the configuration from GO_ENV and LOG_* variables
func DefaultConfig() *LogConfig {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	cfg := &LogConfig{
		Level:      "info",
		Format:     "json",
		Output:     "both",
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     7,
		Compress:   true,
		LogPath:    "./logs",
		AppFile:    "app.log",
		AuditFile:  "audit.log",
		ErrorFile:  "error.log",
	}

	if env == "development" {
		cfg.Level = "debug"
		cfg.Format = "text"
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Format = strings.ToLower(format)
	}
	if output := os.Getenv("LOG_OUTPUT"); output != "" {
		cfg.Output = strings.ToLower(output)
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_SIZE")); err == nil && v > 0 {
		cfg.MaxSize = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_BACKUPS")); err == nil && v >= 0 {
		cfg.MaxBackups = v
	}
	if v, err := strconv.Atoi(os.Getenv("LOG_MAX_AGE")); err == nil && v > 0 {
		cfg.MaxAge = v
	}
	if v, err := strconv.ParseBool(os.Getenv("LOG_COMPRESS")); err == nil {
		cfg.Compress = v
	}
	if logPath := os.Getenv("LOG_PATH"); logPath != "" {
		cfg.LogPath = logPath
	}

	cfg.FilterModules = os.Getenv("LOG_FILTER_MODULES")
	cfg.FilterMethods = os.Getenv("LOG_FILTER_METHODS")
	cfg.FilterLevels = os.Getenv("LOG_FILTER_LEVELS")

	return cfg
}
