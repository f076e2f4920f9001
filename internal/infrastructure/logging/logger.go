package logging

import (
	"fmt"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes categorized, structured entries. The f variants are for
// ad hoc messages that carry no fields.
type Logger interface {
	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)

	Sync() error
}

type LoggerConfig struct {
	FilePath string `koanf:"file_path"`
	Encoding string `koanf:"encoding"`
	Level    string `koanf:"level"`
	Logger   string `koanf:"logger"`
	Stdout   bool   `koanf:"stdout"`
	// MaxSizeMB caps one log file before it is rotated.
	MaxSizeMB  int `koanf:"max_size_mb"`
	MaxBackups int `koanf:"max_backups"`
	MaxAgeDays int `koanf:"max_age_days"`
}

// NewLogger builds the backend named by cfg.Logger, "zap" or "zerolog".
func NewLogger(cfg *LoggerConfig) (Logger, error) {
	switch cfg.Logger {
	case "", "zap":
		return newZapLogger(cfg), nil
	case "zerolog":
		return newZeroLogger(cfg), nil
	}
	return nil, fmt.Errorf("logger %q not supported, want zap or zerolog", cfg.Logger)
}

// rotatingFile returns the day's log file under cfg.FilePath, or nil when
// file output is off.
func rotatingFile(cfg *LoggerConfig) *lumberjack.Logger {
	if cfg.FilePath == "" {
		return nil
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(cfg.FilePath, time.Now().Format("2006-01-02")+".log"),
		MaxSize:    orDefault(cfg.MaxSizeMB, 10),
		MaxBackups: orDefault(cfg.MaxBackups, 5),
		MaxAge:     orDefault(cfg.MaxAgeDays, 20),
		LocalTime:  true,
		Compress:   true,
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
