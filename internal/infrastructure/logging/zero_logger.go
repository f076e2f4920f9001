package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

var zeroLevels = map[string]zerolog.Level{
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
}

type zeroLogger struct {
	logger zerolog.Logger
}

func newZeroLogger(cfg *LoggerConfig) *zeroLogger {
	var writers []io.Writer
	if file := rotatingFile(cfg); file != nil {
		writers = append(writers, file)
	}
	if cfg.Stdout || len(writers) == 0 {
		var out io.Writer = os.Stdout
		if cfg.Encoding == "console" {
			out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
		}
		writers = append(writers, out)
	}

	return &zeroLogger{
		logger: zerolog.New(zerolog.MultiLevelWriter(writers...)).
			Level(zeroLevel(cfg.Level)).
			With().
			Timestamp().
			Str(string(AppName), "codeboard").
			Str(string(LoggerName), "zerolog").
			Logger(),
	}
}

// NewZeroLoggerTo builds a zerolog-backed Logger writing to w.
func NewZeroLoggerTo(w io.Writer, level string) Logger {
	return &zeroLogger{
		logger: zerolog.New(w).Level(zeroLevel(level)).With().Timestamp().Logger(),
	}
}

func zeroLevel(level string) zerolog.Level {
	if l, ok := zeroLevels[level]; ok {
		return l
	}
	return zerolog.DebugLevel
}

func (l *zeroLogger) event(e *zerolog.Event, cat Category, sub SubCategory, extra map[ExtraKey]any) *zerolog.Event {
	e = e.Str("Category", string(cat)).Str("SubCategory", string(sub))
	for k, v := range extra {
		e = e.Interface(string(k), v)
	}
	return e
}

func (l *zeroLogger) Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Debug(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Debugf(template string, args ...any) {
	l.logger.Debug().Msgf(template, args...)
}

func (l *zeroLogger) Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Info(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Infof(template string, args ...any) {
	l.logger.Info().Msgf(template, args...)
}

func (l *zeroLogger) Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Warn(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Warnf(template string, args ...any) {
	l.logger.Warn().Msgf(template, args...)
}

func (l *zeroLogger) Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Error(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Errorf(template string, args ...any) {
	l.logger.Error().Msgf(template, args...)
}

func (l *zeroLogger) Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any) {
	l.event(l.logger.Fatal(), cat, sub, extra).Msg(msg)
}

func (l *zeroLogger) Fatalf(template string, args ...any) {
	l.logger.Fatal().Msgf(template, args...)
}

func (l *zeroLogger) Sync() error {
	return nil
}
