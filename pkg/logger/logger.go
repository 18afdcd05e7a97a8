package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init installs the process logger. Production defaults to JSON at info level,
// everything else to text at debug level; level and format override the defaults
// when set.
func Init(env string, opts ...Option) {
	settings := settings{format: "text", level: slog.LevelDebug}
	if env == "production" {
		settings = settings.withFormat("json").withLevel(slog.LevelInfo)
	}
	for _, opt := range opts {
		opt(&settings)
	}

	handlerOpts := &slog.HandlerOptions{Level: settings.level}

	var handler slog.Handler
	if settings.format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

type settings struct {
	format string
	level  slog.Level
}

func (s settings) withFormat(format string) settings {
	s.format = format
	return s
}

func (s settings) withLevel(level slog.Level) settings {
	s.level = level
	return s
}

type Option func(*settings)

// WithLevel accepts debug, info, warn or error. Unknown values are ignored.
func WithLevel(level string) Option {
	return func(s *settings) {
		switch strings.ToLower(level) {
		case "debug":
			s.level = slog.LevelDebug
		case "info":
			s.level = slog.LevelInfo
		case "warn":
			s.level = slog.LevelWarn
		case "error":
			s.level = slog.LevelError
		}
	}
}

// WithFormat accepts json or text. Unknown values are ignored.
func WithFormat(format string) Option {
	return func(s *settings) {
		switch strings.ToLower(format) {
		case "json", "text":
			s.format = strings.ToLower(format)
		}
	}
}

func LoggerWrapper() *slog.Logger {
	if defaultLogger == nil {
		// lazy initialize a development logger to avoid nil pointer panics
		Init("development")
	}
	return defaultLogger
}

// Discard returns a logger that drops every record, for tests and quiet CLI runs.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
