// Package output provides logging and result rendering for the gitcore CLI.
package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Environment variables that configure logging
const (
	LogFileEnvVar       = "GITCORE_LOG_FILE"
	LogMaxSizeEnvVar    = "GITCORE_LOG_MAX_SIZE"
	LogMaxBackupsEnvVar = "GITCORE_LOG_MAX_BACKUPS"
	LogMaxAgeEnvVar     = "GITCORE_LOG_MAX_AGE"
	DebugEnvVar         = "DEBUG"
)

// consoleHandler writes the message followed by its attributes, without
// timestamps or level prefixes
type consoleHandler struct {
	writer io.Writer
	level  slog.Level
	attrs  []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	b.WriteString(record.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	record.Attrs(write)
	_, err := fmt.Fprintln(h.writer, b.String())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &consoleHandler{writer: h.writer, level: h.level, attrs: merged}
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler {
	return h
}

// multiHandler fans out log records to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, record.Level) {
			if err := handler.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// envInt reads a positive (or, with allowZero, non-negative) integer override
func envInt(lookupEnv func(string) (string, bool), key string, fallback int, allowZero bool) int {
	raw, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || (n == 0 && !allowZero) {
		return fallback
	}
	return n
}

// newRotatingFile creates a lumberjack logger with rotation from the environment
func newRotatingFile(path string, lookupEnv func(string) (string, bool)) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    envInt(lookupEnv, LogMaxSizeEnvVar, 1, false),
		MaxBackups: envInt(lookupEnv, LogMaxBackupsEnvVar, 2, true),
		MaxAge:     envInt(lookupEnv, LogMaxAgeEnvVar, 30, false),
		Compress:   false,
	}
}

// SplogOptions configures NewSplog
type SplogOptions struct {
	// Console receives human-readable log lines. Defaults to stderr.
	Console io.Writer
	// LogFile, when set, receives every record as JSON with rotation.
	LogFile string
	// Debug lowers the console level to debug.
	Debug bool
	// Verbose lowers the console level to info.
	Verbose bool
	// LookupEnv reads rotation overrides. Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Splog provides structured logging for gitcore. Every component logs through
// the same slog.Logger so git telemetry lands next to CLI messages.
type Splog struct {
	logger    *slog.Logger
	logWriter io.WriteCloser
}

// NewSplog creates a Splog from the environment: DEBUG enables debug output and
// GITCORE_LOG_FILE adds a rotating JSON log.
func NewSplog() *Splog {
	s, err := NewSplogWithOptions(SplogOptions{
		LogFile: os.Getenv(LogFileEnvVar),
		Debug:   os.Getenv(DebugEnvVar) != "",
	})
	if err != nil {
		s, _ = NewSplogWithOptions(SplogOptions{Debug: os.Getenv(DebugEnvVar) != ""})
		s.Warn("file logging disabled: %v", err)
	}
	return s
}

// NewSplogWithOptions creates a Splog with an explicit configuration
func NewSplogWithOptions(opts SplogOptions) (*Splog, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	lookupEnv := opts.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelInfo
	}
	if opts.Debug {
		level = slog.LevelDebug
	}

	s := &Splog{}
	handlers := []slog.Handler{&consoleHandler{writer: console, level: level}}

	if opts.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(opts.LogFile), 0o750); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		rotating := newRotatingFile(opts.LogFile, lookupEnv)
		s.logWriter = rotating
		handlers = append(handlers, slog.NewJSONHandler(rotating, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	s.logger = slog.New(&multiHandler{handlers: handlers})
	return s, nil
}

// Logger returns the underlying slog.Logger
func (s *Splog) Logger() *slog.Logger {
	return s.logger
}

func (s *Splog) logMessage(level slog.Level, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	s.logger.Log(context.Background(), level, msg)
}

// Info writes an info message
func (s *Splog) Info(format string, args ...any) {
	s.logMessage(slog.LevelInfo, format, args...)
}

// Warn writes a warning message
func (s *Splog) Warn(format string, args ...any) {
	s.logMessage(slog.LevelWarn, format, args...)
}

// Error writes an error message
func (s *Splog) Error(format string, args ...any) {
	s.logMessage(slog.LevelError, format, args...)
}

// Debug writes a debug message
func (s *Splog) Debug(format string, args ...any) {
	s.logMessage(slog.LevelDebug, format, args...)
}

// Close closes the log file if one was opened
func (s *Splog) Close() error {
	if s.logWriter != nil {
		return s.logWriter.Close()
	}
	return nil
}
