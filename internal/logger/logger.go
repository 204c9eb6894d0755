// Package logger provides structured logging configuration with support for development and production environments.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

const (
	// Format types for logging.
	formatJSON   = "json"
	formatPretty = "pretty"
)

// ANSI color codes for the pretty handler.
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[37m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// Logger wraps slog.Logger with additional functionality.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
}

// New creates a new logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}

	// Auto-detect format based on environment if not specified.
	if cfg.Format == "" {
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		} else {
			cfg.Format = formatPretty
		}
	}

	opts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.Format == formatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = NewPrettyHandler(cfg.Writer, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel converts a string to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithError adds an error attribute to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// WithField adds a single field to the logger.
func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{Logger: l.With(slog.Any(key, value))}
}

// PrettyHandler is a custom slog.Handler that formats logs in a human-readable way with colors.
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	writer io.Writer
	attrs  []slog.Attr
}

// NewPrettyHandler creates a new pretty handler.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts:   opts,
		writer: w,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle formats and writes the log record.
// Format: TIME LEVEL message key=value key=value.
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	levelStr, levelColor := formatLevel(r.Level)

	fmt.Fprintf(&b, "%s%s%s %s%s%s %s%s%s",
		colorDim, r.Time.Format("15:04:05"), colorReset,
		levelColor, levelStr, colorReset,
		colorBold, r.Message, colorReset,
	)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	if len(attrs) > 0 {
		b.WriteString(" " + colorCyan)
		for i, attr := range attrs {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(attr.Key)
			b.WriteByte('=')
			b.WriteString(formatValue(attr.Value))
		}
		b.WriteString(colorReset)
	}

	b.WriteByte('\n')
	_, err := io.WriteString(h.writer, b.String())
	return err
}

// WithAttrs returns a new handler with additional attributes.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newAttrs := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	newAttrs = append(newAttrs, h.attrs...)
	newAttrs = append(newAttrs, attrs...)

	return &PrettyHandler{
		opts:   h.opts,
		writer: h.writer,
		attrs:  newAttrs,
	}
}

// WithGroup returns a new handler with the given group.
// Groups are flattened in pretty output.
func (h *PrettyHandler) WithGroup(_ string) slog.Handler {
	return h
}

// formatLevel returns the formatted level string with color.
func formatLevel(level slog.Level) (levelStr, levelColor string) {
	switch level {
	case slog.LevelDebug:
		return "DBG", colorGray
	case slog.LevelInfo:
		return "INF", colorGreen
	case slog.LevelWarn:
		return "WRN", colorYellow
	case slog.LevelError:
		return "ERR", colorRed
	default:
		return level.String(), colorGray
	}
}

// formatValue formats a slog.Value for pretty printing.
func formatValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindDuration:
		return v.Duration().String()
	default:
		return v.String()
	}
}
