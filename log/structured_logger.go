package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level is the minimum level a logger emits.
type Level slog.Level

const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// StructuredLogger implements Logger on top of slog with a tint handler.
type StructuredLogger struct {
	logger *slog.Logger
}

// New logs to stderr; stdout is left to the command's own report.
func New(level Level) *StructuredLogger {
	noColor := !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	return NewWithWriter(os.Stderr, level, noColor)
}

func NewWithWriter(w io.Writer, level Level, noColor bool) *StructuredLogger {
	handler := tint.NewHandler(w, &tint.Options{
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &StructuredLogger{logger: slog.New(handler)}
}

func (l *StructuredLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

func (l *StructuredLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

func (l *StructuredLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

func (l *StructuredLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}
