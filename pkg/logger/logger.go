package logger

import (
	"io"
	"log"
	"os"
)

type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelDebug
	LevelTrace
)

type Logger struct {
	*log.Logger
	level     LogLevel
	isVerbose bool
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.Logger = log.New(w, l.Logger.Prefix(), l.Logger.Flags())
	}
}

func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), prefix, l.Logger.Flags())
	}
}

func WithFlags(flags int) Option {
	return func(l *Logger) {
		l.Logger = log.New(l.Logger.Writer(), l.Logger.Prefix(), flags)
	}
}

func WithVerbose(verbose bool) Option {
	return func(l *Logger) {
		l.isVerbose = verbose
	}
}

func WithLevel(level LogLevel) Option {
	return func(l *Logger) {
		l.level = level
	}
}

func New(options ...Option) *Logger {
	l := &Logger{
		Logger:    log.New(os.Stderr, "", log.LstdFlags),
		level:     LevelInfo,
		isVerbose: false,
	}

	for _, opt := range options {
		opt(l)
	}

	return l
}

// Discard returns a logger that drops everything. Used where a caller
// passes no logger.
func Discard() *Logger {
	return New(WithOutput(io.Discard))
}

func (l *Logger) SetVerbose(verbose bool) {
	l.isVerbose = verbose
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.Logger.Printf("INFO: "+format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.Logger.Printf("WARN: "+format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.Logger.Printf("ERROR: "+format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.isVerbose || l.level >= LevelDebug {
		l.Logger.Printf("DEBUG: "+format, args...)
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.Logger.Printf("TRACE: "+format, args...)
	}
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.Logger.Fatalf("FATAL: "+format, args...)
}
