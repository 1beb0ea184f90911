package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// Logger is a small leveled logger shared by the loader, the HTTP layer and
// the command-line tools.
type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	debug *log.Logger

	debugEnabled bool
}

// NewLogger writes info/warn/debug to stdout and errors to stderr.
func NewLogger(debug bool) *Logger {
	return newLogger(os.Stdout, os.Stderr, debug)
}

// NewTestLogger discards everything; handy in tests.
func NewTestLogger() *Logger {
	return newLogger(io.Discard, io.Discard, false)
}

func newLogger(out, errOut io.Writer, debug bool) *Logger {
	return &Logger{
		info:         log.New(out, "", 0),
		warn:         log.New(out, "", 0),
		err:          log.New(errOut, "", 0),
		debug:        log.New(out, "", 0),
		debugEnabled: debug,
	}
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) Info(format string, args ...any) {
	l.info.Printf("[%s] INFO  %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(format string, args ...any) {
	l.warn.Printf("[%s] WARN  %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...any) {
	l.err.Printf("[%s] ERROR %s", l.timestamp(), fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugEnabled {
		return
	}
	l.debug.Printf("[%s] DEBUG %s", l.timestamp(), fmt.Sprintf(format, args...))
}

// Fatal logs at error level and exits.
func (l *Logger) Fatal(format string, args ...any) {
	l.Error(format, args...)
	os.Exit(1)
}
