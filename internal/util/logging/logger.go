// Abstracts over some underlying logger
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
)

type Level int

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelError
	LevelFatal
)

// ParseLevel maps "trace", "debug", "info", "error" and "fatal" to a Level. "" is info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	case "fatal":
		return LevelFatal, nil
	}

	return LevelInfo, UnknownLevelError{Name: s}
}

type UnknownLevelError struct {
	Name string
}

func (e UnknownLevelError) Error() string {
	return fmt.Sprintf("unknown log level %q, expected one of trace, debug, info, error, fatal", e.Name)
}

// Logger prefixes every line with the level and the id of the report run it belongs to.
type Logger struct {
	level Level
	runID string
	out   *log.Logger
}

// New creates a logger writing to w with a fresh run id.
func New(w io.Writer, level Level) *Logger {
	return &Logger{
		level: level,
		runID: uuid.NewString()[:8],
		out:   log.New(w, "", log.LstdFlags),
	}
}

func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Tracef(fmtStr string, v ...any) {
	l.printf(LevelTrace, "TRACE   ", fmtStr, v...)
}

func (l *Logger) Debugf(fmtStr string, v ...any) {
	l.printf(LevelDebug, "DEBUG   ", fmtStr, v...)
}

func (l *Logger) Infof(fmtStr string, v ...any) {
	l.printf(LevelInfo, "INFO    ", fmtStr, v...)
}

func (l *Logger) Errorf(fmtStr string, v ...any) {
	l.printf(LevelError, "ERROR   ", fmtStr, v...)
}

func (l *Logger) Fatalf(fmtStr string, v ...any) {
	l.out.Fatalf(fmt.Sprintf("FATAL    [%s]: %s\n", l.runID, fmtStr), v...)
}

func (l *Logger) printf(level Level, tag, fmtStr string, v ...any) {
	if l.level <= level {
		l.out.Printf(fmt.Sprintf("%s [%s]: %s\n", tag, l.runID, fmtStr), v...)
	}
}
