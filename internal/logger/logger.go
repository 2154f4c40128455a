// Package logger provides leveled logging for the pipeline. It wraps the
// standard log package with level-based filtering so noisy per-file warnings
// (skipped paths, tolerated decode defects) can be silenced in production runs.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level
type Level int

const (
	// DebugLevel logs are voluminous (per-file walk decisions) and usually disabled.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority.
	InfoLevel
	// WarnLevel logs cover recovered defects: skipped paths, tolerated missing fields.
	WarnLevel
	// ErrorLevel logs cover per-scenario failures that do not abort the run.
	ErrorLevel
)

// Logger provides leveled logging
type Logger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger *Logger

// Init initializes the default logger with the specified level and format
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}

	defaultLogger = &Logger{
		level:  parseLevel(level),
		logger: log.New(os.Stderr, "", flags),
	}
}

// SetOutput redirects the default logger's output. Used by tests.
func SetOutput(w io.Writer) {
	if defaultLogger == nil {
		Init("info", "json")
	}
	defaultLogger.logger.SetOutput(w)
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

func output(l Level, prefix, format string, args ...interface{}) {
	if defaultLogger == nil || defaultLogger.level > l {
		return
	}
	msg := fmt.Sprintf(prefix+format, args...)
	_ = defaultLogger.logger.Output(3, msg)
}

// Debug logs a message at DebugLevel
func Debug(format string, args ...interface{}) {
	output(DebugLevel, "[DEBUG] ", format, args...)
}

// Info logs a message at InfoLevel
func Info(format string, args ...interface{}) {
	output(InfoLevel, "[INFO] ", format, args...)
}

// Warn logs a message at WarnLevel
func Warn(format string, args ...interface{}) {
	output(WarnLevel, "[WARN] ", format, args...)
}

// Error logs a message at ErrorLevel
func Error(format string, args ...interface{}) {
	output(ErrorLevel, "[ERROR] ", format, args...)
}

// Fatal logs a message and exits with a non-zero status
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf("[FATAL] "+format, args...)
	if defaultLogger != nil {
		_ = defaultLogger.logger.Output(2, msg)
	} else {
		log.Print(msg)
	}
	os.Exit(1)
}
