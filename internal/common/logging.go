package common

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is a log severity. Messages below the logger threshold are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelCritical
)

var levelNames = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

var levelColors = [...]*color.Color{
	color.New(color.FgBlue, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgRed, color.Bold),
	color.New(color.FgWhite, color.BgRed, color.Bold),
}

func (l Level) String() string {
	if l < LevelDebug || l > LevelCritical {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// LevelFromVerbosity maps the -l flag: 0 error, 1 warning, 2 info, 3 and
// above debug.
func LevelFromVerbosity(v int) Level {
	switch {
	case v <= 0:
		return LevelError
	case v == 1:
		return LevelWarning
	case v == 2:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// ParseLevel converts a configuration value such as "warning" to a Level.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarning, nil
	case "error":
		return LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// FileSink configures the optional rotating log file.
type FileSink struct {
	Path       string
	MaxSizeMB  int
	MaxAgeDays int
	MaxBackups int
	Compress   bool
}

// Logger writes leveled, colourised messages to the console and, when a file
// sink is attached, plain timestamped lines to a rotating log file.
type Logger struct {
	mu      sync.Mutex
	level   Level
	color   bool
	console *log.Logger
	file    *log.Logger
	closer  io.Closer
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{
		level:   LevelInfo,
		color:   true,
		console: log.New(w, "", 0),
	}
}

var std = NewLogger(os.Stderr)

// Default returns the process-wide logger.
func Default() *Logger { return std }

func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

func (l *Logger) Level() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

func (l *Logger) Enabled(level Level) bool {
	return level >= l.Level()
}

// SetColor toggles level colouring. Colour is also suppressed when the
// console is not a terminal.
func (l *Logger) SetColor(on bool) {
	l.mu.Lock()
	l.color = on
	l.mu.Unlock()
}

// AttachFile tees every enabled message into a lumberjack rotated file.
func (l *Logger) AttachFile(sink FileSink) error {
	if strings.TrimSpace(sink.Path) == "" {
		return errors.New("log file path is empty")
	}
	if dir := filepath.Dir(sink.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	rotator := &lumberjack.Logger{
		Filename:   sink.Path,
		MaxSize:    sink.MaxSizeMB,
		MaxAge:     sink.MaxAgeDays,
		MaxBackups: sink.MaxBackups,
		Compress:   sink.Compress,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer != nil {
		l.closer.Close()
	}
	l.file = log.New(rotator, "[fc2csv] ", log.LstdFlags|log.Lmicroseconds)
	l.closer = rotator
	return nil
}

// Close detaches and closes the file sink, if any.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	l.file = nil
	return err
}

func (l *Logger) Logf(level Level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	tag := fmt.Sprintf("%-8s", level)
	if l.file != nil {
		l.file.Printf("%s %s", tag, msg)
	}
	if l.color && level >= LevelDebug && level <= LevelCritical {
		tag = levelColors[level].Sprint(tag)
	}
	l.console.Printf("%s %s", tag, msg)
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.Logf(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.Logf(LevelInfo, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Logf(LevelWarning, format, args...)
}
func (l *Logger) Errorf(format string, args ...interface{}) { l.Logf(LevelError, format, args...) }
func (l *Logger) Criticalf(format string, args ...interface{}) {
	l.Logf(LevelCritical, format, args...)
}

// Logf logs at info level.
func Logf(format string, args ...interface{}) {
	std.Logf(LevelInfo, format, args...)
}

// Fatalf logs at critical level and exits with status 1.
func Fatalf(format string, args ...interface{}) {
	std.Logf(LevelCritical, format, args...)
	std.Close()
	os.Exit(1)
}
