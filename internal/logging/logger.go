// Package logging provides categorized file-based logging for nbcheck.
// Each category writes to its own file under <workspace>/.nbcheck/logs.
// Nothing is written unless Initialize enabled debug mode, except warnings
// and errors, which always also go to stderr.
package logging

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category.
type Category string

const (
	CategoryAnalysis Category = "analysis" // parsing, magic handling, lint
	CategoryNotebook Category = "notebook" // document loading and assembly
	CategoryParams   Category = "params"   // parameter contract checks
	CategoryInstall  Category = "install"  // environment installer
	CategoryCLI      Category = "cli"      // command entry points
)

// Settings mirrors config.LoggingConfig to avoid a circular import.
type Settings struct {
	Debug      bool
	Level      string // debug, info, warn, error
	JSONFormat bool
}

// entry is the structured form written when JSONFormat is on.
type entry struct {
	Timestamp int64  `json:"ts"` // Unix milliseconds
	Category  string `json:"cat"`
	Level     string `json:"lvl"`
	Message   string `json:"msg"`
}

const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

var levelNames = map[int]string{
	levelDebug: "debug",
	levelInfo:  "info",
	levelWarn:  "warn",
	levelError: "error",
}

var (
	mu          sync.Mutex
	initialized bool
	settings    Settings
	minLevel    int
	logsDir     string
	files       = make(map[Category]*os.File)
)

// Initialize sets up the log directory and activates logging according to
// the given settings. Calling it again reconfigures; it is safe to skip it
// entirely, in which case only warn/error stderr output happens.
func Initialize(workspace string, s Settings) error {
	mu.Lock()
	defer mu.Unlock()

	closeAllLocked()
	settings = s
	minLevel = parseLevel(s.Level)
	initialized = false

	if !s.Debug {
		return nil
	}
	dir := filepath.Join(workspace, ".nbcheck", "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}
	logsDir = dir
	initialized = true
	return nil
}

// Close flushes and closes every category file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	closeAllLocked()
	initialized = false
}

func closeAllLocked() {
	for c, f := range files {
		_ = f.Close()
		delete(files, c)
	}
}

func parseLevel(s string) int {
	switch s {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// Debugf logs a debug message to the category file.
func Debugf(c Category, format string, args ...any) { write(c, levelDebug, format, args...) }

// Infof logs an info message to the category file.
func Infof(c Category, format string, args ...any) { write(c, levelInfo, format, args...) }

// Warnf logs a warning to the category file and to stderr.
func Warnf(c Category, format string, args ...any) { write(c, levelWarn, format, args...) }

// Errorf logs an error to the category file and to stderr.
func Errorf(c Category, format string, args ...any) { write(c, levelError, format, args...) }

func write(c Category, level int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	if level >= levelWarn {
		log.Printf("[%s] %s: %s", levelNames[level], c, msg)
	}

	mu.Lock()
	defer mu.Unlock()
	if !initialized || level < minLevel {
		return
	}
	f, err := fileFor(c)
	if err != nil {
		return
	}
	if settings.JSONFormat {
		line, err := json.Marshal(entry{
			Timestamp: time.Now().UnixMilli(),
			Category:  string(c),
			Level:     levelNames[level],
			Message:   msg,
		})
		if err == nil {
			fmt.Fprintf(f, "%s\n", line)
		}
		return
	}
	fmt.Fprintf(f, "%s [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05.000"), levelNames[level], msg)
}

func fileFor(c Category) (*os.File, error) {
	if f, ok := files[c]; ok {
		return f, nil
	}
	path := filepath.Join(logsDir, string(c)+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	files[c] = f
	return f, nil
}
