// Package logging provides categorized file-based logging for
// deckforge. Each category writes to its own file under the configured
// log directory. When debug mode is off, every call is a no-op so the
// pipeline pays nothing for logging in production runs.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot     Category = "boot"     // Startup, config loading
	CategoryPlanner  Category = "planner"  // Brief decomposition
	CategoryPipeline Category = "pipeline" // Slide pipeline stage transitions
	CategoryLayout   Category = "layout"   // Grid layout decisions
	CategoryVerify   Category = "verify"   // Heuristic + DOM verification
	CategoryReflect  Category = "reflect"  // Reflection and auto-fix
	CategoryAPI      Category = "api"      // Completion Service calls
	CategoryBrowser  Category = "browser"  // Headless browser activity
	CategoryVersion  Category = "version"  // Version store operations
	CategoryExport   Category = "export"   // File writers
)

// Levels, ordered.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Settings mirrors config.LoggingConfig; the logger takes an explicit
// copy instead of importing config to keep the dependency one-way.
type Settings struct {
	DebugMode  bool
	Dir        string
	Level      string
	Categories map[string]bool
}

var (
	mu       sync.RWMutex
	settings Settings
	level    int
	loggers  = make(map[Category]*Logger)
)

// Logger writes to one category file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

// Initialize applies logging settings and, in debug mode, creates the
// log directory. Call once at startup; safe to call again to reload.
func Initialize(s Settings) error {
	mu.Lock()
	defer mu.Unlock()

	settings = s
	switch s.Level {
	case "debug":
		level = LevelDebug
	case "warn", "warning":
		level = LevelWarn
	case "error":
		level = LevelError
	default:
		level = LevelInfo
	}

	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)

	if !s.DebugMode {
		return nil
	}
	if s.Dir == "" {
		return fmt.Errorf("logging dir required in debug mode")
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	return nil
}

// IsCategoryEnabled reports whether a category currently logs.
func IsCategoryEnabled(c Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if !settings.DebugMode {
		return false
	}
	if settings.Categories == nil {
		return true
	}
	enabled, ok := settings.Categories[string(c)]
	if !ok {
		return true
	}
	return enabled
}

// Get returns (or creates) the logger for a category. A no-op logger
// is returned when the category is disabled.
func Get(c Category) *Logger {
	if !IsCategoryEnabled(c) {
		return &Logger{category: c}
	}

	mu.RLock()
	if l, ok := loggers[c]; ok {
		mu.RUnlock()
		return l
	}
	dir := settings.Dir
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[c]; ok {
		return l
	}
	path := filepath.Join(dir, string(c)+".log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] cannot open %s: %v\n", path, err)
		return &Logger{category: c}
	}
	l := &Logger{
		category: c,
		logger:   log.New(f, "", 0),
		file:     f,
	}
	loggers[c] = l
	return l
}

// CloseAll closes every open log file.
func CloseAll() {
	mu.Lock()
	defer mu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

func (l *Logger) write(lv int, tag, format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	mu.RLock()
	min := level
	mu.RUnlock()
	if lv < min {
		return
	}
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	l.logger.Printf("%s [%s] %s", ts, tag, fmt.Sprintf(format, args...))
}

// Debug logs at debug level.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write(LevelDebug, "DEBUG", format, args...)
}

// Info logs at info level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write(LevelInfo, "INFO", format, args...)
}

// Warn logs at warn level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write(LevelWarn, "WARN", format, args...)
}

// Error logs at error level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(LevelError, "ERROR", format, args...)
}

// Convenience helpers for the hot categories.

func Boot(format string, args ...interface{})     { Get(CategoryBoot).Info(format, args...) }
func Planner(format string, args ...interface{})  { Get(CategoryPlanner).Info(format, args...) }
func Pipeline(format string, args ...interface{}) { Get(CategoryPipeline).Info(format, args...) }
func Layout(format string, args ...interface{})   { Get(CategoryLayout).Info(format, args...) }
func Verify(format string, args ...interface{})   { Get(CategoryVerify).Info(format, args...) }
func Reflect(format string, args ...interface{})  { Get(CategoryReflect).Info(format, args...) }
func API(format string, args ...interface{})      { Get(CategoryAPI).Info(format, args...) }
func Browser(format string, args ...interface{})  { Get(CategoryBrowser).Info(format, args...) }
func Version(format string, args ...interface{})  { Get(CategoryVersion).Info(format, args...) }
func Export(format string, args ...interface{})   { Get(CategoryExport).Info(format, args...) }

func PipelineDebug(format string, args ...interface{}) { Get(CategoryPipeline).Debug(format, args...) }
func VerifyDebug(format string, args ...interface{})   { Get(CategoryVerify).Debug(format, args...) }
func APIDebug(format string, args ...interface{})      { Get(CategoryAPI).Debug(format, args...) }
func APIError(format string, args ...interface{})      { Get(CategoryAPI).Error(format, args...) }

// Timer measures an operation and logs its duration on Stop.
type Timer struct {
	category  Category
	operation string
	start     time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, operation: operation, start: time.Now()}
}

// Stop logs the elapsed time at debug level and returns it.
func (t *Timer) Stop() time.Duration {
	d := time.Since(t.start)
	Get(t.category).Debug("%s took %s", t.operation, d)
	return d
}
