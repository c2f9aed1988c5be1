package utils

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger writes an invocation log alongside the workspace config. Console
// output goes through pkg/ui; this log keeps the detail trail.
type Logger struct {
	logger *log.Logger
}

var (
	globalLogger *Logger
	once         sync.Once
)

// GetLogger returns the singleton logger, backed by a size-rotated file at
// ~/.dh/dh.log (or $DH_LOG_DIR/dh.log when set).
func GetLogger() *Logger {
	once.Do(func() {
		dir := os.Getenv("DH_LOG_DIR")
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				home = "."
			}
			dir = filepath.Join(home, ".dh")
		}
		logFile := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "dh.log"),
			MaxSize:    5, // megabytes
			MaxBackups: 2,
			MaxAge:     28, // days
			Compress:   true,
		}
		globalLogger = &Logger{logger: log.New(logFile, "", log.LstdFlags)}
	})
	return globalLogger
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if logFile, ok := l.logger.Writer().(*lumberjack.Logger); ok {
		return logFile.Close()
	}
	return nil
}

// Logf logs a formatted message to the log file only.
func (l *Logger) Logf(format string, v ...any) {
	l.logger.Printf(format, v...)
}

// LogError logs an error to the log file only.
func (l *Logger) LogError(err error) {
	l.logger.Printf("Error: %v", err)
}
