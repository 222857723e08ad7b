// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/lmittmann/tint"
)

var (
	mu     sync.Mutex
	global = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Options configures logger initialization.
type Options struct {
	Verbose bool // enable debug level
	NoColor bool // disable ANSI colors
}

// Init sets up the global logger writing to w with a tinted handler.
func Init(w io.Writer, opts Options) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	global = slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		NoColor:    opts.NoColor,
	}))
}

// InitFile sets up the global logger appending plain text records to path.
func InitFile(path string, opts Options) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}

	mu.Lock()
	defer mu.Unlock()
	global = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return nil
}

// L returns the global logger.
func L() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return global
}
