// Package log configures the process-wide slog logger and recovers panics
// at goroutine boundaries.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

var (
	initOnce    sync.Once
	initialized atomic.Bool
)

// Setup installs the default slog handler once per process. Records go to
// logFile when it is set and can be opened, stderr otherwise.
func Setup(logFile string, debug bool) {
	initOnce.Do(func() {
		var out io.Writer = os.Stderr
		if logFile != "" {
			f, err := os.OpenFile(logFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
			if err == nil {
				out = f
			}
		}
		slog.SetDefault(slog.New(NewHandler(out, debug)))
		initialized.Store(true)
	})
}

// NewHandler returns the text handler Setup installs.
func NewHandler(w io.Writer, debug bool) slog.Handler {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
}

func Initialized() bool {
	return initialized.Load()
}

// RecoverPanic must be deferred directly. It logs a panic with its stack
// and runs cleanup.
func RecoverPanic(name string, cleanup func()) {
	if r := recover(); r != nil {
		if Initialized() {
			slog.Error(fmt.Sprintf("Panic in %s", name),
				"panic", r,
				"stack", string(debug.Stack()))
		}
		if cleanup != nil {
			cleanup()
		}
	}
}
