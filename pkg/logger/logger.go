package logger

import (
	"log/slog"
	"os"
)

// Log is the process-wide structured logger. It defaults to a JSON
// handler so tests and early startup never hit a nil logger.
var Log = newLogger()

func newLogger() *slog.Logger {
	// JSON handler for production-ready logging
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	return slog.New(handler)
}

func Init() {
	Log = newLogger()
}
