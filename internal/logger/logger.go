package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs a JSON slog handler as the process default.
// Call this early in main() before any logging occurs.
func Init() {
	level := parseLevel(os.Getenv("BUKUKAS_LOG_LEVEL"))

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
