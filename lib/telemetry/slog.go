package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default logger. verbose enables debug output,
// daemons pass false and get info-level text logs.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
