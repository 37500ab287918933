package logger

import (
	"io"
	"log/slog"
	"os"
)

// Init installs the process-wide logger. Development and debug runs get the
// human-readable text handler; everything else logs JSON.
func Init(env string, debug bool) *slog.Logger {
	return InitWithWriter(os.Stdout, env, debug)
}

func InitWithWriter(w io.Writer, env string, debug bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var handler slog.Handler
	if debug || env == "development" {
		opts.Level = slog.LevelDebug
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// With returns a component logger derived from the current default, so it
// picks up whatever Init installed.
func With(args ...any) *slog.Logger {
	return slog.Default().With(args...)
}
