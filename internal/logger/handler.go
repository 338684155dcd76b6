package logger

import (
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// New sets the shared level from name and returns a logger writing to stderr,
// colored when stderr is a terminal.
func New(levelName string) *slog.Logger {
	Level.SetByName(levelName)
	if isatty.IsTerminal(os.Stderr.Fd()) {
		return slog.New(newTerminalHandler(os.Stderr))
	}
	return slog.New(newTextHandler(os.Stderr))
}

// Discard is handed to components that were not given a logger.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: levelDisable}))
}

func newTextHandler(w io.Writer) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{Level: Level.lvl})
}

func newTerminalHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		NoColor:    runtime.GOOS == "windows",
		AddSource:  Level.Enabled(slog.LevelDebug),
		Level:      Level.lvl,
		TimeFormat: "15:04:05",
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey && !Level.Enabled(slog.LevelDebug) {
				return slog.Attr{}
			}
			return a
		},
	})
}
