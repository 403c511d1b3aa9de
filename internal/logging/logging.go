// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/rodoufu/work-dep/internal/ui"
)

// Setup installs a tint handler writing to w as the default slog logger.
// Only warnings and errors are shown unless verbose is set.
func Setup(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.TimeOnly,
			NoColor:    !ui.IsTerminal(w),
		}),
	))
}
