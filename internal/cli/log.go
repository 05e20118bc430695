// Package cli implements the lisa command-line interface.
//
// The commands are:
//   - run: evolve a shape list toward a target image
//   - render: rasterize a saved checkpoint, optionally at a larger scale
//   - weights: write the entropy weight map of an image
//   - history: list the checkpoints a store holds for a run
//
// Every command accepts --verbose (-v) for debug logging. The logger is kept
// on the command context and is also installed as the library logger so that
// evolve and cache messages share its format.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gogpu/lisa"
)

// newLogger creates a logger that prints timestamps as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a message with the time elapsed since it was created.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default if none is set.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// installLogger routes the library's slog output through l.
func installLogger(l *log.Logger) {
	lisa.SetLogger(slog.New(l))
}
