// Package cli implements the varlayout command-line interface.
//
// The CLI lays out variant payloads read from JSON files or MongoDB, prints
// the view modes a payload supports, opens an interactive track inspector
// and serves the HTTP API. It is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Lay out a payload and write a layout.json document
//   - modes: Print the possible and active view modes of a payload
//   - view: Inspect a track interactively (pan, zoom, fold, highlight)
//   - serve: Serve the HTTP API
//   - config: Show, locate or initialise the config file
//
// # Logging
//
// Command output (styled lines, tables, the inspector) goes to stdout; the
// logger writes structured records to stderr. --verbose (-v) lowers the level
// to debug, which adds per-stage timings and rejection counts. The logger
// travels in the command's context.
//
// # Example
//
//	import "github.com/matzehuels/varlayout/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/varlayout/pkg/pipeline"
)

// logTimeFormat renders as "14:32:01.45".
const logTimeFormat = "15:04:05.00"

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// stages times the load → layout → write phases of one command. Each mark
// logs the phase at debug level with its own duration; done logs the total.
type stages struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newStages(l *log.Logger) *stages {
	now := time.Now()
	return &stages{logger: l, start: now, last: now}
}

func (s *stages) mark(stage string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"stage", stage, "took", now.Sub(s.last).Round(time.Millisecond)}, keyvals...)
	s.logger.Debug("stage done", kv...)
	s.last = now
}

func (s *stages) done(msg string) {
	s.logger.Infof("%s (%s)", msg, time.Since(s.start).Round(time.Millisecond))
}

// logResult records the outcome of one refresh, then one debug line per
// rejection reason.
func logResult(l *log.Logger, res *pipeline.Result) {
	l.Debug("refresh result",
		"run_id", res.RunID,
		"path", res.Path,
		"records", res.Stats.Records,
		"groups", res.Stats.Groups,
		"rejected", res.Stats.Rejected,
		"mode", res.Modes.Active)
	for _, reason := range rejectionReasons(res.Rejections) {
		l.Debug("rejected", "reason", reason)
	}
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default for contexts built outside
// RootCommand, e.g. in tests.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
