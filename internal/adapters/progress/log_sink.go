package progress

import (
	"context"
	"log/slog"

	"github.com/streamtide/deploy-cli/internal/usecase"
)

// LogSink reports progress through the logger, for runs without a terminal
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a progress sink that writes to log
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

// OnProgress logs numbered events at info and spinner updates at debug
func (s *LogSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Message == "" {
		return
	}
	if event.Total > 0 {
		s.log.InfoContext(ctx, event.Message, "stage", event.Stage, "current", event.Current, "total", event.Total)
		return
	}
	s.log.DebugContext(ctx, event.Message, "stage", event.Stage)
}

func (s *LogSink) Info(message string) { s.log.Info(message) }

func (s *LogSink) Error(message string) { s.log.Error(message) }

var _ usecase.ProgressSink = (*LogSink)(nil)
