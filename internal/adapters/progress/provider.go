package progress

import (
	"log/slog"

	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NewProgressSink picks the spinner for interactive terminals and the logger otherwise
func NewProgressSink(cfg *config.RuntimeConfig, log *slog.Logger) usecase.ProgressSink {
	if cfg.NonInteractive {
		return NewLogSink(log)
	}
	return NewSpinnerProgressReporter()
}
