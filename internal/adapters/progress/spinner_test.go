package progress

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/streamtide/deploy-cli/internal/usecase"
	"github.com/stretchr/testify/assert"
)

func TestSpinnerProgressReporter(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	r := newSpinnerProgressReporter(&buf)
	ctx := context.Background()

	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "migration", Current: 1, Total: 2, Message: "Migration 2: deploy streamtide contracts"})
	// the spinner only animates on a terminal; here it must not break the output
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "receipt", Message: "waiting for MVPCLR", Spinner: true})
	r.OnProgress(ctx, usecase.ProgressEvent{Stage: "receipt"})
	assert.False(t, r.spinner.Active())

	r.Info("registry written")
	r.Error("could not record migration")

	out := buf.String()
	assert.Contains(t, out, "[1/2] Migration 2: deploy streamtide contracts\n")
	assert.Contains(t, out, "registry written\n")
	assert.Contains(t, out, "could not record migration\n")
}

func TestLogSink(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	s := NewLogSink(log)
	ctx := context.Background()

	s.OnProgress(ctx, usecase.ProgressEvent{Stage: "migration", Current: 3, Total: 4, Message: "Migration 4: add streamtide patrons"})
	s.OnProgress(ctx, usecase.ProgressEvent{Stage: "receipt", Message: "waiting for receipt", Spinner: true})
	s.OnProgress(ctx, usecase.ProgressEvent{Stage: "confirmed"})

	out := buf.String()
	assert.Contains(t, out, `msg="Migration 4: add streamtide patrons" stage=migration current=3 total=4`)
	assert.NotContains(t, out, "waiting for receipt", "spinner updates are debug only")
}

func TestNewProgressSink(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	assert.IsType(t, &LogSink{}, NewProgressSink(&config.RuntimeConfig{NonInteractive: true}, log))
	assert.IsType(t, &SpinnerProgressReporter{}, NewProgressSink(&config.RuntimeConfig{}, log))
}
