package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/domain/config"
)

// StepFunc is the body of a step. The returned outputs are merged into the
// checkpoint values and are visible to later steps.
type StepFunc func(ctx context.Context, s *Steps) (map[string]any, error)

// Step is a named step body
type Step struct {
	Name string
	Run  StepFunc
}

// StepRunner opens checkpointed step sequences
type StepRunner struct {
	store  CheckpointStore
	strict bool
	log    *slog.Logger
}

// NewStepRunner creates a new StepRunner
func NewStepRunner(store CheckpointStore, cfg *config.RuntimeConfig, log *slog.Logger) *StepRunner {
	return &StepRunner{
		store:  store,
		strict: cfg.StrictCheckpoint,
		log:    log,
	}
}

// Open starts or resumes the step sequence of a migration. An unreadable
// checkpoint is treated as no prior progress.
func (r *StepRunner) Open(ctx context.Context, id string) *Steps {
	cp, err := r.store.Load(ctx, id)
	if err != nil {
		r.log.Warn("failed to load checkpoint, starting from the first step", "migration", id, "error", err)
		cp = nil
	}
	if cp == nil {
		cp = domain.NewCheckpoint(id)
	}
	cp.ID = id
	if cp.Values == nil {
		cp.Values = make(map[string]any)
	}
	if cp.LastStep > domain.NoStepCompleted {
		r.log.Info("previous execution detected, resuming", "migration", id, "lastStep", cp.LastStep)
	}
	return &Steps{runner: r, checkpoint: cp}
}

// Steps runs the steps of one migration in order. Steps recorded as completed
// by an earlier run are skipped.
type Steps struct {
	runner     *StepRunner
	checkpoint *domain.Checkpoint
	current    int
}

// ID returns the migration identifier
func (s *Steps) ID() string {
	return s.checkpoint.ID
}

// Current returns the index of the next step
func (s *Steps) Current() int {
	return s.current
}

// LastCompleted returns the index of the last completed step, or -1
func (s *Steps) LastCompleted() int {
	return s.checkpoint.LastStep
}

// Step runs fn as the next step unless it already completed. A failing body
// leaves the checkpoint as it was and yields a StepError naming the step to
// resume at.
func (s *Steps) Step(ctx context.Context, name string, fn StepFunc) error {
	n := s.current
	log := s.runner.log.With("migration", s.ID(), "step", n)
	if name != "" {
		log = log.With("name", name)
	}

	if s.checkpoint.Completed(n) {
		log.Info("skipping previously executed step")
		s.current++
		return nil
	}

	log.Info("executing step")
	outputs, err := fn(ctx, s)
	if err != nil {
		return &domain.StepError{Migration: s.ID(), Step: n, Name: name, Err: err}
	}

	s.checkpoint.Merge(outputs)
	s.checkpoint.Advance(n)
	s.current++

	if err := s.runner.store.Save(ctx, s.checkpoint); err != nil {
		if s.runner.strict {
			return &domain.StepError{
				Migration: s.ID(),
				Step:      n,
				Name:      name,
				Err:       fmt.Errorf("step completed but progress was not saved: %w", err),
			}
		}
		log.Warn("failed to save checkpoint, continuing without resumability", "error", err)
	}
	return nil
}

// Run runs each step in order, stopping at the first failure
func (s *Steps) Run(ctx context.Context, steps []Step) error {
	for _, step := range steps {
		if err := s.Step(ctx, step.Name, step.Run); err != nil {
			return err
		}
	}
	return nil
}

// Value returns a value recorded by an earlier step
func (s *Steps) Value(key string) (any, bool) {
	v, ok := s.checkpoint.Values[key]
	return v, ok
}

// String returns a recorded value as a string, or "" when absent
func (s *Steps) String(key string) string {
	v, ok := s.checkpoint.Values[key]
	if !ok || v == nil {
		return ""
	}
	if str, ok := v.(string); ok {
		return str
	}
	return fmt.Sprint(v)
}

// Values returns a copy of all recorded values
func (s *Steps) Values() map[string]any {
	return maps.Clone(s.checkpoint.Values)
}

// Clean removes the checkpoint after a successful run. Failures are logged only.
func (s *Steps) Clean(ctx context.Context) {
	if err := s.runner.store.Delete(ctx, s.ID()); err != nil {
		s.runner.log.Warn("failed to remove checkpoint", "migration", s.ID(), "error", err)
	}
}
