package render

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// MigrationsRenderer renders migration runs and status
type MigrationsRenderer struct {
	out io.Writer
}

// NewMigrationsRenderer creates a new migrations renderer
func NewMigrationsRenderer(out io.Writer) *MigrationsRenderer {
	return &MigrationsRenderer{out: out}
}

// RenderRun summarizes a migration run. runErr is the error Execute returned, if any.
func (r *MigrationsRenderer) RenderRun(result *usecase.RunMigrationsResult, runErr error) error {
	if result == nil {
		return nil
	}
	if result.Cancelled {
		fmt.Fprintln(r.out, FormatWarning("Migration cancelled"))
		return nil
	}
	if len(result.Migrations) == 0 {
		fmt.Fprintf(r.out, "Nothing to migrate on %s (%s), last completed migration is %d\n",
			result.Network, result.Environment, result.LastCompleted)
		return nil
	}

	fmt.Fprintln(r.out)
	for _, m := range result.Migrations {
		switch {
		case m.Completed:
			fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Migration %s: %s", m.ID, m.Description)))
		case m.Err != nil:
			fmt.Fprintln(r.out, failureStyle.Sprintf("❌ Migration %s: %s", m.ID, m.Description))
		}
		for _, w := range m.Warnings {
			fmt.Fprintln(r.out, FormatWarning(w))
		}
	}

	var stepErr *domain.StepError
	if errors.As(runErr, &stepErr) {
		fmt.Fprintln(r.out)
		fmt.Fprintf(r.out, "Resume by re-running migration %s; it continues at step %d\n", stepErr.Migration, stepErr.Step)
		fmt.Fprintf(r.out, "  %s\n", keyStyle.Sprintf("streamtide-deploy migrate %s", stepErr.Migration))
		fmt.Fprintf(r.out, "To start it over instead: %s\n", faintStyle.Sprintf("streamtide-deploy clean %s", stepErr.Migration))
		return nil
	}

	if runErr == nil {
		fmt.Fprintf(r.out, "\n📁 Registry: %s\n", relativePath(result.RegistryPath))
	}
	return nil
}

// RenderStatus renders the migration table for the selected environment and network
func (r *MigrationsRenderer) RenderStatus(result *usecase.MigrationStatusResult) error {
	network := result.Network
	if network == "" {
		network = "(no network selected)"
	}
	fmt.Fprintf(r.out, "%s %s on %s\n", headerStyle.Sprint("Migrations"), Title(result.Environment), network)
	switch {
	case result.ChainError != nil:
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("Could not read completed migrations: %v", result.ChainError)))
	case result.Network != "":
		fmt.Fprintf(r.out, "Last completed migration: %d\n", result.LastCompleted)
	}
	fmt.Fprintln(r.out)

	t := newTable(r.out, "ID", "STATE", "DESCRIPTION", "CHECKPOINT")
	for _, e := range result.Entries {
		checkpoint := ""
		switch {
		case e.Checkpoint != nil && e.Checkpoint.LoadErr != nil:
			checkpoint = failureStyle.Sprint("unreadable, clean it to start over")
		case e.Checkpoint != nil:
			checkpoint = fmt.Sprintf("%d step(s) done", e.Checkpoint.LastStep+1)
			if keys := checkpointKeys(e.Checkpoint); len(keys) > 0 {
				checkpoint += faintStyle.Sprintf(" %v", keys)
			}
		}
		description := e.Description
		if description == "" {
			description = faintStyle.Sprint("(unknown migration)")
		}
		t.AppendRow([]any{e.ID, stateLabel(e.State), description, checkpoint})
	}
	t.Render()
	return nil
}

func stateLabel(state usecase.MigrationState) string {
	label := Title(string(state))
	switch state {
	case usecase.MigrationCompleted:
		return successStyle.Sprint(label)
	case usecase.MigrationInProgress:
		return pendingStyle.Sprint(label)
	case usecase.MigrationManual:
		return faintStyle.Sprint(label)
	default:
		return label
	}
}

func checkpointKeys(cp *domain.Checkpoint) []string {
	keys := make([]string, 0, len(cp.Values))
	for k := range cp.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
