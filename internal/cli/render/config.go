package render

import (
	"fmt"
	"io"

	"github.com/streamtide/deploy-cli/internal/usecase"
)

// ConfigRenderer renders config-related output
type ConfigRenderer struct {
	out io.Writer
}

// NewConfigRenderer creates a new config renderer
func NewConfigRenderer(out io.Writer) *ConfigRenderer {
	return &ConfigRenderer{out: out}
}

// RenderConfig renders stored defaults and the values in effect
func (r *ConfigRenderer) RenderConfig(result *usecase.ShowConfigResult) error {
	if !result.Exists {
		fmt.Fprintf(r.out, "No local config at %s\n", relativePath(result.ConfigPath))
	} else {
		fmt.Fprintln(r.out, "📋 Local config:")
		fmt.Fprintf(r.out, "Env:     %s\n", orNotSet(result.Config.Env))
		fmt.Fprintf(r.out, "Network: %s\n", orNotSet(result.Config.Network))
		fmt.Fprintf(r.out, "📁 config file: %s\n", relativePath(result.ConfigPath))
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "In effect:")
	fmt.Fprintf(r.out, "Env:     %s\n", result.Environment)
	fmt.Fprintf(r.out, "Network: %s\n", orNotSet(result.Network))
	return nil
}

// RenderSet renders the result of setting a configuration value
func (r *ConfigRenderer) RenderSet(result *usecase.SetConfigResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Set %s to: %s", result.Key, result.Value)))
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}

// RenderRemove renders the result of removing a configuration value
func (r *ConfigRenderer) RenderRemove(result *usecase.RemoveConfigResult) error {
	if result.RemovedValue == "" {
		fmt.Fprintf(r.out, "%s was not set\n", result.Key)
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %s (was: %s)", result.Key, result.RemovedValue)))
	fmt.Fprintf(r.out, "📁 config saved to: %s\n", relativePath(result.ConfigPath))
	return nil
}

func orNotSet(v string) string {
	if v == "" {
		return faintStyle.Sprint("(not set)")
	}
	return v
}
