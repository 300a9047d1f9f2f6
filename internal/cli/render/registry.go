package render

import (
	"fmt"
	"io"

	"github.com/streamtide/deploy-cli/internal/domain/models"
	"github.com/streamtide/deploy-cli/internal/usecase"
)

// RegistryRenderer renders the registry document and its on-chain checks
type RegistryRenderer struct {
	out io.Writer
}

// NewRegistryRenderer creates a new registry renderer
func NewRegistryRenderer(out io.Writer) *RegistryRenderer {
	return &RegistryRenderer{out: out}
}

// RenderShow prints the flat table followed by one table per multichain network
func (r *RegistryRenderer) RenderShow(view *usecase.RegistryView) error {
	fmt.Fprintf(r.out, "%s %s\n", headerStyle.Sprint("Registry"), Title(view.Environment))
	fmt.Fprintf(r.out, "📁 %s\n\n", relativePath(view.Path))

	reg := view.Registry
	if reg.Contracts.Len() == 0 && len(reg.Multichain.Networks()) == 0 {
		fmt.Fprintln(r.out, "No contracts recorded")
		return nil
	}

	if reg.Contracts.Len() > 0 {
		fmt.Fprintln(r.out, headerStyle.Sprint("Contracts"))
		r.renderTable(reg.Contracts, view.Dangling[""])
	}
	for _, network := range reg.Multichain.Networks() {
		table, _ := reg.Multichain.Table(network)
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, headerStyle.Sprintf("Multichain %s", network))
		r.renderTable(table, view.Dangling[network])
	}

	for _, table := range sortedKeys(view.Dangling) {
		label := "contracts"
		if table != "" {
			label = "multichain " + table
		}
		for _, key := range view.Dangling[table] {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s: :%s forwards to a missing entry", label, key)))
		}
	}
	return nil
}

func (r *RegistryRenderer) renderTable(table *models.RegistryTable, dangling []string) {
	broken := make(map[string]bool, len(dangling))
	for _, k := range dangling {
		broken[k] = true
	}

	t := newTable(r.out, "KEY", "NAME", "ADDRESS", "FORWARDS TO")
	for _, key := range table.Keys() {
		e, _ := table.Entry(key)
		address := addressStyle.Sprint(e.Address)
		if e.Address == "" {
			address = pendingStyle.Sprint("not deployed")
		}
		forwards := ""
		if e.ForwardsTo != "" {
			forwards = keyStyle.Sprint(":" + e.ForwardsTo)
			if broken[key] {
				forwards = failureStyle.Sprint(":" + e.ForwardsTo)
			}
		}
		t.AppendRow([]any{":" + key, e.Name, address, forwards})
	}
	t.Render()
}

// RenderVerify prints whether each registry address holds code
func (r *RegistryRenderer) RenderVerify(result *usecase.VerifyRegistryResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No deployed contracts to verify on %s\n", result.Network)
		return nil
	}

	t := newTable(r.out, "KEY", "NAME", "ADDRESS", "CODE")
	for _, e := range result.Entries {
		code := successStyle.Sprint("✓")
		if !e.HasCode {
			code = failureStyle.Sprint("✗ missing")
		}
		t.AppendRow([]any{":" + e.Key, e.Name, addressStyle.Sprint(e.Address), code})
	}
	t.Render()

	fmt.Fprintln(r.out)
	if missing := result.Missing(); len(missing) > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d addresses have no code on %s", len(missing), len(result.Entries), result.Network)))
	} else {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("All %d addresses have code on %s", len(result.Entries), result.Network)))
	}
	return nil
}

// RenderClone reports a cloned artifact
func (r *RegistryRenderer) RenderClone(template string, result *usecase.CloneArtifactResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Cloned %s as %s", template, result.Artifact.ContractName)))
	if len(result.PreservedNetworks) > 0 {
		fmt.Fprintf(r.out, "Kept deployments on networks %v\n", result.PreservedNetworks)
	}
	return nil
}
