package render

import (
	"fmt"
	"io"

	"github.com/streamtide/deploy-cli/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks, with chain state when probed
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult, probed bool) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in streamtide.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	header := []any{"", "NAME", "NETWORK ID", "RPC URL"}
	if probed {
		header = append(header, "CHAIN ID", "BLOCK")
	}
	t := newTable(r.out, header...)
	for _, n := range result.Networks {
		marker := ""
		name := n.Name
		if n.Selected {
			marker = selectedStyle.Sprint("▸")
			name = selectedStyle.Sprint(n.Name)
		}
		row := []any{marker, name, n.NetworkID, faintStyle.Sprint(n.RPCURL)}
		if probed {
			if n.Error != nil {
				row = append(row, failureStyle.Sprint("unreachable"), "")
			} else {
				row = append(row, n.ChainID, n.BlockNumber)
			}
		}
		t.AppendRow(row)
	}
	t.Render()

	for _, n := range result.Networks {
		if n.Error != nil {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s: %v", n.Name, n.Error)))
		}
	}
	return nil
}
