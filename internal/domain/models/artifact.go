package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Artifact is a compiled contract artifact as written by the Truffle build
// pipeline. Fields this tool doesn't touch are kept verbatim so a load/save
// cycle leaves the rest of the file intact.
type Artifact struct {
	ContractName     string
	ABI              json.RawMessage
	Bytecode         string
	DeployedBytecode string
	// AST is the solc AST. Numbers are kept as json.Number.
	AST map[string]any
	// Networks records deployments of this artifact keyed by network ID
	Networks map[string]NetworkDeployment

	fields map[string]json.RawMessage
}

// NetworkDeployment is the per-network bookkeeping attached to an artifact
type NetworkDeployment struct {
	Address         string         `json:"address"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	Events          map[string]any `json:"events,omitempty"`
	Links           map[string]any `json:"links,omitempty"`
}

var artifactKnownFields = []string{"contractName", "abi", "bytecode", "deployedBytecode", "ast", "networks"}

// UnmarshalJSON decodes an artifact, remembering unknown fields.
func (a *Artifact) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*a = Artifact{fields: raw}
	if v, ok := raw["contractName"]; ok {
		if err := json.Unmarshal(v, &a.ContractName); err != nil {
			return fmt.Errorf("contractName: %w", err)
		}
	}
	if v, ok := raw["abi"]; ok {
		a.ABI = append(json.RawMessage(nil), v...)
	}
	if v, ok := raw["bytecode"]; ok {
		if err := json.Unmarshal(v, &a.Bytecode); err != nil {
			return fmt.Errorf("bytecode: %w", err)
		}
	}
	if v, ok := raw["deployedBytecode"]; ok {
		if err := json.Unmarshal(v, &a.DeployedBytecode); err != nil {
			return fmt.Errorf("deployedBytecode: %w", err)
		}
	}
	if v, ok := raw["ast"]; ok && string(v) != "null" {
		dec := json.NewDecoder(bytes.NewReader(v))
		dec.UseNumber()
		if err := dec.Decode(&a.AST); err != nil {
			return fmt.Errorf("ast: %w", err)
		}
	}
	if v, ok := raw["networks"]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &a.Networks); err != nil {
			return fmt.Errorf("networks: %w", err)
		}
	}
	for _, k := range artifactKnownFields {
		delete(a.fields, k)
	}
	return nil
}

// MarshalJSON re-encodes the artifact including fields kept from the original file.
func (a Artifact) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(a.fields)+len(artifactKnownFields))
	for k, v := range a.fields {
		out[k] = v
	}
	out["contractName"] = a.ContractName
	if a.ABI != nil {
		out["abi"] = a.ABI
	}
	out["bytecode"] = a.Bytecode
	if a.DeployedBytecode != "" {
		out["deployedBytecode"] = a.DeployedBytecode
	}
	if a.AST != nil {
		out["ast"] = a.AST
	}
	networks := a.Networks
	if networks == nil {
		networks = map[string]NetworkDeployment{}
	}
	out["networks"] = networks
	return json.Marshal(out)
}

// Clone returns a deep copy.
func (a *Artifact) Clone() (*Artifact, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	var c Artifact
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Rename gives the artifact a new contract name. The AST is updated too so
// introspection tools show the new name: the exported symbol moves to the new
// name and a ContractDefinition node carrying the old name is renamed.
func (a *Artifact) Rename(newName string) {
	oldName := a.ContractName
	a.ContractName = newName
	if a.AST == nil || oldName == newName {
		return
	}

	if symbols, ok := a.AST["exportedSymbols"].(map[string]any); ok {
		if v, found := symbols[oldName]; found {
			symbols[newName] = v
			delete(symbols, oldName)
		}
	}

	nodes, _ := a.AST["nodes"].([]any)
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok || node["nodeType"] != "ContractDefinition" || node["name"] != oldName {
			continue
		}
		node["name"] = newName
		node["canonicalName"] = newName
		break
	}
}

// RecordDeployment stores the address for a network, keeping other networks.
func (a *Artifact) RecordDeployment(networkID string, d NetworkDeployment) {
	if a.Networks == nil {
		a.Networks = make(map[string]NetworkDeployment)
	}
	a.Networks[networkID] = d
}

// Address returns the recorded address for a network.
func (a *Artifact) Address(networkID string) (string, bool) {
	d, ok := a.Networks[networkID]
	if !ok || d.Address == "" {
		return "", false
	}
	return d.Address, true
}

// Linked returns a copy whose bytecode has the placeholder replaced.
func (a *Artifact) Linked(placeholder, address string) *Artifact {
	c := *a
	c.Bytecode = LinkPlaceholder(a.Bytecode, placeholder, address)
	return &c
}

// CreationCode decodes the bytecode. Unlinked library references are rejected.
func (a *Artifact) CreationCode() ([]byte, error) {
	code := a.Bytecode
	if !strings.HasPrefix(code, "0x") && !strings.HasPrefix(code, "0X") {
		code = "0x" + code
	}
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", a.ContractName)
	}
	b, err := hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: invalid bytecode: %w", a.ContractName, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("artifact %s has empty bytecode (abstract contract or interface?)", a.ContractName)
	}
	return b, nil
}

// ParsedABI parses the artifact ABI.
func (a *Artifact) ParsedABI() (*abi.ABI, error) {
	if len(a.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", a.ContractName)
	}
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return nil, fmt.Errorf("artifact %s: failed to parse ABI: %w", a.ContractName, err)
	}
	return &parsed, nil
}

// LinkPlaceholder replaces every occurrence of the placeholder's hex digits in
// bytecode with the address's hex digits. A 0x prefix on either address is
// ignored. Bytecode without the placeholder is returned unchanged.
func LinkPlaceholder(bytecode, placeholder, address string) string {
	placeholder = stripHexPrefix(placeholder)
	address = stripHexPrefix(address)
	if placeholder == "" {
		return bytecode
	}
	return strings.ReplaceAll(bytecode, placeholder, address)
}

func stripHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
