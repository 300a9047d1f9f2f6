package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forwarderPlaceholder = "beefbeefbeefbeefbeefbeefbeefbeefbeefbeef"

const forwarderArtifactJSON = `{
  "contractName": "MutableForwarder",
  "abi": [{"type":"function","name":"setTarget","inputs":[{"name":"_target","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}],
  "bytecode": "0x6080604052` + forwarderPlaceholder + `5b00",
  "deployedBytecode": "0x6080",
  "sourcePath": "contracts/proxy/MutableForwarder.sol",
  "ast": {
    "absolutePath": "contracts/proxy/MutableForwarder.sol",
    "exportedSymbols": {"MutableForwarder": [1203], "DelegateProxy": [1100]},
    "id": 1204,
    "nodeType": "SourceUnit",
    "nodes": [
      {"id": 1150, "nodeType": "PragmaDirective"},
      {"id": 1203, "nodeType": "ContractDefinition", "name": "MutableForwarder", "canonicalName": "MutableForwarder"}
    ]
  },
  "networks": {"1337": {"address": "0x00000000000000000000000000000000000000f0", "transactionHash": "0xabc"}},
  "schemaVersion": "3.4.13",
  "updatedAt": "2024-03-01T10:00:00.000Z"
}`

func loadForwarder(t *testing.T) *Artifact {
	t.Helper()
	var a Artifact
	require.NoError(t, json.Unmarshal([]byte(forwarderArtifactJSON), &a))
	return &a
}

func TestLinkPlaceholder(t *testing.T) {
	target := "0x1234567890abcdef1234567890abcdef12345678"

	tests := []struct {
		name        string
		bytecode    string
		placeholder string
		want        string
	}{
		{
			name:        "single occurrence",
			bytecode:    "0x6080" + forwarderPlaceholder + "00",
			placeholder: forwarderPlaceholder,
			want:        "0x6080" + target[2:] + "00",
		},
		{
			name:        "prefixed placeholder",
			bytecode:    "0x6080" + forwarderPlaceholder + "00",
			placeholder: "0x" + forwarderPlaceholder,
			want:        "0x6080" + target[2:] + "00",
		},
		{
			name:        "every occurrence",
			bytecode:    forwarderPlaceholder + "ff" + forwarderPlaceholder,
			placeholder: forwarderPlaceholder,
			want:        target[2:] + "ff" + target[2:],
		},
		{
			name:        "absent placeholder is a no-op",
			bytecode:    "0x60806040",
			placeholder: forwarderPlaceholder,
			want:        "0x60806040",
		},
		{
			name:        "empty placeholder is a no-op",
			bytecode:    "0x60806040",
			placeholder: "0x",
			want:        "0x60806040",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LinkPlaceholder(tt.bytecode, tt.placeholder, target)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, forwarderPlaceholder)
		})
	}
}

func TestArtifact_Linked(t *testing.T) {
	a := loadForwarder(t)
	linked := a.Linked(forwarderPlaceholder, "0x00000000000000000000000000000000000000c1")

	assert.Contains(t, linked.Bytecode, "00000000000000000000000000000000000000c1")
	assert.NotContains(t, linked.Bytecode, forwarderPlaceholder)
	assert.Contains(t, a.Bytecode, forwarderPlaceholder, "original is untouched")

	code, err := linked.CreationCode()
	require.NoError(t, err)
	assert.Equal(t, byte(0x60), code[0])
}

func TestArtifact_RoundTripKeepsUnknownFields(t *testing.T) {
	a := loadForwarder(t)

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "contracts/proxy/MutableForwarder.sol", raw["sourcePath"])
	assert.Equal(t, "3.4.13", raw["schemaVersion"])

	var again Artifact
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, a.ContractName, again.ContractName)
	assert.Equal(t, a.Bytecode, again.Bytecode)
	assert.Equal(t, a.Networks, again.Networks)
	assert.JSONEq(t, string(a.ABI), string(again.ABI))
}

func TestArtifact_Rename(t *testing.T) {
	a := loadForwarder(t)
	a.Rename("StreamtideForwarder")

	assert.Equal(t, "StreamtideForwarder", a.ContractName)

	symbols := a.AST["exportedSymbols"].(map[string]any)
	assert.Contains(t, symbols, "StreamtideForwarder")
	assert.NotContains(t, symbols, "MutableForwarder")
	assert.Contains(t, symbols, "DelegateProxy")

	nodes := a.AST["nodes"].([]any)
	def := nodes[1].(map[string]any)
	assert.Equal(t, "StreamtideForwarder", def["name"])
	assert.Equal(t, "StreamtideForwarder", def["canonicalName"])

	data, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":1203`, "AST numbers survive re-encoding")
}

func TestArtifact_RecordDeployment(t *testing.T) {
	a := loadForwarder(t)
	a.RecordDeployment("5", NetworkDeployment{Address: "0x00000000000000000000000000000000000000a5"})

	addr, ok := a.Address("5")
	require.True(t, ok)
	assert.Equal(t, "0x00000000000000000000000000000000000000a5", addr)

	addr, ok = a.Address("1337")
	require.True(t, ok)
	assert.Equal(t, "0x00000000000000000000000000000000000000f0", addr)

	_, ok = a.Address("1")
	assert.False(t, ok)
}

func TestArtifact_CreationCodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		bytecode string
		errPart  string
	}{
		{"unlinked library", "0x6080__$abc$__00", "unlinked"},
		{"empty", "0x", "empty bytecode"},
		{"not hex", "0xzz", "invalid bytecode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Artifact{ContractName: "X", Bytecode: tt.bytecode}
			_, err := a.CreationCode()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.errPart), err.Error())
		})
	}
}

func TestArtifact_ParsedABI(t *testing.T) {
	a := loadForwarder(t)
	parsed, err := a.ParsedABI()
	require.NoError(t, err)
	assert.Contains(t, parsed.Methods, "setTarget")

	_, err = (&Artifact{ContractName: "Empty"}).ParsedABI()
	assert.Error(t, err)
}
