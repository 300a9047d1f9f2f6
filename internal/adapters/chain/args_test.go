package chain

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/streamtide/deploy-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertArgs(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"function","name":"f","inputs":[
		{"name":"who","type":"address"},
		{"name":"many","type":"address[]"},
		{"name":"id","type":"uint256"},
		{"name":"flag","type":"bool"}],"outputs":[]}]`))
	require.NoError(t, err)
	inputs := parsed.Methods["f"].Inputs

	out, err := convertArgs(inputs, []any{
		"0x00000000000000000000000000000000000000a1",
		[]string{"0x00000000000000000000000000000000000000a2"},
		99,
		true,
	})
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xa1"), out[0])
	assert.Equal(t, []common.Address{common.HexToAddress("0xa2")}, out[1])
	assert.Equal(t, big.NewInt(99), out[2])
	assert.Equal(t, true, out[3])

	_, err = parsed.Pack("f", out...)
	require.NoError(t, err)
}

func TestConvertArgs_Errors(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(`[{"type":"function","name":"g","inputs":[
		{"name":"who","type":"address"},{"name":"n","type":"uint256"}],"outputs":[]}]`))
	require.NoError(t, err)
	inputs := parsed.Methods["g"].Inputs

	_, err = convertArgs(inputs, []any{"0x01"})
	assert.ErrorContains(t, err, "expected 2 arguments")

	_, err = convertArgs(inputs, []any{"0xzz", 1})
	assert.ErrorIs(t, err, domain.ErrInvalidAddress)
	assert.ErrorContains(t, err, "argument who")

	_, err = convertArgs(inputs, []any{"0x00000000000000000000000000000000000000a1", "ten"})
	assert.ErrorContains(t, err, "not an integer")

	_, err = convertArgs(inputs, []any{"0x00000000000000000000000000000000000000a1", 1.5})
	assert.Error(t, err)
}

func TestToBigInt(t *testing.T) {
	tests := []struct {
		in   any
		want int64
	}{
		{int(7), 7},
		{int64(8), 8},
		{uint64(9), 9},
		{float64(10), 10},
		{"0x0b", 11},
		{"12", 12},
		{big.NewInt(13), 13},
	}
	for _, tt := range tests {
		got, err := toBigInt(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got.Int64())
	}
}
