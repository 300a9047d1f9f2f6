package interactive

import (
	"context"
	"testing"

	"github.com/streamtide/deploy-cli/internal/domain/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorAdapter_NonInteractive(t *testing.T) {
	s := NewSelectorAdapter(&config.RuntimeConfig{NonInteractive: true})
	ctx := context.Background()

	_, err := s.Confirm(ctx, "Run against prod?")
	assert.ErrorIs(t, err, ErrNonInteractive)

	_, err = s.SelectOne(ctx, []string{"2", "5"}, "Checkpoint")
	assert.ErrorIs(t, err, ErrNonInteractive)

	// a single option needs no prompt
	got, err := s.SelectOne(ctx, []string{"2"}, "Checkpoint")
	require.NoError(t, err)
	assert.Equal(t, "2", got)

	_, err = s.SelectOne(ctx, nil, "Checkpoint")
	assert.Error(t, err)
}

func TestFuzzySearcher(t *testing.T) {
	items := []string{"2 deploy streamtide contracts", "5 deploy matching pool", "99 replace streamtide"}
	search := fuzzySearcher(items)

	tests := []struct {
		input string
		want  []bool
	}{
		{input: "", want: []bool{true, true, true}},
		{input: "Matching", want: []bool{false, true, false}},
		{input: "stmtd", want: []bool{true, false, true}},
		{input: "zzz", want: []bool{false, false, false}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			for i, want := range tt.want {
				assert.Equal(t, want, search(tt.input, i), "item %q", items[i])
			}
		})
	}
}
