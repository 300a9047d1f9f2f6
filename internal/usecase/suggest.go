package usecase

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxSuggestions = 3

// suggest returns the closest candidates to input, best first
func suggest(input string, candidates []string) []string {
	matches := fuzzy.Find(input, candidates)
	var out []string
	for i, m := range matches {
		if i == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

// withSuggestions appends a "did you mean" hint to err when there are close candidates
func withSuggestions(err error, input string, candidates []string) error {
	s := suggest(input, candidates)
	if len(s) == 0 {
		return err
	}
	return fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
}
