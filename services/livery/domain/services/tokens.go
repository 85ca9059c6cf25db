package services

import (
	"strings"
	"unicode"
)

const maxSearchTokens = 32

// Tokenize splits text into lowercase search tokens on any non letter/digit
// rune. Tokens are de-duplicated in first-occurrence order.
func Tokenize(texts ...string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, text := range texts {
		fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, f := range fields {
			if _, dup := seen[f]; dup {
				continue
			}
			if len(out) == maxSearchTokens {
				return out
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}
