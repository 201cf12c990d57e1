// Package tokenize splits text into alternating alphabetic and non-alphabetic runs.
package tokenize

import (
	"iter"
	"strings"

	"github.com/verte-zerg/shiftcrack/internal/model"
)

// Tokenize yields maximal runs of ASCII letters and of everything else, in
// source order. The sequence can be ranged over more than once.
func Tokenize(raw string) iter.Seq[model.Token] {
	return func(yield func(model.Token) bool) {
		start := 0
		for start < len(raw) {
			alpha := isLetter(raw[start])
			end := start + 1
			for end < len(raw) && isLetter(raw[end]) == alpha {
				end++
			}
			if !yield(model.Token{Text: raw[start:end], IsAlphabetic: alpha}) {
				return
			}
			start = end
		}
	}
}

// Collect materializes the tokens of raw.
func Collect(raw string) []model.Token {
	var tokens []model.Token
	for tok := range Tokenize(raw) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Join concatenates token texts in order.
func Join(tokens []model.Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
