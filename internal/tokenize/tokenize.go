// Package tokenize splits text blocks into word tokens for the spelling rule.
package tokenize

import (
	"unicode"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/rule"
)

// Split returns the words of text with rune offsets shifted by base. A word is a run of
// letters and digits; an apostrophe or hyphen stays inside a word only between two
// word characters ("don't", "well-known").
func Split(text string, base int) []rule.Token {
	runes := []rune(text)
	var tokens []rule.Token
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, rule.Token{
				Text: string(runes[start:end]),
				From: base + start,
				To:   base + end,
			})
			start = -1
		}
	}

	for i, r := range runes {
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case utils.IsSeparator(r) && start >= 0 && i+1 < len(runes) && isWordRune(runes[i+1]):
			// inner separator
		default:
			flush(i)
		}
	}
	flush(len(runes))
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
