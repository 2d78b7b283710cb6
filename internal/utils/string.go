package utils

import (
	"strconv"
	"unicode"
)

// IsSeparator checks if a rune may join two parts of one word ("well-known", "don't")
func IsSeparator(r rune) bool {
	return r == '-' || r == '\'' || r == '’'
}

// HasLetter reports whether s contains at least one letter.
// Tokens without letters (numbers, punctuation) are never spell-checked.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsAllLower reports whether s has no upper- or title-case runes.
func IsAllLower(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			return false
		}
	}
	return true
}

// FormatWithCommas formats an integer with comma separators
func FormatWithCommas(n int) string {
	if n < 0 {
		return "-" + FormatWithCommas(-n)
	}
	str := strconv.Itoa(n)
	if len(str) <= 3 {
		return str
	}

	out := make([]byte, 0, len(str)+len(str)/3)
	for i := range len(str) {
		if i > 0 && (len(str)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, str[i])
	}
	return string(out)
}
