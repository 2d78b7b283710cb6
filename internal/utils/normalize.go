package utils

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Casers are stateful, so every call builds its own.
var lang = language.BritishEnglish

// NFC returns s in Unicode normalization form C.
func NFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Lower folds s to lower case using British English rules.
func Lower(s string) string {
	if IsAllLower(s) {
		return s
	}
	return cases.Lower(lang).String(s)
}

// Upper maps s to upper case.
func Upper(s string) string {
	return cases.Upper(lang).String(s)
}

// Title upper-cases the first letter of s and lower-cases the rest.
func Title(s string) string {
	return cases.Title(lang, cases.NoLower).String(Lower(s))
}

// Case classifies the capitalisation of a word.
type Case int

const (
	CaseNone  Case = iota // no letters
	CaseLower             // "teh"
	CaseTitle             // "Teh"
	CaseUpper             // "TEH"
	CaseMixed             // "tEh", "McDonald"
)

// CaseOf reports the capitalisation pattern of s.
func CaseOf(s string) Case {
	letters, upper := 0, 0
	firstUpper := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			if letters == 0 {
				firstUpper = true
			}
			upper++
		}
		letters++
	}
	switch {
	case letters == 0:
		return CaseNone
	case upper == 0:
		return CaseLower
	case upper == letters && letters > 1:
		return CaseUpper
	case upper == 1 && firstUpper:
		return CaseTitle
	}
	return CaseMixed
}

// ApplyCase reshapes word to follow the capitalisation of pattern. Mixed patterns copy
// upper-case positions rune by rune, as far as word is long.
func ApplyCase(word, pattern string) string {
	switch CaseOf(pattern) {
	case CaseTitle:
		return Title(word)
	case CaseUpper:
		return Upper(word)
	case CaseMixed:
		positions := make([]bool, 0, utf8.RuneCountInString(pattern))
		for _, r := range pattern {
			positions = append(positions, unicode.IsUpper(r))
		}
		return ApplyCapitalization(word, positions)
	}
	return word
}

// ApplyCapitalization upper-cases the runes of word whose positions are set.
func ApplyCapitalization(word string, capitalPositions []bool) string {
	if len(capitalPositions) == 0 {
		return word
	}

	wordRunes := []rune(word)
	for i := 0; i < len(wordRunes) && i < len(capitalPositions); i++ {
		if capitalPositions[i] {
			wordRunes[i] = unicode.ToUpper(wordRunes[i])
		}
	}
	return string(wordRunes)
}
