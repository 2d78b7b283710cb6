// Package lookup decides whether a token is a known word.
//
// A token is tried in up to three forms: as written, lower-cased, and (for all-caps words)
// title-cased, so "The" matches "the" and "PARIS" matches "Paris". At every step the
// caller's exceptions are consulted before the dictionary. Tokens without letters are
// always known.
package lookup

import (
	"github.com/bastiangx/wordcheck/internal/utils"
)

// Lexicon is the membership side of a lexicon store.
type Lexicon interface {
	Contains(word string) bool
}

// ExceptionSet holds caller-accepted words. A nil ExceptionSet is empty.
type ExceptionSet interface {
	Contains(word string) bool
}

// Engine runs the fallback chain against one case-sensitive lexicon.
type Engine struct {
	lex Lexicon
}

func New(lex Lexicon) *Engine {
	return &Engine{lex: lex}
}

// IsKnown reports whether token, or one of its fallback forms, is in exceptions or the lexicon.
func (e *Engine) IsKnown(token string, exceptions ExceptionSet) bool {
	if !utils.HasLetter(token) {
		return true
	}
	for _, form := range Forms(token) {
		if exceptions != nil && exceptions.Contains(form) {
			return true
		}
		if e.lex.Contains(form) {
			return true
		}
	}
	return false
}

// Forms returns the forms IsKnown tries for token, in order and without repeats.
func Forms(token string) []string {
	literal := utils.NFC(token)
	forms := []string{literal}

	if !utils.IsAllLower(literal) {
		forms = append(forms, utils.Lower(literal))
	}
	if utils.CaseOf(literal) == utils.CaseUpper {
		if title := utils.Title(literal); title != literal {
			forms = append(forms, title)
		}
	}
	return forms
}
