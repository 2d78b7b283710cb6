// Package suggest produces ranked spelling corrections from a case-folded lexicon.
package suggest

import (
	"iter"

	"github.com/bastiangx/wordcheck/pkg/lexicon"
)

// Lexicon defines the read side of a case-folded store that suggestions are drawn from
type Lexicon interface {
	// Find returns the word stored under word, with its insertion index
	Find(word string) (lexicon.Candidate, bool)

	// Near yields stored words within maxDist edits, closest first
	Near(word string, maxDist int) (iter.Seq[lexicon.Candidate], error)
}

var _ Lexicon = (*lexicon.Store)(nil)
