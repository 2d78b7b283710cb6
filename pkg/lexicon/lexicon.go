// Package lexicon is the immutable word store behind the speller.
//
// A Store is built once from dictionary entries and then only read. Exact membership goes
// through a patricia trie keyed by the (optionally case-folded) word; approximate queries
// walk rune-length buckets so that a distance-d query only ever looks at words whose length
// is within d of the query.
//
// A Store never changes after Build returns, so any number of goroutines may query it
// without locking.
package lexicon

import (
	"cmp"
	"iter"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Entry is one valid word form.
type Entry struct {
	Word string
	// Weight is a corpus frequency or inverse rank; 0 means unweighted.
	Weight int
	// POS is an optional part-of-speech hint carried through from the source.
	POS string
}

// Candidate is one stored word close to a query.
type Candidate struct {
	// Word is the surface form to suggest.
	Word string
	// Key is the stored key Word was matched on (lower-cased in folded stores).
	Key      string
	Distance int
	Weight   int
	// Index is the entry's position in insertion order.
	Index int
}

// Options fixes the case policy of a store at build time.
type Options struct {
	// FoldCase stores lower-cased keys and lower-cases every query.
	// The surface form of the heaviest entry is kept for each key.
	FoldCase bool
}

// Store is a read-only lexicon.
type Store struct {
	resource string
	foldCase bool

	entries []Entry
	keys    []string
	trie    *patricia.Trie
	// buckets maps a key's rune count to entry indices sorted by key.
	buckets map[int][]int32
	maxLen  int
}

// Build creates a Store from entries. It fails with *errs.BuildError when entries is empty,
// a word is empty or not valid UTF-8, or a weight is negative. Duplicate keys are merged,
// keeping the highest weight.
func Build(resource string, entries []Entry, opts Options) (*Store, error) {
	if len(entries) == 0 {
		return nil, errs.BuildErrorf(resource, 0, "dictionary has no entries")
	}

	s := &Store{
		resource: resource,
		foldCase: opts.FoldCase,
		entries:  make([]Entry, 0, len(entries)),
		keys:     make([]string, 0, len(entries)),
		trie:     patricia.NewTrie(),
		buckets:  make(map[int][]int32),
	}

	duplicates := 0
	for i, e := range entries {
		if !utf8.ValidString(e.Word) {
			return nil, errs.BuildErrorf(resource, i+1, "word %q is not valid UTF-8", e.Word)
		}
		word := utils.NFC(strings.TrimSpace(e.Word))
		if word == "" {
			return nil, errs.BuildErrorf(resource, i+1, "empty word")
		}
		if e.Weight < 0 {
			return nil, errs.BuildErrorf(resource, i+1, "negative weight %d for %q", e.Weight, word)
		}

		key := s.keyOf(word)
		if item := s.trie.Get(patricia.Prefix(key)); item != nil {
			duplicates++
			s.merge(item.(int), Entry{Word: word, Weight: e.Weight, POS: e.POS})
			continue
		}

		idx := len(s.entries)
		s.entries = append(s.entries, Entry{Word: word, Weight: e.Weight, POS: e.POS})
		s.keys = append(s.keys, key)
		s.trie.Insert(patricia.Prefix(key), idx)

		n := utf8.RuneCountInString(key)
		s.buckets[n] = append(s.buckets[n], int32(idx))
		s.maxLen = max(s.maxLen, n)
	}

	for _, bucket := range s.buckets {
		slices.SortFunc(bucket, func(a, b int32) int {
			return strings.Compare(s.keys[a], s.keys[b])
		})
	}

	log.Debugf("Built lexicon %s: %d entries (%d duplicates merged), foldCase=%t",
		resource, len(s.entries), duplicates, s.foldCase)
	return s, nil
}

func (s *Store) merge(idx int, e Entry) {
	cur := &s.entries[idx]
	if e.Weight > cur.Weight {
		cur.Word = e.Word
		cur.Weight = e.Weight
	}
	if cur.POS == "" {
		cur.POS = e.POS
	}
}

func (s *Store) keyOf(word string) string {
	word = utils.NFC(word)
	if s.foldCase {
		return utils.Lower(word)
	}
	return word
}

// ID returns the resource identifier the store was built from.
func (s *Store) ID() string {
	return s.resource
}

// FoldCase reports whether the store is case-insensitive.
func (s *Store) FoldCase() bool {
	return s.foldCase
}

// Len returns the number of distinct keys.
func (s *Store) Len() int {
	return len(s.entries)
}

// Contains reports exact membership under the store's case policy.
func (s *Store) Contains(word string) bool {
	if word == "" {
		return false
	}
	return s.trie.Get(patricia.Prefix(s.keyOf(word))) != nil
}

// Lookup returns the entry stored under word.
func (s *Store) Lookup(word string) (Entry, bool) {
	if word == "" {
		return Entry{}, false
	}
	item := s.trie.Get(patricia.Prefix(s.keyOf(word)))
	if item == nil {
		return Entry{}, false
	}
	return s.entries[item.(int)], true
}

// Find returns word as a distance-0 Candidate.
func (s *Store) Find(word string) (Candidate, bool) {
	if word == "" {
		return Candidate{}, false
	}
	key := s.keyOf(word)
	item := s.trie.Get(patricia.Prefix(key))
	if item == nil {
		return Candidate{}, false
	}
	idx := item.(int)
	e := s.entries[idx]
	return Candidate{Word: e.Word, Key: key, Weight: e.Weight, Index: idx}, true
}

// Weight returns the weight stored for word.
func (s *Store) Weight(word string) (int, bool) {
	e, ok := s.Lookup(word)
	return e.Weight, ok
}

// Entries yields every entry in insertion order.
func (s *Store) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range s.entries {
			if !yield(e) {
				return
			}
		}
	}
}

// Near returns every stored word within maxDist Levenshtein edits of word, ordered by
// ascending distance, then descending weight, then lexicographically.
//
// The sequence is lazy and restartable: distance tiers are computed only when the consumer
// reaches them, so stopping after tier 1 never pays for tier 2. A negative maxDist is a
// *errs.ConfigError.
func (s *Store) Near(word string, maxDist int) (iter.Seq[Candidate], error) {
	if err := errs.NonNegative("max_edit_distance", maxDist); err != nil {
		return nil, err
	}
	query := []rune(s.keyOf(word))

	return func(yield func(Candidate) bool) {
		scratch := newDistanceScratch(max(len(query), s.maxLen))
		// No stored word can be further away than the longer of the two strings.
		limit := min(maxDist, max(len(query), s.maxLen))
		for d := 0; d <= limit; d++ {
			for _, c := range s.tier(query, d, scratch) {
				if !yield(c) {
					return
				}
			}
		}
	}, nil
}

// tier collects the candidates at exactly distance d, sorted.
func (s *Store) tier(query []rune, d int, scratch *distanceScratch) []Candidate {
	var out []Candidate
	for n := max(len(query)-d, 1); n <= len(query)+d && n <= s.maxLen; n++ {
		for _, idx := range s.buckets[n] {
			key := s.keys[idx]
			if scratch.distance(query, key, d) != d {
				continue
			}
			e := s.entries[idx]
			out = append(out, Candidate{Word: e.Word, Key: key, Distance: d, Weight: e.Weight, Index: int(idx)})
		}
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		if c := strings.Compare(a.Word, b.Word); c != 0 {
			return c
		}
		return strings.Compare(a.Key, b.Key)
	})
	return out
}
