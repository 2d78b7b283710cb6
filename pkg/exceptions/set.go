// Package exceptions holds caller-accepted words that are never flagged.
//
// A Set is owned by the caller and may change between checks without touching the
// dictionary. Sets can be layered with Overlay for request-scoped additions, loaded from a
// JSON user dictionary, or kept in sync with a shared backend such as Redis.
package exceptions

import (
	"slices"
	"sync"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/lookup"
	mapset "github.com/deckarep/golang-set/v2"
)

// Set is a concurrency-safe set of words. Words are stored in NFC and matched exactly.
type Set struct {
	mu    sync.RWMutex
	words mapset.Set[string]
}

func New(words ...string) *Set {
	s := &Set{words: mapset.NewThreadUnsafeSetWithSize[string](len(words))}
	s.add(words)
	return s
}

// Contains reports whether word is in the set. A nil Set is empty.
func (s *Set) Contains(word string) bool {
	if s == nil {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words.ContainsOne(utils.NFC(word))
}

// Add inserts words and returns how many were new.
func (s *Set) Add(words ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(words)
}

func (s *Set) add(words []string) int {
	added := 0
	for _, w := range words {
		if w == "" {
			continue
		}
		if s.words.Add(utils.NFC(w)) {
			added++
		}
	}
	return added
}

// Remove deletes words and returns how many were present.
func (s *Set) Remove(words ...string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for _, w := range words {
		w = utils.NFC(w)
		if s.words.ContainsOne(w) {
			s.words.Remove(w)
			removed++
		}
	}
	return removed
}

// Replace swaps the whole contents in one step.
func (s *Set) Replace(words []string) {
	next := mapset.NewThreadUnsafeSetWithSize[string](len(words))
	for _, w := range words {
		if w != "" {
			next.Add(utils.NFC(w))
		}
	}
	s.mu.Lock()
	s.words = next
	s.mu.Unlock()
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.words.Cardinality()
}

// Words returns the contents sorted.
func (s *Set) Words() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	out := s.words.ToSlice()
	s.mu.RUnlock()
	slices.Sort(out)
	return out
}

type overlay []lookup.ExceptionSet

func (o overlay) Contains(word string) bool {
	for _, s := range o {
		if s.Contains(word) {
			return true
		}
	}
	return false
}

// Overlay returns a read-only view that contains a word when base or any of extra does.
// Nil members are skipped.
func Overlay(base lookup.ExceptionSet, extra ...lookup.ExceptionSet) lookup.ExceptionSet {
	o := make(overlay, 0, 1+len(extra))
	for _, s := range append([]lookup.ExceptionSet{base}, extra...) {
		if s != nil {
			o = append(o, s)
		}
	}
	return o
}
