package utils

// SuggestionFilter drops repeated suggestions and the misspelled input itself.
// Not safe for concurrent use; build one per request.
type SuggestionFilter struct {
	seenWords map[string]struct{}
}

// NewSuggestionFilter creates a new filter instance that will exclude the given input word
func NewSuggestionFilter(input string) *SuggestionFilter {
	return &SuggestionFilter{
		seenWords: map[string]struct{}{input: {}},
	}
}

// ShouldInclude reports whether word is new, and remembers it.
// Comparison is exact: "Paris" is a valid suggestion for the input "paris".
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	if _, seen := f.seenWords[word]; seen {
		return false
	}
	f.seenWords[word] = struct{}{}
	return true
}
