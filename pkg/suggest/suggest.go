package suggest

import (
	"cmp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/lexicon"
	"github.com/charmbracelet/log"
	"github.com/hbollon/go-edlib"
	"golang.org/x/sync/singleflight"
)

const (
	SourceConfusion = "confusion"
	SourceEdit      = "edit"
)

// Suggestion is one correction candidate.
type Suggestion struct {
	Word string
	// Distance is the optimal string alignment distance to the lower-cased token.
	Distance int
	Weight   int
	// Source is SourceConfusion or SourceEdit.
	Source string
	// Index is the word's insertion position in the lexicon; it breaks weight ties.
	Index int
}

// Config tunes suggestion search.
type Config struct {
	MaxResults      int
	MaxEditDistance int
	// MinWideLength is the shortest token (in runes) searched beyond distance 1.
	MinWideLength int
	// PreserveCase re-applies the token's capitalisation to each suggestion.
	PreserveCase bool
	// CacheSize bounds the memoized results; 0 disables the cache.
	CacheSize int
}

func DefaultConfig() Config {
	return Config{
		MaxResults:      5,
		MaxEditDistance: 2,
		MinWideLength:   4,
		PreserveCase:    false,
		CacheSize:       4096,
	}
}

// Validate returns a *errs.ConfigError for the first negative parameter.
func (c Config) Validate() error {
	for _, p := range []struct {
		name string
		v    int
	}{
		{"max_results", c.MaxResults},
		{"max_edit_distance", c.MaxEditDistance},
		{"min_wide_length", c.MinWideLength},
		{"cache_size", c.CacheSize},
	} {
		if err := errs.NonNegative(p.name, p.v); err != nil {
			return err
		}
	}
	return nil
}

// Generator suggests corrections from a case-folded lexicon. It is safe for concurrent use.
type Generator struct {
	lex   Lexicon
	cfg   Config
	cache *resultCache
	// group collapses concurrent searches for the same key into one.
	group singleflight.Group
}

func NewGenerator(lex Lexicon, cfg Config) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Generator{lex: lex, cfg: cfg, cache: newResultCache(cfg.CacheSize)}, nil
}

func (g *Generator) Config() Config {
	return g.cfg
}

// Suggest returns at most maxResults corrections for token, closest first, then most
// frequent, then in dictionary order. A case-only match such as "Paris" for "paris" is a valid
// suggestion; token itself never is. maxResults < 0 is a *errs.ConfigError.
func (g *Generator) Suggest(token string, maxResults int) ([]Suggestion, error) {
	if err := errs.NonNegative("max_results", maxResults); err != nil {
		return nil, err
	}
	if maxResults == 0 || token == "" {
		return []Suggestion{}, nil
	}

	k := cacheKey{token: token, limit: maxResults}
	if cached, ok := g.cache.get(k); ok {
		return cached, nil
	}

	v, err, _ := g.group.Do(strconv.Itoa(maxResults)+"\x00"+token, func() (any, error) {
		out, err := g.suggest(token, maxResults)
		if err != nil {
			return nil, err
		}
		g.cache.put(k, out)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]Suggestion)), nil
}

func (g *Generator) suggest(token string, maxResults int) ([]Suggestion, error) {
	key := utils.Lower(utils.NFC(token))
	found := make(map[string]Suggestion)
	filter := utils.NewSuggestionFilter(utils.NFC(token))
	// Tokens shorter than MinWideLength only ever get distance-1 corrections.
	wide := utf8.RuneCountInString(key) >= g.cfg.MinWideLength

	add := func(c lexicon.Candidate, source string) {
		d := edlib.OSADamerauLevenshteinDistance(key, utils.Lower(c.Word))
		if d > g.cfg.MaxEditDistance || (d > 1 && !wide) || !filter.ShouldInclude(c.Word) {
			return
		}
		found[c.Word] = Suggestion{Word: c.Word, Distance: d, Weight: c.Weight, Source: source, Index: c.Index}
	}

	if g.cfg.MaxEditDistance > 0 {
		for _, v := range confusionVariants(key) {
			if c, ok := g.lex.Find(v); ok {
				add(c, SourceConfusion)
			}
		}
	}

	seq, err := g.lex.Near(key, g.cfg.MaxEditDistance)
	if err != nil {
		return nil, err
	}
	tier := -1
	for c := range seq {
		if c.Distance != tier {
			tier = c.Distance
			// Distances 0 and 1 are always searched; wider tiers only while short of results.
			if tier > 1 && (!wide || len(found) >= maxResults) {
				break
			}
		}
		add(c, SourceEdit)
	}

	ranked := make([]Suggestion, 0, len(found))
	for _, s := range found {
		ranked = append(ranked, s)
	}
	slices.SortFunc(ranked, func(a, b Suggestion) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		if c := cmp.Compare(b.Weight, a.Weight); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Index, b.Index); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})

	// Recasing can merge words, so it runs before the cut.
	if g.cfg.PreserveCase {
		ranked = g.applyCase(token, ranked)
	}
	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}

	log.Debugf("Suggest %q: %d candidates, returning %d", token, len(found), len(ranked))
	return ranked, nil
}

// applyCase reshapes suggestions to the token's capitalisation, dropping any that collapse
// onto the token or onto an earlier suggestion.
func (g *Generator) applyCase(token string, in []Suggestion) []Suggestion {
	filter := utils.NewSuggestionFilter(token)
	out := in[:0]
	for _, s := range in {
		s.Word = utils.ApplyCase(s.Word, token)
		if filter.ShouldInclude(s.Word) {
			out = append(out, s)
		}
	}
	return out
}

// Stats returns cache counters.
func (g *Generator) Stats() map[string]int {
	return g.cache.stats()
}

// Words returns the suggested words in order.
func Words(suggestions []Suggestion) []string {
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Word
	}
	return out
}
