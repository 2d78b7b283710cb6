package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEntries = []lexicon.Entry{
	{Word: "the", Weight: 1000},
	{Word: "quick", Weight: 300},
	{Word: "fox", Weight: 200},
	{Word: "box", Weight: 150},
	{Word: "cat", Weight: 120},
	{Word: "cart", Weight: 80},
	{Word: "cast", Weight: 60},
	{Word: "coat", Weight: 50},
	{Word: "Paris", Weight: 90},
	{Word: "receive", Weight: 70},
	{Word: "colour", Weight: 40},
	{Word: "organise", Weight: 30},
	{Word: "believe", Weight: 45},
	{Word: "house", Weight: 110},
	{Word: "horse", Weight: 100},
	{Word: "mouse", Weight: 20},
}

func folded(t testing.TB) *lexicon.Store {
	t.Helper()
	s, err := lexicon.Build("test", testEntries, lexicon.Options{FoldCase: true})
	require.NoError(t, err)
	return s
}

func newGen(t testing.TB, mutate func(*Config)) *Generator {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := NewGenerator(folded(t), cfg)
	require.NoError(t, err)
	return g
}

func genFor(t testing.TB, entries []lexicon.Entry, mutate func(*Config)) *Generator {
	t.Helper()
	s, err := lexicon.Build("test", entries, lexicon.Options{FoldCase: true})
	require.NoError(t, err)
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	g, err := NewGenerator(s, cfg)
	require.NoError(t, err)
	return g
}

func TestSuggestScenarios(t *testing.T) {
	g := newGen(t, nil)

	testCases := []struct {
		token string
		first string
	}{
		{"Teh", "the"},
		{"teh", "the"},
		{"foxx", "fox"},
		{"recieve", "receive"},
		{"beleive", "believe"},
		{"color", "colour"},
		{"organize", "organise"},
		{"paris", "Paris"},
		{"hoise", "house"},
		{"quikc", "quick"},
	}

	for _, tc := range testCases {
		t.Run(tc.token, func(t *testing.T) {
			got, err := g.Suggest(tc.token, 5)
			require.NoError(t, err)
			require.NotEmpty(t, got)
			assert.Equal(t, tc.first, got[0].Word)
		})
	}
}

func TestSuggestProperties(t *testing.T) {
	g := newGen(t, nil)

	for _, token := range []string{"cat", "catt", "cst", "hxuse", "ca", "xyzzy", "Teh", "mouse"} {
		for _, limit := range []int{0, 1, 3, 5, 10} {
			t.Run(fmt.Sprintf("%s/%d", token, limit), func(t *testing.T) {
				got, err := g.Suggest(token, limit)
				require.NoError(t, err)
				assert.LessOrEqual(t, len(got), limit)

				seen := map[string]bool{}
				for i, s := range got {
					assert.False(t, seen[s.Word], "duplicate %q", s.Word)
					seen[s.Word] = true
					assert.NotEqual(t, token, s.Word)
					assert.LessOrEqual(t, s.Distance, 2)
					if i > 0 {
						assert.LessOrEqual(t, got[i-1].Distance, s.Distance)
					}
				}
			})
		}
	}
}

func TestSuggestRanking(t *testing.T) {
	g := newGen(t, nil)
	got, err := g.Suggest("cot", 10)
	require.NoError(t, err)

	// coat (1), cat (1), cart/cast (2) ... cot is too short for distance 2.
	assert.Equal(t, []string{"cat", "coat"}, Words(got))
	assert.Equal(t, 1, got[0].Distance)
	assert.Equal(t, 120, got[0].Weight)
}

func TestSuggestUnweightedKeepsDictionaryOrder(t *testing.T) {
	g := genFor(t, []lexicon.Entry{{Word: "cot"}, {Word: "cat"}, {Word: "cut"}}, nil)

	got, err := g.Suggest("cxt", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"cot", "cat", "cut"}, Words(got))

	// Equal weights fall back to dictionary order too.
	g = genFor(t, []lexicon.Entry{{Word: "cut", Weight: 7}, {Word: "cot", Weight: 9}, {Word: "cat", Weight: 7}}, nil)
	got, err = g.Suggest("cxt", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"cot", "cut", "cat"}, Words(got))
}

func TestSuggestShortTokensStayNarrow(t *testing.T) {
	entries := []lexicon.Entry{{Word: "fish"}, {Word: "phi"}}

	// "fi" -> "phi" is a spelling confusion but two edits away.
	got, err := genFor(t, entries, nil).Suggest("fi", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = genFor(t, entries, func(c *Config) { c.MinWideLength = 2 }).Suggest("fi", 5)
	require.NoError(t, err)
	assert.Contains(t, Words(got), "phi")
	for _, s := range got {
		assert.Equal(t, 2, s.Distance)
	}
}

func TestSuggestGraduatedSearch(t *testing.T) {
	g := newGen(t, func(c *Config) { c.MinWideLength = 3 })

	got, err := g.Suggest("cot", 10)
	require.NoError(t, err)
	assert.Subset(t, Words(got), []string{"cat", "coat", "cart", "cast"})

	// Enough distance-1 results: distance 2 is never reached.
	narrow, err := g.Suggest("cot", 2)
	require.NoError(t, err)
	for _, s := range narrow {
		assert.Equal(t, 1, s.Distance)
	}
}

func TestSuggestTranspositionIsOneEdit(t *testing.T) {
	g := newGen(t, func(c *Config) { c.MaxEditDistance = 1 })

	got, err := g.Suggest("Teh", 5)
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, Suggestion{Word: "the", Distance: 1, Weight: 1000, Source: SourceConfusion}, got[0])
}

func TestSuggestZeroDistance(t *testing.T) {
	g := newGen(t, func(c *Config) { c.MaxEditDistance = 0 })

	got, err := g.Suggest("catt", 5)
	require.NoError(t, err)
	assert.Empty(t, got)

	// A case-only match is distance 0.
	got, err = g.Suggest("paris", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, Words(got))
}

func TestSuggestPreserveCase(t *testing.T) {
	g := newGen(t, func(c *Config) { c.PreserveCase = true })

	got, err := g.Suggest("Teh", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"The"}, Words(got))

	got, err = g.Suggest("FOXX", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"FOX"}, Words(got))

	got, err = g.Suggest("paris", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Paris"}, Words(got))
}

func TestSuggestPreserveCaseFillsLimit(t *testing.T) {
	g := genFor(t, []lexicon.Entry{{Word: "paris", Weight: 100}, {Word: "pairs", Weight: 10}},
		func(c *Config) { c.PreserveCase = true })

	// "paris" recases onto the token itself; the next candidate takes its place.
	got, err := g.Suggest("PARIS", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"PAIRS"}, Words(got))
}

func TestSuggestNoMatches(t *testing.T) {
	g := newGen(t, nil)
	got, err := g.Suggest("qqqqqqqq", 5)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = g.Suggest("", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestNegativeLimit(t *testing.T) {
	g := newGen(t, nil)
	_, err := g.Suggest("teh", -1)
	require.ErrorIs(t, err, errs.ErrConfig)

	var ce *errs.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "max_results", ce.Param)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	testCases := []struct {
		param  string
		mutate func(*Config)
	}{
		{"max_results", func(c *Config) { c.MaxResults = -1 }},
		{"max_edit_distance", func(c *Config) { c.MaxEditDistance = -2 }},
		{"min_wide_length", func(c *Config) { c.MinWideLength = -1 }},
		{"cache_size", func(c *Config) { c.CacheSize = -10 }},
	}
	for _, tc := range testCases {
		t.Run(tc.param, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)

			_, err := NewGenerator(folded(t), cfg)
			var ce *errs.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tc.param, ce.Param)
		})
	}
}

func TestSuggestCache(t *testing.T) {
	g := newGen(t, nil)

	first, err := g.Suggest("foxx", 3)
	require.NoError(t, err)
	first[0].Word = "mutated"

	second, err := g.Suggest("foxx", 3)
	require.NoError(t, err)
	assert.Equal(t, "fox", second[0].Word, "cached results are copies")

	stats := g.Stats()
	assert.Equal(t, 1, stats["cacheHits"])
	assert.Equal(t, 1, stats["cacheMisses"])
	assert.Equal(t, 1, stats["cacheSize"])

	uncached := newGen(t, func(c *Config) { c.CacheSize = 0 })
	_, err = uncached.Suggest("foxx", 3)
	require.NoError(t, err)
	assert.Equal(t, 0, uncached.Stats()["cacheCapacity"])
}

func TestSuggestConcurrent(t *testing.T) {
	g := newGen(t, func(c *Config) { c.CacheSize = 8 })
	want, err := g.Suggest("hoise", 5)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				got, err := g.Suggest("hoise", 5)
				assert.NoError(t, err)
				assert.Equal(t, want, got)
				_, _ = g.Suggest(fmt.Sprintf("word%d", i*j), 3)
			}
		}()
	}
	wg.Wait()
}

func TestConfusionVariants(t *testing.T) {
	v := confusionVariants("teh")
	assert.Contains(t, v, "the")
	assert.Contains(t, v, "eth")
	assert.Contains(t, v, "tteh")
	assert.NotContains(t, v, "teh")

	assert.Contains(t, confusionVariants("foxx"), "fox")
	assert.Contains(t, confusionVariants("recieve"), "receive")
	assert.Contains(t, confusionVariants("fone"), "phone")
	assert.Contains(t, confusionVariants("color"), "colour")
	assert.Contains(t, confusionVariants("cst"), "cat")

	assert.ElementsMatch(t, []rune("qsz"), keyNeighbours['a'])
}

func BenchmarkSuggest(b *testing.B) {
	g := newGen(b, func(c *Config) { c.CacheSize = 0 })
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = g.Suggest("hoise", 5)
	}
}
