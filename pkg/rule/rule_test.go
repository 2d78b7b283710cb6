package rule

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/exceptions"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

const testDict = `the	1000
quick	300
brown	250
fox	200
jumps	90
over	400
lazy	80
dog	150
dogs	60
cat	120
Paris	70
NASA	20
`

func loadRule(t testing.TB, cfg suggest.Config, opts ...Option) *Rule {
	t.Helper()
	d, err := dictionary.Load("collins.txt", []byte(testDict), dictionary.FormatText)
	require.NoError(t, err)
	r, err := FromDictionary(d, cfg, opts...)
	require.NoError(t, err)
	return r
}

// tokens splits on single spaces and uses rune offsets.
func tokens(text string) []Token {
	var out []Token
	pos := 0
	for _, w := range strings.Split(text, " ") {
		n := len([]rune(w))
		if n > 0 {
			out = append(out, Token{Text: w, From: pos, To: pos + n})
		}
		pos += n + 1
	}
	return out
}

func TestCheckScenario(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig())

	findings := r.Check(tokens("Teh quick foxx"), nil)
	require.Len(t, findings, 2)

	teh := findings[0]
	assert.Equal(t, 0, teh.From)
	assert.Equal(t, 3, teh.To)
	assert.Equal(t, "Teh", teh.MatchedText)
	assert.Equal(t, "MORFOLOGIK_RULE_COLLINS", teh.RuleID)
	assert.Equal(t, Category{ID: "Collins Dictionary", Name: "Collins Dictionary"}, teh.Category)
	assert.Equal(t, "Possible spelling mistake found.", teh.Message)
	assert.Equal(t, "Spelling mistake", teh.ShortMessage)
	assert.False(t, teh.MarkAsCorrect)
	assert.Contains(t, teh.Suggestions, "the")

	foxx := findings[1]
	assert.Equal(t, 10, foxx.From)
	assert.Equal(t, 14, foxx.To)
	assert.Equal(t, "foxx", foxx.MatchedText)
	assert.Contains(t, foxx.Suggestions, "fox")
}

func TestCheckExceptions(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig())

	findings := r.Check(tokens("Teh quick foxx"), exceptions.New("foxx"))
	require.Len(t, findings, 1)
	assert.Equal(t, "Teh", findings[0].MatchedText)

	// Exceptions can change between calls without rebuilding anything.
	set := exceptions.New()
	assert.Len(t, r.Check(tokens("foxx"), set), 1)
	set.Add("foxx")
	assert.Empty(t, r.Check(tokens("foxx"), set))
}

func TestCheckRoundTrip(t *testing.T) {
	d, err := dictionary.Load("mini.txt", []byte("cat\ndog\ndogs\n"), dictionary.FormatText)
	require.NoError(t, err)
	r, err := FromDictionary(d, suggest.DefaultConfig())
	require.NoError(t, err)

	assert.Empty(t, r.Check(tokens("cat dog dogs"), nil))

	findings := r.Check(tokens("catt"), nil)
	require.Len(t, findings, 1)
	assert.Equal(t, "cat", findings[0].Suggestions[0])
}

func TestCheckZeroEditDistance(t *testing.T) {
	cfg := suggest.DefaultConfig()
	cfg.MaxEditDistance = 0
	r := loadRule(t, cfg)

	findings := r.Check(tokens("catt"), nil)
	require.Len(t, findings, 1)
	assert.NotNil(t, findings[0].Suggestions)
	assert.Empty(t, findings[0].Suggestions)
}

func TestCheckKnownForms(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig())

	testCases := []struct {
		name string
		text string
	}{
		{"verbatim", "the lazy dog"},
		{"sentence case", "The Quick Fox"},
		{"all caps", "THE QUICK FOX"},
		{"all caps proper noun", "PARIS"},
		{"acronym", "NASA"},
		{"numbers and punctuation", "1984 -- 3.14 !!"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Empty(t, r.Check(tokens(tc.text), nil))
		})
	}

	assert.Len(t, r.Check(tokens("paris"), nil), 1, "lower-case proper noun is flagged")
}

func TestCheckProperties(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig(), WithMaxResults(2))
	toks := tokens("Teh quikc brwn foxx jmps ovr teh lazzy dgo")

	first := r.Check(toks, nil)
	second := r.Check(toks, nil)
	assert.Equal(t, first, second, "Check is idempotent")

	for i, f := range first {
		assert.LessOrEqual(t, len(f.Suggestions), 2)
		if i > 0 {
			assert.Less(t, first[i-1].From, f.From, "document order")
		}
		assert.False(t, slices.Contains(f.Suggestions, f.MatchedText))
	}
	assert.Empty(t, r.Check(nil, nil))
}

func TestCheckDuplicateSpans(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig())
	toks := []Token{
		{Text: "foxx", From: 0, To: 4},
		{Text: "foxx", From: 0, To: 4},
		{Text: "foxx", From: 5, To: 9},
	}
	findings := r.Check(toks, nil)
	require.Len(t, findings, 2)
	assert.Equal(t, 5, findings[1].From)
}

type reverser struct{}

func (reverser) Rerank(_ Token, s []string) []string {
	slices.Reverse(s)
	return append(s, "", s[0])
}

func TestReranker(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig(), WithMaxResults(3), WithReranker(reverser{}))
	plain := loadRule(t, suggest.DefaultConfig(), WithMaxResults(3))

	got := r.Check(tokens("doge"), nil)[0].Suggestions
	want := plain.Check(tokens("doge"), nil)[0].Suggestions
	require.NotEmpty(t, want)

	slices.Reverse(want)
	assert.Equal(t, want, got, "reordered, with blanks and repeats dropped")
}

func TestOptions(t *testing.T) {
	custom := Category{ID: "TYPOS", Name: "Typos"}
	r := loadRule(t, suggest.DefaultConfig(),
		WithMessage("Unknown word."),
		WithShortMessage("Typo"),
		WithCategory(custom),
	)

	assert.Equal(t, "MORFOLOGIK_RULE_COLLINS", r.ID())
	assert.Equal(t, custom, r.Category())
	assert.NotEmpty(t, r.Description())

	f := r.Check(tokens("foxx"), nil)[0]
	assert.Equal(t, "Unknown word.", f.Message)
	assert.Equal(t, "Typo", f.ShortMessage)
	assert.Equal(t, custom, f.Category)

	assert.Equal(t, DefaultCategory(), loadRule(t, suggest.DefaultConfig()).Category())
}

type failingSuggester struct{}

func (failingSuggester) Suggest(string, int) ([]suggest.Suggestion, error) {
	return nil, errors.New("boom")
}

func TestConstructionErrors(t *testing.T) {
	d, err := dictionary.Load("mini.txt", []byte("cat\n"), dictionary.FormatText)
	require.NoError(t, err)

	_, err = New(nil, failingSuggester{})
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = New(d.Exact, nil)
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = New(d.Exact, failingSuggester{}, WithMaxResults(-1))
	assert.ErrorIs(t, err, errs.ErrConfig)

	cfg := suggest.DefaultConfig()
	cfg.MaxEditDistance = -1
	_, err = FromDictionary(d, cfg)
	assert.ErrorIs(t, err, errs.ErrConfig)

	_, err = FromDictionary(nil, suggest.DefaultConfig())
	assert.ErrorIs(t, err, errs.ErrConfig)

	// A failing suggester still yields the finding.
	r, err := New(d.Exact, failingSuggester{})
	require.NoError(t, err)
	findings := r.Check(tokens("dgo"), nil)
	require.Len(t, findings, 1)
	assert.Empty(t, findings[0].Suggestions)
}

func TestSuggestWord(t *testing.T) {
	r := loadRule(t, suggest.DefaultConfig(), WithMaxResults(1))

	assert.Equal(t, []string{"fox"}, r.Suggest("foxx", 0))
	assert.Contains(t, r.Suggest("doge", 5), "dogs")
	assert.LessOrEqual(t, len(r.Suggest("doge", 5)), 5)
	// Known words still get neighbours.
	assert.Contains(t, r.Suggest("dog", 3), "dogs")
}
