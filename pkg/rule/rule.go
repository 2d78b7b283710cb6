// Package rule is the spelling rule over the Collins dictionary.
//
// A Rule receives already tokenized text and reports every token that is neither a
// dictionary word (after the case fallbacks of package lookup) nor a caller exception,
// together with ranked suggestions. Check never fails: construction is the only step that
// can return an error.
package rule

import (
	"slices"

	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/utils"
	"github.com/bastiangx/wordcheck/pkg/dictionary"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/lookup"
	"github.com/bastiangx/wordcheck/pkg/suggest"
	"github.com/charmbracelet/log"
)

const (
	RuleID              = "MORFOLOGIK_RULE_COLLINS"
	CategoryID          = "Collins Dictionary"
	CategoryName        = "Collins Dictionary"
	DefaultMessage      = "Possible spelling mistake found."
	DefaultShortMessage = "Spelling mistake"
	description         = "Possible spelling mistake (Collins dictionary)"
)

// Suggester produces ranked corrections for one token.
type Suggester interface {
	Suggest(token string, maxResults int) ([]suggest.Suggestion, error)
}

// Reranker reorders suggestions with outside knowledge, e.g. a language model.
// Its output is deduplicated and cut to the rule's limit.
type Reranker interface {
	Rerank(token Token, suggestions []string) []string
}

// Option configures a Rule.
type Option func(*Rule)

func WithMaxResults(n int) Option {
	return func(r *Rule) { r.maxResults = n }
}

func WithMessage(msg string) Option {
	return func(r *Rule) { r.message = msg }
}

func WithShortMessage(msg string) Option {
	return func(r *Rule) { r.shortMessage = msg }
}

func WithCategory(c Category) Option {
	return func(r *Rule) { r.category = c }
}

func WithReranker(rr Reranker) Option {
	return func(r *Rule) { r.reranker = rr }
}

func WithLogger(l *log.Logger) Option {
	return func(r *Rule) { r.log = l }
}

// Rule is immutable after New and safe for concurrent Check calls.
type Rule struct {
	engine       *lookup.Engine
	suggester    Suggester
	maxResults   int
	message      string
	shortMessage string
	category     Category
	reranker     Reranker
	log          *log.Logger
}

// New builds a Rule that checks membership against known and asks suggester for
// corrections. Both are required.
func New(known lookup.Lexicon, suggester Suggester, opts ...Option) (*Rule, error) {
	if known == nil {
		return nil, errs.NewConfigError("lexicon", nil, "is required")
	}
	if suggester == nil {
		return nil, errs.NewConfigError("suggester", nil, "is required")
	}

	r := &Rule{
		engine:       lookup.New(known),
		suggester:    suggester,
		maxResults:   suggest.DefaultConfig().MaxResults,
		message:      DefaultMessage,
		shortMessage: DefaultShortMessage,
		category:     DefaultCategory(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := errs.NonNegative("max_results", r.maxResults); err != nil {
		return nil, err
	}
	if r.log == nil {
		r.log = logger.New("rule")
	}
	return r, nil
}

// FromDictionary wires a Rule to the exact and folded stores of d.
func FromDictionary(d *dictionary.Dictionary, cfg suggest.Config, opts ...Option) (*Rule, error) {
	if d == nil {
		return nil, errs.NewConfigError("dictionary", nil, "is required")
	}
	gen, err := suggest.NewGenerator(d.Folded, cfg)
	if err != nil {
		return nil, err
	}
	return New(d.Exact, gen, append([]Option{WithMaxResults(cfg.MaxResults)}, opts...)...)
}

func (r *Rule) ID() string {
	return RuleID
}

func (r *Rule) Category() Category {
	return r.category
}

func (r *Rule) Description() string {
	return description
}

// MaxResults is the suggestion cap applied to every finding.
func (r *Rule) MaxResults() int {
	return r.maxResults
}

// IsKnown reports whether token passes the rule.
func (r *Rule) IsKnown(token string, exceptions lookup.ExceptionSet) bool {
	return r.engine.IsKnown(token, exceptions)
}

// Check returns one Finding per unknown token, in token order. A span (From, To) is
// reported at most once. exceptions may be nil.
func (r *Rule) Check(tokens []Token, exceptions lookup.ExceptionSet) []Finding {
	findings := []Finding{}
	seen := make(map[[2]int]struct{})

	for _, tok := range tokens {
		span := [2]int{tok.From, tok.To}
		if _, dup := seen[span]; dup {
			continue
		}
		if r.engine.IsKnown(tok.Text, exceptions) {
			continue
		}
		seen[span] = struct{}{}

		findings = append(findings, Finding{
			From:         tok.From,
			To:           tok.To,
			MatchedText:  tok.Text,
			RuleID:       RuleID,
			Category:     r.category,
			Message:      r.message,
			ShortMessage: r.shortMessage,
			Suggestions:  r.suggestions(tok, r.maxResults),
		})
	}
	return findings
}

// Suggest returns corrections for a single word whether or not it is known. limit <= 0
// means the rule's own cap.
func (r *Rule) Suggest(word string, limit int) []string {
	if limit <= 0 {
		limit = r.maxResults
	}
	n := len([]rune(word))
	return r.suggestions(Token{Text: word, From: 0, To: n}, limit)
}

func (r *Rule) suggestions(tok Token, limit int) []string {
	found, err := r.suggester.Suggest(tok.Text, limit)
	if err != nil {
		r.log.Debugf("No suggestions for %q: %v", tok.Text, err)
		return []string{}
	}
	words := suggest.Words(found)
	if r.reranker == nil {
		return words
	}

	reranked := r.reranker.Rerank(tok, slices.Clone(words))
	filter := utils.NewSuggestionFilter(tok.Text)
	out := make([]string, 0, min(len(reranked), limit))
	for _, w := range reranked {
		if len(out) == limit {
			break
		}
		if w != "" && filter.ShouldInclude(w) {
			out = append(out, w)
		}
	}
	return out
}
