package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/wordcheck/internal/logger"
	"github.com/bastiangx/wordcheck/internal/tokenize"
	"github.com/bastiangx/wordcheck/pkg/errs"
	"github.com/bastiangx/wordcheck/pkg/exceptions"
	"github.com/bastiangx/wordcheck/pkg/lookup"
	"github.com/bastiangx/wordcheck/pkg/metrics"
	"github.com/bastiangx/wordcheck/pkg/rule"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// ExceptionStore is the session exception list. *exceptions.Persistent implements it.
type ExceptionStore interface {
	lookup.ExceptionSet
	Add(ctx context.Context, words ...string) error
	Remove(ctx context.Context, words ...string) error
	Words() []string
	Len() int
}

var _ ExceptionStore = (*exceptions.Persistent)(nil)

// Config limits what a single request may ask for. Zero means unlimited for MaxBlocks and
// MaxBlockLen, and one worker for Workers.
type Config struct {
	MaxBlocks   int
	MaxBlockLen int
	Workers     int
}

// Validate returns a *errs.ConfigError for the first negative limit.
func (c Config) Validate() error {
	if err := errs.NonNegative("server.max_blocks", c.MaxBlocks); err != nil {
		return err
	}
	if err := errs.NonNegative("server.max_block_len", c.MaxBlockLen); err != nil {
		return err
	}
	return errs.NonNegative("server.workers", c.Workers)
}

type Option func(*Server)

// WithMetrics records every request in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithStats adds the counters of fn to the stats action, e.g. the suggestion cache.
func WithStats(fn func() map[string]int) Option {
	return func(s *Server) { s.extraStats = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.log = l }
}

// Server handles the IPC for spelling checks.
type Server struct {
	rule       *rule.Rule
	exceptions ExceptionStore
	cfg        Config
	metrics    *metrics.Metrics
	extraStats func() map[string]int
	log        *log.Logger

	requests atomic.Int64
	failures atomic.Int64
}

// NewServer creates a checking server. store may be nil, in which case exceptions only
// live for the process.
func NewServer(r *rule.Rule, store ExceptionStore, cfg Config, opts ...Option) (*Server, error) {
	if r == nil {
		return nil, errs.NewConfigError("rule", nil, "is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if store == nil {
		store = exceptions.Ephemeral()
	}

	s := &Server{rule: r, exceptions: store, cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.New("server")
	}
	s.metrics.SetExceptions(store.Len())
	return s, nil
}

// Start serves stdin/stdout until stdin is closed.
func (s *Server) Start(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads requests from in and writes responses to out until in is exhausted or ctx is
// done. A ready message is written first.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.log.Debug("Starting server")
	dec := msgpack.NewDecoder(bufio.NewReader(in))
	w := bufio.NewWriter(out)
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)

	send := func(resp *Response) error {
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		return w.Flush()
	}

	if err := send(&Response{Status: StatusReady}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var req Request
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed, stopping server")
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			_ = send(&Response{Status: StatusError, Error: "invalid msgpack request"})
			return fmt.Errorf("decode request: %w", err)
		}
		if err := send(s.Handle(ctx, &req)); err != nil {
			return err
		}
	}
}

// Handle answers one request. It never fails: errors are reported in the response.
func (s *Server) Handle(ctx context.Context, req *Request) *Response {
	start := time.Now()
	s.requests.Add(1)

	resp := &Response{ID: req.ID, Status: StatusOK}
	var err error
	switch req.Action {
	case ActionCheck:
		resp.Findings, err = s.check(ctx, req)
	case ActionSuggest:
		resp.Suggestions, err = s.suggest(req)
	case ActionAddException:
		resp.Words, err = s.updateExceptions(ctx, req, s.exceptions.Add)
	case ActionRemoveException:
		resp.Words, err = s.updateExceptions(ctx, req, s.exceptions.Remove)
	case ActionListExceptions:
		resp.Words = s.exceptions.Words()
	case ActionStats:
		resp.Stats = s.Stats()
	case ActionHealth:
	default:
		err = fmt.Errorf("unknown action %q", req.Action)
	}

	if err != nil {
		s.failures.Add(1)
		s.log.Debugf("Request %s (%s) failed: %v", req.ID, req.Action, err)
		resp = &Response{ID: req.ID, Status: StatusError, Error: err.Error()}
	}
	took := time.Since(start)
	resp.TimeTaken = took.Microseconds()
	s.metrics.ObserveRequest(req.Action, resp.Status, took)
	return resp
}

// check runs the rule over every block concurrently and merges the findings in block order.
func (s *Server) check(ctx context.Context, req *Request) ([]BlockFinding, error) {
	if s.cfg.MaxBlocks > 0 && len(req.Blocks) > s.cfg.MaxBlocks {
		return nil, fmt.Errorf("too many blocks: %d > %d", len(req.Blocks), s.cfg.MaxBlocks)
	}
	for _, b := range req.Blocks {
		n := utf8.RuneCountInString(b.Text)
		if s.cfg.MaxBlockLen > 0 && n > s.cfg.MaxBlockLen {
			return nil, fmt.Errorf("block %q too long: %d > %d characters", b.ID, n, s.cfg.MaxBlockLen)
		}
		if b.From < 0 || (b.To != 0 && b.To < b.From) {
			return nil, fmt.Errorf("block %q has invalid range [%d, %d)", b.ID, b.From, b.To)
		}
	}

	var known lookup.ExceptionSet = s.exceptions
	if len(req.Exceptions) > 0 {
		known = exceptions.Overlay(s.exceptions, exceptions.New(req.Exceptions...))
	}

	results := make([][]rule.Finding, len(req.Blocks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, b := range req.Blocks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens := tokenize.Split(b.Text, b.From)
			results[i] = s.rule.Check(tokens, known)
			s.metrics.ObserveCheck(len(tokens), len(results[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []BlockFinding
	for i, findings := range results {
		for _, f := range findings {
			out = append(out, BlockFinding{BlockID: req.Blocks[i].ID, Finding: f})
		}
	}
	return out, nil
}

func (s *Server) suggest(req *Request) ([]string, error) {
	if req.Word == "" {
		return nil, errors.New("missing 'word'")
	}
	if err := errs.NonNegative("limit", req.Limit); err != nil {
		return nil, err
	}
	return s.rule.Suggest(req.Word, req.Limit), nil
}

// updateExceptions applies op to the request's words and returns the resulting list.
func (s *Server) updateExceptions(ctx context.Context, req *Request, op func(context.Context, ...string) error) ([]string, error) {
	words := req.Exceptions
	if req.Word != "" {
		words = append([]string{req.Word}, words...)
	}
	if len(words) == 0 {
		return nil, errors.New("missing 'word' or 'exceptions'")
	}
	if err := op(ctx, words...); err != nil {
		return nil, err
	}
	s.metrics.SetExceptions(s.exceptions.Len())
	return s.exceptions.Words(), nil
}

// Stats returns request counters, the exception count and any extra counters.
func (s *Server) Stats() map[string]int {
	stats := map[string]int{
		"requests":   int(s.requests.Load()),
		"failures":   int(s.failures.Load()),
		"exceptions": s.exceptions.Len(),
		"workers":    s.cfg.Workers,
	}
	if s.extraStats != nil {
		for k, v := range s.extraStats() {
			stats[k] = v
		}
	}
	return stats
}
