// Package cli handles cmd line input for checking text interactively, mainly for DBG and testing.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordcheck/internal/tokenize"
	"github.com/bastiangx/wordcheck/pkg/rule"
	"github.com/bastiangx/wordcheck/pkg/server"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// InputHandler reads lines, checks them and prints the findings.
//
// Lines starting with a command character manage the session instead:
//
//	+word   add an exception
//	-word   remove an exception
//	?word   list suggestions for word
//	:list   show all exceptions
type InputHandler struct {
	rule       *rule.Rule
	exceptions server.ExceptionStore
	limit      int
	in         io.Reader
	out        io.Writer

	word    lipgloss.Style
	suggest lipgloss.Style
	dim     lipgloss.Style
}

// NewInputHandler handles initialization of the InputHandler. Styles follow the color
// support of out.
func NewInputHandler(r *rule.Rule, store server.ExceptionStore, limit int, in io.Reader, out io.Writer) *InputHandler {
	renderer := lipgloss.NewRenderer(out)
	return &InputHandler{
		rule:       r,
		exceptions: store,
		limit:      limit,
		in:         in,
		out:        out,
		word: renderer.NewStyle().Bold(true).Underline(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"}),
		suggest: renderer.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"}),
		dim: renderer.NewStyle().Faint(true),
	}
}

// Start runs the loop until the input is exhausted.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, "wordcheck CLI [BETA]")
	fmt.Fprintln(h.out, "type a sentence and press Enter to check it (+word, -word, ?word, :list; Ctrl+D to exit):")

	scanner := bufio.NewScanner(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(h.out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := h.handleInput(ctx, line); err != nil {
			log.Errorf("%v", err)
		}
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) error {
	switch {
	case line == ":list":
		words := h.exceptions.Words()
		if len(words) == 0 {
			fmt.Fprintln(h.out, h.dim.Render("no exceptions"))
			return nil
		}
		fmt.Fprintln(h.out, strings.Join(words, ", "))
		return nil
	case strings.HasPrefix(line, "+") && len(line) > 1:
		if err := h.exceptions.Add(ctx, line[1:]); err != nil {
			return err
		}
		fmt.Fprintf(h.out, "added %q (%d exceptions)\n", line[1:], h.exceptions.Len())
		return nil
	case strings.HasPrefix(line, "-") && len(line) > 1:
		if err := h.exceptions.Remove(ctx, line[1:]); err != nil {
			return err
		}
		fmt.Fprintf(h.out, "removed %q (%d exceptions)\n", line[1:], h.exceptions.Len())
		return nil
	case strings.HasPrefix(line, "?") && len(line) > 1:
		h.printSuggestions(line[1:], h.rule.Suggest(line[1:], h.limit))
		return nil
	}

	start := time.Now()
	tokens := tokenize.Split(line, 0)
	findings := h.rule.Check(tokens, h.exceptions)
	log.Debugf("Took [ %v ] for %d tokens", time.Since(start), len(tokens))

	if len(findings) == 0 {
		fmt.Fprintln(h.out, h.dim.Render("no spelling mistakes"))
		return nil
	}
	fmt.Fprintf(h.out, "Found %d possible mistakes:\n", len(findings))
	for i, f := range findings {
		fmt.Fprintf(h.out, "%2d. %s %s\n", i+1, h.word.Render(f.MatchedText), h.dim.Render(fmt.Sprintf("[%d:%d]", f.From, f.To)))
		h.printSuggestions("", f.Suggestions)
	}
	return nil
}

func (h *InputHandler) printSuggestions(word string, suggestions []string) {
	if len(suggestions) == 0 {
		fmt.Fprintln(h.out, h.dim.Render("    no suggestions"))
		return
	}
	if word != "" {
		fmt.Fprintf(h.out, "Suggestions for %q:\n", word)
	}
	rendered := make([]string, len(suggestions))
	for i, s := range suggestions {
		rendered[i] = h.suggest.Render(s)
	}
	fmt.Fprintf(h.out, "    -> %s\n", strings.Join(rendered, ", "))
}
