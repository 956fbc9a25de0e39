package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tespell/internal/corrector"
)

func (c *cli) correctCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correct [text...]",
		Short: "Correct text interactively",
		Long: `For every unknown word with suggestions, shows the ranked suggestions and
asks which one to use. Without arguments, reads one text per line from stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.openCorrector(cmd.Context())
			if err != nil {
				return err
			}
			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			if len(args) > 0 {
				p.correct(sc, strings.Join(args, " "))
				return p.err
			}
			for {
				text, ok := p.readLine("Enter Telugu text (empty line to quit): ")
				if !ok || strings.TrimSpace(text) == "" {
					return p.err
				}
				p.correct(sc, text)
			}
		},
	}
}

// prompter asks the user to pick a suggestion for each unknown word. Choices
// and texts share one input stream.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
	eof bool
	err error
}

func newPrompter(r io.Reader, w io.Writer) *prompter {
	return &prompter{in: newLineScanner(r), out: w}
}

func (p *prompter) readLine(prompt string) (string, bool) {
	if p.eof {
		return "", false
	}
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		p.eof = true
		if err := p.in.Err(); err != nil {
			p.err = fmt.Errorf("reading input: %w", err)
		}
		fmt.Fprintln(p.out)
		return "", false
	}
	return p.in.Text(), true
}

// correct checks text, prompts for every unknown word that has
// suggestions and prints the result.
func (p *prompter) correct(sc *corrector.SpellCorrector, text string) string {
	tokens := sc.Check(text)
	final := corrector.Rewrite(text, tokens, p.choose)
	fmt.Fprintln(p.out, strings.Repeat("-", 50))
	fmt.Fprintf(p.out, "Original Input:  %s\n", text)
	fmt.Fprintf(p.out, "Final Result:    %s\n", final)
	fmt.Fprintln(p.out, strings.Repeat("-", 50))
	return final
}

// choose returns the selected suggestion, or "" to keep the token. Once
// input runs out every remaining token is kept.
func (p *prompter) choose(t corrector.TokenResult) string {
	if t.Known || len(t.Suggestions) == 0 {
		return ""
	}
	fmt.Fprintf(p.out, "\nSuggestions for '%s' (ranked):\n", t.Token)
	for i, s := range t.Suggestions {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, s.Term)
	}
	keep := len(t.Suggestions) + 1
	fmt.Fprintf(p.out, "  %d) Keep original word\n", keep)

	for {
		line, ok := p.readLine(fmt.Sprintf("Select an option (1-%d): ", keep))
		if !ok {
			return ""
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		switch {
		case err != nil:
			fmt.Fprintln(p.out, "Please enter a valid number.")
		case n >= 1 && n < keep:
			return t.Suggestions[n-1].Term
		case n == keep:
			return ""
		default:
			fmt.Fprintln(p.out, "Invalid selection. Please try again.")
		}
	}
}
