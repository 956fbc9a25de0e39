package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/spf13/cobra"

	"tespell/internal/corrector"
)

func (c *cli) checkCmd() *cobra.Command {
	var (
		all    bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "check [text...]",
		Short: "List unknown words and their suggestions",
		Long:  `Checks the given text, or every line of stdin when no text is given, and prints the ranked suggestions for each unknown word.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := c.openCorrector(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			texts, inputErr := inputTexts(cmd.InOrStdin(), args)
			for text := range texts {
				res := sc.CorrectText(text)
				if asJSON {
					if err := json.NewEncoder(out).Encode(res); err != nil {
						return err
					}
					continue
				}
				tokens := res.Misspelled()
				if all {
					tokens = res.Tokens
				}
				printTokens(out, tokens)
			}
			return inputErr()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "also list known words")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print one JSON object per text")
	return cmd
}

// maxLineSize bounds a single line of stdin input.
const maxLineSize = 16 * 1024 * 1024

func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return sc
}

// inputTexts yields the joined args, or every non-blank line of r when
// there are none. The returned func reports the read error that ended the
// sequence, if any.
func inputTexts(r io.Reader, args []string) (iter.Seq[string], func() error) {
	var err error
	seq := func(yield func(string) bool) {
		if len(args) > 0 {
			yield(strings.Join(args, " "))
			return
		}
		sc := newLineScanner(r)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				if !yield(line) {
					return
				}
			}
		}
		if e := sc.Err(); e != nil {
			err = fmt.Errorf("reading input: %w", e)
		}
	}
	return seq, func() error { return err }
}

func printTokens(w io.Writer, tokens []corrector.TokenResult) {
	for _, t := range tokens {
		switch {
		case t.Known:
			fmt.Fprintf(w, "%s: ok\n", t.Token)
		case t.Unresolved():
			fmt.Fprintf(w, "%s: no suggestions\n", t.Token)
		default:
			terms := make([]string, len(t.Suggestions))
			for i, s := range t.Suggestions {
				terms[i] = fmt.Sprintf("%s (%d)", s.Term, s.Frequency)
			}
			fmt.Fprintf(w, "%s: %s\n", t.Token, strings.Join(terms, ", "))
		}
	}
}
