package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tespell/internal/app"
	"tespell/internal/store"
)

func (c *cli) buildCmd() *cobra.Command {
	var (
		corpusPath     string
		minOccurrences int
		top            int
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a model from a corpus",
		Long: `Counts every Telugu word of a plain text corpus or a MediaWiki XML dump
(.xml or .xml.bz2) and saves the words seen more than --min-occurrences times.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-occurrences") {
				c.cfg.Model.MinOccurrences = minOccurrences
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}
			st, err := store.Open(c.cfg.Store)
			if err != nil {
				return err
			}
			defer st.Close()

			m, stats, err := app.BuildModel(cmd.Context(), corpusPath, st, c.cfg, c.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d segments, %d tokens, %d unique words, %d kept (count > %d)\n",
				stats.Segments, stats.Tokens, stats.UniqueTokens, m.Len(), stats.MinOccurrences)
			if top > 0 {
				for i, e := range m.Top(top) {
					fmt.Fprintf(cmd.OutOrStdout(), "%3d. %s %d\n", i+1, e.Word, e.Count)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file (plain text, .xml or .xml.bz2 dump)")
	cmd.Flags().IntVar(&minOccurrences, "min-occurrences", 0, "drop words seen this many times or fewer (default from config)")
	cmd.Flags().IntVar(&top, "top", 0, "print the N most frequent words")
	cmd.MarkFlagRequired("corpus")
	return cmd
}
