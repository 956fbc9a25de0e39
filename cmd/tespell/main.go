// Command tespell builds Telugu word frequency models and checks text
// against them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tespell/internal/app"
	"tespell/internal/config"
	"tespell/internal/corrector"
	"tespell/internal/logging"
	"tespell/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cli holds the state shared by the subcommands once the config is loaded.
type cli struct {
	configPath string
	modelPath  string
	cfg        config.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "tespell",
		Short:         "Telugu spell checker",
		Long:          `Builds a word frequency model from a Telugu corpus and suggests corrections for unknown words.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.load(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "YAML config file")
	root.PersistentFlags().StringVarP(&c.modelPath, "model", "m", "", "model file, implies the file store")

	root.AddCommand(c.buildCmd())
	root.AddCommand(c.checkCmd())
	root.AddCommand(c.correctCmd())
	root.AddCommand(c.serveCmd())
	return root
}

func (c *cli) load(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.modelPath != "" {
		cfg.Store.Kind = store.KindFile
		cfg.Store.Path = c.modelPath
	}
	c.cfg = cfg
	c.logger = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return nil
}

// openCorrector loads the configured model.
func (c *cli) openCorrector(ctx context.Context) (*corrector.SpellCorrector, error) {
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}
	st, err := store.Open(c.cfg.Store)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	return app.LoadCorrector(ctx, st, c.cfg)
}
