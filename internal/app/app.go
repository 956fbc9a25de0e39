// Package app wires configuration, storage, the corrector and the HTTP
// server together for the tespell commands.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"tespell/internal/api"
	"tespell/internal/config"
	"tespell/internal/corpus"
	"tespell/internal/corrector"
	"tespell/internal/logging"
	"tespell/internal/metrics"
	"tespell/internal/model"
	"tespell/internal/store"
	"tespell/pkg/options"
)

// WatchDebounce groups bursts of file events into one reload.
const WatchDebounce = 500 * time.Millisecond

// BuildModel counts the corpus at path, saves the model to st and returns
// it with the build statistics.
func BuildModel(ctx context.Context, path string, st store.Store, cfg config.Config, logger *slog.Logger) (*model.Model, model.BuildStats, error) {
	logger = logging.OrDiscard(logger)
	src, err := corpus.Open(path, logger)
	if err != nil {
		return nil, model.BuildStats{}, err
	}
	if cfg.Corpus.ProgressEvery > 0 {
		src.ProgressEvery = cfg.Corpus.ProgressEvery
	}

	b, err := model.NewBuilder(cfg.Model.MinOccurrences)
	if err != nil {
		return nil, model.BuildStats{}, err
	}
	logger.Info("building model", "corpus", path, "format", src.Format, "min_occurrences", cfg.Model.MinOccurrences)
	start := time.Now()
	for seg := range src.Segments() {
		if err := ctx.Err(); err != nil {
			return nil, b.Stats(), err
		}
		if err := b.Add(seg); err != nil {
			return nil, b.Stats(), err
		}
		if n := b.Stats().Segments; src.ProgressEvery > 0 && n%src.ProgressEvery == 0 {
			logger.Debug("counting", "segments", n, "unique", b.Unique())
		}
	}
	if err := src.Err(); err != nil {
		return nil, b.Stats(), err
	}
	m := b.Finalize()
	stats := b.Stats()
	logger.Info("model built",
		"segments", stats.Segments,
		"tokens", stats.Tokens,
		"unique", stats.UniqueTokens,
		"retained", stats.RetainedTokens,
		"pages", src.Pages(),
		"took", time.Since(start),
	)

	if err := st.Save(ctx, m); err != nil {
		return nil, stats, fmt.Errorf("saving model: %w", err)
	}
	return m, stats, nil
}

// LoadCorrector loads the model from st and builds a corrector with the
// model settings of cfg.
func LoadCorrector(ctx context.Context, st store.Store, cfg config.Config) (*corrector.SpellCorrector, error) {
	m, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading model: %w", err)
	}
	return corrector.NewSpellCorrector(m, options.WithOptions(cfg.CorrectorOptions()))
}

// Serve runs the HTTP API until ctx is cancelled or the server fails. With
// http.watch_model and the file store the model is reloaded whenever the
// file changes.
func Serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger = logging.OrDiscard(logger)
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	load := func(ctx context.Context) (*corrector.SpellCorrector, error) {
		return LoadCorrector(ctx, st, cfg)
	}
	sc, err := load(ctx)
	if err != nil {
		return err
	}
	logger.Info("model loaded", "store", cfg.Store.Kind, "words", sc.Model().Len(), "total", sc.Model().Total())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	srv := api.NewServer(sc,
		api.WithLogger(logger),
		api.WithMetrics(metrics.New(reg), reg),
		api.WithMaxBodySize(cfg.HTTP.MaxBodySize),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.ListenAndServe(gctx, cfg.HTTP.Addr) })
	if cfg.HTTP.WatchModel {
		if cfg.Store.Kind == store.KindFile || cfg.Store.Kind == "" {
			g.Go(func() error { return srv.WatchModelFile(gctx, cfg.Store.Path, WatchDebounce, load) })
		} else {
			logger.Warn("model watching is only supported for the file store", "store", cfg.Store.Kind)
		}
	}
	return g.Wait()
}
