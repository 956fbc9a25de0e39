package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tespell/internal/config"
	"tespell/internal/store"
)

func writeCorpus(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for range 3 {
		b.WriteString("నాకు చదవడం ఇష్టం.\n")
	}
	b.WriteString("నాకు వంట\n")
	path := filepath.Join(t.TempDir(), "corpus.txt")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}

func testConfig(t *testing.T, minOccurrences int) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Model.MinOccurrences = minOccurrences
	cfg.Store.Path = filepath.Join(t.TempDir(), "model.json")
	cfg.HTTP.Addr = "127.0.0.1:0"
	return cfg
}

func TestBuildModelAndLoad(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, 2)
	st := store.NewFileStore(cfg.Store.Path)

	m, stats, err := BuildModel(ctx, writeCorpus(t), st, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Segments)
	assert.Equal(t, int64(11), stats.Tokens)
	assert.Equal(t, 4, stats.UniqueTokens)
	assert.Equal(t, 3, stats.RetainedTokens)

	c, ok := m.Count("నాకు")
	assert.True(t, ok)
	assert.Equal(t, int64(4), c)
	assert.False(t, m.Contains("వంట"))

	sc, err := LoadCorrector(ctx, st, cfg)
	require.NoError(t, err)
	assert.Equal(t, m.Counts(), sc.Model().Counts())
	assert.Equal(t, cfg.Model.TopK, sc.TopK())
	assert.Equal(t, "ఇష్టం", sc.Correction("ఇస్టం"))
}

func TestBuildModelErrors(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, 0)
	st := store.NewFileStore(cfg.Store.Path)

	_, _, err := BuildModel(ctx, filepath.Join(t.TempDir(), "missing.txt"), st, cfg, nil)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = BuildModel(cancelled, writeCorpus(t), st, cfg, nil)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = LoadCorrector(ctx, st, cfg)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServe(t *testing.T) {
	cfg := testConfig(t, 0)
	cfg.HTTP.WatchModel = true
	_, _, err := BuildModel(context.Background(), writeCorpus(t), store.NewFileStore(cfg.Store.Path), cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.NoError(t, Serve(ctx, cfg, nil))
}

func TestServeWithoutModel(t *testing.T) {
	cfg := testConfig(t, 0)
	err := Serve(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
