package api

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"tespell/internal/corrector"
)

// LoadFunc builds a fresh corrector, typically by loading the model from a
// store.
type LoadFunc func(ctx context.Context) (*corrector.SpellCorrector, error)

// Reload builds a new corrector with load and swaps it in. On failure the
// current corrector keeps serving.
func (s *Server) Reload(ctx context.Context, load LoadFunc) error {
	sc, err := load(ctx)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ModelReloads.WithLabelValues("error").Inc()
		}
		return fmt.Errorf("reloading model: %w", err)
	}
	s.Swap(sc)
	if s.metrics != nil {
		s.metrics.ModelReloads.WithLabelValues("ok").Inc()
	}
	s.logger.Info("model reloaded", "words", sc.Model().Len(), "total", sc.Model().Total())
	return nil
}

// WatchModelFile reloads whenever path is written or replaced, until ctx is
// cancelled. Events closer together than debounce trigger a single reload.
// The parent directory is watched so that atomic renames are seen.
func (s *Server) WatchModelFile(ctx context.Context, path string, debounce time.Duration, load LoadFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}
	s.logger.Info("watching model file", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("model watcher error", "error", err)
		case <-timer.C:
			if err := s.Reload(ctx, load); err != nil {
				s.logger.Error("model reload failed", "error", err)
			}
		}
	}
}
