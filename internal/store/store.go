// Package store persists frequency models. Every backend round-trips a
// model exactly: same words, same counts.
package store

import (
	"context"
	"errors"
	"fmt"

	"tespell/internal/model"
)

var (
	// ErrMalformedModel is returned by Load when the persisted data cannot be
	// turned into a valid model.
	ErrMalformedModel = errors.New("store: malformed model")

	// ErrNotFound is returned by Load when nothing has been saved yet.
	ErrNotFound = errors.New("store: model not found")

	// ErrUnknownKind is returned by Open for an unsupported backend name.
	ErrUnknownKind = errors.New("store: unknown kind")
)

// Store saves and loads a whole model. Save replaces any previously stored
// model; models are never updated in place.
type Store interface {
	Save(ctx context.Context, m *model.Model) error
	Load(ctx context.Context) (*model.Model, error)
	Close() error
}

// Backend names accepted by Open.
const (
	KindFile     = "file"
	KindRedis    = "redis"
	KindPostgres = "postgres"
)

// Config selects and configures a backend.
type Config struct {
	Kind string `yaml:"kind"`

	Path string `yaml:"path"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisPrefix   string `yaml:"redis_prefix"`

	PostgresDSN   string `yaml:"postgres_dsn"`
	PostgresTable string `yaml:"postgres_table"`
}

// Open returns the backend named by cfg.Kind.
func Open(cfg Config) (Store, error) {
	switch cfg.Kind {
	case "", KindFile:
		return NewFileStore(cfg.Path), nil
	case KindRedis:
		return NewRedisStore(newRedisClient(cfg), cfg.RedisPrefix), nil
	case KindPostgres:
		return OpenPostgresStore(cfg.PostgresDSN, cfg.PostgresTable)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, cfg.Kind)
	}
}

// decode validates loaded counts as a model.
func decode(counts map[string]int64, threshold int) (*model.Model, error) {
	m, err := model.New(counts, threshold)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
	}
	return m, nil
}
