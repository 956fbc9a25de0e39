// Package config loads tespell settings from a YAML file, a .env file and
// TESPELL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"tespell/internal/model"
	"tespell/internal/store"
	"tespell/pkg/options"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Store  store.Config `yaml:"store"`
	HTTP   HTTPConfig   `yaml:"http"`
	Log    LogConfig    `yaml:"log"`
	Corpus CorpusConfig `yaml:"corpus"`
}

type ModelConfig struct {
	MinOccurrences  int    `yaml:"min_occurrences"`
	TopK            int    `yaml:"top_k"`
	MaxEditDistance int    `yaml:"max_edit_distance"`
	FastLookup      bool   `yaml:"fast_lookup"` // only search one edit away
	Alphabet        string `yaml:"alphabet"`    // empty means the built-in Telugu charset
}

type HTTPConfig struct {
	Addr        string `yaml:"addr"`
	WatchModel  bool   `yaml:"watch_model"`
	MaxBodySize int64  `yaml:"max_body_size"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type CorpusConfig struct {
	ProgressEvery int `yaml:"progress_every"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Model: ModelConfig{
			MinOccurrences:  model.DefaultMinOccurrences,
			TopK:            options.DefaultOptions.TopK,
			MaxEditDistance: options.DefaultOptions.MaxEditDistance,
		},
		Store: store.Config{
			Kind: store.KindFile,
			Path: "Telugu_WordModel.json",
		},
		HTTP: HTTPConfig{Addr: ":8080", MaxBodySize: 1 << 20},
		Log:  LogConfig{Level: "info", Format: "text"},
		Corpus: CorpusConfig{
			ProgressEvery: 5000,
		},
	}
}

// Load reads path (optional; "" skips the file), then .env, then the
// environment, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	// A missing .env file is not an error.
	_ = godotenv.Load()
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Model.MinOccurrences = getEnvInt("TESPELL_MIN_OCCURRENCES", c.Model.MinOccurrences)
	c.Model.TopK = getEnvInt("TESPELL_TOP_K", c.Model.TopK)
	c.Model.MaxEditDistance = getEnvInt("TESPELL_MAX_EDIT_DISTANCE", c.Model.MaxEditDistance)
	c.Model.FastLookup = getEnvBool("TESPELL_FAST_LOOKUP", c.Model.FastLookup)
	c.Model.Alphabet = getenv("TESPELL_ALPHABET", c.Model.Alphabet)

	c.Store.Kind = getenv("TESPELL_STORE", c.Store.Kind)
	c.Store.Path = getenv("TESPELL_MODEL_PATH", c.Store.Path)
	c.Store.RedisAddr = getenv("REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getenv("REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("REDIS_DB", c.Store.RedisDB)
	c.Store.RedisPrefix = getenv("TESPELL_REDIS_PREFIX", c.Store.RedisPrefix)
	c.Store.PostgresDSN = getenv("TESPELL_POSTGRES_DSN", c.Store.PostgresDSN)
	c.Store.PostgresTable = getenv("TESPELL_POSTGRES_TABLE", c.Store.PostgresTable)

	c.HTTP.Addr = getenv("HTTP_ADDR", c.HTTP.Addr)
	c.HTTP.WatchModel = getEnvBool("TESPELL_WATCH_MODEL", c.HTTP.WatchModel)

	c.Log.Level = getenv("TESPELL_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getenv("TESPELL_LOG_FORMAT", c.Log.Format)

	c.Corpus.ProgressEvery = getEnvInt("TESPELL_PROGRESS_EVERY", c.Corpus.ProgressEvery)
}

// Validate checks ranges and backend specific requirements.
func (c Config) Validate() error {
	var errs []error
	if c.Model.MinOccurrences < 0 {
		errs = append(errs, fmt.Errorf("model.min_occurrences must be >= 0, got %d", c.Model.MinOccurrences))
	}
	if err := c.CorrectorOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Model.Alphabet != "" && strings.IndexFunc(c.Model.Alphabet, model.IsTelugu) < 0 {
		errs = append(errs, fmt.Errorf("model.alphabet %q has no Telugu characters", c.Model.Alphabet))
	}
	switch c.Store.Kind {
	case store.KindFile:
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store.path is required for the file store"))
		}
	case store.KindRedis:
	case store.KindPostgres:
		if c.Store.PostgresDSN == "" {
			errs = append(errs, errors.New("store.postgres_dsn is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind %q is not one of file, redis, postgres", c.Store.Kind))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not text or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// CorrectorOptions converts the model section to corrector options.
// fast_lookup overrides max_edit_distance.
func (c Config) CorrectorOptions() options.CorrectorOptions {
	opts := []options.Options{
		options.WithTopK(c.Model.TopK),
		options.WithMaxEditDistance(c.Model.MaxEditDistance),
		options.WithAlphabet(c.Model.Alphabet),
	}
	if c.Model.FastLookup {
		opts = append(opts, options.WithFastLookup())
	}
	return options.Resolve(opts...)
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if i, err := strconv.Atoi(v); err == nil {
		return i
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}
