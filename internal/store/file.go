package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/edsrzf/mmap-go"

	"tespell/internal/model"
)

// FileStore keeps a model as a JSON object mapping each word to its count,
// indented with four spaces and written without escaping non-ASCII text.
// The threshold is not part of the format; loaded models report 0.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path is the model file location.
func (s *FileStore) Path() string { return s.path }

// Save writes the model to a temporary file in the same directory and
// renames it over the target, so readers never observe a partial file.
func (s *FileStore) Save(ctx context.Context, m *model.Model) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(m)
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp model file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing model: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing model: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing model: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing model: %w", err)
	}
	return nil
}

// Load maps the file into memory and decodes it.
func (s *FileStore) Load(ctx context.Context) (*model.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening model: %w", err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat model: %w", err)
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedModel, s.path)
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping model: %w", err)
	}
	defer data.Unmap()

	return Unmarshal(data)
}

func (s *FileStore) Close() error { return nil }

// Marshal encodes m in the file format.
func Marshal(m *model.Model) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(m.Counts()); err != nil {
		return nil, fmt.Errorf("encoding model: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes the file format. Counts must be positive integers.
func Unmarshal(data []byte) (*model.Model, error) {
	var counts map[string]int64
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedModel, err)
	}
	if counts == nil {
		return nil, fmt.Errorf("%w: not a JSON object", ErrMalformedModel)
	}
	return decode(counts, 0)
}
