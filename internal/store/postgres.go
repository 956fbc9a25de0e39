package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"tespell/internal/model"
)

const defaultPostgresTable = "word_frequencies"

// PostgresStore keeps a model in a two column table (word, count). Save
// replaces the table contents in one transaction using COPY. The threshold is
// not stored; loaded models report 0.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// OpenPostgresStore connects with dsn and checks the connection.
func OpenPostgresStore(dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return NewPostgresStore(db, table), nil
}

// NewPostgresStore uses an existing connection pool. An empty table name
// uses "word_frequencies".
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = defaultPostgresTable
	}
	return &PostgresStore{db: db, table: table}
}

// ident is the quoted table name used in every statement, so mixed case
// names are not folded to lower case.
func (s *PostgresStore) ident() string { return pq.QuoteIdentifier(s.table) }

func (s *PostgresStore) ensureTable(ctx context.Context, tx *sql.Tx) error {
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		word  TEXT PRIMARY KEY,
		count BIGINT NOT NULL CHECK (count > 0)
	)`, s.ident())
	_, err := tx.ExecContext(ctx, query)
	return err
}

// Save replaces the table contents with m.
func (s *PostgresStore) Save(ctx context.Context, m *model.Model) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.ensureTable(ctx, tx); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "TRUNCATE "+s.ident()); err != nil {
		return fmt.Errorf("truncating table: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.table, "word", "count"))
	if err != nil {
		return fmt.Errorf("preparing copy: %w", err)
	}
	for w, c := range m.All() {
		if _, err := stmt.ExecContext(ctx, w, c); err != nil {
			stmt.Close()
			return fmt.Errorf("copying %q: %w", w, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flushing copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("closing copy: %w", err)
	}
	return tx.Commit()
}

// Load reads every row into a model.
func (s *PostgresStore) Load(ctx context.Context) (*model.Model, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", s.ident()).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking table: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: table %s", ErrNotFound, s.table)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT word, count FROM %s", s.ident()))
	if err != nil {
		return nil, fmt.Errorf("querying counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var w string
		var c int64
		if err := rows.Scan(&w, &c); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		counts[w] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	return decode(counts, 0)
}

func (s *PostgresStore) Close() error { return s.db.Close() }
