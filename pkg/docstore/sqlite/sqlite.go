// Package sqlite provides a SQLite-backed document store. Records are
// stored one JSON payload per row in a collection-scoped table;
// filtering happens in Go through the shared docstore matcher so all
// drivers agree on filter semantics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spoolworks/spool/pkg/docstore"
)

// collectionPattern restricts collection names to identifier-safe
// characters, since the name becomes part of the table name.
var collectionPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store implements docstore.Store on a SQLite database file.
type Store struct {
	db    *sql.DB
	table string
}

// NewStore opens (or creates) a SQLite-backed store for one
// collection. The dbPath can be a file path or ":memory:" for an
// in-memory database. Construction fails fast on a missing path or an
// invalid collection name.
func NewStore(dbPath, collection string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("sqlite: database path is required")
	}
	if !collectionPattern.MatchString(collection) {
		return nil, fmt.Errorf("sqlite: invalid collection name %q", collection)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	table := "records_" + collection
	schema := fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (id INTEGER PRIMARY KEY AUTOINCREMENT, payload TEXT NOT NULL)`,
		table,
	)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, table: table}, nil
}

// Insert appends records to the collection.
func (s *Store) Insert(ctx context.Context, records ...docstore.Record) error {
	for _, r := range records {
		if r == nil {
			return docstore.ErrNilRecord
		}

		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}

		query := fmt.Sprintf(`INSERT INTO %q (payload) VALUES (?)`, s.table)
		if _, err := s.db.ExecContext(ctx, query, string(payload)); err != nil {
			return fmt.Errorf("inserting record: %w", err)
		}
	}
	return nil
}

// Count returns the number of records matching the filter.
func (s *Store) Count(ctx context.Context, filter docstore.Filter) (int64, error) {
	if len(filter) == 0 {
		var n int64
		query := fmt.Sprintf(`SELECT COUNT(*) FROM %q`, s.table)
		if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return 0, fmt.Errorf("counting records: %w", err)
		}
		return n, nil
	}

	it, err := s.Iterate(ctx, filter, nil)
	if err != nil {
		return 0, err
	}

	var n int64
	for {
		r, err := it.Next()
		if err != nil {
			return 0, err
		}
		if r == nil {
			return n, nil
		}
		n++
	}
}

// Iterate returns a lazy iterator backed by a database cursor, in
// insertion order. The cursor is released at exhaustion or on the
// first error; an abandoned iterator pins a pooled connection until
// its Close.
func (s *Store) Iterate(ctx context.Context, filter docstore.Filter, projection []docstore.FieldPath) (*docstore.Iterator, error) {
	query := fmt.Sprintf(`SELECT payload FROM %q ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}

	return docstore.NewClosingIterator(func() (docstore.Record, error) {
		for rows.Next() {
			var payload string
			if err := rows.Scan(&payload); err != nil {
				return nil, fmt.Errorf("scanning record: %w", err)
			}

			var r docstore.Record
			if err := json.Unmarshal([]byte(payload), &r); err != nil {
				return nil, fmt.Errorf("decoding record: %w", err)
			}

			if !filter.Matches(r) {
				continue
			}
			return docstore.Project(r, projection), nil
		}

		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterating records: %w", err)
		}
		return nil, nil
	}, rows.Close), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
