// Package sqlite persists the grade state in a local SQLite database.
// The database lives in the per-user config directory and holds a single
// table keyed by course sigle. One daemon instance per database is
// assumed; running two against the same path is unsupported.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/uqgrd/uqgrd/internal/domain/grade"
	"github.com/uqgrd/uqgrd/internal/domain/shared"
)

const schema = `
CREATE TABLE IF NOT EXISTS grades (
    sigle      TEXT PRIMARY KEY,
    total      REAL,
    letter     TEXT,
    updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// StateStore implements grade.StateRepository on top of SQLite.
type StateStore struct {
	db *sql.DB
}

// Open opens (creating if needed) the state database at the given path.
func Open(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping state database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate state database: %w", err)
	}

	return &StateStore{db: db}, nil
}

// Close closes the database connection.
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Load returns the full grade state. A fresh database yields an empty,
// non-nil state: a cold start is normal, not an error.
func (s *StateStore) Load(ctx context.Context) (grade.State, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sigle, total, letter FROM grades`)
	if err != nil {
		return nil, shared.WrapError("state", "Load", shared.ErrStateLoad, "query grades", err)
	}
	defer rows.Close()

	state := make(grade.State)
	for rows.Next() {
		var (
			sigle  string
			total  sql.NullFloat64
			letter sql.NullString
		)
		if err := rows.Scan(&sigle, &total, &letter); err != nil {
			return nil, shared.WrapError("state", "Load", shared.ErrStateLoad, "scan grade row", err)
		}

		var snap grade.Snapshot
		if total.Valid {
			v := total.Float64
			snap.Total = &v
		}
		if letter.Valid {
			v := letter.String
			snap.Letter = &v
		}
		state[sigle] = snap
	}

	if err := rows.Err(); err != nil {
		return nil, shared.WrapError("state", "Load", shared.ErrStateLoad, "iterate grade rows", err)
	}
	return state, nil
}

// Save replaces the stored state with the given one.
func (s *StateStore) Save(ctx context.Context, state grade.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return shared.WrapError("state", "Save", shared.ErrStateSave, "begin save", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM grades`); err != nil {
		return shared.WrapError("state", "Save", shared.ErrStateSave, "clear grades", err)
	}

	for sigle, snap := range state {
		var (
			total  sql.NullFloat64
			letter sql.NullString
		)
		if snap.Total != nil {
			total = sql.NullFloat64{Float64: *snap.Total, Valid: true}
		}
		if snap.Letter != nil {
			letter = sql.NullString{String: *snap.Letter, Valid: true}
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO grades (sigle, total, letter) VALUES (?, ?, ?)`,
			sigle, total, letter,
		); err != nil {
			return shared.WrapError("state", "Save", shared.ErrStateSave, "insert grade "+sigle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return shared.WrapError("state", "Save", shared.ErrStateSave, "commit save", err)
	}
	return nil
}
