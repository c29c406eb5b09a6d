// Package sqlite implements the roller history store on sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"time"

	apperrors "github.com/louisbranch/dicelang/internal/errors"
	"github.com/louisbranch/dicelang/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/dicelang/internal/services/roller/storage"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// Store is a sqlite-backed roll history store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite",
		path+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "open roll history db", err)
	}

	if err := sqlitemigrate.Apply(context.Background(), db, migrationsFS, "migrations"); err != nil {
		_ = db.Close()
		return nil, apperrors.Wrap(apperrors.CodeStorage, "migrate roll history db", err)
	}

	return &Store{db: db}, nil
}

// SaveRoll stores a record and returns its assigned ID.
func (s *Store) SaveRoll(ctx context.Context, record storage.RollRecord) (int64, error) {
	createdAt := record.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx, `
INSERT INTO rolls (expression, rendered, total, created_at)
VALUES (?, ?, ?, ?)`,
		record.Expression, record.Rendered, record.Total, createdAt.UTC().UnixMilli())
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeStorage, "save roll", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperrors.Wrap(apperrors.CodeStorage, "read roll id", err)
	}
	return id, nil
}

// ListRecent returns the newest records first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]storage.RollRecord, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT id, expression, rendered, total, created_at
FROM rolls
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "list rolls", err)
	}
	defer rows.Close()

	var records []storage.RollRecord
	for rows.Next() {
		var record storage.RollRecord
		var createdAt int64
		if err := rows.Scan(&record.ID, &record.Expression, &record.Rendered,
			&record.Total, &createdAt); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeStorage, "scan roll", err)
		}
		record.CreatedAt = time.UnixMilli(createdAt).UTC()
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStorage, "iterate rolls", err)
	}
	return records, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
