package consentlog

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/nexo/internal/client/models"
	"github.com/dmitrijs2005/nexo/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append inserts e and sets e.ID. A zero CreatedAt is replaced with now.
func (r *SQLiteRepository) Append(ctx context.Context, e *models.ConsentLogEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO consent_log (analytics, version, source, created_at) VALUES (?, ?, ?, ?)`,
		e.Analytics, e.Version, e.Source, e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to append consent log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read consent log id: %w", err)
	}
	e.ID = id
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]models.ConsentLogEntry, error) {
	query := `SELECT id, analytics, version, source, created_at FROM consent_log ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select consent log: %w", err)
	}
	defer rows.Close()

	var result []models.ConsentLogEntry
	for rows.Next() {
		var (
			item    models.ConsentLogEntry
			created string
		)
		if err := rows.Scan(&item.ID, &item.Analytics, &item.Version, &item.Source, &created); err != nil {
			return nil, fmt.Errorf("failed to scan consent log row: %w", err)
		}
		item.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("bad consent log timestamp %q: %w", created, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consent log rows: %w", err)
	}
	return result, nil
}

var _ Repository = (*SQLiteRepository)(nil)
