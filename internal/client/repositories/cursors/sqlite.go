package cursors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov88/petkeeper/internal/dbx"
)

// SQLiteRepository implements Repository over the cursors table, which is
// kept separate from record data so either can be wiped independently.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the persisted token for zoneKey, or nil when absent.
func (r *SQLiteRepository) Get(ctx context.Context, zoneKey string) ([]byte, error) {
	var token []byte
	err := r.db.QueryRowContext(ctx, `SELECT token FROM cursors WHERE zone_key=?`, zoneKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select cursor: %w", err)
	}
	return token, nil
}

// Set upserts the token for zoneKey.
func (r *SQLiteRepository) Set(ctx context.Context, zoneKey string, token []byte) error {
	query := `INSERT INTO cursors (zone_key, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(zone_key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, zoneKey, token, time.Now().UnixNano()); err != nil {
		return fmt.Errorf("failed to upsert cursor: %w", err)
	}
	return nil
}

// Clear removes the token for zoneKey. Clearing an absent cursor is not an
// error.
func (r *SQLiteRepository) Clear(ctx context.Context, zoneKey string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cursors WHERE zone_key=?`, zoneKey); err != nil {
		return fmt.Errorf("failed to clear cursor: %w", err)
	}
	return nil
}
