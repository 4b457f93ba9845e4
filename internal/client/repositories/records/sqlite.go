package records

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/dbx"
	"github.com/google/uuid"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, name, species, breed, birth_date, notes,
	cloud_record_name, cloud_share_record_name, cloud_enabled, sharing_enabled,
	updated_at, last_sync_at, last_sync_error, sync_log`

func scanRecord(row interface{ Scan(dest ...any) error }) (*models.Record, error) {
	var rec models.Record
	var cloudEnabled, sharingEnabled int
	var updatedAt, lastSyncAt int64
	var syncLog []byte

	err := row.Scan(&rec.ID, &rec.Name, &rec.Species, &rec.Breed, &rec.BirthDate, &rec.Notes,
		&rec.CloudRecordName, &rec.CloudShareRecordName, &cloudEnabled, &sharingEnabled,
		&updatedAt, &lastSyncAt, &rec.LastSyncError, &syncLog)
	if err != nil {
		return nil, err
	}

	rec.CloudEnabled = cloudEnabled != 0
	rec.SharingEnabled = sharingEnabled != 0
	rec.UpdatedAt = time.Unix(0, updatedAt).UTC()
	if lastSyncAt != 0 {
		rec.LastSyncAt = time.Unix(0, lastSyncAt).UTC()
	}
	if len(syncLog) > 0 {
		if err := json.Unmarshal(syncLog, &rec.SyncLog); err != nil {
			return nil, fmt.Errorf("failed to decode sync log: %w", err)
		}
	}
	return &rec, nil
}

func recordArgs(rec *models.Record) ([]any, error) {
	syncLog, err := json.Marshal(rec.SyncLog)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync log: %w", err)
	}
	var lastSyncAt int64
	if !rec.LastSyncAt.IsZero() {
		lastSyncAt = rec.LastSyncAt.UnixNano()
	}
	return []any{
		rec.ID, rec.Name, rec.Species, rec.Breed, rec.BirthDate, rec.Notes,
		rec.CloudRecordName, rec.CloudShareRecordName,
		boolToInt(rec.CloudEnabled), boolToInt(rec.SharingEnabled),
		rec.UpdatedAt.UnixNano(), lastSyncAt, rec.LastSyncError, string(syncLog),
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FetchByUUID returns the record with the given UUID.
func (r *SQLiteRepository) FetchByUUID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id=?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

// FetchByCloudRecordName returns the record whose remote identity matches name.
func (r *SQLiteRepository) FetchByCloudRecordName(ctx context.Context, name string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE cloud_record_name=?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	return rec, nil
}

// Insert adds a new record, assigning a fresh UUID when rec carries none.
func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	query := `INSERT INTO records (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Update overwrites an existing record by UUID.
func (r *SQLiteRepository) Update(ctx context.Context, rec *models.Record) error {
	args, err := recordArgs(rec)
	if err != nil {
		return err
	}
	// id goes last for the WHERE clause
	args = append(args[1:], rec.ID)
	query := `UPDATE records SET name=?, species=?, breed=?, birth_date=?, notes=?,
		cloud_record_name=?, cloud_share_record_name=?, cloud_enabled=?, sharing_enabled=?,
		updated_at=?, last_sync_at=?, last_sync_error=?, sync_log=?
		WHERE id=?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes a record by UUID. Absent records are ignored.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id=?`, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// GetAll lists all records ordered by name.
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
