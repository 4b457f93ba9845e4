package records

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE records (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL DEFAULT '',
  species TEXT NOT NULL DEFAULT '',
  breed TEXT NOT NULL DEFAULT '',
  birth_date TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT '',
  cloud_record_name TEXT NOT NULL DEFAULT '',
  cloud_share_record_name TEXT NOT NULL DEFAULT '',
  cloud_enabled INTEGER NOT NULL DEFAULT 0,
  sharing_enabled INTEGER NOT NULL DEFAULT 0,
  updated_at INTEGER NOT NULL DEFAULT 0,
  last_sync_at INTEGER NOT NULL DEFAULT 0,
  last_sync_error TEXT NOT NULL DEFAULT '',
  sync_log TEXT NOT NULL DEFAULT '[]'
);
`)
	require.NoError(t, err)

	return db
}

func sampleRecord() *models.Record {
	return &models.Record{
		ID:              "u1",
		Name:            "Barsik",
		Species:         "cat",
		Breed:           "siberian",
		BirthDate:       "2019-04-01",
		Notes:           "likes boxes",
		CloudRecordName: "rec-u1",
		CloudEnabled:    true,
		UpdatedAt:       time.Unix(0, 100).UTC(),
		SyncLog:         []string{"created"},
	}
}

func TestInsertAndFetchByUUID_RoundTrip(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	want := sampleRecord()
	require.NoError(t, r.Insert(ctx, want))

	got, err := r.FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestInsert_AssignsUUID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	rec := sampleRecord()
	rec.ID = ""
	rec.CloudRecordName = ""
	require.NoError(t, r.Insert(ctx, rec))
	require.NotEmpty(t, rec.ID)

	got, err := r.FetchByUUID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
}

func TestFetchByUUID_NotFound(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	_, err := r.FetchByUUID(context.Background(), "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestFetchByCloudRecordName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, r.Insert(ctx, rec))

	got, err := r.FetchByCloudRecordName(ctx, "rec-u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = r.FetchByCloudRecordName(ctx, "rec-unknown")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUpdate_OverwritesFields(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	rec := sampleRecord()
	require.NoError(t, r.Insert(ctx, rec))

	rec.Name = "Murzik"
	rec.SharingEnabled = true
	rec.CloudShareRecordName = "share-1"
	rec.UpdatedAt = time.Unix(0, 200).UTC()
	rec.LastSyncAt = time.Unix(0, 250).UTC()
	rec.AppendSyncLog("merged")
	require.NoError(t, r.Update(ctx, rec))

	got, err := r.FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Murzik", got.Name)
	assert.True(t, got.SharingEnabled)
	assert.Equal(t, "share-1", got.CloudShareRecordName)
	assert.Equal(t, time.Unix(0, 200).UTC(), got.UpdatedAt)
	assert.Equal(t, time.Unix(0, 250).UTC(), got.LastSyncAt)
	assert.Equal(t, []string{"created", "merged"}, got.SyncLog)
}

func TestUpdate_MissingRecord(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)

	err := r.Update(context.Background(), sampleRecord())
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDelete_IsIdempotent(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, sampleRecord()))
	require.NoError(t, r.Delete(ctx, "u1"))
	require.NoError(t, r.Delete(ctx, "u1"), "deleting an absent record must not fail")

	_, err := r.FetchByUUID(ctx, "u1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetAll_OrderedByName(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	a := sampleRecord()
	a.ID = "u2"
	a.Name = "Zoya"
	a.CloudRecordName = "rec-u2"
	b := sampleRecord()

	require.NoError(t, r.Insert(ctx, a))
	require.NoError(t, r.Insert(ctx, b))

	all, err := r.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Barsik", all[0].Name)
	assert.Equal(t, "Zoya", all[1].Name)
}
