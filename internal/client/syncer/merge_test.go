package syncer

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/client/repositories/records"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

const testSchema = `
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
CREATE TABLE cursors (
  zone_key TEXT PRIMARY KEY,
  token BLOB NOT NULL,
  updated_at INTEGER NOT NULL DEFAULT 0
);
`

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupMergeDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	return db
}

func privateZone() models.Zone { return models.Zone{Name: ZoneDefault, Owner: "u-me"} }

func remoteChange(uuid, name string, updatedAt int64) models.RemoteRecord {
	return models.RemoteRecord{
		RecordName: "rec-" + uuid,
		Zone:       privateZone(),
		Fields:     map[string]any{"uuid": uuid, "name": name},
		UpdatedAt:  time.Unix(0, updatedAt).UTC(),
	}
}

func seedLocal(t *testing.T, db *sql.DB, rec *models.Record) {
	t.Helper()
	require.NoError(t, records.NewSQLiteRepository(db).Insert(context.Background(), rec))
}

func TestApply_MaterializesUnknownUUID(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	report, err := e.Apply(ctx, []models.RemoteRecord{remoteChange("u1", "Rex", 100)}, nil, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, []string{"Rex"}, report.ImportedNames)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Rex", got.Name)
	assert.Equal(t, "rec-u1", got.CloudRecordName)
	assert.True(t, got.CloudEnabled, "a record arriving through the private partition is cloud-mirrored")
	assert.Equal(t, time.Unix(0, 100).UTC(), got.UpdatedAt)
	assert.False(t, got.LastSyncAt.IsZero())
	assert.NotEmpty(t, got.SyncLog)
}

func TestApply_StaleRemoteIsSkipped(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	seedLocal(t, db, &models.Record{ID: "u1", Name: "Local", UpdatedAt: time.Unix(0, 100).UTC()})

	report, err := e.Apply(ctx, []models.RemoteRecord{remoteChange("u1", "Stale", 50)}, nil, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, report.Updated)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Local", got.Name, "stale remote copy must not change any field")
	assert.Equal(t, time.Unix(0, 100).UTC(), got.UpdatedAt)
}

func TestApply_NewerRemoteOverwrites(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	seedLocal(t, db, &models.Record{ID: "u1", Name: "Local", UpdatedAt: time.Unix(0, 100).UTC()})

	report, err := e.Apply(ctx, []models.RemoteRecord{remoteChange("u1", "Newer", 150)}, nil, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Newer", got.Name)
	assert.Equal(t, time.Unix(0, 150).UTC(), got.UpdatedAt,
		"merged timestamp must be exactly the remote value, never now")
}

func TestApply_TombstoneWinsOverNewerLocal(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	seedLocal(t, db, &models.Record{
		ID: "u1", Name: "Fresh", CloudRecordName: "rec-u1",
		UpdatedAt: time.Unix(0, 9999).UTC(),
	})

	report, err := e.Apply(ctx, nil,
		[]models.RemoteRecordID{{RecordName: "rec-u1", Zone: privateZone()}}, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)

	_, err = records.NewSQLiteRepository(db).FetchByUUID(ctx, "u1")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestApply_TombstoneMatchesByUUIDForLegacyRecords(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	// legacy: cloud record name never stored, remote identity equals UUID
	seedLocal(t, db, &models.Record{ID: "u-legacy", Name: "Old", UpdatedAt: time.Unix(0, 10).UTC()})

	report, err := e.Apply(ctx, nil,
		[]models.RemoteRecordID{{RecordName: "u-legacy", Zone: privateZone()}}, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Deleted)
}

func TestApply_UnknownTombstoneIsIgnored(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())

	report, err := e.Apply(context.Background(), nil,
		[]models.RemoteRecordID{{RecordName: "ghost", Zone: privateZone()}}, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Deleted)
}

func TestApply_IsIdempotent(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	changed := []models.RemoteRecord{remoteChange("u1", "Rex", 100), remoteChange("u2", "Murka", 200)}
	deleted := []models.RemoteRecordID{{RecordName: "rec-u3", Zone: privateZone()}}

	_, err := e.Apply(ctx, changed, deleted, RolePrivate)
	require.NoError(t, err)

	snapshot := func() []models.Record {
		all, err := records.NewSQLiteRepository(db).GetAll(ctx)
		require.NoError(t, err)
		// sync bookkeeping varies between passes; the record content must not
		for i := range all {
			all[i].LastSyncAt = time.Time{}
			all[i].SyncLog = nil
		}
		return all
	}

	first := snapshot()
	_, err = e.Apply(ctx, changed, deleted, RolePrivate)
	require.NoError(t, err)
	assert.Equal(t, first, snapshot(), "applying the same batch twice must yield the same state")
}

func TestApply_SharedRoleForcesSharingVisibility(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	rr := models.RemoteRecord{
		RecordName:      "rec-u2",
		Zone:            models.Zone{Name: ZoneShareCapable, Owner: "u-other"},
		Fields:          map[string]any{"uuid": "u2", "name": "Rex"},
		UpdatedAt:       time.Unix(0, 100).UTC(),
		ShareRecordName: "s1",
	}

	report, err := e.Apply(ctx, []models.RemoteRecord{rr}, nil, RoleShared)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, got.SharingEnabled)
	assert.Equal(t, "s1", got.CloudShareRecordName)
	assert.False(t, got.CloudEnabled,
		"the recipient's own mirroring preference is independent of the sharer's")
}

func TestApply_SharedRolePreservesExistingCloudFlag(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	seedLocal(t, db, &models.Record{ID: "u2", Name: "Rex", CloudEnabled: true, UpdatedAt: time.Unix(0, 50).UTC()})

	rr := models.RemoteRecord{
		RecordName:      "rec-u2",
		Zone:            models.Zone{Name: ZoneShareCapable, Owner: "u-other"},
		Fields:          map[string]any{"uuid": "u2", "name": "Rex"},
		UpdatedAt:       time.Unix(0, 100).UTC(),
		ShareRecordName: "s1",
	}

	_, err := e.Apply(ctx, []models.RemoteRecord{rr}, nil, RoleShared)
	require.NoError(t, err)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, got.CloudEnabled, "shared merge must not alter the cloud-mirroring flag")
	assert.True(t, got.SharingEnabled)
}

func TestApply_MissingFieldKeepsLocalValue(t *testing.T) {
	db := setupMergeDB(t)
	e := NewEngine(db, testLogger())
	ctx := context.Background()

	seedLocal(t, db, &models.Record{ID: "u1", Name: "Rex", Notes: "chipped", UpdatedAt: time.Unix(0, 50).UTC()})

	rr := models.RemoteRecord{
		RecordName: "rec-u1",
		Zone:       privateZone(),
		Fields:     map[string]any{"uuid": "u1", "name": "Rexie"}, // no notes
		UpdatedAt:  time.Unix(0, 100).UTC(),
	}

	_, err := e.Apply(ctx, []models.RemoteRecord{rr}, nil, RolePrivate)
	require.NoError(t, err)

	got, err := records.NewSQLiteRepository(db).FetchByUUID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Rexie", got.Name)
	assert.Equal(t, "chipped", got.Notes, "missing remote field falls back to the local value")
}
