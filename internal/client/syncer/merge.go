package syncer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/client/repositories/records"
	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/dbx"
	"github.com/akarpov88/petkeeper/internal/logging"
)

// ZoneRole says which partition a merge batch came from. Records arriving
// through the shared partition get their sharing visibility forced on.
type ZoneRole string

const (
	RolePrivate ZoneRole = "private"
	RoleShared  ZoneRole = "shared"
)

// Report summarizes one merge pass.
type Report struct {
	Created int
	Updated int
	Deleted int
	Skipped int

	// ImportedNames holds the display names of records materialized during
	// this pass, for user feedback after a share acceptance.
	ImportedNames []string
}

func (r *Report) add(other *Report) {
	r.Created += other.Created
	r.Updated += other.Updated
	r.Deleted += other.Deleted
	r.Skipped += other.Skipped
	r.ImportedNames = append(r.ImportedNames, other.ImportedNames...)
}

// Changed reports whether the pass had any local effect.
func (r *Report) Changed() bool {
	return r.Created+r.Updated+r.Deleted > 0
}

// Engine applies fetched remote changes to the local store under a
// last-writer-wins policy. One Apply call is one transaction: either the
// whole batch lands or none of it does, and re-applying the same batch is
// idempotent.
type Engine struct {
	db         *sql.DB
	translator Translator
	logger     logging.Logger
	now        func() time.Time
}

// NewEngine returns a merge engine writing through db.
func NewEngine(db *sql.DB, logger logging.Logger) *Engine {
	return &Engine{
		db:     db,
		logger: logger.With("module", "merge"),
		now:    time.Now,
	}
}

// Apply merges a batch of changed records and tombstones. Tombstones win
// unconditionally; changed records are applied only when the remote
// timestamp is not older than the local one, and the applied timestamp is
// the remote value, never "now".
func (e *Engine) Apply(ctx context.Context, changed []models.RemoteRecord, deleted []models.RemoteRecordID, role ZoneRole) (*Report, error) {
	report := &Report{}

	err := dbx.WithTx(ctx, e.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := records.NewSQLiteRepository(tx)

		for _, id := range deleted {
			if err := e.applyTombstone(ctx, repo, id, report); err != nil {
				return err
			}
		}
		for _, rr := range changed {
			if err := e.applyChange(ctx, repo, rr, role, report); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, fmt.Errorf("failed to save merge batch: %w", err)
	}

	e.logger.Debug(ctx, "merge batch applied",
		"created", report.Created, "updated", report.Updated,
		"deleted", report.Deleted, "skipped", report.Skipped)

	return report, nil
}

// applyTombstone resolves a remote deletion to a local record by matching
// either its stored cloud identity or its UUID (the two coincide for legacy
// data) and removes it. No timestamp comparison: a remote tombstone always
// wins over any local state.
func (e *Engine) applyTombstone(ctx context.Context, repo records.Repository, id models.RemoteRecordID, report *Report) error {
	rec, err := repo.FetchByCloudRecordName(ctx, id.RecordName)
	if errors.Is(err, common.ErrNotFound) {
		rec, err = repo.FetchByUUID(ctx, id.RecordName)
	}
	if errors.Is(err, common.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := repo.Delete(ctx, rec.ID); err != nil {
		return err
	}
	report.Deleted++
	return nil
}

func (e *Engine) applyChange(ctx context.Context, repo records.Repository, rr models.RemoteRecord, role ZoneRole, report *Report) error {
	uuid := e.translator.UUID(rr)

	rec, err := repo.FetchByUUID(ctx, uuid)
	switch {
	case errors.Is(err, common.ErrNotFound):
		rec = &models.Record{ID: uuid}
		e.overlay(rec, rr, role)
		rec.AppendSyncLog(fmt.Sprintf("%s: imported from %s zone %s", e.now().UTC().Format(time.RFC3339), role, rr.Zone.Key()))
		if err := repo.Insert(ctx, rec); err != nil {
			return err
		}
		report.Created++
		report.ImportedNames = append(report.ImportedNames, rec.Name)
		return nil

	case err != nil:
		return err
	}

	// A strictly newer local edit must not be clobbered by a stale cloud copy.
	if rec.UpdatedAt.After(rr.UpdatedAt) {
		report.Skipped++
		return nil
	}

	e.overlay(rec, rr, role)
	rec.AppendSyncLog(fmt.Sprintf("%s: merged from %s zone %s", e.now().UTC().Format(time.RFC3339), role, rr.Zone.Key()))
	if err := repo.Update(ctx, rec); err != nil {
		return err
	}
	report.Updated++
	return nil
}

// overlay applies the translated patch plus the sync bookkeeping shared by
// inserts and updates. UpdatedAt becomes the remote timestamp. For shared
// batches the sharing flag is forced on and the share identity copied,
// without touching the recipient's own cloud-mirroring preference.
func (e *Engine) overlay(rec *models.Record, rr models.RemoteRecord, role ZoneRole) {
	e.translator.ToPatch(rr).Apply(rec)
	rec.CloudRecordName = rr.RecordName
	rec.UpdatedAt = rr.UpdatedAt
	rec.LastSyncAt = e.now().UTC()
	rec.LastSyncError = ""

	switch role {
	case RolePrivate:
		rec.CloudEnabled = true
	case RoleShared:
		rec.SharingEnabled = true
		if rr.ShareRecordName != "" {
			rec.CloudShareRecordName = rr.ShareRecordName
		}
	}
}
