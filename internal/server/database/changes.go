package database

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/server/models"
)

func (s *PostgresStore) Changes(ctx context.Context, zoneID, afterSeq int64, limit int) (*ChangePage, error) {

	maxSeq, err := s.zoneMaxSeq(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	// A cursor that has fallen behind the retention horizon cannot be
	// answered incrementally anymore.
	if afterSeq > 0 && afterSeq < maxSeq-s.horizon {
		return nil, common.ErrTokenExpired
	}

	records, err := s.recordsAfter(ctx, zoneID, afterSeq, limit+1)
	if err != nil {
		return nil, err
	}
	tombstones, err := s.tombstonesAfter(ctx, zoneID, afterSeq, limit+1)
	if err != nil {
		return nil, err
	}

	page := mergePage(records, tombstones, limit)
	if page.NextSeq == 0 {
		page.NextSeq = afterSeq
	}
	return page, nil
}

func (s *PostgresStore) Snapshot(ctx context.Context, zoneID int64) ([]models.StoredRecord, error) {
	return s.recordsAfter(ctx, zoneID, 0, 0)
}

func (s *PostgresStore) zoneMaxSeq(ctx context.Context, zoneID int64) (int64, error) {

	query :=
		`SELECT COALESCE(GREATEST(
			(SELECT MAX(seq) FROM records WHERE zone_id = $1),
			(SELECT MAX(seq) FROM tombstones WHERE zone_id = $1)), 0)`

	var maxSeq int64
	if err := s.db.QueryRowContext(ctx, query, zoneID).Scan(&maxSeq); err != nil {
		return 0, fmt.Errorf("error performing sql request: %w", err)
	}
	return maxSeq, nil
}

// recordsAfter lists the zone's records with seq > afterSeq. A limit of 0
// means no limit.
func (s *PostgresStore) recordsAfter(ctx context.Context, zoneID, afterSeq int64, limit int) ([]models.StoredRecord, error) {

	query :=
		`SELECT record_name, zone_id, fields, updated_at, share_record_name, seq
		 FROM records
		 WHERE zone_id = $1 AND seq > $2
		 ORDER BY seq`
	args := []any{zoneID, afterSeq}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var records []models.StoredRecord
	for rows.Next() {
		var rec models.StoredRecord
		var fields []byte
		if err := rows.Scan(&rec.RecordName, &rec.ZoneID, &fields, &rec.UpdatedAt, &rec.ShareRecordName, &rec.Seq); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(fields, &rec.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode fields of %s: %w", rec.RecordName, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) tombstonesAfter(ctx context.Context, zoneID, afterSeq int64, limit int) ([]models.Tombstone, error) {

	query :=
		`SELECT record_name, zone_id, seq, deleted_at
		 FROM tombstones
		 WHERE zone_id = $1 AND seq > $2
		 ORDER BY seq
		 LIMIT $3`

	rows, err := s.db.QueryContext(ctx, query, zoneID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var tombstones []models.Tombstone
	for rows.Next() {
		var tomb models.Tombstone
		if err := rows.Scan(&tomb.RecordName, &tomb.ZoneID, &tomb.Seq, &tomb.DeletedAt); err != nil {
			return nil, err
		}
		tombstones = append(tombstones, tomb)
	}
	return tombstones, rows.Err()
}

// mergePage interleaves records and tombstones by feed position and cuts the
// combined result to limit entries.
func mergePage(records []models.StoredRecord, tombstones []models.Tombstone, limit int) *ChangePage {
	type entry struct {
		seq    int64
		record *models.StoredRecord
		tomb   *models.Tombstone
	}

	entries := make([]entry, 0, len(records)+len(tombstones))
	for i := range records {
		entries = append(entries, entry{seq: records[i].Seq, record: &records[i]})
	}
	for i := range tombstones {
		entries = append(entries, entry{seq: tombstones[i].Seq, tomb: &tombstones[i]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	page := &ChangePage{}
	if len(entries) > limit {
		entries = entries[:limit]
		page.More = true
	}

	for _, e := range entries {
		if e.record != nil {
			page.Records = append(page.Records, *e.record)
		} else {
			page.Tombstones = append(page.Tombstones, *e.tomb)
		}
		page.NextSeq = e.seq
	}
	return page
}
