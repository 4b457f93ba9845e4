package database

import (
	"context"
	"fmt"
)

func (s *PostgresStore) AcceptShare(ctx context.Context, zoneID int64, grantee, shareRecordName, title string) error {

	query :=
		`INSERT INTO shares (zone_id, grantee, share_record_name, title, accepted_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (zone_id, grantee)
		 DO UPDATE SET share_record_name = EXCLUDED.share_record_name,
		               title = EXCLUDED.title,
		               accepted_at = now()`

	if _, err := s.db.ExecContext(ctx, query, zoneID, grantee, shareRecordName, title); err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}

	return nil
}
