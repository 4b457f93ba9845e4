// Package database implements the server's PostgreSQL backing store.
package database

import (
	"context"

	"github.com/akarpov88/petkeeper/internal/server/models"
)

// ChangePage is one page of a zone's change feed, ordered by feed position.
type ChangePage struct {
	Records    []models.StoredRecord
	Tombstones []models.Tombstone
	NextSeq    int64
	More       bool
}

// Store is the persistence surface the API handlers depend on.
type Store interface {
	// ZoneByName resolves a zone, returning common.ErrZoneNotFound when the
	// owner has no zone of that name.
	ZoneByName(ctx context.Context, owner, name string) (*models.Zone, error)

	// OwnedZones lists the zones a user owns.
	OwnedZones(ctx context.Context, owner string) ([]models.Zone, error)

	// SharedZones lists the zones other users have shared with grantee and
	// that the grantee has accepted.
	SharedZones(ctx context.Context, grantee string) ([]models.Zone, error)

	// Changes returns the zone's feed entries after afterSeq, up to limit.
	// Returns common.ErrTokenExpired when afterSeq is behind the retention
	// horizon and the feed can no longer answer incrementally.
	Changes(ctx context.Context, zoneID, afterSeq int64, limit int) (*ChangePage, error)

	// Snapshot returns every live record in the zone.
	Snapshot(ctx context.Context, zoneID int64) ([]models.StoredRecord, error)

	// AcceptShare records the grantee's acceptance of a share grant.
	AcceptShare(ctx context.Context, zoneID int64, grantee, shareRecordName, title string) error
}
