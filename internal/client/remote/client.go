// Package remote is the thin capability over the backing store: incremental
// change fetching, full-snapshot queries, zone enumeration and share
// acceptance, each against a selectable partition.
package remote

import (
	"context"

	"github.com/akarpov88/petkeeper/internal/client/models"
)

// Partition selects which half of the backing store an operation targets.
type Partition string

const (
	// PartitionPrivate holds the user's own zones.
	PartitionPrivate Partition = "private"
	// PartitionShared holds zones other users shared with the current user.
	PartitionShared Partition = "shared"
)

// ChangeSet is the aggregated result of one incremental fetch: all changed
// records and tombstones since the caller's token, plus the new token to
// persist once the changes are durably merged.
type ChangeSet struct {
	Records []models.RemoteRecord
	Deleted []models.RemoteRecordID
	Token   []byte
}

// Client is the remote fetch client. Implementations map every
// remote-originating failure to the common error taxonomy before returning:
// common.ErrTokenExpired, common.ErrZoneNotFound, common.ErrUnavailable,
// common.ErrShareRejected. A raw transport error never escapes this boundary.
type Client interface {
	// FetchZoneChanges returns everything that changed in zone since the
	// given token (nil means "from the beginning"). It pages internally
	// until the store reports no more changes. On a mid-paging failure it
	// returns the pages accumulated so far together with the last
	// fully-received page's token and a non-nil error, so the caller can
	// durably apply partial progress without re-fetching it next pass.
	FetchZoneChanges(ctx context.Context, p Partition, zone models.Zone, since []byte) (*ChangeSet, error)

	// FetchAllRecords is the unconditional full scan of a zone, used only
	// as fallback after token expiry or as the seed for a new zone.
	FetchAllRecords(ctx context.Context, p Partition, zone models.Zone) ([]models.RemoteRecord, error)

	// EnumerateZones lists all zones visible in a partition.
	EnumerateZones(ctx context.Context, p Partition) ([]models.Zone, error)

	// ResolveShareURL resolves an inbound share link to its metadata.
	ResolveShareURL(ctx context.Context, rawURL string) (*models.ShareMetadata, error)

	// AcceptShare accepts a resolved share invitation against the remote
	// store, after which its zone appears in the shared partition.
	AcceptShare(ctx context.Context, meta *models.ShareMetadata) error
}
