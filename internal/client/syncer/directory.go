package syncer

import (
	"context"
	"fmt"

	"github.com/akarpov88/petkeeper/internal/client/models"
	"github.com/akarpov88/petkeeper/internal/client/remote"
)

// Owned zone names. The private partition is split into a default area and
// a share-capable area; records the user intends to share live in the
// latter.
const (
	ZoneDefault      = "pets-default"
	ZoneShareCapable = "pets-shared"
)

// Directory resolves the set of zones to synchronize: a fixed,
// configuration-derived list of owned zones plus a live enumeration of all
// zones visible in the shared partition.
type Directory struct {
	owned  []models.Zone
	client remote.Client
}

// NewDirectory builds a directory for the given zone owner id.
func NewDirectory(owner string, client remote.Client) *Directory {
	return &Directory{
		owned: []models.Zone{
			{Name: ZoneDefault, Owner: owner},
			{Name: ZoneShareCapable, Owner: owner},
		},
		client: client,
	}
}

// OwnedZones returns the fixed owned-zone list.
func (d *Directory) OwnedZones() []models.Zone {
	out := make([]models.Zone, len(d.owned))
	copy(out, d.owned)
	return out
}

// ForeignSharedZones enumerates the shared partition. The result must not be
// cached beyond one sync pass: shares can be added or revoked between
// passes. Enumeration failure is propagated, not swallowed.
func (d *Directory) ForeignSharedZones(ctx context.Context) ([]models.Zone, error) {
	zones, err := d.client.EnumerateZones(ctx, remote.PartitionShared)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate shared zones: %w", err)
	}
	return zones, nil
}
