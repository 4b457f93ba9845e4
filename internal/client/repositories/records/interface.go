package records

import (
	"context"

	"github.com/akarpov88/petkeeper/internal/client/models"
)

// Repository is the local store adapter: the only consumer/producer of
// durable record state. Implementations are backed by the local SQLite
// database; a repository built over a transaction handle applies its whole
// pass atomically.
type Repository interface {
	// FetchByUUID returns the record with the given UUID, or
	// common.ErrNotFound.
	FetchByUUID(ctx context.Context, id string) (*models.Record, error)

	// FetchByCloudRecordName returns the record whose remote identity
	// matches name, or common.ErrNotFound.
	FetchByCloudRecordName(ctx context.Context, name string) (*models.Record, error)

	// Insert adds a new record.
	Insert(ctx context.Context, rec *models.Record) error

	// Update overwrites an existing record by UUID.
	Update(ctx context.Context, rec *models.Record) error

	// Delete removes a record by UUID. Deleting an absent record is not an
	// error.
	Delete(ctx context.Context, id string) error

	// GetAll lists all records.
	GetAll(ctx context.Context) ([]models.Record, error)
}
