// Package cursors persists one opaque change token per synchronized zone.
// Tokens are byte blobs owned by the backing store; the client never inspects
// or transforms them.
package cursors

import "context"

// Repository is the cursor store. Get returns nil when no token is
// persisted for the zone. Set overwrites unconditionally: tokens are
// monotonic cursors from the backing store's perspective, so last write wins.
type Repository interface {
	Get(ctx context.Context, zoneKey string) ([]byte, error)
	Set(ctx context.Context, zoneKey string, token []byte) error
	Clear(ctx context.Context, zoneKey string) error
}
