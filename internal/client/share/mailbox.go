// Package share converts inbound share references (URLs or platform-
// delivered metadata) into imported local records, and stages references
// that arrive before the application surface is ready to process them.
package share

import (
	"sync"

	"github.com/akarpov88/petkeeper/internal/client/models"
)

// Reference is one inbound share reference: either a URL that still needs a
// network round trip, or pre-resolved metadata (the preferred path).
type Reference struct {
	URL      string
	Metadata *models.ShareMetadata
}

// IsZero reports whether the reference carries nothing.
func (r Reference) IsZero() bool {
	return r.URL == "" && r.Metadata == nil
}

// Mailbox is the single-slot staging box for share references delivered
// before the primary surface is ready. It holds at most one unconsumed URL
// and at most one unconsumed metadata blob; a newer arrival of the same kind
// overwrites the older one. There is no queue. Delivery hooks write, the
// acceptance engine drains with a single atomic read-and-clear.
type Mailbox struct {
	mu   sync.Mutex
	url  string
	meta *models.ShareMetadata
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{}
}

// PutURL stages an inbound share URL, replacing any unconsumed one.
func (m *Mailbox) PutURL(u string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.url = u
}

// PutMetadata stages platform-delivered share metadata, replacing any
// unconsumed blob.
func (m *Mailbox) PutMetadata(meta *models.ShareMetadata) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meta = meta
}

// Consume atomically reads and clears both slots. ok is false when nothing
// was staged; a second call after a drain reports no reference until a new
// one arrives.
func (m *Mailbox) Consume() (ref Reference, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref = Reference{URL: m.url, Metadata: m.meta}
	m.url = ""
	m.meta = nil
	return ref, !ref.IsZero()
}
