// Package models defines client-side data models: the locally persisted pet
// record and the ephemeral wire-side types used during a fetch/merge cycle.
package models

import (
	"time"

	"github.com/akarpov88/petkeeper/internal/common"
)

// Status describes how a record is presented: shared with other users,
// mirrored to the cloud, or local only. Sharing visibility dominates cloud
// mirroring, which dominates local.
type Status string

const (
	StatusShared Status = "shared"
	StatusCloud  Status = "cloud"
	StatusLocal  Status = "local"
)

// Record is a pet health record persisted in the local store.
//
// ID is a process-independent UUID assigned once for the record's lifetime.
// CloudRecordName is the backing store's identity and may change (a cloud
// record can be deleted and recreated) without the UUID changing.
type Record struct {
	// ID is a globally unique identifier for the record.
	ID string

	Name      string
	Species   string
	Breed     string
	BirthDate string
	Notes     string

	// CloudRecordName is the remote identity once mirrored; empty until the
	// first successful push.
	CloudRecordName string

	// CloudShareRecordName is the identity of an associated share object;
	// empty unless a share exists.
	CloudShareRecordName string

	// CloudEnabled and SharingEnabled are independent toggles: cloud
	// mirroring and sharing visibility are orthogonal.
	CloudEnabled   bool
	SharingEnabled bool

	// UpdatedAt is the authoritative mutation timestamp, advanced on every
	// local edit and set from the remote value on merge.
	UpdatedAt time.Time

	LastSyncAt    time.Time
	LastSyncError string

	// SyncLog is a bounded, append-only diagnostic trail.
	SyncLog []string
}

// Status reports the record's visibility. A set share identity or an enabled
// sharing flag wins over cloud mirroring.
func (r *Record) Status() Status {
	if r.SharingEnabled || r.CloudShareRecordName != "" {
		return StatusShared
	}
	if r.CloudEnabled {
		return StatusCloud
	}
	return StatusLocal
}

// AppendSyncLog appends one diagnostic line, dropping the oldest entries
// beyond common.SyncLogLimit.
func (r *Record) AppendSyncLog(line string) {
	r.SyncLog = append(r.SyncLog, line)
	if n := len(r.SyncLog); n > common.SyncLogLimit {
		r.SyncLog = r.SyncLog[n-common.SyncLogLimit:]
	}
}
