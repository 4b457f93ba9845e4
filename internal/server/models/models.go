// Package models defines the server-side storage types.
package models

import "time"

// Zone is one named change-feed partition owned by a user.
type Zone struct {
	ID    int64
	Name  string
	Owner string
}

// StoredRecord is a record row: an opaque JSON field bag versioned by its
// position in the zone's change feed.
type StoredRecord struct {
	RecordName      string
	ZoneID          int64
	Fields          map[string]any
	UpdatedAt       time.Time
	ShareRecordName string
	Seq             int64
}

// Tombstone marks a deleted record. It occupies a feed position of its own
// so deletions replicate like any other change.
type Tombstone struct {
	RecordName string
	ZoneID     int64
	Seq        int64
	DeletedAt  time.Time
}

// Share is an accepted or pending share grant: it makes the zone visible in
// the grantee's shared partition.
type Share struct {
	ID              int64
	ZoneID          int64
	Grantee         string
	ShareRecordName string
	Title           string
	AcceptedAt      *time.Time
}
