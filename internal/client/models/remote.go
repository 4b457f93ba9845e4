package models

import "time"

// Zone is a named partition of the remote store with its own independent
// change-token sequence. Owned zones belong to the current user; foreign
// shared zones belong to users who shared records with them.
type Zone struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

// Key returns the stable string used to key persisted cursors.
func (z Zone) Key() string {
	return z.Owner + "/" + z.Name
}

// RemoteRecordID identifies a record in the backing store.
type RemoteRecordID struct {
	RecordName string `json:"record_name"`
	Zone       Zone   `json:"zone"`
}

// RemoteRecord is a record as delivered by the backing store: an untyped
// field bag plus its mutation timestamp and an optional share reference.
// Instances live only for the duration of one fetch/merge cycle.
type RemoteRecord struct {
	RecordName      string         `json:"record_name"`
	Zone            Zone           `json:"zone"`
	Fields          map[string]any `json:"fields"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ShareRecordName string         `json:"share_record_name,omitempty"`
}

// ID returns the record's backing-store identity.
func (r RemoteRecord) ID() RemoteRecordID {
	return RemoteRecordID{RecordName: r.RecordName, Zone: r.Zone}
}

// ShareMetadata is a resolved share invitation: the zone it grants access
// to, the share object's identity, and a display title for user feedback.
type ShareMetadata struct {
	Zone            Zone   `json:"zone"`
	ShareRecordName string `json:"share_record_name"`
	Title           string `json:"title"`
	Token           string `json:"token,omitempty"`
}
