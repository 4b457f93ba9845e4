package api

import (
	"time"

	"github.com/akarpov88/petkeeper/internal/server/models"
)

type zoneDTO struct {
	Name  string `json:"name"`
	Owner string `json:"owner"`
}

type recordDTO struct {
	RecordName      string         `json:"record_name"`
	Zone            zoneDTO        `json:"zone"`
	Fields          map[string]any `json:"fields"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ShareRecordName string         `json:"share_record_name,omitempty"`
}

type recordIDDTO struct {
	RecordName string  `json:"record_name"`
	Zone       zoneDTO `json:"zone"`
}

type changesRequest struct {
	Zone       string `json:"zone"`
	Owner      string `json:"owner"`
	SinceToken []byte `json:"since_token"`
	Limit      int    `json:"limit"`
}

type changesResponse struct {
	Records   []recordDTO   `json:"records"`
	Deleted   []recordIDDTO `json:"deleted"`
	NextToken []byte        `json:"next_token"`
	More      bool          `json:"more"`
}

type snapshotRequest struct {
	Zone  string `json:"zone"`
	Owner string `json:"owner"`
}

type snapshotResponse struct {
	Records []recordDTO `json:"records"`
}

type zonesResponse struct {
	Zones []zoneDTO `json:"zones"`
}

type shareMetadataResponse struct {
	Zone            zoneDTO `json:"zone"`
	ShareRecordName string  `json:"share_record_name"`
	Title           string  `json:"title"`
}

type acceptShareRequest struct {
	Token string `json:"token"`
}

type mintShareLinkRequest struct {
	Zone            string `json:"zone"`
	ShareRecordName string `json:"share_record_name"`
	Title           string `json:"title"`
}

type mintShareLinkResponse struct {
	Token string `json:"token"`
}

func zoneToDTO(z models.Zone) zoneDTO {
	return zoneDTO{Name: z.Name, Owner: z.Owner}
}

func recordToDTO(rec models.StoredRecord, zone models.Zone) recordDTO {
	return recordDTO{
		RecordName:      rec.RecordName,
		Zone:            zoneToDTO(zone),
		Fields:          rec.Fields,
		UpdatedAt:       rec.UpdatedAt,
		ShareRecordName: rec.ShareRecordName,
	}
}
