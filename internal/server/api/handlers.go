package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/server/models"
	"github.com/akarpov88/petkeeper/internal/server/sharelink"
	"github.com/akarpov88/petkeeper/internal/server/token"
	"github.com/go-chi/chi/v5"
)

const (
	partitionPrivate = "private"
	partitionShared  = "shared"
)

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req changesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	zone, err := s.resolveZone(ctx, chi.URLParam(r, "partition"), req.Owner, req.Zone)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	afterSeq, err := token.Decode(req.SinceToken)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > maxPageLimit {
		limit = maxPageLimit
	}

	page, err := s.store.Changes(ctx, zone.ID, afterSeq, limit)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	resp := changesResponse{
		Records:   []recordDTO{},
		Deleted:   []recordIDDTO{},
		NextToken: token.Encode(page.NextSeq),
		More:      page.More,
	}
	for _, rec := range page.Records {
		resp.Records = append(resp.Records, recordToDTO(rec, *zone))
	}
	for _, tomb := range page.Tombstones {
		resp.Deleted = append(resp.Deleted, recordIDDTO{RecordName: tomb.RecordName, Zone: zoneToDTO(*zone)})
	}

	s.writeJSON(ctx, w, resp)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req snapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	zone, err := s.resolveZone(ctx, chi.URLParam(r, "partition"), req.Owner, req.Zone)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	records, err := s.store.Snapshot(ctx, zone.ID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	resp := snapshotResponse{Records: []recordDTO{}}
	for _, rec := range records {
		resp.Records = append(resp.Records, recordToDTO(rec, *zone))
	}

	s.writeJSON(ctx, w, resp)
}

func (s *Server) handleZones(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := userID(ctx)

	var zones []models.Zone
	var err error

	switch chi.URLParam(r, "partition") {
	case partitionPrivate:
		zones, err = s.store.OwnedZones(ctx, caller)
	case partitionShared:
		zones, err = s.store.SharedZones(ctx, caller)
	default:
		err = common.ErrZoneNotFound
	}
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	resp := zonesResponse{Zones: []zoneDTO{}}
	for _, z := range zones {
		resp.Zones = append(resp.Zones, zoneToDTO(z))
	}

	s.writeJSON(ctx, w, resp)
}

func (s *Server) handleResolveShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := sharelink.Verify(r.URL.Query().Get("token"), s.jwtSecret)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, shareMetadataResponse{
		Zone:            zoneDTO{Name: claims.Zone, Owner: claims.Owner},
		ShareRecordName: claims.ShareRecordName,
		Title:           claims.Title,
	})
}

func (s *Server) handleAcceptShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req acceptShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	claims, err := sharelink.Verify(req.Token, s.jwtSecret)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	zone, err := s.store.ZoneByName(ctx, claims.Owner, claims.Zone)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if err := s.store.AcceptShare(ctx, zone.ID, userID(ctx), claims.ShareRecordName, claims.Title); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.logger.Info(ctx, "Share accepted", "zone", zone.Name, "owner", zone.Owner, "grantee", userID(ctx))
	s.writeJSON(ctx, w, struct{}{})
}

func (s *Server) handleMintShareLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caller := userID(ctx)

	var req mintShareLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	// Only the zone's owner can mint links for it.
	if _, err := s.store.ZoneByName(ctx, caller, req.Zone); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	tok, err := sharelink.Mint(req.Zone, caller, req.ShareRecordName, req.Title, s.jwtSecret, s.linkValidity)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	s.writeJSON(ctx, w, mintShareLinkResponse{Token: tok})
}

// resolveZone looks the zone up and enforces the partition's visibility
// rules: private zones must belong to the caller, shared zones must have an
// accepted grant for the caller.
func (s *Server) resolveZone(ctx context.Context, partition, owner, name string) (*models.Zone, error) {
	caller := userID(ctx)

	switch partition {
	case partitionPrivate:
		if owner != caller {
			return nil, common.ErrZoneNotFound
		}
	case partitionShared:
		if owner != caller {
			shared, err := s.store.SharedZones(ctx, caller)
			if err != nil {
				return nil, err
			}
			granted := false
			for _, z := range shared {
				if z.Owner == owner && z.Name == name {
					granted = true
					break
				}
			}
			if !granted {
				return nil, common.ErrZoneNotFound
			}
		}
	default:
		return nil, common.ErrZoneNotFound
	}

	return s.store.ZoneByName(ctx, owner, name)
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(ctx, "failed to encode response", "error", err.Error())
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, common.ErrZoneNotFound), errors.Is(err, common.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, common.ErrInvalidShare), errors.Is(err, common.ErrShareRejected):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
