package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akarpov88/petkeeper/internal/common"
	"github.com/akarpov88/petkeeper/internal/server/models"
)

func (s *PostgresStore) ZoneByName(ctx context.Context, owner, name string) (*models.Zone, error) {

	query := `SELECT id, name, owner FROM zones WHERE owner = $1 AND name = $2`

	zone := &models.Zone{}
	err := s.db.QueryRowContext(ctx, query, owner, name).Scan(&zone.ID, &zone.Name, &zone.Owner)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrZoneNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return zone, nil
}

func (s *PostgresStore) OwnedZones(ctx context.Context, owner string) ([]models.Zone, error) {

	query := `SELECT id, name, owner FROM zones WHERE owner = $1 ORDER BY name`

	return s.queryZones(ctx, query, owner)
}

func (s *PostgresStore) SharedZones(ctx context.Context, grantee string) ([]models.Zone, error) {

	query :=
		`SELECT z.id, z.name, z.owner FROM zones z
		 JOIN shares sh ON sh.zone_id = z.id
		 WHERE sh.grantee = $1 AND sh.accepted_at IS NOT NULL
		 ORDER BY z.owner, z.name`

	return s.queryZones(ctx, query, grantee)
}

func (s *PostgresStore) queryZones(ctx context.Context, query string, args ...any) ([]models.Zone, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}
	defer rows.Close()

	var zones []models.Zone
	for rows.Next() {
		var z models.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Owner); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
