package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akarpov88/petkeeper/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore implements Store over a pgx database/sql connection.
type PostgresStore struct {
	db      *sql.DB
	horizon int64
}

var _ Store = (*PostgresStore)(nil)

func (s *PostgresStore) Conn() *sql.DB {
	return s.db
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, s.db, ".")
}

// NewPostgresStore opens the database, applies migrations and returns a
// ready store. horizon is the number of superseded feed entries kept
// answerable for incremental fetches.
func NewPostgresStore(dsn string, horizon int64) (*PostgresStore, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	s := &PostgresStore{db: db, horizon: horizon}

	if err := s.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return s, nil
}
