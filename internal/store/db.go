package store

import (
	"creatorlink/internal/observability"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // Import the pgx stdlib for sqlx
	"github.com/jmoiron/sqlx"
)

var ErrNotFound = errors.New("not found")

type Store struct {
	db     *sqlx.DB
	logger *observability.Logger
}

// New opens a pgx-backed connection pool and verifies it with a ping.
func New(connectionString string, logger *observability.Logger) (Store, error) {
	db, err := sqlx.Connect("pgx", connectionString)
	if err != nil {
		return Store{}, fmt.Errorf("failed to connect to database: %w", err)
	}
	return Store{db: db, logger: logger}, nil
}

// DB returns the underlying database connection
func (s *Store) DB() *sqlx.DB {
	return s.db
}
