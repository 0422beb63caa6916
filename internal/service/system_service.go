package service

import (
	"database/sql"

	"github.com/kabucount/kabucount/internal/database"
)

// SystemService reports operational health.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService with the provided database connection.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// Health verifies the database connection is alive.
func (s *SystemService) Health() error {
	return database.HealthCheck(s.db)
}
