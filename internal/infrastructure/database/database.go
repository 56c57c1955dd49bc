package database

import (
	"strings"

	"proforma-backend/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN. Postgres URLs get PreferSimpleProtocol to
// avoid 42P05 ("prepared statement already exists") behind connection
// poolers; anything else is treated as a SQLite path (":memory:" included).
func Open(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
}

// AutoMigrate runs migrations for all persisted models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.AnalysisRecord{},
		&models.SimulationRecord{},
		&models.ForecastPoint{},
	)
}
