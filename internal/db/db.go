package db

import (
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sujalbistaa/proposal/internal/models"
)

// Init opens a GORM connection for dbURL, which must start with
// postgres://, postgresql:// or sqlite://.
func Init(dbURL string, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch {
	case strings.HasPrefix(dbURL, "postgres://"), strings.HasPrefix(dbURL, "postgresql://"):
		dialector = postgres.Open(dbURL)
		log.Info().Msg("connecting to PostgreSQL database")
	case strings.HasPrefix(dbURL, "sqlite://"):
		dsn := strings.TrimPrefix(dbURL, "sqlite://")
		dialector = sqlite.Open(dsn)
		log.Info().Str("path", dsn).Msg("connecting to SQLite database")
	default:
		return nil, fmt.Errorf("invalid DATABASE_URL %q: must start with postgres://, sqlite:// or memory://", dbURL)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if dialector.Name() == "sqlite" {
		// SQLite allows a single writer.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	log.Info().Msg("database connection established")
	return db, nil
}

// Migrate creates or updates the proposals table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Proposal{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
