package database

import (
	"fmt"

	"emma-client/internal/logging"
	"emma-client/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the SQLite file at path and runs migrations
func InitDB(path string) error {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	DB = db
	logging.Info("Database connected and migrated", zap.String("path", path))
	return nil
}

// Migrate creates or updates every table the flag service uses.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FeatureFlag{},
		&models.Account{},
		&models.Agent{},
	)
}

// SeedFlags inserts any of the given flags that do not exist yet. Existing
// rows keep their current value.
func SeedFlags(db *gorm.DB, flags map[string]bool) error {
	if len(flags) == 0 {
		return nil
	}
	rows := make([]models.FeatureFlag, 0, len(flags))
	for name, enabled := range flags {
		rows = append(rows, models.FeatureFlag{
			Name:        name,
			Enabled:     enabled,
			Description: "Seeded default",
		})
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// GetDB returns the database connection
func GetDB() *gorm.DB {
	return DB
}
