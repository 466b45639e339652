package testutil

import (
	"emma-client/internal/database"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// Every new connection would get its own empty :memory: database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// NewSeededDB is NewInMemoryDB with the given flags inserted.
func NewSeededDB(flags map[string]bool) (*gorm.DB, error) {
	db, err := NewInMemoryDB()
	if err != nil {
		return nil, err
	}
	if err := database.SeedFlags(db, flags); err != nil {
		return nil, err
	}
	return db, nil
}
