package database

import (
	"database/sql"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/booklore/homeshelf/internal/entities"
)

// Database owns the GORM handle for the catalog store. It is opened once at
// process start and closed at shutdown; repositories share the handle.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens (and migrates) the SQLite catalog store.
//
// Foreign keys are switched on through the DSN so that the ON DELETE CASCADE
// constraints on book_categories are enforced by the store itself, not by
// application code.
func NewDatabase(dbPath string) (*Database, error) {
	dsn := dbPath + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.Category{},
		&entities.BookCategory{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SQLDB exposes the underlying *sql.DB, used by the session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

// Status reports connectivity and row counts for the status endpoint.
type Status struct {
	Connected     bool   `json:"connected"`
	BookCount     int64  `json:"bookCount"`
	CategoryCount int64  `json:"categoryCount"`
	Version       string `json:"version"`
}

func (d *Database) Status() Status {
	var st Status

	if err := d.DB.Model(&entities.Book{}).Count(&st.BookCount).Error; err != nil {
		return st
	}
	if err := d.DB.Model(&entities.Category{}).Count(&st.CategoryCount).Error; err != nil {
		return st
	}

	var version string
	if err := d.DB.Raw("SELECT sqlite_version()").Scan(&version).Error; err == nil {
		st.Version = "SQLite " + version
	}

	st.Connected = true
	return st
}
