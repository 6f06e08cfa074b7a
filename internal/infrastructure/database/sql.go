package database

import (
	"fmt"
	"log"
	"os"
	"time"

	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/leadsvc/internal/infrastructure/repositories"
)

// Open creates a SQL database connection for the postgres or sqlite driver
func Open(driver, dsn string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         newGormLogger(log.New(os.Stdout, "\r\n", log.LstdFlags)),
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported sql driver %q", driver)
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// every new connection to :memory: is a fresh database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

// newGormLogger logs slow queries and errors. Lookups that find nothing are
// normal here (e.g. the duplicate e-mail check on signup) and stay quiet.
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

// AutoMigrate creates the users, bookings and casbin policy tables
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}, &repositories.DBBooking{}); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}

	// The adapter creates casbin_rule on construction.
	if _, err := gormadapter.NewAdapterByDB(db); err != nil {
		return fmt.Errorf("failed to initialize Casbin GORM adapter: %w", err)
	}

	return nil
}
