// Package store implements the remote tables behind the storefront on GORM.
package store

import (
	"fmt"
	"time"

	"github.com/Black25dvp/silverlux/models"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options selects and addresses the database.
type Options struct {
	Driver   string // "postgres" (default) or "sqlite"
	URL      string // full DSN; wins over the discrete fields
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	LogLevel logger.LogLevel
}

// DSN returns the connection string for o.
func (o Options) DSN() string {
	if o.URL != "" {
		return o.URL
	}
	if o.Driver == "sqlite" {
		return o.Name
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		o.Host, o.User, o.Password, o.Name, o.Port,
	)
}

// Open connects to the database described by o. Timestamps are written in UTC.
func Open(o Options) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch o.Driver {
	case "", "postgres":
		dialector = postgres.Open(o.DSN())
	case "sqlite":
		dialector = sqlite.Open(o.DSN())
	default:
		return nil, errors.Errorf("unsupported database driver %q", o.Driver)
	}

	level := o.LogLevel
	if level == 0 {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect database")
	}
	return db, nil
}

// Migrate creates or updates every table the storefront uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.Product{},
		&models.Collection{},
		&models.CartItem{},
		&models.ProductSearch{},
	)
	return errors.Wrap(err, "auto-migrate")
}
