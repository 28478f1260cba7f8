// Package db contains the database connection setup
package db

import (
	"fmt"
	"pricecompare/account-api/internal/model"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// New opens the database configured under db.driver and creates the users and
// verifications tables if they don't exist yet. TranslateError is enabled so
// unique-index violations surface as gorm.ErrDuplicatedKey regardless of the
// driver.
func New() (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver := viper.GetString("db.driver"); driver {
	case "sqlite":
		dialector = sqlite.Open(viper.GetString("db.dsn"))
	case "postgres":
		dialector = postgres.Open(viper.GetString("db.dsn"))
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open database, %w", err)
	}

	err = conn.AutoMigrate(model.User{}, model.Verification{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	return conn, nil
}
