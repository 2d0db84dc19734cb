package config

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/waste-point/web-go/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DSN builds the driver specific connection string.
func (d DatabaseConfig) DSN() (string, error) {
	switch d.Driver {
	case "mysql":
		port := d.Port
		if port == "" {
			port = "3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			d.User, d.Password, d.Host, port, d.Name), nil
	case "postgres", "postgresql":
		port := d.Port
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			d.Host, d.User, d.Password, d.Name, port, d.SSLMode), nil
	case "sqlite":
		return d.SQLitePath, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", d.Driver)
	}
}

func (d DatabaseConfig) dialector() (gorm.Dialector, error) {
	dsn, err := d.DSN()
	if err != nil {
		return nil, err
	}

	switch d.Driver {
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(dsn), nil
	default:
		return postgres.Open(dsn), nil
	}
}

// InitDB connects and migrates every model.
func InitDB(d DatabaseConfig) (*gorm.DB, error) {
	dialector, err := d.dialector()
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(dialector)
	if err != nil {
		return nil, fmt.Errorf("connect to %s database: %w", d.Driver, err)
	}

	return db, nil
}

// OpenDB opens the dialector with the settings the repositories depend on and migrates.
func OpenDB(dialector gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Report{}, &models.Session{}, &models.StatusChange{})
}
