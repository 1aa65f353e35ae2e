package gorm

import (
	"errors"
	"fmt"
	"time"

	"support-relay/configs"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotConfigured is returned when no PostgreSQL host is set
var ErrNotConfigured = errors.New("postgres is not configured")

// DB struct
type DB struct {
	Postgres *gorm.DB
}

// DSN builds the connection string for cfg
func DSN(cfg configs.Postgres) string {
	sslmode := "disable"
	if cfg.SSLMode {
		sslmode = "require"
	}
	port := cfg.Port
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%v user=%v password=%v dbname=%v port=%v sslmode=%v connect_timeout=10",
		cfg.Host, cfg.Username, cfg.Password, cfg.DbName, port, sslmode)
}

// ConnectToPostgreSQL func
func ConnectToPostgreSQL(cfg configs.Postgres) (*DB, error) {
	if cfg.Host == "" || cfg.DbName == "" {
		return nil, ErrNotConfigured
	}

	pg, err := gorm.Open(postgres.Open(DSN(cfg)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		logrus.Error(err)
		return nil, err
	}

	sqlDB, err := pg.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.Infof("Connected to postgres at %s/%s", cfg.Host, cfg.DbName)
	return &DB{Postgres: pg}, nil
}

// DisconnectPostgres func
func DisconnectPostgres(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDb, err := db.DB()
	if err != nil {
		logrus.Error(err)
		return
	}
	if err = sqlDb.Close(); err != nil {
		logrus.Error(err)
	}
	logrus.Println("Connected with postgres has closed")
}
