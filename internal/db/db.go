package db

import (
	"fmt"  // DSN formatting
	"time" // Slow query threshold

	"blog_system/internal/config" // Application configuration

	"github.com/go-faster/errors" // Error wrapping
	"github.com/sirupsen/logrus"  // Logrus for structured logging
	"gorm.io/driver/mysql"        // MySQL driver for GORM
	"gorm.io/driver/postgres"     // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"       // SQLite driver for GORM
	"gorm.io/gorm"                // GORM ORM library
	"gorm.io/gorm/logger"         // GORM logger
)

// Dialector builds the GORM dialector for the configured driver
func Dialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case config.DriverMySQL:
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName + "?parseTime=true"
		return mysql.Open(dsn), nil
	case config.DriverPostgres:
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port)
		return postgres.Open(dsn), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DBPath), nil
	default:
		return nil, errors.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Open connects to the configured database, logging SQL through logrus
func Open(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	level := logger.Warn // Only slow queries and errors in production
	if !cfg.IsProd {
		level = logger.Info
	}
	gormLogger := logger.New(logrus.StandardLogger(), logger.Config{
		SlowThreshold:             200 * time.Millisecond, // Log queries slower than this
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true, // Not found is a normal outcome
	})
	db, err := gorm.Open(dialector, Config(gormLogger))
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	return db, nil
}

// Config is the GORM configuration shared by the server and the tests
func Config(l logger.Interface) *gorm.Config {
	return &gorm.Config{
		Logger:         l,
		TranslateError: true, // Unique violations surface as gorm.ErrDuplicatedKey
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}
}
