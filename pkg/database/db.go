package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/shashiranjanraj/catalogue/config"
	"github.com/shashiranjanraj/catalogue/pkg/logger"
	"github.com/shashiranjanraj/catalogue/pkg/metrics"
)

// Options describe one database connection.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	Instrument   bool
}

// FromConfig builds Options from the environment.
func FromConfig() Options {
	return Options{
		Driver:       config.DatabaseDriver(),
		DSN:          config.DatabaseDSN(),
		MaxOpenConns: 25,
		MaxIdleConns: 10,
		Instrument:   true,
	}
}

// Connect opens the configured database.
func Connect() (*gorm.DB, error) {
	return Open(FromConfig())
}

// Open opens the database, configures the pool and verifies the connection.
// Driver errors are translated so that unique violations surface as
// gorm.ErrDuplicatedKey regardless of dialect.
func Open(opts Options) (*gorm.DB, error) {
	dialector, err := buildDialector(opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			slog.NewLogLogger(logger.L.Handler(), slog.LevelWarn),
			gormlogger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
			},
		),
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	if opts.Instrument {
		if err := instrument(db); err != nil {
			return nil, fmt.Errorf("database: instrument: %w", err)
		}
	}

	return db, nil
}

// Ping reports whether db is reachable.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Close releases the underlying pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}

const startedAtKey = "catalogue:started_at"

// instrument times every statement into metrics.DBQueryDuration.
func instrument(db *gorm.DB) error {
	before := func(tx *gorm.DB) { tx.InstanceSet(startedAtKey, time.Now()) }
	after := func(op string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(startedAtKey); ok {
				if start, ok := v.(time.Time); ok {
					metrics.ObserveDBQuery(op, start)
				}
			}
		}
	}

	cb := db.Callback()
	steps := []struct {
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"create", cb.Create().Before("gorm:create").Register, cb.Create().After("gorm:create").Register},
		{"query", cb.Query().Before("gorm:query").Register, cb.Query().After("gorm:query").Register},
		{"update", cb.Update().Before("gorm:update").Register, cb.Update().After("gorm:update").Register},
		{"delete", cb.Delete().Before("gorm:delete").Register, cb.Delete().After("gorm:delete").Register},
		{"row", cb.Row().Before("gorm:row").Register, cb.Row().After("gorm:row").Register},
		{"raw", cb.Raw().Before("gorm:raw").Register, cb.Raw().After("gorm:raw").Register},
	}
	for _, s := range steps {
		if err := s.before("metrics:before_"+s.op, before); err != nil {
			return err
		}
		if err := s.after("metrics:after_"+s.op, after(s.op)); err != nil {
			return err
		}
	}
	return nil
}
