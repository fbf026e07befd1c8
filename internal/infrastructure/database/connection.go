package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/examtrack/internal/infrastructure/config"
)

// DB is an open database handle together with its SQL dialect.
type DB struct {
	*sql.DB
	Dialect string
}

// NewConnection opens the configured database. The returned cleanup closes it.
func NewConnection(cfg *config.Config, logger *logrus.Logger) (*DB, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}
	return Open(driver, dsn, cfg.Database.LogSQL, logger)
}

// Open connects to dsn using one of the supported drivers.
func Open(driver, dsn string, logSQL bool, logger *logrus.Logger) (*DB, func(), error) {
	var (
		rawDB *sql.DB
		d     string
		err   error
	)
	switch driver {
	case "postgres":
		rawDB, err = sql.Open("postgres", dsn)
		d = dialect.Postgres
	case "pgx":
		rawDB, err = openPgx(dsn, logSQL, logger)
		d = dialect.Postgres
	case "sqlite3":
		rawDB, err = sql.Open("sqlite3", dsn)
		d = dialect.SQLite
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open %s db: %w", driver, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if d == dialect.SQLite {
		rawDB.SetMaxOpenConns(1)
		rawDB.SetMaxIdleConns(1)
	} else {
		rawDB.SetMaxOpenConns(10)
	}
	if err := rawDB.PingContext(ctx); err != nil {
		rawDB.Close()
		return nil, nil, fmt.Errorf("ping %s db: %w", driver, err)
	}
	if d == dialect.SQLite {
		if _, err := rawDB.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
			rawDB.Close()
			return nil, nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}

	db := &DB{DB: rawDB, Dialect: d}
	return db, func() { _ = rawDB.Close() }, nil
}

func openPgx(dsn string, logSQL bool, logger *logrus.Logger) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	if logSQL && logger != nil {
		connCfg.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithFields(logrus.Fields(data)).WithField("pgx_level", lvl.String()).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}
	return stdlib.OpenDB(*connCfg), nil
}
