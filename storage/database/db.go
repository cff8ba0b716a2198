package database

import (
	"database/sql"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"

	"github.com/tutorias/asistencias/core"
	appfs "github.com/tutorias/asistencias/fs"
)

const (
	libsqlDriver = "libsql"
	sqliteDriver = "sqlite"

	migrationsDir = "migrations"
)

func init() {
	goose.SetBaseFS(appfs.FS)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect("sqlite3"); err != nil {
		panic(err)
	}
}

// dataSource maps the configured URL to a driver name and DSN.
// Hosted Turso databases go through the libSQL client, everything else is a local SQLite database.
func dataSource(conf core.DatabaseConfig) (driver, dsn string, err error) {
	raw := strings.TrimSpace(conf.URL)
	if raw == "" {
		return "", "", errors.New("database url is empty")
	}

	switch {
	case strings.HasPrefix(raw, "libsql://"), strings.HasPrefix(raw, "https://"),
		strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "wss://"), strings.HasPrefix(raw, "ws://"):
		u, err := url.Parse(raw)
		if err != nil {
			return "", "", errors.Wrap(err, "parsing database url")
		}
		if conf.AuthToken != "" {
			q := u.Query()
			q.Set("authToken", conf.AuthToken)
			u.RawQuery = q.Encode()
		}
		return libsqlDriver, u.String(), nil

	case raw == ":memory:":
		return sqliteDriver, "file::memory:?_pragma=foreign_keys(1)", nil

	default:
		if !strings.HasPrefix(raw, "file:") {
			raw = "file:" + raw
		}
		sep := "?"
		if strings.Contains(raw, "?") {
			sep = "&"
		}
		return sqliteDriver, raw + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	}
}

// Open opens the configured database and waits for it to answer.
func Open(conf core.DatabaseConfig) (*sqlx.DB, error) {
	driver, dsn, err := dataSource(conf)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if driver == sqliteDriver {
		// a single writer; ":memory:" databases also live and die with their connection
		db.SetMaxOpenConns(1)
	}
	if err = ping(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sql.DB) error {
	var err error
	maxAttempts := 10
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

// Migrate applies every pending migration.
func Migrate(db *sqlx.DB) error {
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// RunMigrations runs a goose command (up, down, status, redo, ...) against the embedded migrations.
func RunMigrations(command string, db *sql.DB, args ...string) error {
	return goose.Run(command, db, migrationsDir, args...)
}
