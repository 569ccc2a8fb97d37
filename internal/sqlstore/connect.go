// Package sqlstore keeps journal entries in SQLite or Postgres.
package sqlstore

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"           // Postgres driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// Options tunes a SQLite connection. They are ignored for Postgres.
type Options struct {
	WAL  bool
	Sync string // OFF, NORMAL, FULL or EXTRA
}

// sqliteDSN appends the journal and synchronous pragmas to dsn.
func sqliteDSN(dsn string, opts Options) (string, error) {
	params := url.Values{}
	if opts.WAL {
		params.Add("_journal_mode", "WAL")
	}
	if opts.Sync != "" {
		mode := strings.ToUpper(opts.Sync)
		if !validSyncModes[mode] {
			return "", fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", opts.Sync)
		}
		params.Add("_synchronous", mode)
	}
	params.Add("_foreign_keys", "on")

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + params.Encode(), nil
}

// openDB opens and pings a connection for driver.
func openDB(driver, dsn string, opts Options) (*sql.DB, error) {
	constructed := dsn
	switch driver {
	case DriverSQLite:
		var err error
		if constructed, err = sqliteDSN(dsn, opts); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported sql driver %q (want %s or %s)", driver, DriverSQLite, DriverPostgres)
	}

	db, err := sql.Open(driver, constructed)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	// Every new connection to :memory: is a fresh empty database.
	if driver == DriverSQLite && strings.HasPrefix(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return db, nil
}

// rebind rewrites ? placeholders as $1, $2, ... for Postgres.
func rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
