// Package sqlkv stores key-value pairs in a single SQL table.
// SQLite is the local default; MySQL serves a shared database.
package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"github.com/idilsaglam/tasks/internal/kv"
)

// dialect holds the statements that differ between drivers.
type dialect struct {
	driver  string
	pragmas []string
	schema  string
	upsert  string
}

var sqliteDialect = dialect{
	driver: "sqlite3",
	pragmas: []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	},
	schema: `CREATE TABLE IF NOT EXISTS kv (
    k TEXT PRIMARY KEY,
    v TEXT NOT NULL
)`,
	upsert: `INSERT INTO kv (k, v) VALUES (?, ?)
    ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
}

var mysqlDialect = dialect{
	driver: "mysql",
	schema: `CREATE TABLE IF NOT EXISTS kv (
    k VARCHAR(191) PRIMARY KEY,
    v LONGTEXT NOT NULL
) DEFAULT CHARSET=utf8mb4`,
	upsert: `INSERT INTO kv (k, v) VALUES (?, ?)
    ON DUPLICATE KEY UPDATE v = VALUES(v)`,
}

// Store is a kv.KV over database/sql.
type Store struct {
	db *sql.DB
	d  dialect
}

// OpenSQLite creates or opens a SQLite database at path.
func OpenSQLite(path string) (*Store, error) {
	return open(sqliteDialect, path)
}

// OpenMySQL connects to MySQL, e.g. "user:pass@tcp(127.0.0.1:3306)/tasks".
func OpenMySQL(dsn string) (*Store, error) {
	return open(mysqlDialect, dsn)
}

func open(d dialect, dsn string) (*Store, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", d.driver, err)
	}

	// one writer is all this workload ever has
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, p := range d.pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", p, err)
		}
	}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db, d: d}, nil
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kv.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.d.upsert, key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
