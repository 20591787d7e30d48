package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// DefaultSQLiteFile is the database file name used when no DSN is configured.
const DefaultSQLiteFile = "todolist.db"

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	driver string
	create string
	upsert string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	create: `CREATE TABLE IF NOT EXISTS kv (
    kv_key TEXT PRIMARY KEY,
    kv_value BLOB NOT NULL,
    updated_at INTEGER NOT NULL
)`,
	upsert: `INSERT INTO kv (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(kv_key) DO UPDATE SET kv_value = excluded.kv_value, updated_at = excluded.updated_at`,
}

var mysqlDialect = dialect{
	driver: "mysql",
	create: `CREATE TABLE IF NOT EXISTS kv (
    kv_key VARCHAR(255) NOT NULL PRIMARY KEY,
    kv_value LONGBLOB NOT NULL,
    updated_at BIGINT NOT NULL
)`,
	upsert: `INSERT INTO kv (kv_key, kv_value, updated_at) VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE kv_value = VALUES(kv_value), updated_at = VALUES(updated_at)`,
}

// SQLStore is a KV backed by a single kv table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// DefaultSQLitePath returns the database path inside dir.
func DefaultSQLitePath(dir string) string {
	if dir == "" {
		return DefaultSQLiteFile
	}
	return filepath.Join(dir, DefaultSQLiteFile)
}

// OpenSQLite opens (and creates if needed) the SQLite database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sql.Open(sqliteDialect.driver, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases alive.
	db.SetMaxOpenConns(1)
	return newSQLStore(ctx, db, sqliteDialect)
}

// OpenMySQL connects to the MySQL database named by dsn.
func OpenMySQL(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open(mysqlDialect.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return newSQLStore(ctx, db, mysqlDialect)
}

func newSQLStore(ctx context.Context, db *sql.DB, d dialect) (*SQLStore, error) {
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.driver, err)
	}
	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.create); err != nil {
		return fmt.Errorf("create kv table: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT kv_value FROM kv WHERE kv_key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Put(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value, time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
