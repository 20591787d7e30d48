// Package storage provides the key-value stores the task list is persisted to.
//
// Every backend stores opaque values under string keys. The task list uses a
// single fixed key, so a store rarely holds more than one entry, but nothing
// here depends on that.
//
// Backends:
//   - "memory": process-local map, nothing survives exit
//   - "file": one file per key inside a data directory
//   - "sqlite": a kv table in a SQLite database file (modernc.org/sqlite)
//   - "mysql": a kv table in a MySQL database (go-sql-driver/mysql)
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// KV is a minimal key-value store.
type KV interface {
	// Get returns the value stored under key. The bool is false when the key is absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Close releases the underlying resources.
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Dir is the data directory for the file backend and the default
	// location of the SQLite database.
	Dir string
	// Ext is the file extension used by the file backend (e.g. ".json").
	Ext string
	// DSN is the data source name for sqlite (a path) or mysql.
	DSN string
}

// Open opens the backend named in opts.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch NormalizeBackend(opts.Backend) {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFileStore(opts.Dir, opts.Ext)
	case BackendSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = DefaultSQLitePath(opts.Dir)
		}
		return OpenSQLite(ctx, dsn)
	case BackendMySQL:
		if opts.DSN == "" {
			return nil, fmt.Errorf("mysql backend requires a dsn")
		}
		return OpenMySQL(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

// NormalizeBackend lowercases a backend name and resolves aliases.
func NormalizeBackend(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	switch n {
	case "", "fs", "json":
		return BackendFile
	case "mem":
		return BackendMemory
	case "sqlite3":
		return BackendSQLite
	}
	return n
}
