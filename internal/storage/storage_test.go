package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()

	file, err := NewFileStore(filepath.Join(t.TempDir(), "data"), ".json")
	require.NoError(t, err)

	sqlite, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]KV{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": sqlite,
	}
}

func TestKVRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "listTask")
			require.NoError(t, err)
			assert.False(t, ok, "fresh store should not contain the key")

			require.NoError(t, kv.Put(ctx, "listTask", []byte(`[{"id":1,"detail":"mua sữa","status":false}]`)))
			got, ok, err := kv.Get(ctx, "listTask")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[{"id":1,"detail":"mua sữa","status":false}]`, string(got))

			require.NoError(t, kv.Put(ctx, "listTask", []byte(`[]`)))
			got, ok, err = kv.Get(ctx, "listTask")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[]`, string(got))
		})
	}
}

func TestKVKeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	for name, kv := range openBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, kv.Put(ctx, "a", []byte("1")))
			require.NoError(t, kv.Put(ctx, "b", []byte("2")))

			a, _, err := kv.Get(ctx, "a")
			require.NoError(t, err)
			b, _, err := kv.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "1", string(a))
			assert.Equal(t, "2", string(b))
		})
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()
	value := []byte("abc")
	require.NoError(t, kv.Put(ctx, "k", value))
	value[0] = 'z'

	got, _, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewFileStore(dir, "json")
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "listTask", []byte("[]\n")))
	assert.FileExists(t, filepath.Join(dir, "listTask.json"))

	second, err := NewFileStore(dir, ".json")
	require.NoError(t, err)
	got, ok, err := second.Get(ctx, "listTask")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "[]\n", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFileStoreRequiresDir(t *testing.T) {
	_, err := NewFileStore("", ".json")
	assert.Error(t, err)
}

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"listTask", "listTask"},
		{"../etc/passwd", "etc_passwd"},
		{"a b", "a_b"},
		{"", "default"},
		{"///", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeKey(tt.key))
		})
	}
}

func TestSQLitePersistsAcrossConnections(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	first, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, "listTask", []byte(`[{"id":7,"detail":"x","status":true}]`)))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer second.Close()
	got, ok, err := second.Get(ctx, "listTask")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":7,"detail":"x","status":true}]`, string(got))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	kv, err := Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, kv)

	kv, err = Open(ctx, Options{Backend: "", Dir: dir, Ext: ".json"})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, kv)

	kv, err = Open(ctx, Options{Backend: "sqlite3", Dir: dir})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, kv)
	require.NoError(t, kv.Close())
	assert.FileExists(t, filepath.Join(dir, DefaultSQLiteFile))

	_, err = Open(ctx, Options{Backend: "mysql"})
	assert.Error(t, err, "mysql without dsn should fail before dialing")

	_, err = Open(ctx, Options{Backend: "redis"})
	assert.True(t, errors.Is(err, ErrUnknownBackend))
}
