package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps each key in its own file under Dir.
type FileStore struct {
	Dir string
	Ext string
}

// NewFileStore creates dir if needed and returns a store rooted there.
func NewFileStore(dir, ext string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file backend requires a data directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &FileStore{Dir: dir, Ext: ext}, nil
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.Dir, sanitizeKey(key)+s.Ext)
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}
	return data, true, nil
}

// Put writes value to a temp file in Dir and renames it over the key's file.
func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	path := s.Path(key)
	tmp, err := os.CreateTemp(s.Dir, "."+sanitizeKey(key)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// sanitizeKey maps a key onto a safe file name.
func sanitizeKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return "default"
	}

	var b strings.Builder
	for i := 0; i < len(key); i++ {
		c := key[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '_' || c == '-' || c == '.'
		if !valid {
			b.WriteByte('_')
			continue
		}
		b.WriteByte(c)
	}

	name := strings.Trim(b.String(), "._")
	if name == "" {
		return "default"
	}
	return name
}
