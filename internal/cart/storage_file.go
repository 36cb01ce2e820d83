package cart

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage keeps one JSON blob per cart key under a directory. It is the
// on-disk analog of the browser's per-origin key-value store.
type FileStorage struct {
	path string
}

func NewFileStorage(dir, key string) *FileStorage {
	// keys carry a ":" separator between namespace and session id
	name := strings.ReplaceAll(key, ":", "_") + ".json"
	return &FileStorage{path: filepath.Join(dir, name)}
}

func (s *FileStorage) Ping(ctx context.Context) error {
	return os.MkdirAll(filepath.Dir(s.path), 0o755)
}

func (s *FileStorage) Load(ctx context.Context) ([]Line, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeBlob(raw), nil
}

func (s *FileStorage) Save(ctx context.Context, lines []Line) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	// write-then-rename so a crash mid-save leaves the old blob intact
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, encodeBlob(lines), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
