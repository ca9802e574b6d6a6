package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStorage keeps one .sav file per session in a directory. This is
// the classic on-disk save; LoadState treats a missing file as "no
// save to load".
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

var _ Storage = (*FileStorage)(nil)

func NewFileStorage(dir string, logger *slog.Logger) *FileStorage {
	if dir == "" {
		dir = "."
	}
	return &FileStorage{dir: dir, logger: logger}
}

func (f *FileStorage) path(id uuid.UUID) string {
	return filepath.Join(f.dir, id.String()+".sav")
}

func (f *FileStorage) SaveState(ctx context.Context, id uuid.UUID, snapshot string) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create save directory: %w", err)
	}
	if err := os.WriteFile(f.path(id), []byte(snapshot), 0o644); err != nil {
		f.logger.Error("Failed to write save file", "uuid", id, "error", err)
		return fmt.Errorf("failed to write save file: %w", err)
	}
	return nil
}

func (f *FileStorage) LoadState(ctx context.Context, id uuid.UUID) (string, error) {
	data, err := os.ReadFile(f.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		f.logger.Error("Failed to read save file", "uuid", id, "error", err)
		return "", fmt.Errorf("failed to read save file: %w", err)
	}
	return string(data), nil
}

func (f *FileStorage) DeleteState(ctx context.Context, id uuid.UUID) error {
	if err := os.Remove(f.path(id)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete save file: %w", err)
	}
	return nil
}

func (f *FileStorage) Ping(ctx context.Context) error {
	if _, err := os.Stat(f.dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("save directory unavailable: %w", err)
	}
	return nil
}

func (f *FileStorage) Close() error { return nil }
