package storage

import (
	"context"
	"errors"
	"fmt"
	"launcher/internal/domain"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// FileOfflineStore хранит офлайн-документы файлами <dir>/<name>.json,
// поставляемыми вместе с лаунчером.
type FileOfflineStore struct {
	dir string
	log *slog.Logger
}

func NewFileOfflineStore(dir string, log *slog.Logger) *FileOfflineStore {
	return &FileOfflineStore{
		dir: dir,
		log: log.With(slog.String("component", "offline-store"), slog.String("backend", "file")),
	}
}

func (s *FileOfflineStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid document name %q", name)
	}
	return filepath.Join(s.dir, name+".json"), nil
}

// Load читает документ с диска.
func (s *FileOfflineStore) Load(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrOfflineRead, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: file not found: %s", domain.ErrOfflineRead, path)
		}
		return nil, fmt.Errorf("%w: failed to read file %s: %v", domain.ErrOfflineRead, path, err)
	}
	return data, nil
}

// Save атомарно заменяет документ: запись во временный файл и переименование.
func (s *FileOfflineStore) Save(ctx context.Context, name string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create offline dir %s: %w", s.dir, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	s.log.Info("Offline document saved", slog.String("document", name), slog.Int("bytes", len(body)))
	return nil
}

func (s *FileOfflineStore) Close() {}
