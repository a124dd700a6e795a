// Package settingsstore holds the storefront.SettingsRepository backends
// selected by settings.backend.
package settingsstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/oscarpiresjunior/pedidos-print-foods/internal/domain/storefront"
)

// FileStore keeps the snapshot in a single JSON file
type FileStore struct {
	path string
	mu   sync.RWMutex
}

// NewFileStore creates a store writing to path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file location
func (s *FileStore) Path() string {
	return s.path
}

// Get reads the snapshot, merging it over the defaults
func (s *FileStore) Get(ctx context.Context) (*storefront.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, storefront.ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	return storefront.DecodeSnapshot(data)
}

// Save replaces the file through a temp file and rename
func (s *FileStore) Save(ctx context.Context, snapshot *storefront.Snapshot) error {
	data, err := storefront.EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create settings temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}

var _ storefront.SettingsRepository = (*FileStore)(nil)
