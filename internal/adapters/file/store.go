package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/actionpack/internal/codec"
	"github.com/aretw0/actionpack/pkg/domain"
)

// Store implements ports.StateStore using the local filesystem.
// It stores each session as one YAML or JSON document in a configured directory.
type Store struct {
	BasePath string
	Format   codec.Format
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".actionpack/sessions".
func New(basePath string, format codec.Format) *Store {
	if basePath == "" {
		basePath = filepath.Join(".actionpack", "sessions")
	}
	if format == "" {
		format = codec.YAML
	}
	return &Store{BasePath: basePath, Format: format}
}

func (s *Store) path(sessionID string) string {
	return filepath.Join(s.BasePath, sessionID+s.Format.Ext())
}

// Save writes the session state atomically.
// It writes to a temporary file first, syncs it, and then renames it to the destination.
func (s *Store) Save(ctx context.Context, sessionID string, state any) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure session directory: %w", err)
	}

	data, err := codec.Marshal(state, s.Format)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	return WriteAtomic(s.path(sessionID), data)
}

// WriteAtomic replaces dest with data through a synced temporary file in the
// same directory.
func WriteAtomic(dest string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "tmp-"+filepath.Base(dest)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the session state.
func (s *Store) Load(ctx context.Context, sessionID string) (any, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	data, err := os.ReadFile(s.path(sessionID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	state, err := codec.Unmarshal(data, s.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal session state: %w", err)
	}
	return state, nil
}

// Delete removes the session file.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	err := os.Remove(s.path(sessionID))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// List returns all stored session IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	ext := s.Format.Ext()
	var sessions []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, "tmp-") || filepath.Ext(name) != ext {
			continue
		}
		sessions = append(sessions, strings.TrimSuffix(name, ext))
	}
	return sessions, nil
}
