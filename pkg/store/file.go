package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/bploeckelman/nodes/pkg/errors"
)

const fileExt = ".json"

// FileStore keeps each document as a JSON file in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store rooted at baseDir.
// If baseDir is empty, defaults to ~/.config/nodes/documents/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "nodes", "documents")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, storageError(err, "create document dir")
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) documentPath(name string) (string, error) {
	if err := errors.ValidateDocumentName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, name+fileExt), nil
}

func (s *FileStore) Get(ctx context.Context, name string) ([]byte, error) {
	path, err := s.documentPath(name)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(name)
		}
		return nil, storageError(err, "read document %q", name)
	}
	return data, nil
}

// Put writes the document to a temporary file and renames it into place,
// so a reader never sees a partial document.
func (s *FileStore) Put(ctx context.Context, name string, body []byte) error {
	path, err := s.documentPath(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o600); err != nil {
		return storageError(err, "write document %q", name)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return storageError(err, "write document %q", name)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, name string) error {
	path, err := s.documentPath(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return storageError(err, "remove document %q", name)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, storageError(err, "read document dir")
	}

	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != fileExt {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fileExt)
		if errors.ValidateDocumentName(name) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{Name: name, Size: int(info.Size()), UpdatedAt: info.ModTime()})
	}
	slices.SortFunc(out, func(a, b Entry) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding the document files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
