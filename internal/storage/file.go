// internal/storage/file.go
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// Store is durable key/value persistence for client state. Each key holds one
// serialized value written atomically as a whole; there are no partial
// writes of a collection.
type Store interface {
	// Read loads the value under key into v. It returns false when the key
	// does not exist. A corrupted value is cleared and treated as absent, so
	// callers reset instead of failing.
	Read(key string, v interface{}) (bool, error)
	Write(key string, v interface{}) error
	Delete(key string) error
}

// FileStore keeps one JSON file per key under a base directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
	log *logrus.Entry
}

var _ Store = (*FileStore)(nil)

func NewFileStore(dir string, log *logrus.Logger) *FileStore {
	return &FileStore{
		dir: dir,
		log: log.WithField("component", "storage"),
	}
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

func (s *FileStore) Read(key string, v interface{}) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		// Corrupted state is unrecoverable by retrying; clear it so the
		// caller starts from an empty value.
		s.log.WithError(err).WithField("key", key).Warn("clearing corrupted storage value")
		os.Remove(path)
		return false, nil
	}
	return true, nil
}

func (s *FileStore) Write(key string, v interface{}) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	// Write through a temp file and rename so a crash mid-write never leaves
	// a partially-written value under the key.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *FileStore) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
