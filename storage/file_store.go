package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog/log"
)

const sessionFileName = "session.json"

var _ Store = (*FileStore)(nil)

// FileStore keeps all entries in a single JSON object on disk. Every call
// goes to the file so that a restarted process sees the last write.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store rooted at folder. A leading ~ is expanded to
// the user's home directory.
func NewFileStore(folder string) (*FileStore, error) {
	expanded, err := homedir.Expand(folder)
	if err != nil {
		return nil, fmt.Errorf("error expanding storage folder %s: %w", folder, err)
	}
	return &FileStore{path: filepath.Join(expanded, sessionFileName)}, nil
}

// Path is the location of the backing file.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	value, ok := f.load()[key]
	return value, ok
}

func (f *FileStore) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	entries := f.load()
	entries[key] = value
	return f.save(entries)
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := f.load()
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.save(entries)
}

// load never fails; an unreadable file is treated as empty.
func (f *FileStore) load() map[string]string {
	entries := make(map[string]string)
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", f.path).Msg("Unable to read session storage")
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Warn().Err(err).Str("path", f.path).Msg("Ignoring malformed session storage")
		return make(map[string]string)
	}
	return entries
}

func (f *FileStore) save(entries map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating storage folder %s: %w", dir, err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("error marshaling session storage: %w", err)
	}

	tmp, err := os.CreateTemp(dir, sessionFileName+".*")
	if err != nil {
		return fmt.Errorf("error creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("error setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("error writing to %s: %w", f.path, err)
	}
	return nil
}
