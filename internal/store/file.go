package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore keeps slots as members of a JSON object document on disk.
type FileStore struct {
	path string
	key  string
}

// NewFileStore returns a store for the slot key inside the document at path.
func NewFileStore(path, key string) *FileStore {
	if key == "" {
		key = DefaultKey
	}
	return &FileStore{path: path, key: key}
}

// Load reads the slot from the document.
func (s *FileStore) Load() ([]string, error) {
	doc, err := s.readDocument()
	if err != nil {
		return []string{}, err
	}
	raw, ok := doc[s.key]
	if !ok {
		return []string{}, nil
	}
	return decodeSlot(raw)
}

// Save writes the slot, keeping every other member of the document. A
// malformed document is replaced.
func (s *FileStore) Save(tasks []string) error {
	doc, err := s.readDocument()
	if err != nil {
		if !errors.Is(err, ErrMalformed) {
			return err
		}
		doc = map[string]json.RawMessage{}
	}

	value, err := encodeSlot(tasks)
	if err != nil {
		return err
	}
	doc[s.key] = value

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage document: %w", err)
	}
	data = append(data, '\n')

	return writeFileAtomic(s.path, data)
}

func (s *FileStore) readDocument() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read storage document: %w", err)
	}

	doc := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: storage document %s: %v", ErrMalformed, s.path, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write storage document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close storage document: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod storage document: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace storage document: %w", err)
	}
	return nil
}
