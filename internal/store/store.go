package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// DefaultKey is the slot key holding the task sequence.
const DefaultKey = "tasks"

// ErrMalformed reports a slot whose value is not a JSON array of strings.
var ErrMalformed = errors.New("malformed task slot")

// TaskStore loads and saves the ordered task sequence.
type TaskStore interface {
	// Load returns the persisted sequence. An absent slot yields an empty
	// sequence and a nil error.
	Load() ([]string, error)
	// Save replaces the persisted sequence.
	Save(tasks []string) error
}

// Backend names a TaskStore implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// Backends lists the supported backend names.
func Backends() []Backend {
	return []Backend{BackendFile, BackendSQLite, BackendMemory}
}

// Options selects and configures a backend for Open.
type Options struct {
	Backend Backend
	// Path is the document or database path. Ignored by the memory backend.
	Path string
	// Key is the slot key. Empty means DefaultKey.
	Key string
}

// Open constructs the backend named by opts. The returned closer releases
// backend resources and is always non-nil on success.
func Open(opts Options) (TaskStore, io.Closer, error) {
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	switch opts.Backend {
	case BackendFile, "":
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("file store: path is empty")
		}
		return NewFileStore(opts.Path, key), nopCloser{}, nil
	case BackendSQLite:
		if opts.Path == "" {
			return nil, nil, fmt.Errorf("sqlite store: path is empty")
		}
		s, err := NewSQLiteStore(opts.Path, key)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case BackendMemory:
		return NewMemoryStore(), nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// decodeSlot parses a slot value. Values that are not JSON, or not an
// array of strings, return an empty sequence and an ErrMalformed error.
func decodeSlot(raw []byte) ([]string, error) {
	var value interface{}
	if err := json.Unmarshal(raw, &value); err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validateSlot(value); err != nil {
		return []string{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	items, _ := value.([]interface{})
	tasks := make([]string, 0, len(items))
	for _, item := range items {
		s, _ := item.(string)
		tasks = append(tasks, s)
	}
	return tasks, nil
}

// encodeSlot renders the sequence as a JSON array. A nil sequence encodes
// as [] rather than null.
func encodeSlot(tasks []string) ([]byte, error) {
	if tasks == nil {
		tasks = []string{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal tasks: %w", err)
	}
	return data, nil
}
