package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jsamuelsen/quote-widget/internal/domain"
)

const (
	fileDirPerm  = 0o755
	fileDataPerm = 0o600
)

// errCorruptFile marks a backing file that exists but does not decode.
var errCorruptFile = errors.New("corrupt storage file")

// File persists all keys as one JSON object, e.g.
//
//	{"favoriteQuotes": "[{\"id\":\"q1\",...}]"}
//
// Values are stored as strings, the same shape browser localStorage uses.
// Writes go to a temp file that is renamed over the original.
type File struct {
	mu   sync.Mutex
	path string
}

// OpenFile creates a file store, creating the parent directory if needed.
// The file itself is created on first write.
func OpenFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("storage path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), fileDirPerm); err != nil {
		return nil, fmt.Errorf("creating storage directory: %w", err)
	}

	return &File{path: path}, nil
}

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// Get returns the stored value or domain.ErrNotFound.
// A corrupt file is reported as a persistence error.
func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, domain.NewPersistenceError("load", key, err)
	}

	v, ok := values[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return []byte(v), nil
}

// Set stores value under key, keeping the other keys in the file.
// A corrupt file is replaced; any other read failure is returned so the
// keys already on disk are not lost.
func (f *File) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	switch {
	case errors.Is(err, errCorruptFile):
		values = make(map[string]string)
	case err != nil:
		return domain.NewPersistenceError("save", key, err)
	}

	values[key] = string(value)

	if err := f.write(values); err != nil {
		return domain.NewPersistenceError("save", key, err)
	}

	return nil
}

// Close is a no-op; the file is not held open.
func (f *File) Close() error { return nil }

// Name implements ports.HealthChecker.
func (f *File) Name() string { return "storage" }

// Check verifies the storage directory is reachable.
func (f *File) Check(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(f.path))
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(f.path))
	}

	return nil
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}

	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %w", errCorruptFile, f.path, err)
	}

	return values, nil
}

func (f *File) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}

	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Chmod(fileDataPerm); err != nil {
		_ = tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpName, f.path)
}
