// Package docstore serialises read-modify-write access to the shared JSON
// documents (game state, crew details, manifest) and writes them atomically.
//
// A document lock is an in-process mutex keyed by absolute path plus an
// advisory flock on "<path>.lock", so the watcher, the scheduler and API
// requests cannot interleave their windows even across processes.
package docstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"syscall"
)

const lockSuffix = ".lock"

// ErrNotFound is returned by ReadJSON when the document does not exist.
var ErrNotFound = errors.New("document not found")

type Locker struct {
	mu    sync.Mutex
	paths map[string]*sync.Mutex
}

type Lock struct {
	mu   *sync.Mutex
	file *os.File
}

func NewLocker() *Locker {
	return &Locker{paths: make(map[string]*sync.Mutex)}
}

// Lock blocks until the caller holds the document at path.
func (l *Locker) Lock(path string) (*Lock, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving document path: %w", err)
	}

	l.mu.Lock()
	mu, ok := l.paths[abs]
	if !ok {
		mu = &sync.Mutex{}
		l.paths[abs] = mu
	}
	l.mu.Unlock()

	mu.Lock()

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("creating document dir: %w", err)
	}

	file, err := os.OpenFile(abs+lockSuffix, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		mu.Unlock()
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		file.Close()
		mu.Unlock()
		return nil, fmt.Errorf("locking %s: %w", filepath.Base(abs), err)
	}

	return &Lock{mu: mu, file: file}, nil
}

// With runs fn while holding the document lock.
func (l *Locker) With(path string, fn func() error) error {
	lock, err := l.Lock(path)
	if err != nil {
		return err
	}
	defer lock.Release()

	return fn()
}

func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	defer l.mu.Unlock()

	if err := syscall.Flock(int(l.file.Fd()), syscall.LOCK_UN); err != nil {
		_ = l.file.Close()
		l.file = nil
		return fmt.Errorf("unlocking document: %w", err)
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ReadJSON decodes the document at path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	return nil
}

// WriteJSON encodes v with two-space indentation and writes it atomically.
// HTML characters are not escaped so prose survives byte for byte.
func WriteJSON(path string, v any) error {
	data, err := MarshalIndent(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	return WriteFile(path, data)
}

// MarshalIndent is json.MarshalIndent without HTML escaping, newline terminated.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile replaces path with data via a temp file and rename, so readers
// never observe a partially written document.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating document dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpFile.Name(), path); err != nil {
		_ = os.Remove(tmpFile.Name())
		return fmt.Errorf("persisting %s: %w", filepath.Base(path), err)
	}

	return nil
}
