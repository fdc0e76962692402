package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("blob not found")

// DeletedMarker is appended to a file's base name when it is retired instead of erased.
const DeletedMarker = "_Deleted"

// Store is a path-addressed blob store. Paths are slash separated and relative.
type Store interface {
	Exists(ctx context.Context, p string) (bool, error)
	Write(ctx context.Context, p string, data []byte) error
	Delete(ctx context.Context, p string) error
	Move(ctx context.Context, from, to string) error
}

// DeletedName returns p with DeletedMarker inserted before the extension.
func DeletedName(p string) string {
	ext := path.Ext(p)
	return strings.TrimSuffix(p, ext) + DeletedMarker + ext
}

// MarkDeleted renames p to its deleted name, picking a free name when one
// already exists. It returns the new path.
func MarkDeleted(ctx context.Context, s Store, p string) (string, error) {
	target := DeletedName(p)
	ext := path.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for i := 1; ; i++ {
		exists, err := s.Exists(ctx, target)
		if err != nil {
			return "", err
		}
		if !exists {
			break
		}
		target = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
	if err := s.Move(ctx, p, target); err != nil {
		return "", err
	}
	return target, nil
}

type Local struct {
	root string
}

func NewLocal(root string) *Local {
	return &Local{root: root}
}

func (l *Local) abs(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("storage: empty path")
	}
	return filepath.Join(l.root, filepath.FromSlash(clean)), nil
}

func (l *Local) Exists(_ context.Context, p string) (bool, error) {
	full, err := l.abs(p)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(full)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

func (l *Local) Write(_ context.Context, p string, data []byte) error {
	full, err := l.abs(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func (l *Local) Delete(_ context.Context, p string) error {
	full, err := l.abs(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", p, err)
	}
	return nil
}

func (l *Local) Move(_ context.Context, from, to string) error {
	src, err := l.abs(from)
	if err != nil {
		return err
	}
	dst, err := l.abs(to)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(dst), err)
	}
	if err := os.Rename(src, dst); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("move %s: %w", from, err)
	}
	return nil
}

// Memory keeps blobs in a map.
type Memory struct {
	mu    sync.Mutex
	blobs map[string][]byte
	// FailWrites makes every Write fail; used to exercise abort paths.
	FailWrites bool
}

func NewMemory() *Memory {
	return &Memory{blobs: map[string][]byte{}}
}

func (m *Memory) Exists(_ context.Context, p string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.blobs[p]
	return ok, nil
}

func (m *Memory) Write(_ context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return fmt.Errorf("write %s: storage unavailable", p)
	}
	m.blobs[p] = append([]byte(nil), data...)
	return nil
}

func (m *Memory) Delete(_ context.Context, p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[p]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, p)
	return nil
}

func (m *Memory) Move(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.blobs[from]
	if !ok {
		return ErrNotFound
	}
	delete(m.blobs, from)
	m.blobs[to] = data
	return nil
}

// Paths returns every stored path.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.blobs))
	for p := range m.blobs {
		out = append(out, p)
	}
	return out
}
