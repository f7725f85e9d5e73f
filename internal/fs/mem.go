package fs

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// MemFilesystem is an in-memory FS for tests, standing in for the real
// disk behind the fake provider (internal/provider/fake).
type MemFilesystem struct {
	mu    sync.RWMutex
	files map[string][]byte
	dirs  map[string]bool
}

func NewMemFilesystem() *MemFilesystem {
	return &MemFilesystem{
		files: make(map[string][]byte),
		dirs:  map[string]bool{"/": true},
	}
}

func clean(path string) string {
	return filepath.Clean(path)
}

func (m *MemFilesystem) markDirs(path string) {
	dir := filepath.Dir(path)
	for dir != "/" && dir != "." {
		m.dirs[dir] = true
		dir = filepath.Dir(dir)
	}
}

func (m *MemFilesystem) Copy(ctx context.Context, src, dst string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[clean(src)]
	if !ok {
		return &zerrors.FileSystemError{Path: src, Kind: "not-found"}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.files[clean(dst)] = cp
	m.markDirs(clean(dst))
	return nil
}

func (m *MemFilesystem) MkdirAll(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := clean(path)
	m.dirs[p] = true
	m.markDirs(p + "/x")
	return nil
}

func (m *MemFilesystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[clean(path)]
	if !ok {
		return nil, &zerrors.FileSystemError{Path: path, Kind: "not-found"}
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (m *MemFilesystem) ReadString(ctx context.Context, path string) (string, error) {
	data, err := m.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &zerrors.FileSystemError{Path: path, Kind: "invalid-utf8-file"}
	}
	return string(data), nil
}

func (m *MemFilesystem) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	p := clean(path)
	m.files[p] = cp
	m.markDirs(p)
	return nil
}

func (m *MemFilesystem) Append(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := clean(path)
	m.files[p] = append(m.files[p], data...)
	m.markDirs(p)
	return nil
}

func (m *MemFilesystem) Exists(ctx context.Context, path string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := clean(path)
	if _, ok := m.files[p]; ok {
		return true
	}
	return m.dirs[p]
}

// ListPrefix returns all file paths beginning with prefix, sorted. Used
// by tests asserting on the set of files a generator produced.
func (m *MemFilesystem) ListPrefix(prefix string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []string
	for p := range m.files {
		if strings.HasPrefix(p, clean(prefix)) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

var _ FS = (*MemFilesystem)(nil)
