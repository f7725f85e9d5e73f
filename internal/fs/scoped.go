package fs

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// ScopedFS resolves every path it is given relative to a fixed root and
// rejects any path that would lexically escape that root, so a
// namespace can never read or write outside its own directory.
type ScopedFS struct {
	inner FS
	root  string
}

func NewScopedFS(inner FS, root string) *ScopedFS {
	return &ScopedFS{inner: inner, root: filepath.Clean(root)}
}

func (s *ScopedFS) Root() string { return s.root }

func (s *ScopedFS) resolve(path string) (string, error) {
	joined := filepath.Join(s.root, path)
	cleaned := filepath.Clean(joined)
	if cleaned != s.root && !strings.HasPrefix(cleaned, s.root+string(filepath.Separator)) {
		return "", &zerrors.FileSystemError{
			Path: path,
			Kind: "other",
			Err:  filepathEscapeErr(path, s.root),
		}
	}
	return cleaned, nil
}

func filepathEscapeErr(path, root string) error {
	return &pathEscapeError{path: path, root: root}
}

type pathEscapeError struct {
	path, root string
}

func (e *pathEscapeError) Error() string {
	return "path " + e.path + " escapes root " + e.root
}

func (s *ScopedFS) Copy(ctx context.Context, src, dst string) error {
	rs, err := s.resolve(src)
	if err != nil {
		return err
	}
	rd, err := s.resolve(dst)
	if err != nil {
		return err
	}
	return s.inner.Copy(ctx, rs, rd)
}

func (s *ScopedFS) MkdirAll(ctx context.Context, path string) error {
	rp, err := s.resolve(path)
	if err != nil {
		return err
	}
	return s.inner.MkdirAll(ctx, rp)
}

func (s *ScopedFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	rp, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	return s.inner.ReadFile(ctx, rp)
}

func (s *ScopedFS) ReadString(ctx context.Context, path string) (string, error) {
	rp, err := s.resolve(path)
	if err != nil {
		return "", err
	}
	return s.inner.ReadString(ctx, rp)
}

func (s *ScopedFS) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	rp, err := s.resolve(path)
	if err != nil {
		return err
	}
	return s.inner.WriteFile(ctx, rp, data, perm)
}

func (s *ScopedFS) Append(ctx context.Context, path string, data []byte) error {
	rp, err := s.resolve(path)
	if err != nil {
		return err
	}
	return s.inner.Append(ctx, rp, data)
}

func (s *ScopedFS) Exists(ctx context.Context, path string) bool {
	rp, err := s.resolve(path)
	if err != nil {
		return false
	}
	return s.inner.Exists(ctx, rp)
}

var _ FS = (*ScopedFS)(nil)
