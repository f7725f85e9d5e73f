// Package fs abstracts filesystem access so the orchestrator can run
// against either the real OS filesystem or an in-memory fake during
// tests, per a single FS interface.
package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// FS is the async file/directory operation surface every provider and
// generator is written against.
type FS interface {
	Copy(ctx context.Context, src, dst string) error
	MkdirAll(ctx context.Context, path string) error
	ReadFile(ctx context.Context, path string) ([]byte, error)
	ReadString(ctx context.Context, path string) (string, error)
	WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error
	Append(ctx context.Context, path string, data []byte) error
	Exists(ctx context.Context, path string) bool
}

// OSFilesystem is the real-disk implementation.
type OSFilesystem struct{}

func NewOSFilesystem() *OSFilesystem { return &OSFilesystem{} }

func classify(path string, err error) error {
	switch {
	case err == nil:
		return nil
	case os.IsNotExist(err):
		return &zerrors.FileSystemError{Path: path, Kind: "not-found", Err: err}
	case os.IsExist(err):
		return &zerrors.FileSystemError{Path: path, Kind: "already-exists", Err: err}
	default:
		return &zerrors.FileSystemError{Path: path, Kind: "other", Err: err}
	}
}

func (o *OSFilesystem) Copy(ctx context.Context, src, dst string) error {
	if !utf8.ValidString(src) {
		return &zerrors.FileSystemError{Path: src, Kind: "invalid-utf8-path"}
	}
	in, err := os.Open(src)
	if err != nil {
		return classify(src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return classify(src, err)
	}
	if info.IsDir() {
		return &zerrors.FileSystemError{Path: src, Kind: "is-directory"}
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return classify(dst, err)
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode())
	if err != nil {
		return classify(dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return classify(dst, err)
	}
	return nil
}

func (o *OSFilesystem) MkdirAll(ctx context.Context, path string) error {
	return classify(path, os.MkdirAll(path, 0o755))
}

func (o *OSFilesystem) ReadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, classify(path, err)
	}
	return data, nil
}

func (o *OSFilesystem) ReadString(ctx context.Context, path string) (string, error) {
	data, err := o.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", &zerrors.FileSystemError{Path: path, Kind: "invalid-utf8-file"}
	}
	return string(data), nil
}

func (o *OSFilesystem) WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return classify(path, err)
	}
	return classify(path, os.WriteFile(path, data, perm))
}

func (o *OSFilesystem) Append(ctx context.Context, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return classify(path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return classify(path, err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return classify(path, err)
	}
	return nil
}

func (o *OSFilesystem) Exists(ctx context.Context, path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var _ FS = (*OSFilesystem)(nil)
