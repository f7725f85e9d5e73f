package fs

import (
	"context"
	"testing"
)

func TestMemFilesystemWriteReadRoundTrip(t *testing.T) {
	m := NewMemFilesystem()
	ctx := context.Background()

	if err := m.WriteFile(ctx, "/ns/nodes/alice/node.log", []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := m.ReadString(ctx, "/ns/nodes/alice/node.log")
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if got != "hello" {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if !m.Exists(ctx, "/ns/nodes/alice/node.log") {
		t.Fatal("expected file to exist")
	}
	if !m.Exists(ctx, "/ns/nodes/alice") {
		t.Fatal("expected parent directory to be marked")
	}
}

func TestMemFilesystemReadMissingFile(t *testing.T) {
	m := NewMemFilesystem()
	if _, err := m.ReadFile(context.Background(), "/does/not/exist"); err == nil {
		t.Fatal("expected error reading a missing file")
	}
}

func TestMemFilesystemAppend(t *testing.T) {
	m := NewMemFilesystem()
	ctx := context.Background()
	if err := m.Append(ctx, "/log", []byte("a")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := m.Append(ctx, "/log", []byte("b")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, _ := m.ReadString(ctx, "/log")
	if got != "ab" {
		t.Fatalf("got %q, want %q", got, "ab")
	}
}

func TestScopedFSRejectsEscape(t *testing.T) {
	m := NewMemFilesystem()
	scoped := NewScopedFS(m, "/ns/alice")
	ctx := context.Background()

	if err := scoped.WriteFile(ctx, "../bob/secret", []byte("x"), 0o644); err == nil {
		t.Fatal("expected escape attempt to be rejected")
	}
}

func TestScopedFSResolvesWithinRoot(t *testing.T) {
	m := NewMemFilesystem()
	scoped := NewScopedFS(m, "/ns/alice")
	ctx := context.Background()

	if err := scoped.WriteFile(ctx, "keystore/aura.key", []byte("seed"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if !m.Exists(ctx, "/ns/alice/keystore/aura.key") {
		t.Fatal("expected write to land under the scoped root in the backing fs")
	}
}
