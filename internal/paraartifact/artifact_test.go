package paraartifact

import (
	"context"
	"testing"

	"github.com/paritytech/zombienet-go/internal/fs"
	"github.com/paritytech/zombienet-go/internal/process"
)

func TestBuildCopiesProvidedPath(t *testing.T) {
	memfs := fs.NewMemFilesystem()
	ctx := context.Background()
	if err := memfs.WriteFile(ctx, "/provided/2000.wasm", []byte("wasm-bytes"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	b := &Builder{Manager: process.NewFakeManager(), FS: memfs}
	data, err := b.Build(ctx, Request{ParaID: 2000, Kind: KindWASM, ProvidedPath: "/provided/2000.wasm", Dest: "/ns/2000.wasm"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if string(data) != "wasm-bytes" {
		t.Fatalf("got %q", data)
	}
}

func TestBuildRunsExportCommandWhenNoPathProvided(t *testing.T) {
	manager := process.NewFakeManager()
	manager.OnStart(func(cmd process.Command) (string, string, error) {
		return "exported-state", "", nil
	})

	b := &Builder{Manager: manager, FS: fs.NewMemFilesystem()}
	data, err := b.Build(context.Background(), Request{
		ParaID: 2000,
		Kind:   KindState,
		Binary: "collator",
		Args:   []string{"export-genesis-state"},
		Dest:   "/ns/2000.state",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if string(data) != "exported-state" {
		t.Fatalf("got %q", data)
	}
}

func TestBuildOverrideSkipsExportEntirely(t *testing.T) {
	manager := process.NewFakeManager()
	manager.OnStart(func(cmd process.Command) (string, string, error) {
		t.Fatal("override should not invoke the export command")
		return "", "", nil
	})

	b := &Builder{Manager: manager, FS: fs.NewMemFilesystem()}
	data, err := b.Build(context.Background(), Request{
		ParaID:   2000,
		Kind:     KindWASM,
		Override: []byte("forced-wasm"),
		Dest:     "/ns/2000.wasm",
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if string(data) != "forced-wasm" {
		t.Fatalf("got %q", data)
	}
}
