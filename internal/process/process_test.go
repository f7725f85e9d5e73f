package process

import (
	"context"
	"io"
	"testing"
)

func TestFakeManagerCapturesStartedCommands(t *testing.T) {
	m := NewFakeManager()
	ctx := context.Background()

	cmd := Command{Program: "polkadot", Args: []string{"--chain", "rococo-local.json"}}
	proc, err := m.Start(ctx, cmd)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if proc.PID() == 0 {
		t.Fatal("expected a nonzero fake PID")
	}

	started := m.Started()
	if len(started) != 1 || started[0].Program != "polkadot" {
		t.Fatalf("got %+v, want one polkadot command", started)
	}
}

func TestFakeManagerStdoutIsConsumedOnce(t *testing.T) {
	m := NewFakeManager()
	m.OnStart(func(cmd Command) (string, string, error) {
		return "hello\n", "", nil
	})

	proc, err := m.Start(context.Background(), Command{Program: "polkadot"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first := proc.Stdout()
	if first == nil {
		t.Fatal("expected stdout on first call")
	}
	data, _ := io.ReadAll(first)
	if string(data) != "hello\n" {
		t.Fatalf("got %q", data)
	}

	second := proc.Stdout()
	if second != nil {
		t.Fatal("expected nil on second call, stream should be consumed once")
	}
}

func TestFakeProcessCloseIsIdempotent(t *testing.T) {
	m := NewFakeManager()
	proc, _ := m.Start(context.Background(), Command{Program: "polkadot"})
	if err := proc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := proc.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
