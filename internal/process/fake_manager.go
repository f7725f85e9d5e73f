package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// FakeManager stands in for a real child process during tests: Start
// returns a fakeProcess immediately without touching the OS, per §4.2's
// explicit requirement for a fake ProcessManager implementation and
// §4.6/§4.8's fake-provider testing seam.
type FakeManager struct {
	nextPID int32

	mu       sync.Mutex
	started  []Command
	onStart  func(cmd Command) (stdout, stderr string, exitErr error)
}

func NewFakeManager() *FakeManager {
	return &FakeManager{nextPID: 1000}
}

// OnStart installs a hook controlling the captured output and exit
// error for every subsequently started command.
func (m *FakeManager) OnStart(f func(cmd Command) (stdout, stderr string, exitErr error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onStart = f
}

// Started returns every Command passed to Start, in order.
func (m *FakeManager) Started() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.started))
	copy(out, m.started)
	return out
}

func (m *FakeManager) Start(ctx context.Context, cmd Command) (Process, error) {
	m.mu.Lock()
	m.started = append(m.started, cmd)
	hook := m.onStart
	m.mu.Unlock()

	pid := int(atomic.AddInt32(&m.nextPID, 1))

	var stdout, stderr string
	var exitErr error
	if hook != nil {
		stdout, stderr, exitErr = hook(cmd)
	}

	return &fakeProcess{
		pid:     pid,
		stdout:  io.NopCloser(bytes.NewBufferString(stdout)),
		stderr:  io.NopCloser(bytes.NewBufferString(stderr)),
		exitErr: exitErr,
		done:    make(chan struct{}),
	}, nil
}

type fakeProcess struct {
	pid     int
	stdout  io.ReadCloser
	stderr  io.ReadCloser
	exitErr error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func (p *fakeProcess) PID() int { return p.pid }

func (p *fakeProcess) Stdout() io.ReadCloser {
	r := p.stdout
	p.stdout = nil
	return r
}

func (p *fakeProcess) Stderr() io.ReadCloser {
	r := p.stderr
	p.stderr = nil
	return r
}

func (p *fakeProcess) Wait(ctx context.Context) error {
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return p.exitErr
}

func (p *fakeProcess) Signal(sig os.Signal) error { return nil }

func (p *fakeProcess) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	select {
	case <-p.done:
	default:
		close(p.done)
	}
	return nil
}

var _ Manager = (*FakeManager)(nil)
var _ Process = (*fakeProcess)(nil)

// errNotStarted is a descriptive sentinel a test's OnStart hook can
// return to simulate a node that fails to spawn.
var errNotStarted = fmt.Errorf("fake process failed to start")

// ErrNotStarted returns the sentinel error fake tests can assert on.
func ErrNotStarted() error { return errNotStarted }
