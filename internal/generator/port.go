package generator

import (
	"fmt"
	"net"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// ParkedPort holds a reserved TCP port: the listener is kept open until
// the moment the node process starts, then released via Close (§4.3).
type ParkedPort struct {
	Port     int
	listener *net.TCPListener
}

// Close releases the reservation. It must be called immediately before
// (never long after) the port is handed to a spawned process.
func (p *ParkedPort) Close() error {
	if p.listener == nil {
		return nil
	}
	return p.listener.Close()
}

// GenerateParkedPort binds a listening socket to reserve a free TCP
// port. If preferred is nonzero, that exact port is requested; a
// preferred port is still a "request", not a contract — the backing
// socket is always actually bound, per §4.3's port-parking idiom,
// grounded on the reference generator's TcpListener::bind behavior.
func GenerateParkedPort(preferred int) (*ParkedPort, error) {
	addr := &net.TCPAddr{IP: net.IPv4zero, Port: preferred}
	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, &zerrors.GeneratorError{Kind: "port", Err: fmt.Errorf("bind 0.0.0.0:%d: %w", preferred, err)}
	}
	bound := l.Addr().(*net.TCPAddr).Port
	return &ParkedPort{Port: bound, listener: l}, nil
}
