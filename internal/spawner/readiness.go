package spawner

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// DefaultNodeSpawnTimeout matches ZOMBIE_NODE_SPAWN_TIMEOUT_SECONDS'
// default (§4.7, §6.2).
const DefaultNodeSpawnTimeout = 600 * time.Second

const (
	readinessInitialBackoff = 1 * time.Second
	readinessMaxBackoff     = 8 * time.Second
)

// WaitReady polls promURL (a node's Prometheus /metrics endpoint) until
// it answers HTTP 200, backing off exponentially between attempts —
// the same shape as the teacher's internal/provision/retry.go
// WithRetry, retargeted from a download op to an HTTP readiness probe —
// or returns a GlobalTimeoutError once timeout elapses.
func WaitReady(ctx context.Context, client *http.Client, nodeName, promURL string, timeout time.Duration) error {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	if timeout <= 0 {
		timeout = DefaultNodeSpawnTimeout
	}

	deadline := time.Now().Add(timeout)
	backoff := readinessInitialBackoff

	for {
		ok, err := probe(ctx, client, promURL)
		if ok {
			return nil
		}
		_ = err // transient probe errors are expected while the node boots

		if time.Now().After(deadline) {
			return &zerrors.GlobalTimeoutError{Phase: fmt.Sprintf("node %q readiness", nodeName), Seconds: int(timeout.Seconds())}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > readinessMaxBackoff {
			backoff = readinessMaxBackoff
		}
	}
}

func probe(ctx context.Context, client *http.Client, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	// Drain the body with bufio.Scanner rather than io.ReadAll: a
	// readiness probe only needs the status code, but leaving the
	// connection's body unread prevents reuse from the client's pool.
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
	}

	return resp.StatusCode == http.StatusOK, nil
}
