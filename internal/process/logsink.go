package process

import (
	"context"
	"io"
)

// PipeToLog copies r to a log file appender until r is exhausted or ctx
// is cancelled. Write failures are dropped, never propagated — per
// §4.2's resilience requirement that transient log-write errors must
// never affect a node's lifecycle.
func PipeToLog(ctx context.Context, r io.ReadCloser, appendFn func([]byte) error) {
	defer r.Close()
	buf := make([]byte, 4096)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, err := r.Read(buf)
		if n > 0 {
			_ = appendFn(buf[:n]) // dropped on failure by design
		}
		if err != nil {
			return
		}
	}
}
