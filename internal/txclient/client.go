// Package txclient builds, signs, submits, and follows Substrate
// extrinsics to finality over a node's JSON-RPC WebSocket endpoint
// (§4.9): parachain registration, validator rotation, runtime upgrade,
// and HRMP channel management, all issued as a `Sudo`-wrapped call (or
// a `Utility.batch` of several).
package txclient

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/paritytech/zombienet-go/internal/zerrors"
)

// Client holds one JSON-RPC WebSocket connection to a node, re-used
// across every extrinsic the orchestrator submits against it.
type Client struct {
	conn   *websocket.Conn
	nextID atomic.Uint64

	// Signer is the account every extrinsic built with this client is
	// signed by, unless a call site provides its own.
	Signer Signer
}

// Dial opens a JSON-RPC WebSocket connection to a node's RPC endpoint
// (e.g. "ws://127.0.0.1:9944").
func Dial(ctx context.Context, wsURL string, signer Signer) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: fmt.Errorf("dial %s: %w", wsURL, err)}
	}
	return &Client{conn: conn, Signer: signer}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string { return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message) }

// call performs a single, non-subscribing JSON-RPC round trip.
func (c *Client) call(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	id := c.nextID.Add(1)
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: method, Params: params}
	if err := c.conn.WriteJSON(req); err != nil {
		return nil, &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: err}
	}

	for {
		var resp rpcResponse
		if err := c.readWithDeadline(ctx, &resp); err != nil {
			return nil, err
		}
		if resp.ID != id {
			continue // a subscription notification interleaved with our reply
		}
		if resp.Error != nil {
			return nil, &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: resp.Error}
		}
		return resp.Result, nil
	}
}

func (c *Client) readWithDeadline(ctx context.Context, v *rpcResponse) error {
	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetReadDeadline(deadline)
	}
	return c.conn.ReadJSON(v)
}

// ExtrinsicStatus is one status frame from an
// author_submitAndWatchExtrinsic subscription.
type ExtrinsicStatus struct {
	InBlock    string
	Finalized  string
	Invalid    string
	Dropped    string
	Broadcast  []string
	usurped    bool
}

// Terminal reports whether this status ends the subscription: finality
// reached, or the extrinsic can never be included.
func (s ExtrinsicStatus) Terminal() bool {
	return s.Finalized != "" || s.Invalid != "" || s.Dropped != "" || s.usurped
}

// Failed reports whether Terminal() was reached by failure rather than
// finality.
func (s ExtrinsicStatus) Failed() bool {
	return s.Invalid != "" || s.Dropped != "" || s.usurped
}

func parseStatus(raw json.RawMessage) ExtrinsicStatus {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		switch asString {
		case "invalid":
			return ExtrinsicStatus{Invalid: asString}
		case "dropped":
			return ExtrinsicStatus{Dropped: asString}
		case "usurped":
			return ExtrinsicStatus{usurped: true}
		}
		return ExtrinsicStatus{}
	}
	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asObject); err != nil {
		return ExtrinsicStatus{}
	}
	var status ExtrinsicStatus
	if v, ok := asObject["inBlock"]; ok {
		_ = json.Unmarshal(v, &status.InBlock)
	}
	if v, ok := asObject["finalized"]; ok {
		_ = json.Unmarshal(v, &status.Finalized)
	}
	if v, ok := asObject["broadcast"]; ok {
		_ = json.Unmarshal(v, &status.Broadcast)
	}
	return status
}

// SubmitAndWatch submits a signed extrinsic and blocks until it reaches
// finality, fails, or ctx is done — the same fail-fast-on-Invalid/
// Dropped contract as the rest of §4.9's transaction helpers.
func (c *Client) SubmitAndWatch(ctx context.Context, extrinsicHex string) (finalizedBlockHash string, err error) {
	id := c.nextID.Add(1)
	req := rpcRequest{JSONRPC: "2.0", ID: id, Method: "author_submitAndWatchExtrinsic", Params: []any{extrinsicHex}}
	if err := c.conn.WriteJSON(req); err != nil {
		return "", &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: err}
	}

	var subscriptionID string
	for {
		var resp rpcResponse
		if err := c.readWithDeadline(ctx, &resp); err != nil {
			return "", &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: err}
		}

		if resp.ID == id && subscriptionID == "" {
			if resp.Error != nil {
				return "", &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: resp.Error}
			}
			_ = json.Unmarshal(resp.Result, &subscriptionID)
			continue
		}

		if resp.Method != "author_extrinsicUpdate" {
			continue
		}
		var notification struct {
			Params struct {
				Result json.RawMessage `json:"result"`
			} `json:"params"`
		}
		if err := json.Unmarshal(append(append([]byte(`{"params":`), resp.Params...), '}'), &notification); err != nil {
			continue
		}
		status := parseStatus(notification.Params.Result)
		if status.Failed() {
			return "", &zerrors.ProviderError{Provider: "txclient", Kind: "io", Err: fmt.Errorf("extrinsic failed: %+v", status)}
		}
		if status.Finalized != "" {
			return status.Finalized, nil
		}
	}
}

// WaitBlocks blocks until n new relay-chain blocks have been finalized,
// used before submitting parachain-registration extrinsics against a
// freshly spawned relay chain (§4.9's "after three finalized relay
// blocks" wait).
func (c *Client) WaitBlocks(ctx context.Context, n int) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	seen := 0
	var last string
	for seen < n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			raw, err := c.call(ctx, "chain_getFinalizedHead")
			if err != nil {
				return err
			}
			var head string
			if err := json.Unmarshal(raw, &head); err != nil {
				return err
			}
			if last != "" && head != last {
				seen++
			}
			last = head
		}
	}
	return nil
}
