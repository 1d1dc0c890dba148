// Package rpc is a minimal JSON-RPC 2.0 client for a Solana endpoint.
// The resolver treats the endpoint as an untrusted, possibly stale,
// possibly unavailable oracle, so every call sits behind a circuit
// breaker and a bounded retry loop.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"ticket-pass/monitoring"
	"ticket-pass/solana"
	"ticket-pass/utils"
)

// Client talks to one RPC endpoint.
type Client struct {
	endpoint string
	hc       *http.Client
	breaker  *utils.CircuitBreaker

	maxRetries int
	backoff    time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		hc: &http.Client{
			Timeout: timeout,
		},
		breaker:    utils.NewCircuitBreaker("solana-rpc"),
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call posts one JSON-RPC request, retrying transport failures with a
// doubling backoff. RPC-level errors are not retried: the endpoint
// answered, it just said no.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	start := time.Now()
	err := c.dispatch(ctx, method, params, out)
	if err != nil {
		monitoring.TrackRPCCall(method, "error", start)
	} else {
		monitoring.TrackRPCCall(method, "ok", start)
	}
	return err
}

func (c *Client) dispatch(ctx context.Context, method string, params []any, out any) error {
	return c.breaker.Execute(func() error {
		payload, err := json.Marshal(rpcRequest{
			JSONRPC: "2.0",
			ID:      1,
			Method:  method,
			Params:  params,
		})
		if err != nil {
			return err
		}

		var lastErr error
		backoff := c.backoff

		for attempt := 0; attempt <= c.maxRetries; attempt++ {
			if attempt > 0 {
				log.Printf("rpc %s retry %d after error: %v", method, attempt, lastErr)
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(backoff):
					backoff *= 2
				}
			}

			body, err := c.post(ctx, payload)
			if err != nil {
				lastErr = err
				continue
			}

			var resp rpcResponse
			if err := json.Unmarshal(body, &resp); err != nil {
				lastErr = fmt.Errorf("malformed rpc response: %w", err)
				continue
			}
			if resp.Error != nil {
				return resp.Error
			}
			if out == nil {
				return nil
			}
			return json.Unmarshal(resp.Result, out)
		}

		return fmt.Errorf("rpc %s failed after %d attempts: %w", method, c.maxRetries+1, lastErr)
	})
}

func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// AccountInfo is a fetched account: raw data plus ownership metadata.
type AccountInfo struct {
	Data     []byte
	Owner    string
	Lamports uint64
}

type accountInfoValue struct {
	Data     []json.RawMessage `json:"data"`
	Owner    string            `json:"owner"`
	Lamports uint64            `json:"lamports"`
}

type accountInfoResult struct {
	Value *accountInfoValue `json:"value"`
}

// GetAccountInfo fetches an account by address. A nil result with nil
// error means the account does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, address solana.PublicKey) (*AccountInfo, error) {
	var result accountInfoResult
	params := []any{address.String(), map[string]any{"encoding": "base64"}}

	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}

	info := &AccountInfo{
		Owner:    result.Value.Owner,
		Lamports: result.Value.Lamports,
	}

	// data arrives as ["<base64>", "base64"]
	if len(result.Value.Data) > 0 {
		var encoded string
		if err := json.Unmarshal(result.Value.Data[0], &encoded); err != nil {
			return nil, fmt.Errorf("malformed account data: %w", err)
		}
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("malformed account data: %w", err)
		}
		info.Data = decoded
	}

	return info, nil
}

// GetBalance returns the lamport balance of an address.
func (c *Client) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	var result struct {
		Value uint64 `json:"value"`
	}
	if err := c.call(ctx, "getBalance", []any{address.String()}, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

// GetTokenBalance fetches a token account and returns its base-unit
// amount. Absent or malformed accounts read as zero.
func (c *Client) GetTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	info, err := c.GetAccountInfo(ctx, tokenAccount)
	if err != nil {
		return 0, err
	}
	if info == nil {
		return 0, nil
	}

	parsed := solana.ParseTokenAccount(info.Data)
	if parsed == nil {
		return 0, nil
	}
	return parsed.Amount, nil
}

// GetMinimumBalanceForRentExemption returns the lamports needed to make
// an account of the given size rent exempt.
func (c *Client) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	var lamports uint64
	if err := c.call(ctx, "getMinimumBalanceForRentExemption", []any{size}, &lamports); err != nil {
		return 0, err
	}
	return lamports, nil
}

// GetLatestBlockhash returns the current blockhash for transaction
// assembly.
func (c *Client) GetLatestBlockhash(ctx context.Context) (string, error) {
	var result struct {
		Value struct {
			Blockhash string `json:"blockhash"`
		} `json:"value"`
	}
	if err := c.call(ctx, "getLatestBlockhash", nil, &result); err != nil {
		return "", err
	}
	return result.Value.Blockhash, nil
}
