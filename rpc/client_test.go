package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-pass/solana"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewClient(srv.URL, 2*time.Second)
	client.backoff = time.Millisecond
	return client, srv
}

func rpcResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	resp := map[string]any{"jsonrpc": "2.0", "id": 1, "result": result}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestGetAccountInfo_Present(t *testing.T) {
	data := base64.StdEncoding.EncodeToString([]byte{1, 2, 3, 4})

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getAccountInfo", req.Method)

		rpcResult(t, w, map[string]any{
			"context": map[string]any{"slot": 100},
			"value": map[string]any{
				"data":     []any{data, "base64"},
				"owner":    solana.TokenProgramID.String(),
				"lamports": 2039280,
			},
		})
	})
	defer srv.Close()

	info, err := client.GetAccountInfo(context.Background(), solana.SysvarRentID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, []byte{1, 2, 3, 4}, info.Data)
	assert.Equal(t, solana.TokenProgramID.String(), info.Owner)
	assert.Equal(t, uint64(2039280), info.Lamports)
}

func TestGetAccountInfo_Absent(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{
			"context": map[string]any{"slot": 100},
			"value":   nil,
		})
	})
	defer srv.Close()

	info, err := client.GetAccountInfo(context.Background(), solana.SysvarRentID)
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestCall_RPCErrorNotRetried(t *testing.T) {
	calls := 0
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		resp := map[string]any{
			"jsonrpc": "2.0",
			"id":      1,
			"error":   map[string]any{"code": -32602, "message": "Invalid param"},
		}
		json.NewEncoder(w).Encode(resp)
	})
	defer srv.Close()

	_, err := client.GetBalance(context.Background(), solana.SysvarRentID)
	assert.ErrorContains(t, err, "Invalid param")
	assert.Equal(t, 1, calls)
}

func TestCall_TransportErrorRetried(t *testing.T) {
	calls := 0
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		rpcResult(t, w, map[string]any{"value": 5000})
	})
	defer srv.Close()

	balance, err := client.GetBalance(context.Background(), solana.SysvarRentID)
	require.NoError(t, err)
	assert.Equal(t, uint64(5000), balance)
	assert.Equal(t, 3, calls)
}

func TestCall_ExhaustsRetries(t *testing.T) {
	calls := 0
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	defer srv.Close()

	_, err := client.GetBalance(context.Background(), solana.SysvarRentID)
	assert.Error(t, err)
	assert.Equal(t, client.maxRetries+1, calls)
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getMinimumBalanceForRentExemption", req.Method)
		rpcResult(t, w, 2039280)
	})
	defer srv.Close()

	lamports, err := client.GetMinimumBalanceForRentExemption(context.Background(), solana.TokenAccountSize)
	require.NoError(t, err)
	assert.Equal(t, uint64(2039280), lamports)
}

func TestGetTokenBalance(t *testing.T) {
	accountData := make([]byte, solana.TokenAccountSize)
	copy(accountData[0:32], solana.SysvarRentID[:])
	copy(accountData[32:64], solana.TokenProgramID[:])
	// amount 7_000_000 u64 LE at offset 64
	for i, b := range []byte{0xc0, 0xcf, 0x6a, 0x00, 0, 0, 0, 0} {
		accountData[64+i] = b
	}

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{
			"value": map[string]any{
				"data":     []any{base64.StdEncoding.EncodeToString(accountData), "base64"},
				"owner":    solana.TokenProgramID.String(),
				"lamports": 1,
			},
		})
	})
	defer srv.Close()

	amount, err := client.GetTokenBalance(context.Background(), solana.SysvarRentID)
	require.NoError(t, err)
	assert.Equal(t, uint64(7_000_000), amount)
}

func TestGetTokenBalance_MalformedReadsZero(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{
			"value": map[string]any{
				"data":     []any{base64.StdEncoding.EncodeToString([]byte{1, 2}), "base64"},
				"owner":    solana.TokenProgramID.String(),
				"lamports": 1,
			},
		})
	})
	defer srv.Close()

	amount, err := client.GetTokenBalance(context.Background(), solana.SysvarRentID)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), amount)
}

func TestGetLatestBlockhash(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		rpcResult(t, w, map[string]any{
			"value": map[string]any{
				"blockhash":            "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N",
				"lastValidBlockHeight": 3090,
			},
		})
	})
	defer srv.Close()

	blockhash, err := client.GetLatestBlockhash(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N", blockhash)
}
