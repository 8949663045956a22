package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2/json2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/echo", func(w http.ResponseWriter, req *http.Request) {
		assert.NotEmpty(t, req.Header.Get(RequestIDHeader))
		_ = json.NewEncoder(w).Encode(map[string]string{"q": req.URL.Query().Get("q")})
	}).Methods(http.MethodGet)
	r.HandleFunc("/form", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())
		_ = json.NewEncoder(w).Encode(map[string]string{"tx": req.PostForm.Get("tx")})
	}).Methods(http.MethodPost)
	r.HandleFunc("/json", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		_ = json.NewEncoder(w).Encode(body)
	}).Methods(http.MethodPost)
	r.HandleFunc("/fail", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	})
	r.HandleFunc("/rpc", func(w http.ResponseWriter, req *http.Request) {
		var call struct {
			ID     json.RawMessage `json:"id"`
			Method string          `json:"method"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&call))
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": call.ID}
		if call.Method == "ping" {
			resp["result"] = map[string]string{"pong": "yes"}
		} else {
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodPost)
	return httptest.NewServer(r)
}

func TestClient(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(0)
	ctx := context.Background()

	var got map[string]string
	require.NoError(t, c.Get(ctx, srv.URL+"/echo", map[string]string{"q": "v"}, &got))
	assert.Equal(t, "v", got["q"])

	require.NoError(t, c.PostForm(ctx, srv.URL+"/form", map[string]string{"tx": "AAAA+/="}, &got))
	assert.Equal(t, "AAAA+/=", got["tx"])

	require.NoError(t, c.PostJSON(ctx, srv.URL+"/json", map[string]string{"transaction": "x"}, &got))
	assert.Equal(t, "x", got["transaction"])
}

func TestClientStatusError(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	err := New(0).PostJSON(context.Background(), srv.URL+"/fail", map[string]string{}, nil)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, `{"error":"nope"}`, statusErr.Body)
}

func TestRPCPost(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	c := New(0)

	var result struct {
		Pong string `json:"pong"`
	}
	require.NoError(t, c.RPCPost(context.Background(), srv.URL+"/rpc", "ping", nil, &result))
	assert.Equal(t, "yes", result.Pong)

	err := c.RPCPost(context.Background(), srv.URL+"/rpc", "missing", nil, &result)
	var rpcErr *json2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, json2.ErrorCode(-32601), rpcErr.Code)
}

func TestClientCanceledContext(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(0).Get(ctx, srv.URL+"/echo", nil, nil)
	assert.True(t, errors.Is(err, context.Canceled))
}
