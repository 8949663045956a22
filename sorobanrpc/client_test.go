package sorobanrpc

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

	"github.com/anyswap/Stellar-SDK/network"
)

type rpcCall struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params map[string]string `json:"params"`
}

func newServer(t *testing.T) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		var call rpcCall
		require.NoError(t, json.NewDecoder(req.Body).Decode(&call))
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": call.ID}
		switch call.Method {
		case "getLatestLedger":
			resp["result"] = map[string]interface{}{"id": "ab", "protocolVersion": 21, "sequence": 1234}
		case "getNetwork":
			resp["result"] = map[string]interface{}{"passphrase": network.TestNetworkPassphrase, "protocolVersion": 21}
		case "simulateTransaction":
			resp["result"] = map[string]interface{}{
				"minResourceFee": "5000",
				"results":        []interface{}{map[string]interface{}{"auth": []string{"AAAA"}, "xdr": "AAAAAQ=="}},
				"latestLedger":   1234,
			}
		case "sendTransaction":
			if call.Params["transaction"] == "" {
				resp["error"] = map[string]interface{}{"code": -32602, "message": "missing transaction"}
				break
			}
			resp["result"] = map[string]interface{}{"status": "PENDING", "hash": "ff", "latestLedger": 1234, "latestLedgerCloseTime": "1700000000"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}).Methods(http.MethodPost)
	return httptest.NewServer(r)
}

func TestClient(t *testing.T) {
	srv := newServer(t)
	defer srv.Close()
	c := NewClient(srv.URL+"/", 0)
	ctx := context.Background()

	ledger, err := c.GetLatestLedger(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint32(1234), ledger.Sequence)

	nw, err := c.GetNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, network.TestNetworkPassphrase, nw.Passphrase)

	sim, err := c.SimulateTransaction(ctx, "AAAA")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), sim.MinResourceFee)
	require.Len(t, sim.Results, 1)
	assert.Equal(t, []string{"AAAA"}, sim.Results[0].Auth)

	sent, err := c.SendTransaction(ctx, "AAAA")
	require.NoError(t, err)
	assert.Equal(t, SendStatusPending, sent.Status)
	assert.Equal(t, int64(1700000000), sent.LatestLedgerCloseTime)

	_, err = c.SendTransaction(ctx, "")
	var rpcErr *json2.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, "missing transaction", rpcErr.Message)
}
