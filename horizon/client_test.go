package horizon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/strkey"
	"github.com/anyswap/Stellar-SDK/txnbuild"
)

func newServer(t *testing.T, known string) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/accounts/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)["id"]
		if id != known {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"type":"https://stellar.org/horizon-errors/not_found","title":"Resource Missing","status":404}`))
			return
		}
		fmt.Fprintf(w, `{"id":%q,"account_id":%q,"sequence":"120259084288","balances":[`+
			`{"balance":"12.5000000","asset_type":"credit_alphanum4","asset_code":"USD","asset_issuer":%q},`+
			`{"balance":"9999.9999900","asset_type":"native"}]}`, id, id, id)
	}).Methods(http.MethodGet)
	r.HandleFunc("/transactions", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())
		if req.PostForm.Get("tx") == "bad" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"title":"Transaction Failed","status":400,"extras":{"result_codes":{"transaction":"tx_bad_seq"}}}`))
			return
		}
		fmt.Fprintf(w, `{"hash":"abcd","ledger":7,"successful":true,"envelope_xdr":%q}`, req.PostForm.Get("tx"))
	}).Methods(http.MethodPost)
	return httptest.NewServer(r)
}

func TestLoadAccount(t *testing.T) {
	kp := keypair.MustRandom()
	srv := newServer(t, kp.Address())
	defer srv.Close()
	c := NewClient(srv.URL+"/", 0)

	account, err := c.LoadAccount(context.Background(), kp.Address())
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), account.GetAccountID())
	assert.Equal(t, int64(120259084288), account.GetSequenceNumber())
	require.Len(t, account.Balances, 2)
	assert.Equal(t, "USD:"+kp.Address(), account.Balances[0].Asset())
	assert.Equal(t, "native", account.Balances[1].Asset())
	assert.Equal(t, "9999.9999900", account.Balances[1].Balance)

	_, err = c.LoadAccount(context.Background(), keypair.MustRandom().Address())
	assert.True(t, errors.Is(err, ErrAccountNotFound))

	_, err = c.LoadAccount(context.Background(), "GABC")
	assert.True(t, errors.Is(err, strkey.ErrInvalidAddress))
}

func TestSubmitTransaction(t *testing.T) {
	kp := keypair.MustRandom()
	srv := newServer(t, kp.Address())
	defer srv.Close()
	c := NewClient(srv.URL, 0)

	account, err := c.LoadAccount(context.Background(), kp.Address())
	require.NoError(t, err)
	op, err := txnbuild.NewBumpSequence(1)
	require.NoError(t, err)
	tx, err := txnbuild.NewTransactionBuilder(account, txnbuild.MinBaseFee).AddOperations(op).Build()
	require.NoError(t, err)
	assert.Equal(t, int64(120259084289), tx.SequenceNumber())
	tx, err = tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)

	result, err := c.SubmitTransaction(context.Background(), tx)
	require.NoError(t, err)
	envelope, _ := tx.Base64()
	assert.Equal(t, envelope, result.EnvelopeXDR)
	assert.True(t, result.Successful)

	_, err = c.SubmitTransactionXDR(context.Background(), "bad")
	var herr *Error
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "Transaction Failed", herr.Problem.Title)
	assert.Equal(t, "tx_bad_seq", herr.ResultCodes()["transaction"])
	assert.Equal(t, http.StatusBadRequest, herr.Status.StatusCode)
}
