package sep10

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/txnbuild"
	"github.com/anyswap/Stellar-SDK/xdr"
)

const (
	homeDomain    = "anchor.example.com"
	webAuthDomain = "anchor.example.com"
	testToken     = "eyJhbGciOiJIUzI1NiJ9.e30.token"
)

var testNow = time.Unix(1700000000, 0)

type challengeSpec struct {
	server        *keypair.KP
	signer        *keypair.KP
	clientAccount string
	homeDomain    string
	webAuthDomain string
	nonce         string
	seq           int64
	memo          *xdr.Memo
	minTime       int64
	maxTime       int64
	clientDomain  string
	domainAccount string
	extraOps      []xdr.Operation
}

func randomNonce(t *testing.T) string {
	raw := make([]byte, 48)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(raw)
}

func defaultSpec(t *testing.T, server, client *keypair.KP) *challengeSpec {
	return &challengeSpec{
		server:        server,
		signer:        server,
		clientAccount: client.Address(),
		homeDomain:    homeDomain,
		webAuthDomain: webAuthDomain,
		nonce:         randomNonce(t),
		minTime:       testNow.Unix(),
		maxTime:       testNow.Add(15 * time.Minute).Unix(),
	}
}

func buildChallenge(t *testing.T, s *challengeSpec) string {
	first, err := txnbuild.NewManageData(s.homeDomain+" auth", []byte(s.nonce), txnbuild.WithSourceAccount(s.clientAccount))
	require.NoError(t, err)
	ops := []xdr.Operation{first}
	if s.webAuthDomain != "" {
		op, err := txnbuild.NewManageData("web_auth_domain", []byte(s.webAuthDomain), txnbuild.WithSourceAccount(s.server.Address()))
		require.NoError(t, err)
		ops = append(ops, op)
	}
	if s.clientDomain != "" {
		op, err := txnbuild.NewManageData("client_domain", []byte(s.clientDomain), txnbuild.WithSourceAccount(s.domainAccount))
		require.NoError(t, err)
		ops = append(ops, op)
	}
	ops = append(ops, s.extraOps...)

	b := txnbuild.NewTransactionBuilder(txnbuild.NewSimpleAccount(s.server.Address(), s.seq-1), txnbuild.MinBaseFee).
		AddOperations(ops...).
		SetTimeBounds(s.minTime, s.maxTime)
	if s.memo != nil {
		b.SetMemo(*s.memo)
	}
	tx, err := b.Build()
	require.NoError(t, err)
	if s.signer != nil {
		tx, err = tx.Sign(network.TestNetworkPassphrase, s.signer)
		require.NoError(t, err)
	}
	text, err := tx.Base64()
	require.NoError(t, err)
	return text
}

func newWebAuth(t *testing.T, endpoint string, server *keypair.KP) *WebAuth {
	w, err := New(Config{
		AuthEndpoint:      endpoint,
		NetworkPassphrase: network.TestNetworkPassphrase,
		ServerSigningKey:  server.Address(),
		HomeDomain:        homeDomain,
		WebAuthDomain:     webAuthDomain,
	})
	require.NoError(t, err)
	w.now = func() time.Time { return testNow }
	return w
}

func TestValidateChallenge(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	w := newWebAuth(t, "https://anchor.example.com/auth", server)
	req := &Request{AccountID: client.Address()}

	assert.NoError(t, w.ValidateChallenge(buildChallenge(t, defaultSpec(t, server, client)), req))

	memoID := uint64(77)
	idMemo := xdr.Memo{Type: xdr.MemoTypeID, ID: &memoID}
	textMemo, err := txnbuild.MemoText("hi")
	require.NoError(t, err)
	other := keypair.MustRandom()
	payment, err := txnbuild.NewPayment(client.Address(), txnbuild.NativeAsset(), "1", txnbuild.WithSourceAccount(server.Address()))
	require.NoError(t, err)
	noSource, err := txnbuild.NewManageData("extra", []byte("v"))
	require.NoError(t, err)
	foreign, err := txnbuild.NewManageData("extra", []byte("v"), txnbuild.WithSourceAccount(other.Address()))
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(s *challengeSpec)
		want   error
	}{
		// (a)
		{"first source is not the client", func(s *challengeSpec) { s.clientAccount = other.Address() }, ErrInvalidSourceAccount},
		// (b)
		{"wrong web auth domain", func(s *challengeSpec) { s.webAuthDomain = "wrong.example.com" }, ErrInvalidWebAuthDomain},
		// (c)
		{"signed by unrelated key", func(s *challengeSpec) { s.signer = other }, ErrInvalidSignatureHint},
		{"unsigned", func(s *challengeSpec) { s.signer = nil }, ErrMissingSignature},
		{"non-zero sequence", func(s *challengeSpec) { s.seq = 5 }, ErrInvalidSeqNumber},
		{"wrong home domain", func(s *challengeSpec) { s.homeDomain = "evil.example.com" }, ErrInvalidHomeDomain},
		{"short nonce", func(s *challengeSpec) { s.nonce = base64.StdEncoding.EncodeToString(make([]byte, 47)) }, ErrInvalidNonce},
		{"nonce not base64", func(s *challengeSpec) { s.nonce = string(make([]byte, 64)) }, ErrInvalidNonce},
		{"unbounded time", func(s *challengeSpec) { s.maxTime = 0 }, ErrInvalidTimeBounds},
		{"expired", func(s *challengeSpec) {
			s.minTime = testNow.Add(-time.Hour).Unix()
			s.maxTime = testNow.Add(-6 * time.Minute).Unix()
		}, ErrInvalidTimeBounds},
		{"not yet valid", func(s *challengeSpec) {
			s.minTime = testNow.Add(6 * time.Minute).Unix()
			s.maxTime = testNow.Add(time.Hour).Unix()
		}, ErrInvalidTimeBounds},
		{"inverted time bounds", func(s *challengeSpec) {
			s.minTime = testNow.Add(4 * time.Minute).Unix()
			s.maxTime = testNow.Add(-4 * time.Minute).Unix()
		}, ErrInvalidTimeBounds},
		{"text memo", func(s *challengeSpec) { s.memo = &textMemo }, ErrInvalidMemoType},
		{"unexpected memo", func(s *challengeSpec) { s.memo = &idMemo }, ErrMemoMismatch},
		{"payment operation", func(s *challengeSpec) { s.extraOps = []xdr.Operation{payment} }, ErrInvalidOperationType},
		{"operation without source", func(s *challengeSpec) { s.extraOps = []xdr.Operation{noSource} }, ErrMissingSourceAccount},
		{"operation by foreign source", func(s *challengeSpec) { s.extraOps = []xdr.Operation{foreign} }, ErrInvalidSourceAccount},
	}
	for _, c := range cases {
		s := defaultSpec(t, server, client)
		c.mutate(s)
		err := w.ValidateChallenge(buildChallenge(t, s), req)
		assert.True(t, errors.Is(err, c.want), "%s: %v", c.name, err)
		var cve *auth.ChallengeValidationError
		assert.True(t, errors.As(err, &cve), c.name)
	}
}

func TestValidateChallengeEnvelope(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	w := newWebAuth(t, "https://anchor.example.com/auth", server)
	req := &Request{AccountID: client.Address()}

	err := w.ValidateChallenge("AAAA", req)
	assert.True(t, errors.Is(err, ErrInvalidEnvelope))

	parsed, err := txnbuild.TransactionFromXDR(buildChallenge(t, defaultSpec(t, server, client)))
	require.NoError(t, err)
	tx, _ := parsed.Transaction()
	bump, err := txnbuild.NewFeeBumpTransaction(tx, server.Address(), 200)
	require.NoError(t, err)
	text, err := bump.Base64()
	require.NoError(t, err)
	err = w.ValidateChallenge(text, req)
	assert.True(t, errors.Is(err, ErrNotV1Transaction))
}

func TestValidateChallengeMemo(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	w := newWebAuth(t, "https://anchor.example.com/auth", server)

	memoID := uint64(77)
	s := defaultSpec(t, server, client)
	s.memo = &xdr.Memo{Type: xdr.MemoTypeID, ID: &memoID}
	challenge := buildChallenge(t, s)

	assert.NoError(t, w.ValidateChallenge(challenge, &Request{AccountID: client.Address(), Memo: &memoID}))
	otherID := uint64(78)
	err := w.ValidateChallenge(challenge, &Request{AccountID: client.Address(), Memo: &otherID})
	assert.True(t, errors.Is(err, ErrMemoMismatch))

	muxed := xdr.NewMuxedAccount(xdr.MustAddress(client.Address()), 9).Address()
	err = w.ValidateChallenge(challenge, &Request{AccountID: muxed, Memo: &memoID})
	assert.True(t, errors.Is(err, ErrMemoAndMuxedAccount))
}

func TestValidateChallengeClientDomain(t *testing.T) {
	server, client, domainKey := keypair.MustRandom(), keypair.MustRandom(), keypair.MustRandom()
	w := newWebAuth(t, "https://anchor.example.com/auth", server)
	req := &Request{
		AccountID:           client.Address(),
		ClientDomain:        "wallet.example.com",
		ClientDomainAccount: domainKey.Address(),
		ClientDomainSigner:  domainKey,
	}

	s := defaultSpec(t, server, client)
	s.clientDomain = "wallet.example.com"
	s.domainAccount = domainKey.Address()
	assert.NoError(t, w.ValidateChallenge(buildChallenge(t, s), req))

	s.domainAccount = server.Address()
	err := w.ValidateChallenge(buildChallenge(t, s), req)
	assert.True(t, errors.Is(err, ErrInvalidClientDomain))

	err = w.ValidateChallenge(buildChallenge(t, defaultSpec(t, server, client)), req)
	assert.True(t, errors.Is(err, ErrMissingClientDomain))
}

func TestSignTransaction(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	w := newWebAuth(t, "https://anchor.example.com/auth", server)
	challenge := buildChallenge(t, defaultSpec(t, server, client))

	signed, err := w.SignTransaction(challenge, []*keypair.KP{client, client, nil})
	require.NoError(t, err)
	parsed, err := txnbuild.TransactionFromXDR(signed)
	require.NoError(t, err)
	tx, _ := parsed.Transaction()
	sigs := tx.Signatures()
	require.Len(t, sigs, 2)
	hash, err := tx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.True(t, server.VerifyDecorated(hash[:], sigs[0]))
	assert.True(t, client.VerifyDecorated(hash[:], sigs[1]))

	_, err = w.SignTransaction(challenge, nil)
	assert.Equal(t, auth.ErrNoSigners, err)
}

type mockServer struct {
	t         *testing.T
	server    *keypair.KP
	challenge func(account string) string
	check     func(signed string) bool
}

func (m *mockServer) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth", func(w http.ResponseWriter, req *http.Request) {
		account := req.URL.Query().Get("account")
		assert.Equal(m.t, homeDomain, req.URL.Query().Get("home_domain"))
		_ = json.NewEncoder(w).Encode(map[string]string{
			"transaction":        m.challenge(account),
			"network_passphrase": network.TestNetworkPassphrase,
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/auth", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Transaction string `json:"transaction"`
		}
		require.NoError(m.t, json.NewDecoder(req.Body).Decode(&body))
		if !m.check(body.Transaction) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"signature verification failed"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	}).Methods(http.MethodPost)
	return r
}

// clientSigned reports whether the envelope carries a valid signature by kp
func clientSigned(t *testing.T, envelope string, kp *keypair.KP) bool {
	parsed, err := txnbuild.TransactionFromXDR(envelope)
	require.NoError(t, err)
	tx, _ := parsed.Transaction()
	hash, err := tx.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	for _, sig := range tx.Signatures() {
		if kp.VerifyDecorated(hash[:], sig) {
			return true
		}
	}
	return false
}

// (d)
func TestJWTToken(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	m := &mockServer{t: t, server: server}
	m.challenge = func(account string) string {
		assert.Equal(t, client.Address(), account)
		return buildChallenge(t, defaultSpec(t, server, client))
	}
	m.check = func(signed string) bool {
		return clientSigned(t, signed, server) && clientSigned(t, signed, client)
	}
	srv := httptest.NewServer(m.routes())
	defer srv.Close()

	w := newWebAuth(t, srv.URL+"/auth", server)
	token, err := w.JWTToken(context.Background(), &Request{AccountID: client.Address(), Signers: []*keypair.KP{client}})
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestJWTTokenRejected(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	m := &mockServer{t: t, server: server}
	m.challenge = func(string) string { return buildChallenge(t, defaultSpec(t, server, client)) }
	m.check = func(string) bool { return false }
	srv := httptest.NewServer(m.routes())
	defer srv.Close()

	w := newWebAuth(t, srv.URL+"/auth", server)
	_, err := w.JWTToken(context.Background(), &Request{AccountID: client.Address(), Signers: []*keypair.KP{client}})
	var serverErr *auth.AuthServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusUnauthorized, serverErr.StatusCode)
	assert.Equal(t, `{"error":"signature verification failed"}`, serverErr.Body)
}

func TestJWTTokenRejectsBadChallenge(t *testing.T) {
	server, client, impostor := keypair.MustRandom(), keypair.MustRandom(), keypair.MustRandom()
	posted := false
	m := &mockServer{t: t, server: server}
	m.challenge = func(string) string {
		s := defaultSpec(t, server, client)
		s.signer = impostor
		return buildChallenge(t, s)
	}
	m.check = func(string) bool { posted = true; return true }
	srv := httptest.NewServer(m.routes())
	defer srv.Close()

	w := newWebAuth(t, srv.URL+"/auth", server)
	_, err := w.JWTToken(context.Background(), &Request{AccountID: client.Address(), Signers: []*keypair.KP{client}})
	assert.True(t, errors.Is(err, ErrInvalidSignatureHint))
	assert.False(t, posted)
}

func TestGetChallengeNetworkMismatch(t *testing.T) {
	server, client := keypair.MustRandom(), keypair.MustRandom()
	r := mux.NewRouter()
	r.HandleFunc("/auth", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"transaction":        buildChallenge(t, defaultSpec(t, server, client)),
			"network_passphrase": network.PublicNetworkPassphrase,
		})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	w := newWebAuth(t, srv.URL+"/auth", server)
	_, err := w.GetChallenge(context.Background(), &Request{AccountID: client.Address()})
	assert.True(t, errors.Is(err, ErrInvalidNetwork))
}

func TestJWTTokenClientDomainCallback(t *testing.T) {
	server, client, domainKey := keypair.MustRandom(), keypair.MustRandom(), keypair.MustRandom()
	challenge := func(string) string {
		s := defaultSpec(t, server, client)
		s.clientDomain = "wallet.example.com"
		s.domainAccount = domainKey.Address()
		return buildChallenge(t, s)
	}
	m := &mockServer{t: t, server: server, challenge: challenge}
	m.check = func(signed string) bool {
		return clientSigned(t, signed, client) && clientSigned(t, signed, domainKey)
	}
	srv := httptest.NewServer(m.routes())
	defer srv.Close()
	w := newWebAuth(t, srv.URL+"/auth", server)

	remote := func(ctx context.Context, envelope string) (string, error) {
		parsed, err := txnbuild.TransactionFromXDR(envelope)
		if err != nil {
			return "", err
		}
		tx, _ := parsed.Transaction()
		tx, err = tx.Sign(network.TestNetworkPassphrase, domainKey)
		if err != nil {
			return "", err
		}
		return tx.Base64()
	}
	req := &Request{
		AccountID:            client.Address(),
		Signers:              []*keypair.KP{client},
		ClientDomain:         "wallet.example.com",
		ClientDomainAccount:  domainKey.Address(),
		ClientDomainCallback: remote,
	}
	token, err := w.JWTToken(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	// a callback that signs twice is refused
	req.ClientDomainCallback = func(ctx context.Context, envelope string) (string, error) {
		once, err := remote(ctx, envelope)
		if err != nil {
			return "", err
		}
		return remote(ctx, once)
	}
	_, err = w.JWTToken(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidCallbackResult))

	// and so is one signing with the wrong key
	req.ClientDomainCallback = func(ctx context.Context, envelope string) (string, error) {
		return w.SignTransaction(envelope, []*keypair.KP{keypair.MustRandom()})
	}
	_, err = w.JWTToken(context.Background(), req)
	assert.True(t, errors.Is(err, ErrInvalidCallbackResult))
}

func TestNewRejectsBadConfig(t *testing.T) {
	server := keypair.MustRandom()
	_, err := New(Config{AuthEndpoint: "https://a.example.com/auth", NetworkPassphrase: network.TestNetworkPassphrase,
		ServerSigningKey: "GBAD", HomeDomain: homeDomain})
	assert.Error(t, err)
	_, err = New(Config{AuthEndpoint: "nohost", NetworkPassphrase: network.TestNetworkPassphrase,
		ServerSigningKey: server.Address(), HomeDomain: homeDomain})
	assert.Error(t, err)
}
