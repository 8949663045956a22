package sep45

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/sorobanrpc"
	"github.com/anyswap/Stellar-SDK/strkey"
	"github.com/anyswap/Stellar-SDK/xdr"
)

const (
	homeDomain    = "anchor.example.com"
	webAuthDomain = "auth.anchor.example.com"
	clientDomain  = "wallet.example.com"
	testToken     = "contract.jwt.token"
)

type fakeLedgers struct {
	sequence uint32
	calls    int
}

func (f *fakeLedgers) GetLatestLedger(ctx context.Context) (*sorobanrpc.LatestLedger, error) {
	f.calls++
	return &sorobanrpc.LatestLedger{Sequence: f.sequence}, nil
}

func randomContract(t *testing.T) string {
	raw := make([]byte, 32)
	_, err := rand.Read(raw)
	require.NoError(t, err)
	return strkey.MustEncode(strkey.VersionByteContract, raw)
}

type fixture struct {
	t         *testing.T
	server    *keypair.KP
	signer    *keypair.KP
	domainKey *keypair.KP
	contract  string
	account   string
	ledgers   *fakeLedgers
	w         *WebAuth
}

func newFixture(t *testing.T, endpoint string) *fixture {
	f := &fixture{
		t:         t,
		server:    keypair.MustRandom(),
		signer:    keypair.MustRandom(),
		domainKey: keypair.MustRandom(),
		contract:  randomContract(t),
		account:   randomContract(t),
		ledgers:   &fakeLedgers{sequence: 5000},
	}
	w, err := New(Config{
		AuthEndpoint:      endpoint,
		NetworkPassphrase: network.TestNetworkPassphrase,
		ServerSigningKey:  f.server.Address(),
		WebAuthContractID: f.contract,
		HomeDomain:        homeDomain,
		WebAuthDomain:     webAuthDomain,
	}, f.ledgers)
	require.NoError(t, err)
	f.w = w
	return f
}

func (f *fixture) args(withClientDomain bool) map[string]string {
	args := map[string]string{
		"account":                 f.account,
		"home_domain":             homeDomain,
		"web_auth_domain":         webAuthDomain,
		"web_auth_domain_account": f.server.Address(),
		"nonce":                   "n-123",
	}
	if withClientDomain {
		args["client_domain"] = clientDomain
		args["client_domain_account"] = f.domainKey.Address()
	}
	return args
}

func argsVal(args map[string]string) xdr.SCVal {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	m := make(xdr.SCMap, 0, len(keys))
	for _, k := range keys {
		m = append(m, xdr.SCMapEntry{Key: xdr.SCSymbol(k), Val: xdr.SCString(args[k])})
	}
	return xdr.SCVal{Type: xdr.SCValTypeMap, Map: &m}
}

func (f *fixture) entry(address string, nonce int64, args map[string]string) xdr.SorobanAuthorizationEntry {
	addr, err := xdr.ParseSCAddress(address)
	require.NoError(f.t, err)
	contract, err := xdr.ParseSCAddress(f.contract)
	require.NoError(f.t, err)
	return xdr.SorobanAuthorizationEntry{
		Credentials: xdr.SorobanCredentials{
			Type: xdr.SorobanCredentialsTypeAddress,
			Address: &xdr.SorobanAddressCredentials{
				Address:   addr,
				Nonce:     nonce,
				Signature: xdr.SCVal{Type: xdr.SCValTypeVoid},
			},
		},
		RootInvocation: xdr.SorobanAuthorizedInvocation{
			Function: xdr.SorobanAuthorizedFunction{
				Type: xdr.SorobanAuthorizedFunctionTypeContractFn,
				ContractFn: &xdr.InvokeContractArgs{
					ContractAddress: contract,
					FunctionName:    WebAuthVerifyFunction,
					Args:            []xdr.SCVal{argsVal(args)},
				},
			},
		},
	}
}

// challenge returns server, client and optionally client domain entries
// with the server entry signed
func (f *fixture) challenge(withClientDomain bool) xdr.SorobanAuthorizationEntries {
	return f.challengeWithArgs(f.args(withClientDomain), withClientDomain)
}

func (f *fixture) challengeWithArgs(args map[string]string, withClientDomain bool) xdr.SorobanAuthorizationEntries {
	server, err := SignEntry(f.entry(f.server.Address(), 1, args), network.TestNetworkPassphrase, 4000, f.server)
	require.NoError(f.t, err)
	entries := xdr.SorobanAuthorizationEntries{server, f.entry(f.account, 2, args)}
	if withClientDomain {
		entries = append(entries, f.entry(f.domainKey.Address(), 3, args))
	}
	return entries
}

func (f *fixture) request() *Request {
	return &Request{AccountID: f.account, Signers: []*keypair.KP{f.signer}}
}

func (f *fixture) domainRequest() *Request {
	req := f.request()
	req.ClientDomain = clientDomain
	req.ClientDomainAccount = f.domainKey.Address()
	req.ClientDomainSigner = f.domainKey
	return req
}

func TestValidateChallenge(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	assert.NoError(t, f.w.ValidateChallenge(f.challenge(false), f.request()))
	assert.NoError(t, f.w.ValidateChallenge(f.challenge(true), f.domainRequest()))

	other := keypair.MustRandom()
	cases := []struct {
		name   string
		mutate func(entries xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries
		want   error
	}{
		{"source account credentials", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[1].Credentials = xdr.SorobanCredentials{Type: xdr.SorobanCredentialsTypeSourceAccount}
			return e
		}, ErrInvalidCredentials},
		{"other contract", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			addr, _ := xdr.ParseSCAddress(randomContract(t))
			e[1].RootInvocation.Function.ContractFn.ContractAddress = addr
			return e
		}, ErrInvalidContractAddress},
		{"other function", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[1].RootInvocation.Function.ContractFn.FunctionName = "transfer"
			return e
		}, ErrInvalidFunctionName},
		{"args not a map", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{xdr.SCString("x")}
			return e
		}, ErrInvalidArgs},
		{"other account", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["account"] = randomContract(t)
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{argsVal(args)}
			return e
		}, ErrInvalidAccount},
		{"other home domain", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["home_domain"] = "evil.example.com"
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{argsVal(args)}
			return e
		}, ErrInvalidHomeDomain},
		{"other web auth domain", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["web_auth_domain"] = "wrong.example.com"
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{argsVal(args)}
			return e
		}, ErrInvalidWebAuthDomain},
		{"other web auth account", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["web_auth_domain_account"] = other.Address()
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{argsVal(args)}
			return e
		}, ErrInvalidWebAuthAccount},
		{"nonce differs", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["nonce"] = "n-456"
			e[1].RootInvocation.Function.ContractFn.Args = []xdr.SCVal{argsVal(args)}
			return e
		}, ErrInvalidNonce},
		{"no nonce in any entry", func(xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			delete(args, "nonce")
			return f.challengeWithArgs(args, false)
		}, ErrInvalidNonce},
		{"empty nonce in every entry", func(xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			args := f.args(false)
			args["nonce"] = ""
			return f.challengeWithArgs(args, false)
		}, ErrInvalidNonce},
		{"no server entry", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			return e[1:]
		}, ErrMissingServerEntry},
		{"server entry unsigned", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[0].Credentials.Address.Signature = xdr.SCVal{Type: xdr.SCValTypeVoid}
			return e
		}, ErrInvalidServerSignature},
		{"server entry signed by someone else", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[0].Credentials.Address.Signature = xdr.SCVal{Type: xdr.SCValTypeVoid}
			signed, err := SignEntry(e[0], network.TestNetworkPassphrase, 4000, other)
			require.NoError(t, err)
			e[0] = signed
			return e
		}, ErrInvalidServerSignature},
		{"server signature for another network", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			e[0].Credentials.Address.Signature = xdr.SCVal{Type: xdr.SCValTypeVoid}
			signed, err := SignEntry(e[0], network.PublicNetworkPassphrase, 4000, f.server)
			require.NoError(t, err)
			e[0] = signed
			return e
		}, ErrInvalidServerSignature},
		{"no client entry", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			return e[:1]
		}, ErrMissingClientEntry},
		{"entry for a stranger", func(e xdr.SorobanAuthorizationEntries) xdr.SorobanAuthorizationEntries {
			return append(e, f.entry(other.Address(), 9, f.args(false)))
		}, ErrUnexpectedEntry},
	}
	for _, c := range cases {
		err := f.w.ValidateChallenge(c.mutate(f.challenge(false)), f.request())
		assert.True(t, errors.Is(err, c.want), "%s: %v", c.name, err)
	}

	err := f.w.ValidateChallenge(f.challenge(false), f.domainRequest())
	assert.True(t, errors.Is(err, ErrInvalidClientDomain), "%v", err)
	entries := f.challenge(true)
	err = f.w.ValidateChallenge(entries[:2], f.domainRequest())
	assert.True(t, errors.Is(err, ErrMissingClientDomainEntry), "%v", err)

	err = f.w.ValidateChallenge(nil, f.request())
	assert.True(t, errors.Is(err, ErrNoEntries))
}

func TestValidateChallengeRejectsSubInvocations(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	entries := f.challenge(false)
	nested := entries[1].RootInvocation
	nested.SubInvocations = nil
	entries[1].RootInvocation.SubInvocations = []xdr.SorobanAuthorizedInvocation{nested}

	err := f.w.ValidateChallenge(entries, f.request())
	assert.True(t, errors.Is(err, ErrSubInvocations), "%v", err)
	var cve *auth.ChallengeValidationError
	require.True(t, errors.As(err, &cve))
	assert.Equal(t, CodeSubInvocations, cve.Code)

	// a sub-invocation on the server's own entry is rejected too
	entries = f.challenge(false)
	entries[0].RootInvocation.SubInvocations = []xdr.SorobanAuthorizedInvocation{nested}
	err = f.w.ValidateChallenge(entries, f.request())
	assert.True(t, errors.Is(err, ErrSubInvocations), "%v", err)
}

func TestSignEntries(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	second := keypair.MustRandom()
	entries := f.challenge(false)
	req := f.request()
	req.Signers = []*keypair.KP{f.signer, second, f.signer}

	signed, err := f.w.SignEntries(context.Background(), entries, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledgers.calls)

	// input is untouched
	assert.Equal(t, xdr.SCValTypeVoid, entries[1].Credentials.Address.Signature.Type)
	assert.Equal(t, entries[0], signed[0])

	creds := signed[1].Credentials.Address
	assert.Equal(t, uint32(5000+DefaultExpirationOffset), creds.SignatureExpirationLedger)
	sigs, ok := creds.Signature.GetVec()
	require.True(t, ok)
	require.Len(t, sigs, 2)
	first, _, _ := signatureParts(sigs[0])
	last, _, _ := signatureParts(sigs[1])
	assert.True(t, string(first) < string(last))
	assert.True(t, verifyEntry(&signed[1], f.signer, network.TestNetworkPassphrase))
	assert.True(t, verifyEntry(&signed[1], second, network.TestNetworkPassphrase))

	expiration := uint32(42)
	req.SignatureExpirationLedger = &expiration
	signed, err = f.w.SignEntries(context.Background(), entries, req)
	require.NoError(t, err)
	assert.Equal(t, 1, f.ledgers.calls)
	assert.Equal(t, uint32(42), signed[1].Credentials.Address.SignatureExpirationLedger)
}

func TestSignEntriesWithoutSigners(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	entries := f.challenge(false)
	signed, err := f.w.SignEntries(context.Background(), entries, &Request{AccountID: f.account})
	require.NoError(t, err)
	assert.Equal(t, entries, signed)
	assert.Equal(t, 0, f.ledgers.calls)
}

func TestSignEntriesClientDomain(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	entries := f.challenge(true)

	req := f.domainRequest()
	req.Signers = nil
	signed, err := f.w.SignEntries(context.Background(), entries, req)
	require.NoError(t, err)
	assert.Equal(t, xdr.SCValTypeVoid, signed[1].Credentials.Address.Signature.Type)
	assert.True(t, verifyEntry(&signed[2], f.domainKey, network.TestNetworkPassphrase))

	req.ClientDomainSigner = nil
	req.ClientDomainCallback = func(ctx context.Context, entry string) (string, error) {
		var e xdr.SorobanAuthorizationEntry
		if err := xdr.UnmarshalBase64(entry, &e); err != nil {
			return "", err
		}
		e, err := SignEntry(e, network.TestNetworkPassphrase, e.Credentials.Address.SignatureExpirationLedger, f.domainKey)
		if err != nil {
			return "", err
		}
		return xdr.MarshalBase64(&e)
	}
	signed, err = f.w.SignEntries(context.Background(), entries, req)
	require.NoError(t, err)
	assert.True(t, verifyEntry(&signed[2], f.domainKey, network.TestNetworkPassphrase))
	assert.Equal(t, uint32(5000+DefaultExpirationOffset), signed[2].Credentials.Address.SignatureExpirationLedger)

	req.ClientDomainCallback = func(ctx context.Context, entry string) (string, error) {
		var e xdr.SorobanAuthorizationEntry
		if err := xdr.UnmarshalBase64(entry, &e); err != nil {
			return "", err
		}
		e.Credentials.Address.Nonce++
		return xdr.MarshalBase64(&e)
	}
	_, err = f.w.SignEntries(context.Background(), entries, req)
	assert.True(t, errors.Is(err, ErrInvalidCallbackResult))
}

func TestDecodeEntries(t *testing.T) {
	f := newFixture(t, "https://auth.anchor.example.com/sep45")
	entries := f.challenge(false)

	whole, err := EncodeEntries(entries)
	require.NoError(t, err)
	raw, err := json.Marshal(whole)
	require.NoError(t, err)
	got, err := DecodeEntries(raw)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	parts := make([]string, len(entries))
	for i := range entries {
		parts[i], err = xdr.MarshalBase64(&entries[i])
		require.NoError(t, err)
	}
	raw, err = json.Marshal(parts)
	require.NoError(t, err)
	got, err = DecodeEntries(raw)
	require.NoError(t, err)
	again, err := EncodeEntries(got)
	require.NoError(t, err)
	assert.Equal(t, whole, again)

	_, err = DecodeEntries(json.RawMessage(`"not base64!"`))
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
	_, err = DecodeEntries(json.RawMessage(`{}`))
	assert.True(t, errors.Is(err, ErrInvalidEncoding))
}

func TestJWTToken(t *testing.T) {
	var f *fixture
	r := mux.NewRouter()
	r.HandleFunc("/sep45", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, f.account, req.URL.Query().Get("account"))
		entries := f.challenge(false)
		parts := make([]string, len(entries))
		for i := range entries {
			parts[i], _ = xdr.MarshalBase64(&entries[i])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"authorization_entries": parts,
			"network_passphrase":    network.TestNetworkPassphrase,
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/sep45", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			AuthorizationEntries string `json:"authorization_entries"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		var entries xdr.SorobanAuthorizationEntries
		require.NoError(t, xdr.UnmarshalBase64(body.AuthorizationEntries, &entries))
		if len(entries) != 2 || !verifyEntry(&entries[1], f.signer, network.TestNetworkPassphrase) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"bad signature"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": testToken})
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	defer srv.Close()

	f = newFixture(t, srv.URL+"/sep45")
	token, err := f.w.JWTToken(context.Background(), f.request())
	require.NoError(t, err)
	assert.Equal(t, testToken, token)

	req := f.request()
	req.Signers = []*keypair.KP{keypair.MustRandom()}
	_, err = f.w.JWTToken(context.Background(), req)
	var serverErr *auth.AuthServerError
	require.True(t, errors.As(err, &serverErr))
	assert.Equal(t, http.StatusForbidden, serverErr.StatusCode)
}
