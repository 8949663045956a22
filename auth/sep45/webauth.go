// Package sep45 implements the client side of web authentication for
// contract accounts, where the challenge is a list of contract
// authorization entries instead of a transaction.
package sep45

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/rpc/client"
	"github.com/anyswap/Stellar-SDK/sorobanrpc"
	"github.com/anyswap/Stellar-SDK/strkey"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// WebAuthVerifyFunction is the only contract function a challenge may name
const WebAuthVerifyFunction = "web_auth_verify"

// DefaultExpirationOffset is how many ledgers past the latest one a
// signature stays valid
const DefaultExpirationOffset = 10

// LedgerSource reports the latest ledger; *sorobanrpc.Client is one
type LedgerSource interface {
	GetLatestLedger(ctx context.Context) (*sorobanrpc.LatestLedger, error)
}

var _ LedgerSource = (*sorobanrpc.Client)(nil)

// Config describes one authentication server
type Config struct {
	AuthEndpoint      string
	NetworkPassphrase string
	ServerSigningKey  string
	WebAuthContractID string
	HomeDomain        string

	// WebAuthDomain is the expected web_auth_domain argument; defaults to
	// the endpoint host
	WebAuthDomain string

	Timeout time.Duration
}

// WebAuth runs the contract account flow against one server
type WebAuth struct {
	cfg          Config
	serverKey    *keypair.KP
	contract     xdr.SCAddress
	endpointHost string
	http         *client.Client
	ledgers      LedgerSource
}

// New checks cfg and returns a client. ledgers may be nil when callers
// always pass an explicit expiration ledger.
func New(cfg Config, ledgers LedgerSource) (*WebAuth, error) {
	if cfg.NetworkPassphrase == "" {
		return nil, errors.New("sep45: empty network passphrase")
	}
	if cfg.HomeDomain == "" {
		return nil, errors.New("sep45: empty home domain")
	}
	serverKey, err := keypair.FromAddress(cfg.ServerSigningKey)
	if err != nil {
		return nil, fmt.Errorf("sep45: server signing key: %w", err)
	}
	raw, err := strkey.Decode(strkey.VersionByteContract, cfg.WebAuthContractID)
	if err != nil {
		return nil, fmt.Errorf("sep45: web auth contract: %w", err)
	}
	contract := xdr.SCAddress{Type: xdr.SCAddressTypeContract}
	copy(contract.ContractID[:], raw)

	host, err := auth.EndpointHost(cfg.AuthEndpoint)
	if err != nil {
		return nil, fmt.Errorf("sep45: auth endpoint: %w", err)
	}
	if cfg.WebAuthDomain != "" {
		host = cfg.WebAuthDomain
	}
	return &WebAuth{
		cfg:          cfg,
		serverKey:    serverKey,
		contract:     contract,
		endpointHost: host,
		http:         client.New(cfg.Timeout),
		ledgers:      ledgers,
	}, nil
}

// SigningCallback signs the client domain entry remotely. It receives the
// base64 entry, with its expiration ledger already set, and returns it with
// a signature added.
type SigningCallback func(ctx context.Context, entry string) (string, error)

// Request describes one authentication attempt.
//
// AccountID is the C... contract account. Signers sign the client entry;
// with none, the contract is expected to authorize by other means. The
// client domain entry is signed by ClientDomainSigner or, when set,
// ClientDomainCallback. SignatureExpirationLedger overrides the default of
// latest ledger plus DefaultExpirationOffset.
type Request struct {
	AccountID  string
	HomeDomain string
	Signers    []*keypair.KP

	ClientDomain         string
	ClientDomainAccount  string
	ClientDomainSigner   *keypair.KP
	ClientDomainCallback SigningCallback

	SignatureExpirationLedger *uint32
}

func (r *Request) homeDomain(cfg *Config) string {
	if r.HomeDomain != "" {
		return r.HomeDomain
	}
	return cfg.HomeDomain
}

func (r *Request) check() error {
	if !strkey.IsValid(strkey.VersionByteContract, r.AccountID) {
		return fmt.Errorf("sep45: account must be a contract address: %w", strkey.ErrInvalidAddress)
	}
	if r.ClientDomain != "" && !strkey.IsValid(strkey.VersionByteAccountID, r.ClientDomainAccount) {
		return fmt.Errorf("sep45: client domain account: %w", strkey.ErrInvalidAddress)
	}
	return nil
}

type challengeResponse struct {
	AuthorizationEntries json.RawMessage `json:"authorization_entries"`
	NetworkPassphrase    string          `json:"network_passphrase,omitempty"`
}

// DecodeEntries accepts either a JSON string holding the base64 encoded
// entry list or a JSON array of base64 encoded entries
func DecodeEntries(raw json.RawMessage) (xdr.SorobanAuthorizationEntries, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, auth.Errorf(CodeNoEntries, "no authorization entries")
	}
	if raw[0] == '"' {
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, auth.Errorf(CodeInvalidEncoding, "%v", err)
		}
		var entries xdr.SorobanAuthorizationEntries
		if err := xdr.UnmarshalBase64(encoded, &entries); err != nil {
			return nil, auth.Errorf(CodeInvalidEncoding, "%v", err)
		}
		return entries, nil
	}
	var encoded []string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, auth.Errorf(CodeInvalidEncoding, "%v", err)
	}
	entries := make(xdr.SorobanAuthorizationEntries, len(encoded))
	for i, e := range encoded {
		if err := xdr.UnmarshalBase64(e, &entries[i]); err != nil {
			return nil, auth.Errorf(CodeInvalidEncoding, "entry %d: %v", i, err)
		}
	}
	return entries, nil
}

// EncodeEntries returns the base64 encoded entry list
func EncodeEntries(entries xdr.SorobanAuthorizationEntries) (string, error) {
	return xdr.MarshalBase64(&entries)
}

// GetChallenge requests the authorization entries for req
func (w *WebAuth) GetChallenge(ctx context.Context, req *Request) (xdr.SorobanAuthorizationEntries, error) {
	if err := req.check(); err != nil {
		return nil, err
	}
	params := map[string]string{
		"account":     req.AccountID,
		"home_domain": req.homeDomain(&w.cfg),
	}
	if req.ClientDomain != "" {
		params["client_domain"] = req.ClientDomain
	}
	var resp challengeResponse
	if err := w.http.Get(ctx, w.cfg.AuthEndpoint, params, &resp); err != nil {
		return nil, auth.ServerError(err)
	}
	if resp.NetworkPassphrase != "" && resp.NetworkPassphrase != w.cfg.NetworkPassphrase {
		log.Warn("sep45 challenge network mismatch", "expected", w.cfg.NetworkPassphrase, "got", resp.NetworkPassphrase)
		return nil, auth.Errorf(CodeInvalidNetwork, "server uses %q", resp.NetworkPassphrase)
	}
	entries, err := DecodeEntries(resp.AuthorizationEntries)
	if err != nil {
		return nil, err
	}
	log.Debug("sep45 challenge fetched", "account", req.AccountID, "entries", len(entries))
	return entries, nil
}

type tokenRequest struct {
	AuthorizationEntries string `json:"authorization_entries"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// SendSignedChallenge exchanges signed entries for a token. A non-2xx
// answer is returned as *auth.AuthServerError.
func (w *WebAuth) SendSignedChallenge(ctx context.Context, entries xdr.SorobanAuthorizationEntries) (string, error) {
	encoded, err := EncodeEntries(entries)
	if err != nil {
		return "", err
	}
	var resp tokenResponse
	if err = w.http.PostJSON(ctx, w.cfg.AuthEndpoint, tokenRequest{AuthorizationEntries: encoded}, &resp); err != nil {
		err = auth.ServerError(err)
		log.Warn("sep45 challenge rejected", "err", err)
		return "", err
	}
	if resp.Token == "" {
		return "", auth.ErrMissingToken
	}
	log.Info("sep45 authenticated", "endpoint", w.cfg.AuthEndpoint)
	return resp.Token, nil
}

// JWTToken runs the whole flow: fetch, validate, sign and submit
func (w *WebAuth) JWTToken(ctx context.Context, req *Request) (string, error) {
	entries, err := w.GetChallenge(ctx, req)
	if err != nil {
		return "", err
	}
	if err = w.ValidateChallenge(entries, req); err != nil {
		log.Warn("sep45 challenge invalid", "account", req.AccountID, "err", err)
		return "", err
	}
	log.Debug("sep45 challenge validated", "account", req.AccountID)
	signed, err := w.SignEntries(ctx, entries, req)
	if err != nil {
		return "", err
	}
	return w.SendSignedChallenge(ctx, signed)
}
