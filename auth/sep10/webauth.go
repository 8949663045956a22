// Package sep10 implements the client side of challenge-response web
// authentication for classical accounts.
package sep10

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/rpc/client"
	"github.com/anyswap/Stellar-SDK/strkey"
)

// DefaultGracePeriod is the clock skew tolerated around challenge time bounds
const DefaultGracePeriod = 5 * time.Minute

// Config describes one authentication server
type Config struct {
	AuthEndpoint      string
	NetworkPassphrase string
	ServerSigningKey  string
	HomeDomain        string

	// WebAuthDomain is the expected web_auth_domain value; defaults to the
	// endpoint host
	WebAuthDomain string

	GracePeriod time.Duration
	Timeout     time.Duration
}

// WebAuth runs the challenge-response flow against one server. Each call
// is independent; nothing is cached between attempts.
type WebAuth struct {
	cfg          Config
	serverKey    *keypair.KP
	endpointHost string
	http         *client.Client

	now func() time.Time
}

// New checks cfg and returns a client for it
func New(cfg Config) (*WebAuth, error) {
	if cfg.NetworkPassphrase == "" {
		return nil, errors.New("sep10: empty network passphrase")
	}
	if cfg.HomeDomain == "" {
		return nil, errors.New("sep10: empty home domain")
	}
	serverKey, err := keypair.FromAddress(cfg.ServerSigningKey)
	if err != nil {
		return nil, fmt.Errorf("sep10: server signing key: %w", err)
	}
	host, err := auth.EndpointHost(cfg.AuthEndpoint)
	if err != nil {
		return nil, fmt.Errorf("sep10: auth endpoint: %w", err)
	}
	if cfg.WebAuthDomain != "" {
		host = cfg.WebAuthDomain
	}
	if cfg.GracePeriod == 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	return &WebAuth{
		cfg:          cfg,
		serverKey:    serverKey,
		endpointHost: host,
		http:         client.New(cfg.Timeout),
		now:          time.Now,
	}, nil
}

// SigningCallback signs a challenge on behalf of the client domain, for
// example through a remote custody service. It receives the base64
// envelope and returns it with exactly one signature appended.
type SigningCallback func(ctx context.Context, envelope string) (string, error)

// Request describes one authentication attempt
//
// AccountID is a G... or M... address. Memo identifies a user of a shared
// account and is not allowed with an M... address. HomeDomain overrides the
// configured one. ClientDomainAccount is the G... signing key published by
// ClientDomain; the client domain signs with ClientDomainSigner or, when
// set, ClientDomainCallback.
type Request struct {
	AccountID  string
	Memo       *uint64
	HomeDomain string
	Signers    []*keypair.KP

	ClientDomain         string
	ClientDomainAccount  string
	ClientDomainSigner   *keypair.KP
	ClientDomainCallback SigningCallback
}

func (r *Request) homeDomain(cfg *Config) string {
	if r.HomeDomain != "" {
		return r.HomeDomain
	}
	return cfg.HomeDomain
}

func (r *Request) check() error {
	version, _, err := strkey.DecodeAny(r.AccountID)
	if err != nil {
		return fmt.Errorf("sep10: account: %w", err)
	}
	switch version {
	case strkey.VersionByteAccountID:
	case strkey.VersionByteMuxedAccount:
		if r.Memo != nil {
			return auth.Errorf(CodeMemoAndMuxedAccount, "memo given for muxed account %v", r.AccountID)
		}
	default:
		return fmt.Errorf("sep10: account: %w: %v", strkey.ErrInvalidAddress, version)
	}
	if r.ClientDomain != "" {
		if r.ClientDomainAccount == "" {
			return errors.New("sep10: client domain account required with client domain")
		}
		if r.ClientDomainSigner == nil && r.ClientDomainCallback == nil {
			return errors.New("sep10: client domain signer or callback required with client domain")
		}
	}
	return nil
}

type challengeResponse struct {
	Transaction       string `json:"transaction"`
	NetworkPassphrase string `json:"network_passphrase,omitempty"`
}

// GetChallenge requests a challenge for req and returns the base64
// envelope. A network passphrase returned by the server must match the
// configured one.
func (w *WebAuth) GetChallenge(ctx context.Context, req *Request) (string, error) {
	if err := req.check(); err != nil {
		return "", err
	}
	params := map[string]string{
		"account":     req.AccountID,
		"home_domain": req.homeDomain(&w.cfg),
	}
	if req.Memo != nil {
		params["memo"] = strconv.FormatUint(*req.Memo, 10)
	}
	if req.ClientDomain != "" {
		params["client_domain"] = req.ClientDomain
	}

	var resp challengeResponse
	if err := w.http.Get(ctx, w.cfg.AuthEndpoint, params, &resp); err != nil {
		return "", auth.ServerError(err)
	}
	if resp.Transaction == "" {
		return "", auth.ErrMissingTransaction
	}
	if resp.NetworkPassphrase != "" && resp.NetworkPassphrase != w.cfg.NetworkPassphrase {
		log.Warn("sep10 challenge network mismatch", "expected", w.cfg.NetworkPassphrase, "got", resp.NetworkPassphrase)
		return "", auth.Errorf(CodeInvalidNetwork, "server uses %q", resp.NetworkPassphrase)
	}
	log.Debug("sep10 challenge fetched", "account", req.AccountID, "endpoint", w.cfg.AuthEndpoint)
	return resp.Transaction, nil
}

type tokenRequest struct {
	Transaction string `json:"transaction"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// SendSignedChallengeTransaction exchanges a signed challenge for a token.
// A non-2xx answer is returned as *auth.AuthServerError.
func (w *WebAuth) SendSignedChallengeTransaction(ctx context.Context, signed string) (string, error) {
	var resp tokenResponse
	if err := w.http.PostJSON(ctx, w.cfg.AuthEndpoint, tokenRequest{Transaction: signed}, &resp); err != nil {
		err = auth.ServerError(err)
		log.Warn("sep10 challenge rejected", "err", err)
		return "", err
	}
	if resp.Token == "" {
		return "", auth.ErrMissingToken
	}
	log.Info("sep10 authenticated", "endpoint", w.cfg.AuthEndpoint)
	return resp.Token, nil
}

// JWTToken runs the whole flow: fetch, validate, sign and submit
func (w *WebAuth) JWTToken(ctx context.Context, req *Request) (string, error) {
	challenge, err := w.GetChallenge(ctx, req)
	if err != nil {
		return "", err
	}
	if err = w.ValidateChallenge(challenge, req); err != nil {
		log.Warn("sep10 challenge invalid", "account", req.AccountID, "err", err)
		return "", err
	}
	log.Debug("sep10 challenge validated", "account", req.AccountID)

	signers := req.Signers
	if req.ClientDomainCallback != nil {
		if challenge, err = w.signWithCallback(ctx, challenge, req); err != nil {
			return "", err
		}
	} else if req.ClientDomainSigner != nil {
		signers = append(append([]*keypair.KP{}, signers...), req.ClientDomainSigner)
	}
	signed, err := w.SignTransaction(challenge, signers)
	if err != nil {
		return "", err
	}
	log.Debug("sep10 challenge signed", "account", req.AccountID, "signers", len(signers))
	return w.SendSignedChallengeTransaction(ctx, signed)
}
