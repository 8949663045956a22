// Package horizon loads account state from and submits transactions to
// a horizon server.
package horizon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/rpc/client"
	"github.com/anyswap/Stellar-SDK/strkey"
)

// ErrAccountNotFound is returned when the server has no such account
var ErrAccountNotFound = errors.New("horizon: account not found")

// Client talks to one horizon server
type Client struct {
	URL  string
	http *client.Client
}

// NewClient returns a client for the server at url
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		URL:  strings.TrimRight(url, "/"),
		http: client.New(timeout),
	}
}

// Account is the part of an account record needed to build transactions.
// It satisfies txnbuild.Account.
type Account struct {
	ID       string    `json:"id"`
	Sequence int64     `json:"sequence,string"`
	Balances []Balance `json:"balances"`
}

// Balance is one account balance; Balance is a decimal string
type Balance struct {
	Balance     string `json:"balance"`
	AssetType   string `json:"asset_type"`
	AssetCode   string `json:"asset_code,omitempty"`
	AssetIssuer string `json:"asset_issuer,omitempty"`
}

// Asset returns "native" or CODE:ISSUER
func (b *Balance) Asset() string {
	if b.AssetType == "native" {
		return "native"
	}
	return b.AssetCode + ":" + b.AssetIssuer
}

// GetAccountID returns the account address
func (a *Account) GetAccountID() string {
	return a.ID
}

// GetSequenceNumber returns the current sequence number
func (a *Account) GetSequenceNumber() int64 {
	return a.Sequence
}

// Problem is an error document returned by the server
type Problem struct {
	Type   string                 `json:"type"`
	Title  string                 `json:"title"`
	Status int                    `json:"status"`
	Detail string                 `json:"detail,omitempty"`
	Extras map[string]interface{} `json:"extras,omitempty"`
}

// Error wraps a Problem together with the raw response
type Error struct {
	Problem Problem
	Status  *client.StatusError
}

func (e *Error) Error() string {
	return fmt.Sprintf("horizon error: %v (status %v) %v", e.Problem.Title, e.Status.StatusCode, e.Problem.Detail)
}

func (e *Error) Unwrap() error {
	return e.Status
}

// ResultCodes returns extras.result_codes when the server included them
func (e *Error) ResultCodes() map[string]interface{} {
	codes, _ := e.Problem.Extras["result_codes"].(map[string]interface{})
	return codes
}

func wrapError(err error) error {
	var statusErr *client.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	herr := &Error{Status: statusErr}
	if json.Unmarshal([]byte(statusErr.Body), &herr.Problem) != nil {
		herr.Problem.Title = http.StatusText(statusErr.StatusCode)
	}
	return herr
}

// LoadAccount fetches the id and sequence number of an account
func (c *Client) LoadAccount(ctx context.Context, accountID string) (*Account, error) {
	if !strkey.IsValid(strkey.VersionByteAccountID, accountID) {
		return nil, fmt.Errorf("load account: %w", strkey.ErrInvalidAddress)
	}
	var account Account
	err := c.http.Get(ctx, c.URL+"/accounts/"+accountID, nil, &account)
	if err != nil {
		err = wrapError(err)
		var herr *Error
		if errors.As(err, &herr) && herr.Status.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %v", ErrAccountNotFound, accountID)
		}
		return nil, err
	}
	log.Debug("horizon account loaded", "account", account.ID, "sequence", account.Sequence)
	return &account, nil
}

// SubmitResult is the server's answer to a successful submission
type SubmitResult struct {
	Hash        string `json:"hash"`
	Ledger      int32  `json:"ledger"`
	Successful  bool   `json:"successful"`
	EnvelopeXDR string `json:"envelope_xdr"`
	ResultXDR   string `json:"result_xdr"`
}

// SubmitTransactionXDR submits a base64 envelope and waits for it to be
// included in a ledger. A rejected transaction is returned as *Error.
func (c *Client) SubmitTransactionXDR(ctx context.Context, envelope string) (*SubmitResult, error) {
	var result SubmitResult
	err := c.http.PostForm(ctx, c.URL+"/transactions", map[string]string{"tx": envelope}, &result)
	if err != nil {
		err = wrapError(err)
		log.Warn("horizon submit transaction failed", "err", err)
		return nil, err
	}
	log.Info("horizon transaction submitted", "hash", result.Hash, "ledger", result.Ledger)
	return &result, nil
}

// Envelope is a transaction that can serialize itself, such as
// *txnbuild.Transaction or *txnbuild.FeeBumpTransaction
type Envelope interface {
	Base64() (string, error)
}

// SubmitTransaction serializes tx and submits it
func (c *Client) SubmitTransaction(ctx context.Context, tx Envelope) (*SubmitResult, error) {
	envelope, err := tx.Base64()
	if err != nil {
		return nil, err
	}
	return c.SubmitTransactionXDR(ctx, envelope)
}
