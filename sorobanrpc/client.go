// Package sorobanrpc is a JSON-RPC client for the contract RPC server
package sorobanrpc

import (
	"context"
	"fmt"
	"time"

	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/rpc/client"
)

// Client calls one RPC server
type Client struct {
	URL  string
	http *client.Client
}

// NewClient returns a client for the server at url
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{URL: url, http: client.New(timeout)}
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	if err := c.http.RPCPost(ctx, c.URL, method, params, result); err != nil {
		return fmt.Errorf("%v: %w", method, err)
	}
	return nil
}

// LatestLedger describes the most recent ledger the server knows of
type LatestLedger struct {
	ID              string `json:"id"`
	ProtocolVersion int    `json:"protocolVersion"`
	Sequence        uint32 `json:"sequence"`
}

// GetLatestLedger returns the latest ledger
func (c *Client) GetLatestLedger(ctx context.Context) (*LatestLedger, error) {
	var result LatestLedger
	if err := c.call(ctx, "getLatestLedger", nil, &result); err != nil {
		return nil, err
	}
	log.Debug("rpc latest ledger", "sequence", result.Sequence)
	return &result, nil
}

// Network describes the network the server is attached to
type Network struct {
	FriendbotURL    string `json:"friendbotUrl,omitempty"`
	Passphrase      string `json:"passphrase"`
	ProtocolVersion int    `json:"protocolVersion"`
}

// GetNetwork returns the network passphrase and protocol version
func (c *Client) GetNetwork(ctx context.Context) (*Network, error) {
	var result Network
	if err := c.call(ctx, "getNetwork", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

type transactionParams struct {
	Transaction string `json:"transaction"`
}

// SimulateHostFunctionResult is the outcome of one host function
type SimulateHostFunctionResult struct {
	Auth []string `json:"auth"`
	XDR  string   `json:"xdr"`
}

// SimulateTransactionResponse holds the resources and authorization a
// transaction needs. Error is set when simulation failed.
type SimulateTransactionResponse struct {
	Error           string                       `json:"error,omitempty"`
	TransactionData string                       `json:"transactionData,omitempty"`
	MinResourceFee  int64                        `json:"minResourceFee,string,omitempty"`
	Results         []SimulateHostFunctionResult `json:"results,omitempty"`
	LatestLedger    uint32                       `json:"latestLedger"`
}

// SimulateTransaction dry-runs a base64 envelope
func (c *Client) SimulateTransaction(ctx context.Context, envelope string) (*SimulateTransactionResponse, error) {
	var result SimulateTransactionResponse
	if err := c.call(ctx, "simulateTransaction", transactionParams{Transaction: envelope}, &result); err != nil {
		return nil, err
	}
	if result.Error != "" {
		log.Warn("rpc simulation failed", "err", result.Error)
	}
	return &result, nil
}

// send transaction statuses
const (
	SendStatusPending   = "PENDING"
	SendStatusDuplicate = "DUPLICATE"
	SendStatusTryAgain  = "TRY_AGAIN_LATER"
	SendStatusError     = "ERROR"
)

// SendTransactionResponse reports whether the server accepted a
// transaction into its queue
type SendTransactionResponse struct {
	Status                string `json:"status"`
	Hash                  string `json:"hash"`
	LatestLedger          uint32 `json:"latestLedger"`
	LatestLedgerCloseTime int64  `json:"latestLedgerCloseTime,string"`
	ErrorResultXDR        string `json:"errorResultXdr,omitempty"`
}

// SendTransaction submits a base64 envelope without waiting for inclusion
func (c *Client) SendTransaction(ctx context.Context, envelope string) (*SendTransactionResponse, error) {
	var result SendTransactionResponse
	if err := c.call(ctx, "sendTransaction", transactionParams{Transaction: envelope}, &result); err != nil {
		return nil, err
	}
	log.Info("rpc transaction sent", "hash", result.Hash, "status", result.Status)
	return &result, nil
}
