// Package client provides methods to do http GET / POST request.
package client

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pborman/uuid"

	"github.com/anyswap/Stellar-SDK/log"
)

const (
	defaultTimeout = 60 * time.Second

	// RequestIDHeader carries a per-request correlation id
	RequestIDHeader = "X-Request-ID"
)

// StatusError is returned for non-2xx responses. Body is the response
// body verbatim.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wrong response status %v. message: %v", e.StatusCode, e.Body)
}

// Client wraps a resty client. It is safe for concurrent use.
type Client struct {
	rc *resty.Client
}

// New returns a client whose requests time out after timeout; zero uses
// the default of 60 seconds
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	rc := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{rc: rc}
}

// SetHeader adds a header sent with every request
func (c *Client) SetHeader(key, value string) *Client {
	c.rc.SetHeader(key, value)
	return c
}

func (c *Client) request() (*resty.Request, string) {
	id := uuid.New()
	return c.rc.R().SetHeader(RequestIDHeader, id), id
}

func handleResponse(resp *resty.Response, requestID string, result interface{}) error {
	log.Debug("http response", "url", resp.Request.URL, "status", resp.StatusCode(), "requestID", requestID, "elapsed", resp.Time())
	if !resp.IsSuccess() {
		return &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), result); err != nil {
		return fmt.Errorf("unmarshal result error: %v", err)
	}
	return nil
}
