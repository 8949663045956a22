package auth

import (
	"errors"
	"net/url"

	"github.com/anyswap/Stellar-SDK/rpc/client"
)

// ServerError converts a transport status error into *AuthServerError and
// returns any other error unchanged
func ServerError(err error) error {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return &AuthServerError{StatusCode: statusErr.StatusCode, Body: statusErr.Body}
	}
	return err
}

// EndpointHost returns the host name of an endpoint URL, without any port.
func EndpointHost(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errors.New("endpoint has no host: " + endpoint)
	}
	return u.Hostname(), nil
}
