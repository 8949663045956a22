package auth

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/rpc/client"
)

func TestChallengeValidationErrorIs(t *testing.T) {
	sentinel := NewCode("SEQ")
	err := fmt.Errorf("validate: %w", Errorf("SEQ", "got %d", 5))

	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(err, NewCode("MEMO")))
	assert.EqualError(t, err, "validate: invalid challenge: SEQ: got 5")

	var cve *ChallengeValidationError
	assert.True(t, errors.As(err, &cve))
	assert.Equal(t, ErrorCode("SEQ"), cve.Code)
}

func TestServerError(t *testing.T) {
	err := ServerError(fmt.Errorf("post: %w", &client.StatusError{StatusCode: 401, Body: `{"error":"bad"}`}))
	var serverErr *AuthServerError
	assert.True(t, errors.As(err, &serverErr))
	assert.Equal(t, 401, serverErr.StatusCode)
	assert.Equal(t, `{"error":"bad"}`, serverErr.Body)

	other := errors.New("dial")
	assert.Equal(t, other, ServerError(other))
}

func TestEndpointHost(t *testing.T) {
	host, err := EndpointHost("https://auth.example.com:8443/auth")
	assert.NoError(t, err)
	assert.Equal(t, "auth.example.com", host)

	host, err = EndpointHost("https://auth.example.com/auth")
	assert.NoError(t, err)
	assert.Equal(t, "auth.example.com", host)

	_, err = EndpointHost("/relative")
	assert.Error(t, err)
}

func TestUniqueSigners(t *testing.T) {
	a, b := keypair.MustRandom(), keypair.MustRandom()
	aPublic, err := keypair.FromAddress(a.Address())
	assert.NoError(t, err)

	got := UniqueSigners(a, nil, b, a, aPublic)
	assert.Equal(t, []*keypair.KP{a, b}, got)
	assert.Empty(t, UniqueSigners())
}
