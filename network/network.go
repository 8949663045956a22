// Package network computes the network-separated hashes that transaction
// and contract authorization signatures cover.
package network

import (
	"crypto/sha256"
	"errors"

	"github.com/anyswap/Stellar-SDK/xdr"
)

// well known network passphrases
const (
	PublicNetworkPassphrase     = "Public Global Stellar Network ; September 2015"
	TestNetworkPassphrase       = "Test SDF Network ; September 2015"
	FutureNetworkPassphrase     = "Test SDF Future Network ; October 2022"
	StandaloneNetworkPassphrase = "Standalone Network ; February 2017"
)

// ErrEmptyPassphrase is returned when hashing without a network
var ErrEmptyPassphrase = errors.New("network passphrase is empty")

// ID returns the network id, SHA-256 of the passphrase
func ID(passphrase string) [32]byte {
	return sha256.Sum256([]byte(passphrase))
}

func hashPayload(payload *xdr.TransactionSignaturePayload) ([32]byte, error) {
	b, err := xdr.Marshal(payload)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}

// HashTransaction returns the signature payload hash of a v1 transaction
func HashTransaction(tx *xdr.Transaction, passphrase string) ([32]byte, error) {
	if passphrase == "" {
		return [32]byte{}, ErrEmptyPassphrase
	}
	return hashPayload(&xdr.TransactionSignaturePayload{
		NetworkID: xdr.Hash(ID(passphrase)),
		Type:      xdr.EnvelopeTypeTx,
		Tx:        tx,
	})
}

// HashTransactionV0 hashes a legacy transaction as its v1 equivalent
func HashTransactionV0(tx *xdr.TransactionV0, passphrase string) ([32]byte, error) {
	v1 := tx.ToV1()
	return HashTransaction(&v1, passphrase)
}

// HashFeeBumpTransaction returns the signature payload hash of a fee-bump
// transaction, which covers the whole inner envelope
func HashFeeBumpTransaction(tx *xdr.FeeBumpTransaction, passphrase string) ([32]byte, error) {
	if passphrase == "" {
		return [32]byte{}, ErrEmptyPassphrase
	}
	return hashPayload(&xdr.TransactionSignaturePayload{
		NetworkID: xdr.Hash(ID(passphrase)),
		Type:      xdr.EnvelopeTypeTxFeeBump,
		FeeBump:   tx,
	})
}

// HashEnvelope hashes whichever transaction the envelope carries
func HashEnvelope(env *xdr.TransactionEnvelope, passphrase string) ([32]byte, error) {
	switch env.Type {
	case xdr.EnvelopeTypeTxV0:
		return HashTransactionV0(&env.V0.Tx, passphrase)
	case xdr.EnvelopeTypeTx:
		return HashTransaction(&env.V1.Tx, passphrase)
	case xdr.EnvelopeTypeTxFeeBump:
		return HashFeeBumpTransaction(&env.FeeBump.Tx, passphrase)
	}
	return [32]byte{}, xdr.ErrInvalidValue
}

// HashSorobanAuthorization returns the hash signed by the address
// credentials of a contract authorization entry
func HashSorobanAuthorization(passphrase string, nonce int64, expirationLedger uint32, invocation xdr.SorobanAuthorizedInvocation) ([32]byte, error) {
	if passphrase == "" {
		return [32]byte{}, ErrEmptyPassphrase
	}
	preimage := xdr.HashIDPreimage{
		Type: xdr.EnvelopeTypeSorobanAuthorization,
		SorobanAuthorization: &xdr.HashIDPreimageSorobanAuthorization{
			NetworkID:                 xdr.Hash(ID(passphrase)),
			Nonce:                     nonce,
			SignatureExpirationLedger: expirationLedger,
			Invocation:                invocation,
		},
	}
	b, err := xdr.Marshal(&preimage)
	if err != nil {
		return [32]byte{}, err
	}
	return sha256.Sum256(b), nil
}
