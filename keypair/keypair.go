// Package keypair wraps ed25519 keys in their strkey text forms.
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/anyswap/Stellar-SDK/strkey"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// keypair errors
var (
	ErrNoPrivateKey = errors.New("keypair has no private key")
	ErrInvalidSeed  = errors.New("invalid seed")
	ErrInvalidKey   = errors.New("invalid public key")
)

// KP is a public key, and the private key when it was built from a seed
type KP struct {
	pub  ed25519.PublicKey
	priv ed25519.PrivateKey
}

// Random creates a full keypair from the system random source
func Random() (*KP, error) {
	var seed [ed25519.SeedSize]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return nil, err
	}
	return FromRawSeed(seed), nil
}

// MustRandom is Random that panics on entropy failure
func MustRandom() *KP {
	kp, err := Random()
	if err != nil {
		panic(err)
	}
	return kp
}

// FromRawSeed derives a full keypair from 32 raw seed bytes
func FromRawSeed(seed [32]byte) *KP {
	priv := ed25519.NewKeyFromSeed(seed[:])
	return &KP{pub: priv.Public().(ed25519.PublicKey), priv: priv}
}

// FromSeed parses an S... secret seed
func FromSeed(seed string) (*KP, error) {
	raw, err := strkey.Decode(strkey.VersionByteSeed, seed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	var s [32]byte
	copy(s[:], raw)
	return FromRawSeed(s), nil
}

// MustParseSeed is FromSeed for seeds known to be valid
func MustParseSeed(seed string) *KP {
	kp, err := FromSeed(seed)
	if err != nil {
		panic(err)
	}
	return kp
}

// FromAddress builds a verify-only keypair from a G... address
func FromAddress(address string) (*KP, error) {
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &KP{pub: ed25519.PublicKey(raw)}, nil
}

// FromRawPublicKey builds a verify-only keypair from 32 key bytes
func FromRawPublicKey(pub [32]byte) *KP {
	return &KP{pub: ed25519.PublicKey(append([]byte(nil), pub[:]...))}
}

// CanSign reports whether the keypair holds a private key
func (kp *KP) CanSign() bool {
	return kp.priv != nil
}

// Address returns the G... account id
func (kp *KP) Address() string {
	return strkey.MustEncode(strkey.VersionByteAccountID, kp.pub)
}

// Seed returns the S... secret seed, or an error for verify-only keys
func (kp *KP) Seed() (string, error) {
	if kp.priv == nil {
		return "", ErrNoPrivateKey
	}
	return strkey.Encode(strkey.VersionByteSeed, kp.priv.Seed())
}

// RawPublicKey returns the 32 public key bytes
func (kp *KP) RawPublicKey() [32]byte {
	var out [32]byte
	copy(out[:], kp.pub)
	return out
}

// AccountID returns the wire account id of the key
func (kp *KP) AccountID() xdr.AccountID {
	return xdr.AccountID{Ed25519: xdr.Uint256(kp.RawPublicKey())}
}

// Hint returns the last four bytes of the public key
func (kp *KP) Hint() (hint xdr.SignatureHint) {
	copy(hint[:], kp.pub[len(kp.pub)-4:])
	return hint
}

// Sign returns the 64-byte ed25519 signature of payload
func (kp *KP) Sign(payload []byte) ([]byte, error) {
	if kp.priv == nil {
		return nil, ErrNoPrivateKey
	}
	return ed25519.Sign(kp.priv, payload), nil
}

// SignDecorated signs payload and attaches the key hint
func (kp *KP) SignDecorated(payload []byte) (xdr.DecoratedSignature, error) {
	sig, err := kp.Sign(payload)
	if err != nil {
		return xdr.DecoratedSignature{}, err
	}
	return xdr.DecoratedSignature{Hint: kp.Hint(), Signature: sig}, nil
}

// SignPayloadDecorated signs a signed-payload signer's payload. The hint is
// the key hint XORed with the last four payload bytes (zero padded).
func (kp *KP) SignPayloadDecorated(payload []byte) (xdr.DecoratedSignature, error) {
	ds, err := kp.SignDecorated(payload)
	if err != nil {
		return ds, err
	}
	var tail [4]byte
	if len(payload) >= 4 {
		copy(tail[:], payload[len(payload)-4:])
	} else {
		copy(tail[:], payload)
	}
	for i := range ds.Hint {
		ds.Hint[i] ^= tail[i]
	}
	return ds, nil
}

// Verify reports whether sig is a valid signature of payload by this key
func (kp *KP) Verify(payload, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(kp.pub, payload, sig)
}

// VerifyDecorated checks the hint before the signature
func (kp *KP) VerifyDecorated(payload []byte, ds xdr.DecoratedSignature) bool {
	return ds.Hint == kp.Hint() && kp.Verify(payload, ds.Signature)
}

// Equal compares public keys
func (kp *KP) Equal(other *KP) bool {
	return other != nil && bytes.Equal(kp.pub, other.pub)
}
