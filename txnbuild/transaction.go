package txnbuild

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// Transaction is an immutable v1 (or legacy v0) transaction envelope.
// Signing returns a new Transaction; the receiver is left unchanged.
type Transaction struct {
	envelope xdr.TransactionEnvelope
}

func (t *Transaction) body() xdr.Transaction {
	if t.envelope.Type == xdr.EnvelopeTypeTxV0 {
		return t.envelope.V0.Tx.ToV1()
	}
	return t.envelope.V1.Tx
}

// IsV0 reports whether the envelope uses the legacy v0 layout
func (t *Transaction) IsV0() bool {
	return t.envelope.Type == xdr.EnvelopeTypeTxV0
}

// SourceAccount returns the transaction source
func (t *Transaction) SourceAccount() xdr.MuxedAccount {
	return t.body().SourceAccount
}

// SequenceNumber returns the sequence number the transaction consumes
func (t *Transaction) SequenceNumber() int64 {
	return t.body().SeqNum
}

// MaxFee returns the total fee the source is willing to pay
func (t *Transaction) MaxFee() int64 {
	return int64(t.body().Fee)
}

// BaseFee returns the effective fee per operation
func (t *Transaction) BaseFee() int64 {
	tx := t.body()
	if len(tx.Operations) == 0 {
		return int64(tx.Fee)
	}
	return int64(tx.Fee) / int64(len(tx.Operations))
}

func (t *Transaction) Memo() xdr.Memo {
	return t.body().Memo
}

func (t *Transaction) Preconditions() xdr.Preconditions {
	return t.body().Cond
}

// TimeBounds returns the close time bounds, or nil when absent
func (t *Transaction) TimeBounds() *xdr.TimeBounds {
	return t.body().Cond.GetTimeBounds()
}

// Operations returns a copy of the operation list
func (t *Transaction) Operations() []xdr.Operation {
	return append([]xdr.Operation{}, t.body().Operations...)
}

// Signatures returns a copy of the signature list
func (t *Transaction) Signatures() []xdr.DecoratedSignature {
	return append([]xdr.DecoratedSignature{}, t.envelope.Signatures()...)
}

// ToXDR returns the envelope with its own copy of the signature list
func (t *Transaction) ToXDR() xdr.TransactionEnvelope {
	return t.withSignatures(t.Signatures()).envelope
}

// v1Envelope returns the envelope in v1 form for wrapping in a fee bump
func (t *Transaction) v1Envelope() xdr.TransactionV1Envelope {
	return xdr.TransactionV1Envelope{Tx: t.body(), Signatures: t.Signatures()}
}

// MarshalBinary returns the wire form of the envelope
func (t *Transaction) MarshalBinary() ([]byte, error) {
	return xdr.Marshal(&t.envelope)
}

// Base64 returns the base64 wire form of the envelope
func (t *Transaction) Base64() (string, error) {
	return xdr.MarshalBase64(&t.envelope)
}

// Hash returns the signature payload hash under the given network
func (t *Transaction) Hash(passphrase string) ([32]byte, error) {
	tx := t.body()
	return network.HashTransaction(&tx, passphrase)
}

// HashHex returns Hash in hex, the form used as the transaction id
func (t *Transaction) HashHex(passphrase string) (string, error) {
	h, err := t.Hash(passphrase)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

func (t *Transaction) withSignatures(sigs []xdr.DecoratedSignature) *Transaction {
	env := xdr.TransactionEnvelope{Type: t.envelope.Type}
	if t.envelope.Type == xdr.EnvelopeTypeTxV0 {
		v0 := *t.envelope.V0
		v0.Signatures = sigs
		env.V0 = &v0
	} else {
		v1 := *t.envelope.V1
		v1.Signatures = sigs
		env.V1 = &v1
	}
	return &Transaction{envelope: env}
}

func appendSignatures(existing []xdr.DecoratedSignature, added ...xdr.DecoratedSignature) ([]xdr.DecoratedSignature, error) {
	if len(existing)+len(added) > xdr.MaxSignatures {
		return nil, fmt.Errorf("%w: more than %d signatures", ErrInvalidSignature, xdr.MaxSignatures)
	}
	out := make([]xdr.DecoratedSignature, 0, len(existing)+len(added))
	out = append(out, existing...)
	return append(out, added...), nil
}

func signHash(hash [32]byte, kps []*keypair.KP) ([]xdr.DecoratedSignature, error) {
	sigs := make([]xdr.DecoratedSignature, 0, len(kps))
	for _, kp := range kps {
		ds, err := kp.SignDecorated(hash[:])
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, ds)
	}
	return sigs, nil
}

// Sign returns a copy of t with one signature per keypair appended. Signing
// twice with the same key appends a duplicate.
func (t *Transaction) Sign(passphrase string, kps ...*keypair.KP) (*Transaction, error) {
	hash, err := t.Hash(passphrase)
	if err != nil {
		return nil, err
	}
	added, err := signHash(hash, kps)
	if err != nil {
		return nil, err
	}
	return t.AddSignatureDecorated(added...)
}

// SignHashX returns a copy of t signed by revealing a hash-x preimage
func (t *Transaction) SignHashX(preimage []byte) (*Transaction, error) {
	if len(preimage) > xdr.MaxSignatureLength {
		return nil, fmt.Errorf("%w: preimage longer than %d bytes", ErrInvalidSignature, xdr.MaxSignatureLength)
	}
	h := sha256.Sum256(preimage)
	var ds xdr.DecoratedSignature
	copy(ds.Hint[:], h[28:])
	ds.Signature = append([]byte{}, preimage...)
	return t.AddSignatureDecorated(ds)
}

// AddSignatureDecorated returns a copy of t with sigs appended
func (t *Transaction) AddSignatureDecorated(sigs ...xdr.DecoratedSignature) (*Transaction, error) {
	all, err := appendSignatures(t.envelope.Signatures(), sigs...)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(all), nil
}

// AddSignatureBase64 verifies a detached base64 signature by address and
// returns a copy of t with it appended
func (t *Transaction) AddSignatureBase64(passphrase, address, signature string) (*Transaction, error) {
	kp, err := keypair.FromAddress(address)
	if err != nil {
		return nil, err
	}
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	hash, err := t.Hash(passphrase)
	if err != nil {
		return nil, err
	}
	if !kp.Verify(hash[:], sig) {
		return nil, fmt.Errorf("%w: does not verify for %s", ErrInvalidSignature, address)
	}
	return t.AddSignatureDecorated(xdr.DecoratedSignature{Hint: kp.Hint(), Signature: sig})
}

// ClearSignatures returns a copy of t without signatures
func (t *Transaction) ClearSignatures() *Transaction {
	return t.withSignatures([]xdr.DecoratedSignature{})
}

// GenericTransaction holds either a Transaction or a FeeBumpTransaction
type GenericTransaction struct {
	simple  *Transaction
	feeBump *FeeBumpTransaction
}

// Transaction returns the plain transaction, if that is what this is
func (g *GenericTransaction) Transaction() (*Transaction, bool) {
	return g.simple, g.simple != nil
}

// FeeBump returns the fee-bump transaction, if that is what this is
func (g *GenericTransaction) FeeBump() (*FeeBumpTransaction, bool) {
	return g.feeBump, g.feeBump != nil
}

// TransactionFromXDR parses a base64 envelope of any type. Re-encoding the
// result reproduces the input bytes.
func TransactionFromXDR(envelope string) (*GenericTransaction, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return nil, &xdr.DecodeError{Type: "base64", Msg: err.Error()}
	}
	return TransactionFromBytes(raw)
}

// TransactionFromBytes parses a binary envelope of any type
func TransactionFromBytes(raw []byte) (*GenericTransaction, error) {
	var env xdr.TransactionEnvelope
	if err := xdr.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Type {
	case xdr.EnvelopeTypeTxV0, xdr.EnvelopeTypeTx:
		return &GenericTransaction{simple: &Transaction{envelope: env}}, nil
	}
	inner := xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTx, V1: &env.FeeBump.Tx.InnerTx}
	return &GenericTransaction{feeBump: &FeeBumpTransaction{
		envelope: env,
		inner:    &Transaction{envelope: inner},
	}}, nil
}
