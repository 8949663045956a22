package txnbuild

import (
	"encoding/hex"
	"fmt"
	"math"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/xdr"
)

// FeeBumpTransaction lets feeAccount pay a higher fee for an already
// signed transaction. The inner transaction is never modified.
type FeeBumpTransaction struct {
	envelope xdr.TransactionEnvelope
	inner    *Transaction
}

// NewFeeBumpTransaction wraps inner, paying baseFee per operation (the
// wrapper counts as one more operation). baseFee must be strictly greater
// than the inner base fee and inner must carry at least one signature.
func NewFeeBumpTransaction(inner *Transaction, feeAccount string, baseFee int64) (*FeeBumpTransaction, error) {
	if inner == nil || len(inner.envelope.Signatures()) == 0 {
		return nil, ErrInnerNotSigned
	}
	if baseFee < MinBaseFee {
		return nil, fmt.Errorf("%w: %d < %d", ErrBaseFeeTooLow, baseFee, MinBaseFee)
	}
	if innerFee := inner.BaseFee(); baseFee <= innerFee {
		return nil, fmt.Errorf("%w: %d <= %d", ErrFeeBumpBaseFeeTooLow, baseFee, innerFee)
	}
	feeSource, err := xdr.AddressToMuxedAccount(feeAccount)
	if err != nil {
		return nil, fmt.Errorf("fee account: %w", err)
	}
	ops := int64(len(inner.body().Operations)) + 1
	if baseFee > math.MaxInt64/ops {
		return nil, fmt.Errorf("%w: %d x %d", ErrFeeOverflow, baseFee, ops)
	}

	innerEnv := inner.v1Envelope()
	env := xdr.TransactionEnvelope{
		Type: xdr.EnvelopeTypeTxFeeBump,
		FeeBump: &xdr.FeeBumpTransactionEnvelope{
			Tx: xdr.FeeBumpTransaction{
				FeeSource: feeSource,
				Fee:       baseFee * ops,
				InnerTx:   innerEnv,
			},
			Signatures: []xdr.DecoratedSignature{},
		},
	}
	wrapped := &Transaction{envelope: xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTx, V1: &env.FeeBump.Tx.InnerTx}}
	return &FeeBumpTransaction{envelope: env, inner: wrapped}, nil
}

// InnerTransaction returns the wrapped transaction in v1 form
func (t *FeeBumpTransaction) InnerTransaction() *Transaction {
	return t.inner
}

// FeeAccount returns the account paying the fee
func (t *FeeBumpTransaction) FeeAccount() xdr.MuxedAccount {
	return t.envelope.FeeBump.Tx.FeeSource
}

func (t *FeeBumpTransaction) MaxFee() int64 {
	return t.envelope.FeeBump.Tx.Fee
}

// BaseFee returns the fee per operation, counting the wrapper
func (t *FeeBumpTransaction) BaseFee() int64 {
	return t.MaxFee() / int64(len(t.envelope.FeeBump.Tx.InnerTx.Tx.Operations)+1)
}

// Signatures returns a copy of the outer signature list
func (t *FeeBumpTransaction) Signatures() []xdr.DecoratedSignature {
	return append([]xdr.DecoratedSignature{}, t.envelope.FeeBump.Signatures...)
}

// ToXDR returns the envelope with its own copy of the signature list
func (t *FeeBumpTransaction) ToXDR() xdr.TransactionEnvelope {
	return t.withSignatures(t.Signatures()).envelope
}

func (t *FeeBumpTransaction) MarshalBinary() ([]byte, error) {
	return xdr.Marshal(&t.envelope)
}

func (t *FeeBumpTransaction) Base64() (string, error) {
	return xdr.MarshalBase64(&t.envelope)
}

// Hash returns the fee-bump signature payload hash
func (t *FeeBumpTransaction) Hash(passphrase string) ([32]byte, error) {
	return network.HashFeeBumpTransaction(&t.envelope.FeeBump.Tx, passphrase)
}

func (t *FeeBumpTransaction) HashHex(passphrase string) (string, error) {
	h, err := t.Hash(passphrase)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h[:]), nil
}

func (t *FeeBumpTransaction) withSignatures(sigs []xdr.DecoratedSignature) *FeeBumpTransaction {
	fb := *t.envelope.FeeBump
	fb.Signatures = sigs
	return &FeeBumpTransaction{
		envelope: xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTxFeeBump, FeeBump: &fb},
		inner:    t.inner,
	}
}

// Sign returns a copy of t with one outer signature per keypair appended
func (t *FeeBumpTransaction) Sign(passphrase string, kps ...*keypair.KP) (*FeeBumpTransaction, error) {
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

// AddSignatureDecorated returns a copy of t with sigs appended
func (t *FeeBumpTransaction) AddSignatureDecorated(sigs ...xdr.DecoratedSignature) (*FeeBumpTransaction, error) {
	all, err := appendSignatures(t.envelope.FeeBump.Signatures, sigs...)
	if err != nil {
		return nil, err
	}
	return t.withSignatures(all), nil
}
