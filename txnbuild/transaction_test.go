package txnbuild

import (
	"encoding/base64"
	"errors"
	"testing"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func b64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

func signedPayment(t *testing.T, source *keypair.KP, baseFee int64) *Transaction {
	dest := keypair.MustRandom()
	pay, err := NewPayment(dest.Address(), NativeAsset(), "10")
	require.NoError(t, err)
	memo, err := MemoText("hello")
	require.NoError(t, err)
	tx, err := NewTransactionBuilder(NewSimpleAccount(source.Address(), 100), baseFee).
		AddOperations(pay).
		SetMemo(memo).
		SetTimeBounds(0, 1000).
		Build()
	require.NoError(t, err)
	tx, err = tx.Sign(network.TestNetworkPassphrase, source)
	require.NoError(t, err)
	return tx
}

func TestEnvelopeRoundTrip(t *testing.T) {
	tx := signedPayment(t, keypair.MustRandom(), 100)
	text, err := tx.Base64()
	require.NoError(t, err)

	parsed, err := TransactionFromXDR(text)
	require.NoError(t, err)
	got, ok := parsed.Transaction()
	require.True(t, ok)
	_, isBump := parsed.FeeBump()
	assert.False(t, isBump)

	again, err := got.Base64()
	require.NoError(t, err)
	assert.Equal(t, text, again)
	assert.Equal(t, tx.ToXDR(), got.ToXDR())
}

func TestV0EnvelopeRoundTrip(t *testing.T) {
	kp := keypair.MustRandom()
	op := bumpOp(t, 5)
	v0 := xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTxV0, V0: &xdr.TransactionV0Envelope{
		Tx: xdr.TransactionV0{
			SourceAccountEd25519: xdr.Uint256(kp.RawPublicKey()),
			Fee:                  100,
			SeqNum:               3,
			Operations:           []xdr.Operation{op},
		},
		Signatures: []xdr.DecoratedSignature{},
	}}
	text, err := xdr.MarshalBase64(&v0)
	require.NoError(t, err)

	parsed, err := TransactionFromXDR(text)
	require.NoError(t, err)
	tx, ok := parsed.Transaction()
	require.True(t, ok)
	assert.True(t, tx.IsV0())
	assert.Equal(t, kp.Address(), tx.SourceAccount().Address())

	signed, err := tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)
	assert.True(t, signed.IsV0())

	// a v0 signature is valid for the v1 form of the same transaction
	v1, err := NewTransactionBuilder(NewSimpleAccount(kp.Address(), 2), 100).AddOperations(op).Build()
	require.NoError(t, err)
	h, err := v1.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.True(t, kp.VerifyDecorated(h[:], signed.Signatures()[0]))

	text2, err := tx.Base64()
	require.NoError(t, err)
	assert.Equal(t, text, text2)
}

func TestTransactionFromXDRRejectsGarbage(t *testing.T) {
	_, err := TransactionFromXDR("not base64!")
	assert.True(t, errors.Is(err, xdr.ErrMalformedInput))

	_, err = TransactionFromXDR(b64([]byte{0, 0, 0, 2, 0, 0}))
	assert.True(t, errors.Is(err, xdr.ErrMalformedInput))
}

func TestFeeBump(t *testing.T) {
	source := keypair.MustRandom()
	payer := keypair.MustRandom()
	inner := signedPayment(t, source, 200)
	innerText, err := inner.Base64()
	require.NoError(t, err)

	_, err = NewFeeBumpTransaction(inner, payer.Address(), 200)
	assert.True(t, errors.Is(err, ErrFeeBumpBaseFeeTooLow))
	_, err = NewFeeBumpTransaction(inner, payer.Address(), 150)
	assert.True(t, errors.Is(err, ErrFeeBumpBaseFeeTooLow))

	_, err = NewFeeBumpTransaction(inner.ClearSignatures(), payer.Address(), 300)
	assert.Equal(t, ErrInnerNotSigned, err)

	bump, err := NewFeeBumpTransaction(inner, payer.Address(), 201)
	require.NoError(t, err)
	assert.Equal(t, int64(402), bump.MaxFee())
	assert.Equal(t, int64(201), bump.BaseFee())
	assert.Equal(t, payer.Address(), bump.FeeAccount().Address())

	bump, err = bump.Sign(network.TestNetworkPassphrase, payer)
	require.NoError(t, err)
	h, err := bump.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.True(t, payer.VerifyDecorated(h[:], bump.Signatures()[0]))

	// wrapping does not touch the inner transaction
	after, err := inner.Base64()
	require.NoError(t, err)
	assert.Equal(t, innerText, after)
	assert.Len(t, inner.Signatures(), 1)

	text, err := bump.Base64()
	require.NoError(t, err)
	parsed, err := TransactionFromXDR(text)
	require.NoError(t, err)
	got, ok := parsed.FeeBump()
	require.True(t, ok)
	again, err := got.Base64()
	require.NoError(t, err)
	assert.Equal(t, text, again)

	innerHash, err := got.InnerTransaction().Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	expected, err := inner.Hash(network.TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, expected, innerHash)
}

func TestFeeBumpOfV0Inner(t *testing.T) {
	kp := keypair.MustRandom()
	v0 := xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTxV0, V0: &xdr.TransactionV0Envelope{
		Tx: xdr.TransactionV0{
			SourceAccountEd25519: xdr.Uint256(kp.RawPublicKey()),
			Fee:                  100,
			SeqNum:               3,
			Operations:           []xdr.Operation{bumpOp(t, 5)},
		},
	}}
	text, err := xdr.MarshalBase64(&v0)
	require.NoError(t, err)
	parsed, err := TransactionFromXDR(text)
	require.NoError(t, err)
	tx, _ := parsed.Transaction()
	tx, err = tx.Sign(network.TestNetworkPassphrase, kp)
	require.NoError(t, err)

	bump, err := NewFeeBumpTransaction(tx, kp.Address(), 101)
	require.NoError(t, err)
	env := bump.ToXDR()
	assert.Equal(t, xdr.KeyTypeEd25519, env.FeeBump.Tx.InnerTx.Tx.SourceAccount.Type)
	assert.False(t, bump.InnerTransaction().IsV0())
}
