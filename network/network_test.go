package network

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/xdr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkIDs(t *testing.T) {
	id := ID(TestNetworkPassphrase)
	assert.Equal(t, "cee0302d59844d32bdca915c8203dd44b33fbb7edc19051ea37abedf28ecd472", hex.EncodeToString(id[:]))
	id = ID(PublicNetworkPassphrase)
	assert.Equal(t, "7ac33997544e3175d266bd022439b22cdb16508c01163f26e5cb2a3e1045a979", hex.EncodeToString(id[:]))
}

func sampleTx(source xdr.AccountID) *xdr.Transaction {
	return &xdr.Transaction{
		SourceAccount: source.ToMuxedAccount(),
		Fee:           100,
		SeqNum:        1,
		Operations: []xdr.Operation{{
			Body: xdr.OperationBody{Type: xdr.OperationTypeBumpSequence, BumpSequenceOp: &xdr.BumpSequenceOp{BumpTo: 5}},
		}},
	}
}

func TestHashTransactionLayout(t *testing.T) {
	tx := sampleTx(xdr.AccountID{Ed25519: xdr.Uint256{1}})
	body, err := xdr.Marshal(tx)
	require.NoError(t, err)

	id := ID(TestNetworkPassphrase)
	preimage := append(append(id[:], 0, 0, 0, 2), body...)
	expected := sha256.Sum256(preimage)

	got, err := HashTransaction(tx, TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, expected, got)

	_, err = HashTransaction(tx, "")
	assert.Equal(t, ErrEmptyPassphrase, err)
}

func TestDomainSeparation(t *testing.T) {
	kp := keypair.MustRandom()
	tx := sampleTx(kp.AccountID())

	testHash, err := HashTransaction(tx, TestNetworkPassphrase)
	require.NoError(t, err)
	pubHash, err := HashTransaction(tx, PublicNetworkPassphrase)
	require.NoError(t, err)
	assert.NotEqual(t, testHash, pubHash)

	testSig, err := kp.Sign(testHash[:])
	require.NoError(t, err)
	pubSig, err := kp.Sign(pubHash[:])
	require.NoError(t, err)

	assert.True(t, kp.Verify(testHash[:], testSig))
	assert.False(t, kp.Verify(pubHash[:], testSig))
	assert.False(t, kp.Verify(testHash[:], pubSig))
}

func TestV0HashesAsV1(t *testing.T) {
	tb := xdr.TimeBounds{MaxTime: 10}
	v0 := xdr.TransactionV0{
		SourceAccountEd25519: xdr.Uint256{1},
		Fee:                  100,
		SeqNum:               1,
		TimeBounds:           &tb,
		Operations:           sampleTx(xdr.AccountID{}).Operations,
	}
	v1 := v0.ToV1()
	h0, err := HashTransactionV0(&v0, TestNetworkPassphrase)
	require.NoError(t, err)
	h1, err := HashTransaction(&v1, TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, h1, h0)
}

func TestFeeBumpHashDiffersFromInner(t *testing.T) {
	inner := sampleTx(xdr.AccountID{Ed25519: xdr.Uint256{1}})
	bump := xdr.FeeBumpTransaction{
		FeeSource: xdr.MuxedAccount{Ed25519: xdr.Uint256{2}},
		Fee:       400,
		InnerTx:   xdr.TransactionV1Envelope{Tx: *inner},
	}
	hInner, err := HashTransaction(inner, TestNetworkPassphrase)
	require.NoError(t, err)
	hBump, err := HashFeeBumpTransaction(&bump, TestNetworkPassphrase)
	require.NoError(t, err)
	assert.NotEqual(t, hInner, hBump)

	env := xdr.TransactionEnvelope{Type: xdr.EnvelopeTypeTxFeeBump, FeeBump: &xdr.FeeBumpTransactionEnvelope{Tx: bump}}
	hEnv, err := HashEnvelope(&env, TestNetworkPassphrase)
	require.NoError(t, err)
	assert.Equal(t, hBump, hEnv)
}

func TestSorobanAuthorizationHash(t *testing.T) {
	inv := xdr.SorobanAuthorizedInvocation{Function: xdr.SorobanAuthorizedFunction{
		Type: xdr.SorobanAuthorizedFunctionTypeContractFn,
		ContractFn: &xdr.InvokeContractArgs{
			ContractAddress: xdr.SCAddress{Type: xdr.SCAddressTypeContract, ContractID: xdr.Hash{1}},
			FunctionName:    "web_auth_verify",
		},
	}}
	a, err := HashSorobanAuthorization(TestNetworkPassphrase, 1, 100, inv)
	require.NoError(t, err)
	b, err := HashSorobanAuthorization(TestNetworkPassphrase, 1, 101, inv)
	require.NoError(t, err)
	c, err := HashSorobanAuthorization(PublicNetworkPassphrase, 1, 100, inv)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}
