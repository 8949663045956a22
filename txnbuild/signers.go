package txnbuild

import (
	"crypto/sha256"

	"github.com/anyswap/Stellar-SDK/strkey"
)

// PreAuthTxSigner returns the T... signer that authorizes exactly t on the
// given network
func PreAuthTxSigner(t *Transaction, passphrase string) (string, error) {
	h, err := t.Hash(passphrase)
	if err != nil {
		return "", err
	}
	return strkey.Encode(strkey.VersionByteHashTx, h[:])
}

// HashXSigner returns the X... signer satisfied by revealing preimage
func HashXSigner(preimage []byte) string {
	h := sha256.Sum256(preimage)
	return strkey.MustEncode(strkey.VersionByteHashX, h[:])
}
