package sep10

import (
	"bytes"
	"context"
	"fmt"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
)

// SignTransaction appends one signature per distinct signer to the
// challenge. Existing signatures are kept.
func (w *WebAuth) SignTransaction(challenge string, signers []*keypair.KP) (string, error) {
	signers = auth.UniqueSigners(signers...)
	if len(signers) == 0 {
		return "", auth.ErrNoSigners
	}
	tx, err := parseChallenge(challenge)
	if err != nil {
		return "", err
	}
	signed, err := tx.Sign(w.cfg.NetworkPassphrase, signers...)
	if err != nil {
		return "", err
	}
	return signed.Base64()
}

// signWithCallback hands the challenge to the client domain callback and
// checks that the result only gained one valid signature by the client
// domain account
func (w *WebAuth) signWithCallback(ctx context.Context, challenge string, req *Request) (string, error) {
	before, err := parseChallenge(challenge)
	if err != nil {
		return "", err
	}
	result, err := req.ClientDomainCallback(ctx, challenge)
	if err != nil {
		return "", fmt.Errorf("client domain callback: %w", err)
	}
	after, err := parseChallenge(result)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCallbackResult, err)
	}

	bodyBefore, err := before.ClearSignatures().Base64()
	if err != nil {
		return "", err
	}
	bodyAfter, err := after.ClearSignatures().Base64()
	if err != nil {
		return "", err
	}
	if bodyBefore != bodyAfter {
		return "", fmt.Errorf("%w: transaction body changed", ErrInvalidCallbackResult)
	}

	oldSigs, newSigs := before.Signatures(), after.Signatures()
	if len(newSigs) != len(oldSigs)+1 {
		return "", fmt.Errorf("%w: %d signatures added", ErrInvalidCallbackResult, len(newSigs)-len(oldSigs))
	}
	for i := range oldSigs {
		if oldSigs[i].Hint != newSigs[i].Hint || !bytes.Equal(oldSigs[i].Signature, newSigs[i].Signature) {
			return "", fmt.Errorf("%w: signature %d changed", ErrInvalidCallbackResult, i)
		}
	}
	clientKey, err := keypair.FromAddress(req.ClientDomainAccount)
	if err != nil {
		return "", err
	}
	hash, err := before.Hash(w.cfg.NetworkPassphrase)
	if err != nil {
		return "", err
	}
	if !clientKey.VerifyDecorated(hash[:], newSigs[len(newSigs)-1]) {
		return "", fmt.Errorf("%w: signature is not by %v", ErrInvalidCallbackResult, req.ClientDomainAccount)
	}
	return result, nil
}
