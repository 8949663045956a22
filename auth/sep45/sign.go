package sep45

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/anyswap/Stellar-SDK/auth"
	"github.com/anyswap/Stellar-SDK/keypair"
	"github.com/anyswap/Stellar-SDK/log"
	"github.com/anyswap/Stellar-SDK/network"
	"github.com/anyswap/Stellar-SDK/xdr"
)

func (w *WebAuth) expirationLedger(ctx context.Context, req *Request) (uint32, error) {
	if req.SignatureExpirationLedger != nil {
		return *req.SignatureExpirationLedger, nil
	}
	if w.ledgers == nil {
		return 0, ErrNoLedgerSource
	}
	latest, err := w.ledgers.GetLatestLedger(ctx)
	if err != nil {
		return 0, fmt.Errorf("sep45: latest ledger: %w", err)
	}
	return latest.Sequence + DefaultExpirationOffset, nil
}

// SignEntries returns a copy of entries with the client entry signed by
// req.Signers and the client domain entry signed by the client domain
// signer or callback. Both get the same expiration ledger. With nothing to
// sign the entries are returned as they are and no ledger is fetched.
func (w *WebAuth) SignEntries(ctx context.Context, entries xdr.SorobanAuthorizationEntries, req *Request) (xdr.SorobanAuthorizationEntries, error) {
	if err := req.check(); err != nil {
		return nil, err
	}
	signers := auth.UniqueSigners(req.Signers...)
	domainSigning := req.ClientDomain != "" && (req.ClientDomainSigner != nil || req.ClientDomainCallback != nil)
	if len(signers) == 0 && !domainSigning {
		return entries, nil
	}

	expiration, err := w.expirationLedger(ctx, req)
	if err != nil {
		return nil, err
	}
	clientAddr, err := xdr.ParseSCAddress(req.AccountID)
	if err != nil {
		return nil, err
	}
	var domainAddr xdr.SCAddress
	if domainSigning {
		if domainAddr, err = xdr.ParseSCAddress(req.ClientDomainAccount); err != nil {
			return nil, err
		}
	}

	out := make(xdr.SorobanAuthorizationEntries, len(entries))
	for i, entry := range entries {
		out[i] = entry
		creds := entry.Credentials.Address
		if creds == nil {
			continue
		}
		switch {
		case creds.Address == clientAddr && len(signers) > 0:
			out[i], err = SignEntry(entry, w.cfg.NetworkPassphrase, expiration, signers...)
		case domainSigning && creds.Address == domainAddr:
			if req.ClientDomainCallback != nil {
				out[i], err = w.signWithCallback(ctx, entry, expiration, req)
			} else {
				out[i], err = SignEntry(entry, w.cfg.NetworkPassphrase, expiration, req.ClientDomainSigner)
			}
		}
		if err != nil {
			return nil, err
		}
	}
	log.Debug("sep45 challenge signed", "account", req.AccountID, "signers", len(signers), "expiration", expiration)
	return out, nil
}

func signatureMap(pub, sig []byte) xdr.SCVal {
	m := xdr.SCMap{
		{Key: xdr.SCSymbol(signatureKeyPublicKey), Val: xdr.SCBytes(pub)},
		{Key: xdr.SCSymbol(signatureKeySignature), Val: xdr.SCBytes(sig)},
	}
	return xdr.SCVal{Type: xdr.SCValTypeMap, Map: &m}
}

func withExpiration(entry xdr.SorobanAuthorizationEntry, expiration uint32) (xdr.SorobanAuthorizationEntry, *xdr.SorobanAddressCredentials) {
	creds := *entry.Credentials.Address
	creds.SignatureExpirationLedger = expiration
	entry.Credentials = xdr.SorobanCredentials{Type: xdr.SorobanCredentialsTypeAddress, Address: &creds}
	return entry, &creds
}

// SignEntry returns a copy of an address-credential entry expiring at
// expiration with one {public_key, signature} map per keypair added to its
// signature list. The list is kept sorted by public key.
func SignEntry(entry xdr.SorobanAuthorizationEntry, passphrase string, expiration uint32, kps ...*keypair.KP) (xdr.SorobanAuthorizationEntry, error) {
	if entry.Credentials.Address == nil {
		return entry, fmt.Errorf("%w: entry has no address credentials", ErrInvalidCredentials)
	}
	entry, creds := withExpiration(entry, expiration)
	hash, err := network.HashSorobanAuthorization(passphrase, creds.Nonce, expiration, entry.RootInvocation)
	if err != nil {
		return entry, err
	}

	existing, _ := creds.Signature.GetVec()
	sigs := append(xdr.SCVec{}, existing...)
	for _, kp := range kps {
		sig, err := kp.Sign(hash[:])
		if err != nil {
			return entry, err
		}
		pub := kp.RawPublicKey()
		sigs = append(sigs, signatureMap(pub[:], sig))
	}
	sort.SliceStable(sigs, func(i, j int) bool {
		a, _, _ := signatureParts(sigs[i])
		b, _, _ := signatureParts(sigs[j])
		return bytes.Compare(a, b) < 0
	})
	creds.Signature = xdr.SCVal{Type: xdr.SCValTypeVec, Vec: &sigs}
	return entry, nil
}

func withoutSignature(entry xdr.SorobanAuthorizationEntry) ([]byte, error) {
	if entry.Credentials.Address != nil {
		creds := *entry.Credentials.Address
		creds.Signature = xdr.SCVal{Type: xdr.SCValTypeVoid}
		entry.Credentials.Address = &creds
	}
	return xdr.Marshal(&entry)
}

// signWithCallback sends the client domain entry to the callback and checks
// that only its signature changed and that it now verifies for the client
// domain account
func (w *WebAuth) signWithCallback(ctx context.Context, entry xdr.SorobanAuthorizationEntry, expiration uint32, req *Request) (xdr.SorobanAuthorizationEntry, error) {
	prepared, _ := withExpiration(entry, expiration)
	encoded, err := xdr.MarshalBase64(&prepared)
	if err != nil {
		return entry, err
	}
	result, err := req.ClientDomainCallback(ctx, encoded)
	if err != nil {
		return entry, fmt.Errorf("client domain callback: %w", err)
	}
	var signed xdr.SorobanAuthorizationEntry
	if err = xdr.UnmarshalBase64(result, &signed); err != nil {
		return entry, fmt.Errorf("%w: %v", ErrInvalidCallbackResult, err)
	}

	before, err := withoutSignature(prepared)
	if err != nil {
		return entry, err
	}
	after, err := withoutSignature(signed)
	if err != nil {
		return entry, fmt.Errorf("%w: %v", ErrInvalidCallbackResult, err)
	}
	if !bytes.Equal(before, after) {
		return entry, fmt.Errorf("%w: entry changed", ErrInvalidCallbackResult)
	}
	domainKey, err := keypair.FromAddress(req.ClientDomainAccount)
	if err != nil {
		return entry, err
	}
	if !verifyEntry(&signed, domainKey, w.cfg.NetworkPassphrase) {
		return entry, fmt.Errorf("%w: no valid signature by %v", ErrInvalidCallbackResult, req.ClientDomainAccount)
	}
	return signed, nil
}
