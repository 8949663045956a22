package txnbuild

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/anyswap/Stellar-SDK/xdr"
)

// NativeAsset returns the network's native asset
func NativeAsset() xdr.Asset {
	return xdr.Asset{Type: xdr.AssetTypeNative}
}

func validCode(code string) bool {
	if len(code) == 0 || len(code) > 12 {
		return false
	}
	for _, c := range code {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

// CreditAsset returns an issued asset. Codes of 1-4 characters select the
// short variant and 5-12 characters the long one.
func CreditAsset(code, issuer string) (xdr.Asset, error) {
	if !validCode(code) {
		return xdr.Asset{}, fmt.Errorf("%w: code %q", ErrInvalidAsset, code)
	}
	id, err := xdr.AddressToAccountID(issuer)
	if err != nil {
		return xdr.Asset{}, fmt.Errorf("%w: issuer: %v", ErrInvalidAsset, err)
	}
	if len(code) <= 4 {
		a := xdr.Asset{Type: xdr.AssetTypeCreditAlphanum4}
		copy(a.AlphaNum4.AssetCode[:], code)
		a.AlphaNum4.Issuer = id
		return a, nil
	}
	a := xdr.Asset{Type: xdr.AssetTypeCreditAlphanum12}
	copy(a.AlphaNum12.AssetCode[:], code)
	a.AlphaNum12.Issuer = id
	return a, nil
}

// MustCreditAsset is CreditAsset for constants
func MustCreditAsset(code, issuer string) xdr.Asset {
	a, err := CreditAsset(code, issuer)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAsset parses "native" or "CODE:ISSUER"
func ParseAsset(s string) (xdr.Asset, error) {
	if s == "native" {
		return NativeAsset(), nil
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return xdr.Asset{}, fmt.Errorf("%w: %q", ErrInvalidAsset, s)
	}
	return CreditAsset(parts[0], parts[1])
}

// AssetCode returns the code with padding removed; empty for native
func AssetCode(a xdr.Asset) string {
	switch a.Type {
	case xdr.AssetTypeCreditAlphanum4:
		return string(bytes.TrimRight(a.AlphaNum4.AssetCode[:], "\x00"))
	case xdr.AssetTypeCreditAlphanum12:
		return string(bytes.TrimRight(a.AlphaNum12.AssetCode[:], "\x00"))
	}
	return ""
}

// AssetIssuer returns the issuer address; empty for native
func AssetIssuer(a xdr.Asset) string {
	switch a.Type {
	case xdr.AssetTypeCreditAlphanum4:
		return a.AlphaNum4.Issuer.Address()
	case xdr.AssetTypeCreditAlphanum12:
		return a.AlphaNum12.Issuer.Address()
	}
	return ""
}

// AssetString returns "native" or "CODE:ISSUER"
func AssetString(a xdr.Asset) string {
	if a.Type == xdr.AssetTypeNative {
		return "native"
	}
	return AssetCode(a) + ":" + AssetIssuer(a)
}

// AssetLess orders assets by type, then code, then issuer
func AssetLess(a, b xdr.Asset) bool {
	if a.Type != b.Type {
		return a.Type < b.Type
	}
	if a.Type == xdr.AssetTypeNative {
		return false
	}
	ca, cb := AssetCode(a), AssetCode(b)
	if ca != cb {
		return ca < cb
	}
	return bytes.Compare(assetIssuerKey(a), assetIssuerKey(b)) < 0
}

func assetIssuerKey(a xdr.Asset) []byte {
	if a.Type == xdr.AssetTypeCreditAlphanum4 {
		return a.AlphaNum4.Issuer.Ed25519[:]
	}
	return a.AlphaNum12.Issuer.Ed25519[:]
}

// LiquidityPoolShareAsset returns the change-trust asset naming the
// constant product pool of a and b. a must sort before b.
func LiquidityPoolShareAsset(a, b xdr.Asset) (xdr.ChangeTrustAsset, error) {
	if !AssetLess(a, b) {
		return xdr.ChangeTrustAsset{}, fmt.Errorf("%w: pool assets must be distinct and ordered", ErrInvalidAsset)
	}
	return xdr.ChangeTrustAsset{
		Type: xdr.AssetTypePoolShare,
		LiquidityPool: &xdr.LiquidityPoolParameters{
			AssetA: a,
			AssetB: b,
			Fee:    xdr.LiquidityPoolFeeV18,
		},
	}, nil
}
