package xdr

import (
	"fmt"

	"github.com/anyswap/Stellar-SDK/strkey"
)

// Address returns the G... form of the account id
func (a AccountID) Address() string {
	return strkey.MustEncode(strkey.VersionByteAccountID, a.Ed25519[:])
}

// Equals compares two account ids
func (a AccountID) Equals(other AccountID) bool {
	return a.Ed25519 == other.Ed25519
}

// AddressToAccountID parses a G... address
func AddressToAccountID(address string) (AccountID, error) {
	var id AccountID
	raw, err := strkey.Decode(strkey.VersionByteAccountID, address)
	if err != nil {
		return id, err
	}
	copy(id.Ed25519[:], raw)
	return id, nil
}

// MustAddress is AddressToAccountID for addresses known to be valid
func MustAddress(address string) AccountID {
	id, err := AddressToAccountID(address)
	if err != nil {
		panic(err)
	}
	return id
}

// Address returns the M... form for muxed accounts and G... otherwise
func (m MuxedAccount) Address() string {
	if m.IsMuxed() {
		return strkey.EncodeMuxed(m.Ed25519, m.ID)
	}
	return m.ToAccountID().Address()
}

// AddressToMuxedAccount parses a G... or M... address
func AddressToMuxedAccount(address string) (MuxedAccount, error) {
	version, raw, err := strkey.DecodeAny(address)
	if err != nil {
		return MuxedAccount{}, err
	}
	switch version {
	case strkey.VersionByteAccountID:
		m := MuxedAccount{Type: KeyTypeEd25519}
		copy(m.Ed25519[:], raw)
		return m, nil
	case strkey.VersionByteMuxedAccount:
		key, id, err := strkey.DecodeMuxed(address)
		if err != nil {
			return MuxedAccount{}, err
		}
		return MuxedAccount{Type: KeyTypeMuxedEd25519, Ed25519: key, ID: id}, nil
	}
	return MuxedAccount{}, fmt.Errorf("%w: %v is not an account", strkey.ErrInvalidAddress, version)
}

// Address returns the strkey form of the signer key
func (k SignerKey) Address() (string, error) {
	switch k.Type {
	case SignerKeyTypeEd25519:
		return strkey.Encode(strkey.VersionByteAccountID, k.Key[:])
	case SignerKeyTypePreAuthTx:
		return strkey.Encode(strkey.VersionByteHashTx, k.Key[:])
	case SignerKeyTypeHashX:
		return strkey.Encode(strkey.VersionByteHashX, k.Key[:])
	case SignerKeyTypeEd25519SignedPayload:
		return strkey.EncodeSignedPayload(strkey.SignedPayload{Signer: k.Key, Payload: k.Payload})
	}
	return "", errUnknownArm("SignerKey", int32(k.Type))
}

// AddressToSignerKey parses a G..., T..., X... or P... signer
func AddressToSignerKey(address string) (SignerKey, error) {
	version, raw, err := strkey.DecodeAny(address)
	if err != nil {
		return SignerKey{}, err
	}
	var k SignerKey
	switch version {
	case strkey.VersionByteAccountID:
		k.Type = SignerKeyTypeEd25519
	case strkey.VersionByteHashTx:
		k.Type = SignerKeyTypePreAuthTx
	case strkey.VersionByteHashX:
		k.Type = SignerKeyTypeHashX
	case strkey.VersionByteSignedPayload:
		sp, err := strkey.DecodeSignedPayload(address)
		if err != nil {
			return SignerKey{}, err
		}
		return SignerKey{Type: SignerKeyTypeEd25519SignedPayload, Key: sp.Signer, Payload: sp.Payload}, nil
	default:
		return SignerKey{}, fmt.Errorf("%w: %v is not a signer", strkey.ErrInvalidAddress, version)
	}
	copy(k.Key[:], raw)
	return k, nil
}

// String returns the G... or C... form of the address
func (a SCAddress) String() string {
	switch a.Type {
	case SCAddressTypeAccount:
		return a.AccountID.Address()
	case SCAddressTypeContract:
		return strkey.MustEncode(strkey.VersionByteContract, a.ContractID[:])
	}
	return fmt.Sprintf("SCAddress(%d)", int32(a.Type))
}

// ParseSCAddress parses a G... account or C... contract address
func ParseSCAddress(address string) (SCAddress, error) {
	version, raw, err := strkey.DecodeAny(address)
	if err != nil {
		return SCAddress{}, err
	}
	var a SCAddress
	switch version {
	case strkey.VersionByteAccountID:
		a.Type = SCAddressTypeAccount
		copy(a.AccountID.Ed25519[:], raw)
	case strkey.VersionByteContract:
		a.Type = SCAddressTypeContract
		copy(a.ContractID[:], raw)
	default:
		return SCAddress{}, fmt.Errorf("%w: %v is not a contract address", strkey.ErrInvalidAddress, version)
	}
	return a, nil
}
