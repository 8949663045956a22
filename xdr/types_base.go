package xdr

import "fmt"

// Uint256 is an opaque[32] value (public keys, signer hashes)
type Uint256 [32]byte

// Hash is a SHA-256 digest
type Hash [32]byte

// SignatureHint is the last four bytes of the signing public key
type SignatureHint [4]byte

// MaxSignatureLength bounds the Signature opaque
const MaxSignatureLength = 64

// CryptoKeyType discriminates key material on the wire
type CryptoKeyType int32

// crypto key types
const (
	KeyTypeEd25519              CryptoKeyType = 0
	KeyTypePreAuthTx            CryptoKeyType = 1
	KeyTypeHashX                CryptoKeyType = 2
	KeyTypeEd25519SignedPayload CryptoKeyType = 3
	KeyTypeMuxedEd25519         CryptoKeyType = 0x100
)

// EnvelopeType tags signature payloads and envelopes
type EnvelopeType int32

// envelope types
const (
	EnvelopeTypeTxV0                 EnvelopeType = 0
	EnvelopeTypeScp                  EnvelopeType = 1
	EnvelopeTypeTx                   EnvelopeType = 2
	EnvelopeTypeAuth                 EnvelopeType = 3
	EnvelopeTypeScpvalue             EnvelopeType = 4
	EnvelopeTypeTxFeeBump            EnvelopeType = 5
	EnvelopeTypeOpID                 EnvelopeType = 6
	EnvelopeTypePoolRevokeOpID       EnvelopeType = 7
	EnvelopeTypeContractID           EnvelopeType = 8
	EnvelopeTypeSorobanAuthorization EnvelopeType = 9
)

func (t EnvelopeType) String() string {
	switch t {
	case EnvelopeTypeTxV0:
		return "EnvelopeTypeTxV0"
	case EnvelopeTypeTx:
		return "EnvelopeTypeTx"
	case EnvelopeTypeTxFeeBump:
		return "EnvelopeTypeTxFeeBump"
	case EnvelopeTypeSorobanAuthorization:
		return "EnvelopeTypeSorobanAuthorization"
	}
	return fmt.Sprintf("EnvelopeType(%d)", int32(t))
}

func (u *Uint256) EncodeTo(e *Encoder) error {
	e.WriteFixedOpaque(u[:])
	return nil
}

func (u *Uint256) DecodeFrom(d *Decoder) error {
	return d.ReadFixedOpaque(u[:])
}

func (h *Hash) EncodeTo(e *Encoder) error {
	e.WriteFixedOpaque(h[:])
	return nil
}

func (h *Hash) DecodeFrom(d *Decoder) error {
	return d.ReadFixedOpaque(h[:])
}

// AccountID is a PublicKey union; only the ed25519 arm exists
type AccountID struct {
	Ed25519 Uint256
}

func (a *AccountID) EncodeTo(e *Encoder) error {
	e.WriteInt32(int32(KeyTypeEd25519))
	e.WriteFixedOpaque(a.Ed25519[:])
	return nil
}

func (a *AccountID) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	if CryptoKeyType(disc) != KeyTypeEd25519 {
		return d.unknownArm("PublicKey", disc)
	}
	return d.ReadFixedOpaque(a.Ed25519[:])
}

// MuxedAccount is an ed25519 account optionally extended with a 64-bit
// sub-account id. ID is meaningful only when Type is KeyTypeMuxedEd25519.
type MuxedAccount struct {
	Type    CryptoKeyType
	Ed25519 Uint256
	ID      uint64
}

// IsMuxed reports whether the account carries a sub-account id
func (m MuxedAccount) IsMuxed() bool {
	return m.Type == KeyTypeMuxedEd25519
}

// ToAccountID drops the sub-account id
func (m MuxedAccount) ToAccountID() AccountID {
	return AccountID{Ed25519: m.Ed25519}
}

// NewMuxedAccount builds a muxed account from an account id and sub-account id
func NewMuxedAccount(id AccountID, subID uint64) MuxedAccount {
	return MuxedAccount{Type: KeyTypeMuxedEd25519, Ed25519: id.Ed25519, ID: subID}
}

// ToMuxedAccount wraps a plain account id
func (a AccountID) ToMuxedAccount() MuxedAccount {
	return MuxedAccount{Type: KeyTypeEd25519, Ed25519: a.Ed25519}
}

func (m *MuxedAccount) EncodeTo(e *Encoder) error {
	switch m.Type {
	case KeyTypeEd25519:
		e.WriteInt32(int32(m.Type))
		e.WriteFixedOpaque(m.Ed25519[:])
	case KeyTypeMuxedEd25519:
		e.WriteInt32(int32(m.Type))
		e.WriteUint64(m.ID)
		e.WriteFixedOpaque(m.Ed25519[:])
	default:
		return errUnknownArm("MuxedAccount", int32(m.Type))
	}
	return nil
}

func (m *MuxedAccount) DecodeFrom(d *Decoder) error {
	disc, err := d.ReadInt32()
	if err != nil {
		return err
	}
	*m = MuxedAccount{Type: CryptoKeyType(disc)}
	switch m.Type {
	case KeyTypeEd25519:
	case KeyTypeMuxedEd25519:
		if m.ID, err = d.ReadUint64(); err != nil {
			return err
		}
	default:
		return d.unknownArm("MuxedAccount", disc)
	}
	return d.ReadFixedOpaque(m.Ed25519[:])
}

// DecoratedSignature is a signature with the hint of the key that made it
type DecoratedSignature struct {
	Hint      SignatureHint
	Signature []byte
}

func (s *DecoratedSignature) EncodeTo(e *Encoder) error {
	if err := checkLen("Signature", len(s.Signature), MaxSignatureLength); err != nil {
		return err
	}
	e.WriteFixedOpaque(s.Hint[:])
	e.WriteOpaque(s.Signature)
	return nil
}

func (s *DecoratedSignature) DecodeFrom(d *Decoder) error {
	if err := d.ReadFixedOpaque(s.Hint[:]); err != nil {
		return err
	}
	sig, err := d.ReadOpaque(MaxSignatureLength)
	if err != nil {
		return err
	}
	s.Signature = sig
	return nil
}

// MaxSignatures bounds the signature list of every envelope
const MaxSignatures = 20

func encodeSignatures(e *Encoder, sigs []DecoratedSignature) error {
	if err := checkLen("DecoratedSignature<20>", len(sigs), MaxSignatures); err != nil {
		return err
	}
	e.WriteArrayLen(len(sigs))
	for i := range sigs {
		if err := sigs[i].EncodeTo(e); err != nil {
			return err
		}
	}
	return nil
}

func decodeSignatures(d *Decoder) ([]DecoratedSignature, error) {
	n, err := d.ReadArrayLen(MaxSignatures)
	if err != nil {
		return nil, err
	}
	sigs := make([]DecoratedSignature, n)
	for i := range sigs {
		if err := sigs[i].DecodeFrom(d); err != nil {
			return nil, err
		}
	}
	return sigs, nil
}

// encodeVoidExt writes the empty "ext" union that closes most structs
func encodeVoidExt(e *Encoder) {
	e.WriteInt32(0)
}

func decodeVoidExt(d *Decoder, typ string) error {
	v, err := d.ReadInt32()
	if err != nil {
		return err
	}
	if v != 0 {
		return d.unknownArm(typ, v)
	}
	return nil
}
