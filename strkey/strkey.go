// Package strkey implements the versioned, checksummed base32 text encoding
// of ledger identifiers (account keys, seeds, signers, contracts, pools).
package strkey

import (
	"bytes"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
)

// VersionByte is the leading byte of a decoded strkey. It determines the
// first character of the text form.
type VersionByte byte

// version bytes
const (
	VersionByteAccountID        VersionByte = 6 << 3  // G
	VersionByteSeed             VersionByte = 18 << 3 // S
	VersionByteHashTx           VersionByte = 19 << 3 // T
	VersionByteHashX            VersionByte = 23 << 3 // X
	VersionByteMuxedAccount     VersionByte = 12 << 3 // M
	VersionByteSignedPayload    VersionByte = 15 << 3 // P
	VersionByteContract         VersionByte = 2 << 3  // C
	VersionByteLiquidityPool    VersionByte = 11 << 3 // L
	VersionByteClaimableBalance VersionByte = 1 << 3  // B
)

// ErrInvalidAddress is returned for any text that fails to decode
var ErrInvalidAddress = errors.New("invalid strkey address")

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// payload sizes; signed payloads are variable and bounded separately
const (
	ed25519Size            = 32
	muxedSize              = ed25519Size + 8
	claimableBalanceSize   = 1 + 32
	signedPayloadMinSize   = ed25519Size + 4 + 4
	signedPayloadMaxSize   = ed25519Size + 4 + MaxSignedPayloadLength
	MaxSignedPayloadLength = 64
)

var versionNames = map[VersionByte]string{
	VersionByteAccountID:        "account id",
	VersionByteSeed:             "seed",
	VersionByteHashTx:           "pre-auth tx",
	VersionByteHashX:            "hash-x",
	VersionByteMuxedAccount:     "muxed account",
	VersionByteSignedPayload:    "signed payload",
	VersionByteContract:         "contract",
	VersionByteLiquidityPool:    "liquidity pool",
	VersionByteClaimableBalance: "claimable balance",
}

func (v VersionByte) String() string {
	if name, ok := versionNames[v]; ok {
		return name
	}
	return fmt.Sprintf("unknown version byte %d", byte(v))
}

func checkPayloadSize(version VersionByte, n int) error {
	switch version {
	case VersionByteAccountID, VersionByteSeed, VersionByteHashTx, VersionByteHashX,
		VersionByteContract, VersionByteLiquidityPool:
		if n != ed25519Size {
			return fmt.Errorf("%w: %v payload must be %d bytes, got %d", ErrInvalidAddress, version, ed25519Size, n)
		}
	case VersionByteMuxedAccount:
		if n != muxedSize {
			return fmt.Errorf("%w: %v payload must be %d bytes, got %d", ErrInvalidAddress, version, muxedSize, n)
		}
	case VersionByteClaimableBalance:
		if n != claimableBalanceSize {
			return fmt.Errorf("%w: %v payload must be %d bytes, got %d", ErrInvalidAddress, version, claimableBalanceSize, n)
		}
	case VersionByteSignedPayload:
		if n < signedPayloadMinSize || n > signedPayloadMaxSize || n%4 != 0 {
			return fmt.Errorf("%w: %v payload has invalid size %d", ErrInvalidAddress, version, n)
		}
	default:
		return fmt.Errorf("%w: %v", ErrInvalidAddress, version)
	}
	return nil
}

// Encode returns the text form of payload under the given version
func Encode(version VersionByte, payload []byte) (string, error) {
	if err := checkPayloadSize(version, len(payload)); err != nil {
		return "", err
	}
	raw := make([]byte, 0, 1+len(payload)+2)
	raw = append(raw, byte(version))
	raw = append(raw, payload...)
	var sum [2]byte
	binary.LittleEndian.PutUint16(sum[:], crc16(raw))
	raw = append(raw, sum[:]...)
	return encoding.EncodeToString(raw), nil
}

// MustEncode is Encode for payloads known to be well sized
func MustEncode(version VersionByte, payload []byte) string {
	s, err := Encode(version, payload)
	if err != nil {
		panic(err)
	}
	return s
}

// DecodeAny decodes s and returns its version byte and payload
func DecodeAny(s string) (VersionByte, []byte, error) {
	raw, err := encoding.DecodeString(s)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	// reject encodings whose unused trailing bits are set
	if encoding.EncodeToString(raw) != s {
		return 0, nil, fmt.Errorf("%w: non-canonical encoding", ErrInvalidAddress)
	}
	if len(raw) < 3 {
		return 0, nil, fmt.Errorf("%w: too short", ErrInvalidAddress)
	}
	body, sum := raw[:len(raw)-2], raw[len(raw)-2:]
	if binary.LittleEndian.Uint16(sum) != crc16(body) {
		return 0, nil, fmt.Errorf("%w: checksum mismatch", ErrInvalidAddress)
	}
	version := VersionByte(body[0])
	payload := body[1:]
	if err := checkPayloadSize(version, len(payload)); err != nil {
		return 0, nil, err
	}
	out := make([]byte, len(payload))
	copy(out, payload)
	return version, out, nil
}

// Decode decodes s and requires it to carry the expected version
func Decode(expected VersionByte, s string) ([]byte, error) {
	version, payload, err := DecodeAny(s)
	if err != nil {
		return nil, err
	}
	if version != expected {
		return nil, fmt.Errorf("%w: expected %v, got %v", ErrInvalidAddress, expected, version)
	}
	return payload, nil
}

// IsValid reports whether s decodes under the expected version
func IsValid(expected VersionByte, s string) bool {
	_, err := Decode(expected, s)
	return err == nil
}

// EncodeMuxed encodes an ed25519 key with a 64-bit sub-account id
func EncodeMuxed(ed25519 [32]byte, id uint64) string {
	payload := make([]byte, muxedSize)
	copy(payload, ed25519[:])
	binary.BigEndian.PutUint64(payload[ed25519Size:], id)
	return MustEncode(VersionByteMuxedAccount, payload)
}

// DecodeMuxed splits an M... address into key and sub-account id
func DecodeMuxed(s string) (ed25519 [32]byte, id uint64, err error) {
	payload, err := Decode(VersionByteMuxedAccount, s)
	if err != nil {
		return ed25519, 0, err
	}
	copy(ed25519[:], payload[:ed25519Size])
	id = binary.BigEndian.Uint64(payload[ed25519Size:])
	return ed25519, id, nil
}

// SignedPayload is the decoded form of a P... signer
type SignedPayload struct {
	Signer  [32]byte
	Payload []byte
}

// EncodeSignedPayload encodes the signer key followed by the payload as
// length-prefixed, zero-padded opaque data
func EncodeSignedPayload(sp SignedPayload) (string, error) {
	n := len(sp.Payload)
	if n == 0 || n > MaxSignedPayloadLength {
		return "", fmt.Errorf("%w: signed payload length %d", ErrInvalidAddress, n)
	}
	var buf bytes.Buffer
	buf.Write(sp.Signer[:])
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(n))
	buf.Write(length[:])
	buf.Write(sp.Payload)
	buf.Write(make([]byte, (4-n%4)%4))
	return Encode(VersionByteSignedPayload, buf.Bytes())
}

// DecodeSignedPayload parses a P... signer
func DecodeSignedPayload(s string) (*SignedPayload, error) {
	raw, err := Decode(VersionByteSignedPayload, s)
	if err != nil {
		return nil, err
	}
	sp := new(SignedPayload)
	copy(sp.Signer[:], raw[:ed25519Size])
	n := int(binary.BigEndian.Uint32(raw[ed25519Size : ed25519Size+4]))
	rest := raw[ed25519Size+4:]
	padded := n + (4-n%4)%4
	if n == 0 || n > MaxSignedPayloadLength || padded != len(rest) {
		return nil, fmt.Errorf("%w: signed payload length %d does not match %d bytes", ErrInvalidAddress, n, len(rest))
	}
	for _, c := range rest[n:] {
		if c != 0 {
			return nil, fmt.Errorf("%w: signed payload padding is not zero", ErrInvalidAddress)
		}
	}
	sp.Payload = append([]byte(nil), rest[:n]...)
	return sp, nil
}
