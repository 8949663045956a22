package xdr

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
)

// Encodable is implemented by every wire type
type Encodable interface {
	EncodeTo(e *Encoder) error
}

// Encoder appends wire values to an in-memory buffer. Writes cannot fail;
// only EncodeTo implementations reject ill-typed values.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty encoder
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteUint32(1)
	} else {
		e.WriteUint32(0)
	}
}

// WriteOptional writes the presence flag of an optional value
func (e *Encoder) WriteOptional(present bool) {
	e.WriteBool(present)
}

func (e *Encoder) writePadding(n int) {
	var zero [3]byte
	e.buf.Write(zero[:(4-n%4)%4])
}

// WriteFixedOpaque writes b followed by zero padding to a 4-byte boundary
func (e *Encoder) WriteFixedOpaque(b []byte) {
	e.buf.Write(b)
	e.writePadding(len(b))
}

// WriteOpaque writes a length prefix, b, and zero padding
func (e *Encoder) WriteOpaque(b []byte) {
	e.WriteUint32(uint32(len(b)))
	e.WriteFixedOpaque(b)
}

// WriteString writes a length-prefixed string
func (e *Encoder) WriteString(s string) {
	e.WriteUint32(uint32(len(s)))
	e.buf.WriteString(s)
	e.writePadding(len(s))
}

// WriteArrayLen writes the element count of a variable array
func (e *Encoder) WriteArrayLen(n int) {
	e.WriteUint32(uint32(n))
}

// Marshal encodes v to its canonical wire form
func Marshal(v Encodable) ([]byte, error) {
	e := NewEncoder()
	if err := v.EncodeTo(e); err != nil {
		return nil, err
	}
	return e.Bytes(), nil
}

// MarshalBase64 encodes v and returns the standard base64 text
func MarshalBase64(v Encodable) (string, error) {
	b, err := Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func checkLen(typ string, n int, max uint32) error {
	if uint64(n) > uint64(max) {
		return errInvalidValue(typ, "length %d exceeds limit %d", n, max)
	}
	return nil
}
