package xdr

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// DefaultMaxDepth bounds the nesting of recursive types (contract values,
// authorized invocations) accepted from untrusted input.
const DefaultMaxDepth = 64

// Decodable is implemented by every wire type
type Decodable interface {
	DecodeFrom(d *Decoder) error
}

// Decoder reads wire values from a byte slice, advancing a cursor.
type Decoder struct {
	buf      []byte
	off      int
	depth    int
	maxDepth int
}

// NewDecoder returns a decoder positioned at the start of b
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b, maxDepth: DefaultMaxDepth}
}

// Offset returns the cursor position
func (d *Decoder) Offset() int {
	return d.off
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.off
}

func (d *Decoder) malformed(typ, format string, args ...interface{}) error {
	return &DecodeError{Type: typ, Offset: d.off, Msg: fmt.Sprintf(format, args...)}
}

func (d *Decoder) unknownArm(typ string, disc int32) error {
	return d.malformed(typ, "unknown discriminant %d", disc)
}

func (d *Decoder) take(n int, typ string) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, d.malformed(typ, "need %d bytes, have %d", n, d.Remaining())
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *Decoder) enter(typ string) error {
	d.depth++
	if d.depth > d.maxDepth {
		return d.malformed(typ, "nesting deeper than %d", d.maxDepth)
	}
	return nil
}

func (d *Decoder) leave() {
	d.depth--
}

// ReadUint32 reads a big-endian unsigned 32-bit integer
func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.take(4, "uint32")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// ReadInt32 reads a big-endian signed 32-bit integer
func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

// ReadUint64 reads a big-endian unsigned 64-bit integer
func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.take(8, "uint64")
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// ReadInt64 reads a big-endian signed 64-bit integer
func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadBool reads a boolean encoded as a 4-byte 0 or 1
func (d *Decoder) ReadBool() (bool, error) {
	v, err := d.ReadUint32()
	if err != nil {
		return false, err
	}
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		d.off -= 4
		return false, d.malformed("bool", "value %d is not 0 or 1", v)
	}
}

// ReadOptional reads the presence flag of an optional value
func (d *Decoder) ReadOptional() (bool, error) {
	present, err := d.ReadBool()
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Type = "optional flag"
		}
		return false, err
	}
	return present, nil
}

func (d *Decoder) readPadding(n int, typ string) error {
	pad := (4 - n%4) % 4
	b, err := d.take(pad, typ)
	if err != nil {
		return err
	}
	for _, c := range b {
		if c != 0 {
			d.off -= pad
			return d.malformed(typ, "non-zero padding")
		}
	}
	return nil
}

// ReadFixedOpaque fills dst and consumes the zero padding after it
func (d *Decoder) ReadFixedOpaque(dst []byte) error {
	b, err := d.take(len(dst), "opaque")
	if err != nil {
		return err
	}
	copy(dst, b)
	return d.readPadding(len(dst), "opaque")
}

func (d *Decoder) readLength(max uint32, typ string) (int, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	if max > 0 && n > max {
		d.off -= 4
		return 0, d.malformed(typ, "length %d exceeds limit %d", n, max)
	}
	if int64(n) > int64(d.Remaining()) {
		d.off -= 4
		return 0, d.malformed(typ, "length %d exceeds remaining %d bytes", n, d.Remaining())
	}
	return int(n), nil
}

// ReadOpaque reads variable-length opaque data of at most max bytes
// (0 means unbounded). The returned slice does not alias the input.
func (d *Decoder) ReadOpaque(max uint32) ([]byte, error) {
	n, err := d.readLength(max, "opaque<>")
	if err != nil {
		return nil, err
	}
	b, err := d.take(n, "opaque<>")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, d.readPadding(n, "opaque<>")
}

// ReadString reads a length-prefixed string of at most max bytes
func (d *Decoder) ReadString(max uint32) (string, error) {
	n, err := d.readLength(max, "string")
	if err != nil {
		return "", err
	}
	b, err := d.take(n, "string")
	if err != nil {
		return "", err
	}
	s := string(b)
	return s, d.readPadding(n, "string")
}

// ReadArrayLen reads the element count of a variable array. Every element
// occupies at least four bytes, so counts the buffer cannot hold are
// rejected before anything is allocated.
func (d *Decoder) ReadArrayLen(max uint32) (int, error) {
	n, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	if max > 0 && n > max {
		d.off -= 4
		return 0, d.malformed("array", "count %d exceeds limit %d", n, max)
	}
	if int64(n)*4 > int64(d.Remaining()) {
		d.off -= 4
		return 0, d.malformed("array", "count %d exceeds remaining %d bytes", n, d.Remaining())
	}
	return int(n), nil
}

// Unmarshal decodes exactly one value from b. Trailing bytes are an error.
func Unmarshal(b []byte, v Decodable) error {
	d := NewDecoder(b)
	if err := v.DecodeFrom(d); err != nil {
		return err
	}
	if d.Remaining() != 0 {
		return d.malformed(fmt.Sprintf("%T", v), "%d trailing bytes", d.Remaining())
	}
	return nil
}

// UnmarshalBase64 decodes a standard base64 string holding one value
func UnmarshalBase64(s string, v Decodable) error {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return &DecodeError{Type: "base64", Msg: err.Error()}
	}
	return Unmarshal(b, v)
}
