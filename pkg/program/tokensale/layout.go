package tokensale

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// FieldKind enumerates the wire widths the sale program uses.
type FieldKind int

const (
	KindU8     FieldKind = iota // 1 byte
	KindPubkey                  // 32-byte opaque blob
	KindU64                     // 8 bytes, little-endian
)

func (k FieldKind) size() int {
	switch k {
	case KindU8:
		return 1
	case KindPubkey:
		return 32
	case KindU64:
		return 8
	}
	return 0
}

// Field is one named, fixed-width slot in a record or instruction payload.
type Field struct {
	Name string
	Kind FieldKind
}

// Layout is an ordered list of fields packed contiguously with no padding.
// Offsets are cumulative in declaration order.
type Layout []Field

// Span is the exact byte length a buffer for this layout must have.
func (l Layout) Span() int {
	n := 0
	for _, f := range l {
		n += f.Kind.size()
	}
	return n
}

// Encode packs values (one per field, in declaration order) into a fresh
// buffer of exactly Span bytes. Accepted value types: uint8 for KindU8,
// solana.PublicKey for KindPubkey, Numberu64 for KindU64.
func (l Layout) Encode(values ...interface{}) ([]byte, error) {
	if len(values) != len(l) {
		return nil, fmt.Errorf("%w: layout has %d fields, got %d values", ErrEncoding, len(l), len(values))
	}
	buf := make([]byte, 0, l.Span())
	for i, f := range l {
		switch f.Kind {
		case KindU8:
			v, ok := values[i].(uint8)
			if !ok {
				return nil, fmt.Errorf("%w: field %s wants uint8", ErrEncoding, f.Name)
			}
			buf = append(buf, v)
		case KindPubkey:
			v, ok := values[i].(solana.PublicKey)
			if !ok {
				return nil, fmt.Errorf("%w: field %s wants solana.PublicKey", ErrEncoding, f.Name)
			}
			buf = append(buf, v.Bytes()...)
		case KindU64:
			v, ok := values[i].(Numberu64)
			if !ok {
				return nil, fmt.Errorf("%w: field %s wants Numberu64", ErrEncoding, f.Name)
			}
			b, err := v.Bytes()
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			buf = append(buf, b...)
		}
	}
	return buf, nil
}

// Decode unpacks a buffer whose length must equal Span exactly. A length
// mismatch is an error, never a truncation. Values come back in
// declaration order with the same types Encode accepts.
func (l Layout) Decode(buf []byte) ([]interface{}, error) {
	if len(buf) != l.Span() {
		return nil, fmt.Errorf("%w: layout spans %d bytes, got %d", ErrDecode, l.Span(), len(buf))
	}
	values := make([]interface{}, 0, len(l))
	off := 0
	for _, f := range l {
		size := f.Kind.size()
		raw := buf[off : off+size]
		switch f.Kind {
		case KindU8:
			values = append(values, raw[0])
		case KindPubkey:
			values = append(values, solana.PublicKeyFromBytes(raw))
		case KindU64:
			n, err := NumberFromBytes(raw)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", f.Name, err)
			}
			values = append(values, n)
		}
		off += size
	}
	return values, nil
}
