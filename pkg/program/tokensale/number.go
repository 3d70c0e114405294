package tokensale

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Numberu64 is an unsigned 64-bit quantity with a wire form of exactly
// 8 little-endian bytes. Amounts, prices, and timestamps all cross the
// instruction boundary as this type.
type Numberu64 struct {
	v big.Int
}

// NewNumberu64 wraps a native uint64.
func NewNumberu64(v uint64) Numberu64 {
	var n Numberu64
	n.v.SetUint64(v)
	return n
}

// NumberFromBig converts a big.Int. Negative values and values wider than
// 64 bits are rejected.
func NumberFromBig(v *big.Int) (Numberu64, error) {
	if v.Sign() < 0 || v.BitLen() > 64 {
		return Numberu64{}, fmt.Errorf("%w: %s does not fit in u64", ErrEncoding, v)
	}
	var n Numberu64
	n.v.Set(v)
	return n, nil
}

// NumberFromBytes decodes an 8-byte little-endian buffer.
func NumberFromBytes(buf []byte) (Numberu64, error) {
	if len(buf) != 8 {
		return Numberu64{}, fmt.Errorf("%w: u64 wants 8 bytes, got %d", ErrDecode, len(buf))
	}
	return NewNumberu64(binary.LittleEndian.Uint64(buf)), nil
}

// Uint64 returns the native value.
func (n Numberu64) Uint64() uint64 {
	return n.v.Uint64()
}

// Bytes renders the value as 8 little-endian bytes, zero padded.
func (n Numberu64) Bytes() ([]byte, error) {
	if n.v.Sign() < 0 || n.v.BitLen() > 64 {
		return nil, fmt.Errorf("%w: %s exceeds 8 bytes", ErrEncoding, &n.v)
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, n.v.Uint64())
	return buf, nil
}

func (n Numberu64) String() string {
	return n.v.String()
}

// ReciprocalPrice converts a human token price to the integer form the
// sale program stores: round(1/price) * 100. The factor of 100 keeps the
// on-chain arithmetic in fixed point.
func ReciprocalPrice(price float64) (uint64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return 0, fmt.Errorf("%w: price must be a positive finite number, got %g", ErrEncoding, price)
	}
	recip := math.Round(1 / price)
	scaled := recip * 100
	if scaled >= 1<<64 {
		return 0, fmt.Errorf("%w: price %g too small to encode", ErrEncoding, price)
	}
	return uint64(scaled), nil
}
