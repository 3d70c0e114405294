package tokensale

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func TestNumberu64RoundTrip(t *testing.T) {
	values := []uint64{0, 1, 255, 256, 1000, 100_000_000, 100_000_000_000_000, math.MaxUint64}
	for _, v := range values {
		buf, err := NewNumberu64(v).Bytes()
		if err != nil {
			t.Fatalf("encode %d: %v", v, err)
		}
		if len(buf) != 8 {
			t.Fatalf("encode %d: got %d bytes, want 8", v, len(buf))
		}
		back, err := NumberFromBytes(buf)
		if err != nil {
			t.Fatalf("decode %d: %v", v, err)
		}
		if back.Uint64() != v {
			t.Fatalf("round trip %d: got %d", v, back.Uint64())
		}
	}
}

func TestNumberu64LittleEndian(t *testing.T) {
	buf, err := NewNumberu64(0x0102030405060708).Bytes()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("byte %d: got %#x, want %#x", i, buf[i], want[i])
		}
	}
}

func TestNumberFromBytesLength(t *testing.T) {
	for _, n := range []int{0, 7, 9, 16} {
		if _, err := NumberFromBytes(make([]byte, n)); !errors.Is(err, ErrDecode) {
			t.Fatalf("len %d: got %v, want ErrDecode", n, err)
		}
	}
}

func TestNumberFromBigRejectsWideValues(t *testing.T) {
	tooWide := new(big.Int).Lsh(big.NewInt(1), 64)
	if _, err := NumberFromBig(tooWide); !errors.Is(err, ErrEncoding) {
		t.Fatalf("2^64: got %v, want ErrEncoding", err)
	}
	if _, err := NumberFromBig(big.NewInt(-1)); !errors.Is(err, ErrEncoding) {
		t.Fatalf("-1: got %v, want ErrEncoding", err)
	}

	max := new(big.Int).SetUint64(math.MaxUint64)
	n, err := NumberFromBig(max)
	if err != nil {
		t.Fatalf("max u64: %v", err)
	}
	if n.Uint64() != math.MaxUint64 {
		t.Fatalf("max u64: got %d", n.Uint64())
	}
}

func TestReciprocalPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  uint64
	}{
		{0.1, 1000},
		{0.5, 200},
		{1, 100},
		{2, 100}, // math.Round rounds 0.5 away from zero
	}
	for _, tc := range cases {
		got, err := ReciprocalPrice(tc.price)
		if err != nil {
			t.Fatalf("price %g: %v", tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("price %g: got %d, want %d", tc.price, got, tc.want)
		}
	}
}

func TestReciprocalPriceRejectsNonPositive(t *testing.T) {
	for _, p := range []float64{0, -0.1, math.NaN(), math.Inf(1)} {
		if _, err := ReciprocalPrice(p); !errors.Is(err, ErrEncoding) {
			t.Fatalf("price %g: got %v, want ErrEncoding", p, err)
		}
	}
}
