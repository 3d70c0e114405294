package tokensale

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestLayoutSpan(t *testing.T) {
	l := Layout{
		{Name: "flag", Kind: KindU8},
		{Name: "owner", Kind: KindPubkey},
		{Name: "amount", Kind: KindU64},
	}
	if got := l.Span(); got != 1+32+8 {
		t.Fatalf("span: got %d, want 41", got)
	}
	if got := saleStateLayout.Span(); got != 201 {
		t.Fatalf("sale-state span: got %d, want 201", got)
	}
}

func TestLayoutEncodeDecodeRoundTrip(t *testing.T) {
	l := Layout{
		{Name: "flag", Kind: KindU8},
		{Name: "owner", Kind: KindPubkey},
		{Name: "amount", Kind: KindU64},
	}
	owner := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	buf, err := l.Encode(uint8(1), owner, NewNumberu64(123_456_789))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(buf) != l.Span() {
		t.Fatalf("encoded length %d, want span %d", len(buf), l.Span())
	}

	values, err := l.Decode(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := values[0].(uint8); got != 1 {
		t.Fatalf("flag: got %d", got)
	}
	if got := values[1].(solana.PublicKey); !got.Equals(owner) {
		t.Fatalf("owner: got %s", got)
	}
	if got := values[2].(Numberu64).Uint64(); got != 123_456_789 {
		t.Fatalf("amount: got %d", got)
	}
}

func TestLayoutEncodeNoPadding(t *testing.T) {
	l := Layout{
		{Name: "opcode", Kind: KindU8},
		{Name: "amount", Kind: KindU64},
	}
	buf, err := l.Encode(uint8(1), NewNumberu64(1))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := []byte{1, 1, 0, 0, 0, 0, 0, 0, 0}
	if !bytes.Equal(buf, want) {
		t.Fatalf("encoded % x, want % x", buf, want)
	}
}

func TestLayoutEncodeErrors(t *testing.T) {
	l := Layout{{Name: "amount", Kind: KindU64}}

	if _, err := l.Encode(); !errors.Is(err, ErrEncoding) {
		t.Fatalf("missing values: got %v, want ErrEncoding", err)
	}
	if _, err := l.Encode(uint64(1)); !errors.Is(err, ErrEncoding) {
		t.Fatalf("wrong type: got %v, want ErrEncoding", err)
	}
}

func TestLayoutDecodeStrictLength(t *testing.T) {
	l := Layout{
		{Name: "flag", Kind: KindU8},
		{Name: "amount", Kind: KindU64},
	}
	for _, n := range []int{0, 8, 10, 201} {
		if _, err := l.Decode(make([]byte, n)); !errors.Is(err, ErrDecode) {
			t.Fatalf("len %d: got %v, want ErrDecode", n, err)
		}
	}
}
