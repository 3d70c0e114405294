package quote

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
	"github.com/solrazr/tokensale-go-sdk/pkg/types"
)

func TestTokensOut(t *testing.T) {
	cases := []struct {
		usd   uint64
		price uint64
		want  uint64
	}{
		// 250 USD at 0.1 USD/token (stored 1000) buys 2500 tokens.
		{250_000_000, 1000, 2_500_000_000},
		{100_000_000, 1000, 1_000_000_000},
		{500_000_000, 1000, 5_000_000_000},
		{1_000_000, 100, 1_000_000}, // price 1.0
		{1_000_000, 200, 2_000_000}, // price 0.5
	}
	for _, tc := range cases {
		got, err := TokensOut(tc.usd, tc.price)
		if err != nil {
			t.Fatalf("usd %d price %d: %v", tc.usd, tc.price, err)
		}
		if got != tc.want {
			t.Fatalf("usd %d price %d: got %d, want %d", tc.usd, tc.price, got, tc.want)
		}
	}
}

func TestTokensOutOverflow(t *testing.T) {
	if _, err := TokensOut(math.MaxUint64, math.MaxUint64); !errors.Is(err, tokensale.ErrEncoding) {
		t.Fatalf("got %v, want ErrEncoding", err)
	}
}

func testState() *tokensale.SaleState {
	return &tokensale.SaleState{
		IsInitialized:   true,
		TokenSaleAmount: 100_000_000_000_000,
		UsdMinAmount:    100_000_000,
		UsdMaxAmount:    500_000_000,
		TokenSalePrice:  1000,
		TokenSaleTime:   1_700_000_000,
	}
}

func TestFromState(t *testing.T) {
	now := time.Unix(1_700_000_100, 0)

	preview, err := FromState(testState(), 250_000_000, now)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.ExpectedTokens != 2_500_000_000 {
		t.Fatalf("expected tokens: got %d, want 2500000000", preview.ExpectedTokens)
	}
	if preview.BelowMinimum || preview.AboveMaximum {
		t.Fatalf("within window flagged: below=%v above=%v", preview.BelowMinimum, preview.AboveMaximum)
	}
	if !preview.Live {
		t.Fatal("sale past go-live flagged not live")
	}
}

func TestFromStateWindowFlags(t *testing.T) {
	now := time.Unix(1_600_000_000, 0) // before go-live

	low, err := FromState(testState(), 50_000_000, now)
	if err != nil {
		t.Fatalf("low preview: %v", err)
	}
	if !low.BelowMinimum {
		t.Fatal("50 USD not flagged below the 100 USD minimum")
	}
	if low.Live {
		t.Fatal("sale before go-live flagged live")
	}

	high, err := FromState(testState(), 600_000_000, now)
	if err != nil {
		t.Fatalf("high preview: %v", err)
	}
	if !high.AboveMaximum {
		t.Fatal("600 USD not flagged above the 500 USD maximum")
	}
}

func TestFromStateRejectsUninitialized(t *testing.T) {
	state := testState()
	state.IsInitialized = false

	if _, err := FromState(state, 250_000_000, time.Now()); !errors.Is(err, types.ErrSaleNotInitialized) {
		t.Fatalf("got %v, want ErrSaleNotInitialized", err)
	}
	if _, err := FromState(nil, 250_000_000, time.Now()); !errors.Is(err, types.ErrSaleNotInitialized) {
		t.Fatalf("nil state: got %v, want ErrSaleNotInitialized", err)
	}
}

func TestFromStateRejectsZeroAmount(t *testing.T) {
	var valErr types.ValidationError
	_, err := FromState(testState(), 0, time.Now())
	if !errors.As(err, &valErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}
