package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
)

func TestParseTransactionError(t *testing.T) {
	// Shape of the error value RPC nodes return for a custom program error.
	errVal := map[string]interface{}{
		"InstructionError": []interface{}{float64(1), map[string]interface{}{"Custom": float64(8)}},
	}
	logs := []string{"Program log: Error: AmountMinimum"}

	err := ParseTransactionError(errVal, logs)
	var progErr *SaleProgramError
	if !errors.As(err, &progErr) {
		t.Fatalf("got %v, want SaleProgramError", err)
	}
	if progErr.Code != 8 || progErr.Name != "AmountMinimum" {
		t.Fatalf("got code %d name %s", progErr.Code, progErr.Name)
	}
	if len(progErr.Logs) != 1 {
		t.Fatalf("logs not carried: %v", progErr.Logs)
	}
}

func TestParseTransactionErrorNil(t *testing.T) {
	if err := ParseTransactionError(nil, nil); err != nil {
		t.Fatalf("nil error value: got %v", err)
	}
}

func TestParseTransactionErrorUnrecognized(t *testing.T) {
	err := ParseTransactionError("BlockhashNotFound", nil)
	if !errors.Is(err, ErrTransactionFailed) {
		t.Fatalf("got %v, want ErrTransactionFailed", err)
	}
}

func TestParseSaleErrorUnknownCode(t *testing.T) {
	err := ParseSaleError(99, nil)
	var progErr *SaleProgramError
	if errors.As(err, &progErr) {
		t.Fatalf("code 99 mapped to %v", progErr)
	}
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"encoding", fmt.Errorf("wrap: %w", tokensale.ErrEncoding), false},
		{"decode", tokensale.ErrDecode, false},
		{"derivation", tokensale.ErrDerivation, false},
		{"phase", PhaseError{Op: "fund", Phase: "uninitialized", Required: "initialized"}, false},
		{"program", &SaleProgramError{Code: 8, Name: "AmountMinimum"}, false},
		{"validation", NewValidationError("amount", "must be greater than 0"), false},
		{"network", errors.New("connection reset by peer"), true},
		{"submission", SubmissionError{Op: "fund", Err: errors.New("node behind")}, true},
	}
	for _, tc := range cases {
		if got := IsRetryableError(tc.err); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSubmissionErrorUnwrap(t *testing.T) {
	inner := errors.New("blockhash expired")
	err := SubmissionError{Op: "execute", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("Unwrap does not reach the wrapped error")
	}
}
