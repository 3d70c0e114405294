package types

import (
	"errors"
	"fmt"

	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
)

// Common SDK errors
var (
	// Parameter validation errors
	ErrNilRPC           = errors.New("rpc client is nil")
	ErrNilSigner        = errors.New("signer is nil")
	ErrNilPayer         = errors.New("fee payer is nil")
	ErrZeroAmount       = errors.New("amount must be greater than 0")
	ErrInvalidPublicKey = errors.New("invalid public key")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrSaleStateNotFound  = errors.New("sale state account not found")
	ErrSaleNotInitialized = errors.New("sale state not initialized")

	// Transaction errors
	ErrTransactionFailed   = errors.New("transaction failed")
	ErrConfirmationTimeout = errors.New("confirmation timeout")
)

// PhaseError reports an operation invoked out of the init -> fund -> execute
// order. This is a programmer error; retrying cannot fix it.
type PhaseError struct {
	Op       string
	Phase    string
	Required string
}

func (e PhaseError) Error() string {
	return fmt.Sprintf("%s requires phase %s, sale is %s", e.Op, e.Required, e.Phase)
}

// SubmissionError wraps a ledger-side failure: the RPC node rejected the
// transaction or confirmation did not arrive. May be transient; the caller
// can retry with a fresh blockhash. The underlying ledger error is surfaced
// verbatim, never reinterpreted.
type SubmissionError struct {
	Op  string
	Err error
}

func (e SubmissionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e SubmissionError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string) ValidationError {
	return ValidationError{Field: field, Message: message}
}

// SaleProgramError carries a custom error code from the on-chain sale
// program, looked up against its error table.
type SaleProgramError struct {
	Code    uint32
	Name    string
	Message string
	Logs    []string
}

func (e SaleProgramError) Error() string {
	return fmt.Sprintf("sale program error [%d] %s: %s", e.Code, e.Name, e.Message)
}

// ParseSaleError converts a custom error code from transaction metadata
// into a SaleProgramError when the code belongs to the sale program's table.
func ParseSaleError(code uint32, logs []string) error {
	if perr, ok := tokensale.ErrorFromCode(code); ok {
		return &SaleProgramError{
			Code:    perr.Code,
			Name:    perr.Name,
			Message: perr.Msg,
			Logs:    logs,
		}
	}
	return fmt.Errorf("unknown program error code %d", code)
}

// ParseTransactionError extracts a custom program error from the raw
// transaction error value RPC nodes return, e.g.
// {"InstructionError": [1, {"Custom": 8}]}.
func ParseTransactionError(errVal interface{}, logs []string) error {
	if errVal == nil {
		return nil
	}
	if errMap, ok := errVal.(map[string]interface{}); ok {
		if instErr, exists := errMap["InstructionError"]; exists {
			if errSlice, ok := instErr.([]interface{}); ok && len(errSlice) >= 2 {
				if customErr, ok := errSlice[1].(map[string]interface{}); ok {
					if code, exists := customErr["Custom"]; exists {
						if codeNum, ok := code.(float64); ok {
							return ParseSaleError(uint32(codeNum), logs)
						}
					}
				}
			}
		}
	}
	return fmt.Errorf("%w: %v", ErrTransactionFailed, errVal)
}

// IsRetryableError reports whether an error may clear on resubmission.
// Wire-level encode/decode/derivation failures and program rejections are
// deterministic; everything else is assumed transient.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, tokensale.ErrEncoding) ||
		errors.Is(err, tokensale.ErrDecode) ||
		errors.Is(err, tokensale.ErrDerivation) {
		return false
	}
	var phaseErr PhaseError
	if errors.As(err, &phaseErr) {
		return false
	}
	var progErr *SaleProgramError
	if errors.As(err, &progErr) {
		return false
	}
	var valErr ValidationError
	if errors.As(err, &valErr) {
		return false
	}
	return true
}
