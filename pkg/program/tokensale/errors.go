package tokensale

import "errors"

// Wire-level failures. These are raised synchronously, before any network
// traffic, and are never worth retrying with the same inputs.
var (
	ErrEncoding   = errors.New("tokensale: value too wide for field")
	ErrDecode     = errors.New("tokensale: account data length mismatch")
	ErrDerivation = errors.New("tokensale: no valid program address for seeds")
)

// ProgramError describes one custom error code of the on-chain sale program.
type ProgramError struct {
	Code uint32
	Name string
	Msg  string
}

func (e ProgramError) Error() string {
	return e.Msg
}

// Error codes returned by the sale program, in declaration order.
var programErrors = []ProgramError{
	{0, "InvalidInstruction", "invalid instruction"},
	{1, "NotRentExempt", "not rent exempt"},
	{2, "UserNotWhitelisted", "user not whitelisted"},
	{3, "TokenSaleNotInit", "token sale not initialized"},
	{4, "TokenSaleNotStarted", "token sale not started"},
	{5, "TokenSaleFunded", "token sale funded"},
	{6, "TokenSaleAmountExceeds", "token sale amount exceeds"},
	{7, "TokenSaleComplete", "token sale complete"},
	{8, "AmountMinimum", "amount less than minimum"},
	{9, "AmountMaximum", "amount more than maximum"},
	{10, "AmountExceeds", "amount exceeds tokens available for sale"},
	{11, "ExceedsAllocation", "amount exceeds your allocation"},
	{12, "TokenSalePaused", "token sale paused"},
	{13, "TokenSaleEnded", "token sale ended"},
}

// ErrorFromCode maps a custom error code from transaction metadata to the
// sale program's error table.
func ErrorFromCode(code uint32) (ProgramError, bool) {
	if int(code) >= len(programErrors) {
		return ProgramError{}, false
	}
	return programErrors[code], true
}
