package sale

import (
	"github.com/gagliardetto/solana-go"
)

// Phase is the client-tracked lifecycle stage of a sale. It gates which
// operation may run next; the authoritative state lives on the ledger.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseInitialized
	PhaseFunded
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseInitialized:
		return "initialized"
	case PhaseFunded:
		return "funded"
	}
	return "unknown"
}

// Identity is the immutable set of addresses naming one sale instance.
// Built once at client construction and shared by every operation.
type Identity struct {
	Payer     solana.PublicKey
	USDTMint  solana.PublicKey
	SaleMint  solana.PublicKey
	SaleState solana.PublicKey

	WhitelistMap solana.PublicKey

	SaleProgram      solana.PublicKey
	WhitelistProgram solana.PublicKey
	TokenProgram     solana.PublicKey
	ATAProgram       solana.PublicKey
}
