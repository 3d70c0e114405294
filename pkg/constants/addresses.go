package constants

import "github.com/gagliardetto/solana-go"

// Well-known program IDs
var (
	SystemProgramID          = solana.SystemProgramID
	TokenProgramID           = solana.TokenProgramID
	AssociatedTokenProgramID = solana.SPLAssociatedTokenAccountProgramID
	SysvarRentPubkey         = solana.SysVarRentPubkey
)

// USDTMint is the USDT mint on mainnet. Devnet sales use a faucet mint
// supplied via config.
var USDTMint = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")

// SaleAuthoritySeed is the PDA seed tag the sale program signs with.
const SaleAuthoritySeed = "solrsale"
