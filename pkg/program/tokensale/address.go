package tokensale

import (
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/solrazr/tokensale-go-sdk/pkg/constants"
)

// FindProgramAddress searches bump nonces 255 down to 0 for the first
// candidate address that falls off the ed25519 curve, so the owning program
// can sign for it without a private key. The search order matches the chain
// runtime; a derivation here lands on the same address the program derives
// on-chain. Exhausting all 256 nonces is a configuration error.
func FindProgramAddress(seeds [][]byte, programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		candidate := append(append([][]byte{}, seeds...), []byte{uint8(bump)})
		addr, err := solana.CreateProgramAddress(candidate, programID)
		if err != nil {
			continue // candidate is on the curve, try the next nonce
		}
		return addr, uint8(bump), nil
	}
	return solana.PublicKey{}, 0, fmt.Errorf("%w: program %s", ErrDerivation, programID)
}

// FindSaleAuthority derives the sale program's signing authority from the
// fixed seed tag.
func FindSaleAuthority(saleProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	return FindProgramAddress([][]byte{[]byte(constants.SaleAuthoritySeed)}, saleProgram)
}

// FindAssociatedTokenAddress derives the canonical token account for a
// (wallet, mint) pair under the associated-token program.
func FindAssociatedTokenAddress(wallet, mint, tokenProgram, ataProgram solana.PublicKey) (solana.PublicKey, uint8, error) {
	seeds := [][]byte{
		wallet.Bytes(),
		tokenProgram.Bytes(),
		mint.Bytes(),
	}
	return FindProgramAddress(seeds, ataProgram)
}
