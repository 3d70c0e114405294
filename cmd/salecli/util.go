package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"

	"github.com/solrazr/tokensale-go-sdk/pkg/wallet"
)

// parsePubkey converts base58 string to PublicKey.
func parsePubkey(label, v string) (solana.PublicKey, error) {
	if v == "" {
		return solana.PublicKey{}, fmt.Errorf("%s is required", label)
	}
	pk, err := solana.PublicKeyFromBase58(v)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%s invalid pubkey: %w", label, err)
	}
	return pk, nil
}

// writeKeypair stores a keypair in solana-keygen JSON form (byte array).
func writeKeypair(path string, signer *wallet.Local) error {
	if signer == nil {
		return fmt.Errorf("no keypair to write")
	}
	key := signer.PrivateKey()
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	bz, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode keypair: %w", err)
	}
	if err := os.WriteFile(path, bz, 0o600); err != nil {
		return fmt.Errorf("write keypair: %w", err)
	}
	return nil
}
