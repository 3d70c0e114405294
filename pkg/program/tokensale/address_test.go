package tokensale

import (
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestFindProgramAddressDeterministic(t *testing.T) {
	program := testKey(7)
	seeds := [][]byte{[]byte("solrsale")}

	addr1, bump1, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	addr2, bump2, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("derive again: %v", err)
	}
	if !addr1.Equals(addr2) || bump1 != bump2 {
		t.Fatalf("not deterministic: %s/%d vs %s/%d", addr1, bump1, addr2, bump2)
	}
}

func TestFindProgramAddressMatchesRuntime(t *testing.T) {
	program := solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
	seeds := [][]byte{[]byte("solrsale")}

	got, gotBump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want, wantBump, err := solana.FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("library derive: %v", err)
	}
	if !got.Equals(want) || gotBump != wantBump {
		t.Fatalf("got %s/%d, want %s/%d", got, gotBump, want, wantBump)
	}
}

func TestFindProgramAddressSeedSensitivity(t *testing.T) {
	program := testKey(7)

	base, _, err := FindProgramAddress([][]byte{[]byte("solrsale")}, program)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	changed, _, err := FindProgramAddress([][]byte{[]byte("solrsalf")}, program)
	if err != nil {
		t.Fatalf("derive changed seed: %v", err)
	}
	if base.Equals(changed) {
		t.Fatal("single seed byte change did not change the address")
	}

	otherProgram, _, err := FindProgramAddress([][]byte{[]byte("solrsale")}, testKey(8))
	if err != nil {
		t.Fatalf("derive other program: %v", err)
	}
	if base.Equals(otherProgram) {
		t.Fatal("program id change did not change the address")
	}
}

func TestFindProgramAddressOffCurve(t *testing.T) {
	addr, _, err := FindProgramAddress([][]byte{[]byte("solrsale")}, testKey(7))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if solana.IsOnCurve(addr.Bytes()) {
		t.Fatalf("derived address %s is on the signing curve", addr)
	}
}

func TestFindSaleAuthority(t *testing.T) {
	program := testKey(9)
	got, gotBump, err := FindSaleAuthority(program)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want, wantBump, err := FindProgramAddress([][]byte{[]byte("solrsale")}, program)
	if err != nil {
		t.Fatalf("reference derive: %v", err)
	}
	if !got.Equals(want) || gotBump != wantBump {
		t.Fatalf("got %s/%d, want %s/%d", got, gotBump, want, wantBump)
	}
}

func TestFindAssociatedTokenAddressMatchesLibrary(t *testing.T) {
	owner := solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	mint := solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")

	got, _, err := FindAssociatedTokenAddress(owner, mint,
		solana.TokenProgramID, solana.SPLAssociatedTokenAccountProgramID)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	want, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		t.Fatalf("library derive: %v", err)
	}
	if !got.Equals(want) {
		t.Fatalf("got %s, want %s", got, want)
	}
}
