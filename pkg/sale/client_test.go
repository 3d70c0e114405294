package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"

	"github.com/solrazr/tokensale-go-sdk/pkg/config"
	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
	"github.com/solrazr/tokensale-go-sdk/pkg/rpc"
	"github.com/solrazr/tokensale-go-sdk/pkg/types"
	"github.com/solrazr/tokensale-go-sdk/pkg/wallet"
)

func testKey(tag byte) solana.PublicKey {
	var b [32]byte
	for i := range b {
		b[i] = tag
	}
	return solana.PublicKeyFromBytes(b[:])
}

func testSaleConfig() config.SaleConfig {
	cfg := config.DefaultSaleConfig()
	cfg.SaleProgram = testKey(1)
	cfg.WhitelistProgram = testKey(2)
	cfg.WhitelistMap = testKey(3)
	cfg.USDTMint = testKey(4)
	cfg.SaleMint = testKey(5)
	return cfg
}

// newTestClient builds a sale client with a real (but never dialed) RPC
// wrapper. Phase checks fire before any network call, so these tests run
// offline.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	rpcClient := rpc.NewClient(config.DefaultRPCConfig())
	payer, err := wallet.NewEphemeral()
	if err != nil {
		t.Fatalf("payer keypair: %v", err)
	}
	c, err := New(rpcClient, nil, payer.PublicKey(), testSaleConfig(), zerolog.Nop())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewClient(t *testing.T) {
	c := newTestClient(t)

	if c.Phase() != PhaseUninitialized {
		t.Fatalf("phase: got %s, want uninitialized", c.Phase())
	}
	if c.SaleStateSigner() == nil {
		t.Fatal("fresh client has no sale-state keypair")
	}
	if !c.Identity().SaleState.Equals(c.SaleStateSigner().PublicKey()) {
		t.Fatal("identity sale-state differs from generated keypair")
	}
	if c.Identity().TokenProgram.IsZero() || c.Identity().ATAProgram.IsZero() {
		t.Fatal("SPL program defaults not filled")
	}
}

func TestNewClientFreshStateKeyPerSale(t *testing.T) {
	a := newTestClient(t)
	b := newTestClient(t)
	if a.Identity().SaleState.Equals(b.Identity().SaleState) {
		t.Fatal("two clients share a sale-state address")
	}
}

func TestNewClientRejectsZeroKeys(t *testing.T) {
	rpcClient := rpc.NewClient(config.DefaultRPCConfig())
	cfg := testSaleConfig()
	cfg.SaleProgram = solana.PublicKey{}

	_, err := New(rpcClient, nil, testKey(9), cfg, zerolog.Nop())
	var valErr types.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestFundBeforeInitializeIsPhaseError(t *testing.T) {
	c := newTestClient(t)
	payer, _ := wallet.NewEphemeral()

	_, err := c.Fund(context.Background(), payer, payer, testKey(11), testKey(12),
		tokensale.NewNumberu64(1_000_000_000_000))
	var phaseErr types.PhaseError
	if !errors.As(err, &phaseErr) {
		t.Fatalf("got %v, want PhaseError", err)
	}
	if phaseErr.Op != "fund" {
		t.Fatalf("op: got %s", phaseErr.Op)
	}
}

func TestExecuteBeforeFundIsPhaseError(t *testing.T) {
	c := newTestClient(t)
	user, _ := wallet.NewEphemeral()

	_, err := c.Execute(context.Background(), user, ExecuteParams{
		UserSource:       testKey(11),
		UserDestination:  testKey(12),
		SaleTokenAccount: testKey(13),
		PoolDestination:  testKey(14),
		WhitelistAccount: testKey(15),
		UsdAmount:        tokensale.NewNumberu64(250_000_000),
	})
	var phaseErr types.PhaseError
	if !errors.As(err, &phaseErr) {
		t.Fatalf("got %v, want PhaseError", err)
	}
	if phaseErr.Op != "execute" {
		t.Fatalf("op: got %s", phaseErr.Op)
	}

	// Initialized is still not enough for execute.
	c.phase = PhaseInitialized
	_, err = c.Execute(context.Background(), user, ExecuteParams{
		UserSource:       testKey(11),
		UserDestination:  testKey(12),
		SaleTokenAccount: testKey(13),
		PoolDestination:  testKey(14),
		WhitelistAccount: testKey(15),
		UsdAmount:        tokensale.NewNumberu64(250_000_000),
	})
	if !errors.As(err, &phaseErr) {
		t.Fatalf("initialized phase: got %v, want PhaseError", err)
	}
}

func TestExecuteValidatesInputsAfterPhase(t *testing.T) {
	c := newTestClient(t)
	c.phase = PhaseFunded
	user, _ := wallet.NewEphemeral()

	_, err := c.Execute(context.Background(), user, ExecuteParams{
		UserSource:       solana.PublicKey{},
		UserDestination:  testKey(12),
		SaleTokenAccount: testKey(13),
		PoolDestination:  testKey(14),
		WhitelistAccount: testKey(15),
		UsdAmount:        tokensale.NewNumberu64(1),
	})
	var valErr types.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestFundValidatesAmount(t *testing.T) {
	c := newTestClient(t)
	c.phase = PhaseInitialized
	payer, _ := wallet.NewEphemeral()

	_, err := c.Fund(context.Background(), payer, payer, testKey(11), testKey(12),
		tokensale.NewNumberu64(0))
	var valErr types.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("got %v, want ValidationError", err)
	}
}

func TestInitializeTwiceIsPhaseError(t *testing.T) {
	c := newTestClient(t)
	c.phase = PhaseInitialized
	payer, _ := wallet.NewEphemeral()

	_, err := c.Initialize(context.Background(), payer, payer, testKey(11), testKey(12), InitParams{
		TokenSaleAmount: tokensale.NewNumberu64(1),
		TokenSalePrice:  0.1,
	})
	var phaseErr types.PhaseError
	if !errors.As(err, &phaseErr) {
		t.Fatalf("got %v, want PhaseError", err)
	}
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		PhaseUninitialized: "uninitialized",
		PhaseInitialized:   "initialized",
		PhaseFunded:        "funded",
	}
	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Fatalf("phase %d: got %s, want %s", phase, got, want)
		}
	}
}
