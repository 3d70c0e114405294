// Package sale orchestrates the three-phase token-sale lifecycle against
// the on-chain sale program: initialize, fund, execute. The client builds
// and submits instructions; every business rule (price bounds, whitelist,
// go-live time) is enforced by the program, not here.
package sale

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/rs/zerolog"

	"github.com/solrazr/tokensale-go-sdk/pkg/config"
	"github.com/solrazr/tokensale-go-sdk/pkg/constants"
	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
	"github.com/solrazr/tokensale-go-sdk/pkg/rpc"
	"github.com/solrazr/tokensale-go-sdk/pkg/txbuilder"
	"github.com/solrazr/tokensale-go-sdk/pkg/types"
	"github.com/solrazr/tokensale-go-sdk/pkg/wallet"
)

// Client drives one sale instance through its phases. Operations are meant
// to run strictly sequentially; the client performs one submission per call
// and waits for confirmation before returning.
type Client struct {
	identity Identity
	phase    Phase

	// stateSigner holds the sale-state keypair when this client created the
	// sale. Reattached clients have no key and cannot initialize.
	stateSigner *wallet.Local

	rpc     *rpc.Client
	builder *txbuilder.Builder
	level   txbuilder.ConfirmationLevel
	settle  time.Duration
	log     zerolog.Logger
}

// New creates a client for a sale that does not exist on chain yet. It
// mints a fresh keypair for the sale-state account and performs no network
// calls. Persist SaleStateSigner if the sale must survive a restart.
func New(rpcClient *rpc.Client, builder *txbuilder.Builder, payer solana.PublicKey, cfg config.SaleConfig, logger zerolog.Logger) (*Client, error) {
	if rpcClient == nil {
		return nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"payer":            payer,
		"saleProgram":      cfg.SaleProgram,
		"whitelistProgram": cfg.WhitelistProgram,
		"whitelistMap":     cfg.WhitelistMap,
		"usdtMint":         cfg.USDTMint,
		"saleMint":         cfg.SaleMint,
	}); err != nil {
		return nil, err
	}

	stateSigner, err := wallet.NewEphemeral()
	if err != nil {
		return nil, err
	}

	c := newClient(rpcClient, builder, cfg, logger)
	c.identity = identityFromConfig(payer, cfg, stateSigner.PublicKey())
	c.stateSigner = &stateSigner
	c.phase = PhaseUninitialized
	return c, nil
}

// Reattach builds a client for a sale that already exists on chain. It
// fetches the sale-state record to recover the phase: an initialized record
// whose sale token account holds a balance is treated as funded.
func Reattach(ctx context.Context, rpcClient *rpc.Client, builder *txbuilder.Builder, payer, saleState solana.PublicKey, cfg config.SaleConfig, logger zerolog.Logger) (*Client, error) {
	if rpcClient == nil {
		return nil, types.ErrNilRPC
	}
	if err := types.ValidatePublicKey("saleState", saleState); err != nil {
		return nil, err
	}

	c := newClient(rpcClient, builder, cfg, logger)
	c.identity = identityFromConfig(payer, cfg, saleState)

	state, err := c.State(ctx)
	if err != nil {
		return nil, fmt.Errorf("reattach: %w", err)
	}
	if !state.IsInitialized {
		return nil, types.ErrSaleNotInitialized
	}

	c.phase = PhaseInitialized
	if balance, err := rpcClient.GetTokenAccountBalance(ctx, state.SaleTokenAccount); err == nil && balance > 0 {
		c.phase = PhaseFunded
	}

	c.log.Info().
		Stringer("saleState", saleState).
		Stringer("phase", c.phase).
		Msg("reattached to existing sale")
	return c, nil
}

func newClient(rpcClient *rpc.Client, builder *txbuilder.Builder, cfg config.SaleConfig, logger zerolog.Logger) *Client {
	if builder == nil {
		builder = txbuilder.NewBuilder(rpcClient, rpcClient.Commitment())
	}
	return &Client{
		rpc:     rpcClient,
		builder: builder,
		level:   txbuilder.ConfirmationConfirmed,
		settle:  cfg.SettleDelay,
		log:     logger,
	}
}

func identityFromConfig(payer solana.PublicKey, cfg config.SaleConfig, saleState solana.PublicKey) Identity {
	tokenProgram := cfg.TokenProgram
	if tokenProgram.IsZero() {
		tokenProgram = constants.TokenProgramID
	}
	ataProgram := cfg.ATAProgram
	if ataProgram.IsZero() {
		ataProgram = constants.AssociatedTokenProgramID
	}
	return Identity{
		Payer:            payer,
		USDTMint:         cfg.USDTMint,
		SaleMint:         cfg.SaleMint,
		SaleState:        saleState,
		WhitelistMap:     cfg.WhitelistMap,
		SaleProgram:      cfg.SaleProgram,
		WhitelistProgram: cfg.WhitelistProgram,
		TokenProgram:     tokenProgram,
		ATAProgram:       ataProgram,
	}
}

// Identity returns the sale's immutable address set.
func (c *Client) Identity() Identity {
	return c.identity
}

// Phase returns the client-tracked lifecycle stage.
func (c *Client) Phase() Phase {
	return c.phase
}

// SaleStateSigner exposes the sale-state keypair for persistence. Nil on
// reattached clients.
func (c *Client) SaleStateSigner() *wallet.Local {
	return c.stateSigner
}

// WithConfirmationLevel overrides the confirmation depth per operation.
func (c *Client) WithConfirmationLevel(level txbuilder.ConfirmationLevel) *Client {
	c.level = level
	return c
}

func (c *Client) requirePhase(op string, min Phase) error {
	if c.phase < min {
		return types.PhaseError{Op: op, Phase: c.phase.String(), Required: min.String()}
	}
	return nil
}

func (c *Client) settleDelay(ctx context.Context) error {
	if c.settle <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.settle):
		return nil
	}
}

// InitParams carries the sale terms for Initialize. TokenSalePrice is the
// human price (e.g. 0.1 USD per token); the client stores its reciprocal
// form on the wire.
type InitParams struct {
	TokenSaleAmount tokensale.Numberu64
	UsdMinAmount    tokensale.Numberu64
	UsdMaxAmount    tokensale.Numberu64
	TokenSalePrice  float64
	SaleTime        tokensale.Numberu64
}

// Initialize creates the sale-state account and submits InitTokenSale, both
// atomically in one transaction signed by the payer, the pool authority,
// and the fresh sale-state keypair. On success the sale-state record exists
// on chain and the phase advances to initialized.
func (c *Client) Initialize(ctx context.Context, payer, authority wallet.Signer, poolUSDTAccount, saleTokenAccount solana.PublicKey, params InitParams) (solana.Signature, error) {
	if c.phase != PhaseUninitialized {
		return solana.Signature{}, types.PhaseError{Op: "initialize", Phase: c.phase.String(), Required: PhaseUninitialized.String()}
	}
	if c.stateSigner == nil {
		return solana.Signature{}, errors.New("sale: reattached client cannot initialize")
	}
	if authority == nil {
		return solana.Signature{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"poolUSDTAccount":  poolUSDTAccount,
		"saleTokenAccount": saleTokenAccount,
	}); err != nil {
		return solana.Signature{}, err
	}
	if err := types.ValidateAmount("tokenSaleAmount", params.TokenSaleAmount.Uint64()); err != nil {
		return solana.Signature{}, err
	}
	if err := types.ValidateUsdBounds(params.UsdMinAmount.Uint64(), params.UsdMaxAmount.Uint64()); err != nil {
		return solana.Signature{}, err
	}

	price, err := tokensale.ReciprocalPrice(params.TokenSalePrice)
	if err != nil {
		return solana.Signature{}, err
	}

	// The sale-state account is allocated in the same transaction, sized to
	// the packed record and owned by the sale program.
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, uint64(tokensale.SaleStateLen))
	if err != nil {
		return solana.Signature{}, types.SubmissionError{Op: "get rent-exempt minimum", Err: err}
	}

	createIx, err := system.NewCreateAccountInstruction(
		lamports,
		uint64(tokensale.SaleStateLen),
		c.identity.SaleProgram,
		payer.PublicKey(),
		c.identity.SaleState,
	).ValidateAndBuild()
	if err != nil {
		return solana.Signature{}, fmt.Errorf("build create account: %w", err)
	}

	initIx, err := tokensale.BuildInit(tokensale.InitAccounts{
		Program:          c.identity.SaleProgram,
		PoolAuthority:    authority.PublicKey(),
		SaleState:        c.identity.SaleState,
		PoolUSDTAccount:  poolUSDTAccount,
		SaleTokenAccount: saleTokenAccount,
		WhitelistMap:     c.identity.WhitelistMap,
		TokenProgram:     c.identity.TokenProgram,
		WhitelistProgram: c.identity.WhitelistProgram,
		RentSysvar:       constants.SysvarRentPubkey,
	}, tokensale.InitArgs{
		TokenSaleAmount: params.TokenSaleAmount,
		UsdMinAmount:    params.UsdMinAmount,
		UsdMaxAmount:    params.UsdMaxAmount,
		TokenSalePrice:  tokensale.NewNumberu64(price),
		TokenSaleTime:   params.SaleTime,
	})
	if err != nil {
		return solana.Signature{}, err
	}

	c.log.Info().
		Stringer("saleState", c.identity.SaleState).
		Uint64("tokenSaleAmount", params.TokenSaleAmount.Uint64()).
		Uint64("priceReciprocal", price).
		Msg("initializing token sale")

	sig, err := c.builder.BuildSignSendAndConfirm(ctx, payer,
		[]wallet.Signer{authority, *c.stateSigner}, c.level, createIx, initIx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := c.settleDelay(ctx); err != nil {
		return sig, err
	}

	c.phase = PhaseInitialized
	return sig, nil
}

// Fund moves sale tokens from the pool's token account into the sale token
// account. Requires an initialized sale; signed by the payer and the pool
// authority. On success the phase advances to funded.
func (c *Client) Fund(ctx context.Context, payer, authority wallet.Signer, poolTokenAccount, saleTokenAccount solana.PublicKey, amount tokensale.Numberu64) (solana.Signature, error) {
	if err := c.requirePhase("fund", PhaseInitialized); err != nil {
		return solana.Signature{}, err
	}
	if authority == nil {
		return solana.Signature{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"poolTokenAccount": poolTokenAccount,
		"saleTokenAccount": saleTokenAccount,
	}); err != nil {
		return solana.Signature{}, err
	}
	if err := types.ValidateAmount("amount", amount.Uint64()); err != nil {
		return solana.Signature{}, err
	}

	fundIx, err := tokensale.BuildFund(tokensale.FundAccounts{
		Program:          c.identity.SaleProgram,
		PoolAuthority:    authority.PublicKey(),
		SaleState:        c.identity.SaleState,
		PoolTokenAccount: poolTokenAccount,
		SaleTokenAccount: saleTokenAccount,
		TokenProgram:     c.identity.TokenProgram,
	}, tokensale.FundArgs{TokenSaleAmount: amount})
	if err != nil {
		return solana.Signature{}, err
	}

	c.log.Info().
		Stringer("saleState", c.identity.SaleState).
		Uint64("amount", amount.Uint64()).
		Msg("funding token sale")

	sig, err := c.builder.BuildSignSendAndConfirm(ctx, payer,
		[]wallet.Signer{authority}, c.level, fundIx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := c.settleDelay(ctx); err != nil {
		return sig, err
	}

	c.phase = PhaseFunded
	return sig, nil
}

// ExecuteParams names the buyer-side accounts for one purchase.
type ExecuteParams struct {
	UserSource       solana.PublicKey // buyer's USDT account, debited
	UserDestination  solana.PublicKey // buyer's sale-token account, credited
	SaleTokenAccount solana.PublicKey
	PoolDestination  solana.PublicKey // pool's USDT account, credited
	WhitelistAccount solana.PublicKey // buyer's whitelist entry
	UsdAmount        tokensale.Numberu64
}

// Execute submits one purchase signed by the buyer. Requires a funded sale.
// The caller must not invoke it before the configured sale go-live time;
// the program rejects early purchases and this client does not wait for the
// clock. Repeatable; does not advance the phase.
func (c *Client) Execute(ctx context.Context, user wallet.Signer, params ExecuteParams) (solana.Signature, error) {
	if err := c.requirePhase("execute", PhaseFunded); err != nil {
		return solana.Signature{}, err
	}
	if user == nil {
		return solana.Signature{}, types.ErrNilSigner
	}
	if err := types.ValidatePublicKeys(map[string]solana.PublicKey{
		"userSource":       params.UserSource,
		"userDestination":  params.UserDestination,
		"saleTokenAccount": params.SaleTokenAccount,
		"poolDestination":  params.PoolDestination,
		"whitelistAccount": params.WhitelistAccount,
	}); err != nil {
		return solana.Signature{}, err
	}
	if err := types.ValidateAmount("usdAmount", params.UsdAmount.Uint64()); err != nil {
		return solana.Signature{}, err
	}

	saleAuthority, _, err := tokensale.FindSaleAuthority(c.identity.SaleProgram)
	if err != nil {
		return solana.Signature{}, err
	}

	executeIx, err := tokensale.BuildExecute(tokensale.ExecuteAccounts{
		Program:          c.identity.SaleProgram,
		User:             user.PublicKey(),
		SaleState:        c.identity.SaleState,
		SaleTokenAccount: params.SaleTokenAccount,
		UserDestination:  params.UserDestination,
		UserSource:       params.UserSource,
		PoolDestination:  params.PoolDestination,
		SaleAuthority:    saleAuthority,
		TokenProgram:     c.identity.TokenProgram,
		WhitelistMap:     c.identity.WhitelistMap,
		WhitelistAccount: params.WhitelistAccount,
		WhitelistProgram: c.identity.WhitelistProgram,
	}, tokensale.ExecuteArgs{UsdAmount: params.UsdAmount})
	if err != nil {
		return solana.Signature{}, err
	}

	c.log.Info().
		Stringer("saleState", c.identity.SaleState).
		Stringer("user", user.PublicKey()).
		Uint64("usdAmount", params.UsdAmount.Uint64()).
		Msg("executing token sale purchase")

	sig, err := c.builder.BuildSignSendAndConfirm(ctx, user, nil, c.level, executeIx)
	if err != nil {
		return solana.Signature{}, err
	}
	if err := c.settleDelay(ctx); err != nil {
		return sig, err
	}
	return sig, nil
}

// State fetches and decodes the sale-state record from the ledger.
func (c *Client) State(ctx context.Context) (*tokensale.SaleState, error) {
	data, err := c.rpc.GetAccountData(ctx, c.identity.SaleState)
	if err != nil {
		if errors.Is(err, types.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrSaleStateNotFound, c.identity.SaleState)
		}
		return nil, types.SubmissionError{Op: "fetch sale state", Err: err}
	}
	return tokensale.UnpackSaleState(data)
}

// AssociatedTokenAccount derives the canonical token account for an owner
// and mint under this sale's token programs.
func (c *Client) AssociatedTokenAccount(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := tokensale.FindAssociatedTokenAddress(owner, mint, c.identity.TokenProgram, c.identity.ATAProgram)
	return addr, err
}
