// Package quote previews purchase outcomes from decoded sale state. All
// numbers are client-side estimates for display; the program recomputes
// everything on chain and its result is the only binding one.
package quote

import (
	"context"
	"fmt"
	"math/big"
	"time"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"

	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
	"github.com/solrazr/tokensale-go-sdk/pkg/rpc"
	"github.com/solrazr/tokensale-go-sdk/pkg/types"
)

// Preview is a client-side estimate of one purchase.
type Preview struct {
	// ExpectedTokens is the sale-token amount a purchase of UsdAmount buys:
	// usd * priceReciprocal / 100.
	ExpectedTokens uint64

	// UsdAmount echoes the input.
	UsdAmount uint64

	// BelowMinimum / AboveMaximum flag the configured purchase window.
	// Display hints only; the program enforces the window itself.
	BelowMinimum bool
	AboveMaximum bool

	// Live reports whether the sale go-live time has passed.
	Live bool

	// Remaining is the configured total sale amount. The funded balance
	// must be read from the sale token account to know what is left.
	Remaining uint64
}

// TokensOut converts a USD purchase amount to sale tokens using the stored
// reciprocal price (round(1/price) * 100).
func TokensOut(usdAmount, priceReciprocal uint64) (uint64, error) {
	product := new(big.Int).Mul(
		new(big.Int).SetUint64(usdAmount),
		new(big.Int).SetUint64(priceReciprocal),
	)
	product.Div(product, big.NewInt(100))
	if product.BitLen() > 64 {
		return 0, fmt.Errorf("%w: token amount overflows u64", tokensale.ErrEncoding)
	}
	return product.Uint64(), nil
}

// FromState previews a purchase against a decoded sale-state record.
func FromState(state *tokensale.SaleState, usdAmount uint64, now time.Time) (*Preview, error) {
	if state == nil {
		return nil, types.ErrSaleNotInitialized
	}
	if !state.IsInitialized {
		return nil, types.ErrSaleNotInitialized
	}
	if usdAmount == 0 {
		return nil, types.NewValidationError("usdAmount", "must be greater than 0")
	}

	expected, err := TokensOut(usdAmount, state.TokenSalePrice)
	if err != nil {
		return nil, err
	}

	return &Preview{
		ExpectedTokens: expected,
		UsdAmount:      usdAmount,
		BelowMinimum:   usdAmount < state.UsdMinAmount,
		AboveMaximum:   state.UsdMaxAmount > 0 && usdAmount > state.UsdMaxAmount,
		Live:           uint64(now.Unix()) >= state.TokenSaleTime,
		Remaining:      state.TokenSaleAmount,
	}, nil
}

// ForSale fetches the sale-state record and previews a purchase against it.
func ForSale(ctx context.Context, client *rpc.Client, saleState solana.PublicKey, usdAmount uint64) (*Preview, error) {
	if client == nil {
		return nil, types.ErrNilRPC
	}
	data, err := client.GetAccountData(ctx, saleState)
	if err != nil {
		return nil, err
	}
	state, err := tokensale.UnpackSaleState(data)
	if err != nil {
		return nil, err
	}
	return FromState(state, usdAmount, time.Now())
}

// DecodeTokenAccount decodes a raw SPL token account record.
func DecodeTokenAccount(data []byte) (*token.Account, error) {
	var acc token.Account
	if err := bin.NewBinDecoder(data).Decode(&acc); err != nil {
		return nil, fmt.Errorf("decode token account: %w", err)
	}
	return &acc, nil
}

// TokenBalance fetches an SPL token account and returns its raw balance.
// Used to verify the externally observed deltas after fund and execute.
func TokenBalance(ctx context.Context, client *rpc.Client, account solana.PublicKey) (uint64, error) {
	if client == nil {
		return 0, types.ErrNilRPC
	}
	data, err := client.GetAccountData(ctx, account)
	if err != nil {
		return 0, err
	}
	acc, err := DecodeTokenAccount(data)
	if err != nil {
		return 0, err
	}
	return acc.Amount, nil
}
