package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/solrazr/tokensale-go-sdk/pkg/program/tokensale"
	"github.com/solrazr/tokensale-go-sdk/pkg/quote"
	"github.com/solrazr/tokensale-go-sdk/pkg/sale"
	"github.com/solrazr/tokensale-go-sdk/pkg/wallet"
)

const cmdTimeout = 90 * time.Second

func newInitCmd(opts *globalOpts) *cobra.Command {
	var (
		authorityPath   string
		poolUSDTStr     string
		saleTokenStr    string
		amount          uint64
		usdMin          uint64
		usdMax          uint64
		price           float64
		saleTimeUnix    uint64
		stateKeyOutPath string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the sale-state account and initialize the sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()

			deps, err := newDeps(opts)
			if err != nil {
				return err
			}
			payer, err := wallet.NewLocalFromKeygen(opts.payerPath)
			if err != nil {
				return err
			}
			authority, err := wallet.NewLocalFromKeygen(authorityPath)
			if err != nil {
				return err
			}
			poolUSDT, err := parsePubkey("pool-usdt-account", poolUSDTStr)
			if err != nil {
				return err
			}
			saleToken, err := parsePubkey("sale-token-account", saleTokenStr)
			if err != nil {
				return err
			}

			client, err := sale.New(deps.rpc, deps.builder, payer.PublicKey(), deps.saleCfg, deps.log)
			if err != nil {
				return err
			}

			sig, err := client.Initialize(ctx, payer, authority, poolUSDT, saleToken, sale.InitParams{
				TokenSaleAmount: tokensale.NewNumberu64(amount),
				UsdMinAmount:    tokensale.NewNumberu64(usdMin),
				UsdMaxAmount:    tokensale.NewNumberu64(usdMax),
				TokenSalePrice:  price,
				SaleTime:        tokensale.NewNumberu64(saleTimeUnix),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\nsale-state: %s\n",
				sig, client.Identity().SaleState)
			if stateKeyOutPath != "" {
				if err := writeKeypair(stateKeyOutPath, client.SaleStateSigner()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sale-state keypair written to %s\n", stateKeyOutPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&authorityPath, "authority", "", "pool authority keypair path")
	cmd.Flags().StringVar(&poolUSDTStr, "pool-usdt-account", "", "pool USDT account receiving funds")
	cmd.Flags().StringVar(&saleTokenStr, "sale-token-account", "", "sale token account holding tokens on sale")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "token amount on sale (base units)")
	cmd.Flags().Uint64Var(&usdMin, "usd-min", 0, "minimum purchase (USD base units)")
	cmd.Flags().Uint64Var(&usdMax, "usd-max", 0, "maximum purchase (USD base units)")
	cmd.Flags().Float64Var(&price, "price", 0, "token price in USD (e.g. 0.1)")
	cmd.Flags().Uint64Var(&saleTimeUnix, "sale-time", 0, "go-live unix timestamp")
	cmd.Flags().StringVar(&stateKeyOutPath, "state-key-out", "", "write the sale-state keypair to this path")
	return cmd
}

func newFundCmd(opts *globalOpts) *cobra.Command {
	var (
		authorityPath string
		saleStateStr  string
		poolTokenStr  string
		saleTokenStr  string
		amount        uint64
	)

	cmd := &cobra.Command{
		Use:   "fund",
		Short: "Deposit sale tokens into an initialized sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()

			deps, err := newDeps(opts)
			if err != nil {
				return err
			}
			payer, err := wallet.NewLocalFromKeygen(opts.payerPath)
			if err != nil {
				return err
			}
			authority, err := wallet.NewLocalFromKeygen(authorityPath)
			if err != nil {
				return err
			}
			saleState, err := parsePubkey("sale-state", saleStateStr)
			if err != nil {
				return err
			}
			poolToken, err := parsePubkey("pool-token-account", poolTokenStr)
			if err != nil {
				return err
			}
			saleToken, err := parsePubkey("sale-token-account", saleTokenStr)
			if err != nil {
				return err
			}

			client, err := sale.Reattach(ctx, deps.rpc, deps.builder, payer.PublicKey(), saleState, deps.saleCfg, deps.log)
			if err != nil {
				return err
			}

			sig, err := client.Fund(ctx, payer, authority, poolToken, saleToken, tokensale.NewNumberu64(amount))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\n", sig)
			return nil
		},
	}

	cmd.Flags().StringVar(&authorityPath, "authority", "", "pool authority keypair path")
	cmd.Flags().StringVar(&saleStateStr, "sale-state", "", "sale-state account")
	cmd.Flags().StringVar(&poolTokenStr, "pool-token-account", "", "pool token account funding the sale")
	cmd.Flags().StringVar(&saleTokenStr, "sale-token-account", "", "sale token account")
	cmd.Flags().Uint64Var(&amount, "amount", 0, "token amount to deposit (base units)")
	return cmd
}

func newExecuteCmd(opts *globalOpts) *cobra.Command {
	var (
		userPath         string
		saleStateStr     string
		userSourceStr    string
		userDestStr      string
		saleTokenStr     string
		poolDestStr      string
		whitelistAcctStr string
		usdAmount        uint64
	)

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Buy from a funded sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()

			deps, err := newDeps(opts)
			if err != nil {
				return err
			}
			user, err := wallet.NewLocalFromKeygen(userPath)
			if err != nil {
				return err
			}
			saleState, err := parsePubkey("sale-state", saleStateStr)
			if err != nil {
				return err
			}
			userSource, err := parsePubkey("user-source", userSourceStr)
			if err != nil {
				return err
			}
			userDest, err := parsePubkey("user-destination", userDestStr)
			if err != nil {
				return err
			}
			saleToken, err := parsePubkey("sale-token-account", saleTokenStr)
			if err != nil {
				return err
			}
			poolDest, err := parsePubkey("pool-destination", poolDestStr)
			if err != nil {
				return err
			}
			whitelistAcct, err := parsePubkey("whitelist-account", whitelistAcctStr)
			if err != nil {
				return err
			}

			client, err := sale.Reattach(ctx, deps.rpc, deps.builder, user.PublicKey(), saleState, deps.saleCfg, deps.log)
			if err != nil {
				return err
			}

			sig, err := client.Execute(ctx, user, sale.ExecuteParams{
				UserSource:       userSource,
				UserDestination:  userDest,
				SaleTokenAccount: saleToken,
				PoolDestination:  poolDest,
				WhitelistAccount: whitelistAcct,
				UsdAmount:        tokensale.NewNumberu64(usdAmount),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signature: %s\n", sig)
			return nil
		},
	}

	cmd.Flags().StringVar(&userPath, "user", "", "buyer keypair path")
	cmd.Flags().StringVar(&saleStateStr, "sale-state", "", "sale-state account")
	cmd.Flags().StringVar(&userSourceStr, "user-source", "", "buyer USDT account")
	cmd.Flags().StringVar(&userDestStr, "user-destination", "", "buyer sale-token account")
	cmd.Flags().StringVar(&saleTokenStr, "sale-token-account", "", "sale token account")
	cmd.Flags().StringVar(&poolDestStr, "pool-destination", "", "pool USDT account")
	cmd.Flags().StringVar(&whitelistAcctStr, "whitelist-account", "", "buyer whitelist entry account")
	cmd.Flags().Uint64Var(&usdAmount, "usd-amount", 0, "purchase amount (USD base units)")
	return cmd
}

func newStateCmd(opts *globalOpts) *cobra.Command {
	var saleStateStr string

	cmd := &cobra.Command{
		Use:   "state",
		Short: "Fetch and decode a sale-state account",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()

			deps, err := newDeps(opts)
			if err != nil {
				return err
			}
			saleState, err := parsePubkey("sale-state", saleStateStr)
			if err != nil {
				return err
			}

			data, err := deps.rpc.GetAccountData(ctx, saleState)
			if err != nil {
				return err
			}
			state, err := tokensale.UnpackSaleState(data)
			if err != nil {
				return err
			}

			bz, _ := json.MarshalIndent(state, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	cmd.Flags().StringVar(&saleStateStr, "sale-state", "", "sale-state account")
	return cmd
}

func newQuoteCmd(opts *globalOpts) *cobra.Command {
	var (
		saleStateStr string
		usdAmount    uint64
	)

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview a purchase against a sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), cmdTimeout)
			defer cancel()

			deps, err := newDeps(opts)
			if err != nil {
				return err
			}
			saleState, err := parsePubkey("sale-state", saleStateStr)
			if err != nil {
				return err
			}

			preview, err := quote.ForSale(ctx, deps.rpc, saleState, usdAmount)
			if err != nil {
				return err
			}

			bz, _ := json.MarshalIndent(preview, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(bz))
			return nil
		},
	}

	cmd.Flags().StringVar(&saleStateStr, "sale-state", "", "sale-state account")
	cmd.Flags().Uint64Var(&usdAmount, "usd-amount", 0, "purchase amount (USD base units)")
	return cmd
}
